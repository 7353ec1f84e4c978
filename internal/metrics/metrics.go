// Package metrics exposes Prometheus instrumentation for analysis sessions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"doccompare/internal/domain"
)

const namespace = "doccompare"

// Metrics holds the collectors recorded by the analysis pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	sessions         *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	downloads        *prometheus.CounterVec
	staleFailed      prometheus.Counter
	gatherer         prometheus.Gatherer
}

// New registers collectors with reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		// Labels: mode (remote, uploaded), status (completed, failed)
		sessions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "sessions_total",
			Help:      "Analysis sessions by mode and terminal status",
		}, []string{"mode", "status"}),
		analysisDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "End-to-end analysis latency in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120, 300},
		}, []string{"mode", "status"}),
		// Labels: result (ok, error)
		downloads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "document_downloads_total",
			Help:      "Uploaded document downloads by result",
		}, []string{"result"}),
		staleFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reaper",
			Name:      "stale_sessions_failed_total",
			Help:      "Sessions failed by the reaper after being stuck in processing",
		}),
		gatherer: reg,
	}
}

// ObserveSession records one finished analysis.
func (m *Metrics) ObserveSession(mode domain.AnalysisMode, status domain.SessionStatus, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(string(mode), string(status)).Inc()
	m.analysisDuration.WithLabelValues(string(mode), string(status)).Observe(elapsed.Seconds())
}

// ObserveDownload records one blob download attempt.
func (m *Metrics) ObserveDownload(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.downloads.WithLabelValues(result).Inc()
}

// AddStaleFailed records sessions failed by the reaper.
func (m *Metrics) AddStaleFailed(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.staleFailed.Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
