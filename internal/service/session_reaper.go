package service

import (
	"context"
	"log"
	"time"

	"doccompare/internal/metrics"
	"doccompare/internal/port"
)

// StaleSessionMessage is recorded on sessions the reaper fails.
const StaleSessionMessage = "analysis interrupted"

// SessionReaperConfig holds settings for the session reaper.
type SessionReaperConfig struct {
	PollInterval time.Duration
	StaleAfter   time.Duration
}

// SessionReaper fails sessions left in processing by a crashed or restarted
// process, so none stays in processing forever.
type SessionReaper struct {
	repo    port.SessionRepository
	cfg     SessionReaperConfig
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewSessionReaper creates a new SessionReaper.
func NewSessionReaper(repo port.SessionRepository, cfg SessionReaperConfig, m *metrics.Metrics) *SessionReaper {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Minute
	}
	return &SessionReaper{
		repo:    repo,
		cfg:     cfg,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Start runs the polling loop until ctx is canceled.
func (r *SessionReaper) Start(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	log.Printf("sessionReaper: started (poll=%s, staleAfter=%s)", r.cfg.PollInterval, r.cfg.StaleAfter)

	for {
		select {
		case <-ctx.Done():
			log.Printf("sessionReaper: shutdown complete")
			return
		case <-ticker.C:
			if _, err := r.Sweep(ctx); err != nil && ctx.Err() == nil {
				log.Printf("sessionReaper: sweep error: %v", err)
			}
		}
	}
}

// Sweep fails every processing session older than StaleAfter once.
func (r *SessionReaper) Sweep(ctx context.Context) (int64, error) {
	cutoff := r.now().Add(-r.cfg.StaleAfter)
	n, err := r.repo.FailStale(ctx, cutoff, StaleSessionMessage)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("sessionReaper: failed %d stale sessions (cutoff %s)", n, cutoff.Format(time.RFC3339))
		r.metrics.AddStaleFailed(n)
	}
	return n, nil
}
