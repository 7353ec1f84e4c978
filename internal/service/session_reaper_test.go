package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"doccompare/internal/metrics"
	"doccompare/internal/service"
	"doccompare/mocks"
)

func TestSessionReaper_Sweep(t *testing.T) {
	repo := new(mocks.MockSessionRepo)
	reg := prometheus.NewRegistry()
	reaper := service.NewSessionReaper(repo, service.SessionReaperConfig{
		PollInterval: time.Minute,
		StaleAfter:   15 * time.Minute,
	}, metrics.New(reg))

	before := time.Now().UTC()
	repo.On("FailStale", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		return !cutoff.After(before.Add(-15*time.Minute).Add(time.Second)) &&
			cutoff.After(before.Add(-16*time.Minute))
	}), service.StaleSessionMessage).Return(int64(3), nil)

	n, err := reaper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, 3.0, counterValue(t, reg, "doccompare_reaper_stale_sessions_failed_total"))
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not registered", name)
	return 0
}

func TestSessionReaper_Sweep_Error(t *testing.T) {
	repo := new(mocks.MockSessionRepo)
	reaper := service.NewSessionReaper(repo, service.SessionReaperConfig{PollInterval: time.Minute, StaleAfter: time.Minute}, nil)
	repo.On("FailStale", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	_, err := reaper.Sweep(context.Background())
	assert.Error(t, err)
}

func TestSessionReaper_StartStopsOnCancel(t *testing.T) {
	repo := new(mocks.MockSessionRepo)
	swept := make(chan struct{}, 1)
	repo.On("FailStale", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case swept <- struct{}{}:
			default:
			}
		}).
		Return(int64(0), nil)
	reaper := service.NewSessionReaper(repo, service.SessionReaperConfig{
		PollInterval: 5 * time.Millisecond,
		StaleAfter:   time.Minute,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reaper.Start(ctx)
		close(done)
	}()

	select {
	case <-swept:
	case <-time.After(time.Second):
		t.Fatal("reaper never swept")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop")
	}
}
