package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/portal/internal/portal/observability"
	"github.com/aussiebroadwan/portal/internal/portal/store"
)

// HousekeepingService periodically deletes sessions that have expired but
// were never presented again, so the guard never got to remove them.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Metrics  *observability.Metrics
	Interval time.Duration

	// Now is the clock; nil means time.Now.
	Now func() time.Time

	// Internal channels for lifecycle management
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts the worker down and waits for any in-progress purge. Safe to
// call more than once.
func (s *HousekeepingService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
		s.Logger.Info("housekeeping service stopped")
	})
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Purge(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Purge(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Purge deletes every session that expired before now and returns how many
// were removed. Failures are logged, not returned; the next tick retries.
func (s *HousekeepingService) Purge(ctx context.Context) int64 {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	n, err := s.Store.Sessions().DeleteExpiredSessions(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired sessions", "error", err)
		return 0
	}

	s.Metrics.RecordPurged(n)
	s.Logger.Info("housekeeping cleanup completed", "sessions_deleted", n)
	return n
}
