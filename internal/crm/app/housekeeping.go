package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/galileomedialab/medialab/internal/crm/session"
	"github.com/galileomedialab/medialab/internal/crm/store"
)

// HousekeepingService periodically deletes expired persisted sessions and
// evicts idle in-memory sessions, so neither the credential store nor the
// live-session map grows without bound.
type HousekeepingService struct {
	Store     store.Store
	Manager   *session.Manager
	Logger    *slog.Logger
	Interval  time.Duration
	IdleAfter time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given sweep
// interval and the idle age past which in-memory sessions are evicted. Zero
// or negative values default to 1 hour.
func NewHousekeepingService(
	st store.Store,
	manager *session.Manager,
	logger *slog.Logger,
	interval, idleAfter time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if idleAfter <= 0 {
		idleAfter = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:     st,
		Manager:   manager,
		Logger:    logger,
		Interval:  interval,
		IdleAfter: idleAfter,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the background worker, blocking until any in-progress
// cleanup finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := s.Store.Sessions().DeleteExpired(ctx, time.Now())
	if err != nil {
		s.Logger.Error("failed to delete expired sessions", "error", err)
	} else if deleted > 0 {
		s.Logger.Info("deleted expired sessions", "count", deleted)
	}

	if pruned := s.Manager.PruneIdle(s.IdleAfter); pruned > 0 {
		s.Logger.Info("evicted idle sessions", "count", pruned)
	}
}
