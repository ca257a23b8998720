// Package scheduler runs the background maintenance loops of the payment
// gateway.
package scheduler

import (
	"context"
	"sync"
	"time"

	sessionUsecases "github.com/innovinitylabs/x402/internal/application/session/usecases"
	"github.com/innovinitylabs/x402/internal/shared/logger"
)

// SessionReaper periodically deletes payment sessions that expired longer
// ago than the retention window. Expiry itself is enforced at read time;
// the reaper only reclaims storage.
type SessionReaper struct {
	reapUC   *sessionUsecases.ReapExpiredSessionsUseCase
	logger   logger.Interface
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	interval time.Duration
}

func NewSessionReaper(reapUC *sessionUsecases.ReapExpiredSessionsUseCase, interval time.Duration, logger logger.Interface) *SessionReaper {
	return &SessionReaper{
		reapUC:   reapUC,
		logger:   logger,
		stopChan: make(chan struct{}),
		interval: interval,
	}
}

// Start launches the reap loop in the background.
func (s *SessionReaper) Start(ctx context.Context) {
	s.logger.Infow("starting session reaper", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runReapLoop(ctx)
	}()
}

// Stop stops the reaper gracefully and waits for the loop to exit.
// Safe to call multiple times.
func (s *SessionReaper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("session reaper stopped")
	})
}

func (s *SessionReaper) runReapLoop(ctx context.Context) {
	// Run immediately on startup to clear sessions left over from the
	// previous process.
	s.reapOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("session reaper stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.reapOnce(ctx)
		}
	}
}

func (s *SessionReaper) reapOnce(ctx context.Context) {
	startTime := time.Now()

	count, err := s.reapUC.Execute(ctx)
	if err != nil {
		s.logger.Errorw("failed to reap expired sessions",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}
	if count > 0 {
		s.logger.Infow("expired sessions reaped",
			"count", count,
			"duration", time.Since(startTime),
		)
	}
}
