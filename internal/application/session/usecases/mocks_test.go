package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/innovinitylabs/x402/internal/domain/session"
	"github.com/innovinitylabs/x402/internal/shared/logger"
)

// fakeSessionRepository is an in-memory session.Repository for use case
// tests, with optional error injection.
type fakeSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
	saveErr  error
	listErr  error
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: make(map[string]*session.Session)}
}

func (r *fakeSessionRepository) Save(ctx context.Context, s *session.Session) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *s
	r.sessions[s.ID()] = &stored
	return nil
}

func (r *fakeSessionRepository) GetByID(ctx context.Context, id string) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	snapshot := *s
	return &snapshot, nil
}

func (r *fakeSessionRepository) List(ctx context.Context) ([]*session.Session, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*session.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		snapshot := *s
		result = append(result, &snapshot)
	}
	return result, nil
}

func (r *fakeSessionRepository) Update(ctx context.Context, id string, fn func(*session.Session) error) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	working := *s
	if err := fn(&working); err != nil {
		return nil, err
	}
	r.sessions[id] = &working
	snapshot := working
	return &snapshot, nil
}

func (r *fakeSessionRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := 0
	for id, s := range r.sessions {
		if s.ExpiresAt().Before(cutoff) {
			delete(r.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any)                   {}
func (noopLogger) Info(msg string, args ...any)                    {}
func (noopLogger) Warn(msg string, args ...any)                    {}
func (noopLogger) Error(msg string, args ...any)                   {}
func (n noopLogger) With(args ...any) logger.Interface             { return n }
func (n noopLogger) Named(name string) logger.Interface            { return n }
func (noopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Errorw(msg string, keysAndValues ...interface{}) {}
