package repository

import (
	"context"
	"sync"
	"time"

	"github.com/innovinitylabs/x402/internal/domain/session"
)

// MemorySessionRepository is the default single-process session store: a
// mutex-guarded map. Update holds the write lock across the read-mutate
// sequence, which makes consume operations atomic per key.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	// order preserves insertion order for List.
	order []string
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*session.Session),
	}
}

var _ session.Repository = (*MemorySessionRepository)(nil)

func (r *MemorySessionRepository) Save(ctx context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.ID()]; !exists {
		r.order = append(r.order, s.ID())
	}
	stored := *s
	r.sessions[s.ID()] = &stored
	return nil
}

func (r *MemorySessionRepository) GetByID(ctx context.Context, id string) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	snapshot := *s
	return &snapshot, nil
}

func (r *MemorySessionRepository) List(ctx context.Context) ([]*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*session.Session, 0, len(r.order))
	for _, id := range r.order {
		if s, ok := r.sessions[id]; ok {
			snapshot := *s
			result = append(result, &snapshot)
		}
	}
	return result, nil
}

func (r *MemorySessionRepository) Update(ctx context.Context, id string, fn func(*session.Session) error) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}

	// Apply fn to a working copy so a failed update leaves the stored
	// record untouched.
	working := *s
	if err := fn(&working); err != nil {
		return nil, err
	}
	r.sessions[id] = &working

	snapshot := working
	return &snapshot, nil
}

func (r *MemorySessionRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	kept := r.order[:0]
	for _, id := range r.order {
		s, ok := r.sessions[id]
		if !ok {
			continue
		}
		if s.ExpiresAt().Before(cutoff) {
			delete(r.sessions, id)
			deleted++
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept
	return deleted, nil
}

// Len reports the number of stored sessions, including expired ones that
// have not been reaped yet.
func (r *MemorySessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
