package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when no session exists for an ID.
var ErrNotFound = errors.New("session not found")

// Repository is the session store contract. Update runs fn inside the
// store's critical section for the session key, so a read-then-mutate
// sequence (consume, validate-and-consume) is atomic with respect to
// concurrent callers of the same key.
type Repository interface {
	Save(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	List(ctx context.Context) ([]*Session, error)
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)

	// DeleteExpiredBefore removes sessions that expired before cutoff and
	// returns how many were dropped. Stores with native TTL eviction may
	// report zero.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error)
}
