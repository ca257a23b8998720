package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/innovinitylabs/x402/internal/domain/session"
	vo "github.com/innovinitylabs/x402/internal/domain/session/valueobjects"
	"github.com/innovinitylabs/x402/internal/shared/biztime"
)

const (
	// SessionKeyPrefix is the Redis key prefix for payment sessions.
	SessionKeyPrefix = "x402:session:"

	// updateRetries bounds optimistic-lock retries in Update. Contention on
	// a single session key is rare (two clients racing to redeem the same
	// session), so a small budget is enough.
	updateRetries = 5
)

// sessionRecord is the Redis JSON representation of a session.
type sessionRecord struct {
	ID             string    `json:"id"`
	Kind           string    `json:"kind"`
	AmountCents    int64     `json:"amount_cents"`
	ServiceRequest string    `json:"service_request,omitempty"`
	Used           bool      `json:"used"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// RedisSessionRepository backs sessions with Redis so multiple instances can
// share one session space. Keys carry a native TTL of the session lifetime
// plus a retention window, letting recently expired sessions still answer
// with an explicit expired status before Redis evicts them.
type RedisSessionRepository struct {
	client    *redis.Client
	prefix    string
	retention time.Duration
}

func NewRedisSessionRepository(client *redis.Client, retention time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{
		client:    client,
		prefix:    SessionKeyPrefix,
		retention: retention,
	}
}

var _ session.Repository = (*RedisSessionRepository)(nil)

func (r *RedisSessionRepository) Save(ctx context.Context, s *session.Session) error {
	data, err := json.Marshal(toRecord(s))
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := r.keyTTL(s)
	if err := r.client.Set(ctx, r.buildKey(s.ID()), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in Redis: %w", err)
	}
	return nil
}

func (r *RedisSessionRepository) GetByID(ctx context.Context, id string) (*session.Session, error) {
	data, err := r.client.Get(ctx, r.buildKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve session from Redis: %w", err)
	}
	return fromRecordJSON([]byte(data))
}

func (r *RedisSessionRepository) List(ctx context.Context) ([]*session.Session, error) {
	var sessions []*session.Session

	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Evicted between SCAN and GET.
				continue
			}
			return nil, fmt.Errorf("failed to retrieve session from Redis: %w", err)
		}
		s, err := fromRecordJSON([]byte(data))
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan sessions in Redis: %w", err)
	}
	return sessions, nil
}

// Update applies fn to the stored session under an optimistic lock (WATCH),
// so concurrent redeemers of the same session serialize: exactly one write
// wins and the loser re-reads the updated record.
func (r *RedisSessionRepository) Update(ctx context.Context, id string, fn func(*session.Session) error) (*session.Session, error) {
	key := r.buildKey(id)

	var updated *session.Session
	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return session.ErrNotFound
			}
			return fmt.Errorf("failed to retrieve session from Redis: %w", err)
		}

		s, err := fromRecordJSON([]byte(data))
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}

		payload, err := json.Marshal(toRecord(s))
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		ttl, err := tx.TTL(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("failed to read session TTL from Redis: %w", err)
		}
		if ttl <= 0 {
			ttl = r.keyTTL(s)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = s
		return nil
	}

	for i := 0; i < updateRetries; i++ {
		err := r.client.Watch(ctx, txn, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("failed to update session %s: too much contention", id)
}

// DeleteExpiredBefore is a no-op for Redis: key TTLs already cover eviction.
func (r *RedisSessionRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, nil
}

func (r *RedisSessionRepository) buildKey(id string) string {
	return r.prefix + id
}

// keyTTL keeps a session around for its remaining lifetime plus the
// retention window. Floor of one minute so a session expiring right now can
// still be reported as expired rather than vanishing.
func (r *RedisSessionRepository) keyTTL(s *session.Session) time.Duration {
	ttl := time.Until(s.ExpiresAt()) + r.retention
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return ttl
}

func toRecord(s *session.Session) sessionRecord {
	return sessionRecord{
		ID:             s.ID(),
		Kind:           s.Kind().String(),
		AmountCents:    s.Amount().Cents(),
		ServiceRequest: s.ServiceRequest(),
		Used:           s.Used(),
		CreatedAt:      s.CreatedAt(),
		ExpiresAt:      s.ExpiresAt(),
	}
}

func fromRecordJSON(data []byte) (*session.Session, error) {
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	kind, err := vo.NewSessionKind(rec.Kind)
	if err != nil {
		return nil, fmt.Errorf("corrupt session record %s: %w", rec.ID, err)
	}

	return session.Reconstruct(session.ReconstructParams{
		ID:             rec.ID,
		Kind:           kind,
		Amount:         vo.NewMoney(rec.AmountCents),
		ServiceRequest: rec.ServiceRequest,
		Used:           rec.Used,
		CreatedAt:      biztime.ToUTC(rec.CreatedAt),
		ExpiresAt:      biztime.ToUTC(rec.ExpiresAt),
	}), nil
}
