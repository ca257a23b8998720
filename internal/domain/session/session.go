// Package session holds the payment session aggregate: one record per
// payment-gated action, tracking its expiry and, for service sessions,
// at-most-once redemption.
package session

import (
	"errors"
	"fmt"
	"time"

	vo "github.com/innovinitylabs/x402/internal/domain/session/valueobjects"
	"github.com/innovinitylabs/x402/internal/shared/biztime"
	"github.com/innovinitylabs/x402/internal/shared/id"
)

// Domain errors. The application layer maps these onto the API taxonomy.
var (
	ErrInvalidKind = errors.New("session is not a service session")
	ErrExpired     = errors.New("session expired")
	ErrAlreadyUsed = errors.New("session already used")
)

type Session struct {
	id             string
	kind           vo.SessionKind
	amount         vo.Money
	serviceRequest string
	used           bool
	createdAt      time.Time
	expiresAt      time.Time
}

// NewSession mints a session for a paid action. ttl is a property of the
// action that created the session, not a global constant.
func NewSession(kind vo.SessionKind, amount vo.Money, ttl time.Duration, serviceRequest string) (*Session, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid session kind: %q", kind)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive, got %s", amount)
	}
	if kind.IsSingleUse() && serviceRequest == "" {
		return nil, fmt.Errorf("service sessions require a service request")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl must be positive, got %v", ttl)
	}

	sessionID, err := id.NewPaymentSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := biztime.NowUTC()
	return &Session{
		id:             sessionID,
		kind:           kind,
		amount:         amount,
		serviceRequest: serviceRequest,
		used:           false,
		createdAt:      now,
		expiresAt:      now.Add(ttl),
	}, nil
}

// ReconstructParams rebuilds a Session from a store record.
type ReconstructParams struct {
	ID             string
	Kind           vo.SessionKind
	Amount         vo.Money
	ServiceRequest string
	Used           bool
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

func Reconstruct(p ReconstructParams) *Session {
	return &Session{
		id:             p.ID,
		kind:           p.Kind,
		amount:         p.Amount,
		serviceRequest: p.ServiceRequest,
		used:           p.Used,
		createdAt:      p.CreatedAt,
		expiresAt:      p.ExpiresAt,
	}
}

func (s *Session) ID() string                { return s.id }
func (s *Session) Kind() vo.SessionKind      { return s.kind }
func (s *Session) Amount() vo.Money          { return s.amount }
func (s *Session) ServiceRequest() string    { return s.serviceRequest }
func (s *Session) Used() bool                { return s.used }
func (s *Session) CreatedAt() time.Time      { return s.createdAt }
func (s *Session) ExpiresAt() time.Time      { return s.expiresAt }

func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.expiresAt)
}

// IsValid reports whether the session can still be redeemed or listed:
// unexpired, and for service sessions not yet used. Expiry and used are
// both terminal; a session never becomes valid again.
func (s *Session) IsValid(now time.Time) bool {
	if s.IsExpired(now) {
		return false
	}
	if s.kind.IsSingleUse() && s.used {
		return false
	}
	return true
}

// RemainingTime returns how long the session stays valid, in whole
// milliseconds. Zero once expired.
func (s *Session) RemainingTime(now time.Time) int64 {
	remaining := s.expiresAt.Sub(now).Milliseconds()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Consume redeems a service session exactly once. Callers must invoke this
// inside the store's critical section for the session key so that two racing
// consumers observe exactly one success.
func (s *Session) Consume(now time.Time) error {
	if !s.kind.IsSingleUse() {
		return ErrInvalidKind
	}
	if s.IsExpired(now) {
		return ErrExpired
	}
	if s.used {
		return ErrAlreadyUsed
	}
	s.used = true
	return nil
}

// ConsumeIfService implements the query API's read-side effect: a currently
// valid service session is marked used by the act of validating it. Donation
// sessions are never mutated. Returns whether the session was consumed.
func (s *Session) ConsumeIfService(now time.Time) bool {
	if !s.kind.IsSingleUse() || !s.IsValid(now) {
		return false
	}
	s.used = true
	return true
}
