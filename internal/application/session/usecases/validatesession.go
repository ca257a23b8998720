package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/innovinitylabs/x402/internal/application/session/dto"
	"github.com/innovinitylabs/x402/internal/domain/session"
	"github.com/innovinitylabs/x402/internal/shared/biztime"
	"github.com/innovinitylabs/x402/internal/shared/errors"
	"github.com/innovinitylabs/x402/internal/shared/logger"
)

type ValidateSessionResult struct {
	Valid   bool
	Reason  errors.ErrorType
	Session *dto.SessionDTO
	// RemainingTime is milliseconds until expiry, present when valid.
	RemainingTime int64
}

// ValidateSessionUseCase checks a session's validity. Validating a currently
// valid service session consumes it: the read is the redemption. This
// one-time-check semantic is part of the public contract; the side effect
// lives here, behind an explicit name, rather than inside a generic get.
type ValidateSessionUseCase struct {
	repo   session.Repository
	logger logger.Interface
}

func NewValidateSessionUseCase(repo session.Repository, logger logger.Interface) *ValidateSessionUseCase {
	return &ValidateSessionUseCase{repo: repo, logger: logger}
}

// ExecuteAndConsumeIfService validates the session and, when it is a valid
// service session, marks it used atomically with the read.
func (uc *ValidateSessionUseCase) ExecuteAndConsumeIfService(ctx context.Context, sessionID string) (*ValidateSessionResult, error) {
	now := biztime.NowUTC()

	result := &ValidateSessionResult{}

	s, err := uc.repo.Update(ctx, sessionID, func(s *session.Session) error {
		if s.IsValid(now) {
			result.Valid = true
			result.RemainingTime = s.RemainingTime(now)
			if s.ConsumeIfService(now) {
				uc.logger.Infow("service session consumed by validation", "session_id", s.ID())
			}
			return nil
		}

		result.Valid = false
		if s.IsExpired(now) {
			result.Reason = errors.ErrorTypeSessionExpired
		} else {
			result.Reason = errors.ErrorTypeSessionAlreadyUsed
		}
		return nil
	})
	if err != nil {
		if stderrors.Is(err, session.ErrNotFound) {
			return nil, errors.NewSessionNotFoundError(sessionID)
		}
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}

	result.Session = dto.ToSessionDTO(s)
	return result, nil
}
