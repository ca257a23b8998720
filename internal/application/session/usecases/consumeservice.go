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

type ConsumeServiceCommand struct {
	SessionID string
	Request   string
}

type ConsumeServiceResult struct {
	Session  *dto.SessionDTO
	Response any
}

// ConsumeServiceUseCase redeems a service session exactly once and runs the
// service function. This and the validate endpoint are the only paths that
// flip a session's used flag.
type ConsumeServiceUseCase struct {
	repo    session.Repository
	service ServiceFunc
	logger  logger.Interface
}

func NewConsumeServiceUseCase(repo session.Repository, service ServiceFunc, logger logger.Interface) *ConsumeServiceUseCase {
	return &ConsumeServiceUseCase{repo: repo, service: service, logger: logger}
}

func (uc *ConsumeServiceUseCase) Execute(ctx context.Context, cmd ConsumeServiceCommand) (*ConsumeServiceResult, error) {
	if cmd.SessionID == "" || cmd.Request == "" {
		return nil, errors.NewBadRequestError("Session ID and request are required")
	}

	now := biztime.NowUTC()

	// Update runs the consume inside the store's per-key critical section:
	// two racing consumers get exactly one success.
	s, err := uc.repo.Update(ctx, cmd.SessionID, func(s *session.Session) error {
		return s.Consume(now)
	})
	if err != nil {
		return nil, mapConsumeError(err, cmd.SessionID)
	}

	response, err := uc.service(ctx, ServiceCall{
		SessionID: s.ID(),
		Request:   cmd.Request,
	})
	if err != nil {
		uc.logger.Errorw("service function failed", "error", err, "session_id", s.ID())
		return nil, fmt.Errorf("service execution failed: %w", err)
	}

	uc.logger.Infow("service session consumed", "session_id", s.ID())

	return &ConsumeServiceResult{
		Session:  dto.ToSessionDTO(s),
		Response: response,
	}, nil
}

func mapConsumeError(err error, sessionID string) error {
	switch {
	case stderrors.Is(err, session.ErrNotFound):
		return errors.NewSessionNotFoundError(sessionID)
	case stderrors.Is(err, session.ErrInvalidKind):
		return errors.NewInvalidSessionTypeError()
	case stderrors.Is(err, session.ErrExpired):
		return errors.NewSessionExpiredError()
	case stderrors.Is(err, session.ErrAlreadyUsed):
		return errors.NewSessionAlreadyUsedError()
	default:
		return fmt.Errorf("failed to consume session: %w", err)
	}
}
