package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/innovinitylabs/x402/internal/application/session/dto"
	"github.com/innovinitylabs/x402/internal/domain/session"
	vo "github.com/innovinitylabs/x402/internal/domain/session/valueobjects"
	"github.com/innovinitylabs/x402/internal/shared/errors"
	"github.com/innovinitylabs/x402/internal/shared/logger"
)

type CreateServiceCommand struct {
	ServiceRequest string
	Amount         vo.Money
	// Premium selects the long-lived premium tier.
	Premium bool
}

type CreateServiceResult struct {
	Session  *dto.SessionDTO
	Response any
	Message  string
}

type CreateServiceUseCase struct {
	repo       session.Repository
	service    ServiceFunc
	defaultTTL time.Duration
	premiumTTL time.Duration
	logger     logger.Interface
}

func NewCreateServiceUseCase(
	repo session.Repository,
	service ServiceFunc,
	defaultTTL, premiumTTL time.Duration,
	logger logger.Interface,
) *CreateServiceUseCase {
	return &CreateServiceUseCase{
		repo:       repo,
		service:    service,
		defaultTTL: defaultTTL,
		premiumTTL: premiumTTL,
		logger:     logger,
	}
}

func (uc *CreateServiceUseCase) Execute(ctx context.Context, cmd CreateServiceCommand) (*CreateServiceResult, error) {
	if cmd.ServiceRequest == "" {
		return nil, errors.NewMissingServiceRequestError()
	}
	if !cmd.Amount.IsPositive() {
		return nil, errors.NewInvalidAmountError(fmt.Sprintf("got %s", cmd.Amount))
	}

	ttl := uc.defaultTTL
	if cmd.Premium {
		ttl = uc.premiumTTL
	}

	s, err := session.NewSession(vo.KindService, cmd.Amount, ttl, cmd.ServiceRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to create service session: %w", err)
	}

	if err := uc.repo.Save(ctx, s); err != nil {
		uc.logger.Errorw("failed to save service session", "error", err, "session_id", s.ID())
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	response, err := uc.service(ctx, ServiceCall{
		SessionID: s.ID(),
		Request:   cmd.ServiceRequest,
		Premium:   cmd.Premium,
	})
	if err != nil {
		uc.logger.Errorw("service function failed", "error", err, "session_id", s.ID())
		return nil, fmt.Errorf("service execution failed: %w", err)
	}

	uc.logger.Infow("service session created",
		"session_id", s.ID(),
		"amount", cmd.Amount.String(),
		"premium", cmd.Premium,
	)

	message := "AI service access granted"
	if cmd.Premium {
		message = "Premium AI service access granted"
	}

	return &CreateServiceResult{
		Session:  dto.ToSessionDTO(s),
		Response: response,
		Message:  message,
	}, nil
}
