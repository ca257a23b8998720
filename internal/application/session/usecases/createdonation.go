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

type CreateDonationCommand struct {
	Amount vo.Money
	// Custom marks caller-priced donations, which get the long custom-flow
	// TTL and the $0.01 floor.
	Custom bool
}

type CreateDonationResult struct {
	Session *dto.SessionDTO
	Message string
}

type CreateDonationUseCase struct {
	repo       session.Repository
	defaultTTL time.Duration
	customTTL  time.Duration
	logger     logger.Interface
}

func NewCreateDonationUseCase(
	repo session.Repository,
	defaultTTL, customTTL time.Duration,
	logger logger.Interface,
) *CreateDonationUseCase {
	return &CreateDonationUseCase{
		repo:       repo,
		defaultTTL: defaultTTL,
		customTTL:  customTTL,
		logger:     logger,
	}
}

func (uc *CreateDonationUseCase) Execute(ctx context.Context, cmd CreateDonationCommand) (*CreateDonationResult, error) {
	if !cmd.Amount.IsPositive() {
		return nil, errors.NewInvalidAmountError(fmt.Sprintf("got %s", cmd.Amount))
	}
	if cmd.Custom && !cmd.Amount.MeetsMinimum() {
		return nil, errors.NewInvalidAmountError(fmt.Sprintf("got %s", cmd.Amount))
	}

	ttl := uc.defaultTTL
	if cmd.Custom {
		ttl = uc.customTTL
	}

	s, err := session.NewSession(vo.KindDonation, cmd.Amount, ttl, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create donation session: %w", err)
	}

	if err := uc.repo.Save(ctx, s); err != nil {
		uc.logger.Errorw("failed to save donation session", "error", err, "session_id", s.ID())
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	uc.logger.Infow("donation session created",
		"session_id", s.ID(),
		"amount", cmd.Amount.String(),
		"custom", cmd.Custom,
	)

	return &CreateDonationResult{
		Session: dto.ToSessionDTO(s),
		Message: donationMessage(cmd),
	}, nil
}

func donationMessage(cmd CreateDonationCommand) string {
	if !cmd.Custom {
		return "Thank you for your donation!"
	}
	if cmd.Amount.Cents() > 1000 {
		return "Thank you for your generous donation!"
	}
	return "Thank you for your kind donation!"
}
