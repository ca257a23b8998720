package handlers

import (
	"context"

	"github.com/innovinitylabs/x402/internal/application/session/usecases"
)

// Use case interfaces for DonationHandler

type createDonationUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateDonationCommand) (*usecases.CreateDonationResult, error)
}
