package handlers

import (
	"context"

	"github.com/innovinitylabs/x402/internal/application/session/usecases"
)

// Use case interfaces for ServiceHandler

type createServiceUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateServiceCommand) (*usecases.CreateServiceResult, error)
}

type consumeServiceUseCase interface {
	Execute(ctx context.Context, cmd usecases.ConsumeServiceCommand) (*usecases.ConsumeServiceResult, error)
}
