package handlers

import (
	"context"

	"github.com/innovinitylabs/x402/internal/application/session/dto"
	"github.com/innovinitylabs/x402/internal/application/session/usecases"
)

// Use case interfaces for SessionHandler

type validateSessionUseCase interface {
	ExecuteAndConsumeIfService(ctx context.Context, sessionID string) (*usecases.ValidateSessionResult, error)
}

type listActiveSessionsUseCase interface {
	Execute(ctx context.Context) ([]*dto.SessionDTO, error)
}
