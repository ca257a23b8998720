package usecases

import (
	"context"
	"fmt"

	"github.com/innovinitylabs/x402/internal/application/session/dto"
	"github.com/innovinitylabs/x402/internal/domain/session"
	"github.com/innovinitylabs/x402/internal/shared/biztime"
	"github.com/innovinitylabs/x402/internal/shared/logger"
)

// ListActiveSessionsUseCase returns the currently valid sessions. Expired
// and used-up sessions are filtered out; ordering follows the store.
type ListActiveSessionsUseCase struct {
	repo   session.Repository
	logger logger.Interface
}

func NewListActiveSessionsUseCase(repo session.Repository, logger logger.Interface) *ListActiveSessionsUseCase {
	return &ListActiveSessionsUseCase{repo: repo, logger: logger}
}

func (uc *ListActiveSessionsUseCase) Execute(ctx context.Context) ([]*dto.SessionDTO, error) {
	sessions, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	now := biztime.NowUTC()
	active := make([]*session.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.IsValid(now) {
			active = append(active, s)
		}
	}

	return dto.ToSessionDTOs(active), nil
}
