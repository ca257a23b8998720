package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/innovinitylabs/x402/internal/domain/session"
	"github.com/innovinitylabs/x402/internal/shared/biztime"
	"github.com/innovinitylabs/x402/internal/shared/logger"
)

// ReapExpiredSessionsUseCase drops sessions whose expiry lies further in the
// past than the retention window. Recently-expired sessions are kept so that
// the query API can still answer "expired" instead of "not found".
type ReapExpiredSessionsUseCase struct {
	repo      session.Repository
	retention time.Duration
	logger    logger.Interface
}

func NewReapExpiredSessionsUseCase(repo session.Repository, retention time.Duration, logger logger.Interface) *ReapExpiredSessionsUseCase {
	return &ReapExpiredSessionsUseCase{repo: repo, retention: retention, logger: logger}
}

func (uc *ReapExpiredSessionsUseCase) Execute(ctx context.Context) (int, error) {
	cutoff := biztime.NowUTC().Add(-uc.retention)

	count, err := uc.repo.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to reap expired sessions: %w", err)
	}

	return count, nil
}
