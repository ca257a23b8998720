package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionUsecases "github.com/innovinitylabs/x402/internal/application/session/usecases"
	"github.com/innovinitylabs/x402/internal/domain/session"
	vo "github.com/innovinitylabs/x402/internal/domain/session/valueobjects"
	"github.com/innovinitylabs/x402/internal/infrastructure/repository"
	"github.com/innovinitylabs/x402/internal/shared/logger"
)

func TestSessionReaper_ReapsOnStart(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	ctx := context.Background()

	stale := session.Reconstruct(session.ReconstructParams{
		ID: "ps_stale0000001", Kind: vo.KindDonation, Amount: vo.NewMoney(100),
		CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	})
	require.NoError(t, repo.Save(ctx, stale))

	fresh, err := session.NewSession(vo.KindDonation, vo.NewMoney(100), time.Hour, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, fresh))

	reapUC := sessionUsecases.NewReapExpiredSessionsUseCase(repo, time.Minute, logger.NewLogger())
	reaper := NewSessionReaper(reapUC, time.Hour, logger.NewLogger())

	reaper.Start(ctx)
	// The first sweep runs immediately; give the goroutine a moment.
	assert.Eventually(t, func() bool {
		return repo.Len() == 1
	}, time.Second, 10*time.Millisecond)
	reaper.Stop()

	_, err = repo.GetByID(ctx, stale.ID())
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = repo.GetByID(ctx, fresh.ID())
	assert.NoError(t, err)
}

func TestSessionReaper_StopIsIdempotent(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	reapUC := sessionUsecases.NewReapExpiredSessionsUseCase(repo, time.Minute, logger.NewLogger())
	reaper := NewSessionReaper(reapUC, time.Hour, logger.NewLogger())

	reaper.Start(context.Background())
	reaper.Stop()
	reaper.Stop()
}
