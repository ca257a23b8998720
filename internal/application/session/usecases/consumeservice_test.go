package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovinitylabs/x402/internal/domain/session"
	vo "github.com/innovinitylabs/x402/internal/domain/session/valueobjects"
	"github.com/innovinitylabs/x402/internal/shared/errors"
)

func seedServiceSession(t *testing.T, repo *fakeSessionRepository, ttl time.Duration) *session.Session {
	t.Helper()
	s, err := session.NewSession(vo.KindService, vo.NewMoney(10), ttl, "stored request")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), s))
	return s
}

func TestConsumeServiceUseCase_Execute(t *testing.T) {
	repo := newFakeSessionRepository()
	uc := NewConsumeServiceUseCase(repo, DefaultServiceFunc, noopLogger{})

	s := seedServiceSession(t, repo, 10*time.Minute)

	result, err := uc.Execute(context.Background(), ConsumeServiceCommand{
		SessionID: s.ID(),
		Request:   "do the work",
	})
	require.NoError(t, err)
	assert.True(t, result.Session.Used)

	payload, ok := result.Response.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Service result for: do the work", payload["data"])

	stored, err := repo.GetByID(context.Background(), s.ID())
	require.NoError(t, err)
	assert.True(t, stored.Used())
}

func TestConsumeServiceUseCase_ErrorTaxonomy(t *testing.T) {
	repo := newFakeSessionRepository()
	uc := NewConsumeServiceUseCase(repo, DefaultServiceFunc, noopLogger{})

	expired := seedServiceSession(t, repo, time.Nanosecond)
	time.Sleep(5 * time.Millisecond)

	used := seedServiceSession(t, repo, 10*time.Minute)
	_, err := uc.Execute(context.Background(), ConsumeServiceCommand{SessionID: used.ID(), Request: "first"})
	require.NoError(t, err)

	donation, err := session.NewSession(vo.KindDonation, vo.NewMoney(100), 5*time.Minute, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), donation))

	testCases := []struct {
		name      string
		cmd       ConsumeServiceCommand
		wantType  errors.ErrorType
		wantCode  int
	}{
		{"unknown session", ConsumeServiceCommand{SessionID: "ps_missing00000", Request: "r"}, errors.ErrorTypeSessionNotFound, 404},
		{"expired session", ConsumeServiceCommand{SessionID: expired.ID(), Request: "r"}, errors.ErrorTypeSessionExpired, 400},
		{"already used session", ConsumeServiceCommand{SessionID: used.ID(), Request: "r"}, errors.ErrorTypeSessionAlreadyUsed, 400},
		{"donation session", ConsumeServiceCommand{SessionID: donation.ID(), Request: "r"}, errors.ErrorTypeInvalidSessionType, 400},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tc.cmd)
			appErr := errors.GetAppError(err)
			require.NotNil(t, appErr, "expected AppError, got %v", err)
			assert.Equal(t, tc.wantType, appErr.Type)
			assert.Equal(t, tc.wantCode, appErr.Code)
		})
	}
}

func TestConsumeServiceUseCase_MissingFields(t *testing.T) {
	repo := newFakeSessionRepository()
	uc := NewConsumeServiceUseCase(repo, DefaultServiceFunc, noopLogger{})

	_, err := uc.Execute(context.Background(), ConsumeServiceCommand{SessionID: "", Request: "r"})
	assert.Error(t, err)

	_, err = uc.Execute(context.Background(), ConsumeServiceCommand{SessionID: "ps_x", Request: ""})
	assert.Error(t, err)
}

// TestConsumeServiceUseCase_Race drives concurrent consumers through the use
// case: the session is redeemed exactly once.
func TestConsumeServiceUseCase_Race(t *testing.T) {
	repo := newFakeSessionRepository()
	uc := NewConsumeServiceUseCase(repo, DefaultServiceFunc, noopLogger{})

	s := seedServiceSession(t, repo, 10*time.Minute)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), ConsumeServiceCommand{SessionID: s.ID(), Request: "race"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		appErr := errors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrorTypeSessionAlreadyUsed, appErr.Type)
	}
	assert.Equal(t, 1, succeeded)
}
