package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovinitylabs/x402/internal/application/session/dto"
	"github.com/innovinitylabs/x402/internal/application/session/usecases"
	"github.com/innovinitylabs/x402/internal/interfaces/http/handlers/testutil"
	"github.com/innovinitylabs/x402/internal/shared/errors"
)

type mockValidateSessionUC struct {
	result *usecases.ValidateSessionResult
	err    error
	gotIDs []string
}

func (m *mockValidateSessionUC) ExecuteAndConsumeIfService(ctx context.Context, sessionID string) (*usecases.ValidateSessionResult, error) {
	m.gotIDs = append(m.gotIDs, sessionID)
	return m.result, m.err
}

type mockListSessionsUC struct {
	result []*dto.SessionDTO
	err    error
}

func (m *mockListSessionsUC) Execute(ctx context.Context) ([]*dto.SessionDTO, error) {
	return m.result, m.err
}

func TestSessionHandler_GetSession_Valid(t *testing.T) {
	mockUC := &mockValidateSessionUC{result: &usecases.ValidateSessionResult{
		Valid:         true,
		Session:       &dto.SessionDTO{ID: "ps_aB3cD4eF5gH6", Type: "service"},
		RemainingTime: 45000,
	}}
	handler := NewSessionHandler(mockUC, &mockListSessionsUC{})

	c, w := testutil.NewTestContext(http.MethodGet, "/api/session/ps_aB3cD4eF5gH6", nil)
	testutil.SetURLParam(c, "id", "ps_aB3cD4eF5gH6")
	handler.GetSession(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"ps_aB3cD4eF5gH6"}, mockUC.gotIDs)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	require.True(t, resp.Success)

	var data struct {
		Valid         bool            `json:"valid"`
		RemainingTime int64           `json:"remainingTime"`
		Session       json.RawMessage `json:"session"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.True(t, data.Valid)
	assert.Equal(t, int64(45000), data.RemainingTime)
	assert.NotEmpty(t, data.Session)
}

func TestSessionHandler_GetSession_InvalidStates(t *testing.T) {
	testCases := []struct {
		name       string
		reason     errors.ErrorType
		wantReason string
	}{
		{"expired", errors.ErrorTypeSessionExpired, "session_expired"},
		{"already used", errors.ErrorTypeSessionAlreadyUsed, "session_already_used"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockUC := &mockValidateSessionUC{result: &usecases.ValidateSessionResult{
				Valid:   false,
				Reason:  tc.reason,
				Session: &dto.SessionDTO{ID: "ps_aB3cD4eF5gH6"},
			}}
			handler := NewSessionHandler(mockUC, &mockListSessionsUC{})

			c, w := testutil.NewTestContext(http.MethodGet, "/api/session/ps_aB3cD4eF5gH6", nil)
			testutil.SetURLParam(c, "id", "ps_aB3cD4eF5gH6")
			handler.GetSession(c)

			// Known-but-invalid sessions still answer 200; the payload
			// carries the verdict.
			assert.Equal(t, http.StatusOK, w.Code)

			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))

			var data struct {
				Valid  bool   `json:"valid"`
				Reason string `json:"reason"`
			}
			require.NoError(t, json.Unmarshal(resp.Data, &data))
			assert.False(t, data.Valid)
			assert.Equal(t, tc.wantReason, data.Reason)
		})
	}
}

func TestSessionHandler_GetSession_NotFound(t *testing.T) {
	mockUC := &mockValidateSessionUC{err: errors.NewSessionNotFoundError("ps_missing00000")}
	handler := NewSessionHandler(mockUC, &mockListSessionsUC{})

	c, w := testutil.NewTestContext(http.MethodGet, "/api/session/ps_missing00000", nil)
	testutil.SetURLParam(c, "id", "ps_missing00000")
	handler.GetSession(c)

	assert.Equal(t, http.StatusNotFound, w.Code)

	// The not-found body carries the validity verdict alongside the error.
	var body struct {
		Success bool                `json:"success"`
		Valid   *bool               `json:"valid"`
		Error   *testutil.ErrorInfo `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Valid, "404 body must state valid:false")
	assert.False(t, *body.Valid)
	require.NotNil(t, body.Error)
	assert.Equal(t, "session_not_found", body.Error.Type)
}

func TestSessionHandler_ListSessions(t *testing.T) {
	mockUC := &mockListSessionsUC{result: []*dto.SessionDTO{
		{ID: "ps_aB3cD4eF5gH6", Type: "service"},
		{ID: "ps_xK9mP2vL3nQa", Type: "donation"},
	}}
	handler := NewSessionHandler(&mockValidateSessionUC{}, mockUC)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/sessions", nil)
	handler.ListSessions(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))

	var data struct {
		Count    int               `json:"count"`
		Sessions []*dto.SessionDTO `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, 2, data.Count)
	require.Len(t, data.Sessions, 2)
}
