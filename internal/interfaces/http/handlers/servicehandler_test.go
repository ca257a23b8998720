package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovinitylabs/x402/internal/application/session/dto"
	"github.com/innovinitylabs/x402/internal/application/session/usecases"
	vo "github.com/innovinitylabs/x402/internal/domain/session/valueobjects"
	"github.com/innovinitylabs/x402/internal/interfaces/http/handlers/testutil"
	"github.com/innovinitylabs/x402/internal/shared/errors"
)

type mockCreateServiceUC struct {
	result  *usecases.CreateServiceResult
	err     error
	gotCmds []usecases.CreateServiceCommand
}

func (m *mockCreateServiceUC) Execute(ctx context.Context, cmd usecases.CreateServiceCommand) (*usecases.CreateServiceResult, error) {
	m.gotCmds = append(m.gotCmds, cmd)
	return m.result, m.err
}

type mockConsumeServiceUC struct {
	result  *usecases.ConsumeServiceResult
	err     error
	gotCmds []usecases.ConsumeServiceCommand
}

func (m *mockConsumeServiceUC) Execute(ctx context.Context, cmd usecases.ConsumeServiceCommand) (*usecases.ConsumeServiceResult, error) {
	m.gotCmds = append(m.gotCmds, cmd)
	return m.result, m.err
}

func serviceSessionDTO() *dto.SessionDTO {
	return &dto.SessionDTO{
		ID:             "ps_aB3cD4eF5gH6",
		Type:           "service",
		Amount:         "0.10",
		ServiceRequest: "summarize",
	}
}

func newServiceHandler(createUC createServiceUseCase, consumeUC consumeServiceUseCase) *ServiceHandler {
	return NewServiceHandler(createUC, consumeUC, vo.NewMoney(10), vo.NewMoney(100))
}

func TestServiceHandler_PayService(t *testing.T) {
	mockUC := &mockCreateServiceUC{result: &usecases.CreateServiceResult{
		Session:  serviceSessionDTO(),
		Response: "result",
		Message:  "AI service access granted",
	}}
	handler := newServiceHandler(mockUC, &mockConsumeServiceUC{})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/pay/service", map[string]string{
		"request": "summarize",
	})
	handler.PayService(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mockUC.gotCmds, 1)
	cmd := mockUC.gotCmds[0]
	assert.Equal(t, "summarize", cmd.ServiceRequest)
	assert.Equal(t, int64(10), cmd.Amount.Cents())
	assert.False(t, cmd.Premium)
}

func TestServiceHandler_PayPremium(t *testing.T) {
	mockUC := &mockCreateServiceUC{result: &usecases.CreateServiceResult{
		Session: serviceSessionDTO(),
		Message: "Premium AI service access granted",
	}}
	handler := newServiceHandler(mockUC, &mockConsumeServiceUC{})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/pay/premium", map[string]string{
		"request": "deep analysis",
	})
	handler.PayPremium(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mockUC.gotCmds, 1)
	cmd := mockUC.gotCmds[0]
	assert.Equal(t, int64(100), cmd.Amount.Cents(), "premium tier charges the premium price")
	assert.True(t, cmd.Premium)
}

func TestServiceHandler_PayService_MissingRequest(t *testing.T) {
	mockUC := &mockCreateServiceUC{}
	handler := newServiceHandler(mockUC, &mockConsumeServiceUC{})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/pay/service", map[string]string{})
	handler.PayService(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mockUC.gotCmds, "field validation rejects the request before the use case")

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "missing_service_request", resp.Error.Type)
}

func TestServiceHandler_Consume_MissingFields(t *testing.T) {
	testCases := []struct {
		name string
		body map[string]string
	}{
		{"missing session id", map[string]string{"request": "do it"}},
		{"missing request", map[string]string{"sessionId": "ps_aB3cD4eF5gH6"}},
		{"empty body", map[string]string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockUC := &mockConsumeServiceUC{}
			handler := newServiceHandler(&mockCreateServiceUC{}, mockUC)

			c, w := testutil.NewTestContext(http.MethodPost, "/api/service", tc.body)
			handler.Consume(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, mockUC.gotCmds, "incomplete requests never reach the use case")

			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, "bad_request", resp.Error.Type)
		})
	}
}

func TestServiceHandler_Consume(t *testing.T) {
	usedDTO := serviceSessionDTO()
	usedDTO.Used = true
	mockUC := &mockConsumeServiceUC{result: &usecases.ConsumeServiceResult{
		Session:  usedDTO,
		Response: "result",
	}}
	handler := newServiceHandler(&mockCreateServiceUC{}, mockUC)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/service", map[string]string{
		"sessionId": "ps_aB3cD4eF5gH6",
		"request":   "do it",
	})
	handler.Consume(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mockUC.gotCmds, 1)
	assert.Equal(t, "ps_aB3cD4eF5gH6", mockUC.gotCmds[0].SessionID)
	assert.Equal(t, "do it", mockUC.gotCmds[0].Request)
}

func TestServiceHandler_Consume_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"not found", errors.NewSessionNotFoundError("ps_x"), http.StatusNotFound, "session_not_found"},
		{"expired", errors.NewSessionExpiredError(), http.StatusBadRequest, "session_expired"},
		{"already used", errors.NewSessionAlreadyUsedError(), http.StatusBadRequest, "session_already_used"},
		{"wrong kind", errors.NewInvalidSessionTypeError(), http.StatusBadRequest, "invalid_session_type"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockUC := &mockConsumeServiceUC{err: tc.err}
			handler := newServiceHandler(&mockCreateServiceUC{}, mockUC)

			c, w := testutil.NewTestContext(http.MethodPost, "/api/service", map[string]string{
				"sessionId": "ps_x",
				"request":   "r",
			})
			handler.Consume(c)

			assert.Equal(t, tc.wantStatus, w.Code)

			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantType, resp.Error.Type)
		})
	}
}
