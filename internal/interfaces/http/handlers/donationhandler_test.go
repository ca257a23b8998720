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
	vo "github.com/innovinitylabs/x402/internal/domain/session/valueobjects"
	"github.com/innovinitylabs/x402/internal/interfaces/http/handlers/testutil"
)

type mockCreateDonationUC struct {
	result  *usecases.CreateDonationResult
	err     error
	gotCmds []usecases.CreateDonationCommand
}

func (m *mockCreateDonationUC) Execute(ctx context.Context, cmd usecases.CreateDonationCommand) (*usecases.CreateDonationResult, error) {
	m.gotCmds = append(m.gotCmds, cmd)
	return m.result, m.err
}

func donationResult() *usecases.CreateDonationResult {
	return &usecases.CreateDonationResult{
		Session: &dto.SessionDTO{
			ID:     "ps_xK9mP2vL3nQa",
			Type:   "donation",
			Amount: "1.00",
		},
		Message: "Thank you for your donation!",
	}
}

func TestDonationHandler_Donate(t *testing.T) {
	mockUC := &mockCreateDonationUC{result: donationResult()}
	handler := NewDonationHandler(mockUC, vo.NewMoney(100))

	c, w := testutil.NewTestContext(http.MethodPost, "/api/donate", nil)
	handler.Donate(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Thank you for your donation!", resp.Message)

	require.Len(t, mockUC.gotCmds, 1)
	assert.Equal(t, int64(100), mockUC.gotCmds[0].Amount.Cents(), "fixed route charges the configured price")
	assert.False(t, mockUC.gotCmds[0].Custom)
}

func TestDonationHandler_DonateCustom(t *testing.T) {
	mockUC := &mockCreateDonationUC{result: donationResult()}
	handler := NewDonationHandler(mockUC, vo.NewMoney(100))

	c, w := testutil.NewTestContext(http.MethodPost, "/api/donate/custom", map[string]any{
		"amount": json.Number("2.50"),
	})
	handler.DonateCustom(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mockUC.gotCmds, 1)
	assert.Equal(t, int64(250), mockUC.gotCmds[0].Amount.Cents())
	assert.True(t, mockUC.gotCmds[0].Custom)
}

func TestDonationHandler_DonateCustom_InvalidAmounts(t *testing.T) {
	testCases := []struct {
		name string
		body any
	}{
		{"missing amount", map[string]any{}},
		{"non-numeric amount", map[string]any{"amount": "abc"}},
		{"sub-cent precision", map[string]any{"amount": json.Number("0.001")}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockUC := &mockCreateDonationUC{result: donationResult()}
			handler := NewDonationHandler(mockUC, vo.NewMoney(100))

			c, w := testutil.NewTestContext(http.MethodPost, "/api/donate/custom", tc.body)
			handler.DonateCustom(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, mockUC.gotCmds, "invalid amounts never reach the use case")

			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, "invalid_amount", resp.Error.Type)
		})
	}
}
