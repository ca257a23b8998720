package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/innovinitylabs/x402/internal/shared/config"
	"github.com/innovinitylabs/x402/internal/shared/utils"
)

// HealthHandler reports liveness plus the payment parameters a client needs
// before its first challenge.
type HealthHandler struct {
	payment *config.PaymentConfig
	session *config.SessionConfig
}

func NewHealthHandler(payment *config.PaymentConfig, session *config.SessionConfig) *HealthHandler {
	return &HealthHandler{payment: payment, session: session}
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"status":      "ok",
		"network":     h.payment.Network,
		"payTo":       h.payment.PayTo,
		"facilitator": h.payment.FacilitatorURL,
		"store":       h.session.Store,
	})
}
