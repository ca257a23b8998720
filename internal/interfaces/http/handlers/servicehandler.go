package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/innovinitylabs/x402/internal/application/session/usecases"
	vo "github.com/innovinitylabs/x402/internal/domain/session/valueobjects"
	"github.com/innovinitylabs/x402/internal/shared/errors"
	"github.com/innovinitylabs/x402/internal/shared/logger"
	"github.com/innovinitylabs/x402/internal/shared/utils"
)

// ServiceHandler mints service sessions on the paid routes and redeems them
// on the ungated consume route.
type ServiceHandler struct {
	createServiceUC  createServiceUseCase
	consumeServiceUC consumeServiceUseCase
	servicePrice     vo.Money
	premiumPrice     vo.Money
	logger           logger.Interface
}

func NewServiceHandler(
	createServiceUC createServiceUseCase,
	consumeServiceUC consumeServiceUseCase,
	servicePrice, premiumPrice vo.Money,
) *ServiceHandler {
	return &ServiceHandler{
		createServiceUC:  createServiceUC,
		consumeServiceUC: consumeServiceUC,
		servicePrice:     servicePrice,
		premiumPrice:     premiumPrice,
		logger:           logger.NewLogger(),
	}
}

type ServiceRequest struct {
	Request string `json:"request" validate:"required"`
}

type ConsumeRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Request   string `json:"request" validate:"required"`
}

// PayService handles POST /api/pay/service: creates a single-use service
// session and returns the service result alongside it.
func (h *ServiceHandler) PayService(c *gin.Context) {
	h.payService(c, false)
}

// PayPremium handles POST /api/pay/premium: the long-lived premium tier.
func (h *ServiceHandler) PayPremium(c *gin.Context) {
	h.payService(c, true)
}

func (h *ServiceHandler) payService(c *gin.Context, premium bool) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for service payment", "error", err)
		utils.ErrorResponseWithError(c, errors.NewMissingServiceRequestError())
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewMissingServiceRequestError())
		return
	}

	price := h.servicePrice
	if premium {
		price = h.premiumPrice
	}

	cmd := usecases.CreateServiceCommand{
		ServiceRequest: req.Request,
		Amount:         price,
		Premium:        premium,
	}

	result, err := h.createServiceUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result.Message, gin.H{
		"session":  result.Session,
		"response": result.Response,
	})
}

// Consume handles POST /api/service: redeems a service session minted
// earlier. Not payment-gated; the session itself is the proof of payment.
func (h *ServiceHandler) Consume(c *gin.Context) {
	var req ConsumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for service consume", "error", err)
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("Session ID and request are required"))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("Session ID and request are required"))
		return
	}

	cmd := usecases.ConsumeServiceCommand{
		SessionID: req.SessionID,
		Request:   req.Request,
	}

	result, err := h.consumeServiceUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Service request completed", gin.H{
		"session":  result.Session,
		"response": result.Response,
	})
}
