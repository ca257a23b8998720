package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/innovinitylabs/x402/internal/application/session/usecases"
	vo "github.com/innovinitylabs/x402/internal/domain/session/valueobjects"
	"github.com/innovinitylabs/x402/internal/shared/errors"
	"github.com/innovinitylabs/x402/internal/shared/logger"
	"github.com/innovinitylabs/x402/internal/shared/utils"
)

// DonationHandler mints donation sessions after the payment gateway has
// accepted the caller's payment.
type DonationHandler struct {
	createDonationUC createDonationUseCase
	fixedPrice       vo.Money
	logger           logger.Interface
}

func NewDonationHandler(createDonationUC createDonationUseCase, fixedPrice vo.Money) *DonationHandler {
	return &DonationHandler{
		createDonationUC: createDonationUC,
		fixedPrice:       fixedPrice,
		logger:           logger.NewLogger(),
	}
}

// CustomDonationRequest carries the caller-chosen amount. Amount is a
// json.Number so dollar values never pass through a float.
type CustomDonationRequest struct {
	Amount json.Number `json:"amount" validate:"required"`
}

// Donate handles POST /api/donate: a fixed-price donation.
func (h *DonationHandler) Donate(c *gin.Context) {
	cmd := usecases.CreateDonationCommand{
		Amount: h.fixedPrice,
	}

	result, err := h.createDonationUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result.Message, gin.H{
		"session": result.Session,
	})
}

// DonateCustom handles POST /api/donate/custom: the caller picks the amount,
// subject to the $0.01 floor.
func (h *DonationHandler) DonateCustom(c *gin.Context) {
	var req CustomDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for custom donation", "error", err)
		utils.ErrorResponseWithError(c, errors.NewInvalidAmountError("request body must be JSON with an amount field"))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewInvalidAmountError("amount is required"))
		return
	}

	amount, err := vo.ParseUSDNumber(req.Amount)
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewInvalidAmountError(err.Error()))
		return
	}

	cmd := usecases.CreateDonationCommand{
		Amount: amount,
		Custom: true,
	}

	result, err := h.createDonationUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result.Message, gin.H{
		"session": result.Session,
	})
}
