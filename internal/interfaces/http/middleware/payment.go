package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	vo "github.com/innovinitylabs/x402/internal/domain/session/valueobjects"
	"github.com/innovinitylabs/x402/internal/infrastructure/facilitator"
	"github.com/innovinitylabs/x402/internal/shared/biztime"
	"github.com/innovinitylabs/x402/internal/shared/config"
	"github.com/innovinitylabs/x402/internal/shared/errors"
	"github.com/innovinitylabs/x402/internal/shared/logger"
	"github.com/innovinitylabs/x402/internal/shared/utils"
	"github.com/innovinitylabs/x402/internal/shared/x402"
)

// Context keys set by the payment gateway for downstream handlers.
const (
	// ContextPayerKey holds the payer address reported by the facilitator.
	ContextPayerKey = "payment_payer"
	// ContextAmountKey holds the vo.Money charged for this request.
	ContextAmountKey = "payment_amount"
)

// Maximum request body size read by the gateway when pricing a
// caller-amount route (64KB).
const maxPricingBodySize = 64 << 10

// RoutePolicy declares how one gated route is priced. Fixed-price routes set
// Price; caller-amount routes set CallerAmount and the gateway reads the
// amount from the request body before issuing a challenge.
type RoutePolicy struct {
	Description  string
	Price        vo.Money
	CallerAmount bool
}

// PaymentGateway enforces the x402 challenge flow on gated routes: requests
// without a valid payment proof receive a 402 challenge describing the
// required payment, and requests carrying a proof are verified against the
// facilitator before the handler runs.
type PaymentGateway struct {
	verifier  facilitator.Verifier
	payTo     string
	network   string
	asset     string
	baseURL   string
	maxWindow time.Duration
	logger    logger.Interface
}

func NewPaymentGateway(verifier facilitator.Verifier, cfg *config.PaymentConfig, baseURL string, logger logger.Interface) *PaymentGateway {
	return &PaymentGateway{
		verifier:  verifier,
		payTo:     cfg.PayTo,
		network:   cfg.Network,
		asset:     cfg.Asset,
		baseURL:   baseURL,
		maxWindow: time.Duration(cfg.MaxTimeoutSeconds) * time.Second,
		logger:    logger,
	}
}

// Require returns the gin middleware enforcing policy on one route.
func (g *PaymentGateway) Require(policy RoutePolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		price := policy.Price
		if policy.CallerAmount {
			amount, err := g.priceFromBody(c)
			if err != nil {
				utils.ErrorResponseWithError(c, err)
				c.Abort()
				return
			}
			price = amount
		}

		requirements := g.requirements(c, policy, price)

		headerValue := c.GetHeader(x402.PaymentHeader)
		if headerValue == "" {
			g.challenge(c, requirements, "payment required")
			return
		}

		payload, err := x402.DecodePaymentHeader(headerValue)
		if err != nil {
			g.logger.Debugw("malformed payment header",
				"path", c.Request.URL.Path,
				"error", err,
			)
			g.challenge(c, requirements, "invalid payment header: "+err.Error())
			return
		}

		// Reject stale proofs locally so an expired challenge never
		// reaches the facilitator.
		if err := payload.AuthorizationWindow(biztime.NowUTC(), g.maxWindow); err != nil {
			appErr := errors.NewChallengeExpiredError(err.Error())
			g.challenge(c, requirements, string(appErr.Type)+": "+appErr.Message)
			return
		}

		result, err := g.verifier.Verify(c.Request.Context(), payload, requirements)
		if err != nil {
			g.logger.Errorw("facilitator verification failed",
				"path", c.Request.URL.Path,
				"error", err,
			)
			utils.ErrorResponseWithError(c, errors.NewFacilitatorUnavailableError())
			c.Abort()
			return
		}
		if !result.IsValid {
			appErr := errors.NewPaymentRejectedError(result.InvalidReason)
			g.challenge(c, requirements, string(appErr.Type)+": "+appErr.Message)
			return
		}

		g.logger.Infow("payment verified",
			"path", c.Request.URL.Path,
			"payer", result.Payer,
			"amount", price.String(),
		)

		if header, err := x402.EncodeSettleHeader(&x402.SettleResponse{
			Success: true,
			Network: g.network,
			Payer:   result.Payer,
		}); err == nil {
			c.Header(x402.PaymentResponseHeader, header)
		}

		c.Set(ContextPayerKey, result.Payer)
		c.Set(ContextAmountKey, price)
		c.Next()
	}
}

// priceFromBody reads the caller-chosen amount from the request body and
// restores the body so the handler can bind it again. Pricing problems are
// surfaced as 400s before any challenge is issued.
func (g *PaymentGateway) priceFromBody(c *gin.Context) (vo.Money, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPricingBodySize))
	if err != nil {
		return vo.Money{}, errors.NewInvalidAmountError("failed to read request body")
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var req struct {
		Amount json.Number `json:"amount"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return vo.Money{}, errors.NewInvalidAmountError("request body must be JSON with an amount field")
	}
	if req.Amount == "" {
		return vo.Money{}, errors.NewInvalidAmountError("amount is required")
	}

	amount, err := vo.ParseUSDNumber(req.Amount)
	if err != nil {
		return vo.Money{}, errors.NewInvalidAmountError(err.Error())
	}
	if !amount.MeetsMinimum() {
		return vo.Money{}, errors.NewInvalidAmountError("minimum amount is $0.01")
	}
	return amount, nil
}

func (g *PaymentGateway) requirements(c *gin.Context, policy RoutePolicy, price vo.Money) x402.PaymentRequirements {
	return x402.PaymentRequirements{
		Scheme:            x402.SchemeExact,
		Network:           g.network,
		PayTo:             g.payTo,
		MaxAmountRequired: price.AtomicUnits(),
		Resource:          g.baseURL + c.Request.URL.Path,
		Description:       policy.Description,
		MaxTimeoutSeconds: int(g.maxWindow.Seconds()),
		Asset:             g.asset,
	}
}

// challenge writes the 402 response. The body is always the protocol
// challenge shape, not the API envelope, so x402 clients can parse the
// accepts list and retry with a proof.
func (g *PaymentGateway) challenge(c *gin.Context, requirements x402.PaymentRequirements, reason string) {
	c.JSON(http.StatusPaymentRequired, x402.PaymentRequiredResponse{
		X402Version: x402.Version,
		Error:       reason,
		Accepts:     []x402.PaymentRequirements{requirements},
	})
	c.Abort()
}
