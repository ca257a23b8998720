// Package facilitator holds the outbound client for the x402 facilitator
// service, which checks payment proofs against the settlement network on
// our behalf.
package facilitator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/innovinitylabs/x402/internal/shared/logger"
	"github.com/innovinitylabs/x402/internal/shared/x402"
)

const (
	verifyPath = "/verify"

	// Maximum response body size for the facilitator API (64KB).
	maxVerifyResponseSize = 64 << 10
)

// Verifier is what the gateway middleware needs from a facilitator.
type Verifier interface {
	Verify(ctx context.Context, payload *x402.PaymentPayload, requirements x402.PaymentRequirements) (*x402.VerifyResponse, error)
}

// Client calls the facilitator over HTTP. Any transport failure, non-200
// status, or undecodable body is returned as an error; callers treat that as
// "facilitator unavailable" and never fall back to accepting the payment.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Interface
}

func NewClient(baseURL string, timeout time.Duration, logger logger.Interface) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

var _ Verifier = (*Client)(nil)

// Verify submits a payment proof and the requirements it must satisfy.
// A (response, nil) return with IsValid=false is a definitive rejection;
// an error return means the facilitator could not be consulted.
func (c *Client) Verify(ctx context.Context, payload *x402.PaymentPayload, requirements x402.PaymentRequirements) (*x402.VerifyResponse, error) {
	reqBody := x402.VerifyRequest{
		X402Version:         x402.Version,
		PaymentPayload:      *payload,
		PaymentRequirements: requirements,
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+verifyPath, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach facilitator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facilitator returned status %d", resp.StatusCode)
	}

	var result x402.VerifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxVerifyResponseSize)).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}

	if !result.IsValid {
		c.logger.Infow("facilitator rejected payment",
			"reason", result.InvalidReason,
			"payer", result.Payer,
		)
	}

	return &result, nil
}
