package x402

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DecodePaymentHeader decodes a base64-encoded X-Payment header value into a
// PaymentPayload. It validates the envelope, not the signature; signature
// verification belongs to the facilitator.
func DecodePaymentHeader(value string) (*PaymentPayload, error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("payment header is not valid base64: %w", err)
	}

	var payload PaymentPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("payment header is not valid JSON: %w", err)
	}

	if payload.X402Version != Version {
		return nil, fmt.Errorf("unsupported x402 version: %d", payload.X402Version)
	}
	if payload.Scheme != SchemeExact {
		return nil, fmt.Errorf("unsupported payment scheme: %q", payload.Scheme)
	}
	if payload.Payload.Signature == "" {
		return nil, fmt.Errorf("payment payload missing signature")
	}

	return &payload, nil
}

// EncodePaymentHeader encodes a PaymentPayload for the X-Payment header.
// Used by tests and client tooling.
func EncodePaymentHeader(payload *PaymentPayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payment payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// EncodeSettleHeader encodes a SettleResponse for the X-Payment-Response
// header.
func EncodeSettleHeader(resp *SettleResponse) (string, error) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal settle response: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// AuthorizationWindow reports whether the transfer authorization inside the
// payload is usable at time now, given the route's challenge lifetime. A
// proof whose validity window has closed, or that was issued longer than
// maxTimeout ago, is stale and must be rejected before any facilitator call.
func (p *PaymentPayload) AuthorizationWindow(now time.Time, maxTimeout time.Duration) error {
	auth := p.Payload.Authorization

	validAfter, err := strconv.ParseInt(auth.ValidAfter, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid validAfter %q: %w", auth.ValidAfter, err)
	}
	validBefore, err := strconv.ParseInt(auth.ValidBefore, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid validBefore %q: %w", auth.ValidBefore, err)
	}

	unix := now.Unix()
	if unix < validAfter {
		return fmt.Errorf("authorization not yet valid")
	}
	if unix >= validBefore {
		return fmt.Errorf("authorization validity window closed")
	}
	if age := unix - validAfter; age > int64(maxTimeout.Seconds()) {
		return fmt.Errorf("authorization issued %ds ago, challenge lifetime is %ds", age, int64(maxTimeout.Seconds()))
	}

	return nil
}
