// Package x402 defines the wire types for the x402 payment challenge
// protocol: the HTTP 402 challenge body, the payment proof carried in the
// X-Payment request header, and the facilitator verification exchange.
// These types are shared between the gateway middleware and the
// facilitator client.
package x402

// Protocol version understood by this server.
const Version = 1

// Header names.
const (
	// PaymentHeader carries the base64-encoded payment proof on retried
	// requests after a 402 challenge.
	PaymentHeader = "X-Payment"

	// PaymentResponseHeader carries settlement details back to the caller
	// on a successful gated request.
	PaymentResponseHeader = "X-Payment-Response"
)

// SchemeExact is the only settlement scheme this server accepts: the payer
// authorizes the exact required amount for a single transfer.
const SchemeExact = "exact"

// PaymentRequirements describes one acceptable way to pay for a gated
// resource. It is embedded in the 402 challenge body.
type PaymentRequirements struct {
	Scheme            string `json:"scheme"`
	Network           string `json:"network"`
	PayTo             string `json:"payTo"`
	MaxAmountRequired string `json:"maxAmountRequired"` // settlement token atomic units
	Resource          string `json:"resource,omitempty"`
	Description       string `json:"description,omitempty"`
	MaxTimeoutSeconds int    `json:"maxTimeoutSeconds"`
	Asset             string `json:"asset,omitempty"`
}

// PaymentRequiredResponse is the 402 challenge body.
type PaymentRequiredResponse struct {
	X402Version int                   `json:"x402Version"`
	Error       string                `json:"error,omitempty"`
	Accepts     []PaymentRequirements `json:"accepts"`
}

// PaymentPayload is the decoded X-Payment header: a signed transfer
// authorization produced by the caller's wallet.
type PaymentPayload struct {
	X402Version int             `json:"x402Version"`
	Scheme      string          `json:"scheme"`
	Network     string          `json:"network"`
	Payload     ExactEvmPayload `json:"payload"`
}

// ExactEvmPayload carries the EIP-3009 style transfer authorization and its
// signature for the "exact" scheme on EVM networks.
type ExactEvmPayload struct {
	Signature     string                `json:"signature"`
	Authorization TransferAuthorization `json:"authorization"`
}

// TransferAuthorization mirrors the signed EIP-3009 message. ValidAfter and
// ValidBefore are unix seconds as decimal strings, matching the on-chain
// representation.
type TransferAuthorization struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"` // atomic units, decimal string
	ValidAfter  string `json:"validAfter"`
	ValidBefore string `json:"validBefore"`
	Nonce       string `json:"nonce"`
}

// VerifyRequest is the facilitator /verify request body.
type VerifyRequest struct {
	X402Version         int                 `json:"x402Version"`
	PaymentPayload      PaymentPayload      `json:"paymentPayload"`
	PaymentRequirements PaymentRequirements `json:"paymentRequirements"`
}

// VerifyResponse is the facilitator /verify response body.
type VerifyResponse struct {
	IsValid       bool   `json:"isValid"`
	InvalidReason string `json:"invalidReason,omitempty"`
	Payer         string `json:"payer,omitempty"`
}

// SettleResponse is surfaced to callers through the X-Payment-Response
// header after a successful gated request.
type SettleResponse struct {
	Success     bool   `json:"success"`
	Transaction string `json:"transaction,omitempty"`
	Network     string `json:"network,omitempty"`
	Payer       string `json:"payer,omitempty"`
}
