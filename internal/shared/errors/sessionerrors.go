package errors

import "net/http"

// Payment-session specific error types. These codes are part of the public
// API contract: clients match on the type string, not the message.
const (
	ErrorTypeInvalidAmount          ErrorType = "invalid_amount"
	ErrorTypeMissingServiceRequest  ErrorType = "missing_service_request"
	ErrorTypeSessionNotFound        ErrorType = "session_not_found"
	ErrorTypeInvalidSessionType     ErrorType = "invalid_session_type"
	ErrorTypeSessionExpired         ErrorType = "session_expired"
	ErrorTypeSessionAlreadyUsed     ErrorType = "session_already_used"
	ErrorTypeChallengeExpired       ErrorType = "challenge_expired"
	ErrorTypePaymentRejected        ErrorType = "payment_rejected"
	ErrorTypeFacilitatorUnavailable ErrorType = "facilitator_unavailable"
)

// NewInvalidAmountError is returned when a caller-supplied amount is absent,
// non-positive, or below the $0.01 minimum.
func NewInvalidAmountError(details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    ErrorTypeInvalidAmount,
		Message: "Amount must be at least $0.01",
		Code:    http.StatusBadRequest,
		Details: detail,
	}
}

// NewMissingServiceRequestError is returned when a service session is
// requested without a service request payload.
func NewMissingServiceRequestError() *AppError {
	return &AppError{
		Type:    ErrorTypeMissingServiceRequest,
		Message: "Service request is required",
		Code:    http.StatusBadRequest,
	}
}

func NewSessionNotFoundError(sessionID string) *AppError {
	return &AppError{
		Type:    ErrorTypeSessionNotFound,
		Message: "Session not found",
		Code:    http.StatusNotFound,
		Details: sessionID,
	}
}

func NewInvalidSessionTypeError() *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidSessionType,
		Message: "Invalid session type",
		Code:    http.StatusBadRequest,
	}
}

func NewSessionExpiredError() *AppError {
	return &AppError{
		Type:    ErrorTypeSessionExpired,
		Message: "Session expired",
		Code:    http.StatusBadRequest,
	}
}

func NewSessionAlreadyUsedError() *AppError {
	return &AppError{
		Type:    ErrorTypeSessionAlreadyUsed,
		Message: "Service already used",
		Code:    http.StatusBadRequest,
	}
}

// NewChallengeExpiredError is returned when a payment proof arrives after the
// challenge window has closed. The proof is rejected before any facilitator
// call is made.
func NewChallengeExpiredError(details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    ErrorTypeChallengeExpired,
		Message: "Payment challenge expired",
		Code:    http.StatusPaymentRequired,
		Details: detail,
	}
}

// NewPaymentRejectedError wraps a facilitator rejection reason.
func NewPaymentRejectedError(reason string) *AppError {
	return &AppError{
		Type:    ErrorTypePaymentRejected,
		Message: "Payment verification failed",
		Code:    http.StatusPaymentRequired,
		Details: reason,
	}
}

// NewFacilitatorUnavailableError is returned when the facilitator cannot be
// reached or times out. Verification is indeterminate, so the request fails
// closed and is never retried server-side.
func NewFacilitatorUnavailableError(details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    ErrorTypeFacilitatorUnavailable,
		Message: "Payment facilitator unavailable",
		Code:    http.StatusBadGateway,
		Details: detail,
	}
}
