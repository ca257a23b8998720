package usecases

import (
	"context"

	"github.com/innovinitylabs/x402/internal/shared/biztime"
)

// ServiceCall describes one paid service invocation.
type ServiceCall struct {
	SessionID string
	Request   string
	Premium   bool
}

// ServiceFunc produces the business result for a paid service call. The
// payload is opaque to the session layer; it is returned to the caller
// verbatim.
type ServiceFunc func(ctx context.Context, call ServiceCall) (any, error)

// DefaultServiceFunc echoes the request back with a timestamp. Deployments
// plug their real business function in its place.
func DefaultServiceFunc(ctx context.Context, call ServiceCall) (any, error) {
	request := call.Request
	if request == "" {
		request = "your request"
	}

	if call.Premium {
		return map[string]any{
			"data":      "Premium service result for: " + request,
			"quality":   "premium",
			"features":  []string{"priority processing", "enhanced accuracy", "extended support"},
			"timestamp": biztime.FormatMetadataTime(biztime.NowUTC()),
			"sessionId": call.SessionID,
		}, nil
	}

	return map[string]any{
		"data":      "Service result for: " + request,
		"timestamp": biztime.FormatMetadataTime(biztime.NowUTC()),
		"sessionId": call.SessionID,
	}, nil
}
