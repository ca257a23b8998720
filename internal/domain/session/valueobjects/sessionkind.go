package valueobjects

import "fmt"

// SessionKind distinguishes fire-and-forget donation records from
// single-redemption service sessions.
type SessionKind string

const (
	KindDonation SessionKind = "donation"
	KindService  SessionKind = "service"
)

func NewSessionKind(s string) (SessionKind, error) {
	kind := SessionKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid session kind: %q", s)
	}
	return kind, nil
}

func (k SessionKind) IsValid() bool {
	switch k {
	case KindDonation, KindService:
		return true
	default:
		return false
	}
}

// IsSingleUse reports whether sessions of this kind are consumed on
// redemption. Donations never carry used semantics.
func (k SessionKind) IsSingleUse() bool {
	return k == KindService
}

func (k SessionKind) String() string {
	return string(k)
}
