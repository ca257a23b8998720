package valueobjects

import "testing"

func TestNewSessionKind(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    SessionKind
		wantErr bool
	}{
		{"donation is valid", "donation", KindDonation, false},
		{"service is valid", "service", KindService, false},
		{"empty string is invalid", "", "", true},
		{"unknown kind is invalid", "subscription", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewSessionKind(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("NewSessionKind(%q) expected error, got %v", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewSessionKind(%q) unexpected error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("NewSessionKind(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

// TestSessionKind_IsSingleUse encodes the core asymmetry: only service
// sessions are redeemed at most once.
func TestSessionKind_IsSingleUse(t *testing.T) {
	if KindDonation.IsSingleUse() {
		t.Error("donation sessions must not be single-use")
	}
	if !KindService.IsSingleUse() {
		t.Error("service sessions must be single-use")
	}
}
