package valueobjects

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// usdcDecimals is the number of decimals of the settlement token. Amounts
// are converted from cents to atomic units by scaling with
// 10^(usdcDecimals-2).
const usdcDecimals = 6

// MinChargeCents is the smallest chargeable amount: $0.01.
const MinChargeCents int64 = 1

// Money is a USD amount held in whole cents. Keeping cents in an int64
// sidesteps float rounding for amounts as small as $0.01.
type Money struct {
	amountInCents int64
}

func NewMoney(amountInCents int64) Money {
	return Money{amountInCents: amountInCents}
}

// ParseUSD parses a decimal USD string ("1", "1.5", "0.01") into Money
// without going through floating point. More than two fractional digits is
// an error: the settlement ledger is cent-grained.
func ParseUSD(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, fmt.Errorf("empty amount")
	}

	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	} else if s[0] == '+' {
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return Money{}, fmt.Errorf("invalid amount %q", s)
	}
	if len(frac) > 2 {
		return Money{}, fmt.Errorf("amount %q has sub-cent precision", s)
	}

	var cents int64
	for _, r := range whole {
		if r < '0' || r > '9' {
			return Money{}, fmt.Errorf("invalid amount %q", s)
		}
		d := int64(r - '0')
		if cents > (1<<62)/100 {
			return Money{}, fmt.Errorf("amount %q overflows", s)
		}
		cents = cents*10 + d
	}
	// Room for the cent scaling plus up to 99 fractional cents.
	if cents > (math.MaxInt64-99)/100 {
		return Money{}, fmt.Errorf("amount %q overflows", s)
	}
	cents *= 100

	scale := int64(10)
	for _, r := range frac {
		if r < '0' || r > '9' {
			return Money{}, fmt.Errorf("invalid amount %q", s)
		}
		cents += int64(r-'0') * scale
		scale /= 10
	}

	if neg {
		cents = -cents
	}
	return Money{amountInCents: cents}, nil
}

// ParseUSDNumber parses a json.Number amount. Using json.Number keeps the
// caller's literal digits intact instead of routing them through float64.
func ParseUSDNumber(n json.Number) (Money, error) {
	return ParseUSD(n.String())
}

func (m Money) Cents() int64 {
	return m.amountInCents
}

func (m Money) IsPositive() bool {
	return m.amountInCents > 0
}

// MeetsMinimum reports whether the amount is at least $0.01.
func (m Money) MeetsMinimum() bool {
	return m.amountInCents >= MinChargeCents
}

func (m Money) Equals(other Money) bool {
	return m.amountInCents == other.amountInCents
}

// AtomicUnits renders the amount in the settlement token's smallest unit as
// a decimal string, e.g. $1.00 -> "1000000" for a six-decimal token. Scaling
// happens in the decimal string, so large amounts cannot wrap an int64.
func (m Money) AtomicUnits() string {
	if m.amountInCents == 0 {
		return "0"
	}
	return fmt.Sprintf("%d%s", m.amountInCents, strings.Repeat("0", usdcDecimals-2))
}

// Decimal renders the amount as a plain decimal string, e.g. "1.00".
func (m Money) Decimal() string {
	cents := m.amountInCents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func (m Money) String() string {
	return "$" + m.Decimal()
}
