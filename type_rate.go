package vdatax

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Rate is a fraction applied to a Money (0.30 is thirty percent).
type Rate struct {
	value decimal.Decimal
}

// R returns the Rate for the fraction value.
func R[T number](value T) Rate { return Rate{value: newDecimal(value)} }

// ParseRate parses either a fraction ("0.3") or a percentage ("30%").
func ParseRate(s string) (Rate, error) {
	s = strings.TrimSpace(s)
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Rate{}, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	if percent {
		d = d.Shift(-2)
	}
	return Rate{value: d}, nil
}

// Validate checks that the rate is a fraction between 0 and 1 inclusive.
func (r Rate) Validate() error {
	if r.value.IsNegative() {
		return fmt.Errorf("rate %s is negative", r)
	}
	if r.value.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("rate %s is above 100%%", r)
	}
	return nil
}

func (r Rate) Equal(s Rate) bool                { return r.value.Equal(s.value) }
func (r Rate) LessThan(s Rate) bool             { return r.value.LessThan(s.value) }
func (r Rate) IsZero() bool                     { return r.value.IsZero() }
func (r Rate) Decimal() decimal.Decimal         { return r.value }
func (r Rate) MarshalJSON() ([]byte, error)     { return r.value.MarshalJSON() }
func (r *Rate) UnmarshalJSON(data []byte) error { return r.value.UnmarshalJSON(data) }

// String prints the rate as a percentage.
func (r Rate) String() string {
	return r.value.Shift(2).String() + "%"
}
