package vdatax

import (
	"fmt"
	"time"
)

// MoveTreatment decides how MOVE transactions are taxed.
type MoveTreatment int

const (
	// MoveNonTaxable treats a move as a self transfer: no lot is consumed
	// and nothing is reported.
	MoveNonTaxable MoveTreatment = iota
	// MoveAsDisposal treats a move as a transfer of the asset for its gross
	// value: lots are consumed and the gain is reported.
	MoveAsDisposal
)

func (m MoveTreatment) String() string {
	switch m {
	case MoveNonTaxable:
		return "non-taxable"
	case MoveAsDisposal:
		return "disposal"
	default:
		return "unknown"
	}
}

// ParseMoveTreatment parses "non-taxable" or "disposal".
func ParseMoveTreatment(s string) (MoveTreatment, error) {
	switch s {
	case "non-taxable", "ignore":
		return MoveNonTaxable, nil
	case "disposal", "dispose":
		return MoveAsDisposal, nil
	default:
		return 0, fmt.Errorf("unknown move treatment: %q", s)
	}
}

// TaxPolicy is the configuration of a tax regime. It is passed by value and
// never modified by a computation.
type TaxPolicy struct {
	Name              string
	Currency          string // reporting currency
	TaxRate           Rate   // applied to taxable gains
	Cess              Rate   // applied to the tax, not to the gain
	AllowLossOffset   bool
	AllowCarryForward bool
	Move              MoveTreatment
	FiscalYearStart   time.Month // first month of the fiscal year
}

// IndiaVDA is the Indian regime for virtual digital assets: 30% flat tax,
// 4% health and education cess, no loss set-off and no carry forward.
func IndiaVDA() TaxPolicy {
	return TaxPolicy{
		Name:            "IN-115BBH",
		Currency:        "INR",
		TaxRate:         R(0.30),
		Cess:            R(0.04),
		Move:            MoveNonTaxable,
		FiscalYearStart: time.April,
	}
}

// Validate returns a *ConfigurationError for the first invalid setting.
func (p TaxPolicy) Validate() error {
	if err := ValidateCurrency(p.Currency); err != nil {
		return &ConfigurationError{Field: "currency", Err: err}
	}
	if err := p.TaxRate.Validate(); err != nil {
		return &ConfigurationError{Field: "tax rate", Err: err}
	}
	if err := p.Cess.Validate(); err != nil {
		return &ConfigurationError{Field: "cess", Err: err}
	}
	if p.Move != MoveNonTaxable && p.Move != MoveAsDisposal {
		return &ConfigurationError{Field: "move treatment", Err: fmt.Errorf("unknown value %d", p.Move)}
	}
	if p.FiscalYearStart < time.January || p.FiscalYearStart > time.December {
		return &ConfigurationError{Field: "fiscal year start", Err: fmt.Errorf("invalid month %d", p.FiscalYearStart)}
	}
	return nil
}
