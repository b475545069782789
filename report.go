package vdatax

import (
	"errors"
	"fmt"
	"time"

	"github.com/etnz/vdatax/fiscal"
)

// InventoryStatus tells how much of a disposed quantity was found in the
// inventory.
type InventoryStatus string

const (
	// Backed disposals were fully matched against acquisition lots.
	Backed InventoryStatus = "backed"
	// Partial disposals were matched in part; the rest carries no cost.
	Partial InventoryStatus = "partial"
	// Unbacked disposals had no acquisition lot at all.
	Unbacked InventoryStatus = "unbacked"
)

// statusOf classifies a Disposal.
func statusOf(d Disposal) InventoryStatus {
	switch {
	case !d.Shortfall.IsPositive():
		return Backed
	case d.Matched.IsPositive():
		return Partial
	default:
		return Unbacked
	}
}

// TaxReportLine is the audit entry of one disposal or income event.
type TaxReportLine struct {
	TxID          string
	Asset         string
	Date          time.Time
	Kind          Kind
	Quantity      Quantity
	CostBasis     Money // cost of the lots consumed, zero for income
	GrossValue    Money // sale proceeds or income received
	Profit        Money // GrossValue - CostBasis, signed
	TaxableAmount Money // Profit floored at zero
	Inventory     InventoryStatus
	Shortfall     Quantity // quantity disposed beyond the known inventory
	Reasoning     Reasoning
}

// MarshalJSON writes the line with a stable field order.
func (l TaxReportLine) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("txId", l.TxID)
	w.Append("asset", l.Asset)
	w.Append("date", l.Date.UTC().Format(time.RFC3339Nano))
	w.Append("kind", l.Kind)
	w.Append("quantity", l.Quantity)
	w.Amount("costBasis", l.CostBasis)
	w.Amount("grossValue", l.GrossValue)
	w.Amount("profit", l.Profit)
	w.Amount("taxableAmount", l.TaxableAmount)
	w.Optional("inventory", string(l.Inventory))
	if l.Shortfall.IsPositive() {
		w.Append("shortfall", l.Shortfall)
	}
	w.Append("ruleId", l.Reasoning.RuleID)
	w.Optional("citation", l.Reasoning.Citation)
	w.Append("explanation", l.Reasoning.Explanation)
	w.Append("category", l.Reasoning.Category)
	return w.MarshalJSON()
}

// TaxReport aggregates the tax liability of a list of transactions.
type TaxReport struct {
	Policy TaxPolicy
	Label  string       // fiscal year label, empty for the whole history
	Period fiscal.Range // zero for the whole history

	TotalGains           Money // sum of positive taxable amounts
	TotalLosses          Money // sum of absolute negative profits
	LossesSetOff         Money // losses absorbed by gains, zero without loss set-off
	NetTaxable           Money // TotalGains - LossesSetOff
	TotalTax             Money
	TotalSurcharge       Money
	FinalLiability       Money
	LossesCarriedForward Money // informational, zero without carry forward

	Lines    []TaxReportLine // in processing order
	Holdings []Holding       // inventory left at the end of the run
}

// Currency returns the reporting currency.
func (r *TaxReport) Currency() string { return r.Policy.Currency }

// Anomalies returns the lines whose disposal was not fully backed by the
// inventory.
func (r *TaxReport) Anomalies() []TaxReportLine {
	var lines []TaxReportLine
	for _, l := range r.Lines {
		if l.Inventory == Partial || l.Inventory == Unbacked {
			lines = append(lines, l)
		}
	}
	return lines
}

// Reconcile re-derives the aggregates from the lines and checks that every
// line's category agrees with its taxable amount.
func (r *TaxReport) Reconcile() error {
	var errs []error
	gains := Money{cur: r.Currency()}
	for _, l := range r.Lines {
		if l.TaxableAmount.IsNegative() {
			errs = append(errs, fmt.Errorf("line %s: negative taxable amount %s", l.TxID, l.TaxableAmount))
		}
		if l.TaxableAmount.IsPositive() {
			gains = gains.Add(l.TaxableAmount)
		}
		switch l.Reasoning.Category {
		case Taxable:
			if !l.TaxableAmount.IsPositive() {
				errs = append(errs, fmt.Errorf("line %s: classified %s with taxable amount %s", l.TxID, Taxable, l.TaxableAmount))
			}
		case LossIgnored, NonTaxable:
			if !l.TaxableAmount.IsZero() {
				errs = append(errs, fmt.Errorf("line %s: classified %s with taxable amount %s", l.TxID, l.Reasoning.Category, l.TaxableAmount))
			}
		}
	}
	if !gains.Equal(r.TotalGains) {
		errs = append(errs, fmt.Errorf("total gains %s do not match the lines total %s", r.TotalGains, gains))
	}
	if !r.NetTaxable.Equal(r.TotalGains.Sub(r.LossesSetOff)) {
		errs = append(errs, fmt.Errorf("net taxable %s is not gains %s minus set-off %s", r.NetTaxable, r.TotalGains, r.LossesSetOff))
	}
	if !r.FinalLiability.Equal(r.TotalTax.Add(r.TotalSurcharge)) {
		errs = append(errs, fmt.Errorf("final liability %s is not tax %s plus surcharge %s", r.FinalLiability, r.TotalTax, r.TotalSurcharge))
	}
	return errors.Join(errs...)
}

// MarshalJSON writes the report with a stable field order.
func (r *TaxReport) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("policy", r.Policy.Name)
	w.Append("currency", r.Currency())
	w.Optional("fiscalYear", r.Label)
	if !r.Period.IsZero() {
		w.Append("from", r.Period.From.Format(time.DateOnly))
		w.Append("to", r.Period.To.Format(time.DateOnly))
	}
	w.Append("taxRate", r.Policy.TaxRate)
	w.Append("cess", r.Policy.Cess)
	w.Amount("totalGains", r.TotalGains)
	w.Amount("totalLosses", r.TotalLosses)
	w.Amount("lossesSetOff", r.LossesSetOff)
	w.Amount("netTaxable", r.NetTaxable)
	w.Amount("totalTax", r.TotalTax)
	w.Amount("totalCess", r.TotalSurcharge)
	w.Amount("finalTaxLiability", r.FinalLiability)
	if r.LossesCarriedForward.IsPositive() {
		w.Amount("lossesCarriedForward", r.LossesCarriedForward)
	}
	lines := r.Lines
	if lines == nil {
		lines = []TaxReportLine{}
	}
	w.Append("details", lines)
	return w.MarshalJSON()
}
