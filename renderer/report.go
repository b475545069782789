// Package renderer renders tax reports as markdown.
package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/vdatax"
)

// ReportMarkdown renders the report: summary, audit trail, inventory
// anomalies and closing holdings.
func ReportMarkdown(r *vdatax.TaxReport) string {
	var b strings.Builder

	title := "Tax Report"
	if r.Label != "" {
		title = fmt.Sprintf("Tax Report FY %s", r.Label)
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if !r.Period.IsZero() {
		fmt.Fprintf(&b, "Period: %s\n\n", r.Period)
	}
	fmt.Fprintf(&b, "Policy: %s, tax %s, cess %s, loss set-off %s\n\n",
		r.Policy.Name, r.Policy.TaxRate, r.Policy.Cess, allowed(r.Policy.AllowLossOffset))

	fmt.Fprint(&b, "## Summary\n\n")
	fmt.Fprintln(&b, "| Metric | Amount |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Taxable Gains | %s |\n", r.TotalGains)
	if r.Policy.AllowLossOffset {
		fmt.Fprintf(&b, "| Losses | %s |\n", r.TotalLosses)
		fmt.Fprintf(&b, "| Losses Set Off | %s |\n", r.LossesSetOff)
		fmt.Fprintf(&b, "| Net Taxable | %s |\n", r.NetTaxable)
	} else {
		fmt.Fprintf(&b, "| Losses (ignored) | %s |\n", r.TotalLosses)
	}
	fmt.Fprintf(&b, "| Tax (%s) | %s |\n", r.Policy.TaxRate, r.TotalTax)
	fmt.Fprintf(&b, "| Cess (%s) | %s |\n", r.Policy.Cess, r.TotalSurcharge)
	fmt.Fprintf(&b, "| **Final Liability** | **%s** |\n", r.FinalLiability)
	if r.Policy.AllowCarryForward {
		fmt.Fprintf(&b, "| Losses Carried Forward | %s |\n", r.LossesCarriedForward)
	}
	fmt.Fprintln(&b)

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Audit Trail\n\n")
		fmt.Fprintln(w, "| Date | Tx | Type | Asset | Quantity | Cost Basis | Value | Profit | Taxable | Rule |")
		fmt.Fprintln(w, "|:---|:---|:---|:---|---:|---:|---:|---:|---:|:---|")
		for _, l := range r.Lines {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
				day(l.Date), cell(l.TxID), l.Kind.Label(), l.Asset, l.Quantity,
				l.CostBasis, l.GrossValue, l.Profit.SignedString(), l.TaxableAmount, rule(l.Reasoning))
		}
		fmt.Fprintln(w)
		return len(r.Lines) > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		anomalies := r.Anomalies()
		fmt.Fprint(w, "## Inventory Warnings\n\n")
		fmt.Fprintln(w, "These disposals exceed the recorded acquisitions. The missing quantity has no cost basis: check for missing imports.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Date | Tx | Asset | Disposed | Missing | Status |")
		fmt.Fprintln(w, "|:---|:---|:---|---:|---:|:---|")
		for _, l := range anomalies {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s |\n",
				day(l.Date), cell(l.TxID), l.Asset, l.Quantity, l.Shortfall, l.Inventory)
		}
		fmt.Fprintln(w)
		return len(anomalies) > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Closing Holdings\n\n")
		fmt.Fprintln(w, "| Asset | Quantity | Cost | Lots | Oldest Lot |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|:---|")
		for _, h := range r.Holdings {
			fmt.Fprintf(w, "| %s | %s | %s | %d | %s |\n", h.Asset, h.Quantity, h.Cost, h.Lots, day(h.Oldest))
		}
		fmt.Fprintln(w)
		return len(r.Holdings) > 0
	})

	return b.String()
}

func allowed(b bool) string {
	if b {
		return "allowed"
	}
	return "disallowed"
}

func rule(r vdatax.Reasoning) string {
	if r.Citation == "" {
		return string(r.Category)
	}
	return fmt.Sprintf("%s (%s)", r.Category, r.Citation)
}
