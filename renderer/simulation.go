package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/vdatax"
)

// SimulationMarkdown compares the baseline report with a simulated scenario.
func SimulationMarkdown(r *vdatax.TaxReport, s *vdatax.Simulation) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Policy Simulator\n\n")
	fmt.Fprintf(&b, "Scenario: tax %s, cess %s, loss set-off %s, carry forward %s\n\n",
		s.Scenario.TaxRate, s.Scenario.Cess, allowed(s.Scenario.AllowLossOffset), allowed(s.Scenario.AllowCarryForward))

	fmt.Fprintln(&b, "| Metric | Current Law | Simulated |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	fmt.Fprintf(&b, "| Taxable Income | %s | %s |\n", r.NetTaxable, s.NetTaxable)
	fmt.Fprintf(&b, "| Tax | %s | %s |\n", r.TotalTax, s.Tax)
	fmt.Fprintf(&b, "| Cess | %s | %s |\n", r.TotalSurcharge, s.Surcharge)
	fmt.Fprintf(&b, "| **Tax Liability** | **%s** | **%s** |\n", r.FinalLiability, s.FinalLiability)
	if s.Scenario.AllowCarryForward {
		fmt.Fprintf(&b, "| Losses Carried Forward | %s | %s |\n", r.LossesCarriedForward, s.CarriedForward)
	}
	fmt.Fprintln(&b)

	switch {
	case s.Savings.IsPositive():
		fmt.Fprintf(&b, "Potential savings: **%s**\n", s.Savings)
	case s.Savings.IsNegative():
		fmt.Fprintf(&b, "Additional tax: **%s**\n", s.Savings.Neg())
	default:
		fmt.Fprintln(&b, "No change in liability.")
	}
	return b.String()
}
