package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/vdatax"
	"github.com/etnz/vdatax/fiscal"
	"github.com/etnz/vdatax/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// computeCmd holds the flags for the 'compute' subcommand.
type computeCmd struct {
	fy       string
	allYears bool
	json     bool
	strict   bool
}

func (*computeCmd) Name() string     { return "compute" }
func (*computeCmd) Synopsis() string { return "compute the tax liability of the ledger" }
func (*computeCmd) Usage() string {
	return `vdt compute [-fy <year>] [-all-years] [-json] [-strict]

  Computes the capital gains tax of the ledger transactions: FIFO cost basis,
  taxable gains, ignored losses, tax, cess and final liability, with the audit
  trail of every disposal.

  Without -fy the whole history is reported. -fy accepts "2026-2027", "2026-27"
  or "2026". -all-years reports every fiscal year of the ledger.
`
}

func (c *computeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fy, "fy", "", "Fiscal year to report on (e.g. 2026-2027)")
	f.BoolVar(&c.allYears, "all-years", false, "Report every fiscal year of the ledger")
	f.BoolVar(&c.json, "json", false, "Print the report as JSON")
	f.BoolVar(&c.strict, "strict", false, "Fail if any ledger record is invalid")
}

func (c *computeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.fy != "" && c.allYears {
		fmt.Fprintln(os.Stderr, "-fy and -all-years flags cannot be used together")
		return subcommands.ExitUsageError
	}
	cfg, err := setup()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}

	var years []fiscal.Year
	if c.fy != "" {
		y, err := fiscal.Parse(c.fy, cfg.Policy.FiscalYearStart)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing fiscal year: %v\n", err)
			return subcommands.ExitUsageError
		}
		years = []fiscal.Year{y}
	}

	batch, err := loadTransactions(cfg, c.strict)
	if err != nil {
		return fail("Error loading ledger %q: %v", *ledgerFile, err)
	}
	txs := batch.Valid

	if c.allYears && len(txs) > 0 {
		from, to := txs[0].Date, txs[0].Date
		for _, tx := range txs {
			if tx.Date.Before(from) {
				from = tx.Date
			}
			if tx.Date.After(to) {
				to = tx.Date
			}
		}
		years = fiscal.Span(from, to, cfg.Policy.FiscalYearStart)
	}

	start := time.Now()
	var reports []*vdatax.TaxReport
	if len(years) == 0 {
		report, err := vdatax.Compute(txs, cfg.Policy)
		if err != nil {
			return fail("Error computing tax: %v", err)
		}
		reports = append(reports, report)
	} else {
		reports, err = vdatax.ComputeYears(ctx, txs, cfg.Policy, years)
		if err != nil {
			return fail("Error computing tax: %v", err)
		}
	}

	for _, r := range reports {
		for _, l := range r.Anomalies() {
			log.Warn().
				Str("tx", l.TxID).
				Str("asset", l.Asset).
				Stringer("shortfall", l.Shortfall).
				Str("status", string(l.Inventory)).
				Msg("disposal exceeds the known inventory")
		}
		if err := r.Reconcile(); err != nil {
			return fail("Report %s does not reconcile: %v", r.Label, err)
		}
	}
	log.Debug().Int("transactions", len(txs)).Int("reports", len(reports)).Dur("elapsed", time.Since(start)).Msg("tax computed")

	if c.json {
		var v any = reports
		if len(reports) == 1 {
			v = reports[0]
		}
		if err := printJSON(v); err != nil {
			return fail("Error writing report: %v", err)
		}
		return subcommands.ExitSuccess
	}
	for _, r := range reports {
		printMarkdown(renderer.ReportMarkdown(r))
	}
	return subcommands.ExitSuccess
}
