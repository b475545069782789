package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/etnz/vdatax"
	"github.com/etnz/vdatax/fiscal"
	"github.com/etnz/vdatax/renderer"
	"github.com/google/subcommands"
)

// simulateCmd holds the flags for the 'simulate' subcommand.
type simulateCmd struct {
	fy           string
	rate         string
	cess         string
	offset       *bool // nil keeps the configured setting
	carryForward *bool
	json         bool
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "compare the liability under an alternate tax policy" }
func (*simulateCmd) Usage() string {
	return `vdt simulate [-fy <year>] [-rate <rate>] [-cess <rate>] [-offset[=false]] [-carry-forward[=false]] [-json]

  Re-aggregates the realized profits of the ledger under an alternate policy
  and compares the liability with the current law. Cost basis is not
  recomputed. Rates accept "0.2" or "20%". Without -offset or
  -carry-forward the configured settings apply, "=false" turns them off.
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fy, "fy", "", "Fiscal year to simulate (e.g. 2026-2027)")
	f.StringVar(&c.rate, "rate", "", "Simulated tax rate, defaults to the configured rate")
	f.StringVar(&c.cess, "cess", "", "Simulated cess, defaults to the configured cess")
	f.BoolFunc("offset", "Allow losses to be set off against gains", optionalBool(&c.offset))
	f.BoolFunc("carry-forward", "Carry unabsorbed losses forward", optionalBool(&c.carryForward))
	f.BoolVar(&c.json, "json", false, "Print the simulation as JSON")
}

func (c *simulateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := setup()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}

	s := vdatax.ScenarioOf(cfg.Policy)
	if c.offset != nil {
		s.AllowLossOffset = *c.offset
	}
	if c.carryForward != nil {
		s.AllowCarryForward = *c.carryForward
	}
	if c.rate != "" {
		if s.TaxRate, err = vdatax.ParseRate(c.rate); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -rate: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if c.cess != "" {
		if s.Cess, err = vdatax.ParseRate(c.cess); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -cess: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	batch, err := loadTransactions(cfg, false)
	if err != nil {
		return fail("Error loading ledger %q: %v", *ledgerFile, err)
	}

	var report *vdatax.TaxReport
	if c.fy != "" {
		y, err := fiscal.Parse(c.fy, cfg.Policy.FiscalYearStart)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing fiscal year: %v\n", err)
			return subcommands.ExitUsageError
		}
		report, err = vdatax.ComputePeriod(batch.Valid, cfg.Policy, y.Range())
		if err != nil {
			return fail("Error computing tax: %v", err)
		}
		report.Label = y.String()
	} else if report, err = vdatax.Compute(batch.Valid, cfg.Policy); err != nil {
		return fail("Error computing tax: %v", err)
	}

	sim, err := vdatax.Simulate(report, s)
	if err != nil {
		return fail("Error simulating: %v", err)
	}
	if c.json {
		if err := printJSON(sim); err != nil {
			return fail("Error writing simulation: %v", err)
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.SimulationMarkdown(report, sim))
	return subcommands.ExitSuccess
}

// optionalBool sets *p when the flag is given, leaving it nil otherwise.
func optionalBool(p **bool) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		*p = &v
		return nil
	}
}
