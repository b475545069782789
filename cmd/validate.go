package cmd

import (
	"context"
	"flag"

	"github.com/etnz/vdatax/renderer"
	"github.com/google/subcommands"
)

type validateCmd struct{}

func (*validateCmd) Name() string     { return "validate" }
func (*validateCmd) Synopsis() string { return "check the ledger records" }
func (*validateCmd) Usage() string {
	return `vdt validate

  Validates every record of the ledger file and lists the rejected ones with
  all their field errors. Exits with a failure if any record is rejected.
`
}

func (c *validateCmd) SetFlags(f *flag.FlagSet) {}

func (c *validateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := setup()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	batch, err := loadTransactions(cfg, false)
	if err != nil {
		return fail("Error loading ledger %q: %v", *ledgerFile, err)
	}
	printMarkdown(renderer.RejectionsMarkdown(batch))
	if len(batch.Rejected) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
