package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/vdatax"
	"github.com/etnz/vdatax/importer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	source  string
	mapping string
	dryRun  bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import an exchange export into the ledger" }
func (*importCmd) Usage() string {
	return fmt.Sprintf(`vdt import -source <source> [-n] <file>
vdt import -mapping <mapping.json> [-n] <file>

  Converts an exchange trade history into ledger transactions and appends the
  valid ones to the ledger file. Supported CSV sources: %s.

  -mapping reads a JSON export instead, using a mapping file of JSONPath
  expressions: {"source": "...", "rows": "$.trades[*]", "fields": {...}}.
`, strings.Join(importer.Sources(), ", "))
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.source, "source", "", "Exchange of the CSV export ("+strings.Join(importer.Sources(), ", ")+")")
	f.StringVar(&c.mapping, "mapping", "", "JSONPath mapping file of a JSON export")
	f.BoolVar(&c.dryRun, "n", false, "Print the transactions instead of appending them")
}

func (c *importCmd) adapter() (importer.Adapter, error) {
	if c.mapping == "" {
		return importer.For(c.source)
	}
	f, err := os.Open(c.mapping)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return importer.DecodeJSONAdapter(f)
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || (c.source == "") == (c.mapping == "") {
		fmt.Fprintln(os.Stderr, "exactly one file and one of -source or -mapping are required")
		return subcommands.ExitUsageError
	}
	cfg, err := setup()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	adapter, err := c.adapter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	in, err := os.Open(f.Arg(0))
	if err != nil {
		return fail("Error opening export: %v", err)
	}
	defer in.Close()

	raws, rowErrs, err := adapter.Parse(in)
	if err != nil {
		return fail("Error reading export %q: %v", f.Arg(0), err)
	}
	for _, e := range rowErrs {
		log.Warn().Int("row", e.Line).Err(e.Err).Msg("row skipped")
	}

	batch, err := cfg.Validator().ValidateBatch(raws, false)
	if err != nil {
		return fail("Error validating export: %v", err)
	}
	for _, r := range batch.Rejected {
		log.Warn().Int("record", r.Index).Str("id", r.ID).Msg(r.Error())
	}

	if c.dryRun {
		for _, tx := range batch.Valid {
			if err := vdatax.EncodeTransaction(stdout, tx); err != nil {
				return fail("Error writing transaction: %v", err)
			}
		}
		return subcommands.ExitSuccess
	}
	if err := appendTransactions(batch.Valid); err != nil {
		return fail("Error writing to ledger file %q: %v", *ledgerFile, err)
	}
	log.Info().
		Str("file", *ledgerFile).
		Int("imported", len(batch.Valid)).
		Int("skipped", len(rowErrs)+len(batch.Rejected)).
		Msg("export imported")
	return subcommands.ExitSuccess
}
