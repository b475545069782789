// Package cmd implements the vdt command line application.
package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/etnz/vdatax"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&computeCmd{}, "tax")
	c.Register(&simulateCmd{}, "tax")
	c.Register(&rulesCmd{}, "tax")

	c.Register(newBuyCmd(), "transactions")
	c.Register(newSellCmd(), "transactions")
	c.Register(newIncomeCmd(), "transactions")
	c.Register(newTransferCmd(), "transactions")
	c.Register(&validateCmd{}, "transactions")
	c.Register(&importCmd{}, "transactions")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "transactions.jsonl", "Path to the ledger file containing transactions (JSONL format)")
var envFile = flag.String("env-file", ".env", "Path to an optional file of VDATAX_* settings")

// stdout receives reports, tests replace it.
var stdout io.Writer = os.Stdout

// setup loads the configuration and installs the global logger. Every
// command calls it first.
func setup() (*Config, error) {
	cfg, err := LoadConfig(*envFile)
	if err != nil {
		return nil, err
	}
	SetGlobalLogger(NewLogger(cfg.Log))
	return cfg, nil
}

// loadTransactions decodes and validates the ledger file. Rejected records
// are logged and skipped unless strict is set.
func loadTransactions(cfg *Config, strict bool) (*vdatax.Batch, error) {
	start := time.Now()
	f, err := os.Open(*ledgerFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raws, err := vdatax.DecodeRaw(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", *ledgerFile, err)
	}
	batch, err := cfg.Validator().ValidateBatch(raws, strict)
	if err != nil {
		return nil, err
	}
	for _, r := range batch.Rejected {
		log.Warn().Int("record", r.Index).Str("id", r.ID).Msg(r.Error())
	}
	log.Debug().
		Str("file", *ledgerFile).
		Int("valid", len(batch.Valid)).
		Int("rejected", len(batch.Rejected)).
		Dur("elapsed", time.Since(start)).
		Msg("ledger loaded")
	return batch, nil
}

// appendTransactions appends transactions into the ledger file.
func appendTransactions(txs []vdatax.Transaction) error {
	f, err := os.OpenFile(*ledgerFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, tx := range txs {
		if err := vdatax.EncodeTransaction(f, tx); err != nil {
			return err
		}
	}
	return f.Close()
}

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fail prints err and returns the failure status.
func fail(format string, a ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	return subcommands.ExitFailure
}
