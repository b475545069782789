package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/vdatax"
	"github.com/etnz/vdatax/importer"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// entryCmd records one transaction entered by hand. The same command serves
// buy, sell, income and transfer.
type entryCmd struct {
	name     string
	synopsis string
	valueDoc string
	create   func(id string, on time.Time, asset string, quantity vdatax.Quantity, value vdatax.Money) vdatax.Transaction

	id       string
	date     string
	asset    string
	quantity string
	value    string
	fee      string
	price    string
	hash     string
}

func newBuyCmd() *entryCmd {
	return &entryCmd{name: "buy", synopsis: "record a purchase of an asset", valueDoc: "Total cost", create: vdatax.NewAcquire}
}

func newSellCmd() *entryCmd {
	return &entryCmd{name: "sell", synopsis: "record a sale of an asset", valueDoc: "Total proceeds", create: vdatax.NewDispose}
}

func newIncomeCmd() *entryCmd {
	return &entryCmd{name: "income", synopsis: "record an asset received as income (staking, airdrop, ...)", valueDoc: "Value on receipt", create: vdatax.NewIncome}
}

func newTransferCmd() *entryCmd {
	return &entryCmd{name: "transfer", synopsis: "record a transfer of an asset between own wallets", valueDoc: "Value at transfer", create: vdatax.NewMove}
}

func (c *entryCmd) Name() string     { return c.name }
func (c *entryCmd) Synopsis() string { return c.synopsis }
func (c *entryCmd) Usage() string {
	return fmt.Sprintf(`vdt %s -a <asset> -q <quantity> -v <value> [-d <date>] [-fee <fee>] [-p <unit price>] [-id <id>] [-hash <hash>]

  Appends a manual transaction to the ledger after validating it. Amounts are
  in the reporting currency.
`, c.name)
}

func (c *entryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", time.Now().UTC().Format(time.DateOnly), "Transaction date (YYYY-MM-DD or RFC 3339)")
	f.StringVar(&c.asset, "a", "", "Asset symbol (e.g. BTC)")
	f.StringVar(&c.quantity, "q", "", "Quantity of the asset")
	f.StringVar(&c.value, "v", "", c.valueDoc+" in the reporting currency")
	f.StringVar(&c.fee, "fee", "", "Fee paid, not part of the cost basis")
	f.StringVar(&c.price, "p", "", "Unit price, informational")
	f.StringVar(&c.id, "id", "", "Transaction id, a new UUID when empty")
	f.StringVar(&c.hash, "hash", "", "On-chain transaction hash")
}

func (c *entryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.asset == "" || c.quantity == "" || c.value == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	cfg, err := setup()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}

	tx, err := c.transaction(cfg.Policy.Currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	// the validator is the only gate into the ledger, manual or not
	tx, err = cfg.Validator().Validate(tx.Raw())
	if err != nil {
		return fail("Invalid transaction: %v", err)
	}
	if err := appendTransactions([]vdatax.Transaction{tx}); err != nil {
		return fail("Error writing to ledger file %q: %v", *ledgerFile, err)
	}
	log.Info().Str("id", tx.ID).Str("kind", string(tx.Kind)).Str("asset", tx.Asset).Msg("transaction recorded")
	fmt.Fprintf(stdout, "Successfully appended transaction %s to %s\n", tx.ID, *ledgerFile)
	return subcommands.ExitSuccess
}

// transaction builds the transaction described by the flags.
func (c *entryCmd) transaction(currency string) (vdatax.Transaction, error) {
	on, err := parseDate(c.date)
	if err != nil {
		return vdatax.Transaction{}, err
	}
	quantity, err := parseDecimal("quantity", c.quantity)
	if err != nil {
		return vdatax.Transaction{}, err
	}
	value, err := parseDecimal("value", c.value)
	if err != nil {
		return vdatax.Transaction{}, err
	}
	id := c.id
	if id == "" {
		id = uuid.NewString()
	}

	tx := c.create(id, on, importer.NormalizeAsset(c.asset), vdatax.Q(quantity), vdatax.M(value, currency))
	if c.fee != "" {
		fee, err := parseDecimal("fee", c.fee)
		if err != nil {
			return vdatax.Transaction{}, err
		}
		tx.Fee = vdatax.M(fee, currency)
	}
	if c.price != "" {
		price, err := parseDecimal("unit price", c.price)
		if err != nil {
			return vdatax.Transaction{}, err
		}
		tx.UnitPrice = vdatax.M(price, currency)
	}
	tx.Hash = c.hash
	return tx, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if on, err := time.Parse(layout, s); err == nil {
			return on, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
}

func parseDecimal(name, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s %q", name, s)
	}
	return d, nil
}
