// Package importer maps exchange exports onto raw transaction records.
//
// Adapters only reshape rows: they pick columns, normalize asset symbols to
// upper case and assign fresh ids. Field constraints are checked afterwards by
// a vdatax.Validator.
package importer

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/etnz/vdatax"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Adapter parses an export into raw transactions. Rows that cannot be mapped
// are skipped and reported as RowErrors; the error is for unreadable input.
type Adapter interface {
	Parse(r io.Reader) ([]vdatax.RawTransaction, []RowError, error)
}

// RowError is a row that could not be mapped.
type RowError struct {
	Line int // 1-based line or element number in the export
	Err  error
}

func (e RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Line, e.Err) }

func (e RowError) Unwrap() error { return e.Err }

// Supported exchange sources.
const (
	WazirX  = "WAZIRX"
	CoinDCX = "COINDCX"
	Binance = "BINANCE"
)

// Sources lists the sources For accepts.
func Sources() []string { return []string{Binance, CoinDCX, WazirX} }

// For returns the adapter of an exchange export.
func For(source string) (Adapter, error) {
	switch strings.ToUpper(source) {
	case WazirX:
		return &csvAdapter{source: WazirX, mapRow: wazirxRow}, nil
	case CoinDCX:
		return &csvAdapter{source: CoinDCX, mapRow: coindcxRow}, nil
	case Binance:
		return &csvAdapter{source: Binance, mapRow: binanceRow}, nil
	default:
		return nil, fmt.Errorf("no adapter for source %q, want one of %s", source, strings.Join(Sources(), ", "))
	}
}

// newID returns a fresh transaction id.
var newID = uuid.NewString

// NormalizeAsset trims and upper cases an asset symbol.
func NormalizeAsset(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// timeLayouts are the date layouts found in exchange exports.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 MST",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006 15:04",
	"1/2/2006 3:04PM",
}

// parseTime guesses the layout of s and returns it as RFC3339, UTC when s
// has no zone.
func parseTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.Format(time.RFC3339Nano), nil
		}
	}
	return "", fmt.Errorf("unable to parse time %q", s)
}

// parseAmount reads a number written with optional thousands separators.
// Empty values are zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", s)
	}
	return d, nil
}

// side maps a buy/sell column onto a kind. Anything else is refused.
func side(s string) (vdatax.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return vdatax.Acquire, nil
	case "sell":
		return vdatax.Dispose, nil
	default:
		return "", fmt.Errorf("unknown side %q", s)
	}
}

// trimQuote removes a quote currency from a market symbol like BTCINR.
func trimQuote(market string, quotes ...string) string {
	market = NormalizeAsset(market)
	if base, _, found := strings.Cut(market, "/"); found {
		return base
	}
	if i := slices.IndexFunc(quotes, func(q string) bool { return strings.HasSuffix(market, q) && len(market) > len(q) }); i >= 0 {
		return strings.TrimSuffix(market, quotes[i])
	}
	return market
}
