package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/vdatax"
)

// row is a CSV record indexed by header name.
type row map[string]string

// csvAdapter reads a CSV export with a header line and maps each record with
// mapRow.
type csvAdapter struct {
	source string
	mapRow func(row) (vdatax.RawTransaction, error)
}

func (a *csvAdapter) Parse(r io.Reader) ([]vdatax.RawTransaction, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("%s export: cannot read header: %w", a.source, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var (
		raws    []vdatax.RawTransaction
		rowErrs []RowError
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%s export: %w", a.source, err)
		}
		if isBlank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		rec := make(row, len(header))
		for i, name := range header {
			if i < len(record) {
				rec[name] = strings.TrimSpace(record[i])
			}
		}
		raw, err := a.mapRow(rec)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: err})
			continue
		}
		raw[vdatax.FieldID] = newID()
		raw[vdatax.FieldOrigin] = a.source
		raws = append(raws, raw)
	}
	return raws, rowErrs, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// columns describes where a source keeps each field.
type columns struct {
	date, side, market, quantity, price, fee, total string
	quotes                                          []string
}

// mapColumns builds a raw transaction from the columns of rec.
func mapColumns(rec row, c columns) (vdatax.RawTransaction, error) {
	if rec[c.date] == "" {
		return nil, fmt.Errorf("missing %s", c.date)
	}
	if rec[c.quantity] == "" {
		return nil, fmt.Errorf("missing %s", c.quantity)
	}
	on, err := parseTime(rec[c.date])
	if err != nil {
		return nil, err
	}
	kind, err := side(rec[c.side])
	if err != nil {
		return nil, err
	}
	raw := vdatax.RawTransaction{
		vdatax.FieldDate:  on,
		vdatax.FieldKind:  string(kind),
		vdatax.FieldAsset: trimQuote(rec[c.market], c.quotes...),
	}
	for field, column := range map[string]string{
		vdatax.FieldQuantity:   c.quantity,
		vdatax.FieldUnitPrice:  c.price,
		vdatax.FieldFee:        c.fee,
		vdatax.FieldGrossValue: c.total,
	} {
		d, err := parseAmount(rec[column])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", column, err)
		}
		raw[field] = d
	}
	return raw, nil
}

// wazirxRow maps the WazirX trade report: Market is "BTC/INR".
func wazirxRow(rec row) (vdatax.RawTransaction, error) {
	return mapColumns(rec, columns{
		date: "Date", side: "Side", market: "Market",
		quantity: "Volume", price: "Price", fee: "Fee", total: "Total",
	})
}

// coindcxRow maps the CoinDCX trade history: market is "BTCINR".
func coindcxRow(rec row) (vdatax.RawTransaction, error) {
	return mapColumns(rec, columns{
		date: "createdAt", side: "side", market: "market",
		quantity: "quantity", price: "price", fee: "fee", total: "total_price",
		quotes: []string{"INR"},
	})
}

// binanceRow maps the Binance trade history: Market is "BTCUSDT".
func binanceRow(rec row) (vdatax.RawTransaction, error) {
	return mapColumns(rec, columns{
		date: "Date(UTC)", side: "Side", market: "Market",
		quantity: "Amount", price: "Price", fee: "Fee", total: "Total",
		quotes: []string{"USDT", "BUSD", "INR"},
	})
}
