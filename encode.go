package vdatax

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// This file contains the JSONL transaction format: one JSON object per line,
// keys as in RawTransaction, amounts as bare numbers in the reporting
// currency. It stays human readable and merge friendly.

// DecodeRaw reads a JSONL stream of transactions. Records are returned raw:
// they still have to go through a Validator. Numbers are kept as json.Number
// so no precision is lost before validation.
func DecodeRaw(r io.Reader) ([]RawTransaction, error) {
	var raws []RawTransaction
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		var raw RawTransaction
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("line %d: cannot parse transaction %q: %w", n, string(line), err)
		}
		raws = append(raws, raw)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read transactions: %w", err)
	}
	return raws, nil
}

// EncodeTransaction appends a single transaction to w as a JSONL line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("cannot marshal transaction %q: %w", tx.ID, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("cannot write transaction %q: %w", tx.ID, err)
	}
	return nil
}

// EncodeReport writes the report as indented JSON.
func EncodeReport(w io.Writer, report *TaxReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("cannot marshal report: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return fmt.Errorf("cannot indent report: %w", err)
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(w)
	return err
}
