package vdatax

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func testValidator() *Validator {
	v := NewValidator("INR")
	v.Now = func() time.Time { return time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC) }
	return v
}

// record returns a valid raw record, modified by the given edits.
func record(edits ...func(RawTransaction)) RawTransaction {
	raw := RawTransaction{
		FieldID:         "tx-1",
		FieldDate:       "2026-05-01T10:00:00Z",
		FieldKind:       "ACQUIRE",
		FieldAsset:      "BTC",
		FieldQuantity:   json.Number("0.5"),
		FieldGrossValue: json.Number("2500000"),
		FieldOrigin:     OriginManual,
	}
	for _, edit := range edits {
		edit(raw)
	}
	return raw
}

func set(field string, value any) func(RawTransaction) {
	return func(raw RawTransaction) { raw[field] = value }
}

func TestValidator_Valid(t *testing.T) {
	tx, err := testValidator().Validate(record(set(FieldFee, 12.5), set(FieldKind, "SELL"), set(FieldHash, "0xabc")))
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if tx.Hash != "0xabc" {
		t.Errorf("Hash = %q, want 0xabc", tx.Hash)
	}
	if tx.Kind != Dispose {
		t.Errorf("Kind = %s, want %s", tx.Kind, Dispose)
	}
	if !tx.Quantity.Equal(Q(0.5)) {
		t.Errorf("Quantity = %s, want 0.5", tx.Quantity)
	}
	assertMoney(t, "GrossValue", tx.GrossValue, inr(2500000))
	assertMoney(t, "Fee", tx.Fee, inr(12.5))
	if want := time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC); !tx.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", tx.Date, want)
	}
}

func TestValidator_DateLayouts(t *testing.T) {
	for _, s := range []string{"2026-05-01", "2026-05-01T10:00:00", "2026-05-01T10:00:00.123+05:30"} {
		if _, err := testValidator().Validate(record(set(FieldDate, s))); err != nil {
			t.Errorf("Validate(date %q) failed: %v", s, err)
		}
	}
}

func TestValidator_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(RawTransaction)
		field string
	}{
		{"negative quantity", set(FieldQuantity, -1.0), FieldQuantity},
		{"NaN value", set(FieldGrossValue, math.NaN()), FieldGrossValue},
		{"infinite fee", set(FieldFee, math.Inf(1)), FieldFee},
		{"above ceiling", set(FieldGrossValue, json.Number("1000000001")), FieldGrossValue},
		{"tiny exponent", set(FieldQuantity, json.Number("1e-100000000")), FieldQuantity},
		{"huge exponent", set(FieldGrossValue, json.Number("1e10000000")), FieldGrossValue},
		{"too many decimals", set(FieldFee, json.Number("0.0000000000000000001")), FieldFee},
		{"numeric string", set(FieldQuantity, "1"), FieldQuantity},
		{"missing value", func(r RawTransaction) { delete(r, FieldGrossValue) }, FieldGrossValue},
		{"lowercase asset", set(FieldAsset, "btc"), FieldAsset},
		{"short asset", set(FieldAsset, "B"), FieldAsset},
		{"long asset", set(FieldAsset, "BITCOINCASH1"), FieldAsset},
		{"symbol asset", set(FieldAsset, "BTC-X"), FieldAsset},
		{"future date", set(FieldDate, "2026-12-01"), FieldDate},
		{"ancient date", set(FieldDate, "2005-01-01"), FieldDate},
		{"garbage date", set(FieldDate, "yesterday"), FieldDate},
		{"unknown kind", set(FieldKind, "STAKE"), FieldKind},
		{"lowercase kind", set(FieldKind, "buy"), FieldKind},
		{"empty id", set(FieldID, " "), FieldID},
		{"numeric hash", set(FieldHash, 12.0), FieldHash},
		{"long hash", set(FieldHash, strings.Repeat("f", 129)), FieldHash},
		{"long origin", set(FieldOrigin, strings.Repeat("x", 51)), FieldOrigin},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := testValidator().Validate(record(tc.edit))
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want a *ValidationError", err)
			}
			if !verr.Has(tc.field) {
				t.Errorf("Validate() error = %v, want a violation of %s", err, tc.field)
			}
		})
	}
}

func TestValidator_CollectsAllErrors(t *testing.T) {
	_, err := testValidator().Validate(record(
		set(FieldAsset, "btc"),
		set(FieldQuantity, -2.0),
		set(FieldDate, "2030-01-01"),
		set(FieldKind, "GIFT"),
	))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() error = %v, want a *ValidationError", err)
	}
	var fields []string
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	want := []string{FieldDate, FieldKind, FieldAsset, FieldQuantity}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("violated fields mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(err.Error(), "record #0 (tx-1): date: ") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestValidator_Malformed(t *testing.T) {
	_, err := testValidator().Validate(nil)
	if !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("Validate(nil) error = %v, want ErrMalformedRecord", err)
	}
}

func TestValidateBatch(t *testing.T) {
	raws := []RawTransaction{
		record(set(FieldID, "a")),
		record(set(FieldID, "b"), set(FieldAsset, "eth")),
		record(set(FieldID, "c")),
		record(set(FieldID, "a")),
	}

	batch, err := testValidator().ValidateBatch(raws, false)
	if err != nil {
		t.Fatalf("ValidateBatch() failed: %v", err)
	}
	var valid []string
	for _, tx := range batch.Valid {
		valid = append(valid, tx.ID)
	}
	if diff := cmp.Diff([]string{"a", "c"}, valid); diff != "" {
		t.Errorf("valid ids mismatch (-want +got):\n%s", diff)
	}
	var rejected []int
	for _, r := range batch.Rejected {
		rejected = append(rejected, r.Index)
	}
	if diff := cmp.Diff([]int{1, 3}, rejected); diff != "" {
		t.Errorf("rejected records mismatch (-want +got):\n%s", diff)
	}

	_, err = testValidator().ValidateBatch(raws, true)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("strict ValidateBatch() error = %v, want a *ValidationError in the chain", err)
	}
	if !strings.HasPrefix(err.Error(), "2 invalid transactions") {
		t.Errorf("strict ValidateBatch() error = %q", err)
	}
}
