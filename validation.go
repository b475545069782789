package vdatax

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawTransaction is a transaction record of unknown shape, typically decoded
// from JSON or produced by an import adapter.
type RawTransaction map[string]any

// Field names of a RawTransaction.
const (
	FieldID         = "id"
	FieldDate       = "date"
	FieldKind       = "kind"
	FieldAsset      = "asset"
	FieldQuantity   = "quantity"
	FieldGrossValue = "grossValue"
	FieldFee        = "fee"
	FieldUnitPrice  = "unitPrice"
	FieldOrigin     = "origin"
	FieldHash       = "hash"
)

var assetSymbol = regexp.MustCompile(`^[A-Z0-9]+$`)

// dateLayouts are tried in order to read the date field.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Amounts are kept to this exponent range. Wider exponents are not realistic
// values and make decimal comparisons arbitrarily slow.
const (
	minExponent = -18
	maxExponent = 9
)

// Validator checks raw records against the field constraints of a Transaction.
type Validator struct {
	Currency string           // reporting currency assigned to monetary fields
	MinYear  int              // oldest acceptable transaction year
	Ceiling  decimal.Decimal  // upper bound of every amount
	Now      func() time.Time // clock used to reject future dates
}

// NewValidator returns a Validator for the given reporting currency with the
// default bounds: year 2009 onward, amounts up to one billion.
func NewValidator(currency string) *Validator {
	return &Validator{
		Currency: currency,
		MinYear:  2009,
		Ceiling:  decimal.New(1, 9),
		Now:      time.Now,
	}
}

// Validate returns the validated transaction or a *ValidationError listing
// every violated constraint. Only a nil record is reported as
// ErrMalformedRecord.
func (v *Validator) Validate(raw RawTransaction) (Transaction, error) {
	return v.validate(0, raw)
}

func (v *Validator) validate(index int, raw RawTransaction) (Transaction, error) {
	if raw == nil {
		return Transaction{}, fmt.Errorf("record #%d: %w", index, ErrMalformedRecord)
	}
	verr := &ValidationError{Index: index}
	var tx Transaction

	// id
	switch id := raw[FieldID].(type) {
	case string:
		if strings.TrimSpace(id) == "" {
			verr.add(FieldID, "id is empty")
		}
		tx.ID, verr.ID = id, id
	case nil:
		verr.add(FieldID, "id is missing")
	default:
		verr.add(FieldID, "id must be a string, got %T", id)
	}

	tx.Date = v.date(verr, raw[FieldDate])
	tx.Kind = v.kind(verr, raw[FieldKind])
	tx.Asset = v.asset(verr, raw[FieldAsset])

	tx.Quantity = Quantity{value: v.amount(verr, FieldQuantity, raw[FieldQuantity], true)}
	tx.GrossValue = Money{value: v.amount(verr, FieldGrossValue, raw[FieldGrossValue], true), cur: v.Currency}
	tx.Fee = Money{value: v.amount(verr, FieldFee, raw[FieldFee], false), cur: v.Currency}
	tx.UnitPrice = Money{value: v.amount(verr, FieldUnitPrice, raw[FieldUnitPrice], false), cur: v.Currency}

	switch origin := raw[FieldOrigin].(type) {
	case string:
		if n := len([]rune(origin)); n < 1 || n > 50 {
			verr.add(FieldOrigin, "origin must be 1 to 50 characters")
		}
		tx.Origin = origin
	case nil:
		verr.add(FieldOrigin, "origin is missing")
	default:
		verr.add(FieldOrigin, "origin must be a string, got %T", origin)
	}

	switch hash := raw[FieldHash].(type) {
	case string:
		if len(hash) > 128 {
			verr.add(FieldHash, "hash too long")
		}
		tx.Hash = hash
	case nil:
	default:
		verr.add(FieldHash, "hash must be a string, got %T", hash)
	}

	if len(verr.Fields) > 0 {
		return Transaction{}, verr
	}
	return tx, nil
}

func (v *Validator) date(verr *ValidationError, value any) time.Time {
	var on time.Time
	switch d := value.(type) {
	case time.Time:
		on = d
	case string:
		var err error
		for _, layout := range dateLayouts {
			if on, err = time.Parse(layout, d); err == nil {
				break
			}
		}
		if err != nil {
			verr.add(FieldDate, "invalid date %q", d)
			return time.Time{}
		}
	case nil:
		verr.add(FieldDate, "date is missing")
		return time.Time{}
	default:
		verr.add(FieldDate, "date must be a string, got %T", d)
		return time.Time{}
	}
	if on.Year() < v.MinYear {
		verr.add(FieldDate, "date %s is before %d", on.Format(time.DateOnly), v.MinYear)
	}
	if on.After(v.Now()) {
		verr.add(FieldDate, "date %s is in the future", on.Format(time.DateOnly))
	}
	return on
}

func (v *Validator) kind(verr *ValidationError, value any) Kind {
	s, ok := value.(string)
	if !ok {
		if value == nil {
			verr.add(FieldKind, "kind is missing")
		} else {
			verr.add(FieldKind, "kind must be a string, got %T", value)
		}
		return ""
	}
	k, err := ParseKind(s)
	if err != nil {
		verr.add(FieldKind, "unrecognized kind %q", s)
	}
	return k
}

// asset checks the symbol format. Lower case symbols are rejected: they are
// normalized on ingestion, not here.
func (v *Validator) asset(verr *ValidationError, value any) string {
	s, ok := value.(string)
	if !ok {
		if value == nil {
			verr.add(FieldAsset, "asset is missing")
		} else {
			verr.add(FieldAsset, "asset must be a string, got %T", value)
		}
		return ""
	}
	switch n := len(s); {
	case n < 2:
		verr.add(FieldAsset, "symbol too short")
	case n > 10:
		verr.add(FieldAsset, "symbol too long")
	}
	if !assetSymbol.MatchString(s) {
		verr.add(FieldAsset, "symbol must be alphanumeric uppercase")
	}
	return s
}

// amount reads a non negative, finite number below the ceiling. Missing
// optional amounts are zero.
func (v *Validator) amount(verr *ValidationError, field string, value any, required bool) decimal.Decimal {
	var d decimal.Decimal
	switch n := value.(type) {
	case nil:
		if required {
			verr.add(field, "%s is missing", field)
		}
		return decimal.Zero
	case decimal.Decimal:
		d = n
	case json.Number:
		var err error
		if d, err = decimal.NewFromString(n.String()); err != nil {
			verr.add(field, "invalid numeric value %q", n.String())
			return decimal.Zero
		}
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			verr.add(field, "invalid numeric value")
			return decimal.Zero
		}
		d = decimal.NewFromFloat(n)
	case float32:
		if math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
			verr.add(field, "invalid numeric value")
			return decimal.Zero
		}
		d = decimal.NewFromFloat32(n)
	case int:
		d = decimal.NewFromInt(int64(n))
	case int64:
		d = decimal.NewFromInt(n)
	case int32:
		d = decimal.NewFromInt32(n)
	default:
		verr.add(field, "%s must be a number, got %T", field, value)
		return decimal.Zero
	}
	if e := d.Exponent(); e < minExponent || e > maxExponent {
		verr.add(field, "invalid numeric value")
		return decimal.Zero
	}
	if d.IsNegative() {
		verr.add(field, "value cannot be negative")
	}
	if d.GreaterThan(v.Ceiling) {
		verr.add(field, "value exceeds realistic limits")
	}
	return d
}

// Batch is the outcome of validating a list of raw records.
type Batch struct {
	Valid    []Transaction      // in input order
	Rejected []*ValidationError // one per rejected record
}

// ValidateBatch validates every record. Rejected records do not stop the
// batch, unless strict is set: then any rejection fails the whole batch.
// A repeated id is rejected on its second occurrence.
func (v *Validator) ValidateBatch(raws []RawTransaction, strict bool) (*Batch, error) {
	batch := &Batch{}
	seen := make(map[string]int, len(raws))
	for i, raw := range raws {
		tx, err := v.validate(i, raw)
		if err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return nil, err
			}
			batch.Rejected = append(batch.Rejected, verr)
			continue
		}
		if first, dup := seen[tx.ID]; dup {
			verr := &ValidationError{Index: i, ID: tx.ID}
			verr.add(FieldID, "duplicate id, already used by record #%d", first)
			batch.Rejected = append(batch.Rejected, verr)
			continue
		}
		seen[tx.ID] = i
		batch.Valid = append(batch.Valid, tx)
	}
	if strict && len(batch.Rejected) > 0 {
		errs := make([]error, len(batch.Rejected))
		for i, r := range batch.Rejected {
			errs[i] = r
		}
		return nil, fmt.Errorf("%d invalid transactions: %w", len(errs), errors.Join(errs...))
	}
	return batch, nil
}
