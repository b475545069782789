package vdatax

import (
	"time"
)

// Transaction is an immutable record of one economic event, as produced by
// the Validator.
type Transaction struct {
	ID         string
	Date       time.Time
	Kind       Kind
	Asset      string   // upper case symbol, e.g. BTC
	Quantity   Quantity // units of Asset involved
	GrossValue Money    // total consideration in the reporting currency
	Fee        Money    // not part of the cost basis
	UnitPrice  Money    // informational only, zero when unknown
	Origin     string   // MANUAL or an exchange name
	Hash       string   // on-chain transaction hash, optional
}

// newTx is the common factory behind the kind specific constructors.
func newTx(kind Kind, id string, on time.Time, asset string, quantity Quantity, value Money) Transaction {
	return Transaction{
		ID:         id,
		Date:       on,
		Kind:       kind,
		Asset:      asset,
		Quantity:   quantity,
		GrossValue: value,
		Fee:        Money{cur: value.cur},
		UnitPrice:  Money{cur: value.cur},
		Origin:     OriginManual,
	}
}

// NewAcquire creates a purchase of quantity units of asset for a total cost.
func NewAcquire(id string, on time.Time, asset string, quantity Quantity, cost Money) Transaction {
	return newTx(Acquire, id, on, asset, quantity, cost)
}

// NewDispose creates a sale of quantity units of asset for total proceeds.
func NewDispose(id string, on time.Time, asset string, quantity Quantity, proceeds Money) Transaction {
	return newTx(Dispose, id, on, asset, quantity, proceeds)
}

// NewIncome creates the receipt of quantity units of asset valued at value.
func NewIncome(id string, on time.Time, asset string, quantity Quantity, value Money) Transaction {
	return newTx(Income, id, on, asset, quantity, value)
}

// NewMove creates a transfer of quantity units of asset between own wallets.
func NewMove(id string, on time.Time, asset string, quantity Quantity, value Money) Transaction {
	return newTx(Move, id, on, asset, quantity, value)
}

// OriginManual is the origin of transactions entered by hand.
const OriginManual = "MANUAL"

// MarshalJSON writes the transaction in the JSONL ledger format. Amounts are
// bare numbers, the currency is the reporting currency of the file.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("date", t.Date.UTC().Format(time.RFC3339Nano))
	w.Append("kind", t.Kind)
	w.Append("asset", t.Asset)
	w.Append("quantity", t.Quantity)
	w.Amount("grossValue", t.GrossValue)
	if !t.Fee.IsZero() {
		w.Amount("fee", t.Fee)
	}
	if !t.UnitPrice.IsZero() {
		w.Append("unitPrice", t.UnitPrice.value)
	}
	w.Optional("origin", t.Origin)
	w.Optional("hash", t.Hash)
	return w.MarshalJSON()
}

// Raw returns the transaction as a raw record, the inverse of validation.
func (t Transaction) Raw() RawTransaction {
	raw := RawTransaction{
		"id":         t.ID,
		"date":       t.Date.UTC().Format(time.RFC3339Nano),
		"kind":       string(t.Kind),
		"asset":      t.Asset,
		"quantity":   t.Quantity.value,
		"grossValue": t.GrossValue.value,
		"fee":        t.Fee.value,
		"origin":     t.Origin,
	}
	if !t.UnitPrice.IsZero() {
		raw["unitPrice"] = t.UnitPrice.value
	}
	if t.Hash != "" {
		raw["hash"] = t.Hash
	}
	return raw
}
