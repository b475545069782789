package importer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/etnz/vdatax"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// validator accepts every date of the test exports.
func validator() *vdatax.Validator {
	v := vdatax.NewValidator("INR")
	v.Now = func() time.Time { return time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC) }
	return v
}

func parse(t *testing.T, source, export string) ([]vdatax.RawTransaction, []RowError) {
	t.Helper()
	a, err := For(source)
	if err != nil {
		t.Fatalf("For(%q) failed: %v", source, err)
	}
	raws, rowErrs, err := a.Parse(strings.NewReader(export))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return raws, rowErrs
}

func TestFor(t *testing.T) {
	for _, s := range append(Sources(), "wazirx") {
		if _, err := For(s); err != nil {
			t.Errorf("For(%q) failed: %v", s, err)
		}
	}
	if _, err := For("KRAKEN"); err == nil {
		t.Error("For(KRAKEN) succeeded")
	}
}

func TestCSV_Sources(t *testing.T) {
	tests := []struct {
		source string
		export string
		want   vdatax.RawTransaction
	}{
		{
			source: WazirX,
			export: "\ufeffDate,Market,Side,Volume,Price,Fee,Total\n" +
				"2026-05-01 10:00:00,btc/inr,Buy,0.5,\"5,000,000\",25,\"2,500,000\"\n",
			want: vdatax.RawTransaction{
				"date": "2026-05-01T10:00:00Z", "kind": "ACQUIRE", "asset": "BTC",
				"quantity": decimal.RequireFromString("0.5"), "unitPrice": decimal.RequireFromString("5000000"),
				"fee": decimal.RequireFromString("25"), "grossValue": decimal.RequireFromString("2500000"),
				"origin": WazirX,
			},
		},
		{
			source: CoinDCX,
			export: "createdAt,market,side,quantity,price,fee,total_price\n" +
				"2026-06-01T08:30:00Z,ETHINR,sell,2,250000,100,500000\n",
			want: vdatax.RawTransaction{
				"date": "2026-06-01T08:30:00Z", "kind": "DISPOSE", "asset": "ETH",
				"quantity": decimal.RequireFromString("2"), "unitPrice": decimal.RequireFromString("250000"),
				"fee": decimal.RequireFromString("100"), "grossValue": decimal.RequireFromString("500000"),
				"origin": CoinDCX,
			},
		},
		{
			source: Binance,
			export: "Date(UTC),Market,Side,Amount,Price,Fee,Total\n" +
				"2026-07-01 00:00:00,SOLUSDT,BUY,10,150,,1500\n",
			want: vdatax.RawTransaction{
				"date": "2026-07-01T00:00:00Z", "kind": "ACQUIRE", "asset": "SOL",
				"quantity": decimal.RequireFromString("10"), "unitPrice": decimal.RequireFromString("150"),
				"fee": decimal.Zero, "grossValue": decimal.RequireFromString("1500"),
				"origin": Binance,
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.source, func(t *testing.T) {
			raws, rowErrs := parse(t, tc.source, tc.export)
			if len(rowErrs) != 0 {
				t.Fatalf("Parse() row errors: %v", rowErrs)
			}
			if len(raws) != 1 {
				t.Fatalf("Parse() returned %d records, want 1", len(raws))
			}
			got := raws[0]
			if id, _ := got["id"].(string); id == "" {
				t.Errorf("record has no id")
			}
			delete(got, "id")
			if diff := cmp.Diff(tc.want, got, cmp.Comparer(decimal.Decimal.Equal)); diff != "" {
				t.Errorf("record mismatch (-want +got):\n%s", diff)
			}
			if _, err := validator().Validate(raws[0]); err != nil {
				t.Errorf("imported record does not validate: %v", err)
			}
		})
	}
}

func TestCSV_RowErrors(t *testing.T) {
	export := "Date,Market,Side,Volume,Price,Fee,Total\n" +
		"2026-05-01 10:00:00,BTC/INR,buy,1,1,0,1\n" +
		"2026-05-01 10:00:00,BTC/INR,stake,1,1,0,1\n" +
		"\n" +
		"2026-05-01 10:00:00,BTC/INR,sell,one,1,0,1\n" +
		",BTC/INR,sell,1,1,0,1\n" +
		"someday,BTC/INR,sell,1,1,0,1\n"
	raws, rowErrs := parse(t, WazirX, export)
	if len(raws) != 1 {
		t.Errorf("Parse() returned %d records, want 1", len(raws))
	}
	var lines []int
	for _, e := range rowErrs {
		lines = append(lines, e.Line)
	}
	if diff := cmp.Diff([]int{3, 5, 6, 7}, lines); diff != "" {
		t.Errorf("row error lines mismatch (-want +got):\n%s", diff)
	}
}

func TestCSV_Empty(t *testing.T) {
	raws, rowErrs := parse(t, Binance, "")
	if len(raws) != 0 || len(rowErrs) != 0 {
		t.Errorf("Parse(empty) = %v, %v", raws, rowErrs)
	}
}

func TestTrimQuote(t *testing.T) {
	tests := []struct{ market, want string }{
		{"BTC/INR", "BTC"},
		{"btcinr", "BTC"},
		{"ETHUSDT", "ETH"},
		{"INR", "INR"},
		{"MATIC", "MATIC"},
	}
	for _, tc := range tests {
		if got := trimQuote(tc.market, "USDT", "INR"); got != tc.want {
			t.Errorf("trimQuote(%q) = %q, want %q", tc.market, got, tc.want)
		}
	}
}

const jsonExport = `{
  "account": "main",
  "data": {
    "trades": [
      {"t": 1777629600000, "pair": {"base": "btc"}, "type": "purchase", "qty": "0.25", "value": 1250000, "cost": {"fee": 12.5}, "txid": "0x9f2c"},
      {"t": "2026-06-01 10:00:00", "pair": {"base": "btc"}, "type": "disposal", "qty": 0.25, "value": "1,400,000"},
      {"t": "2026-06-02 10:00:00", "pair": {"base": "eth"}, "type": "gift", "qty": 1, "value": 1}
    ]
  }
}`

const jsonMapping = `{
  "source": "koinx",
  "rows": "$.data.trades[*]",
  "fields": {
    "date": "$.t",
    "asset": "$.pair.base",
    "kind": "$.type",
    "quantity": "$.qty",
    "grossValue": "$.value",
    "fee": "$.cost.fee",
    "hash": "$.txid"
  },
  "kinds": {"purchase": "ACQUIRE", "disposal": "DISPOSE"}
}`

func TestJSONAdapter(t *testing.T) {
	a, err := DecodeJSONAdapter(strings.NewReader(jsonMapping))
	if err != nil {
		t.Fatalf("DecodeJSONAdapter() failed: %v", err)
	}
	raws, rowErrs, err := a.Parse(strings.NewReader(jsonExport))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(rowErrs) != 1 || rowErrs[0].Line != 3 || !errors.Is(rowErrs[0], vdatax.ErrUnknownKind) {
		t.Errorf("row errors = %v, want an unknown kind on row 3", rowErrs)
	}
	if len(raws) != 2 {
		t.Fatalf("Parse() returned %d records, want 2", len(raws))
	}
	sale, err := validator().Validate(raws[1])
	if err != nil {
		t.Fatalf("imported sale does not validate: %v", err)
	}
	if !sale.GrossValue.Equal(vdatax.M(1400000, "INR")) || !sale.Fee.IsZero() || sale.Hash != "" {
		t.Errorf("imported sale = %+v", sale)
	}

	tx, err := validator().Validate(raws[0])
	if err != nil {
		t.Fatalf("imported record does not validate: %v", err)
	}
	if tx.Kind != vdatax.Acquire || tx.Asset != "BTC" || tx.Origin != "KOINX" {
		t.Errorf("imported transaction = %+v", tx)
	}
	if !tx.Quantity.Equal(vdatax.Q(0.25)) {
		t.Errorf("quantity = %s, want 0.25", tx.Quantity)
	}
	if want := time.UnixMilli(1777629600000).UTC(); !tx.Date.Equal(want) {
		t.Errorf("date = %v, want %v", tx.Date, want)
	}
	if !tx.Fee.Equal(vdatax.M(12.5, "INR")) {
		t.Errorf("fee = %s, want 12.5", tx.Fee.Decimal())
	}
	if tx.Hash != "0x9f2c" {
		t.Errorf("hash = %q, want 0x9f2c", tx.Hash)
	}
}

func TestJSONAdapter_OptionalFieldMissing(t *testing.T) {
	a := &JSONAdapter{
		Source: "X",
		Rows:   "$[*]",
		Fields: map[string]string{
			"date": "$.d", "asset": "$.a", "kind": "$.k", "quantity": "$.q", "grossValue": "$.v",
		},
	}
	raws, rowErrs, err := a.Parse(strings.NewReader(`[{"d":"2026-05-01","a":"ada","k":"buy","q":100,"v":4000}]`))
	if err != nil || len(rowErrs) != 0 {
		t.Fatalf("Parse() = %v, %v", rowErrs, err)
	}
	tx, err := validator().Validate(raws[0])
	if err != nil {
		t.Fatalf("imported record does not validate: %v", err)
	}
	if tx.Kind != vdatax.Acquire || tx.Asset != "ADA" {
		t.Errorf("imported transaction = %+v", tx)
	}
}

func TestDecodeJSONAdapter_Invalid(t *testing.T) {
	for _, def := range []string{
		`{"rows": "$[*]", "fields": {"date": "$.d"}}`,
		`{"fields": {"date": "$.d", "asset": "$.a", "kind": "$.k", "quantity": "$.q", "grossValue": "$.v"}}`,
		`not json`,
	} {
		if _, err := DecodeJSONAdapter(strings.NewReader(def)); err == nil {
			t.Errorf("DecodeJSONAdapter(%s) succeeded", def)
		}
	}
}
