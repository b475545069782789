package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/vdatax"
)

// JSONAdapter maps a JSON export using JSONPath expressions.
//
// Rows selects the array of trades in the document, e.g. "$.data.trades[*]".
// Fields maps each RawTransaction field to an expression evaluated on one
// trade, e.g. {"quantity": "$.qty"}. Id and origin are never read from the
// export.
type JSONAdapter struct {
	Source string
	Rows   string
	Fields map[string]string
	// Kinds maps the export's vocabulary ("buy", "deposit", ...) onto kinds.
	// When empty the value is parsed with vdatax.ParseKind after upper casing.
	Kinds map[string]vdatax.Kind
}

// required fields of a JSON mapping.
var requiredFields = []string{vdatax.FieldDate, vdatax.FieldKind, vdatax.FieldAsset, vdatax.FieldQuantity, vdatax.FieldGrossValue}

// Validate checks that every required field has an expression.
func (a *JSONAdapter) Validate() error {
	if a.Rows == "" {
		return fmt.Errorf("json mapping %s: rows expression is missing", a.Source)
	}
	for _, f := range requiredFields {
		if a.Fields[f] == "" {
			return fmt.Errorf("json mapping %s: no expression for field %q", a.Source, f)
		}
	}
	return nil
}

func (a *JSONAdapter) Parse(r io.Reader) ([]vdatax.RawTransaction, []RowError, error) {
	if err := a.Validate(); err != nil {
		return nil, nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%s export: %w", a.Source, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("%s export: invalid json: %w", a.Source, err)
	}

	jrows, err := jsonpath.Get(a.Rows, doc)
	if err != nil {
		return nil, nil, fmt.Errorf("%s export: rows %q: %w", a.Source, a.Rows, err)
	}
	rows, ok := jrows.([]any)
	if !ok {
		// a single object is a single row
		rows = []any{jrows}
	}

	var (
		raws    []vdatax.RawTransaction
		rowErrs []RowError
	)
	for i, jrow := range rows {
		raw, err := a.mapRow(jrow)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: i + 1, Err: err})
			continue
		}
		raw[vdatax.FieldID] = newID()
		raw[vdatax.FieldOrigin] = a.Source
		raws = append(raws, raw)
	}
	return raws, rowErrs, nil
}

func (a *JSONAdapter) mapRow(jrow any) (vdatax.RawTransaction, error) {
	raw := vdatax.RawTransaction{}
	for field, path := range a.Fields {
		if field == vdatax.FieldID || field == vdatax.FieldOrigin {
			continue
		}
		jval, err := jsonpath.Get(path, jrow)
		if err != nil {
			if !slices.Contains(requiredFields, field) {
				// optional fields may be absent from some rows
				continue
			}
			return nil, fmt.Errorf("%s (%s): %w", field, path, err)
		}
		// jsonpath may wrap a single answer in a list: keep the first one
		if jlist, ok := jval.([]any); ok {
			if len(jlist) == 0 {
				return nil, fmt.Errorf("%s (%s): no value", field, path)
			}
			jval = jlist[0]
		}
		raw[field] = jval
	}

	switch on := raw[vdatax.FieldDate].(type) {
	case json.Number:
		// epoch milliseconds
		ms, err := on.Int64()
		if err != nil {
			return nil, fmt.Errorf("date: invalid timestamp %q", on.String())
		}
		raw[vdatax.FieldDate] = time.UnixMilli(ms).UTC().Format(time.RFC3339Nano)
	case string:
		s, err := parseTime(on)
		if err != nil {
			return nil, err
		}
		raw[vdatax.FieldDate] = s
	}

	if s, ok := raw[vdatax.FieldAsset].(string); ok {
		raw[vdatax.FieldAsset] = NormalizeAsset(s)
	}

	if s, ok := raw[vdatax.FieldKind].(string); ok {
		kind, err := a.kind(s)
		if err != nil {
			return nil, err
		}
		raw[vdatax.FieldKind] = string(kind)
	}

	// exports often quote numbers
	for _, field := range []string{vdatax.FieldQuantity, vdatax.FieldGrossValue, vdatax.FieldFee, vdatax.FieldUnitPrice} {
		if s, ok := raw[field].(string); ok {
			d, err := parseAmount(s)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", field, err)
			}
			raw[field] = d
		}
	}
	return raw, nil
}

func (a *JSONAdapter) kind(s string) (vdatax.Kind, error) {
	if len(a.Kinds) > 0 {
		k, ok := a.Kinds[s]
		if !ok {
			return "", fmt.Errorf("kind: %w: %q", vdatax.ErrUnknownKind, s)
		}
		return k, nil
	}
	return vdatax.ParseKind(strings.ToUpper(strings.TrimSpace(s)))
}

// DecodeJSONAdapter reads a JSON mapping definition:
//
//	{"source": "KOINX", "rows": "$.trades[*]", "fields": {"date": "$.time", ...}, "kinds": {"buy": "ACQUIRE"}}
func DecodeJSONAdapter(r io.Reader) (*JSONAdapter, error) {
	var def struct {
		Source string                 `json:"source"`
		Rows   string                 `json:"rows"`
		Fields map[string]string      `json:"fields"`
		Kinds  map[string]vdatax.Kind `json:"kinds"`
	}
	if err := json.NewDecoder(r).Decode(&def); err != nil {
		return nil, fmt.Errorf("invalid json mapping: %w", err)
	}
	a := &JSONAdapter{Source: strings.ToUpper(def.Source), Rows: def.Rows, Fields: def.Fields, Kinds: def.Kinds}
	if a.Source == "" {
		a.Source = "JSON"
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}
