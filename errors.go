package vdatax

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedRecord is returned when a raw record is not a record at all.
	ErrMalformedRecord = errors.New("malformed transaction record")
	// ErrUnknownKind is returned for transaction kinds outside the four recognized ones.
	ErrUnknownKind = errors.New("unknown transaction kind")
	// ErrCurrencyMismatch is returned when a transaction is not expressed in the reporting currency.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// FieldError is a single violated field constraint.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string { return e.Field + ": " + e.Message }

// ValidationError lists every field constraint violated by one record.
type ValidationError struct {
	Index  int    // position of the record in its batch
	ID     string // transaction id, when it could be read
	Fields []FieldError
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Error concatenates the field errors as "field: message, field: message".
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	prefix := fmt.Sprintf("record #%d", e.Index)
	if e.ID != "" {
		prefix = fmt.Sprintf("record #%d (%s)", e.Index, e.ID)
	}
	return prefix + ": " + strings.Join(msgs, ", ")
}

// Has reports whether field has at least one violation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// ConfigurationError reports an invalid tax policy or simulation scenario.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid policy %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
