package model

import (
	"errors"
	"fmt"
)

// Record fields named in conversion errors.
const (
	FieldEvent      = "event"
	FieldLocation   = "location"
	FieldTrustLevel = "trust_level"
)

// ConversionError reports a row that could not be converted.
// Err is the *vrc.ParseError or *vrc.UnrecognizedTokenError behind it.
type ConversionError struct {
	// Table is the source table name.
	Table string

	// RowID identifies the row: the integer id, or the user id for
	// friend log rows.
	RowID string

	// Field is the record field that failed.
	Field string

	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s row %s: %s: %v", e.Table, e.RowID, e.Field, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// AsConversionError returns the *ConversionError in err's chain, if any.
func AsConversionError(err error) (*ConversionError, bool) {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
