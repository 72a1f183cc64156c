package model

import (
	"errors"

	"github.com/roach88/zaphkiel/internal/vrc"
)

// CodeUnrecognizedToken marks a failure caused by a categorical normalizer.
// Location failures use the vrc.ParseErrorCode string instead.
const CodeUnrecognizedToken = "UNRECOGNIZED_TOKEN"

// Failure is the reportable form of a row that failed to convert.
type Failure struct {
	Table  string `json:"table"`
	RowID  string `json:"row_id"`
	Field  string `json:"field,omitempty"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// FailureFrom describes err as a Failure. Errors that are not a
// *ConversionError keep only their message and the OTHER code.
func FailureFrom(err error) Failure {
	f := Failure{
		Code:   string(vrc.ParseOther),
		Reason: err.Error(),
	}

	var ce *ConversionError
	if errors.As(err, &ce) {
		f.Table = ce.Table
		f.RowID = ce.RowID
		f.Field = ce.Field
		if ce.Err != nil {
			f.Reason = ce.Err.Error()
		}
	}

	switch {
	case vrc.IsParseError(err):
		f.Code = string(vrc.ParseErrorCodeOf(err))
	case vrc.IsUnrecognizedToken(err):
		f.Code = CodeUnrecognizedToken
	}
	return f
}
