package vrc

import (
	"errors"
	"fmt"
)

// ParseErrorCode categorizes world-instance parse failures.
// Codes are listed in the order the parser checks them.
type ParseErrorCode string

const (
	// ParseEmpty indicates the input string is empty.
	ParseEmpty ParseErrorCode = "EMPTY"

	// ParseInvalidFormat indicates the input does not split on ':' into exactly two parts.
	ParseInvalidFormat ParseErrorCode = "INVALID_FORMAT"

	// ParseInvalidWorldID indicates the part before ':' is empty.
	ParseInvalidWorldID ParseErrorCode = "INVALID_WORLD_ID"

	// ParseInvalidInstanceID indicates the segment after ':' and before the first '~' is empty.
	ParseInvalidInstanceID ParseErrorCode = "INVALID_INSTANCE_ID"

	// ParseInvalidOptionalField indicates an unknown modifier key, or a region
	// token rejected in strict mode.
	ParseInvalidOptionalField ParseErrorCode = "INVALID_OPTIONAL_FIELD"

	// ParseOther is the catch-all for failures outside the categories above.
	ParseOther ParseErrorCode = "OTHER"
)

// ParseError describes why a location string is not a world instance.
type ParseError struct {
	// Code identifies the failure category.
	Code ParseErrorCode

	// Input is the string that failed to parse.
	Input string

	// Key is the offending modifier key (ParseInvalidOptionalField only).
	Key string

	// Err is the underlying cause, if any.
	Err error
}

func (e *ParseError) Error() string {
	switch {
	case e.Key != "" && e.Err != nil:
		return fmt.Sprintf("parse world instance %q: %s: modifier %q: %v", e.Input, e.Code, e.Key, e.Err)
	case e.Key != "":
		return fmt.Sprintf("parse world instance %q: %s: unknown modifier key %q", e.Input, e.Code, e.Key)
	case e.Err != nil:
		return fmt.Sprintf("parse world instance %q: %s: %v", e.Input, e.Code, e.Err)
	}
	return fmt.Sprintf("parse world instance %q: %s", e.Input, e.Code)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseErrorCodeOf returns the code of the *ParseError in err's chain,
// or ParseOther when there is none.
func ParseErrorCodeOf(err error) ParseErrorCode {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ParseOther
}

// IsParseError reports whether err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
