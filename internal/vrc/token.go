package vrc

import (
	"errors"
	"fmt"

	"golang.org/x/text/cases"
)

// TokenKind names the categorical field a token was normalized for.
type TokenKind string

const (
	KindRegion         TokenKind = "region"
	KindTrustLevel     TokenKind = "trust_level"
	KindJoinLeaveEvent TokenKind = "join_leave_event"
)

// UnrecognizedTokenError reports a token missing from a normalizer's table.
// Token holds the raw input, before case folding.
type UnrecognizedTokenError struct {
	Kind  TokenKind
	Token string
}

func (e *UnrecognizedTokenError) Error() string {
	return fmt.Sprintf("unrecognized %s token %q", e.Kind, e.Token)
}

// fold returns the caseless form used as the lookup key.
// A cases.Caser is stateful, so each call builds its own.
func fold(token string) string {
	return cases.Fold().String(token)
}

// lookup resolves token in table, returning fallback and an
// *UnrecognizedTokenError when it is absent.
func lookup[T any](kind TokenKind, table map[string]T, fallback T, token string) (T, error) {
	if v, ok := table[fold(token)]; ok {
		return v, nil
	}
	return fallback, &UnrecognizedTokenError{Kind: kind, Token: token}
}

// IsUnrecognizedToken reports whether err is or wraps an *UnrecognizedTokenError.
func IsUnrecognizedToken(err error) bool {
	var ute *UnrecognizedTokenError
	return errors.As(err, &ute)
}
