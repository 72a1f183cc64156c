package vrc

import "strings"

// WorldInstance identifies one live session of a VRChat world.
//
// WorldID and InstanceID are non-empty on every value returned by the
// parser. The modifier fields are independent; any subset may be set.
// A WorldInstance is built once by Parse and never modified afterwards.
type WorldInstance struct {
	WorldID    string `json:"world_id"`
	InstanceID string `json:"instance_id"`

	Nonce           *string `json:"nonce,omitempty"`
	Hidden          *string `json:"hidden,omitempty"`
	Private         *string `json:"private,omitempty"`
	Friends         *string `json:"friends,omitempty"`
	Group           *string `json:"group,omitempty"`
	GroupAccessType *string `json:"group_access_type,omitempty"`
	Region          *Region `json:"region,omitempty"`
}

// Modifier keys, as VRChat writes them.
const (
	keyNonce           = "nonce"
	keyHidden          = "hidden"
	keyPrivate         = "private"
	keyRegion          = "region"
	keyFriends         = "friends"
	keyGroup           = "group"
	keyGroupAccessType = "groupAccessType"
)

// Parser parses location strings into world instances.
// The zero value is ready to use.
type Parser struct {
	// StrictRegion rejects unknown region tokens with ParseInvalidOptionalField.
	// When false they resolve to RegionOther.
	StrictRegion bool
}

// ParseWorldInstance parses s with the zero Parser.
func ParseWorldInstance(s string) (WorldInstance, error) {
	return Parser{}.Parse(s)
}

// Parse parses a location of the form
//
//	world_id ":" instance_id ( "~" modifier )*
//
// where a modifier is a bare flag or key(value). Bare flags such as
// canRequestInvite carry no payload and are skipped. Errors are
// *ParseError values, checked in ParseErrorCode order.
func (p Parser) Parse(s string) (WorldInstance, error) {
	if s == "" {
		return WorldInstance{}, &ParseError{Code: ParseEmpty, Input: s}
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return WorldInstance{}, &ParseError{Code: ParseInvalidFormat, Input: s}
	}
	if parts[0] == "" {
		return WorldInstance{}, &ParseError{Code: ParseInvalidWorldID, Input: s}
	}

	segments := strings.Split(parts[1], "~")
	if segments[0] == "" {
		return WorldInstance{}, &ParseError{Code: ParseInvalidInstanceID, Input: s}
	}

	w := WorldInstance{
		WorldID:    parts[0],
		InstanceID: segments[0],
	}

	// The instance segment is inspected too; it normally has no parentheses.
	for _, seg := range segments {
		key, value, ok := splitModifier(seg)
		if !ok {
			continue
		}
		if err := p.apply(&w, key, value); err != nil {
			err.Input = s
			return WorldInstance{}, err
		}
	}

	return w, nil
}

// splitModifier splits "key(value)" into key and value. The value ends at
// the next parenthesis, so "key(value" is accepted. ok is false when seg
// has no '('.
func splitModifier(seg string) (key, value string, ok bool) {
	key, rest, ok := strings.Cut(seg, "(")
	if !ok {
		return "", "", false
	}
	if i := strings.IndexAny(rest, "()"); i >= 0 {
		rest = rest[:i]
	}
	return key, rest, true
}

func (p Parser) apply(w *WorldInstance, key, value string) *ParseError {
	switch key {
	case keyNonce:
		w.Nonce = &value
	case keyHidden:
		w.Hidden = &value
	case keyPrivate:
		w.Private = &value
	case keyFriends:
		w.Friends = &value
	case keyGroup:
		w.Group = &value
	case keyGroupAccessType:
		w.GroupAccessType = &value
	case keyRegion:
		r, err := NormalizeRegion(value)
		if err != nil && p.StrictRegion {
			return &ParseError{Code: ParseInvalidOptionalField, Key: key, Err: err}
		}
		w.Region = &r
	default:
		return &ParseError{Code: ParseInvalidOptionalField, Key: key}
	}
	return nil
}

// String renders w in compact form with modifiers in a fixed order.
// Parsing the result yields an equal WorldInstance as long as no modifier
// value contains '(', ')', '~' or ':'.
func (w WorldInstance) String() string {
	var b strings.Builder
	b.WriteString(w.WorldID)
	b.WriteByte(':')
	b.WriteString(w.InstanceID)

	writeMod := func(key string, value *string) {
		if value == nil {
			return
		}
		b.WriteByte('~')
		b.WriteString(key)
		b.WriteByte('(')
		b.WriteString(*value)
		b.WriteByte(')')
	}
	writeMod(keyGroup, w.Group)
	writeMod(keyGroupAccessType, w.GroupAccessType)
	writeMod(keyHidden, w.Hidden)
	writeMod(keyFriends, w.Friends)
	writeMod(keyPrivate, w.Private)
	if w.Region != nil {
		region := w.Region.String()
		writeMod(keyRegion, &region)
	}
	writeMod(keyNonce, w.Nonce)

	return b.String()
}
