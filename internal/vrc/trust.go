package vrc

import "fmt"

// TrustLevel is the trust rank VRChat assigns to a user.
// The zero value is TrustUnknown.
type TrustLevel uint8

const (
	TrustUnknown TrustLevel = iota
	TrustVisitor
	TrustNewUser
	TrustUser
	TrustKnownUser
	TrustTrustedUser
	TrustVRChatTeam
	TrustNuisance
)

var trustNames = [...]string{
	TrustUnknown:     "unknown",
	TrustVisitor:     "visitor",
	TrustNewUser:     "new user",
	TrustUser:        "user",
	TrustKnownUser:   "known user",
	TrustTrustedUser: "trusted user",
	TrustVRChatTeam:  "vrchat team",
	TrustNuisance:    "nuisance",
}

var trustTokens = map[string]TrustLevel{
	"unknown":      TrustUnknown,
	"visitor":      TrustVisitor,
	"new user":     TrustNewUser,
	"new_user":     TrustNewUser,
	"user":         TrustUser,
	"known user":   TrustKnownUser,
	"known_user":   TrustKnownUser,
	"trusted user": TrustTrustedUser,
	"trusted_user": TrustTrustedUser,
	"vrchat team":  TrustVRChatTeam,
	"vrchat_team":  TrustVRChatTeam,
	"nuisance":     TrustNuisance,
}

// NormalizeTrustLevel maps token to a TrustLevel, ignoring case.
// VRCX writes display labels such as "Trusted User"; the snake_case API
// forms are accepted as well. An unknown token yields TrustUnknown and an
// *UnrecognizedTokenError.
func NormalizeTrustLevel(token string) (TrustLevel, error) {
	return lookup(KindTrustLevel, trustTokens, TrustUnknown, token)
}

// TrustLevels returns every trust level in rank order.
func TrustLevels() []TrustLevel {
	return []TrustLevel{
		TrustUnknown, TrustVisitor, TrustNewUser, TrustUser,
		TrustKnownUser, TrustTrustedUser, TrustVRChatTeam, TrustNuisance,
	}
}

func (t TrustLevel) String() string {
	if int(t) < len(trustNames) {
		return trustNames[t]
	}
	return fmt.Sprintf("TrustLevel(%d)", uint8(t))
}

func (t TrustLevel) MarshalText() ([]byte, error) {
	if int(t) >= len(trustNames) {
		return nil, fmt.Errorf("invalid trust level %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *TrustLevel) UnmarshalText(text []byte) error {
	v, err := NormalizeTrustLevel(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
