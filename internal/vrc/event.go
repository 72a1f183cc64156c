package vrc

import "fmt"

// JoinLeaveEvent is the kind of a gamelog_join_leave entry.
// The zero value is EventOther.
type JoinLeaveEvent uint8

const (
	EventOther JoinLeaveEvent = iota
	EventJoin
	EventLeave
)

var eventNames = [...]string{
	EventOther: "other",
	EventJoin:  "join",
	EventLeave: "leave",
}

var eventTokens = map[string]JoinLeaveEvent{
	"other": EventOther,

	"join":           EventJoin,
	"joins":          EventJoin,
	"joined":         EventJoin,
	"onplayerjoined": EventJoin,

	"leave":        EventLeave,
	"leaves":       EventLeave,
	"left":         EventLeave,
	"onplayerleft": EventLeave,
}

// NormalizeJoinLeaveEvent maps token to a JoinLeaveEvent, ignoring case.
// VRCX stores the Udon callback names OnPlayerJoined and OnPlayerLeft.
// An unknown token yields EventOther and an *UnrecognizedTokenError.
func NormalizeJoinLeaveEvent(token string) (JoinLeaveEvent, error) {
	return lookup(KindJoinLeaveEvent, eventTokens, EventOther, token)
}

func (e JoinLeaveEvent) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("JoinLeaveEvent(%d)", uint8(e))
}

func (e JoinLeaveEvent) MarshalText() ([]byte, error) {
	if int(e) >= len(eventNames) {
		return nil, fmt.Errorf("invalid join/leave event %d", uint8(e))
	}
	return []byte(e.String()), nil
}

func (e *JoinLeaveEvent) UnmarshalText(text []byte) error {
	v, err := NormalizeJoinLeaveEvent(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}
