package model

import (
	"strconv"
	"strings"

	"github.com/roach88/zaphkiel/internal/vrc"
)

// ConvertJoinLeave converts a gamelog_join_leave row.
// An unrecognized event type is always an error. A malformed location is an
// error unless pol.TolerateMalformedLocation is set.
func ConvertJoinLeave(row JoinLeaveRow, pol Policy) (GamelogJoinLeave, error) {
	rowID := strconv.FormatInt(row.ID, 10)

	event, err := vrc.NormalizeJoinLeaveEvent(row.Event)
	if err != nil {
		return GamelogJoinLeave{}, &ConversionError{Table: TableJoinLeave, RowID: rowID, Field: FieldEvent, Err: err}
	}

	location, err := parseLocation(row.Location, pol)
	if err != nil {
		return GamelogJoinLeave{}, &ConversionError{Table: TableJoinLeave, RowID: rowID, Field: FieldLocation, Err: err}
	}

	return GamelogJoinLeave{
		ID:          row.ID,
		CreatedAt:   row.CreatedAt,
		Event:       event,
		DisplayName: strings.TrimSpace(row.DisplayName),
		Location:    location,
		UserID:      optionalString(row.UserID),
		Time:        optionalPositive(row.Time),
	}, nil
}

// ConvertLocation converts a gamelog_location row. With
// DefaultLocationPolicy it never fails.
func ConvertLocation(row LocationRow, pol Policy) (GamelogLocation, error) {
	instance, err := parseLocation(row.Location, pol)
	if err != nil {
		return GamelogLocation{}, &ConversionError{
			Table: TableLocation,
			RowID: strconv.FormatInt(row.ID, 10),
			Field: FieldLocation,
			Err:   err,
		}
	}

	return GamelogLocation{
		ID:            row.ID,
		CreatedAt:     row.CreatedAt,
		WorldID:       optionalString(row.WorldID),
		WorldName:     strings.TrimSpace(row.WorldName),
		WorldInstance: instance,
		Time:          optionalPositive(row.Time),
		GroupName:     optionalString(row.GroupName),
	}, nil
}

// ConvertFriendTrust converts a friend_log_current row.
// An unrecognized trust level is always an error.
func ConvertFriendTrust(row FriendLogRow, _ Policy) (FriendTrust, error) {
	trust, err := vrc.NormalizeTrustLevel(row.TrustLevel)
	if err != nil {
		return FriendTrust{}, &ConversionError{Table: TableFriendLog, RowID: row.UserID, Field: FieldTrustLevel, Err: err}
	}

	return FriendTrust{
		UserID:      row.UserID,
		DisplayName: strings.TrimSpace(row.DisplayName),
		TrustLevel:  trust,
	}, nil
}

// parseLocation parses raw into a world instance. An empty string is an
// absent location, not a parse failure.
func parseLocation(raw string, pol Policy) (*vrc.WorldInstance, error) {
	if raw == "" {
		return nil, nil
	}
	w, err := vrc.Parser{StrictRegion: pol.StrictRegion}.Parse(raw)
	if err != nil {
		if pol.TolerateMalformedLocation {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalPositive(v int64) *uint64 {
	if v <= 0 {
		return nil
	}
	u := uint64(v)
	return &u
}
