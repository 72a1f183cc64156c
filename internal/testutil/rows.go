package testutil

import "github.com/roach88/zaphkiel/internal/model"

// JoinLeaveRow builds a well-formed gamelog_join_leave row.
func JoinLeaveRow(clock *DeterministicClock, id int64, event, location string) model.JoinLeaveRow {
	return model.JoinLeaveRow{
		ID:          id,
		CreatedAt:   clock.Next(),
		Event:       event,
		DisplayName: "Some User",
		Location:    location,
		UserID:      "usr_12345678-1234-1234-1234-123456789abc",
		Time:        1234,
	}
}

// LocationRow builds a well-formed gamelog_location row.
func LocationRow(clock *DeterministicClock, id int64, location string) model.LocationRow {
	return model.LocationRow{
		ID:        id,
		CreatedAt: clock.Next(),
		Location:  location,
		WorldID:   "wrld_1234",
		WorldName: "Test World",
		Time:      60000,
		GroupName: "",
	}
}

// FriendLogRow builds a friend_log_current row.
func FriendLogRow(userID, displayName, trust string) model.FriendLogRow {
	return model.FriendLogRow{
		UserID:      userID,
		DisplayName: displayName,
		TrustLevel:  trust,
	}
}
