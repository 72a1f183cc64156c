package model

import "time"

// Source table names in the VRCX database.
const (
	TableJoinLeave = "gamelog_join_leave"
	TableLocation  = "gamelog_location"

	// TableFriendLog is the logical name of the per-user friend snapshot
	// tables, stored as usr<id>_friend_log_current.
	TableFriendLog = "usr_friend_log_current"
)

// JoinLeaveRow is a raw row from gamelog_join_leave.
type JoinLeaveRow struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Event       string    `json:"type"`
	DisplayName string    `json:"display_name"`
	Location    string    `json:"location"`
	UserID      string    `json:"user_id"`
	Time        int64     `json:"time"`
}

// LocationRow is a raw row from gamelog_location.
type LocationRow struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Location  string    `json:"location"`
	WorldID   string    `json:"world_id"`
	WorldName string    `json:"world_name"`
	Time      int64     `json:"time"`
	GroupName string    `json:"group_name"`
}

// FriendLogRow is a raw row from a usr<id>_friend_log_current table.
// These tables have no integer id; UserID identifies the row.
type FriendLogRow struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	TrustLevel  string `json:"trust_level"`
}
