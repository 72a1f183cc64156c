package model

import (
	"time"

	"github.com/roach88/zaphkiel/internal/vrc"
)

// GamelogJoinLeave is a normalized gamelog_join_leave row.
type GamelogJoinLeave struct {
	ID          int64              `json:"id"`
	CreatedAt   time.Time          `json:"created_at"`
	Event       vrc.JoinLeaveEvent `json:"event"`
	DisplayName string             `json:"display_name"`
	Location    *vrc.WorldInstance `json:"location,omitempty"`
	UserID      *string            `json:"user_id,omitempty"`
	Time        *uint64            `json:"time,omitempty"`
}

// GamelogLocation is a normalized gamelog_location row.
// WorldInstance is nil when the location string was empty or, under a
// tolerant policy, malformed; WorldID still carries the raw column.
type GamelogLocation struct {
	ID            int64              `json:"id"`
	CreatedAt     time.Time          `json:"created_at"`
	WorldID       *string            `json:"world_id,omitempty"`
	WorldName     string             `json:"world_name"`
	WorldInstance *vrc.WorldInstance `json:"world_instance,omitempty"`
	Time          *uint64            `json:"time,omitempty"`
	GroupName     *string            `json:"group_name,omitempty"`
}

// FriendTrust is a normalized friend_log_current snapshot row.
type FriendTrust struct {
	UserID      string         `json:"user_id"`
	DisplayName string         `json:"display_name"`
	TrustLevel  vrc.TrustLevel `json:"trust_level"`
}
