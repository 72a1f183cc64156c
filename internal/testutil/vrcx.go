package testutil

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/zaphkiel/internal/model"
)

// VRCXFixture is the content of a fake VRCX database.
// FriendLogs maps a VRChat user id (the database owner) to that user's
// friend snapshot rows.
type VRCXFixture struct {
	JoinLeave  []model.JoinLeaveRow
	Locations  []model.LocationRow
	FriendLogs map[string][]model.FriendLogRow
}

// vrcxTimeLayout is how VRCX writes created_at.
const vrcxTimeLayout = "2006-01-02T15:04:05.000Z"

// CreateVRCXDatabase writes fixture into a new sqlite file laid out like
// VRCX's vrcx.sqlite3 and returns its path.
func CreateVRCXDatabase(t *testing.T, fixture VRCXFixture) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vrcx.sqlite3")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open fixture database: %v", err)
	}
	defer db.Close()

	mustExec(t, db, `CREATE TABLE gamelog_join_leave (
		id INTEGER PRIMARY KEY, created_at TEXT, type TEXT, display_name TEXT,
		location TEXT, user_id TEXT, time INTEGER)`)
	mustExec(t, db, `CREATE TABLE gamelog_location (
		id INTEGER PRIMARY KEY, created_at TEXT, location TEXT, world_id TEXT,
		world_name TEXT, time INTEGER, group_name TEXT)`)

	for _, r := range fixture.JoinLeave {
		mustExec(t, db, `INSERT INTO gamelog_join_leave
			(id, created_at, type, display_name, location, user_id, time)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, formatVRCXTime(r.CreatedAt), r.Event, r.DisplayName, r.Location, r.UserID, r.Time)
	}
	for _, r := range fixture.Locations {
		mustExec(t, db, `INSERT INTO gamelog_location
			(id, created_at, location, world_id, world_name, time, group_name)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, formatVRCXTime(r.CreatedAt), r.Location, r.WorldID, r.WorldName, r.Time, r.GroupName)
	}
	for owner, rows := range fixture.FriendLogs {
		table := FriendLogTableFor(owner)
		mustExec(t, db, fmt.Sprintf(`CREATE TABLE %s (
			user_id TEXT PRIMARY KEY, display_name TEXT, trust_level TEXT)`, table))
		for _, r := range rows {
			mustExec(t, db, fmt.Sprintf(`INSERT INTO %s (user_id, display_name, trust_level) VALUES (?, ?, ?)`, table),
				r.UserID, r.DisplayName, r.TrustLevel)
		}
	}

	return path
}

// FriendLogTableFor mirrors VRCX's table naming: the owner's user id with
// '-' and '_' removed, plus the _friend_log_current suffix.
func FriendLogTableFor(owner string) string {
	prefix := make([]byte, 0, len(owner))
	for i := 0; i < len(owner); i++ {
		if owner[i] != '-' && owner[i] != '_' {
			prefix = append(prefix, owner[i])
		}
	}
	return string(prefix) + "_friend_log_current"
}

func formatVRCXTime(t time.Time) string {
	return t.UTC().Format(vrcxTimeLayout)
}

func mustExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("fixture exec failed: %v\n%s", err, query)
	}
}
