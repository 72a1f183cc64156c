package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/zaphkiel/internal/model"
)

// friendLogTablePattern matches VRCX per-user friend snapshot tables.
// Table names are interpolated into queries, so anything else is rejected.
var friendLogTablePattern = regexp.MustCompile(`^usr[0-9A-Za-z]+_friend_log_current$`)

// Source reads raw rows from a VRCX sqlite database. The database is opened
// read-only; Source never writes to it.
type Source struct {
	db *sql.DB
}

// TableInfo is one row of sqlite_master.
type TableInfo struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	TblName  string `json:"tbl_name"`
	RootPage int64  `json:"rootpage"`
	SQL      string `json:"sql,omitempty"`
}

// OpenSource opens the VRCX database at path read-only.
func OpenSource(path string) (*Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open source: connect: %w", err)
	}
	return &Source{db: db}, nil
}

// Close closes the database connection.
func (s *Source) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ReadJoinLeave returns every gamelog_join_leave row ordered by id.
// NULL columns read as their zero value, which the converters treat as absent.
func (s *Source) ReadJoinLeave(ctx context.Context) ([]model.JoinLeaveRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, type, display_name, location, user_id, time
		FROM gamelog_join_leave ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", model.TableJoinLeave, err)
	}
	defer rows.Close()

	out := []model.JoinLeaveRow{}
	for rows.Next() {
		var (
			r                             model.JoinLeaveRow
			created                       vrcxTime
			event, name, location, userID sql.NullString
			elapsed                       sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &created, &event, &name, &location, &userID, &elapsed); err != nil {
			return nil, fmt.Errorf("read %s: scan: %w", model.TableJoinLeave, err)
		}
		r.CreatedAt = created.Time
		r.Event = event.String
		r.DisplayName = name.String
		r.Location = location.String
		r.UserID = userID.String
		r.Time = elapsed.Int64
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", model.TableJoinLeave, err)
	}
	return out, nil
}

// ReadLocations returns every gamelog_location row ordered by id.
func (s *Source) ReadLocations(ctx context.Context) ([]model.LocationRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, location, world_id, world_name, time, group_name
		FROM gamelog_location ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", model.TableLocation, err)
	}
	defer rows.Close()

	out := []model.LocationRow{}
	for rows.Next() {
		var (
			r                                   model.LocationRow
			created                             vrcxTime
			location, worldID, worldName, group sql.NullString
			elapsed                             sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &created, &location, &worldID, &worldName, &elapsed, &group); err != nil {
			return nil, fmt.Errorf("read %s: scan: %w", model.TableLocation, err)
		}
		r.CreatedAt = created.Time
		r.Location = location.String
		r.WorldID = worldID.String
		r.WorldName = worldName.String
		r.Time = elapsed.Int64
		r.GroupName = group.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", model.TableLocation, err)
	}
	return out, nil
}

// ReadFriendLog returns every row of a usr<id>_friend_log_current table.
func (s *Source) ReadFriendLog(ctx context.Context, table string) ([]model.FriendLogRow, error) {
	if !friendLogTablePattern.MatchString(table) {
		return nil, fmt.Errorf("read friend log: invalid table name %q", table)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT user_id, display_name, trust_level FROM %s ORDER BY user_id
	`, table))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	defer rows.Close()

	out := []model.FriendLogRow{}
	for rows.Next() {
		var (
			r           model.FriendLogRow
			name, trust sql.NullString
		)
		if err := rows.Scan(&r.UserID, &name, &trust); err != nil {
			return nil, fmt.Errorf("read %s: scan: %w", table, err)
		}
		r.DisplayName = name.String
		r.TrustLevel = trust.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	return out, nil
}

// Tables lists the tables in the VRCX database.
func (s *Source) Tables(ctx context.Context) ([]TableInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT type, name, tbl_name, rootpage, sql
		FROM sqlite_master WHERE type = 'table' ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	out := []TableInfo{}
	for rows.Next() {
		var (
			t    TableInfo
			stmt sql.NullString
		)
		if err := rows.Scan(&t.Type, &t.Name, &t.TblName, &t.RootPage, &stmt); err != nil {
			return nil, fmt.Errorf("list tables: scan: %w", err)
		}
		t.SQL = stmt.String
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return out, nil
}

// FriendLogTables returns the names of all friend snapshot tables, one per
// VRChat account that has used this VRCX install.
func (s *Source) FriendLogTables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name LIKE 'usr%\_friend\_log\_current' ESCAPE '\'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list friend log tables: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list friend log tables: scan: %w", err)
		}
		if friendLogTablePattern.MatchString(name) {
			out = append(out, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list friend log tables: %w", err)
	}
	return out, nil
}

// FriendLogTable returns the friend snapshot table VRCX keeps for userID.
func FriendLogTable(userID string) string {
	prefix := strings.NewReplacer("-", "", "_", "").Replace(userID)
	return prefix + "_friend_log_current"
}

// vrcxTime scans created_at, which VRCX stores as ISO-8601 text.
// The driver may also hand back a time.Time for DATETIME-typed columns.
type vrcxTime struct {
	time.Time
}

func (v *vrcxTime) Scan(src any) error {
	switch x := src.(type) {
	case nil:
		v.Time = time.Time{}
		return nil
	case time.Time:
		v.Time = x.UTC()
		return nil
	case string:
		return v.parse(x)
	case []byte:
		return v.parse(string(x))
	default:
		return fmt.Errorf("created_at: unsupported type %T", src)
	}
}

func (v *vrcxTime) parse(s string) error {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		v.Time = t.UTC()
		return nil
	}
	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			v.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("created_at: unrecognized timestamp %q", s)
}
