package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/zaphkiel/internal/model"
	"github.com/roach88/zaphkiel/internal/vrc"
)

// Run is the bookkeeping row for one ingest run.
type Run struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Converted  int        `json:"converted"`
	Failed     int        `json:"failed"`
}

// ReadRun returns the run with the given id, or sql.ErrNoRows.
func (s *Store) ReadRun(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, converted, failed
		FROM ingest_runs WHERE id = ?
	`, runID)
	run, err := scanRun(row)
	if err != nil {
		return Run{}, fmt.Errorf("read run %q: %w", runID, err)
	}
	return run, nil
}

// ListRuns returns all runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, converted, failed
		FROM ingest_runs ORDER BY started_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run      Run
		started  string
		finished sql.NullString
	)
	if err := sc.Scan(&run.ID, &started, &finished, &run.Converted, &run.Failed); err != nil {
		return Run{}, err
	}
	t, err := parseTime(started)
	if err != nil {
		return Run{}, err
	}
	run.StartedAt = t
	if finished.Valid {
		ft, err := parseTime(finished.String)
		if err != nil {
			return Run{}, err
		}
		run.FinishedAt = &ft
	}
	return run, nil
}

// ReadLocations returns stored location records ordered by created_at.
// worldID matches the raw world_id column, or the parsed instance's world
// when the raw column was empty. An empty worldID returns every record.
// Records read back exactly as written.
func (s *Store) ReadLocations(ctx context.Context, worldID string) ([]model.GamelogLocation, error) {
	query := `
		SELECT id, created_at, world_id, world_name, world_instance, time_ms, group_name
		FROM locations`
	var args []any
	if worldID != "" {
		query += ` WHERE COALESCE(world_id, instance_world_id) = ?`
		args = append(args, worldID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read locations: %w", err)
	}
	defer rows.Close()

	records := []model.GamelogLocation{}
	for rows.Next() {
		var (
			r         model.GamelogLocation
			createdAt string
			wid       sql.NullString
			inst      sql.NullString
			timeMS    sql.NullInt64
			group     sql.NullString
		)
		if err := rows.Scan(&r.ID, &createdAt, &wid, &r.WorldName, &inst, &timeMS, &group); err != nil {
			return nil, fmt.Errorf("read locations: scan: %w", err)
		}
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("read locations: %w", err)
		}
		if r.WorldInstance, err = unmarshalInstance(inst); err != nil {
			return nil, fmt.Errorf("read locations: row %d: %w", r.ID, err)
		}
		r.WorldID = stringPtr(wid)
		r.Time = durationPtr(timeMS)
		r.GroupName = stringPtr(group)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read locations: %w", err)
	}
	return records, nil
}

// ReadJoinLeave returns stored join/leave records ordered by created_at.
// An empty userID returns every record.
func (s *Store) ReadJoinLeave(ctx context.Context, userID string) ([]model.GamelogJoinLeave, error) {
	query := `
		SELECT id, created_at, event, display_name, world_instance, user_id, time_ms
		FROM join_leave`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read join/leave: %w", err)
	}
	defer rows.Close()

	records := []model.GamelogJoinLeave{}
	for rows.Next() {
		var (
			r         model.GamelogJoinLeave
			createdAt string
			event     string
			inst      sql.NullString
			uid       sql.NullString
			timeMS    sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &createdAt, &event, &r.DisplayName, &inst, &uid, &timeMS); err != nil {
			return nil, fmt.Errorf("read join/leave: scan: %w", err)
		}
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("read join/leave: %w", err)
		}
		if err := r.Event.UnmarshalText([]byte(event)); err != nil {
			return nil, fmt.Errorf("read join/leave: row %d: %w", r.ID, err)
		}
		if r.Location, err = unmarshalInstance(inst); err != nil {
			return nil, fmt.Errorf("read join/leave: row %d: %w", r.ID, err)
		}
		r.UserID = stringPtr(uid)
		r.Time = durationPtr(timeMS)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read join/leave: %w", err)
	}
	return records, nil
}

// ReadFriendTrust returns stored friend snapshots from sourceTable,
// ordered by user id. An empty sourceTable returns all of them.
func (s *Store) ReadFriendTrust(ctx context.Context, sourceTable string) ([]model.FriendTrust, error) {
	query := `SELECT user_id, display_name, trust_level FROM friend_trust`
	var args []any
	if sourceTable != "" {
		query += ` WHERE source_table = ?`
		args = append(args, sourceTable)
	}
	query += ` ORDER BY source_table, user_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read friend trust: %w", err)
	}
	defer rows.Close()

	records := []model.FriendTrust{}
	for rows.Next() {
		var (
			r     model.FriendTrust
			trust string
		)
		if err := rows.Scan(&r.UserID, &r.DisplayName, &trust); err != nil {
			return nil, fmt.Errorf("read friend trust: scan: %w", err)
		}
		var level vrc.TrustLevel
		if err := level.UnmarshalText([]byte(trust)); err != nil {
			return nil, fmt.Errorf("read friend trust: user %s: %w", r.UserID, err)
		}
		r.TrustLevel = level
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read friend trust: %w", err)
	}
	return records, nil
}

// ReadFailures returns the failures recorded for a run in insertion order.
func (s *Store) ReadFailures(ctx context.Context, runID string) ([]model.Failure, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_table, row_id, field, code, reason
		FROM ingest_failures WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read failures: %w", err)
	}
	defer rows.Close()

	failures := []model.Failure{}
	for rows.Next() {
		var f model.Failure
		if err := rows.Scan(&f.Table, &f.RowID, &f.Field, &f.Code, &f.Reason); err != nil {
			return nil, fmt.Errorf("read failures: scan: %w", err)
		}
		failures = append(failures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read failures: %w", err)
	}
	return failures, nil
}
