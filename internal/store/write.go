package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/zaphkiel/internal/model"
)

// BeginRun records the start of an ingest run.
func (s *Store) BeginRun(ctx context.Context, runID string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingest_runs (id, started_at) VALUES (?, ?)
	`, runID, formatTime(startedAt))
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// FinishRun stamps a run with its end time and totals.
func (s *Store) FinishRun(ctx context.Context, runID string, finishedAt time.Time, converted, failed int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE ingest_runs SET finished_at = ?, converted = ?, failed = ? WHERE id = ?
	`, formatTime(finishedAt), converted, failed, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run: unknown run %q", runID)
	}
	return nil
}

// WriteJoinLeave upserts join/leave records in a single transaction.
// A record with an existing id replaces the stored one.
func (s *Store) WriteJoinLeave(ctx context.Context, runID string, records []model.GamelogJoinLeave) error {
	return s.inTx(ctx, "write join/leave", `
		INSERT INTO join_leave
		(id, created_at, event, display_name, world_id, instance_id, region, world_instance, user_id, time_ms, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at = excluded.created_at,
			event = excluded.event,
			display_name = excluded.display_name,
			world_id = excluded.world_id,
			instance_id = excluded.instance_id,
			region = excluded.region,
			world_instance = excluded.world_instance,
			user_id = excluded.user_id,
			time_ms = excluded.time_ms,
			run_id = excluded.run_id
	`, len(records), func(stmt *sql.Stmt, i int) error {
		r := records[i]
		inst, err := marshalInstance(r.Location)
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx,
			r.ID,
			formatTime(r.CreatedAt),
			r.Event.String(),
			r.DisplayName,
			inst.worldID,
			inst.instanceID,
			inst.region,
			inst.json,
			nullString(r.UserID),
			nullDuration(r.Time),
			runID,
		)
		return err
	})
}

// WriteLocations upserts location records in a single transaction.
func (s *Store) WriteLocations(ctx context.Context, runID string, records []model.GamelogLocation) error {
	return s.inTx(ctx, "write locations", `
		INSERT INTO locations
		(id, created_at, world_id, world_name, instance_world_id, instance_id, region, world_instance, time_ms, group_name, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at = excluded.created_at,
			world_id = excluded.world_id,
			world_name = excluded.world_name,
			instance_world_id = excluded.instance_world_id,
			instance_id = excluded.instance_id,
			region = excluded.region,
			world_instance = excluded.world_instance,
			time_ms = excluded.time_ms,
			group_name = excluded.group_name,
			run_id = excluded.run_id
	`, len(records), func(stmt *sql.Stmt, i int) error {
		r := records[i]
		inst, err := marshalInstance(r.WorldInstance)
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx,
			r.ID,
			formatTime(r.CreatedAt),
			nullString(r.WorldID),
			r.WorldName,
			inst.worldID,
			inst.instanceID,
			inst.region,
			inst.json,
			nullDuration(r.Time),
			nullString(r.GroupName),
			runID,
		)
		return err
	})
}

// WriteFriendTrust upserts friend snapshot records from sourceTable.
func (s *Store) WriteFriendTrust(ctx context.Context, runID, sourceTable string, records []model.FriendTrust) error {
	return s.inTx(ctx, "write friend trust", `
		INSERT INTO friend_trust (source_table, user_id, display_name, trust_level, run_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(source_table, user_id) DO UPDATE SET
			display_name = excluded.display_name,
			trust_level = excluded.trust_level,
			run_id = excluded.run_id
	`, len(records), func(stmt *sql.Stmt, i int) error {
		r := records[i]
		_, err := stmt.ExecContext(ctx, sourceTable, r.UserID, r.DisplayName, r.TrustLevel.String(), runID)
		return err
	})
}

// WriteFailures records rows that failed to convert during a run.
// Uses ON CONFLICT DO NOTHING - a row is reported at most once per run.
func (s *Store) WriteFailures(ctx context.Context, runID string, failures []model.Failure) error {
	return s.inTx(ctx, "write failures", `
		INSERT INTO ingest_failures (run_id, source_table, row_id, field, code, reason)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, source_table, row_id) DO NOTHING
	`, len(failures), func(stmt *sql.Stmt, i int) error {
		f := failures[i]
		_, err := stmt.ExecContext(ctx, runID, f.Table, f.RowID, f.Field, f.Code, f.Reason)
		return err
	})
}

// inTx prepares query once and calls exec for indexes [0, n) inside one
// transaction. Nothing is written if any call fails.
func (s *Store) inTx(ctx context.Context, op, query string, n int, exec func(*sql.Stmt, int) error) error {
	if n == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if err := exec(stmt, i); err != nil {
			return fmt.Errorf("%s: row %d: %w", op, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}
