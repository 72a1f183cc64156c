// Package store provides the SQLite plumbing around the normalizers.
//
// Source reads raw rows from a VRCX database (vrcx.sqlite3), opened
// read-only. Store is the normalized database the ingest pipeline writes:
//   - ingest_runs: one row per pipeline run, keyed by UUIDv7
//   - join_leave, locations: normalized gamelog rows keyed by source id
//   - friend_trust: friend snapshots keyed by (source_table, user_id)
//   - ingest_failures: rows that failed to convert, per run
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Timestamps are stored as fixed-width RFC 3339 text in UTC with nanosecond
// precision, so ORDER BY on them is time order. World instances are stored
// as JSON alongside their world id, instance_id and region columns so they
// can be filtered without decoding. In locations the raw VRCX world_id and
// the parsed instance_world_id are kept apart.
package store
