package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/zaphkiel/internal/vrc"
)

// timeLayout is fixed-width UTC so stored timestamps sort as text in
// time order. RFC3339Nano trims trailing zeros and would not.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullDuration(v *uint64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func durationPtr(ni sql.NullInt64) *uint64 {
	if !ni.Valid {
		return nil
	}
	u := uint64(ni.Int64)
	return &u
}

// instanceColumns holds the flattened columns stored for a world instance.
type instanceColumns struct {
	worldID    sql.NullString
	instanceID sql.NullString
	region     sql.NullString
	json       sql.NullString
}

func marshalInstance(w *vrc.WorldInstance) (instanceColumns, error) {
	if w == nil {
		return instanceColumns{}, nil
	}
	data, err := json.Marshal(w)
	if err != nil {
		return instanceColumns{}, fmt.Errorf("marshal world instance: %w", err)
	}
	cols := instanceColumns{
		worldID:    sql.NullString{String: w.WorldID, Valid: true},
		instanceID: sql.NullString{String: w.InstanceID, Valid: true},
		json:       sql.NullString{String: string(data), Valid: true},
	}
	if w.Region != nil {
		cols.region = sql.NullString{String: w.Region.String(), Valid: true}
	}
	return cols, nil
}

func unmarshalInstance(ns sql.NullString) (*vrc.WorldInstance, error) {
	if !ns.Valid {
		return nil, nil
	}
	var w vrc.WorldInstance
	if err := json.Unmarshal([]byte(ns.String), &w); err != nil {
		return nil, fmt.Errorf("unmarshal world instance: %w", err)
	}
	return &w, nil
}
