package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/zaphkiel/internal/model"
	"github.com/roach88/zaphkiel/internal/testutil"
	"github.com/roach88/zaphkiel/internal/vrc"
)

func parsed(t *testing.T, s string) *vrc.WorldInstance {
	t.Helper()
	w, err := vrc.ParseWorldInstance(s)
	require.NoError(t, err)
	return &w
}

func TestWriteJoinLeave_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")

	records := []model.GamelogJoinLeave{
		{
			ID:          1,
			CreatedAt:   testutil.Epoch,
			Event:       vrc.EventJoin,
			DisplayName: "Some User",
			Location:    parsed(t, "wrld_1234:56789~region(eu)"),
			UserID:      strPtr("usr_1"),
			Time:        u64Ptr(1234),
		},
		{
			ID:          2,
			CreatedAt:   testutil.Epoch.Add(time.Second),
			Event:       vrc.EventLeave,
			DisplayName: "Other User",
		},
	}
	require.NoError(t, s.WriteJoinLeave(ctx, "run-1", records))

	got, err := s.ReadJoinLeave(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, records, got)

	byUser, err := s.ReadJoinLeave(ctx, "usr_1")
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, int64(1), byUser[0].ID)
}

func TestWriteJoinLeave_UpsertReplaces(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")
	createTestRun(t, s, "run-2")

	rec := model.GamelogJoinLeave{ID: 7, CreatedAt: testutil.Epoch, Event: vrc.EventJoin, DisplayName: "Before"}
	require.NoError(t, s.WriteJoinLeave(ctx, "run-1", []model.GamelogJoinLeave{rec}))

	rec.DisplayName = "After"
	require.NoError(t, s.WriteJoinLeave(ctx, "run-2", []model.GamelogJoinLeave{rec}))

	got, err := s.ReadJoinLeave(ctx, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "After", got[0].DisplayName)

	var runID string
	require.NoError(t, s.db.QueryRow("SELECT run_id FROM join_leave WHERE id = 7").Scan(&runID))
	assert.Equal(t, "run-2", runID)
}

func TestWriteLocations_FlattensInstance(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")

	records := []model.GamelogLocation{
		{
			ID:            1,
			CreatedAt:     testutil.Epoch,
			WorldID:       strPtr("wrld_1234"),
			WorldName:     "Test World",
			WorldInstance: parsed(t, "wrld_1234:1~region(jp)"),
			Time:          u64Ptr(60000),
		},
		{
			// Malformed location tolerated upstream; no instance but raw world id kept.
			ID:        2,
			CreatedAt: testutil.Epoch.Add(time.Second),
			WorldID:   strPtr("wrld_1234"),
			WorldName: "Test World",
			GroupName: strPtr("Group"),
		},
		{
			ID:        3,
			CreatedAt: testutil.Epoch.Add(2 * time.Second),
			WorldName: "Elsewhere",
		},
	}
	require.NoError(t, s.WriteLocations(ctx, "run-1", records))

	var instanceID, region string
	require.NoError(t, s.db.QueryRow(
		"SELECT instance_id, region FROM locations WHERE id = 1",
	).Scan(&instanceID, &region))
	assert.Equal(t, "1", instanceID)
	assert.Equal(t, "japan", region)

	got, err := s.ReadLocations(ctx, "wrld_1234")
	require.NoError(t, err)
	assert.Equal(t, records[:2], got)

	all, err := s.ReadLocations(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestWriteLocations_MatchesParsedWorldWithoutRewritingRaw(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")

	rec := model.GamelogLocation{
		ID:            1,
		CreatedAt:     testutil.Epoch,
		WorldName:     "Test World",
		WorldInstance: parsed(t, "wrld_5678:1"),
	}
	require.NoError(t, s.WriteLocations(ctx, "run-1", []model.GamelogLocation{rec}))

	got, err := s.ReadLocations(ctx, "wrld_5678")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].WorldID, "empty raw world_id stays absent")
	assert.Equal(t, rec, got[0])
}

func TestReadLocations_SubSecondOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")

	// 120ms has a trailing zero that a trimmed layout would drop.
	records := []model.GamelogLocation{
		{ID: 1, CreatedAt: testutil.Epoch.Add(120 * time.Millisecond), WorldName: "First"},
		{ID: 2, CreatedAt: testutil.Epoch.Add(125 * time.Millisecond), WorldName: "Second"},
		{ID: 3, CreatedAt: testutil.Epoch.Add(time.Second), WorldName: "Third"},
	}
	require.NoError(t, s.WriteLocations(ctx, "run-1", []model.GamelogLocation{records[2], records[1], records[0]}))

	got, err := s.ReadLocations(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestReadJoinLeave_SubSecondOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")

	records := []model.GamelogJoinLeave{
		{ID: 2, CreatedAt: testutil.Epoch.Add(100 * time.Millisecond), Event: vrc.EventJoin, DisplayName: "A"},
		{ID: 1, CreatedAt: testutil.Epoch.Add(105 * time.Millisecond), Event: vrc.EventLeave, DisplayName: "A"},
	}
	require.NoError(t, s.WriteJoinLeave(ctx, "run-1", records))

	got, err := s.ReadJoinLeave(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestListRuns_SubSecondOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.BeginRun(ctx, "a-early", testutil.Epoch.Add(100*time.Millisecond)))
	require.NoError(t, s.BeginRun(ctx, "b-late", testutil.Epoch.Add(150*time.Millisecond)))

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b-late", runs[0].ID)
	assert.True(t, runs[0].StartedAt.Equal(testutil.Epoch.Add(150*time.Millisecond)))
}

func TestWriteFriendTrust_KeyedBySourceTable(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")

	recs := []model.FriendTrust{
		{UserID: "usr_a", DisplayName: "A", TrustLevel: vrc.TrustKnownUser},
		{UserID: "usr_b", DisplayName: "B", TrustLevel: vrc.TrustVisitor},
	}
	require.NoError(t, s.WriteFriendTrust(ctx, "run-1", "usr1_friend_log_current", recs))
	require.NoError(t, s.WriteFriendTrust(ctx, "run-1", "usr2_friend_log_current", recs[:1]))

	got, err := s.ReadFriendTrust(ctx, "usr1_friend_log_current")
	require.NoError(t, err)
	assert.Equal(t, recs, got)

	all, err := s.ReadFriendTrust(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestWriteFailures_DeduplicatesPerRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")

	failures := []model.Failure{
		{Table: model.TableJoinLeave, RowID: "3", Field: model.FieldEvent, Code: model.CodeUnrecognizedToken, Reason: "bad"},
		{Table: model.TableLocation, RowID: "3", Field: model.FieldLocation, Code: "INVALID_FORMAT", Reason: "worse"},
	}
	require.NoError(t, s.WriteFailures(ctx, "run-1", failures))
	require.NoError(t, s.WriteFailures(ctx, "run-1", failures[:1]))

	got, err := s.ReadFailures(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, failures, got)

	none, err := s.ReadFailures(ctx, "run-missing")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestWrite_RequiresRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := model.GamelogJoinLeave{ID: 1, CreatedAt: testutil.Epoch, Event: vrc.EventJoin, DisplayName: "x"}
	err := s.WriteJoinLeave(ctx, "no-such-run", []model.GamelogJoinLeave{rec})
	assert.Error(t, err, "foreign key on run_id should reject unknown runs")

	got, err := s.ReadJoinLeave(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, got, "failed transaction must not leave partial rows")
}

func TestWrite_EmptyBatchIsNoop(t *testing.T) {
	s := createTestStore(t)
	assert.NoError(t, s.WriteLocations(context.Background(), "unused", nil))
}

func TestRuns_BeginFinishRead(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.BeginRun(ctx, "run-1", testutil.Epoch))
	require.NoError(t, s.BeginRun(ctx, "run-2", testutil.Epoch.Add(time.Minute)))

	run, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Nil(t, run.FinishedAt)
	assert.True(t, run.StartedAt.Equal(testutil.Epoch))

	finished := testutil.Epoch.Add(5 * time.Second)
	require.NoError(t, s.FinishRun(ctx, "run-1", finished, 10, 2))

	run, err = s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, run.FinishedAt)
	assert.True(t, run.FinishedAt.Equal(finished))
	assert.Equal(t, 10, run.Converted)
	assert.Equal(t, 2, run.Failed)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)

	assert.Error(t, s.FinishRun(ctx, "missing", finished, 0, 0))
	_, err = s.ReadRun(ctx, "missing")
	assert.Error(t, err)
}
