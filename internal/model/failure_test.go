package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/zaphkiel/internal/model"
	"github.com/roach88/zaphkiel/internal/testutil"
)

func TestFailureFrom_ParseError(t *testing.T) {
	row := testutil.JoinLeaveRow(testutil.NewDeterministicClock(), 5, "join", ":inst")
	_, err := model.ConvertJoinLeave(row, model.DefaultJoinLeavePolicy())

	f := model.FailureFrom(err)
	assert.Equal(t, model.Failure{
		Table:  model.TableJoinLeave,
		RowID:  "5",
		Field:  model.FieldLocation,
		Code:   "INVALID_WORLD_ID",
		Reason: `parse world instance ":inst": INVALID_WORLD_ID`,
	}, f)
}

func TestFailureFrom_UnrecognizedToken(t *testing.T) {
	_, err := model.ConvertFriendTrust(testutil.FriendLogRow("usr_a", "A", "Legend"), model.DefaultFriendTrustPolicy())

	f := model.FailureFrom(err)
	assert.Equal(t, model.CodeUnrecognizedToken, f.Code)
	assert.Equal(t, "usr_a", f.RowID)
	assert.Equal(t, `unrecognized trust_level token "Legend"`, f.Reason)
}

func TestFailureFrom_PlainError(t *testing.T) {
	f := model.FailureFrom(errors.New("disk on fire"))
	assert.Equal(t, model.Failure{Code: "OTHER", Reason: "disk on fire"}, f)
}

func TestFailureFrom_ConversionErrorWithoutCause(t *testing.T) {
	err := &model.ConversionError{Table: model.TableLocation, RowID: "9", Field: model.FieldLocation}

	var f model.Failure
	assert.NotPanics(t, func() { f = model.FailureFrom(err) })
	assert.Equal(t, model.TableLocation, f.Table)
	assert.Equal(t, "9", f.RowID)
	assert.Equal(t, "OTHER", f.Code)
	assert.Equal(t, err.Error(), f.Reason)
}
