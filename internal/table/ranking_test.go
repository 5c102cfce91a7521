package table_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/chesscompare/internal/errors"
	"github.com/vytor/chesscompare/internal/models"
	"github.com/vytor/chesscompare/internal/table"
	"github.com/vytor/chesscompare/internal/testutil"
)

func TestTopN_AccuracyDescending(t *testing.T) {
	tbl := table.New("aporian", sample())

	top, err := tbl.TopN("accuracy", 5, false, false)
	require.NoError(t, err)
	require.Len(t, top, 5)

	for i, r := range top {
		assert.Equal(t, models.ResultWin, r.Result)
		require.NotNil(t, r.Accuracy)
		if i > 0 {
			assert.GreaterOrEqual(t, *top[i-1].Accuracy, *r.Accuracy)
		}
	}
	assert.Equal(t, "9", top[0].ID)
}

func TestTopN_RatedOnlyAndFewerThanN(t *testing.T) {
	tbl := table.New("aporian", sample())

	top, err := tbl.TopN("accuracy", table.DefaultTopN, false, true)
	require.NoError(t, err)
	assert.Len(t, top, 4, "game 9 is unrated")
}

func TestTopN_Ascending(t *testing.T) {
	tbl := table.New("aporian", sample())

	top, err := tbl.TopN("rating_differential", 2, true, false)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "9", top[0].ID)
	assert.Equal(t, "7", top[1].ID)
}

func TestTopN_NullsLast(t *testing.T) {
	tbl := table.New("aporian", []models.GameRecord{
		testutil.Record("a", models.ResultWin, 1500, nil),
		testutil.Record("b", models.ResultWin, 1500, testutil.Float(40)),
		testutil.Record("c", models.ResultWin, 1500, testutil.Float(70)),
	})

	for _, asc := range []bool{true, false} {
		top, err := tbl.TopN("accuracy", 3, asc, false)
		require.NoError(t, err)
		assert.Equal(t, "a", top[2].ID)
	}
}

func TestTopN_TextColumn(t *testing.T) {
	tbl := table.New("aporian", sample())

	top, err := tbl.TopN("opponent", 10, true, false)
	require.NoError(t, err)
	assert.Equal(t, "bob", top[0].Opponent)
	assert.Equal(t, "dave", top[len(top)-1].Opponent)
}

func TestTopN_Validation(t *testing.T) {
	tbl := table.New("aporian", sample())

	_, err := tbl.TopN("result_type", 5, false, true)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))

	_, err = tbl.TopN("accuracy", -1, false, true)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))

	top, err := tbl.TopN("accuracy", 0, false, true)
	require.NoError(t, err)
	assert.Empty(t, top)
}
