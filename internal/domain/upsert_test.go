package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleOp(score string, at time.Time) UpsertOp {
	return UpsertOp{
		ID:     "01052024_1930_01_02",
		League: "Premier League",
		Set: MatchFields{
			LeagueOrder: 1,
			MatchOrder:  2,
			HomeTeam:    "Arsenal",
			AwayTeam:    "Chelsea",
			Score:       score,
			Time:        "01052024_1930",
			LocalTime:   "19:30",
			KickoffAt:   time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC),
			Odds:        "0.5",
			UpdatedAt:   at,
		},
		InsertOnly: InsertFields{CreatedAt: at, PreviousScore: InitialPreviousScore},
	}
}

func TestApplyInsertSetsInsertOnlyFields(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	rec, ok := Apply(nil, sampleOp("1 - 0", at))
	require.True(t, ok)
	require.Equal(t, InitialPreviousScore, rec.PreviousScore)
	require.Equal(t, "1 - 0", rec.Score)
	require.True(t, rec.CreatedAt.Equal(at))
	require.True(t, rec.UpdatedAt.Equal(at))
}

func TestApplyMovesPreviousScoreOnlyOnChange(t *testing.T) {
	t.Parallel()

	first := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	rec, _ := Apply(nil, sampleOp("1 - 0", first))

	later := first.Add(time.Minute)
	same, ok := Apply(&rec, sampleOp("1 - 0", later))
	require.True(t, ok)
	require.Equal(t, InitialPreviousScore, same.PreviousScore)
	require.True(t, same.CreatedAt.Equal(first))
	require.True(t, same.UpdatedAt.Equal(later))

	changed, ok := Apply(&same, sampleOp("2 - 0", later.Add(time.Minute)))
	require.True(t, ok)
	require.Equal(t, "1 - 0", changed.PreviousScore)
	require.Equal(t, "2 - 0", changed.Score)
	require.NotEqual(t, changed.Score, changed.PreviousScore)
}

func TestApplyRejectsLeagueMismatch(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	rec, _ := Apply(nil, sampleOp("0 - 0", at))

	op := sampleOp("3 - 3", at)
	op.League = "La Liga"
	got, ok := Apply(&rec, op)
	require.False(t, ok)
	require.Equal(t, "0 - 0", got.Score)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	rec, _ := Apply(nil, sampleOp("0 - 0", at))

	require.Equal(t, OutcomeInserted, Classify(nil, sampleOp("0 - 0", at)))
	require.Equal(t, OutcomeUnchanged, Classify(&rec, sampleOp("0 - 0", at.Add(time.Hour))))
	require.Equal(t, OutcomeUpdated, Classify(&rec, sampleOp("1 - 0", at)))

	other := sampleOp("0 - 0", at)
	other.League = "Serie A"
	require.Equal(t, OutcomeSkipped, Classify(&rec, other))
}

func TestParseScore(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want Score
		ok   bool
	}{
		{"2 - 1", Score{Home: 2, Away: 1}, true},
		{"0-3", Score{Home: 0, Away: 3}, true},
		{" 10 -  0 ", Score{Home: 10, Away: 0}, true},
		{"-", Score{}, false},
		{"", Score{}, false},
		{"a - b", Score{}, false},
		{"1 - 2 - 3", Score{}, false},
		{"P - P", Score{}, false},
	}

	for _, tc := range cases {
		got, ok := ParseScore(tc.raw)
		require.Equal(t, tc.ok, ok, tc.raw)
		require.Equal(t, tc.want, got, tc.raw)
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	err := NewError(ParseFailure, "normalize match", "เจ้าบ้าน", ErrMissingField)
	require.True(t, IsKind(err, ParseFailure))
	require.False(t, IsKind(err, StoreFailure))
	require.True(t, errors.Is(err, ErrMissingField))
	require.Contains(t, err.Error(), `value "เจ้าบ้าน"`)
	require.False(t, IsKind(errors.New("plain"), ParseFailure))
}
