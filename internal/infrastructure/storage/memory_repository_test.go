package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"GoalWatcher/internal/domain"
)

func TestMemoryRepositoryUpsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryRepository()

	res, err := repo.BulkUpsert(ctx, []domain.UpsertOp{op("m1", "EPL", "0 - 0"), op("m2", "EPL", "0 - 0")})
	require.NoError(t, err)
	require.Equal(t, domain.UpsertResult{Inserted: 2}, res)

	res, err = repo.BulkUpsert(ctx, []domain.UpsertOp{op("m1", "EPL", "1 - 0"), op("m2", "La Liga", "5 - 5")})
	require.NoError(t, err)
	require.Equal(t, domain.UpsertResult{Matched: 1}, res)

	m1, ok := repo.Get("m1")
	require.True(t, ok)
	require.Equal(t, "1 - 0", m1.Score)
	require.Equal(t, "0 - 0", m1.PreviousScore)

	m2, _ := repo.Get("m2")
	require.Equal(t, "EPL", m2.League)
	require.Equal(t, "0 - 0", m2.Score)
	require.Equal(t, 2, repo.Writes())
}

func TestMemoryRepositoryFind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryRepository()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	ops := []domain.UpsertOp{op("b", "La Liga", "0 - 0"), op("a", "EPL", "0 - 0"), op("c", "EPL", "0 - 0")}
	ops[0].Set.KickoffAt = base
	ops[1].Set.KickoffAt = base.Add(2 * time.Hour)
	ops[2].Set.KickoffAt = base.Add(time.Hour)
	_, err := repo.BulkUpsert(ctx, ops)
	require.NoError(t, err)

	all, err := repo.Find(ctx, domain.MatchFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{"b", "c", "a"}, ids(all))

	byLeague, err := repo.Find(ctx, domain.MatchFilter{OrderByLeague: true})
	require.NoError(t, err)
	require.Equal(t, []string{"c", "a", "b"}, ids(byLeague))

	window, err := repo.Find(ctx, domain.MatchFilter{KickoffFrom: base.Add(30 * time.Minute), KickoffTo: base.Add(time.Hour)})
	require.NoError(t, err)
	require.Equal(t, []string{"c"}, ids(window))

	picked, err := repo.Find(ctx, domain.MatchFilter{IDs: []string{"a", "zzz"}})
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, ids(picked))
}

func ids(records []domain.MatchRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
