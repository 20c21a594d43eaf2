package history

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuraliDhar-731/WordPuzzle/assets"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrations, err := assets.Migrations()
	require.NoError(t, err)
	require.NoError(t, Migrate(db, migrations))
	// second run is a no-op
	require.NoError(t, Migrate(db, migrations))
	return NewStore(db)
}

func TestRecentAndBest(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	recs := []Record{
		{RoundID: "r1", PlayerID: "p1", Word: "garden", Attempts: 5, ElapsedMs: 30000, Difficulty: "easy", FinishedAt: base},
		{RoundID: "r2", PlayerID: "p1", Word: "anchor", Attempts: 9, ElapsedMs: 12000, Difficulty: "medium", FinishedAt: base.Add(time.Minute)},
		{RoundID: "r3", PlayerID: "p2", Word: "castle", Attempts: 3, ElapsedMs: 12000, Difficulty: "easy", FinishedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range recs {
		require.NoError(t, s.Insert(ctx, r))
	}
	// duplicate ignored
	require.NoError(t, s.Insert(ctx, recs[0]))

	mine, err := s.Recent(ctx, "p1", 0)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "r2", mine[0].RoundID)
	assert.Equal(t, "r1", mine[1].RoundID)
	assert.True(t, base.Equal(mine[1].FinishedAt))

	best, err := s.Best(ctx, 2)
	require.NoError(t, err)
	require.Len(t, best, 2)
	assert.Equal(t, "r3", best[0].RoundID)
	assert.Equal(t, "r2", best[1].RoundID)

	none, err := s.Recent(ctx, "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMigrateReportsBadSQL(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "bad.db"))
	require.NoError(t, err)
	defer db.Close()

	bad := fstest.MapFS{"001_bad.sql": {Data: []byte("CREATE TABLEX nope;")}}
	assert.Error(t, Migrate(db, bad))
}

func TestQueryReportsBadFinishedAt(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rounds
			(id, player_id, word, attempts, hints_used, hint_classes, elapsed_ms, difficulty, finished_at)
		VALUES ('r1', 'p1', 'garden', 4, 0, 0, 1000, 'easy', 'yesterday')`)
	require.NoError(t, err)

	recs, err := s.Recent(ctx, "p1", 5)
	assert.Nil(t, recs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finished_at")
}
