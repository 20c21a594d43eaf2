package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuraliDhar-731/WordPuzzle/assets"
	"github.com/MuraliDhar-731/WordPuzzle/internal/history"
)

func TestWordIsStablePerDate(t *testing.T) {
	words := []string{"anchor", "bridge", "castle", "desert", "engine"}
	day := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	i1, w1, ok := Word(day, "salt", words)
	require.True(t, ok)
	i2, w2, _ := Word(day.Add(10*time.Hour), "salt", words)
	assert.Equal(t, i1, i2)
	assert.Equal(t, w1, w2)
	assert.Equal(t, words[i1], w1)

	_, _, ok = Word(day, "salt", nil)
	assert.False(t, ok)
	assert.Zero(t, WordIndex(day, "salt", 0))
	assert.Equal(t, "2026-10-19", DateKey(day))
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	db, err := history.Open(filepath.Join(t.TempDir(), "daily.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	migrations, err := assets.Migrations()
	require.NoError(t, err)
	require.NoError(t, history.Migrate(db, migrations))

	s := NewStore(db)
	played, err := s.AlreadyPlayed(ctx, "p1", "2026-10-19")
	require.NoError(t, err)
	assert.False(t, played)

	require.NoError(t, s.InsertResult(ctx, Result{PlayerID: "p1", Date: "2026-10-19", RoundID: "r1", Attempts: 6, ElapsedMs: 40000}))
	require.NoError(t, s.InsertResult(ctx, Result{PlayerID: "p2", Date: "2026-10-19", RoundID: "r2", Attempts: 4, ElapsedMs: 40000}))
	require.NoError(t, s.InsertResult(ctx, Result{PlayerID: "p3", Date: "2026-10-18", RoundID: "r3", Attempts: 1, ElapsedMs: 1000}))
	// second solve ignored
	require.NoError(t, s.InsertResult(ctx, Result{PlayerID: "p1", Date: "2026-10-19", RoundID: "r4", Attempts: 1, ElapsedMs: 1}))

	played, err = s.AlreadyPlayed(ctx, "p1", "2026-10-19")
	require.NoError(t, err)
	assert.True(t, played)

	top, err := s.Leaderboard(ctx, "2026-10-19", 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "p2", top[0].PlayerID)
	assert.Equal(t, "p1", top[1].PlayerID)
	assert.Equal(t, int64(40000), top[1].ElapsedMs)
}
