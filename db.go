// db.go
//
// Resource wiring shared by the commands.
// Responsibilities:
//   - Open the SQLite database and apply the embedded migrations.
//   - Build the configured policy store (file, sqlite, badger, redis, memory).
//   - Load the persisted table into an engine, refusing corrupt state.

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/MuraliDhar-731/WordPuzzle/assets"
	"github.com/MuraliDhar-731/WordPuzzle/internal/config"
	"github.com/MuraliDhar-731/WordPuzzle/internal/history"
	"github.com/MuraliDhar-731/WordPuzzle/internal/policy"
)

// openDB opens the database at c.DBPath and migrates it.
func openDB(c *config.Config) (*sql.DB, error) {
	db, err := history.Open(c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	migrations, err := assets.Migrations()
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := history.Migrate(db, migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// openPolicyStore builds the store named by c.PolicyStore. db is only used
// by the sqlite backend and may be nil otherwise. The returned func releases
// whatever the store opened.
func openPolicyStore(ctx context.Context, c *config.Config, db *sql.DB) (policy.Store, func(), error) {
	noop := func() {}
	switch c.PolicyStore {
	case config.StoreMemory:
		return policy.NewMemoryStore(), noop, nil

	case config.StoreFile:
		return policy.NewFileStore(c.PolicyFile), noop, nil

	case config.StoreSQLite:
		if db == nil {
			return nil, noop, errors.New("sqlite policy store needs a database")
		}
		st, err := policy.NewSQLStore(ctx, db, c.PolicyKey)
		return st, noop, err

	case config.StoreBadger:
		bdb, err := policy.OpenBadger(c.PolicyBadgerDir)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() {
			if err := bdb.Close(); err != nil {
				log.Warn().Err(err).Msg("close badger")
			}
		}
		return policy.NewBadgerStore(bdb, c.PolicyKey), closeFn, nil

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("%w: redis %s: %w", policy.ErrStoreIO, c.RedisAddr, err)
		}
		closeFn := func() { _ = client.Close() }
		return policy.NewRedisStore(client, "wordpuzzle:policy:"+c.PolicyKey), closeFn, nil
	}
	return nil, noop, fmt.Errorf("unknown policy store %q", c.PolicyStore)
}

// loadEngine reads the stored table and wraps it in an engine. Corrupt state
// is returned as an error naming the reset command; nothing is overwritten.
func loadEngine(ctx context.Context, c *config.Config, st policy.Store, seed int64) (*policy.Engine, error) {
	table, err := policy.Load(ctx, st)
	var corrupt *policy.CorruptStateError
	if errors.As(err, &corrupt) {
		return nil, fmt.Errorf("%w; run `wordpuzzle policy reset` to discard it", err)
	}
	if err != nil {
		return nil, err
	}
	log.Info().Str("store", st.Name()).Int("states", len(table)).Msg("policy loaded")
	return policy.NewEngine(c.Policy, policy.NewRand(seed), table)
}

// wordRand derives the word-selection source from the policy seed, so one
// seed reproduces a whole session.
func wordRand(seed int64) *rand.Rand {
	return policy.NewRand(seed + 1)
}

// seedOr returns c.Seed, or a clock-derived seed when unset.
func seedOr(c *config.Config) int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
