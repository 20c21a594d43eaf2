package policy

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"
)

// OpenBadger opens a Badger directory for policy storage. An empty dir
// opens an in-memory instance.
func OpenBadger(dir string) (*badger.DB, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create badger dir %s: %w", dir, err)
		}
		opts = badger.DefaultOptions(dir).WithSyncWrites(true)
	}
	opts = opts.WithNumVersionsToKeep(1).WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}

// badgerLogger routes Badger's internal logging through zerolog.
type badgerLogger struct{}

func (badgerLogger) Errorf(f string, args ...interface{}) {
	log.Error().Str("component", "badger").Msgf(f, args...)
}
func (badgerLogger) Warningf(f string, args ...interface{}) {
	log.Warn().Str("component", "badger").Msgf(f, args...)
}
func (badgerLogger) Infof(f string, args ...interface{}) {
	log.Debug().Str("component", "badger").Msgf(f, args...)
}
func (badgerLogger) Debugf(f string, args ...interface{}) {
	log.Trace().Str("component", "badger").Msgf(f, args...)
}

// BadgerStore keeps the table under one key of a Badger database.
type BadgerStore struct {
	db  *badger.DB
	key []byte
}

// NewBadgerStore returns a store for name inside db.
func NewBadgerStore(db *badger.DB, name string) *BadgerStore {
	return &BadgerStore{db: db, key: []byte("policy/" + name)}
}

func (b *BadgerStore) Name() string { return "badger:" + string(b.key) }

func (b *BadgerStore) Read(ctx context.Context) ([]byte, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(b.key)
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: badger get %s: %w", ErrStoreIO, b.key, err)
	}
	return out, nil
}

func (b *BadgerStore) Write(ctx context.Context, data []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(b.key, data)
	})
	if err != nil {
		return fmt.Errorf("%w: badger set %s: %w", ErrStoreIO, b.key, err)
	}
	return nil
}
