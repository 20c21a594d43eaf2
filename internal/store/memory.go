// internal/store/memory.go
//
// In-memory registry of live rounds for the HTTP surface.
// Rounds are process-local: the learned policy is durable, a half-played
// round is not.
//
// Characteristics:
//   - Stores *session.Round keyed by round ID.
//   - Concurrency-safe via RWMutex.
//   - Save and Get stamp a last-used time; Sweep evicts rounds idle since a
//     cutoff so abandoned rounds do not pile up.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/MuraliDhar-731/WordPuzzle/internal/session"
)

var ErrNotFound = errors.New("round not found")

// Rounds is the lookup contract the HTTP handlers need.
type Rounds interface {
	// Save adds or replaces a round.
	Save(ctx context.Context, r *session.Round) error

	// Get returns the round with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*session.Round, error)
}

// Memory is a map-backed Rounds.
type Memory struct {
	clock  quartz.Clock
	mu     sync.RWMutex      // guards rounds
	rounds map[string]*entry // keyed by Round.ID
}

type entry struct {
	round   *session.Round
	touched time.Time // last Save or Get
}

// NewMemoryStore constructs an empty registry. A nil clock means the wall
// clock.
func NewMemoryStore(clock quartz.Clock) *Memory {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Memory{clock: clock, rounds: make(map[string]*entry)}
}

func (m *Memory) Save(ctx context.Context, r *session.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[r.ID] = &entry{round: r, touched: m.clock.Now()}
	return nil
}

// Get returns the round and marks it as used.
func (m *Memory) Get(ctx context.Context, id string) (*session.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rounds[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.touched = m.clock.Now()
	return e.round, nil
}

// Len reports how many rounds are held.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rounds)
}

// Sweep drops rounds not saved or fetched since cutoff and returns how many
// went.
func (m *Memory) Sweep(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.rounds {
		if e.touched.Before(cutoff) {
			delete(m.rounds, id)
			n++
		}
	}
	return n
}
