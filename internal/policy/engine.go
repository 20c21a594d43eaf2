// internal/policy/engine.go
//
// Tabular Q-learning agent that decides when to surface a hint.
// Responsibilities:
//   - SelectAction: epsilon-greedy choice over the fixed action set.
//   - Update: one temporal-difference step per observed transition.
//
// The engine does no locking. Callers sharing one engine across rounds
// serialize access themselves.

package policy

import (
	"fmt"
	"math/rand/v2"
)

// Transition is one observed (state, action, reward, next state) step.
type Transition struct {
	State     State   `json:"state"`
	Action    Action  `json:"action"`
	Reward    float64 `json:"reward"`
	NextState State   `json:"nextState"`
}

// Engine owns a Table and the parameters used to learn it.
type Engine struct {
	cfg   Config
	rng   *rand.Rand
	table Table
}

// NewEngine validates cfg and wraps table (nil means empty).
// rng drives exploration; pass a seeded source for reproducible runs.
func NewEngine(cfg Config, rng *rand.Rand, table Table) (*Engine, error) {
	if cfg.Actions == nil {
		cfg.Actions = append([]Action(nil), Actions...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfig)
	}
	if table == nil {
		table = NewTable()
	}
	return &Engine{cfg: cfg, rng: rng, table: table}, nil
}

// Config returns the engine's parameters.
func (e *Engine) Config() Config { return e.cfg }

// State builds the progress key under the engine's attempt cap.
func (e *Engine) State(attempts, hintClasses int) State {
	return NewState(attempts, hintClasses, e.cfg.MaxAttemptBucket)
}

// SelectAction picks an action for s. Unseen states get a zero row first.
// With probability epsilon the choice is uniform; otherwise it is the
// highest estimate, ties going to the earliest action in order.
func (e *Engine) SelectAction(s State) Action {
	e.table.ensure(s, e.cfg.Actions)
	if e.cfg.Epsilon > 0 && e.rng.Float64() < e.cfg.Epsilon {
		return e.cfg.Actions[e.rng.IntN(len(e.cfg.Actions))]
	}
	a, _ := e.table.best(s, e.cfg.Actions)
	return a
}

// Update applies
//
//	Q[s][a] += alpha * (reward + gamma * max Q[next] - Q[s][a])
//
// and returns the new estimate. Calling it twice for one real transition
// applies the step twice.
func (e *Engine) Update(s State, a Action, reward float64, next State) float64 {
	row := e.table.ensure(s, e.cfg.Actions)
	_, nextMax := e.table.best(next, e.cfg.Actions)
	old := row[a]
	row[a] = old + e.cfg.Alpha*(reward+e.cfg.Gamma*nextMax-old)
	return row[a]
}

// Apply is Update for a Transition value.
func (e *Engine) Apply(t Transition) float64 {
	return e.Update(t.State, t.Action, t.Reward, t.NextState)
}

// Estimate returns the current value of (s, a) without initialising anything.
func (e *Engine) Estimate(s State, a Action) (float64, bool) {
	row, ok := e.table[s]
	if !ok {
		return 0, false
	}
	v, ok := row[a]
	return v, ok
}

// Table returns a deep copy of the learned values.
func (e *Engine) Table() Table { return e.table.Clone() }

// Reset drops every learned value.
func (e *Engine) Reset() { e.table = NewTable() }
