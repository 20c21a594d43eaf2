// internal/session/session.go
//
// Round lifecycle driver.
// Responsibilities:
//   - Start rounds: pick a word, build the puzzle, make the first hint decision.
//   - On each guess: apply it, compute the reward, update the policy for the
//     decision that preceded the guess, persist the table, decide again.
//   - On solve: rate difficulty and append the round to history.
//   - Serve explicit hint requests and read-only views.
//
// One mutex serializes every policy read-modify-write, so concurrent HTTP
// requests against one shared table cannot lose updates.

package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MuraliDhar-731/WordPuzzle/internal/history"
	"github.com/MuraliDhar-731/WordPuzzle/internal/lexicon"
	"github.com/MuraliDhar-731/WordPuzzle/internal/metrics"
	"github.com/MuraliDhar-731/WordPuzzle/internal/policy"
	"github.com/MuraliDhar-731/WordPuzzle/internal/puzzle"
	"github.com/MuraliDhar-731/WordPuzzle/internal/reward"
)

// maxSynonyms caps how many synonyms one hint discloses.
const maxSynonyms = 4

var (
	ErrUnknownHint = errors.New("unknown hint class")
	ErrInvalidWord = errors.New("word must be letters a-z")
)

// Recorder persists finished rounds. *history.Store satisfies it.
type Recorder interface {
	Insert(ctx context.Context, r history.Record) error
}

// Options wires an Orchestrator. Lexicon, Engine, and Store are required.
type Options struct {
	Lexicon lexicon.Provider
	Engine  *policy.Engine
	Store   policy.Store
	History Recorder         // optional
	Metrics *metrics.Metrics // optional
	Clock   quartz.Clock     // defaults to the wall clock
	Rand    *rand.Rand       // word selection; defaults to a clock-seeded source
	MinLen  int
	MaxLen  int
}

// Orchestrator drives rounds against one shared policy.
type Orchestrator struct {
	mu      sync.Mutex
	lex     lexicon.Provider
	engine  *policy.Engine
	store   policy.Store
	history Recorder
	metrics *metrics.Metrics
	clock   quartz.Clock
	rng     *rand.Rand
	minLen  int
	maxLen  int
}

// New validates opts and returns an Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Lexicon == nil || opts.Engine == nil || opts.Store == nil {
		return nil, errors.New("session: lexicon, engine, and store are required")
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Rand == nil {
		opts.Rand = policy.NewRand(opts.Clock.Now().UnixNano())
	}
	if opts.MinLen <= 0 {
		opts.MinLen = lexicon.DefaultMinLen
	}
	if opts.MaxLen <= 0 {
		opts.MaxLen = lexicon.DefaultMaxLen
	}
	return &Orchestrator{
		lex:     opts.Lexicon,
		engine:  opts.Engine,
		store:   opts.Store,
		history: opts.History,
		metrics: opts.Metrics,
		clock:   opts.Clock,
		rng:     opts.Rand,
		minLen:  opts.MinLen,
		maxLen:  opts.MaxLen,
	}, nil
}

// Round is one word's lifecycle.
type Round struct {
	ID       string
	PlayerID string
	Puzzle   *puzzle.Puzzle
	Entry    lexicon.Entry

	// decision awaiting the next guess's reward
	state  policy.State
	action policy.Action
	// whether the last decision disclosed something new
	effective bool
}

// Decision is the policy choice made for the current turn.
type Decision struct {
	State     policy.State  `json:"state"`
	Action    policy.Action `json:"action"`
	Effective bool          `json:"effective"`
}

// Decision returns the pending decision for r.
func (r *Round) Decision() Decision {
	return Decision{State: r.state, Action: r.action, Effective: r.effective}
}

// NewRound starts a round on a random candidate word.
func (o *Orchestrator) NewRound(ctx context.Context, playerID string) (*Round, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	word, err := lexicon.RandomWord(o.lex, o.rng, o.minLen, o.maxLen)
	if err != nil {
		return nil, err
	}
	return o.startLocked(playerID, word), nil
}

// NewRoundWithWord starts a round on a fixed word.
func (o *Orchestrator) NewRoundWithWord(ctx context.Context, playerID, word string) (*Round, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" || strings.IndexFunc(word, func(r rune) bool { return r < 'a' || r > 'z' }) >= 0 {
		return nil, ErrInvalidWord
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.startLocked(playerID, word), nil
}

func (o *Orchestrator) startLocked(playerID, word string) *Round {
	r := &Round{
		ID:       uuid.NewString(),
		PlayerID: playerID,
		Puzzle:   puzzle.New(word, o.clock),
		Entry:    o.lex.Lookup(word),
	}
	if r.Entry.Empty() {
		log.Warn().Str("word", word).Msg("no lexicon entry; hints unavailable this round")
	}
	o.metrics.RoundStarted()
	o.turnLocked(r)
	log.Info().Str("round", r.ID).Str("player", playerID).Int("length", len(word)).Msg("round started")
	return r
}

// turnLocked asks the policy for this turn's action and applies its effect.
func (o *Orchestrator) turnLocked(r *Round) {
	attempts, classes := r.Puzzle.Progress()
	r.state = o.engine.State(attempts, classes)
	r.action = o.engine.SelectAction(r.state)
	r.effective = applyAction(r, r.action)
	o.metrics.Action(string(r.action), r.effective)

	log.Debug().
		Str("round", r.ID).
		Str("state", string(r.state)).
		Str("action", string(r.action)).
		Bool("effective", r.effective).
		Msg("hint decision")
}

// applyAction executes an action's effect and reports whether it disclosed a
// new hint class. Classes with no material in the entry stay hidden and
// uncounted.
func applyAction(r *Round, a policy.Action) bool {
	switch a {
	case policy.RevealSynonyms:
		if len(r.Entry.Synonyms) == 0 {
			return false
		}
		return r.Puzzle.RevealHint(puzzle.HintSynonym)
	case policy.RevealExample:
		if len(r.Entry.Examples) == 0 {
			return false
		}
		return r.Puzzle.RevealHint(puzzle.HintExample)
	}
	return false
}

// GuessResult describes the effect of one guess.
type GuessResult struct {
	Outcome     reward.Outcome    `json:"outcome"`
	Reward      float64           `json:"reward"`
	Transition  policy.Transition `json:"transition"`
	Estimate    float64           `json:"estimate"`
	Solved      bool              `json:"solved"`
	Difficulty  puzzle.Rating     `json:"difficulty,omitempty"`
	PolicySaved bool              `json:"policySaved"`
}

// Guess applies guess to r and feeds the reward back into the policy.
// Invalid guesses and guesses on solved rounds return an error and leave
// the policy untouched. A failed table write is logged and reported through
// GuessResult.PolicySaved; the guess itself still counts.
func (o *Orchestrator) Guess(ctx context.Context, r *Round, guess string) (GuessResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	outcome, err := r.Puzzle.ApplyGuess(guess)
	if err != nil {
		return GuessResult{}, err
	}

	res := GuessResult{Outcome: outcome, Reward: reward.Compute(outcome)}
	attempts, classes := r.Puzzle.Progress()
	res.Transition = policy.Transition{
		State:     r.state,
		Action:    r.action,
		Reward:    res.Reward,
		NextState: o.engine.State(attempts, classes),
	}
	res.Estimate = o.engine.Apply(res.Transition)
	o.metrics.Guess(string(outcome), res.Reward)

	if err := o.engine.Save(ctx, o.store); err != nil {
		o.metrics.SaveFailed()
		log.Error().Err(err).Str("store", o.store.Name()).Msg("save policy table")
	} else {
		res.PolicySaved = true
	}

	log.Debug().
		Str("round", r.ID).
		Str("outcome", string(outcome)).
		Float64("reward", res.Reward).
		Str("state", string(res.Transition.State)).
		Str("next", string(res.Transition.NextState)).
		Float64("estimate", res.Estimate).
		Msg("policy update")

	if !r.Puzzle.Solved {
		o.turnLocked(r)
		return res, nil
	}

	res.Solved = true
	res.Difficulty, _ = r.Puzzle.Difficulty()
	o.metrics.Solved(string(res.Difficulty))
	o.recordLocked(ctx, r, res.Difficulty)
	return res, nil
}

func (o *Orchestrator) recordLocked(ctx context.Context, r *Round, rating puzzle.Rating) {
	log.Info().
		Str("round", r.ID).
		Str("word", r.Puzzle.Word).
		Int("attempts", r.Puzzle.Attempts).
		Dur("elapsed", r.Puzzle.Elapsed()).
		Str("difficulty", string(rating)).
		Msg("round solved")

	if o.history == nil {
		return
	}
	rec := history.Record{
		RoundID:     r.ID,
		PlayerID:    r.PlayerID,
		Word:        r.Puzzle.Word,
		Attempts:    r.Puzzle.Attempts,
		HintsUsed:   r.Puzzle.HintsUsed,
		HintClasses: r.Puzzle.HintClassesShown(),
		ElapsedMs:   r.Puzzle.Elapsed().Milliseconds(),
		Difficulty:  string(rating),
		FinishedAt:  r.Puzzle.SolvedAt,
	}
	if err := o.history.Insert(ctx, rec); err != nil {
		log.Warn().Err(err).Str("round", r.ID).Msg("insert round history")
	}
}

// RequestHint discloses class on the player's request. It counts toward
// HintsUsed every time, but the class itself counts once per round. The
// returned bool is false when nothing new was shown.
func (o *Orchestrator) RequestHint(r *Round, class puzzle.HintClass) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if r.Puzzle.Solved {
		return false, puzzle.ErrSolved
	}
	var available bool
	switch class {
	case puzzle.HintSynonym:
		available = len(r.Entry.Synonyms) > 0
	case puzzle.HintExample:
		available = len(r.Entry.Examples) > 0
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownHint, class)
	}
	r.Puzzle.RecordHintRequest()
	if !available {
		return false, nil
	}
	return r.Puzzle.RevealHint(class), nil
}

// Policy returns a snapshot of the learned table.
func (o *Orchestrator) Policy() policy.Table {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.engine.Table()
}

// ResetPolicy clears the learned table and persists the empty table.
func (o *Orchestrator) ResetPolicy(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.engine.Reset()
	return o.engine.Save(ctx, o.store)
}
