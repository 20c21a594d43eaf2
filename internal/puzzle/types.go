// internal/puzzle/types.go
//
// Type definitions for a single masked-word round.
// Defines:
//   - HintClass: category of hint that can be disclosed once per round.
//   - Rating: difficulty band assigned after a solve.
//   - Puzzle: mutable per-round record.

package puzzle

import (
	"time"

	"github.com/coder/quartz"
)

// HintClass is a category of hint. Each class counts once per round no
// matter how often it is selected.
type HintClass string

const (
	HintSynonym HintClass = "synonym"
	HintExample HintClass = "example"
)

// HintClasses lists every class in display order.
var HintClasses = []HintClass{HintSynonym, HintExample}

// Rating is the difficulty band of a solved round.
type Rating string

const (
	RatingEasy   Rating = "easy"
	RatingMedium Rating = "medium"
	RatingHard   Rating = "hard"
)

// maskRune marks a letter that has not been revealed yet.
const maskRune = '_'

// Puzzle holds the state of one round.
type Puzzle struct {
	Word      string    // Target word (lowercase a–z).
	Attempts  int       // Guesses made so far, letters and words alike.
	HintsUsed int       // Explicit hint requests by the player.
	Solved    bool      // True once the word is fully revealed.
	Started   time.Time // Round start per the injected clock.
	SolvedAt  time.Time // Zero until solved.

	mask    []rune
	guessed map[rune]bool
	shown   map[HintClass]bool
	clock   quartz.Clock
}
