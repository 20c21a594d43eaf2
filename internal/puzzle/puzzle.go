// internal/puzzle/puzzle.go
//
// Round bookkeeping for the masked-word game.
// Responsibilities:
//   - Validate and apply letter or full-word guesses.
//   - Reveal every position matching a correct letter.
//   - Track which hint classes were disclosed (idempotently).
//   - Freeze elapsed time on solve and rate the round's difficulty.

package puzzle

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/coder/quartz"

	"github.com/MuraliDhar-731/WordPuzzle/internal/reward"
)

var (
	ErrSolved       = errors.New("puzzle already solved")
	ErrInvalidGuess = errors.New("guess must be one or more letters a-z")
)

// New starts a round for word. A nil clock uses the wall clock.
func New(word string, clock quartz.Clock) *Puzzle {
	if clock == nil {
		clock = quartz.NewReal()
	}
	word = strings.ToLower(strings.TrimSpace(word))
	mask := make([]rune, len(word))
	for i := range mask {
		mask[i] = maskRune
	}
	return &Puzzle{
		Word:    word,
		Started: clock.Now(),
		mask:    mask,
		guessed: make(map[rune]bool),
		shown:   make(map[HintClass]bool),
		clock:   clock,
	}
}

// ApplyGuess validates and applies one guess and returns its outcome.
//
// A full-word match reveals everything. A single letter reveals each
// matching position; revealing the last hidden letter also solves the round.
func (p *Puzzle) ApplyGuess(guess string) (reward.Outcome, error) {
	if p.Solved {
		return "", ErrSolved
	}
	guess = strings.ToLower(strings.TrimSpace(guess))
	if guess == "" || !isAlpha(guess) {
		return "", ErrInvalidGuess
	}

	p.Attempts++
	outcome := reward.Classify(p.Word, guess)

	switch outcome {
	case reward.WordCorrect:
		p.mask = []rune(p.Word)
		p.solve()
	case reward.LetterPresent, reward.LetterAbsent:
		l := rune(guess[0])
		p.guessed[l] = true
		for i, r := range p.Word {
			if r == l {
				p.mask[i] = r
			}
		}
		if string(p.mask) == p.Word {
			p.solve()
		}
	}
	return outcome, nil
}

func (p *Puzzle) solve() {
	p.Solved = true
	p.SolvedAt = p.clock.Now()
}

// RevealHint marks class as shown and reports whether it was new this round.
// Classes outside HintClasses are never shown.
func (p *Puzzle) RevealHint(class HintClass) bool {
	if !slices.Contains(HintClasses, class) || p.shown[class] {
		return false
	}
	p.shown[class] = true
	return true
}

// HintShown reports whether class was disclosed this round.
func (p *Puzzle) HintShown(class HintClass) bool { return p.shown[class] }

// RecordHintRequest counts an explicit hint request by the player.
func (p *Puzzle) RecordHintRequest() { p.HintsUsed++ }

// HintClassesShown counts distinct classes disclosed this round.
func (p *Puzzle) HintClassesShown() int { return len(p.shown) }

// Progress returns the counters the hint policy keys on.
func (p *Puzzle) Progress() (attempts, hintClasses int) {
	return p.Attempts, len(p.shown)
}

// Masked renders the word with hidden letters as "_", space separated.
func (p *Puzzle) Masked() string {
	parts := make([]string, len(p.mask))
	for i, r := range p.mask {
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}

// GuessedLetters returns the letters guessed so far in a–z order.
func (p *Puzzle) GuessedLetters() []string {
	var out []string
	for r := 'a'; r <= 'z'; r++ {
		if p.guessed[r] {
			out = append(out, string(r))
		}
	}
	return out
}

// Elapsed is the time since the round started, frozen once solved.
func (p *Puzzle) Elapsed() time.Duration {
	if p.Solved {
		return p.SolvedAt.Sub(p.Started)
	}
	return p.clock.Now().Sub(p.Started)
}

// Difficulty rates a solved round. ok is false while unsolved.
//
//	score = attempts + 2·hints requested + 2·hint classes shown + seconds/30
//
// normalised by half the word length, so longer words tolerate more guesses.
func (p *Puzzle) Difficulty() (r Rating, ok bool) {
	if !p.Solved {
		return "", false
	}
	score := float64(p.Attempts) +
		2*float64(p.HintsUsed) +
		2*float64(len(p.shown)) +
		p.Elapsed().Seconds()/30

	div := float64(len(p.Word) / 2)
	if div < 1 {
		div = 1
	}
	score /= div

	switch {
	case score < 3:
		return RatingEasy, true
	case score < 6:
		return RatingMedium, true
	default:
		return RatingHard, true
	}
}

// isAlpha checks that a string consists only of lowercase a–z.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
