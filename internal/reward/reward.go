// internal/reward/reward.go
//
// Reward signal for the hint-pacing policy.
// Each guess maps to exactly one Outcome, and each Outcome to one scalar:
//   - word_correct   → +10 (terminal, dominates everything else)
//   - letter_present → +1
//   - letter_absent  → -1
//   - word_incorrect → -1
//
// The scale is kept small so that alpha·reward never swamps the table.

package reward

import (
	"fmt"
	"strings"
)

// Outcome is the classification of a single guess against the target word.
type Outcome string

const (
	WordCorrect   Outcome = "word_correct"
	LetterPresent Outcome = "letter_present"
	LetterAbsent  Outcome = "letter_absent"
	WordIncorrect Outcome = "word_incorrect"
)

// Outcomes lists every member of the enumeration.
var Outcomes = []Outcome{WordCorrect, LetterPresent, LetterAbsent, WordIncorrect}

const (
	solveReward  = 10.0
	letterReward = 1.0
	missPenalty  = -1.0
)

// Compute converts an outcome into the reward consumed by the policy update.
// It panics on a value outside the enumeration; there is no fifth case.
func Compute(o Outcome) float64 {
	switch o {
	case WordCorrect:
		return solveReward
	case LetterPresent:
		return letterReward
	case LetterAbsent, WordIncorrect:
		return missPenalty
	}
	panic(fmt.Sprintf("reward: unknown outcome %q", string(o)))
}

// Classify maps a guess to its outcome. Both strings are compared
// case-insensitively after trimming. A guess equal to the target is always
// WordCorrect, even when both are one letter long.
func Classify(target, guess string) Outcome {
	target = strings.ToLower(strings.TrimSpace(target))
	guess = strings.ToLower(strings.TrimSpace(guess))

	switch {
	case guess == target:
		return WordCorrect
	case len(guess) == 1:
		if strings.Contains(target, guess) {
			return LetterPresent
		}
		return LetterAbsent
	default:
		return WordIncorrect
	}
}

// Valid reports whether o is a member of the enumeration.
func (o Outcome) Valid() bool {
	switch o {
	case WordCorrect, LetterPresent, LetterAbsent, WordIncorrect:
		return true
	}
	return false
}
