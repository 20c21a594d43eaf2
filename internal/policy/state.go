package policy

import (
	"fmt"
	"strconv"
	"strings"
)

// State is the discretized progress key "<attempts>_<hintClasses>".
// Rounds with identical counters share a state regardless of the word.
type State string

// NewState builds the key for the given counters. A positive attemptCap
// clamps attempts so long rounds collapse into one bucket; zero leaves
// attempts unbounded.
func NewState(attempts, hintClasses, attemptCap int) State {
	if attempts < 0 {
		attempts = 0
	}
	if hintClasses < 0 {
		hintClasses = 0
	}
	if attemptCap > 0 && attempts > attemptCap {
		attempts = attemptCap
	}
	return State(strconv.Itoa(attempts) + "_" + strconv.Itoa(hintClasses))
}

// ParseState splits a key back into its counters.
func ParseState(s string) (attempts, hintClasses int, err error) {
	a, h, ok := strings.Cut(s, "_")
	if !ok {
		return 0, 0, fmt.Errorf("state %q: missing separator", s)
	}
	if attempts, err = strconv.Atoi(a); err != nil || attempts < 0 {
		return 0, 0, fmt.Errorf("state %q: bad attempt count", s)
	}
	if hintClasses, err = strconv.Atoi(h); err != nil || hintClasses < 0 {
		return 0, 0, fmt.Errorf("state %q: bad hint count", s)
	}
	return attempts, hintClasses, nil
}

func (s State) String() string { return string(s) }
