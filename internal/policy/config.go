package policy

import (
	"fmt"
	"math"
)

// Config holds the learning parameters.
type Config struct {
	Alpha   float64 // learning rate
	Gamma   float64 // discount factor
	Epsilon float64 // exploration rate

	// MaxAttemptBucket caps the attempt counter in state keys. 0 = uncapped.
	MaxAttemptBucket int

	// Actions is the action set in tie-break order. Defaults to Actions.
	Actions []Action
}

// DefaultConfig returns α=0.1, γ=0.9, ε=0.2 over the full action set.
func DefaultConfig() Config {
	return Config{
		Alpha:   0.1,
		Gamma:   0.9,
		Epsilon: 0.2,
		Actions: append([]Action(nil), Actions...),
	}
}

// Validate rejects parameters the update rule cannot run with.
func (c Config) Validate() error {
	for _, p := range []struct {
		name string
		v    float64
	}{{"alpha", c.Alpha}, {"gamma", c.Gamma}, {"epsilon", c.Epsilon}} {
		if math.IsNaN(p.v) || p.v < 0 || p.v > 1 {
			return fmt.Errorf("%w: %s=%v outside [0,1]", ErrInvalidConfig, p.name, p.v)
		}
	}
	if c.MaxAttemptBucket < 0 {
		return fmt.Errorf("%w: max attempt bucket %d is negative", ErrInvalidConfig, c.MaxAttemptBucket)
	}
	if len(c.Actions) == 0 {
		return fmt.Errorf("%w: empty action set", ErrInvalidConfig)
	}
	seen := make(map[Action]bool, len(c.Actions))
	for _, a := range c.Actions {
		if parsed, err := ParseAction(string(a)); err != nil || parsed != a || seen[a] {
			return fmt.Errorf("%w: action %q unknown or repeated", ErrInvalidConfig, a)
		}
		seen[a] = true
	}
	return nil
}
