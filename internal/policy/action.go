package policy

import "fmt"

// Action is a hint-pacing choice the policy can take on a guess turn.
type Action string

const (
	NoOp           Action = "no_op"
	RevealSynonyms Action = "reveal_synonyms"
	RevealExample  Action = "reveal_example"
)

// Actions is the closed action set in its fixed order.
// The order doubles as the greedy tie-break: the earliest action wins.
var Actions = []Action{NoOp, RevealSynonyms, RevealExample}

// legacyNames maps the action names used by older q_table.json files.
var legacyNames = map[string]Action{
	"do_nothing":   NoOp,
	"show_synonym": RevealSynonyms,
	"show_example": RevealExample,
}

// ParseAction resolves a serialized action name.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case NoOp, RevealSynonyms, RevealExample:
		return a, nil
	}
	if a, ok := legacyNames[s]; ok {
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

func (a Action) String() string { return string(a) }
