package policy

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Table maps each visited state to a value estimate per action.
type Table map[State]map[Action]float64

// NewTable returns an empty table.
func NewTable() Table { return make(Table) }

// ensure creates the row for s (and any missing action cells) at zero.
func (t Table) ensure(s State, actions []Action) map[Action]float64 {
	row, ok := t[s]
	if !ok {
		row = make(map[Action]float64, len(actions))
		t[s] = row
	}
	for _, a := range actions {
		if _, ok := row[a]; !ok {
			row[a] = 0
		}
	}
	return row
}

// values returns the row's estimates laid out in action order.
func (t Table) values(s State, actions []Action) []float64 {
	row := t.ensure(s, actions)
	vals := make([]float64, len(actions))
	for i, a := range actions {
		vals[i] = row[a]
	}
	return vals
}

// best returns the first action holding the maximum estimate, and that estimate.
func (t Table) best(s State, actions []Action) (Action, float64) {
	vals := t.values(s, actions)
	i := floats.MaxIdx(vals)
	return actions[i], vals[i]
}

// Clone returns a deep copy.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for s, row := range t {
		cp := make(map[Action]float64, len(row))
		for a, v := range row {
			cp[a] = v
		}
		out[s] = cp
	}
	return out
}

// States returns the visited states sorted by attempts, then hint count.
func (t Table) States() []State {
	out := make([]State, 0, len(t))
	for s := range t {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		ai, hi, erri := ParseState(string(out[i]))
		aj, hj, errj := ParseState(string(out[j]))
		if erri != nil || errj != nil {
			return out[i] < out[j]
		}
		if ai != aj {
			return ai < aj
		}
		return hi < hj
	})
	return out
}
