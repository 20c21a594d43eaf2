package policy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Load reads the table held by store. A store with nothing in it, or an
// empty document, yields an empty table. A document that is present but not
// a state → action → number mapping yields *CorruptStateError.
func Load(ctx context.Context, store Store) (Table, error) {
	data, err := store.Read(ctx)
	if errors.Is(err, ErrNotFound) {
		return NewTable(), nil
	}
	if err != nil {
		return nil, err
	}
	return Decode(data, store.Name())
}

// Save writes t to store, replacing whatever it held.
func Save(ctx context.Context, store Store, t Table) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	return store.Write(ctx, data)
}

// Encode serializes t as a JSON object keyed by state, then action.
func Encode(t Table) ([]byte, error) {
	if t == nil {
		t = NewTable()
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("policy: encode table: %w", err)
	}
	return data, nil
}

// Decode parses a serialized table. source names the origin in errors.
func Decode(data []byte, source string) (Table, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return NewTable(), nil
	}

	var raw map[string]map[string]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &CorruptStateError{Store: source, Err: err}
	}

	t := make(Table, len(raw))
	for key, row := range raw {
		if _, _, err := ParseState(key); err != nil {
			return nil, &CorruptStateError{Store: source, Err: err}
		}
		if row == nil {
			return nil, &CorruptStateError{Store: source, Err: fmt.Errorf("state %q has no action values", key)}
		}
		out := make(map[Action]float64, len(row))
		for name, v := range row {
			a, err := ParseAction(name)
			if err != nil {
				return nil, &CorruptStateError{Store: source, Err: fmt.Errorf("state %q: %w", key, err)}
			}
			if _, dup := out[a]; dup {
				return nil, &CorruptStateError{Store: source, Err: fmt.Errorf("state %q: action %q given twice", key, a)}
			}
			if v == nil {
				return nil, &CorruptStateError{Store: source, Err: fmt.Errorf("state %q: action %q has no value", key, a)}
			}
			out[a] = *v
		}
		t[State(key)] = out
	}
	return t, nil
}

// Save persists the engine's current table.
func (e *Engine) Save(ctx context.Context, store Store) error {
	return Save(ctx, store, e.table)
}
