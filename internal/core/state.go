package core

import (
	"fmt"
	"image/color"
)

// State is an opaque symbolic cell value. Each rule set defines its own closed
// enumeration; states from unrelated rule sets are never comparable.
type State int

// StateNone marks the absence of a state. Staging it on a cell is a
// programmer error.
const StateNone State = -1

// StateDef describes one member of a rule set's state enumeration: the state
// value itself, the small integer used in serialized initial-state arrays, the
// stable display key consumed by renderers, and a palette color.
type StateDef struct {
	State   State
	Ordinal int
	Key     string
	Color   color.RGBA
}

// StateModel owns the closed state set of one simulation: a total bijection
// between serialization ordinals and states plus the display-key mapping.
// It is immutable once built.
type StateModel struct {
	defs      []StateDef
	byOrdinal map[int]State
	ordinals  map[State]int
	keys      map[State]string
	colors    map[State]color.RGBA
}

// NewStateModel builds a model from the given definitions. Duplicate states,
// ordinals or keys are rejected, as are negative ordinals and StateNone.
func NewStateModel(defs ...StateDef) (*StateModel, error) {
	m := &StateModel{
		defs:      append([]StateDef(nil), defs...),
		byOrdinal: make(map[int]State, len(defs)),
		ordinals:  make(map[State]int, len(defs)),
		keys:      make(map[State]string, len(defs)),
		colors:    make(map[State]color.RGBA, len(defs)),
	}
	seenKeys := make(map[string]bool, len(defs))
	for _, d := range defs {
		if d.State == StateNone || d.Ordinal < 0 || d.Key == "" {
			return nil, fmt.Errorf("core: state %d ordinal %d key %q: %w", d.State, d.Ordinal, d.Key, ErrDuplicateState)
		}
		if _, ok := m.byOrdinal[d.Ordinal]; ok {
			return nil, fmt.Errorf("core: ordinal %d: %w", d.Ordinal, ErrDuplicateState)
		}
		if _, ok := m.ordinals[d.State]; ok {
			return nil, fmt.Errorf("core: state %d: %w", d.State, ErrDuplicateState)
		}
		if seenKeys[d.Key] {
			return nil, fmt.Errorf("core: key %q: %w", d.Key, ErrDuplicateState)
		}
		seenKeys[d.Key] = true
		m.byOrdinal[d.Ordinal] = d.State
		m.ordinals[d.State] = d.Ordinal
		m.keys[d.State] = d.Key
		m.colors[d.State] = d.Color
	}
	return m, nil
}

// MustStateModel is NewStateModel for static definition tables; it panics on a
// defective table.
func MustStateModel(defs ...StateDef) *StateModel {
	m, err := NewStateModel(defs...)
	if err != nil {
		panic(err)
	}
	return m
}

// FromOrdinal maps a serialization integer to its state.
func (m *StateModel) FromOrdinal(n int) (State, bool) {
	s, ok := m.byOrdinal[n]
	return s, ok
}

// Ordinal maps a state back to its serialization integer.
func (m *StateModel) Ordinal(s State) (int, bool) {
	n, ok := m.ordinals[s]
	return n, ok
}

// Key returns the stable display key for a state, or "" for an unknown state.
func (m *StateModel) Key(s State) string { return m.keys[s] }

// States lists the states in definition order.
func (m *StateModel) States() []State {
	out := make([]State, len(m.defs))
	for i, d := range m.defs {
		out[i] = d.State
	}
	return out
}

// Palette returns a dense color table indexed by ordinal, for renderers that
// blit display buffers directly.
func (m *StateModel) Palette() []color.RGBA {
	max := 0
	for _, d := range m.defs {
		if d.Ordinal > max {
			max = d.Ordinal
		}
	}
	palette := make([]color.RGBA, max+1)
	for _, d := range m.defs {
		palette[d.Ordinal] = d.Color
	}
	return palette
}
