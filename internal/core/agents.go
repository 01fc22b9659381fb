package core

import (
	"fmt"
	"sort"
)

// AgentID identifies a logical entity independent of its position. Identity is
// conserved across relocation: after a move, the destination holds the same
// agent, not a new one.
type AgentID int

// Agent is an arena entry: a stable identity plus rule-defined payload
// (energy, vision, breeding timers).
type Agent struct {
	id      AgentID
	Payload any
}

// ID returns the agent's stable identity.
func (a *Agent) ID() AgentID { return a.id }

// Agents is the arena+index table for rule sets whose entities relocate
// between cells: agents are keyed by grid cell index and updated
// transactionally alongside the cells' staged states. A cell holds at most
// one agent.
type Agents struct {
	byCell map[int]*Agent
	nextID AgentID
}

// NewAgents returns an empty arena.
func NewAgents() *Agents {
	return &Agents{byCell: make(map[int]*Agent)}
}

// Len returns the number of live agents.
func (t *Agents) Len() int { return len(t.byCell) }

// At returns the agent occupying the cell, if any.
func (t *Agents) At(cell int) (*Agent, bool) {
	a, ok := t.byCell[cell]
	return a, ok
}

// Spawn creates a new agent at the cell.
func (t *Agents) Spawn(cell int, payload any) (*Agent, error) {
	if _, ok := t.byCell[cell]; ok {
		return nil, fmt.Errorf("core: spawn at %d: %w", cell, ErrCellOccupied)
	}
	t.nextID++
	a := &Agent{id: t.nextID, Payload: payload}
	t.byCell[cell] = a
	return a, nil
}

// Move relocates the agent at src to dst. It fails without side effects when
// src is empty or dst occupied; src == dst is a no-op.
func (t *Agents) Move(src, dst int) error {
	a, ok := t.byCell[src]
	if !ok {
		return fmt.Errorf("core: move from %d: %w", src, ErrNoAgent)
	}
	if src == dst {
		return nil
	}
	if _, ok := t.byCell[dst]; ok {
		return fmt.Errorf("core: move %d->%d: %w", src, dst, ErrCellOccupied)
	}
	delete(t.byCell, src)
	t.byCell[dst] = a
	return nil
}

// Remove deletes and returns the agent at the cell.
func (t *Agents) Remove(cell int) (*Agent, error) {
	a, ok := t.byCell[cell]
	if !ok {
		return nil, fmt.Errorf("core: remove at %d: %w", cell, ErrNoAgent)
	}
	delete(t.byCell, cell)
	return a, nil
}

// Clear removes all agents and resets identity allocation.
func (t *Agents) Clear() {
	t.byCell = make(map[int]*Agent)
	t.nextID = 0
}

// Cells lists occupied cell indices in ascending order, giving relocation
// rules a deterministic scan order.
func (t *Agents) Cells() []int {
	out := make([]int, 0, len(t.byCell))
	for c := range t.byCell {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

// Clone deep-copies the arena using copyPayload for each agent's payload,
// preserving identities. Used for single-level rollback snapshots.
func (t *Agents) Clone(copyPayload func(any) any) *Agents {
	c := &Agents{byCell: make(map[int]*Agent, len(t.byCell)), nextID: t.nextID}
	for cell, a := range t.byCell {
		p := a.Payload
		if copyPayload != nil {
			p = copyPayload(p)
		}
		c.byCell[cell] = &Agent{id: a.id, Payload: p}
	}
	return c
}

// ReplaceWith swaps this arena's contents for those of other. Used when a
// rollback snapshot is reinstated.
func (t *Agents) ReplaceWith(other *Agents) {
	t.byCell = other.byCell
	t.nextID = other.nextID
}
