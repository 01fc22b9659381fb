package core

// Cell is the unit of double buffering: it holds the committed (current) state
// and the staged (next) state. Rule code reads Current and writes SetNext
// during the compute phase; Commit is invoked only by the grid driver, never
// by rule code, which preserves the simultaneous-update illusion.
type Cell struct {
	cur State
	nxt State
}

// NewCell returns a cell with both buffers set to s.
func NewCell(s State) *Cell {
	mustState(s)
	return &Cell{cur: s, nxt: s}
}

// Current returns the committed state.
func (c *Cell) Current() State { return c.cur }

// Next returns the staged state.
func (c *Cell) Next() State { return c.nxt }

// SetCurrent overwrites the committed state directly. Reserved for
// initialization and rollback; rule code must use SetNext.
func (c *Cell) SetCurrent(s State) {
	mustState(s)
	c.cur = s
}

// SetNext stages the state the cell will hold after the next commit.
func (c *Cell) SetNext(s State) {
	mustState(s)
	c.nxt = s
}

// Commit promotes the staged state. After Commit, ResetNext is a no-op.
func (c *Cell) Commit() { c.cur = c.nxt }

// ResetNext discards any staged value.
func (c *Cell) ResetNext() { c.nxt = c.cur }

// ResetTo sets both buffers to s.
func (c *Cell) ResetTo(s State) {
	mustState(s)
	c.cur = s
	c.nxt = s
}

func mustState(s State) {
	if s == StateNone {
		panic("core: cell state must not be StateNone")
	}
}
