package core

// Visited is the per-tick visitation guard for agent-relocation rules: a
// boolean lattice sized to the grid, marking coordinates already updated in
// the current tick. Relocation rules consult it before touching either the
// source or the destination of a move again, which is what gives "each living
// entity acts exactly once per tick" semantics. A Visited is owned exclusively
// by the Step invocation that created it and is discarded at tick end.
type Visited struct {
	rows, cols     int
	rowMin, colMin int
	marks          []bool
}

func newVisited(g *Grid) *Visited {
	return &Visited{
		rows:   g.Rows(),
		cols:   g.Cols(),
		rowMin: g.RowMin(),
		colMin: g.ColMin(),
		marks:  make([]bool, g.Area()),
	}
}

func (v *Visited) index(row, col int) (int, bool) {
	r, c := row-v.rowMin, col-v.colMin
	if r < 0 || r >= v.rows || c < 0 || c >= v.cols {
		return 0, false
	}
	return r*v.cols + c, true
}

// Mark records the coordinate as updated this tick. Coordinates outside the
// lattice at tick start are ignored.
func (v *Visited) Mark(row, col int) {
	if i, ok := v.index(row, col); ok {
		v.marks[i] = true
	}
}

// Seen reports whether the coordinate was already updated this tick.
func (v *Visited) Seen(row, col int) bool {
	i, ok := v.index(row, col)
	return ok && v.marks[i]
}
