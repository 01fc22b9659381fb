package core

import "fmt"

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Grid owns the 2-D cell array plus one boundary strategy and one neighborhood
// strategy, and resolves neighbor queries by composing the two. Storage is
// row-major. For the Growable boundary the backing array may grow in any
// direction; rowMin/colMin track the logical coordinate of the first stored
// cell so externally visible coordinates stay stable as the array grows.
type Grid struct {
	rows, cols     int
	rowMin, colMin int
	cells          []*Cell
	defaultState   State
	boundary       Boundary
	neighborhood   Neighborhood
}

// NewGrid allocates a rows x cols grid with every cell initialized to def.
// Nil strategies default to Bounded and Moore.
func NewGrid(rows, cols int, def State, b Boundary, n Neighborhood) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("core: %dx%d: %w", rows, cols, ErrEmptyGrid)
	}
	if b == nil {
		b = Bounded{}
	}
	if n == nil {
		n = Moore{}
	}
	g := &Grid{
		rows:         rows,
		cols:         cols,
		cells:        make([]*Cell, rows*cols),
		defaultState: def,
		boundary:     b,
		neighborhood: n,
	}
	for i := range g.cells {
		g.cells[i] = NewCell(def)
	}
	return g, nil
}

// Rows returns the stored row count.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the stored column count.
func (g *Grid) Cols() int { return g.cols }

// Area returns the number of stored cells.
func (g *Grid) Area() int { return g.rows * g.cols }

// RowMin returns the smallest stored logical row (0 until growable expansion).
func (g *Grid) RowMin() int { return g.rowMin }

// ColMin returns the smallest stored logical column.
func (g *Grid) ColMin() int { return g.colMin }

// DefaultState returns the state used to fill newly materialized cells.
func (g *Grid) DefaultState() State { return g.defaultState }

// InBounds reports whether the logical coordinate lies inside current storage,
// independent of boundary policy.
func (g *Grid) InBounds(row, col int) bool {
	return row >= g.rowMin && row < g.rowMin+g.rows &&
		col >= g.colMin && col < g.colMin+g.cols
}

// Index maps an in-storage logical coordinate to a row-major backing index.
// Indices remain valid until the next Expand.
func (g *Grid) Index(row, col int) int {
	return (row-g.rowMin)*g.cols + (col - g.colMin)
}

// Coord is the inverse of Index.
func (g *Grid) Coord(i int) (row, col int) {
	return g.rowMin + i/g.cols, g.colMin + i%g.cols
}

// Cell resolves the coordinate through the active boundary strategy and
// returns the cell there. A coordinate the strategy declares invalid yields
// ErrOutOfBounds; it is never silently clamped.
func (g *Grid) Cell(row, col int) (*Cell, error) {
	r, c, ok := g.boundary.Resolve(g, row, col)
	if !ok {
		return nil, fmt.Errorf("core: cell (%d,%d): %w", row, col, ErrOutOfBounds)
	}
	return g.cells[g.Index(r, c)], nil
}

// MustCell is Cell for coordinates known to resolve; it panics otherwise.
func (g *Grid) MustCell(row, col int) *Cell {
	cell, err := g.Cell(row, col)
	if err != nil {
		panic(err)
	}
	return cell
}

// Neighbors applies the neighborhood offsets around the center, resolves each
// through the boundary strategy, drops unresolved candidates, and preserves
// the neighborhood's stable order.
func (g *Grid) Neighbors(row, col int) []*Cell {
	offs := g.neighborhood.Offsets()
	out := make([]*Cell, 0, len(offs))
	for _, d := range offs {
		if r, c, ok := g.boundary.Resolve(g, row+d[0], col+d[1]); ok {
			out = append(out, g.cells[g.Index(r, c)])
		}
	}
	return out
}

// NeighborCoords is Neighbors but yields the resolved canonical coordinates,
// for rules that relocate entities between cells.
func (g *Grid) NeighborCoords(row, col int) [][2]int {
	offs := g.neighborhood.Offsets()
	out := make([][2]int, 0, len(offs))
	for _, d := range offs {
		if r, c, ok := g.boundary.Resolve(g, row+d[0], col+d[1]); ok {
			out = append(out, [2]int{r, c})
		}
	}
	return out
}

// ForEach visits every stored cell in row-major logical order. The bounds are
// captured at scan start, so a callback that triggers growable expansion
// neither revisits nor skips cells: coordinates materialized mid-scan wait for
// the next scan.
func (g *Grid) ForEach(fn func(row, col int, cell *Cell)) {
	rows, cols := g.rows, g.cols
	rowMin, colMin := g.rowMin, g.colMin
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			row, col := rowMin+r, colMin+c
			fn(row, col, g.cells[g.Index(row, col)])
		}
	}
}

// CommitAll promotes every cell's staged state. Invoked once per tick by the
// simulation driver.
func (g *Grid) CommitAll() {
	for _, cell := range g.cells {
		cell.Commit()
	}
}

// ResetAll reinitializes every cell to one state.
func (g *Grid) ResetAll(s State) {
	for _, cell := range g.cells {
		cell.ResetTo(s)
	}
}

// SetCellAt replaces the stored cell object wholesale at a resolved
// coordinate. Used when a rule set substitutes a cell variant carrying extra
// payload.
func (g *Grid) SetCellAt(row, col int, cell *Cell) error {
	if cell == nil {
		return fmt.Errorf("core: cell (%d,%d): %w", row, col, ErrOutOfBounds)
	}
	r, c, ok := g.boundary.Resolve(g, row, col)
	if !ok {
		return fmt.Errorf("core: cell (%d,%d): %w", row, col, ErrOutOfBounds)
	}
	g.cells[g.Index(r, c)] = cell
	return nil
}

// Boundary returns the active boundary strategy.
func (g *Grid) Boundary() Boundary { return g.boundary }

// SetBoundary swaps the boundary strategy at runtime.
func (g *Grid) SetBoundary(b Boundary) {
	if b != nil {
		g.boundary = b
	}
}

// Neighborhood returns the active neighborhood strategy.
func (g *Grid) Neighborhood() Neighborhood { return g.neighborhood }

// SetNeighborhood swaps the neighborhood strategy at runtime.
func (g *Grid) SetNeighborhood(n Neighborhood) {
	if n != nil {
		g.neighborhood = n
	}
}

// Expand grows backing storage to cover the requested logical bounding box,
// preserving existing cells at their coordinates and filling new coordinates
// with the default state. The grid never shrinks: bounds already covered are
// kept.
func (g *Grid) Expand(rowMin, rowMax, colMin, colMax int) {
	newRowMin := min(g.rowMin, rowMin)
	newRowMax := max(g.rowMin+g.rows-1, rowMax)
	newColMin := min(g.colMin, colMin)
	newColMax := max(g.colMin+g.cols-1, colMax)

	newRows := newRowMax - newRowMin + 1
	newCols := newColMax - newColMin + 1
	if newRows == g.rows && newCols == g.cols {
		return
	}

	cells := make([]*Cell, newRows*newCols)
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			nr := g.rowMin + r - newRowMin
			nc := g.colMin + c - newColMin
			cells[nr*newCols+nc] = g.cells[r*g.cols+c]
		}
	}
	for i, cell := range cells {
		if cell == nil {
			cells[i] = NewCell(g.defaultState)
		}
	}

	g.rows, g.cols = newRows, newCols
	g.rowMin, g.colMin = newRowMin, newColMin
	g.cells = cells
}
