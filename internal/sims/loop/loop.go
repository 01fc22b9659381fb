// Package loop implements a table-driven von Neumann automaton of the kind
// used for self-replicating loops. The transition table maps a cell and its
// four orthogonal neighbors to a successor state; lookup is invariant under
// rotation, so each table entry covers all four orientations. Configurations
// missing from the table keep their state, which makes partial tables safe.
package loop

import (
	"image/color"
	"strconv"

	"github.com/alanazinkin/CellularAutomata-sub000/internal/core"
)

// The state space holds eight states so externally injected tables (Langton's
// loop rules and friends) fit. The built-in table only uses the first four.
const (
	Empty core.State = 0
	Wire  core.State = 1
	Head  core.State = 2
	Tail  core.State = 3
)

var model = core.MustStateModel(
	core.StateDef{State: Empty, Ordinal: 0, Key: "S0", Color: color.RGBA{R: 20, G: 20, B: 25, A: 255}},
	core.StateDef{State: Wire, Ordinal: 1, Key: "S1", Color: color.RGBA{R: 90, G: 110, B: 130, A: 255}},
	core.StateDef{State: Head, Ordinal: 2, Key: "S2", Color: color.RGBA{R: 80, G: 170, B: 255, A: 255}},
	core.StateDef{State: Tail, Ordinal: 3, Key: "S3", Color: color.RGBA{R: 230, G: 120, B: 60, A: 255}},
	core.StateDef{State: 4, Ordinal: 4, Key: "S4", Color: color.RGBA{R: 200, G: 60, B: 60, A: 255}},
	core.StateDef{State: 5, Ordinal: 5, Key: "S5", Color: color.RGBA{R: 120, G: 200, B: 80, A: 255}},
	core.StateDef{State: 6, Ordinal: 6, Key: "S6", Color: color.RGBA{R: 230, G: 220, B: 90, A: 255}},
	core.StateDef{State: 7, Ordinal: 7, Key: "S7", Color: color.RGBA{R: 230, G: 230, B: 230, A: 255}},
)

// Model returns the state model shared by all loop simulations.
func Model() *core.StateModel { return model }

// Key indexes a transition: the cell's own state followed by the states of
// its north, east, south and west neighbors.
type Key [5]core.State

// Table maps neighborhood configurations to successor states. A configuration
// absent under all four rotations leaves the cell unchanged.
type Table map[Key]core.State

// rotate turns the neighborhood a quarter turn clockwise: what was west is
// now seen to the north.
func rotate(k Key) Key {
	return Key{k[0], k[4], k[1], k[2], k[3]}
}

// Lookup resolves a configuration under rotational symmetry.
func (tb Table) Lookup(k Key) (core.State, bool) {
	for i := 0; i < 4; i++ {
		if next, ok := tb[k]; ok {
			return next, ok
		}
		k = rotate(k)
	}
	return 0, false
}

// DefaultTable builds the built-in signal-circulation table: heads decay to
// tails, tails cool back to wire, and wire ignites when one or two heads are
// adjacent. With that ignition cap, signals travel along wire paths without
// flooding junctions.
func DefaultTable() Table {
	tb := make(Table)
	var neighbors [4]core.State
	var fill func(depth int, heads int)
	fill = func(depth, heads int) {
		if depth == 4 {
			k := Key{0, neighbors[0], neighbors[1], neighbors[2], neighbors[3]}
			k[0] = Head
			tb[k] = Tail
			k[0] = Tail
			tb[k] = Wire
			if heads == 1 || heads == 2 {
				k[0] = Wire
				tb[k] = Head
			}
			return
		}
		for s := Empty; s <= Tail; s++ {
			neighbors[depth] = s
			h := heads
			if s == Head {
				h++
			}
			fill(depth+1, h)
		}
	}
	fill(0, 0)
	return tb
}

// Rule applies a transition table over the four cardinal neighbors.
type Rule struct {
	table Table
}

// Name returns the simulation identifier.
func (r *Rule) Name() string { return "loop" }

// Compute stages one synchronous table application. Neighbors that resolve
// outside the lattice read as the quiescent state.
func (r *Rule) Compute(t *core.Tick) {
	g := t.Grid
	g.ForEach(func(row, col int, cell *core.Cell) {
		k := Key{
			cell.Current(),
			r.neighborState(g, row-1, col),
			r.neighborState(g, row, col+1),
			r.neighborState(g, row+1, col),
			r.neighborState(g, row, col-1),
		}
		if next, ok := r.table.Lookup(k); ok {
			cell.SetNext(next)
		}
	})
}

func (r *Rule) neighborState(g *core.Grid, row, col int) core.State {
	cr, cc, ok := g.Boundary().Resolve(g, row, col)
	if !ok {
		return Empty
	}
	return g.MustCell(cr, cc).Current()
}

// New builds a loop simulation with the built-in table over a bounded
// orthogonal grid.
func New(rows, cols int, initial []int, params core.Params, opts ...core.Option) (*core.Simulation, error) {
	return NewWithTable(rows, cols, initial, DefaultTable(), opts...)
}

// NewWithTable builds a loop simulation around an injected transition table.
func NewWithTable(rows, cols int, initial []int, table Table, opts ...core.Option) (*core.Simulation, error) {
	g, err := core.NewGrid(rows, cols, Empty, core.Bounded{}, core.VonNeumann{})
	if err != nil {
		return nil, err
	}
	return core.NewSimulation(&Rule{table: table}, model, g, initial, opts...)
}

// Config holds the flag-style settings used by the registry factory.
type Config struct {
	Rows int
	Cols int
	Ring int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Rows: 64, Cols: 64, Ring: 10}
}

// FromMap populates the config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Cols = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Rows = parsed
		}
	}
	if v, ok := cfg["ring"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 3 {
			c.Ring = parsed
		}
	}
	return c
}

// Seeded builds a simulation whose initial pattern is a square wire ring with
// one signal (head followed by tail) circulating on it.
func Seeded(c Config) (*core.Simulation, error) {
	if c.Ring < 3 || c.Ring > c.Rows || c.Ring > c.Cols {
		c.Ring = 3
	}
	top := (c.Rows - c.Ring) / 2
	left := (c.Cols - c.Ring) / 2
	initial := make([]int, c.Rows*c.Cols)
	set := func(row, col, v int) { initial[row*c.Cols+col] = v }
	for i := 0; i < c.Ring; i++ {
		set(top, left+i, int(Wire))
		set(top+c.Ring-1, left+i, int(Wire))
		set(top+i, left, int(Wire))
		set(top+i, left+c.Ring-1, int(Wire))
	}
	set(top, left+1, int(Head))
	set(top, left, int(Tail))
	return New(c.Rows, c.Cols, initial, nil)
}

func init() {
	core.Register("loop", func(cfg map[string]string) (*core.Simulation, error) {
		return Seeded(FromMap(cfg))
	})
}
