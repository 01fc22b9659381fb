// Package segregation implements Schelling's relocation model: an agent whose
// like-neighbor fraction falls below its tolerance moves to a random vacant
// cell. The per-tick visitation guard keeps every agent to at most one move
// and every vacancy to at most one arrival.
package segregation

import (
	"image/color"
	"strconv"

	"github.com/alanazinkin/CellularAutomata-sub000/internal/core"
)

// Cell states.
const (
	Empty  core.State = 0
	GroupX core.State = 1
	GroupO core.State = 2
)

var model = core.MustStateModel(
	core.StateDef{State: Empty, Ordinal: 0, Key: "EMPTY", Color: color.RGBA{R: 245, G: 245, B: 245, A: 255}},
	core.StateDef{State: GroupX, Ordinal: 1, Key: "X", Color: color.RGBA{R: 200, G: 60, B: 60, A: 255}},
	core.StateDef{State: GroupO, Ordinal: 2, Key: "O", Color: color.RGBA{R: 60, G: 90, B: 200, A: 255}},
)

// Model returns the state model shared by all segregation simulations.
func Model() *core.StateModel { return model }

// Rule holds the satisfaction threshold.
type Rule struct {
	tolerance float64
}

// Name returns the simulation identifier.
func (r *Rule) Name() string { return "segregation" }

// Compute relocates every dissatisfied agent at most once. Vacancies are
// collected from committed state in scan order; a destination is consumed the
// moment it is claimed, and both ends of a move are marked in the guard so a
// later scan position cannot double-book them.
func (r *Rule) Compute(t *core.Tick) {
	g := t.Grid

	var vacant [][2]int
	g.ForEach(func(row, col int, cell *core.Cell) {
		if cell.Current() == Empty {
			vacant = append(vacant, [2]int{row, col})
		}
	})

	g.ForEach(func(row, col int, cell *core.Cell) {
		s := cell.Current()
		if s == Empty || t.Visited.Seen(row, col) {
			return
		}
		if r.satisfied(g, row, col, s) {
			return
		}

		// Draw vacancies at random until one that is still free this tick
		// turns up; claimed ones are compacted away.
		for len(vacant) > 0 {
			i := t.RNG.IntN(len(vacant))
			dst := vacant[i]
			vacant[i] = vacant[len(vacant)-1]
			vacant = vacant[:len(vacant)-1]
			if t.Visited.Seen(dst[0], dst[1]) {
				continue
			}
			g.MustCell(dst[0], dst[1]).SetNext(s)
			cell.SetNext(Empty)
			t.Visited.Mark(dst[0], dst[1])
			t.Visited.Mark(row, col)
			return
		}
	})
}

func (r *Rule) satisfied(g *core.Grid, row, col int, s core.State) bool {
	like, occupied := 0, 0
	for _, n := range g.Neighbors(row, col) {
		cur := n.Current()
		if cur == Empty {
			continue
		}
		occupied++
		if cur == s {
			like++
		}
	}
	if occupied == 0 {
		return true
	}
	return float64(like)/float64(occupied) >= r.tolerance
}

// New builds a segregation simulation over a bounded Moore grid. Required
// parameter: tolerance in [0,1].
func New(rows, cols int, initial []int, params core.Params, opts ...core.Option) (*core.Simulation, error) {
	tolerance, err := params.Unit("tolerance")
	if err != nil {
		return nil, err
	}
	r := &Rule{tolerance: tolerance}
	g, err := core.NewGrid(rows, cols, Empty, core.Bounded{}, core.Moore{})
	if err != nil {
		return nil, err
	}
	return core.NewSimulation(r, model, g, initial, opts...)
}

// Config holds the flag-style settings used by the registry factory.
type Config struct {
	Rows      int
	Cols      int
	Seed      int64
	Vacancy   float64
	Tolerance float64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Rows: 256, Cols: 256, Seed: 42, Vacancy: 0.1, Tolerance: 0.3}
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
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["vacancy"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Vacancy = parsed
		}
	}
	if v, ok := cfg["tolerance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Tolerance = parsed
		}
	}
	return c
}

// Random builds a simulation with groups assigned uniformly at random.
func Random(c Config) (*core.Simulation, error) {
	rng := core.NewRNG(c.Seed)
	initial := make([]int, c.Rows*c.Cols)
	for i := range initial {
		if rng.Float64() < c.Vacancy {
			continue
		}
		if rng.Bool() {
			initial[i] = 1
		} else {
			initial[i] = 2
		}
	}
	return New(c.Rows, c.Cols, initial, core.Params{"tolerance": c.Tolerance}, core.WithSeed(c.Seed))
}

func init() {
	core.Register("segregation", func(cfg map[string]string) (*core.Simulation, error) {
		return Random(FromMap(cfg))
	})
}
