// Package life implements the majority-vote family of automata: a cell
// survives when its live-neighbor count stays inside [survive_min,
// survive_max] and a dead cell is born at exactly the birth threshold. The
// defaults (2, 3, 3) are Conway's Game of Life.
package life

import (
	"image/color"
	"strconv"

	"github.com/alanazinkin/CellularAutomata-sub000/internal/core"
)

// Cell states.
const (
	Dead  core.State = 0
	Alive core.State = 1
)

var model = core.MustStateModel(
	core.StateDef{State: Dead, Ordinal: 0, Key: "DEAD", Color: color.RGBA{A: 255}},
	core.StateDef{State: Alive, Ordinal: 1, Key: "ALIVE", Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}},
)

// Model returns the state model shared by all life simulations.
func Model() *core.StateModel { return model }

// Rule holds the vote thresholds.
type Rule struct {
	surviveMin int
	surviveMax int
	birth      int
}

// Name returns the simulation identifier.
func (r *Rule) Name() string { return "life" }

// Compute stages one generation.
func (r *Rule) Compute(t *core.Tick) {
	g := t.Grid
	g.ForEach(func(row, col int, cell *core.Cell) {
		alive := 0
		for _, n := range g.Neighbors(row, col) {
			if n.Current() == Alive {
				alive++
			}
		}
		switch cell.Current() {
		case Alive:
			if alive < r.surviveMin || alive > r.surviveMax {
				cell.SetNext(Dead)
			}
		default:
			if alive == r.birth {
				cell.SetNext(Alive)
			}
		}
	})
}

// New builds a life simulation over a toroidal Moore grid. Recognized
// parameters: survive_min, survive_max, birth (all optional).
func New(rows, cols int, initial []int, params core.Params, opts ...core.Option) (*core.Simulation, error) {
	r := &Rule{
		surviveMin: params.IntDefault("survive_min", 2),
		surviveMax: params.IntDefault("survive_max", 3),
		birth:      params.IntDefault("birth", 3),
	}
	g, err := core.NewGrid(rows, cols, Dead, core.Wrapped{}, core.Moore{})
	if err != nil {
		return nil, err
	}
	return core.NewSimulation(r, model, g, initial, opts...)
}

// Config holds the flag-style settings used by the registry factory.
type Config struct {
	Rows int
	Cols int
	Seed int64
	Fill float64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Rows: 256, Cols: 256, Seed: 42, Fill: 0.5}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
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
	if v, ok := cfg["fill"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Fill = parsed
		}
	}
	return c
}

// Random builds a simulation with a randomized initial board.
func Random(c Config) (*core.Simulation, error) {
	rng := core.NewRNG(c.Seed)
	initial := make([]int, c.Rows*c.Cols)
	for i := range initial {
		if rng.Float64() < c.Fill {
			initial[i] = 1
		}
	}
	return New(c.Rows, c.Cols, initial, nil, core.WithSeed(c.Seed))
}

func init() {
	core.Register("life", func(cfg map[string]string) (*core.Simulation, error) {
		return Random(FromMap(cfg))
	})
}
