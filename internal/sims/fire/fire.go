// Package fire implements probabilistic fire spread: a tree next to a burning
// cell ignites with probability ignite_prob, burns for burn_ticks ticks, then
// turns to burnt ground. Burnt and empty ground may regrow with probability
// regrow_prob.
package fire

import (
	"image/color"
	"strconv"

	"github.com/alanazinkin/CellularAutomata-sub000/internal/core"
)

// Cell states.
const (
	Empty   core.State = 0
	Tree    core.State = 1
	Burning core.State = 2
	Burnt   core.State = 3
)

var model = core.MustStateModel(
	core.StateDef{State: Empty, Ordinal: 0, Key: "EMPTY", Color: color.RGBA{R: 230, G: 220, B: 180, A: 255}},
	core.StateDef{State: Tree, Ordinal: 1, Key: "TREE", Color: color.RGBA{R: 40, G: 120, B: 50, A: 255}},
	core.StateDef{State: Burning, Ordinal: 2, Key: "BURNING", Color: color.RGBA{R: 240, G: 90, B: 30, A: 255}},
	core.StateDef{State: Burnt, Ordinal: 3, Key: "BURNT", Color: color.RGBA{R: 60, G: 50, B: 45, A: 255}},
)

// Model returns the state model shared by all fire simulations.
func Model() *core.StateModel { return model }

// Rule holds the spread tunables and the staged burn timers.
type Rule struct {
	ignite    float64
	regrow    float64
	burnTicks int
	ttl       *core.IntField
}

// Name returns the simulation identifier.
func (r *Rule) Name() string { return "fire" }

// Compute stages one tick of spread. The burn timer is auxiliary per-cell
// state and follows the same stage-then-commit discipline as the cell states.
func (r *Rule) Compute(t *core.Tick) {
	g := t.Grid
	g.ForEach(func(row, col int, cell *core.Cell) {
		idx := g.Index(row, col)
		switch cell.Current() {
		case Tree:
			r.ttl.Stage(idx, 0)
			for _, n := range g.Neighbors(row, col) {
				if n.Current() != Burning {
					continue
				}
				if t.RNG.Float64() < r.ignite {
					cell.SetNext(Burning)
					r.ttl.Stage(idx, r.burnTicks)
				}
				break
			}
		case Burning:
			left := r.ttl.Get(idx) - 1
			if left <= 0 {
				cell.SetNext(Burnt)
				r.ttl.Stage(idx, 0)
			} else {
				r.ttl.Stage(idx, left)
			}
		default: // Empty, Burnt
			r.ttl.Stage(idx, 0)
			if r.regrow > 0 && t.RNG.Float64() < r.regrow {
				cell.SetNext(Tree)
			}
		}
	})
	r.ttl.Commit()
}

// Snapshot captures the burn timers for single-level rollback.
func (r *Rule) Snapshot() any { return r.ttl.Snapshot() }

// Restore reinstates a burn-timer snapshot.
func (r *Rule) Restore(snap any) { r.ttl.Restore(snap.([]int)) }

// Reinit rebuilds the burn timers from the grid's committed states.
func (r *Rule) Reinit(g *core.Grid) {
	r.ttl = core.NewIntField(g.Area())
	g.ForEach(func(row, col int, cell *core.Cell) {
		if cell.Current() == Burning {
			r.ttl.SetCurrent(g.Index(row, col), r.burnTicks)
		}
	})
}

// New builds a fire simulation over a bounded orthogonal grid. Required
// parameter: ignite_prob in [0,1]. Optional: regrow_prob in [0,1] (default 0)
// and burn_ticks >= 1 (default 1).
func New(rows, cols int, initial []int, params core.Params, opts ...core.Option) (*core.Simulation, error) {
	ignite, err := params.Unit("ignite_prob")
	if err != nil {
		return nil, err
	}
	regrow, err := params.UnitDefault("regrow_prob", 0)
	if err != nil {
		return nil, err
	}
	burnTicks := params.IntDefault("burn_ticks", 1)
	if burnTicks < 1 {
		burnTicks = 1
	}
	r := &Rule{ignite: ignite, regrow: regrow, burnTicks: burnTicks}
	g, err := core.NewGrid(rows, cols, Empty, core.Bounded{}, core.VonNeumann{})
	if err != nil {
		return nil, err
	}
	return core.NewSimulation(r, model, g, initial, opts...)
}

// Config holds the flag-style settings used by the registry factory.
type Config struct {
	Rows       int
	Cols       int
	Seed       int64
	TreeChance float64
	Ignite     float64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Rows: 256, Cols: 256, Seed: 42, TreeChance: 0.8, Ignite: 0.6}
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
	if v, ok := cfg["tree_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.TreeChance = parsed
		}
	}
	if v, ok := cfg["ignite_prob"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Ignite = parsed
		}
	}
	return c
}

// Random builds a simulation with a random forest and a burning center cell.
func Random(c Config) (*core.Simulation, error) {
	rng := core.NewRNG(c.Seed)
	initial := make([]int, c.Rows*c.Cols)
	for i := range initial {
		if rng.Float64() < c.TreeChance {
			initial[i] = 1
		}
	}
	initial[(c.Rows/2)*c.Cols+c.Cols/2] = 2
	return New(c.Rows, c.Cols, initial, core.Params{"ignite_prob": c.Ignite}, core.WithSeed(c.Seed))
}

func init() {
	core.Register("fire", func(cfg map[string]string) (*core.Simulation, error) {
		return Random(FromMap(cfg))
	})
}
