// Package wator implements the Wa-Tor predator-prey model on a toroidal
// ocean. Fish and sharks are logical entities tracked in an agent arena so
// their identity, breeding timers and energy survive relocation; the per-tick
// visitation guard guarantees each creature acts exactly once per chronon.
package wator

import (
	"image/color"
	"strconv"

	"github.com/alanazinkin/CellularAutomata-sub000/internal/core"
)

// Cell states.
const (
	Water core.State = 0
	Fish  core.State = 1
	Shark core.State = 2
)

var model = core.MustStateModel(
	core.StateDef{State: Water, Ordinal: 0, Key: "WATER", Color: color.RGBA{R: 69, G: 145, B: 196, A: 255}},
	core.StateDef{State: Fish, Ordinal: 1, Key: "FISH", Color: color.RGBA{R: 255, G: 230, B: 120, A: 255}},
	core.StateDef{State: Shark, Ordinal: 2, Key: "SHARK", Color: color.RGBA{R: 255, G: 50, B: 50, A: 255}},
)

// Model returns the state model shared by all wator simulations.
func Model() *core.StateModel { return model }

type critter struct {
	kind   core.State
	breed  int
	energy int
}

func copyCritter(p any) any {
	cp := *p.(*critter)
	return &cp
}

// must asserts arena bookkeeping that the guard and the occupancy checks make
// unreachable; a failure means corrupted movement logic, not a runtime
// condition.
func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Rule holds the population tunables and the agent arena.
type Rule struct {
	fishBreed     int
	sharkBreed    int
	sharkEnergy   int
	energyPerFish int
	agents        *core.Agents
}

// Name returns the simulation identifier.
func (r *Rule) Name() string { return "wator" }

// Agents exposes the arena, read-only by convention.
func (r *Rule) Agents() *core.Agents { return r.agents }

// Compute runs one chronon. Sharks act before fish so predation works against
// committed positions; the arena snapshot fixes the action order and the guard
// skips creatures that were eaten or already acted.
func (r *Rule) Compute(t *core.Tick) {
	cells := r.agents.Cells()

	for _, idx := range cells {
		a, ok := r.agents.At(idx)
		if !ok || a.Payload.(*critter).kind != Shark {
			continue
		}
		r.actShark(t, idx, a)
	}
	for _, idx := range cells {
		a, ok := r.agents.At(idx)
		if !ok || a.Payload.(*critter).kind != Fish {
			continue
		}
		row, col := t.Grid.Coord(idx)
		if t.Visited.Seen(row, col) {
			continue
		}
		r.actFish(t, idx, a)
	}
}

func (r *Rule) actShark(t *core.Tick, idx int, a *core.Agent) {
	g := t.Grid
	row, col := g.Coord(idx)
	if t.Visited.Seen(row, col) {
		return
	}
	c := a.Payload.(*critter)
	c.energy--
	c.breed++

	if c.energy <= 0 {
		_, err := r.agents.Remove(idx)
		must(err)
		g.MustCell(row, col).SetNext(Water)
		t.Visited.Mark(row, col)
		return
	}

	// Prefer a fish, otherwise free water.
	prey := r.pickNeighbor(t, row, col, Fish)
	dst := prey
	if dst == nil {
		dst = r.pickNeighbor(t, row, col, Water)
	}
	if dst == nil {
		g.MustCell(row, col).SetNext(Shark)
		t.Visited.Mark(row, col)
		return
	}

	dstIdx := g.Index(dst[0], dst[1])
	if prey != nil {
		_, err := r.agents.Remove(dstIdx)
		must(err)
		c.energy += r.energyPerFish
	}
	must(r.agents.Move(idx, dstIdx))
	g.MustCell(dst[0], dst[1]).SetNext(Shark)
	t.Visited.Mark(dst[0], dst[1])

	if c.breed >= r.sharkBreed {
		c.breed = 0
		_, err := r.agents.Spawn(idx, &critter{kind: Shark, energy: r.sharkEnergy})
		must(err)
		g.MustCell(row, col).SetNext(Shark)
	} else {
		g.MustCell(row, col).SetNext(Water)
	}
	t.Visited.Mark(row, col)
}

func (r *Rule) actFish(t *core.Tick, idx int, a *core.Agent) {
	g := t.Grid
	row, col := g.Coord(idx)
	c := a.Payload.(*critter)
	c.breed++

	dst := r.pickNeighbor(t, row, col, Water)
	if dst == nil {
		g.MustCell(row, col).SetNext(Fish)
		t.Visited.Mark(row, col)
		return
	}

	dstIdx := g.Index(dst[0], dst[1])
	must(r.agents.Move(idx, dstIdx))
	g.MustCell(dst[0], dst[1]).SetNext(Fish)
	t.Visited.Mark(dst[0], dst[1])

	if c.breed >= r.fishBreed {
		c.breed = 0
		_, err := r.agents.Spawn(idx, &critter{kind: Fish})
		must(err)
		g.MustCell(row, col).SetNext(Fish)
	} else {
		g.MustCell(row, col).SetNext(Water)
	}
	t.Visited.Mark(row, col)
}

// pickNeighbor returns a random unvisited neighbor whose committed state is
// want and whose cell holds no agent that already moved there, or nil.
func (r *Rule) pickNeighbor(t *core.Tick, row, col int, want core.State) *[2]int {
	g := t.Grid
	var candidates [][2]int
	for _, rc := range g.NeighborCoords(row, col) {
		if t.Visited.Seen(rc[0], rc[1]) {
			continue
		}
		if g.MustCell(rc[0], rc[1]).Current() != want {
			continue
		}
		if want == Water {
			if _, occupied := r.agents.At(g.Index(rc[0], rc[1])); occupied {
				continue
			}
		}
		candidates = append(candidates, rc)
	}
	if len(candidates) == 0 {
		return nil
	}
	pick := candidates[t.RNG.IntN(len(candidates))]
	return &pick
}

// Snapshot captures the arena for single-level rollback.
func (r *Rule) Snapshot() any { return r.agents.Clone(copyCritter) }

// Restore reinstates an arena snapshot.
func (r *Rule) Restore(snap any) { r.agents.ReplaceWith(snap.(*core.Agents)) }

// Reinit rebuilds the arena from the grid's committed states with fresh
// counters.
func (r *Rule) Reinit(g *core.Grid) {
	r.agents = core.NewAgents()
	g.ForEach(func(row, col int, cell *core.Cell) {
		switch cell.Current() {
		case Fish:
			_, err := r.agents.Spawn(g.Index(row, col), &critter{kind: Fish})
			must(err)
		case Shark:
			_, err := r.agents.Spawn(g.Index(row, col), &critter{kind: Shark, energy: r.sharkEnergy})
			must(err)
		}
	})
}

// New builds a wator simulation over a toroidal orthogonal grid. Optional
// parameters: fish_breed, shark_breed, shark_energy, energy_per_fish.
func New(rows, cols int, initial []int, params core.Params, opts ...core.Option) (*core.Simulation, error) {
	r := &Rule{
		fishBreed:     params.IntDefault("fish_breed", 3),
		sharkBreed:    params.IntDefault("shark_breed", 8),
		sharkEnergy:   params.IntDefault("shark_energy", 5),
		energyPerFish: params.IntDefault("energy_per_fish", 2),
	}
	g, err := core.NewGrid(rows, cols, Water, core.Wrapped{}, core.VonNeumann{})
	if err != nil {
		return nil, err
	}
	return core.NewSimulation(r, model, g, initial, opts...)
}

// Config holds the flag-style settings used by the registry factory.
type Config struct {
	Rows        int
	Cols        int
	Seed        int64
	FishChance  float64
	SharkChance float64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Rows: 200, Cols: 200, Seed: 42, FishChance: 0.2, SharkChance: 0.05}
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
	if v, ok := cfg["fish_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.FishChance = parsed
		}
	}
	if v, ok := cfg["shark_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.SharkChance = parsed
		}
	}
	return c
}

// Random builds a simulation with a randomly seeded ocean.
func Random(c Config) (*core.Simulation, error) {
	rng := core.NewRNG(c.Seed)
	initial := make([]int, c.Rows*c.Cols)
	for i := range initial {
		roll := rng.Float64()
		switch {
		case roll < c.SharkChance:
			initial[i] = 2
		case roll < c.SharkChance+c.FishChance:
			initial[i] = 1
		}
	}
	return New(c.Rows, c.Cols, initial, nil, core.WithSeed(c.Seed))
}

func init() {
	core.Register("wator", func(cfg map[string]string) (*core.Simulation, error) {
		return Random(FromMap(cfg))
	})
}
