package core

import "fmt"

// Tick bundles everything a rule may touch during one compute phase: the grid
// (read Current, write SetNext), the per-tick visitation guard, and the
// simulation's seeded RNG. A Tick never outlives the Step that created it.
type Tick struct {
	Grid    *Grid
	Visited *Visited
	RNG     *RNG
}

// Rule is the pluggable transition function. Compute must read only committed
// cell state and write only staged state; the driver performs the global
// commit afterwards.
type Rule interface {
	Name() string
	Compute(t *Tick)
}

// Rewinder is implemented by rules carrying auxiliary per-cell state (timers,
// energy, agent registries) so single-level rollback rewinds their side
// channels together with the grid.
type Rewinder interface {
	Snapshot() any
	Restore(snap any)
}

// Reinitializer is implemented by rules that derive auxiliary state from the
// grid's committed states. It runs after construction and after Reset.
type Reinitializer interface {
	Reinit(g *Grid)
}

// Factory constructs a ready Simulation from flag-style string configuration.
type Factory func(cfg map[string]string) (*Simulation, error)

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// Simulation drives one rule set over one grid: it owns the tick lifecycle,
// the ordinal/display state model, population counters, the iteration counter,
// and a single-level undo slot.
type Simulation struct {
	grid      *Grid
	rule      Rule
	model     *StateModel
	counts    map[State]int
	iteration int
	rng       *RNG
	undo      *snapshot
}

type snapshot struct {
	rows, cols     int
	rowMin, colMin int
	states         []State
	counts         map[State]int
	aux            any
	hasAux         bool
}

// Option adjusts Simulation construction.
type Option func(*Simulation)

// WithSeed seeds the simulation's RNG, making probabilistic rules replayable.
func WithSeed(seed int64) Option {
	return func(s *Simulation) { s.rng = NewRNG(seed) }
}

// NewSimulation validates and assembles a simulation. The initial-state array
// is row-major with length exactly rows*cols, and every value must be an
// ordinal of the model; any failure is a construction error and no partially
// initialized Simulation escapes.
func NewSimulation(rule Rule, model *StateModel, grid *Grid, initial []int, opts ...Option) (*Simulation, error) {
	if rule == nil || model == nil || grid == nil {
		return nil, fmt.Errorf("core: simulation requires rule, model and grid: %w", ErrEmptyGrid)
	}
	states, err := decodeInitial(model, grid, initial)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		grid:  grid,
		rule:  rule,
		model: model,
		rng:   NewRNG(1),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.install(states)
	return s, nil
}

func decodeInitial(model *StateModel, grid *Grid, initial []int) ([]State, error) {
	if len(initial) != grid.Area() {
		return nil, fmt.Errorf("core: got %d values for %dx%d grid: %w",
			len(initial), grid.Rows(), grid.Cols(), ErrBadInitialLength)
	}
	states := make([]State, len(initial))
	for i, ord := range initial {
		st, ok := model.FromOrdinal(ord)
		if !ok {
			return nil, fmt.Errorf("core: initial[%d]=%d: %w", i, ord, ErrUnknownOrdinal)
		}
		states[i] = st
	}
	return states, nil
}

func (s *Simulation) install(states []State) {
	i := 0
	s.grid.ForEach(func(_, _ int, cell *Cell) {
		cell.ResetTo(states[i])
		i++
	})
	s.iteration = 0
	s.undo = nil
	if r, ok := s.rule.(Reinitializer); ok {
		r.Reinit(s.grid)
	}
	s.recount()
}

// Step advances the simulation by one tick: compute phase, global commit,
// population recount, iteration increment. The phases never interleave; no
// cell's staged state is read by another cell's compute step before the
// commit.
func (s *Simulation) Step() {
	s.undo = s.capture()
	t := &Tick{Grid: s.grid, Visited: newVisited(s.grid), RNG: s.rng}
	s.rule.Compute(t)
	s.grid.CommitAll()
	s.recount()
	s.iteration++
}

// RollbackOnce reverts the most recent commit and decrements the iteration
// counter. It reports false when there is nothing to undo: at iteration 0, or
// when the single history slot has already been consumed.
func (s *Simulation) RollbackOnce() bool {
	if s.undo == nil {
		return false
	}
	snap := s.undo
	s.undo = nil

	for i, st := range snap.states {
		row := snap.rowMin + i/snap.cols
		col := snap.colMin + i%snap.cols
		if s.grid.InBounds(row, col) {
			s.grid.cells[s.grid.Index(row, col)].ResetTo(st)
		}
	}
	// Cells materialized by growth since the snapshot fall back to default.
	s.grid.ForEach(func(row, col int, cell *Cell) {
		r, c := row-snap.rowMin, col-snap.colMin
		if r < 0 || r >= snap.rows || c < 0 || c >= snap.cols {
			cell.ResetTo(s.grid.DefaultState())
		}
	})

	s.counts = snap.counts
	if snap.hasAux {
		s.rule.(Rewinder).Restore(snap.aux)
	}
	s.iteration--
	return true
}

// Reset reinstalls a new initial-state array, zeroing the iteration counter
// and discarding any undo history.
func (s *Simulation) Reset(initial []int) error {
	states, err := decodeInitial(s.model, s.grid, initial)
	if err != nil {
		return err
	}
	s.install(states)
	return nil
}

func (s *Simulation) capture() *snapshot {
	snap := &snapshot{
		rows:   s.grid.Rows(),
		cols:   s.grid.Cols(),
		rowMin: s.grid.RowMin(),
		colMin: s.grid.ColMin(),
		states: make([]State, 0, s.grid.Area()),
		counts: s.Populations(),
	}
	s.grid.ForEach(func(_, _ int, cell *Cell) {
		snap.states = append(snap.states, cell.Current())
	})
	if r, ok := s.rule.(Rewinder); ok {
		snap.aux = r.Snapshot()
		snap.hasAux = true
	}
	return snap
}

func (s *Simulation) recount() {
	counts := make(map[State]int, len(s.model.defs))
	for _, st := range s.model.States() {
		counts[st] = 0
	}
	s.grid.ForEach(func(_, _ int, cell *Cell) {
		counts[cell.Current()]++
	})
	s.counts = counts
}

// Iteration returns the number of completed ticks.
func (s *Simulation) Iteration() int { return s.iteration }

// Grid returns the underlying grid.
func (s *Simulation) Grid() *Grid { return s.grid }

// Rule returns the active rule set.
func (s *Simulation) Rule() Rule { return s.rule }

// Model returns the simulation's state model.
func (s *Simulation) Model() *StateModel { return s.model }

// Name returns the rule set identifier.
func (s *Simulation) Name() string { return s.rule.Name() }

// Size reports the grid dimensions, width first.
func (s *Simulation) Size() Size { return Size{W: s.grid.Cols(), H: s.grid.Rows()} }

// StateAt returns the committed state at a boundary-resolved coordinate.
func (s *Simulation) StateAt(row, col int) (State, error) {
	cell, err := s.grid.Cell(row, col)
	if err != nil {
		return StateNone, err
	}
	return cell.Current(), nil
}

// DisplayKey returns the stable display key for a state.
func (s *Simulation) DisplayKey(st State) string { return s.model.Key(st) }

// Populations returns a copy of the per-state population counts as of the
// last commit. The sum over all states equals the grid area.
func (s *Simulation) Populations() map[State]int {
	out := make(map[State]int, len(s.counts))
	for st, n := range s.counts {
		out[st] = n
	}
	return out
}

// DisplayBuffer fills dst (reallocating if needed) with the row-major ordinal
// of every cell's committed state, for palette-indexed renderers.
func (s *Simulation) DisplayBuffer(dst []uint8) []uint8 {
	n := s.grid.Area()
	if cap(dst) < n {
		dst = make([]uint8, n)
	}
	dst = dst[:n]
	i := 0
	s.grid.ForEach(func(_, _ int, cell *Cell) {
		ord, _ := s.model.Ordinal(cell.Current())
		dst[i] = uint8(ord)
		i++
	})
	return dst
}

// SetBoundary swaps the boundary strategy by tag at runtime.
func (s *Simulation) SetBoundary(tag string) error {
	b, err := BoundaryFor(tag)
	if err != nil {
		return err
	}
	s.grid.SetBoundary(b)
	return nil
}

// SetNeighborhood swaps the neighborhood strategy by tag at runtime.
func (s *Simulation) SetNeighborhood(tag string) error {
	n, err := NeighborhoodFor(tag)
	if err != nil {
		return err
	}
	s.grid.SetNeighborhood(n)
	return nil
}
