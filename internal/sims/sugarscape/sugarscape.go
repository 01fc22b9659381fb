// Package sugarscape implements a resource-economy model: agents with vision
// and metabolism roam a regrowing sugar/spice landscape, harvest what they
// land on, trade with neighbors toward marginal-rate equalization, extend
// loans that fall due after a fixed term, and pass disease by contact. Agents
// live in the arena so identity, wealth and infection survive relocation; the
// sugar and spice quantities are staged fields so harvesting keeps the same
// simultaneity guarantee as the cell states.
package sugarscape

import (
	"image/color"
	"math"
	"strconv"

	"github.com/alanazinkin/CellularAutomata-sub000/internal/core"
)

// Cell states: five visible resource levels plus the agent marker.
const (
	Sugar0 core.State = 0
	Sugar1 core.State = 1
	Sugar2 core.State = 2
	Sugar3 core.State = 3
	Sugar4 core.State = 4
	Agent  core.State = 5
)

var model = core.MustStateModel(
	core.StateDef{State: Sugar0, Ordinal: 0, Key: "SUGAR_0", Color: color.RGBA{R: 250, G: 246, B: 228, A: 255}},
	core.StateDef{State: Sugar1, Ordinal: 1, Key: "SUGAR_1", Color: color.RGBA{R: 246, G: 232, B: 172, A: 255}},
	core.StateDef{State: Sugar2, Ordinal: 2, Key: "SUGAR_2", Color: color.RGBA{R: 242, G: 215, B: 120, A: 255}},
	core.StateDef{State: Sugar3, Ordinal: 3, Key: "SUGAR_3", Color: color.RGBA{R: 235, G: 192, B: 70, A: 255}},
	core.StateDef{State: Sugar4, Ordinal: 4, Key: "SUGAR_4", Color: color.RGBA{R: 225, G: 165, B: 30, A: 255}},
	core.StateDef{State: Agent, Ordinal: 5, Key: "AGENT", Color: color.RGBA{R: 150, G: 40, B: 40, A: 255}},
)

// Model returns the state model shared by all sugarscape simulations.
func Model() *core.StateModel { return model }

// dweller is the per-agent payload.
type dweller struct {
	vision     int
	metabSugar float64
	metabSpice float64
	sugar      float64
	spice      float64
	sick       bool
}

func copyDweller(p any) any {
	cp := *p.(*dweller)
	return &cp
}

// mrs is the marginal rate of substitution: how many ticks of spice the agent
// holds per tick of sugar. High values mean sugar is the scarce good.
func (d *dweller) mrs() float64 {
	sugarTime := d.sugar / d.metabSugar
	spiceTime := d.spice / d.metabSpice
	if sugarTime <= 0 {
		return math.Inf(1)
	}
	return spiceTime / sugarTime
}

// welfare is the Cobb-Douglas valuation of a bundle, weighted by the agent's
// own metabolic needs.
func (d *dweller) welfare(sugar, spice float64) float64 {
	total := d.metabSugar + d.metabSpice
	return math.Pow(sugar, d.metabSugar/total) * math.Pow(spice, d.metabSpice/total)
}

// must asserts arena bookkeeping that the guard and the occupancy checks make
// unreachable; a failure means corrupted movement logic, not a runtime
// condition.
func must(err error) {
	if err != nil {
		panic(err)
	}
}

// loan is one ledger entry. Principal moves at issue time; principal plus
// interest moves back at the due tick, capped by what the borrower holds.
type loan struct {
	lender    core.AgentID
	borrower  core.AgentID
	principal float64
	due       int
}

// Rule carries the landscape, the agent arena and the loan ledger.
type Rule struct {
	alpha      float64
	visionMax  int
	metabMax   int
	endowment  float64
	infectProb float64
	loanRate   float64
	loanTerm   int
	lendMin    float64
	borrowMax  float64
	seed       int64

	agents   *core.Agents
	sugar    *core.Field
	spice    *core.Field
	sugarCap []float64
	spiceCap []float64
	loans    []loan
	now      int
}

// Name returns the simulation identifier.
func (r *Rule) Name() string { return "sugarscape" }

// Agents exposes the arena, read-only by convention.
func (r *Rule) Agents() *core.Agents { return r.agents }

// Loans returns the number of open ledger entries.
func (r *Rule) Loans() int { return len(r.loans) }

// Compute runs one tick: due loans settle, the landscape grows back, agents
// move and eat, disease spreads, neighbors trade and lend, and the visible
// states are restaged from the surviving agents and resource levels.
func (r *Rule) Compute(t *core.Tick) {
	r.now++
	r.settleLoans()
	r.growback()
	r.moveAndHarvest(t)
	r.spreadDisease(t)
	r.trade(t.Grid)
	r.extendLoans(t.Grid)
	r.restage(t.Grid)
}

// byID maps live agents by identity, for ledger settlement.
func (r *Rule) byID() map[core.AgentID]*dweller {
	out := make(map[core.AgentID]*dweller, r.agents.Len())
	for _, idx := range r.agents.Cells() {
		if a, ok := r.agents.At(idx); ok {
			out[a.ID()] = a.Payload.(*dweller)
		}
	}
	return out
}

func (r *Rule) settleLoans() {
	if len(r.loans) == 0 {
		return
	}
	live := r.byID()
	keep := r.loans[:0]
	for _, l := range r.loans {
		if l.due > r.now {
			keep = append(keep, l)
			continue
		}
		borrower, bok := live[l.borrower]
		lender, lok := live[l.lender]
		// A death on either side voids the entry.
		if bok && lok {
			owed := l.principal * (1 + r.loanRate)
			pay := math.Min(owed, borrower.sugar)
			borrower.sugar -= pay
			lender.sugar += pay
		}
	}
	r.loans = keep
}

func (r *Rule) growback() {
	for i := 0; i < r.sugar.Len(); i++ {
		r.sugar.Stage(i, math.Min(r.sugarCap[i], r.sugar.Get(i)+r.alpha))
		r.spice.Stage(i, math.Min(r.spiceCap[i], r.spice.Get(i)+r.alpha))
	}
	r.sugar.Commit()
	r.spice.Commit()
}

func (r *Rule) moveAndHarvest(t *core.Tick) {
	g := t.Grid
	for _, idx := range r.agents.Cells() {
		a, ok := r.agents.At(idx)
		if !ok {
			continue
		}
		row, col := g.Coord(idx)
		if t.Visited.Seen(row, col) {
			continue
		}
		d := a.Payload.(*dweller)

		dst := r.bestSite(t, idx, row, col, d)
		if dst != idx {
			must(r.agents.Move(idx, dst))
			dr, dc := g.Coord(dst)
			t.Visited.Mark(dr, dc)
		}
		t.Visited.Mark(row, col)

		d.sugar += r.sugar.Get(dst)
		d.spice += r.spice.Get(dst)
		r.sugar.Stage(dst, 0)
		r.spice.Stage(dst, 0)

		need := d.metabSugar
		if d.sick {
			need++
		}
		d.sugar -= need
		d.spice -= d.metabSpice
		if d.sugar < 0 || d.spice < 0 {
			_, err := r.agents.Remove(dst)
			must(err)
		}
	}
	r.sugar.Commit()
	r.spice.Commit()
}

// bestSite scans the four cardinal rays up to the agent's vision and returns
// the free cell whose harvest maximizes the agent's welfare, staying put on
// ties with the current cell. Occupied cells block landing but not sight.
func (r *Rule) bestSite(t *core.Tick, src, row, col int, d *dweller) int {
	g := t.Grid
	best := src
	bestScore := d.welfare(d.sugar+r.sugar.Get(src), d.spice+r.spice.Get(src))
	bestDist := 0

	dirs := [4][2]int{{-1, 0}, {0, 1}, {1, 0}, {0, -1}}
	for _, dir := range dirs {
		for dist := 1; dist <= d.vision; dist++ {
			cr, cc, ok := g.Boundary().Resolve(g, row+dir[0]*dist, col+dir[1]*dist)
			if !ok {
				break
			}
			idx := g.Index(cr, cc)
			if idx == src || t.Visited.Seen(cr, cc) {
				continue
			}
			if _, occupied := r.agents.At(idx); occupied {
				continue
			}
			score := d.welfare(d.sugar+r.sugar.Get(idx), d.spice+r.spice.Get(idx))
			if score > bestScore || (score == bestScore && best != src && dist < bestDist) {
				best, bestScore, bestDist = idx, score, dist
			}
		}
	}
	return best
}

// spreadDisease infects the healthy neighbors of sick agents. Infection is
// computed against this tick's sick set and applied afterwards, so a chain of
// contacts cannot relay in a single tick.
func (r *Rule) spreadDisease(t *core.Tick) {
	if r.infectProb == 0 {
		return
	}
	g := t.Grid
	var caught []*dweller
	for _, idx := range r.agents.Cells() {
		a, ok := r.agents.At(idx)
		if !ok || !a.Payload.(*dweller).sick {
			continue
		}
		row, col := g.Coord(idx)
		for _, nIdx := range r.neighborAgents(g, row, col) {
			n, _ := r.agents.At(nIdx)
			nd := n.Payload.(*dweller)
			if !nd.sick && t.RNG.Float64() < r.infectProb {
				caught = append(caught, nd)
			}
		}
	}
	for _, d := range caught {
		d.sick = true
	}
}

// trade runs one unit of welfare-improving exchange per adjacent pair: the
// agent that is relatively short on sugar buys one sugar for one spice.
func (r *Rule) trade(g *core.Grid) {
	for _, idx := range r.agents.Cells() {
		a, ok := r.agents.At(idx)
		if !ok {
			continue
		}
		row, col := g.Coord(idx)
		for _, nIdx := range r.neighborAgents(g, row, col) {
			if nIdx <= idx {
				continue
			}
			n, _ := r.agents.At(nIdx)
			da, dn := a.Payload.(*dweller), n.Payload.(*dweller)
			switch {
			case da.mrs() > dn.mrs() && da.spice >= 1 && dn.sugar >= 1:
				da.sugar, da.spice = da.sugar+1, da.spice-1
				dn.sugar, dn.spice = dn.sugar-1, dn.spice+1
			case dn.mrs() > da.mrs() && dn.spice >= 1 && da.sugar >= 1:
				dn.sugar, dn.spice = dn.sugar+1, dn.spice-1
				da.sugar, da.spice = da.sugar-1, da.spice+1
			}
		}
	}
}

// extendLoans lets each agent holding more than lendMin sugar issue one loan
// per tick to an adjacent agent holding less than borrowMax.
func (r *Rule) extendLoans(g *core.Grid) {
	for _, idx := range r.agents.Cells() {
		a, ok := r.agents.At(idx)
		if !ok {
			continue
		}
		lender := a.Payload.(*dweller)
		surplus := lender.sugar - r.lendMin
		if surplus < 1 {
			continue
		}
		row, col := g.Coord(idx)
		for _, nIdx := range r.neighborAgents(g, row, col) {
			n, _ := r.agents.At(nIdx)
			borrower := n.Payload.(*dweller)
			if borrower.sugar >= r.borrowMax {
				continue
			}
			amount := math.Min(5, surplus)
			lender.sugar -= amount
			borrower.sugar += amount
			r.loans = append(r.loans, loan{
				lender:    a.ID(),
				borrower:  n.ID(),
				principal: amount,
				due:       r.now + r.loanTerm,
			})
			break
		}
	}
}

// neighborAgents returns the deduplicated cell indices of adjacent agents.
// Wrapping can resolve two offsets to the same cell on small grids.
func (r *Rule) neighborAgents(g *core.Grid, row, col int) []int {
	var out []int
	for _, rc := range g.NeighborCoords(row, col) {
		idx := g.Index(rc[0], rc[1])
		if _, ok := r.agents.At(idx); !ok {
			continue
		}
		dup := false
		for _, seen := range out {
			if seen == idx {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, idx)
		}
	}
	return out
}

// restage maps the tick's outcome back onto visible states: agents on top,
// resource level elsewhere.
func (r *Rule) restage(g *core.Grid) {
	g.ForEach(func(row, col int, cell *core.Cell) {
		idx := g.Index(row, col)
		if _, ok := r.agents.At(idx); ok {
			cell.SetNext(Agent)
			return
		}
		level := int(r.sugar.Get(idx))
		if level > 4 {
			level = 4
		}
		cell.SetNext(core.State(level))
	})
}

type memo struct {
	sugar  []float64
	spice  []float64
	agents *core.Agents
	loans  []loan
	now    int
}

// Snapshot captures the landscape, the arena and the ledger for single-level
// rollback.
func (r *Rule) Snapshot() any {
	return &memo{
		sugar:  r.sugar.Snapshot(),
		spice:  r.spice.Snapshot(),
		agents: r.agents.Clone(copyDweller),
		loans:  append([]loan(nil), r.loans...),
		now:    r.now,
	}
}

// Restore reinstates a snapshot.
func (r *Rule) Restore(snap any) {
	m := snap.(*memo)
	r.sugar.Restore(m.sugar)
	r.spice.Restore(m.spice)
	r.agents.ReplaceWith(m.agents)
	r.loans = append(r.loans[:0], m.loans...)
	r.now = m.now
}

// Reinit derives the landscape and the agent roster from the grid's committed
// states: resource ordinals fix the capacity map (spice capacity mirrors
// sugar), AGENT cells spawn dwellers with attributes drawn from the rule's
// own seeded source so Reset reproduces the same population.
func (r *Rule) Reinit(g *core.Grid) {
	n := g.Area()
	rng := core.NewRNG(r.seed)
	r.sugar = core.NewField(n)
	r.spice = core.NewField(n)
	r.sugarCap = make([]float64, n)
	r.spiceCap = make([]float64, n)
	r.agents = core.NewAgents()
	r.loans = nil
	r.now = 0

	g.ForEach(func(row, col int, cell *core.Cell) {
		idx := g.Index(row, col)
		st := cell.Current()
		if st == Agent {
			_, err := r.agents.Spawn(idx, &dweller{
				vision:     1 + rng.IntN(r.visionMax),
				metabSugar: float64(1 + rng.IntN(r.metabMax)),
				metabSpice: float64(1 + rng.IntN(r.metabMax)),
				sugar:      r.endowment,
				spice:      r.endowment,
			})
			must(err)
			return
		}
		r.sugarCap[idx] = float64(st)
		r.spiceCap[idx] = 4 - float64(st)
		r.sugar.SetCurrent(idx, r.sugarCap[idx])
		r.spice.SetCurrent(idx, r.spiceCap[idx])
	})
}

// New builds a sugarscape simulation over a toroidal orthogonal grid. All
// parameters are optional: alpha (growback per tick), vision_max, metab_max,
// endowment, infect_prob in [0,1], loan_rate, loan_term, lend_min,
// borrow_max, seed.
func New(rows, cols int, initial []int, params core.Params, opts ...core.Option) (*core.Simulation, error) {
	infect, err := params.UnitDefault("infect_prob", 0.25)
	if err != nil {
		return nil, err
	}
	r := &Rule{
		alpha:      params.FloatDefault("alpha", 1),
		visionMax:  params.IntDefault("vision_max", 4),
		metabMax:   params.IntDefault("metab_max", 2),
		endowment:  params.FloatDefault("endowment", 10),
		infectProb: infect,
		loanRate:   params.FloatDefault("loan_rate", 0.1),
		loanTerm:   params.IntDefault("loan_term", 20),
		lendMin:    params.FloatDefault("lend_min", 15),
		borrowMax:  params.FloatDefault("borrow_max", 5),
		seed:       int64(params.FloatDefault("seed", 1)),
	}
	if r.visionMax < 1 {
		r.visionMax = 1
	}
	if r.metabMax < 1 {
		r.metabMax = 1
	}
	g, err := core.NewGrid(rows, cols, Sugar0, core.Wrapped{}, core.VonNeumann{})
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
	AgentChance float64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Rows: 64, Cols: 64, Seed: 42, AgentChance: 0.1}
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
	if v, ok := cfg["agent_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.AgentChance = parsed
		}
	}
	return c
}

// Random builds a simulation over a two-peak sugar landscape with agents
// scattered uniformly.
func Random(c Config) (*core.Simulation, error) {
	rng := core.NewRNG(c.Seed)
	peaks := [2][2]float64{
		{float64(c.Rows) * 0.25, float64(c.Cols) * 0.75},
		{float64(c.Rows) * 0.75, float64(c.Cols) * 0.25},
	}
	scale := float64(c.Rows+c.Cols) / 8

	initial := make([]int, c.Rows*c.Cols)
	for row := 0; row < c.Rows; row++ {
		for col := 0; col < c.Cols; col++ {
			best := 0.0
			for _, p := range peaks {
				dist := math.Hypot(float64(row)-p[0], float64(col)-p[1])
				if v := 4 - dist/scale; v > best {
					best = v
				}
			}
			initial[row*c.Cols+col] = int(best)
		}
	}
	for i := range initial {
		if rng.Float64() < c.AgentChance {
			initial[i] = int(Agent)
		}
	}
	return New(c.Rows, c.Cols, initial, core.Params{"seed": float64(c.Seed)}, core.WithSeed(c.Seed))
}

func init() {
	core.Register("sugarscape", func(cfg map[string]string) (*core.Simulation, error) {
		return Random(FromMap(cfg))
	})
}
