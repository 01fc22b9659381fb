package sugarscape

import (
	"testing"

	"github.com/alanazinkin/CellularAutomata-sub000/internal/core"
)

// fixed makes agent attributes deterministic: vision 1, both metabolisms 1.
func fixed(extra core.Params) core.Params {
	p := core.Params{"vision_max": 1, "metab_max": 1, "infect_prob": 0, "lend_min": 1e9}
	for k, v := range extra {
		p[k] = v
	}
	return p
}

func dwellerAt(t *testing.T, sim *core.Simulation, idx int) *dweller {
	t.Helper()
	a, ok := sim.Rule().(*Rule).agents.At(idx)
	if !ok {
		t.Fatalf("no agent at cell %d", idx)
	}
	return a.Payload.(*dweller)
}

func TestGrowbackClimbsToCapacity(t *testing.T) {
	sim, err := New(1, 1, []int{3}, fixed(nil))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rule := sim.Rule().(*Rule)
	rule.sugar.SetCurrent(0, 0)

	for tick, want := range []float64{1, 2, 3, 3} {
		sim.Step()
		if got := rule.sugar.Get(0); got != want {
			t.Fatalf("tick %d: sugar %v, want %v", tick+1, got, want)
		}
	}
	if st, _ := sim.StateAt(0, 0); st != Sugar3 {
		t.Fatalf("display state %v, want the capacity level", st)
	}
}

func TestAgentMovesToBestVisibleSite(t *testing.T) {
	// Welfare weighs both goods, so the balanced site at (0,2) beats the
	// spice-only site at (0,0) and beats staying put.
	sim, err := New(1, 3, []int{0, 5, 2}, fixed(core.Params{"endowment": 2}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sim.Step()
	if st, _ := sim.StateAt(0, 2); st != Agent {
		t.Fatalf("agent did not take the best site: (0,2) is %v", st)
	}
	if st, _ := sim.StateAt(0, 1); st != Sugar0 {
		t.Fatalf("vacated cell shows %v, want bare ground", st)
	}
	d := dwellerAt(t, sim, 2)
	if d.sugar != 3 || d.spice != 3 {
		t.Fatalf("harvest+metabolism gave sugar=%v spice=%v, want 3/3", d.sugar, d.spice)
	}
}

func TestStarvationRemovesAgent(t *testing.T) {
	sim, err := New(1, 1, []int{5}, fixed(core.Params{"endowment": 1}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sim.Step()
	if got := sim.Populations()[Agent]; got != 1 {
		t.Fatalf("agent died a tick early (population %d)", got)
	}
	sim.Step()
	if got := sim.Populations()[Agent]; got != 0 {
		t.Fatalf("agent survived with negative reserves (population %d)", got)
	}
	if st, _ := sim.StateAt(0, 0); st != Sugar0 {
		t.Fatalf("cell shows %v after the agent starved", st)
	}
}

func TestTradeMovesGoodsTowardScarcity(t *testing.T) {
	sim, err := New(1, 2, []int{5, 5}, fixed(nil))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a, b := dwellerAt(t, sim, 0), dwellerAt(t, sim, 1)
	a.sugar, a.spice = 10, 1
	b.sugar, b.spice = 1, 10

	sim.Step()
	// Metabolism burns one of each first, then one unit of sugar flows to
	// the sugar-poor agent against one unit of spice.
	if a.sugar != 8 || a.spice != 1 {
		t.Fatalf("trader a holds sugar=%v spice=%v, want 8/1", a.sugar, a.spice)
	}
	if b.sugar != 1 || b.spice != 8 {
		t.Fatalf("trader b holds sugar=%v spice=%v, want 1/8", b.sugar, b.spice)
	}
}

func TestLoanLedgerLifecycle(t *testing.T) {
	sim, err := New(1, 2, []int{5, 5}, fixed(core.Params{
		"lend_min":  25,
		"loan_rate": 0,
		"loan_term": 2,
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rule := sim.Rule().(*Rule)
	lender, borrower := dwellerAt(t, sim, 0), dwellerAt(t, sim, 1)
	lender.sugar, lender.spice = 30, 30
	borrower.sugar, borrower.spice = 2, 2

	sim.Step() // surplus above lend_min is loaned out
	if rule.Loans() != 1 {
		t.Fatalf("ledger holds %d entries after issue, want 1", rule.Loans())
	}
	if lender.sugar != 25 || borrower.sugar != 5 {
		t.Fatalf("principal not transferred: lender=%v borrower=%v", lender.sugar, borrower.sugar)
	}

	sim.Step() // not due yet
	if rule.Loans() != 1 {
		t.Fatalf("ledger holds %d entries before the due tick, want 1", rule.Loans())
	}

	sim.Step() // due: borrower repays what it can, entry closes
	if rule.Loans() != 0 {
		t.Fatalf("ledger holds %d entries after settlement, want 0", rule.Loans())
	}
	if lender.sugar != 27 {
		t.Fatalf("lender holds %v after repayment and metabolism, want 27", lender.sugar)
	}
}

func TestDiseaseSpreadsByContact(t *testing.T) {
	sim, err := New(1, 2, []int{5, 5}, fixed(core.Params{
		"infect_prob": 1,
		"endowment":   20,
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a, b := dwellerAt(t, sim, 0), dwellerAt(t, sim, 1)
	a.sick = true

	sim.Step()
	if !b.sick {
		t.Fatal("certain transmission must infect the neighbor")
	}
	if !a.sick {
		t.Fatal("infection is not cured by contact")
	}
}

func TestRollbackRestoresEconomy(t *testing.T) {
	sim, err := New(1, 2, []int{5, 5}, fixed(core.Params{
		"lend_min":  25,
		"loan_rate": 0,
		"loan_term": 2,
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rule := sim.Rule().(*Rule)
	lender, borrower := dwellerAt(t, sim, 0), dwellerAt(t, sim, 1)
	lender.sugar, lender.spice = 30, 30
	borrower.sugar, borrower.spice = 2, 2
	snapA, snapB := lender.sugar, borrower.sugar

	sim.Step()
	if !sim.RollbackOnce() {
		t.Fatal("rollback must succeed after a step")
	}
	if rule.Loans() != 0 {
		t.Fatalf("ledger holds %d entries after rollback, want 0", rule.Loans())
	}
	a, b := dwellerAt(t, sim, 0), dwellerAt(t, sim, 1)
	if a.sugar != snapA || b.sugar != snapB {
		t.Fatalf("wealth not rewound: lender=%v borrower=%v", a.sugar, b.sugar)
	}
}

func TestGridAndArenaStayInLockstep(t *testing.T) {
	c := DefaultConfig()
	c.Rows, c.Cols = 16, 16
	sim, err := Random(c)
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	rule := sim.Rule().(*Rule)
	for i := 0; i < 10; i++ {
		sim.Step()
		if got := sim.Populations()[Agent]; got != rule.Agents().Len() {
			t.Fatalf("tick %d: grid shows %d agents, arena holds %d",
				i+1, got, rule.Agents().Len())
		}
	}
}
