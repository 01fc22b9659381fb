package wator

import (
	"testing"

	"github.com/alanazinkin/CellularAutomata-sub000/internal/core"
)

func TestFishConservedWithoutBreeding(t *testing.T) {
	c := DefaultConfig()
	c.Rows, c.Cols = 12, 12
	c.SharkChance = 0
	sim, err := Random(c)
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	// Push breeding out of reach so the only legal change is movement.
	rule := sim.Rule().(*Rule)
	rule.fishBreed = 1 << 30

	fish0 := sim.Populations()[Fish]
	for i := 0; i < 20; i++ {
		sim.Step()
		if got := sim.Populations()[Fish]; got != fish0 {
			t.Fatalf("tick %d: fish count %d, want %d", i+1, got, fish0)
		}
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
	for i := 0; i < 15; i++ {
		sim.Step()
		counts := sim.Populations()
		if got := counts[Fish] + counts[Shark]; got != rule.Agents().Len() {
			t.Fatalf("tick %d: grid holds %d creatures, arena holds %d",
				i+1, got, rule.Agents().Len())
		}
	}
}

func TestSharkStarvesWithoutPrey(t *testing.T) {
	sim, err := New(1, 1, []int{2}, core.Params{"shark_energy": 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sim.Step()
	if st, _ := sim.StateAt(0, 0); st != Water {
		t.Fatalf("starved shark must leave water, got %v", st)
	}
	if got := sim.Populations()[Shark]; got != 0 {
		t.Fatalf("shark population %d after starvation", got)
	}
}

func TestSharkEatsAdjacentFishAndGainsEnergy(t *testing.T) {
	sim, err := New(1, 3, []int{2, 1, 0},
		core.Params{"shark_energy": 2, "energy_per_fish": 3, "shark_breed": 100},
		core.WithSeed(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sim.Step()
	counts := sim.Populations()
	if counts[Fish] != 0 || counts[Shark] != 1 {
		t.Fatalf("after predation fish=%d shark=%d", counts[Fish], counts[Shark])
	}

	// Base energy 2 would starve the shark on tick 2; the meal buys three
	// more ticks.
	for i := 0; i < 3; i++ {
		sim.Step()
		if got := sim.Populations()[Shark]; got != 1 {
			t.Fatalf("tick %d: shark starved too early", sim.Iteration())
		}
	}
	sim.Step()
	if got := sim.Populations()[Shark]; got != 0 {
		t.Fatal("shark must starve once the meal energy is spent")
	}
}

func TestFishBreedsIntoVacatedCell(t *testing.T) {
	sim, err := New(1, 2, []int{1, 0}, core.Params{"fish_breed": 1}, core.WithSeed(3))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sim.Step()
	if got := sim.Populations()[Fish]; got != 2 {
		t.Fatalf("fish population %d, want parent plus offspring", got)
	}
}

func TestArenaBookkeepingFaultPanics(t *testing.T) {
	sim, err := New(1, 2, []int{1, 0}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rule := sim.Rule().(*Rule)

	defer func() {
		if recover() == nil {
			t.Fatal("spawning onto an occupied cell must panic, not pass silently")
		}
	}()
	_, err = rule.agents.Spawn(0, &critter{kind: Fish})
	must(err)
}

func TestRollbackRestoresCreatures(t *testing.T) {
	sim, err := New(1, 3, []int{2, 1, 0}, core.Params{"shark_energy": 4}, core.WithSeed(7))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rule := sim.Rule().(*Rule)

	sim.Step() // fish is eaten
	if got := sim.Populations()[Fish]; got != 0 {
		t.Fatalf("setup: fish survived the first tick (%d)", got)
	}
	if !sim.RollbackOnce() {
		t.Fatal("rollback must succeed after a step")
	}

	counts := sim.Populations()
	if counts[Fish] != 1 || counts[Shark] != 1 {
		t.Fatalf("after rollback fish=%d shark=%d", counts[Fish], counts[Shark])
	}
	if got := rule.Agents().Len(); got != 2 {
		t.Fatalf("arena holds %d creatures after rollback, want 2", got)
	}
	if st, _ := sim.StateAt(0, 1); st != Fish {
		t.Fatalf("fish cell holds %v after rollback", st)
	}
}
