package segregation

import (
	"testing"

	"github.com/alanazinkin/CellularAutomata-sub000/internal/core"
)

func populations(sim *core.Simulation) (x, o, empty int) {
	counts := sim.Populations()
	return counts[GroupX], counts[GroupO], counts[Empty]
}

func TestAgentConservationAcrossTicks(t *testing.T) {
	c := DefaultConfig()
	c.Rows, c.Cols = 20, 20
	c.Tolerance = 0.5
	sim, err := Random(c)
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	x0, o0, e0 := populations(sim)

	for i := 0; i < 10; i++ {
		sim.Step()
		x, o, e := populations(sim)
		if x != x0 || o != o0 || e != e0 {
			t.Fatalf("tick %d: populations changed: X %d->%d, O %d->%d, empty %d->%d",
				i+1, x0, x, o0, o, e0, e)
		}
	}
}

func TestSatisfiedAgentsStayPut(t *testing.T) {
	// Two solid blocks separated by an empty column: everyone is satisfied.
	initial := []int{
		1, 1, 0, 2, 2,
		1, 1, 0, 2, 2,
		1, 1, 0, 2, 2,
	}
	sim, err := New(3, 5, initial, core.Params{"tolerance": 0.5})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sim.Step()
	buf := sim.DisplayBuffer(nil)
	for i, want := range initial {
		if int(buf[i]) != want {
			t.Fatalf("cell %d moved: got %d want %d", i, buf[i], want)
		}
	}
}

func TestDissatisfiedAgentRelocatesToVacancy(t *testing.T) {
	// A lone X surrounded by O agents must move to the single vacancy.
	initial := []int{
		2, 2, 2,
		2, 1, 2,
		2, 2, 0,
	}
	sim, err := New(3, 3, initial, core.Params{"tolerance": 0.3}, core.WithSeed(5))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sim.Step()
	st, err := sim.StateAt(2, 2)
	if err != nil {
		t.Fatalf("StateAt: %v", err)
	}
	if st != GroupX {
		t.Fatalf("vacancy holds %v, want the relocated X", st)
	}
	if st, _ := sim.StateAt(1, 1); st != Empty {
		t.Fatalf("source cell not vacated: %v", st)
	}
}

func TestMissingToleranceFailsConstruction(t *testing.T) {
	if _, err := New(2, 2, make([]int, 4), nil); err == nil {
		t.Fatal("construction must fail without tolerance")
	}
}

func TestNoVacancyMeansNoMovement(t *testing.T) {
	initial := []int{
		1, 2,
		2, 1,
	}
	sim, err := New(2, 2, initial, core.Params{"tolerance": 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sim.Step()
	buf := sim.DisplayBuffer(nil)
	x, o := 0, 0
	for _, v := range buf {
		switch v {
		case 1:
			x++
		case 2:
			o++
		}
	}
	if x != 2 || o != 2 {
		t.Fatalf("agents lost without vacancies: %v", buf)
	}
}
