package loop

import (
	"testing"
)

func TestSignalAdvancesAlongWire(t *testing.T) {
	sim, err := New(1, 5, []int{3, 2, 1, 1, 1}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sim.Step()
	want := []uint8{1, 3, 2, 1, 1}
	got := sim.DisplayBuffer(nil)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("after one tick cell %d = %d, want %d (row %v)", i, got[i], want[i], got)
		}
	}
}

func TestLookupIsRotationInvariant(t *testing.T) {
	// A single entry written for a head to the north must also fire when the
	// head sits to the south.
	table := Table{{Wire, Head, Empty, Empty, Empty}: 7}
	sim, err := NewWithTable(2, 1, []int{1, 2}, table)
	if err != nil {
		t.Fatalf("NewWithTable: %v", err)
	}
	sim.Step()
	if st, _ := sim.StateAt(0, 0); st != 7 {
		t.Fatalf("rotated configuration not matched: state %v, want 7", st)
	}
}

func TestUnknownConfigurationKeepsState(t *testing.T) {
	sim, err := NewWithTable(2, 2, []int{0, 1, 2, 3}, Table{})
	if err != nil {
		t.Fatalf("NewWithTable: %v", err)
	}
	sim.Step()
	got := sim.DisplayBuffer(nil)
	for i, want := range []uint8{0, 1, 2, 3} {
		if got[i] != want {
			t.Fatalf("cell %d changed under an empty table: got %d want %d", i, got[i], want)
		}
	}
}

func TestSignalCirculatesAroundRing(t *testing.T) {
	c := Config{Rows: 8, Cols: 8, Ring: 4}
	sim, err := Seeded(c)
	if err != nil {
		t.Fatalf("Seeded: %v", err)
	}
	perimeter := 4*c.Ring - 4

	for i := 0; i < perimeter; i++ {
		sim.Step()
		if got := sim.Populations()[Head]; got != 1 {
			t.Fatalf("tick %d: %d heads on the ring, want exactly 1", i+1, got)
		}
	}
	// One lap later the signal is back where it started.
	if st, _ := sim.StateAt(2, 3); st != Head {
		t.Fatalf("after %d ticks the head is not back at its seed cell: %v", perimeter, st)
	}
}
