package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testModel(t *testing.T) *StateModel {
	t.Helper()
	m, err := NewStateModel(
		StateDef{State: testDead, Ordinal: 0, Key: "DEAD"},
		StateDef{State: testAlive, Ordinal: 1, Key: "ALIVE"},
	)
	require.NoError(t, err)
	return m
}

// parityRule flips each cell by the parity of its live neighbors, visiting
// cells in an arbitrary injected order. Used to prove scan order cannot leak
// staged state between cells.
type parityRule struct {
	order []int
}

func (parityRule) Name() string { return "parity" }

func (r parityRule) Compute(t *Tick) {
	g := t.Grid
	for _, idx := range r.order {
		row, col := g.Coord(idx)
		alive := 0
		for _, n := range g.Neighbors(row, col) {
			if n.Current() == testAlive {
				alive++
			}
		}
		if alive%2 == 1 {
			g.MustCell(row, col).SetNext(testAlive)
		} else {
			g.MustCell(row, col).SetNext(testDead)
		}
	}
}

func rowMajor(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestConstructionValidation(t *testing.T) {
	m := testModel(t)
	g, err := NewGrid(2, 2, testDead, Bounded{}, Moore{})
	require.NoError(t, err)

	_, err = NewSimulation(parityRule{}, m, g, []int{0, 1})
	require.ErrorIs(t, err, ErrBadInitialLength)

	_, err = NewSimulation(parityRule{}, m, g, []int{0, 1, 2, 0})
	require.ErrorIs(t, err, ErrUnknownOrdinal)

	sim, err := NewSimulation(parityRule{order: rowMajor(4)}, m, g, []int{0, 1, 1, 0})
	require.NoError(t, err)
	require.Equal(t, 0, sim.Iteration())
	require.Equal(t, map[State]int{testDead: 2, testAlive: 2}, sim.Populations())
}

func TestDoubleBufferIsolationUnderAdversarialOrder(t *testing.T) {
	m := testModel(t)
	initial := make([]int, 36)
	rng := NewRNG(7)
	for i := range initial {
		initial[i] = rng.IntN(2)
	}

	run := func(order []int) []uint8 {
		g, err := NewGrid(6, 6, testDead, Wrapped{}, Moore{})
		require.NoError(t, err)
		sim, err := NewSimulation(parityRule{order: order}, m, g, initial)
		require.NoError(t, err)
		for i := 0; i < 4; i++ {
			sim.Step()
		}
		return sim.DisplayBuffer(nil)
	}

	want := run(rowMajor(36))
	for trial := 0; trial < 8; trial++ {
		order := rowMajor(36)
		shuffle := NewRNG(int64(trial + 100))
		shuffle.Source().Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		require.Equal(t, want, run(order), "scan order must not change the result")
	}
}

func TestStepCommitAndPopulationConservation(t *testing.T) {
	m := testModel(t)
	g, err := NewGrid(4, 4, testDead, Wrapped{}, Moore{})
	require.NoError(t, err)
	initial := []int{1, 0, 0, 1, 0, 1, 0, 0, 1, 1, 0, 1, 0, 0, 1, 0}
	sim, err := NewSimulation(parityRule{order: rowMajor(16)}, m, g, initial)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		sim.Step()
		require.Equal(t, i+1, sim.Iteration())
		total := 0
		for _, n := range sim.Populations() {
			total += n
		}
		require.Equal(t, 16, total, "population counts must cover the whole grid")
		// next resets to the new current: a commit with no staging is a no-op
		g.ForEach(func(_, _ int, cell *Cell) {
			require.Equal(t, cell.Current(), cell.Next())
		})
	}
}

func TestRollbackScenario(t *testing.T) {
	m := testModel(t)
	g, err := NewGrid(1, 1, testDead, Wrapped{}, Moore{})
	require.NoError(t, err)
	// A single wrapped cell is its own eight neighbors: one live cell sees
	// eight live neighbors (even), so parity kills it.
	sim, err := NewSimulation(parityRule{order: rowMajor(1)}, m, g, []int{1})
	require.NoError(t, err)

	sim.Step()
	require.Equal(t, 1, sim.Iteration())
	st, err := sim.StateAt(0, 0)
	require.NoError(t, err)
	require.Equal(t, testDead, st)

	require.True(t, sim.RollbackOnce())
	require.Equal(t, 0, sim.Iteration())
	st, _ = sim.StateAt(0, 0)
	require.Equal(t, testAlive, st, "cell state equals its pre-step value")
	require.Equal(t, map[State]int{testDead: 0, testAlive: 1}, sim.Populations())

	require.False(t, sim.RollbackOnce(), "single-level undo only")
	st, _ = sim.StateAt(0, 0)
	require.Equal(t, testAlive, st)
}

func TestResetReinstallsInitialState(t *testing.T) {
	m := testModel(t)
	g, err := NewGrid(2, 2, testDead, Wrapped{}, Moore{})
	require.NoError(t, err)
	sim, err := NewSimulation(parityRule{order: rowMajor(4)}, m, g, []int{1, 0, 0, 1})
	require.NoError(t, err)
	sim.Step()
	sim.Step()

	require.ErrorIs(t, sim.Reset([]int{1}), ErrBadInitialLength)
	require.Equal(t, 2, sim.Iteration(), "failed reset must not disturb the simulation")

	require.NoError(t, sim.Reset([]int{0, 1, 1, 0}))
	require.Equal(t, 0, sim.Iteration())
	require.False(t, sim.RollbackOnce(), "reset discards undo history")
	require.Equal(t, []uint8{0, 1, 1, 0}, sim.DisplayBuffer(nil))
}

func TestTopologySwapByTag(t *testing.T) {
	m := testModel(t)
	g, err := NewGrid(5, 5, testDead, Bounded{}, Moore{})
	require.NoError(t, err)
	sim, err := NewSimulation(parityRule{order: rowMajor(25)}, m, g, make([]int, 25))
	require.NoError(t, err)

	require.NoError(t, sim.SetBoundary(TagWrapped))
	require.NoError(t, sim.SetNeighborhood("NEIGH_EXT_2"))
	require.Len(t, g.Neighbors(0, 0), 24)

	require.ErrorIs(t, sim.SetBoundary("SOLID"), ErrUnknownBoundary)
	require.ErrorIs(t, sim.SetNeighborhood("NEIGH_5"), ErrUnknownNeighborhood)
}

func TestStateModelValidation(t *testing.T) {
	_, err := NewStateModel(
		StateDef{State: 0, Ordinal: 0, Key: "A"},
		StateDef{State: 1, Ordinal: 0, Key: "B"},
	)
	require.ErrorIs(t, err, ErrDuplicateState)

	_, err = NewStateModel(
		StateDef{State: 0, Ordinal: 0, Key: "A"},
		StateDef{State: 0, Ordinal: 1, Key: "B"},
	)
	require.ErrorIs(t, err, ErrDuplicateState)

	_, err = NewStateModel(
		StateDef{State: 0, Ordinal: 0, Key: "A"},
		StateDef{State: 1, Ordinal: 1, Key: "A"},
	)
	require.ErrorIs(t, err, ErrDuplicateState)
}
