package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldStagingMirrorsCellDiscipline(t *testing.T) {
	f := NewField(4)
	f.SetCurrent(0, 1.5)
	f.Stage(0, 9)
	require.Equal(t, 1.5, f.Get(0), "staging must not touch committed values")
	f.Commit()
	require.Equal(t, 9.0, f.Get(0))
}

func TestFieldCarry(t *testing.T) {
	f := NewField(3)
	f.SetCurrent(1, 2)
	f.Stage(1, 99)
	f.Carry()
	f.Stage(2, 5)
	f.Commit()
	require.Equal(t, 2.0, f.Get(1), "carry discards earlier staging")
	require.Equal(t, 5.0, f.Get(2))
}

func TestFieldSnapshotRestore(t *testing.T) {
	f := NewIntField(2)
	f.SetCurrent(0, 10)
	snap := f.Snapshot()
	f.SetCurrent(0, 0)
	f.Restore(snap)
	require.Equal(t, 10, f.Get(0))
	f.Commit()
	require.Equal(t, 10, f.Get(0), "restore resets both buffers")
}

func TestVisitedGuard(t *testing.T) {
	g, err := NewGrid(3, 3, testDead, Bounded{}, Moore{})
	require.NoError(t, err)
	v := newVisited(g)

	require.False(t, v.Seen(1, 1))
	v.Mark(1, 1)
	require.True(t, v.Seen(1, 1))
	require.False(t, v.Seen(0, 0))

	// Coordinates outside the lattice are never seen and marking them is a
	// no-op.
	require.False(t, v.Seen(-1, 5))
	v.Mark(-1, 5)
	require.False(t, v.Seen(-1, 5))
}
