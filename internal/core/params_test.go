package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParamsAccessors(t *testing.T) {
	p := Params{"prob": 0.25, "count": 3, "bad": 1.5}

	v, err := p.Float("prob")
	require.NoError(t, err)
	require.Equal(t, 0.25, v)

	_, err = p.Float("missing")
	require.ErrorIs(t, err, ErrMissingParam)
	require.Equal(t, 9.0, p.FloatDefault("missing", 9))

	n, err := p.Int("count")
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, 7, p.IntDefault("missing", 7))

	u, err := p.Unit("prob")
	require.NoError(t, err)
	require.Equal(t, 0.25, u)

	_, err = p.Unit("bad")
	require.ErrorIs(t, err, ErrParamRange)

	u, err = p.UnitDefault("missing", 0.5)
	require.NoError(t, err)
	require.Equal(t, 0.5, u)
	_, err = p.UnitDefault("bad", 0.5)
	require.ErrorIs(t, err, ErrParamRange)

	_, err = Params{"z": 0}.Positive("z")
	require.ErrorIs(t, err, ErrParamRange)
}
