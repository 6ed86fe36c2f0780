package animated

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcedure_Weights(t *testing.T) {
	tests := []struct {
		name      string
		procedure Procedure
		this      float64
		other     float64
	}{
		{"interpolate start", Interpolate(0), 1, 0},
		{"interpolate quarter", Interpolate(0.25), 0.75, 0.25},
		{"interpolate end", Interpolate(1), 0, 1},
		{"add", Add(), 1, 1},
		{"accumulate", Accumulate(3), 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw, ow := tt.procedure.Weights()
			assert.InDelta(t, tt.this, tw, 1e-9)
			assert.InDelta(t, tt.other, ow, 1e-9)
		})
	}
}

func TestProcedureKind_String(t *testing.T) {
	assert.Equal(t, "Interpolate", ProcedureInterpolate.String())
	assert.Equal(t, "Add", ProcedureAdd.String())
	assert.Equal(t, "Accumulate", ProcedureAccumulate.String())
	assert.Equal(t, "ProcedureKind(7)", ProcedureKind(7).String())
}

func TestFloat(t *testing.T) {
	got, err := Float(10.0, 20.0, Interpolate(0.5))
	require.NoError(t, err)
	assert.InDelta(t, 15.0, got, 1e-9)

	got, err = Float(10.0, 20.0, Add())
	require.NoError(t, err)
	assert.InDelta(t, 30.0, got, 1e-9)

	got32, err := Float(float32(1), float32(2), Accumulate(2))
	require.NoError(t, err)
	assert.InDelta(t, float32(4), got32, 1e-6)
}

type percentage float64

func TestFloat_NamedType(t *testing.T) {
	got, err := Float(percentage(0), percentage(1), Interpolate(0.3))
	require.NoError(t, err)
	assert.InDelta(t, 0.3, float64(got), 1e-9)
}

func TestInteger_RoundsHalfUp(t *testing.T) {
	got, err := Integer(0, 1, Interpolate(0.5))
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = Integer(0, 1, Interpolate(0.49))
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	neg, err := Integer(int32(-3), int32(-2), Interpolate(0.5))
	require.NoError(t, err)
	assert.Equal(t, int32(-2), neg)

	u, err := Integer(uint8(10), uint8(20), Add())
	require.NoError(t, err)
	assert.Equal(t, uint8(30), u)
}

func TestFloat_SelfIsIdentity(t *testing.T) {
	for _, p := range []float64{0, 0.1, 0.5, 0.9, 1} {
		got, err := Float(42.5, 42.5, Interpolate(p))
		require.NoError(t, err)
		assert.InDelta(t, 42.5, got, 1e-9)

		n, err := Integer(-7, -7, Interpolate(p))
		require.NoError(t, err)
		assert.Equal(t, -7, n)
	}
}

type level int

func (l level) Animate(other level, procedure Procedure) (level, error) {
	if l != other {
		return 0, ErrIncompatible
	}

	return l, nil
}

func TestAnimate_Dispatch(t *testing.T) {
	got, err := Animate(level(2), level(2), Interpolate(0.5))
	require.NoError(t, err)
	assert.Equal(t, level(2), got)

	_, err = Animate(level(2), level(3), Interpolate(0.5))
	require.ErrorIs(t, err, ErrIncompatible)
}
