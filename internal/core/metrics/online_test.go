package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/swarmsim/internal/core/models"
)

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{NameHSE, NameMacro, NameNone, NameMicro}, r.Names())

	for _, name := range r.Names() {
		m, err := r.New(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.Name())
	}

	_, err := r.New("Nope")
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestNoneIsZero(t *testing.T) {
	v, err := None{}.Compute([]models.State{{X: 0.3, Y: 0.4}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestMacroEntropy(t *testing.T) {
	m := Macro{HeadingBins: 4}

	aligned := []models.State{{Angle: 0.1}, {Angle: 0.2}, {Angle: 0.3}, {Angle: 0.4}}
	v, err := m.Compute(aligned)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	// one vehicle per quadrant
	spread := []models.State{{Angle: 0.1}, {Angle: 0.1 + math.Pi/2}, {Angle: 0.1 + math.Pi}, {Angle: 0.1 + 3*math.Pi/2}}
	v, err = m.Compute(spread)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}

func TestMicroEntropyIsLocal(t *testing.T) {
	m := Micro{GridSize: 2, HeadingBins: 4}

	// Two cells, each internally aligned but facing opposite ways:
	// globally disordered, locally ordered.
	states := []models.State{
		{X: 0.1, Y: 0.1, Angle: 0.1},
		{X: 0.2, Y: 0.2, Angle: 0.1},
		{X: 0.8, Y: 0.8, Angle: 0.1 + math.Pi},
		{X: 0.9, Y: 0.9, Angle: 0.1 + math.Pi},
	}
	micro, err := m.Compute(states)
	require.NoError(t, err)
	macro, err := Macro{HeadingBins: 4}.Compute(states)
	require.NoError(t, err)
	assert.Equal(t, 0.0, micro)
	assert.Equal(t, 1.0, macro)

	// Same cell, opposite headings: locally disordered.
	mixed := []models.State{
		{X: 0.1, Y: 0.1, Angle: 0.1},
		{X: 0.2, Y: 0.2, Angle: 0.1 + math.Pi},
	}
	micro, err = m.Compute(mixed)
	require.NoError(t, err)
	assert.Equal(t, 1.0, micro)

	empty, err := m.Compute(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty)
}

func TestMetricsDoNotMutateInput(t *testing.T) {
	states := []models.State{{X: 0.3, Y: 0.7, Angle: 7, Velocity: 0.2}}
	before := append([]models.State(nil), states...)
	for _, name := range DefaultRegistry().Names() {
		m, err := DefaultRegistry().New(name)
		require.NoError(t, err)
		_, err = m.Compute(states)
		require.NoError(t, err)
	}
	assert.Equal(t, before, states)
}
