package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/swarmsim/internal/core/models"
	"github.com/zeusync/swarmsim/internal/core/systems/physics"
)

func gridPositions(side int) []physics.Vec2 {
	out := make([]physics.Vec2, 0, side*side)
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			out = append(out, physics.Vec2{
				Xv: (float64(i) + 0.5) / float64(side),
				Yv: (float64(j) + 0.5) / float64(side),
			})
		}
	}
	return out
}

func TestHSEDispersionOrdering(t *testing.T) {
	h := NewHSE(10)
	spread := gridPositions(5)
	collapsed := make([]physics.Vec2, len(spread))
	for i := range collapsed {
		collapsed[i] = physics.Vec2{Xv: 0.42, Yv: 0.42}
	}

	hs, err := h.Of(spread)
	require.NoError(t, err)
	hc, err := h.Of(collapsed)
	require.NoError(t, err)

	assert.InDelta(t, math.Log2(25), hs, 1e-12, "one vehicle per cell")
	assert.Equal(t, 0.0, hc)
	assert.Greater(t, hs, hc)
}

func TestHSERejectsOutOfSquare(t *testing.T) {
	_, err := NewHSE(10).Of([]physics.Vec2{{Xv: 1.2, Yv: 0.5}})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestNewHSEDefaultsGrid(t *testing.T) {
	assert.Equal(t, DefaultGridSize, NewHSE(0).GridSize)
}

func TestHSESeriesStride(t *testing.T) {
	history := make([][]models.State, 250)
	for step := range history {
		history[step] = []models.State{{X: 0.1, Y: 0.1}, {X: 0.9, Y: 0.9}}
	}
	tensor, err := models.TensorFromStates(history)
	require.NoError(t, err)

	records, err := HSESeries(5, tensor, 100, NewHSE(10))
	require.NoError(t, err)
	require.Len(t, records, 100)
	assert.Equal(t, int64(0), records[0].TimeStep)
	assert.Equal(t, int64(2), records[1].TimeStep)
	assert.Equal(t, int64(198), records[99].TimeStep)
	for _, r := range records {
		assert.Equal(t, int64(5), r.SeedID)
		assert.Equal(t, 1.0, r.HSE)
	}
}

func TestHSESeriesShortRecording(t *testing.T) {
	history := make([][]models.State, 7)
	for step := range history {
		history[step] = []models.State{{X: 0.5, Y: 0.5}}
	}
	tensor, err := models.TensorFromStates(history)
	require.NoError(t, err)

	records, err := HSESeries(1, tensor, 100, NewHSE(10))
	require.NoError(t, err)
	require.Len(t, records, 7)
	assert.Equal(t, int64(6), records[6].TimeStep)
}
