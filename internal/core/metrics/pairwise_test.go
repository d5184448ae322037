package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/swarmsim/internal/core/models"
)

// tensorFromVelocities builds a recording whose only varying field is the
// velocity; series[v][t] is the velocity of vehicle v at step t.
func tensorFromVelocities(t *testing.T, series [][]float64) *models.Tensor {
	t.Helper()
	steps := len(series[0])
	history := make([][]models.State, steps)
	for step := range history {
		history[step] = make([]models.State, len(series))
		for v := range series {
			history[step][v] = models.State{X: 0.5, Y: 0.5, Velocity: series[v][step]}
		}
	}
	tensor, err := models.TensorFromStates(history)
	require.NoError(t, err)
	return tensor
}

func TestPairwiseMICoversAllUnorderedPairs(t *testing.T) {
	tensor := tensorFromVelocities(t, [][]float64{
		{0, 0, 0.5, 0.5},
		{0, 0.5, 0, 0.5},
		{0, 0, 0.5, 0.5},
		{0.2, 0.2, 0.2, 0.2},
	})

	records, err := PairwiseMI(17, tensor, models.FieldVelocity, 2)
	require.NoError(t, err)
	require.Len(t, records, 6)

	pairs := make([][2]int64, len(records))
	for i, r := range records {
		assert.Equal(t, int64(17), r.SeedID)
		pairs[i] = [2]int64{r.VehicleA, r.VehicleB}
	}
	assert.Equal(t, [][2]int64{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}, pairs)

	assert.Equal(t, 0.0, records[0].MI, "0 and 1 are independent")
	assert.Equal(t, 1.0, records[1].MI, "0 and 2 are identical")
	assert.Equal(t, 1.0, records[1].MINormalized)
	assert.Equal(t, 0.0, records[2].MI, "3 is constant")
	assert.Equal(t, 0.0, records[2].MINormalized)
}

func TestPairwiseMIRejectsUnnormalizedField(t *testing.T) {
	tensor := tensorFromVelocities(t, [][]float64{{0, 1.5}, {0, 0}})
	_, err := PairwiseMI(1, tensor, models.FieldVelocity, 4)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestPairwiseMIAngleIsNormalized(t *testing.T) {
	history := [][]models.State{
		{{Angle: 0}, {Angle: 3}},
		{{Angle: 6}, {Angle: 1}},
	}
	tensor, err := models.TensorFromStates(history)
	require.NoError(t, err)
	records, err := PairwiseMI(1, tensor, models.FieldAngle, 4)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1.0, records[0].Hx)
}

func TestMeanPairRecord(t *testing.T) {
	mean := MeanPairRecord([]PairRecord{
		{SeedID: 3, VehicleA: 0, VehicleB: 1, Hx: 1, MI: 0.5},
		{SeedID: 3, VehicleA: 0, VehicleB: 2, Hx: 3, MI: 1.5},
	})
	assert.Equal(t, int64(3), mean.SeedID)
	assert.Equal(t, 2.0, mean.Hx)
	assert.Equal(t, 1.0, mean.MI)
	assert.Equal(t, PairRecord{}, MeanPairRecord(nil))
}
