package metrics

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscretize(t *testing.T) {
	got, err := Discretize([]float64{0, 0.09, 0.1, 0.55, 0.999, 1}, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 5, 9, 9}, got)

	_, err = Discretize([]float64{0.5, 1.01}, 10)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = Discretize([]float64{-0.01}, 10)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = Discretize([]float64{math.NaN()}, 10)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = Discretize([]float64{0.5}, 0)
	assert.ErrorIs(t, err, ErrInvalidBins)
}

func TestInvestigateIndependentBits(t *testing.T) {
	// two velocity series in 2 bins
	x, err := Discretize([]float64{0, 0, 0.5, 0.5}, 2)
	require.NoError(t, err)
	y, err := Discretize([]float64{0, 0.5, 0, 0.5}, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 1}, x)
	assert.Equal(t, []int{0, 1, 0, 1}, y)

	info, err := Investigate(x, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, info.Hx)
	assert.Equal(t, 1.0, info.Hy)
	assert.Equal(t, 2.0, info.Hxy)
	assert.Equal(t, 1.0, info.HyGivenX)
	assert.Equal(t, 1.0, info.HxGivenY)
	assert.Equal(t, 0.0, info.MI)
	assert.Equal(t, 0.0, info.MINormalized)
}

func TestInvestigateIdenticalSeries(t *testing.T) {
	x := []int{0, 1, 2, 3}
	info, err := Investigate(x, x)
	require.NoError(t, err)
	assert.Equal(t, 2.0, info.Hx)
	assert.Equal(t, 2.0, info.Hy)
	assert.Equal(t, 2.0, info.Hxy)
	assert.Equal(t, 2.0, info.MI)
	assert.Equal(t, 1.0, info.MINormalized)
}

func TestInvestigateLengthMismatch(t *testing.T) {
	_, err := Investigate([]int{1, 2, 3}, []int{1, 2})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestConstantSeriesCarriesNoInformation(t *testing.T) {
	x := []int{3, 3, 3, 3, 3}
	y := []int{0, 1, 2, 1, 0}
	info, err := Investigate(x, y)
	require.NoError(t, err)
	assert.Equal(t, 0.0, info.Hx)
	assert.Equal(t, 0.0, info.MI)
	assert.Equal(t, 0.0, info.MINormalized, "zero minimum entropy is defined as 0")
}

func randomSeries(rng *rand.Rand, n, values int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = rng.IntN(values)
	}
	return out
}

func TestInformationProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.IntN(60)
		x := randomSeries(rng, n, 1+rng.IntN(6))
		y := randomSeries(rng, n, 1+rng.IntN(6))

		xy, err := Investigate(x, y)
		require.NoError(t, err)
		yx, err := Investigate(y, x)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, xy.Hxy, xy.Hx-1e-12, "joint dominates H(X)")
		assert.GreaterOrEqual(t, xy.Hxy, xy.Hy-1e-12, "joint dominates H(Y)")
		assert.Equal(t, xy.MI, yx.MI, "symmetry")
		assert.GreaterOrEqual(t, xy.MI, 0.0)
		assert.InDelta(t, xy.Hy-xy.HyGivenX, xy.MI, 1e-9)
		assert.LessOrEqual(t, xy.MINormalized, 1.0+1e-9)
	}
}

func TestEntropyEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Entropy(nil))
	h, err := JointEntropy(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, h)
}
