package analysis

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/swarmsim/internal/core/models"
	"github.com/zeusync/swarmsim/internal/recording"
)

// fakeTensor has vehicles whose velocities alternate with period 2, shifted
// by vehicle index, so vehicles of equal parity move identically.
func fakeTensor(steps, vehicles int) *models.Tensor {
	history := make([][]models.State, steps)
	for s := range history {
		history[s] = make([]models.State, vehicles)
		for v := range history[s] {
			history[s][v] = models.State{
				X:        0.05 + 0.1*float64(v%10),
				Y:        0.5,
				Velocity: 0.25 + 0.5*float64((s+v)%2),
			}
		}
	}
	t, err := models.TensorFromStates(history)
	if err != nil {
		panic(err)
	}
	return t
}

func fakeLoader() LoaderFunc {
	return func(_ context.Context, path string) (*models.Tensor, error) {
		meta, err := ParseName(path)
		if err != nil {
			return nil, err
		}
		return fakeTensor(meta.Steps, meta.Vehicles), nil
	}
}

func TestRunnerComputesPerFileResults(t *testing.T) {
	r := NewRunner(fakeLoader(), nil)
	r.Workers = 2
	r.NBins = 2

	paths := []string{
		"Policy_Boids_3agents_20steps_2seed.parquet",
		"Policy_3agents_20steps_1seed.parquet",
		"Policy_3agents_20steps_1seed.parquet",
		"",
	}
	res, err := r.Run(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	assert.Equal(t, paths[0], res.Files[0].Path, "files keep input order")
	assert.Equal(t, paths[1], res.Files[1].Path)

	pairs := res.PairRecords()
	require.Len(t, pairs, 6)
	assert.Equal(t, int64(1), pairs[0].SeedID, "Policy sorts before Policy_Boids")
	assert.Equal(t, int64(2), pairs[3].SeedID)

	// 0 and 2 share parity, 1 is their complement: all pairs fully informative.
	for _, p := range pairs {
		assert.Equal(t, 1.0, p.MI)
		assert.Equal(t, 1.0, p.MINormalized)
	}

	hse := res.HSERecords()
	require.Len(t, hse, 40, "20 steps sampled fully per file")
	assert.Equal(t, int64(19), hse[19].TimeStep)

	byPolicy := res.ByPolicy()
	require.Len(t, byPolicy["Policy"], 1)
	assert.Equal(t, 1.0, byPolicy["Policy"][0].Mean.MI)
}

func TestRunnerHSEStride(t *testing.T) {
	r := NewRunner(fakeLoader(), nil)
	res, err := r.Run(context.Background(), []string{"Policy_2agents_1000steps_5seed.parquet"})
	require.NoError(t, err)

	hse := res.HSERecords()
	require.Len(t, hse, DefaultHSESamples)
	assert.Equal(t, int64(10), hse[1].TimeStep)
	assert.Equal(t, int64(990), hse[99].TimeStep)
}

func TestRunnerAbortsOnFirstError(t *testing.T) {
	boom := errors.New("disk on fire")
	loader := LoaderFunc(func(ctx context.Context, path string) (*models.Tensor, error) {
		if filepath.Base(path) == "Policy_2agents_10steps_3seed.parquet" {
			return nil, boom
		}
		return fakeLoader()(ctx, path)
	})
	r := NewRunner(loader, nil)
	r.Workers = 1

	paths := make([]string, 0, 6)
	for seed := 1; seed <= 6; seed++ {
		paths = append(paths, fmt.Sprintf("Policy_2agents_10steps_%dseed.parquet", seed))
	}
	_, err := r.Run(context.Background(), paths)
	assert.ErrorIs(t, err, boom)
}

func TestRunnerRejectsBadInputs(t *testing.T) {
	r := NewRunner(fakeLoader(), nil)

	_, err := r.Run(context.Background(), []string{"notes.txt"})
	assert.ErrorIs(t, err, ErrBadName)

	liar := LoaderFunc(func(context.Context, string) (*models.Tensor, error) {
		return fakeTensor(5, 2), nil
	})
	r.Loader = liar
	_, err = r.Run(context.Background(), []string{"Policy_3agents_5steps_1seed.parquet"})
	assert.ErrorIs(t, err, ErrNameMismatch)

	_, err = (&Runner{}).Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoLoader)
}

func TestRunnerOverParquetRecordings(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for seed := uint64(1); seed <= 3; seed++ {
		meta := models.RunMeta{Policy: "Policy_Random", Vehicles: 4, Steps: 30, Seed: seed}
		path := filepath.Join(dir, FormatName(meta, ""))
		require.NoError(t, recording.Write(path, meta, fakeTensor(meta.Steps, meta.Vehicles)))
		paths = append(paths, path)
	}

	r := NewRunner(recording.Loader{}, nil)
	r.Workers = 3
	res, err := r.Run(context.Background(), paths)
	require.NoError(t, err)
	assert.Len(t, res.PairRecords(), 3*6)
	assert.Len(t, res.HSERecords(), 3*30)
}
