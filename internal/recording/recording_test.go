package recording

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/swarmsim/internal/core/metrics"
	"github.com/zeusync/swarmsim/internal/core/models"
)

func sampleTensor(t *testing.T, steps, vehicles int) *models.Tensor {
	t.Helper()
	history := make([][]models.State, steps)
	for s := range history {
		history[s] = make([]models.State, vehicles)
		for v := range history[s] {
			history[s][v] = models.State{
				X:        float64(s) / float64(steps),
				Y:        float64(v) / float64(vehicles),
				Angle:    float64(s*vehicles+v) * 0.01,
				Velocity: 0.5,
			}
		}
	}
	tensor, err := models.TensorFromStates(history)
	require.NoError(t, err)
	return tensor
}

func TestTrajectoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "Policy_Boids_3agents_40steps_9seed.parquet")
	tensor := sampleTensor(t, 40, 3)
	meta := models.RunMeta{Policy: "Policy_Boids", Vehicles: 3, Steps: 40, Seed: 9}

	require.NoError(t, Write(path, meta, tensor))
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")

	got, gotMeta, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, meta, gotMeta)
	assert.Equal(t, tensor.Fingerprint(), got.Fingerprint())
	assert.Equal(t, tensor.Snapshot(39), got.Snapshot(39))

	loaded, err := Loader{}.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, tensor.Fingerprint(), loaded.Fingerprint())
}

func TestReadDetectsTampering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tampered.parquet")
	tensor := sampleTensor(t, 5, 2)

	rows := make([]Row, tensor.Steps())
	for s := range rows {
		rows[s] = Row{Step: int32(s), Values: tensor.Row(s)}
	}
	rows[2].Values[0] = 0.999
	require.NoError(t, parquet.WriteFile(path, rows,
		parquet.KeyValueMetadata(keySchema, SchemaTrajectory),
		parquet.KeyValueMetadata(keyPolicy, "Policy"),
		parquet.KeyValueMetadata(keyVehicles, "2"),
		parquet.KeyValueMetadata(keySteps, "5"),
		parquet.KeyValueMetadata(keySeed, "1"),
		parquet.KeyValueMetadata(keyFingerprint, "abc"),
	))

	_, _, err := Read(path)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestReadRejectsWrongSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hse.parquet")
	require.NoError(t, WriteHSERecords(path, []metrics.HSERecord{{SeedID: 1, TimeStep: 0, HSE: 1}}))

	_, _, err := Read(path)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestReadMissingFile(t *testing.T) {
	_, _, err := Read(filepath.Join(t.TempDir(), "absent.parquet"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoaderHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Loader{}.Load(ctx, "whatever.parquet")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResultTables(t *testing.T) {
	dir := t.TempDir()
	pairs := []metrics.PairRecord{
		{SeedID: 4, VehicleA: 0, VehicleB: 1, Hx: 1, Hy: 1, Hxy: 2},
		{SeedID: 4, VehicleA: 0, VehicleB: 2, Hx: 2, Hy: 2, Hxy: 2, MI: 2, MINormalized: 1},
	}
	hse := []metrics.HSERecord{{SeedID: 4, TimeStep: 0, HSE: 0.5}, {SeedID: 4, TimeStep: 10, HSE: 1.5}}

	pairPath := filepath.Join(dir, "mi.parquet")
	hsePath := filepath.Join(dir, "hse.parquet")
	require.NoError(t, WritePairRecords(pairPath, pairs))
	require.NoError(t, WriteHSERecords(hsePath, hse))

	gotPairs, err := ReadPairRecords(pairPath)
	require.NoError(t, err)
	assert.Equal(t, pairs, gotPairs)

	gotHSE, err := ReadHSERecords(hsePath)
	require.NoError(t, err)
	assert.Equal(t, hse, gotHSE)

	_, err = ReadHSERecords(pairPath)
	assert.ErrorIs(t, err, ErrSchema)
}
