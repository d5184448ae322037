package recording

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/zeusync/swarmsim/internal/core/models"
)

const (
	SchemaTrajectory = "swarm_trajectory_v1"
	SchemaPairwiseMI = "swarm_pairwise_mi_v1"
	SchemaHSE        = "swarm_hse_v1"
)

const (
	keySchema      = "schema"
	keyPolicy      = "policy"
	keyVehicles    = "vehicles"
	keySteps       = "steps"
	keySeed        = "seed"
	keyFingerprint = "fingerprint"
)

// Row is one time step of a trajectory: the flattened (x, y, angle,
// velocity) of every vehicle in index order.
type Row struct {
	Step   int32     `parquet:"step"`
	Values []float64 `parquet:"values"`
}

func compression() parquet.WriterOption {
	return parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression})
}

// Write stores a trajectory as one parquet row per time step. The file is
// written next to path and renamed into place, so readers never observe a
// partial recording.
func Write(path string, meta models.RunMeta, t *models.Tensor) error {
	rows := make([]Row, t.Steps())
	for step := range rows {
		rows[step] = Row{Step: int32(step), Values: t.Row(step)}
	}
	return writeAtomic(path, rows,
		parquet.KeyValueMetadata(keySchema, SchemaTrajectory),
		parquet.KeyValueMetadata(keyPolicy, meta.Policy),
		parquet.KeyValueMetadata(keyVehicles, strconv.Itoa(t.Vehicles())),
		parquet.KeyValueMetadata(keySteps, strconv.Itoa(t.Steps())),
		parquet.KeyValueMetadata(keySeed, strconv.FormatUint(meta.Seed, 10)),
		parquet.KeyValueMetadata(keyFingerprint, strconv.FormatUint(t.Fingerprint(), 16)),
	)
}

// Read loads a trajectory written by Write, checking its shape against the
// embedded metadata and its values against the stored fingerprint.
func Read(path string) (*models.Tensor, models.RunMeta, error) {
	f, pf, err := open(path, SchemaTrajectory)
	if err != nil {
		return nil, models.RunMeta{}, err
	}
	defer f.Close()

	meta, fingerprint, err := readMeta(pf)
	if err != nil {
		return nil, models.RunMeta{}, fmt.Errorf("%s: %w", path, err)
	}
	rows, err := readRows[Row](pf)
	if err != nil {
		return nil, models.RunMeta{}, fmt.Errorf("read %s: %w", path, err)
	}

	values := make([][]float64, len(rows))
	for i, row := range rows {
		if int(row.Step) != i {
			return nil, models.RunMeta{}, fmt.Errorf("%w: %s: row %d has step %d", ErrCorrupt, path, i, row.Step)
		}
		values[i] = row.Values
	}

	t, err := models.TensorFromRows(values)
	if err != nil {
		return nil, models.RunMeta{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	if t.Steps() != meta.Steps || t.Vehicles() != meta.Vehicles {
		return nil, models.RunMeta{}, fmt.Errorf("%w: %s: shape (%d, %d), metadata says (%d, %d)",
			ErrCorrupt, path, t.Steps(), t.Vehicles(), meta.Steps, meta.Vehicles)
	}
	if t.Fingerprint() != fingerprint {
		return nil, models.RunMeta{}, fmt.Errorf("%w: %s: fingerprint mismatch", ErrCorrupt, path)
	}
	return t, meta, nil
}

// open returns the file and its parquet view; the caller closes f.
func open(path, schema string) (*os.File, *parquet.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	pf, err := openParquet(f, path, schema)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return f, pf, nil
}

func openParquet(f *os.File, path, schema string) (*parquet.File, error) {
	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	if got, _ := pf.Lookup(keySchema); got != schema {
		return nil, fmt.Errorf("%w: %s has %q, want %q", ErrSchema, path, got, schema)
	}
	return pf, nil
}

func readRows[T any](pf *parquet.File) ([]T, error) {
	reader := parquet.NewGenericReader[T](pf)
	defer reader.Close()

	total := int(reader.NumRows())
	rows := make([]T, total)
	read := 0
	for read < total {
		n, err := reader.Read(rows[read:])
		read += n
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	return rows[:read], nil
}

func readMeta(pf *parquet.File) (models.RunMeta, uint64, error) {
	var meta models.RunMeta
	policy, ok := pf.Lookup(keyPolicy)
	if !ok {
		return meta, 0, fmt.Errorf("%w: missing %q metadata", ErrCorrupt, keyPolicy)
	}
	meta.Policy = policy

	vehicles, err := lookupUint(pf, keyVehicles, 10)
	if err != nil {
		return meta, 0, err
	}
	steps, err := lookupUint(pf, keySteps, 10)
	if err != nil {
		return meta, 0, err
	}
	if meta.Seed, err = lookupUint(pf, keySeed, 10); err != nil {
		return meta, 0, err
	}
	fingerprint, err := lookupUint(pf, keyFingerprint, 16)
	if err != nil {
		return meta, 0, err
	}
	meta.Vehicles = int(vehicles)
	meta.Steps = int(steps)
	return meta, fingerprint, nil
}

func lookupUint(pf *parquet.File, key string, base int) (uint64, error) {
	s, ok := pf.Lookup(key)
	if !ok {
		return 0, fmt.Errorf("%w: missing %q metadata", ErrCorrupt, key)
	}
	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q metadata: %v", ErrCorrupt, key, err)
	}
	return v, nil
}

// Loader reads trajectories from the local filesystem.
type Loader struct{}

func (Loader) Load(ctx context.Context, path string) (*models.Tensor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, _, err := Read(path)
	return t, err
}

func writeAtomic[T any](path string, rows []T, opts ...parquet.WriterOption) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	opts = append([]parquet.WriterOption{compression()}, opts...)
	if err := parquet.WriteFile(tmpPath, rows, opts...); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}
