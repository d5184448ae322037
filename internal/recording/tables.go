package recording

import (
	"fmt"

	"github.com/parquet-go/parquet-go"

	"github.com/zeusync/swarmsim/internal/core/metrics"
)

// WritePairRecords stores pairwise information rows with the historical
// column names (Seed, Vehicle_A, ..., MI_xy_Normalized).
func WritePairRecords(path string, records []metrics.PairRecord) error {
	return writeAtomic(path, records, parquet.KeyValueMetadata(keySchema, SchemaPairwiseMI))
}

func ReadPairRecords(path string) ([]metrics.PairRecord, error) {
	return readTable[metrics.PairRecord](path, SchemaPairwiseMI)
}

// WriteHSERecords stores sampled dispersion rows (Seed, Time, HSE).
func WriteHSERecords(path string, records []metrics.HSERecord) error {
	return writeAtomic(path, records, parquet.KeyValueMetadata(keySchema, SchemaHSE))
}

func ReadHSERecords(path string) ([]metrics.HSERecord, error) {
	return readTable[metrics.HSERecord](path, SchemaHSE)
}

func readTable[T any](path, schema string) ([]T, error) {
	f, pf, err := open(path, schema)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := readRows[T](pf)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}
