package analysis

import (
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/zeusync/swarmsim/internal/core/models"
)

const DefaultExt = "parquet"

// MaxSeed is the largest seed a recording name may carry. Result records
// label rows with a signed 64-bit seed.
const MaxSeed = math.MaxInt64

var namePattern = regexp.MustCompile(`^(.+)_(\d+)agents_(\d+)steps_(\d+)seed\.([^.]+)$`)

// ParseName extracts run metadata from a recording path. Only the base name
// is inspected.
func ParseName(path string) (models.RunMeta, error) {
	base := filepath.Base(path)
	m := namePattern.FindStringSubmatch(base)
	if m == nil {
		return models.RunMeta{}, fmt.Errorf("%w: %q", ErrBadName, base)
	}
	vehicles, err := strconv.Atoi(m[2])
	if err != nil {
		return models.RunMeta{}, fmt.Errorf("%w: %q: %v", ErrBadName, base, err)
	}
	steps, err := strconv.Atoi(m[3])
	if err != nil {
		return models.RunMeta{}, fmt.Errorf("%w: %q: %v", ErrBadName, base, err)
	}
	seed, err := strconv.ParseUint(m[4], 10, 63)
	if err != nil {
		return models.RunMeta{}, fmt.Errorf("%w: %q: %v", ErrBadName, base, err)
	}
	return models.RunMeta{Policy: m[1], Vehicles: vehicles, Steps: steps, Seed: seed}, nil
}

// FormatName is the inverse of ParseName.
func FormatName(meta models.RunMeta, ext string) string {
	if ext == "" {
		ext = DefaultExt
	}
	return fmt.Sprintf("%s_%dagents_%dsteps_%dseed.%s", meta.Policy, meta.Vehicles, meta.Steps, meta.Seed, ext)
}
