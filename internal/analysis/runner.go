package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeusync/swarmsim/internal/core/metrics"
	"github.com/zeusync/swarmsim/internal/core/models"
	"github.com/zeusync/swarmsim/internal/core/observability/log"
	"github.com/zeusync/swarmsim/pkg/concurrent"
	"github.com/zeusync/swarmsim/pkg/sequence"
)

const (
	DefaultBins       = 10
	DefaultHSESamples = 100
)

// Loader fetches one recorded trajectory.
type Loader interface {
	Load(ctx context.Context, path string) (*models.Tensor, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, path string) (*models.Tensor, error)

func (f LoaderFunc) Load(ctx context.Context, path string) (*models.Tensor, error) {
	return f(ctx, path)
}

// Runner computes pairwise MI and sampled HSE for a batch of recordings.
// Every file is an independent task; at most Workers run at once.
type Runner struct {
	Loader     Loader
	Workers    int
	NBins      int
	Field      models.Field
	HSESamples int
	GridSize   int
	Log        log.Log
}

func NewRunner(loader Loader, logger log.Log) *Runner {
	return &Runner{
		Loader:     loader,
		NBins:      DefaultBins,
		Field:      models.FieldVelocity,
		HSESamples: DefaultHSESamples,
		GridSize:   metrics.DefaultGridSize,
		Log:        logger,
	}
}

// FileResult holds everything computed from one recording.
type FileResult struct {
	Path  string
	Meta  models.RunMeta
	Pairs []metrics.PairRecord
	Mean  metrics.PairRecord
	HSE   []metrics.HSERecord
}

// Results hold one entry per distinct input path, in input order; use the
// accessors for a view ordered by policy and seed.
type Results struct {
	Files []FileResult
}

func (r *Results) sorted() []FileResult {
	return sequence.From(r.Files).Sort(func(a, b FileResult) bool {
		if a.Meta.Policy != b.Meta.Policy {
			return a.Meta.Policy < b.Meta.Policy
		}
		if a.Meta.Seed != b.Meta.Seed {
			return a.Meta.Seed < b.Meta.Seed
		}
		return a.Path < b.Path
	}).Collect()
}

// PairRecords concatenates every file's rows ordered by policy, then seed.
func (r *Results) PairRecords() []metrics.PairRecord {
	var out []metrics.PairRecord
	for _, f := range r.sorted() {
		out = append(out, f.Pairs...)
	}
	return out
}

// HSERecords concatenates every file's samples ordered by policy, then seed.
func (r *Results) HSERecords() []metrics.HSERecord {
	var out []metrics.HSERecord
	for _, f := range r.sorted() {
		out = append(out, f.HSE...)
	}
	return out
}

// ByPolicy groups file results by the policy named in their file names.
func (r *Results) ByPolicy() map[string][]FileResult {
	return sequence.GroupBy(sequence.From(r.sorted()), func(f FileResult) string { return f.Meta.Policy })
}

// Run analyzes every distinct non-empty path. The first failure cancels the
// batch and is returned; nothing is retried.
func (r *Runner) Run(ctx context.Context, paths []string) (*Results, error) {
	if r.Loader == nil {
		return nil, ErrNoLoader
	}
	logger := r.Log
	if logger == nil {
		logger = log.NewNop()
	}

	files := sequence.Distinct(sequence.From(paths).
		Filter(func(p string) bool { return strings.TrimSpace(p) != "" }))
	logger.Info("analysis started", log.Int("files", files.Count()), log.Int("workers", r.Workers))

	analyzed, err := concurrent.Map(ctx, files, r.Workers, func(ctx context.Context, path string) (FileResult, error) {
		res, err := r.analyze(ctx, path)
		if err != nil {
			return FileResult{}, err
		}
		logger.Debug("recording analyzed",
			log.String("path", path),
			log.Uint64("seed", res.Meta.Seed),
			log.Int("pairs", len(res.Pairs)),
			log.Float64("mean_mi", res.Mean.MI),
		)
		return res, nil
	})
	if err != nil {
		logger.Error("analysis aborted", log.Error(err))
		return nil, err
	}
	logger.Info("analysis finished", log.Int("files", len(analyzed)))
	return &Results{Files: analyzed}, nil
}

func (r *Runner) analyze(ctx context.Context, path string) (FileResult, error) {
	meta, err := ParseName(path)
	if err != nil {
		return FileResult{}, err
	}
	t, err := r.Loader.Load(ctx, path)
	if err != nil {
		return FileResult{}, fmt.Errorf("load %s: %w", path, err)
	}
	if t.Vehicles() != meta.Vehicles || t.Steps() != meta.Steps {
		return FileResult{}, fmt.Errorf("%w: %s holds (%d steps, %d vehicles)",
			ErrNameMismatch, path, t.Steps(), t.Vehicles())
	}

	seedID := int64(meta.Seed)
	pairs, err := metrics.PairwiseMI(seedID, t, r.Field, r.NBins)
	if err != nil {
		return FileResult{}, fmt.Errorf("mutual information %s: %w", path, err)
	}
	hse, err := metrics.HSESeries(seedID, t, r.HSESamples, metrics.NewHSE(r.GridSize))
	if err != nil {
		return FileResult{}, fmt.Errorf("hse %s: %w", path, err)
	}
	return FileResult{
		Path:  path,
		Meta:  meta,
		Pairs: pairs,
		Mean:  metrics.MeanPairRecord(pairs),
		HSE:   hse,
	}, nil
}
