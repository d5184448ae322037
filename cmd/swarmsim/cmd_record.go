package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/zeusync/swarmsim/internal/analysis"
	"github.com/zeusync/swarmsim/internal/config"
	"github.com/zeusync/swarmsim/internal/core/models"
	"github.com/zeusync/swarmsim/internal/core/observability/log"
	"github.com/zeusync/swarmsim/internal/core/policy"
	"github.com/zeusync/swarmsim/internal/injector"
	"github.com/zeusync/swarmsim/internal/recording"
	"github.com/zeusync/swarmsim/pkg/concurrent"
	"github.com/zeusync/swarmsim/pkg/sequence"
)

const defaultRecordSteps = 10000

type recordJob struct {
	policy string
	seed   uint64
}

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record trajectories for a grid of policies and seeds",
		Long: `record runs one headless simulation per (policy, seed) pair and writes each
trajectory to <out>/<policy>_<N>agents_<T>steps_<seed>seed.parquet.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applySimulationFlags(cmd, &cfg)
			cfg.Driver.TickDelay = 0
			if cfg.Driver.MaxSteps <= 0 {
				cfg.Driver.MaxSteps = defaultRecordSteps
			}

			policies := policy.DefaultRegistry().Names()
			if cmd.Flags().Changed("policies") {
				policies, _ = cmd.Flags().GetStringSlice("policies")
			}
			seeds, _ := cmd.Flags().GetInt("seeds")
			out, _ := cmd.Flags().GetString("out")
			if cmd.Flags().Changed("workers") {
				cfg.Analysis.Workers, _ = cmd.Flags().GetInt("workers")
			}

			if seeds > 0 && cfg.World.Seed > analysis.MaxSeed-uint64(seeds-1) {
				return fmt.Errorf("%w: seeds %d..%d+%d exceed %d",
					analysis.ErrBadName, cfg.World.Seed, cfg.World.Seed, seeds-1, uint64(analysis.MaxSeed))
			}

			var jobs []recordJob
			for _, p := range policies {
				for i := 0; i < seeds; i++ {
					jobs = append(jobs, recordJob{policy: strings.TrimSpace(p), seed: cfg.World.Seed + uint64(i)})
				}
			}

			logger := log.NewWithConfig(cfg.Log)
			defer func() { _ = logger.Sync() }()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			var outMu sync.Mutex
			err = concurrent.ForEach(ctx, sequence.From(jobs), cfg.Analysis.Workers, func(ctx context.Context, job recordJob) error {
				path, err := recordOne(ctx, cfg, job, out, logger)
				if err != nil {
					return fmt.Errorf("%s seed %d: %w", job.policy, job.seed, err)
				}
				outMu.Lock()
				fmt.Fprintln(cmd.OutOrStdout(), path)
				outMu.Unlock()
				return nil
			})
			if err != nil {
				logger.Error("recording failed", log.Error(err))
			}
			return err
		},
	}
	addSimulationFlags(cmd)
	cmd.Flags().StringSlice("policies", nil, "Policies to record (default all)")
	cmd.Flags().Int("seeds", 1, "Number of consecutive seeds per policy, starting at --seed")
	cmd.Flags().String("out", "data", "Output directory")
	cmd.Flags().Int("workers", 0, "Concurrent recordings (0 = one per job)")
	return cmd
}

func recordOne(ctx context.Context, base config.Config, job recordJob, out string, logger log.Log) (string, error) {
	cfg := base
	cfg.Policy.Name = job.policy
	cfg.Policy.Seed = job.seed
	cfg.World.Seed = job.seed
	meta := models.RunMeta{
		Policy:   job.policy,
		Vehicles: cfg.World.Vehicles,
		Steps:    cfg.Driver.MaxSteps,
		Seed:     job.seed,
	}
	name := analysis.FormatName(meta, analysis.DefaultExt)
	// log lines of this run carry the recording's name
	cfg.Driver.RunID = strings.TrimSuffix(name, "."+analysis.DefaultExt)
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	w, err := injector.ProvideWorld(cfg, logger)
	if err != nil {
		return "", err
	}
	p, err := injector.ProvidePolicy(cfg, w)
	if err != nil {
		return "", err
	}
	m, err := injector.ProvideMetric(cfg)
	if err != nil {
		return "", err
	}
	b, release := injector.ProvideBus(cfg, logger)
	defer release()
	rec := injector.ProvideRecorder(cfg)
	d, err := injector.ProvideDriver(cfg, w, p, m, b, rec, logger)
	if err != nil {
		return "", err
	}
	if err := d.Run(ctx); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tensor, err := rec.Tensor()
	if err != nil {
		return "", err
	}
	if tensor.Vehicles() != meta.Vehicles || tensor.Steps() != meta.Steps {
		return "", fmt.Errorf("%w: recorded (%d steps, %d vehicles) for %s",
			analysis.ErrNameMismatch, tensor.Steps(), tensor.Vehicles(), name)
	}
	path := filepath.Join(out, name)
	if err := recording.Write(path, meta, tensor); err != nil {
		return "", err
	}
	return path, nil
}
