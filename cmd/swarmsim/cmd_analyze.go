package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zeusync/swarmsim/internal/analysis"
	"github.com/zeusync/swarmsim/internal/core/metrics"
	"github.com/zeusync/swarmsim/internal/core/observability/log"
	"github.com/zeusync/swarmsim/internal/recording"
)

const (
	pairwiseFile = "pairwise_mi.parquet"
	hseFile      = "hse.parquet"
)

// policySummary is one line of the analyze report.
type policySummary struct {
	Policy       string  `json:"policy"`
	Files        int     `json:"files"`
	MI           float64 `json:"mi"`
	MINormalized float64 `json:"mi_normalized"`
	HSE          float64 `json:"hse"`
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <recording|glob>...",
		Short: "Compute pairwise mutual information and HSE over recordings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("bins") {
				cfg.Analysis.Bins, _ = f.GetInt("bins")
			}
			if f.Changed("field") {
				cfg.Analysis.Field, _ = f.GetString("field")
			}
			if f.Changed("samples") {
				cfg.Analysis.HSESamples, _ = f.GetInt("samples")
			}
			if f.Changed("workers") {
				cfg.Analysis.Workers, _ = f.GetInt("workers")
			}
			if f.Changed("out") {
				cfg.Analysis.OutputDir, _ = f.GetString("out")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			paths, err := expandPaths(args)
			if err != nil {
				return err
			}

			logger := log.NewWithConfig(cfg.Log)
			defer func() { _ = logger.Sync() }()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			runner := analysis.NewRunner(recording.Loader{}, logger)
			runner.Workers = cfg.Analysis.Workers
			runner.NBins = cfg.Analysis.Bins
			runner.Field = cfg.Field()
			runner.HSESamples = cfg.Analysis.HSESamples
			runner.GridSize = cfg.Analysis.GridSize

			res, err := runner.Run(ctx, paths)
			if err != nil {
				return err
			}

			out := cfg.Analysis.OutputDir
			if err := recording.WritePairRecords(filepath.Join(out, pairwiseFile), res.PairRecords()); err != nil {
				return err
			}
			if err := recording.WriteHSERecords(filepath.Join(out, hseFile), res.HSERecords()); err != nil {
				return err
			}
			logger.Info("results written", log.String("dir", out), log.Int("files", len(res.Files)))

			summaries := summarize(res)
			if jsonOut, _ := f.GetBool("json"); jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(summaries)
			}
			return printSummaries(cmd.OutOrStdout(), summaries)
		},
	}
	cmd.Flags().Int("bins", 0, "Discretization bins for mutual information")
	cmd.Flags().String("field", "", "State field for mutual information: pos_x, pos_y, angle or velocity")
	cmd.Flags().Int("samples", 0, "HSE samples per recording")
	cmd.Flags().Int("workers", 0, "Concurrent files (0 = one per file)")
	cmd.Flags().String("out", "", "Directory for result tables")
	cmd.Flags().Bool("json", false, "Output summary as JSON")
	return cmd
}

// expandPaths resolves glob patterns; arguments without matches are kept
// verbatim so the loader reports them.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			paths = append(paths, arg)
			continue
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

func summarize(res *analysis.Results) []policySummary {
	var out []policySummary
	for name, files := range res.ByPolicy() {
		s := policySummary{Policy: name, Files: len(files)}
		var pairs []metrics.PairRecord
		var hseSum float64
		var hseCount int
		for _, f := range files {
			pairs = append(pairs, f.Pairs...)
			for _, h := range f.HSE {
				hseSum += h.HSE
				hseCount++
			}
		}
		mean := metrics.MeanPairRecord(pairs)
		s.MI = mean.MI
		s.MINormalized = mean.MINormalized
		if hseCount > 0 {
			s.HSE = hseSum / float64(hseCount)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Policy < out[j].Policy })
	return out
}

func printSummaries(w io.Writer, summaries []policySummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POLICY\tFILES\tMI\tMI_NORM\tHSE")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%.4f\n", s.Policy, s.Files, s.MI, s.MINormalized, s.HSE)
	}
	return tw.Flush()
}
