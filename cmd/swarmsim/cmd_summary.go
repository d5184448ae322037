package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zeusync/swarmsim/internal/core/metrics"
	"github.com/zeusync/swarmsim/internal/recording"
	"github.com/zeusync/swarmsim/pkg/sequence"
)

// seedSummary is one line of the summary report.
type seedSummary struct {
	Seed         int64   `json:"seed"`
	Pairs        int     `json:"pairs"`
	MI           float64 `json:"mi"`
	MINormalized float64 `json:"mi_normalized"`
	Samples      int     `json:"samples"`
	HSE          float64 `json:"hse"`
}

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary [results-dir]",
		Short: "Summarize result tables written by analyze, per seed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			dir := cfg.Analysis.OutputDir
			if len(args) == 1 {
				dir = args[0]
			}

			pairs, err := recording.ReadPairRecords(filepath.Join(dir, pairwiseFile))
			if err != nil {
				return err
			}
			hse, err := recording.ReadHSERecords(filepath.Join(dir, hseFile))
			if err != nil {
				return err
			}

			summaries := summarizeTables(pairs, hse)
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(summaries)
			}
			return printSeedSummaries(cmd.OutOrStdout(), summaries)
		},
	}
	cmd.Flags().Bool("json", false, "Output summary as JSON")
	return cmd
}

func summarizeTables(pairs []metrics.PairRecord, hse []metrics.HSERecord) []seedSummary {
	bySeed := make(map[int64]*seedSummary)
	get := func(seed int64) *seedSummary {
		s, ok := bySeed[seed]
		if !ok {
			s = &seedSummary{Seed: seed}
			bySeed[seed] = s
		}
		return s
	}

	for seed, rows := range sequence.GroupBy(sequence.From(pairs), func(r metrics.PairRecord) int64 { return r.SeedID }) {
		mean := metrics.MeanPairRecord(rows)
		s := get(seed)
		s.Pairs = len(rows)
		s.MI = mean.MI
		s.MINormalized = mean.MINormalized
	}
	for seed, rows := range sequence.GroupBy(sequence.From(hse), func(r metrics.HSERecord) int64 { return r.SeedID }) {
		s := get(seed)
		var sum float64
		for _, r := range rows {
			sum += r.HSE
		}
		s.Samples = len(rows)
		s.HSE = sum / float64(len(rows))
	}

	out := make([]seedSummary, 0, len(bySeed))
	for _, s := range bySeed {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seed < out[j].Seed })
	return out
}

func printSeedSummaries(w io.Writer, summaries []seedSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEED\tPAIRS\tMI\tMI_NORM\tSAMPLES\tHSE")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%d\t%d\t%.4f\t%.4f\t%d\t%.4f\n", s.Seed, s.Pairs, s.MI, s.MINormalized, s.Samples, s.HSE)
	}
	return tw.Flush()
}
