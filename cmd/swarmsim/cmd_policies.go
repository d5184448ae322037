package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zeusync/swarmsim/internal/core/metrics"
	"github.com/zeusync/swarmsim/internal/core/policy"
)

func newPoliciesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policies",
		Short: "List registered policies and online metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			policies := policy.DefaultRegistry().Names()
			metricNames := metrics.DefaultRegistry().Names()

			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return json.NewEncoder(out).Encode(map[string][]string{
					"policies": policies,
					"metrics":  metricNames,
				})
			}
			fmt.Fprintln(out, "Policies:")
			for _, name := range policies {
				fmt.Fprintf(out, "  %s\n", name)
			}
			fmt.Fprintln(out, "Metrics:")
			for _, name := range metricNames {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}
