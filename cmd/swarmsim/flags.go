package main

import (
	"github.com/spf13/cobra"

	"github.com/zeusync/swarmsim/internal/config"
)

func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().String("policy", "", "Control policy (see `swarmsim policies`)")
	cmd.Flags().String("metric", "", "Online metric")
	cmd.Flags().Int("vehicles", 0, "Number of vehicles")
	cmd.Flags().Uint64("seed", 0, "World and policy seed")
	cmd.Flags().Int("steps", 0, "Stop after this many steps (0 runs until interrupted)")
	cmd.Flags().Duration("tick", 0, "Delay between steps")
	cmd.Flags().String("boundary", "", "Boundary mode: wrap or clamp")
}

// applySimulationFlags overrides config values with the flags that were set
// explicitly on the command line.
func applySimulationFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("policy") {
		cfg.Policy.Name, _ = f.GetString("policy")
	}
	if f.Changed("metric") {
		cfg.Metric, _ = f.GetString("metric")
	}
	if f.Changed("vehicles") {
		cfg.World.Vehicles, _ = f.GetInt("vehicles")
	}
	if f.Changed("seed") {
		seed, _ := f.GetUint64("seed")
		cfg.World.Seed = seed
		cfg.Policy.Seed = seed
	}
	if f.Changed("steps") {
		cfg.Driver.MaxSteps, _ = f.GetInt("steps")
	}
	if f.Changed("tick") {
		cfg.Driver.TickDelay, _ = f.GetDuration("tick")
	}
	if f.Changed("boundary") {
		cfg.World.Boundary, _ = f.GetString("boundary")
	}
}
