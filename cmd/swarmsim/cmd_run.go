package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeusync/swarmsim/internal/core/observability/log"
	"github.com/zeusync/swarmsim/internal/injector"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a live simulation and serve snapshots over websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applySimulationFlags(cmd, &cfg)
			if cmd.Flags().Changed("listen") {
				cfg.Server.ListenAddr, _ = cmd.Flags().GetString("listen")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			sim, cleanup, err := injector.InitializeSimulation(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			if cfg.Server.ListenAddr != "" {
				if err := sim.Server.Start(ctx); err != nil {
					return err
				}
				defer func() {
					stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := sim.Server.Stop(stopCtx); err != nil {
						sim.Logger.Warn("server shutdown", log.Error(err))
					}
				}()
			}

			if err := sim.Driver.Run(ctx); err != nil {
				sim.Logger.Error("simulation failed", log.Error(err))
				return err
			}
			if latest := sim.Driver.Latest(); latest != nil {
				sim.Logger.Info("simulation finished",
					log.Int("time_step", latest.TimeStep),
					log.String("metric", latest.Metric),
					log.Float64("value", latest.MetricValue),
				)
			}
			return nil
		},
	}
	addSimulationFlags(cmd)
	cmd.Flags().String("listen", "", "Websocket feed address, empty disables the feed")
	return cmd
}
