package main

import (
	"io"

	"github.com/spf13/cobra"

	"go-gray/pkg/config"
	"go-gray/pkg/harness"
	"go-gray/pkg/strategy"
)

func newScalingCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "scaling",
		Short: "Measure the threaded strategy across worker counts",
		Long: "Runs the threaded strategy once per entry of scaling_workers. " +
			"The first worker count is the baseline. No images are written.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, out)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			h, cleanup := a.newHarness(ctx, "scaling_")
			defer cleanup()

			a.console.Header("📈 WORKER SCALING BENCHMARK")
			report := h.Run(ctx, scalingStages(a.cfg))
			a.logger.Info("Scaling: finished", "run_id", report.RunID, "results", len(report.Results))
			return nil
		},
	}
}

func scalingStages(cfg config.Config) []harness.Stage {
	stages := make([]harness.Stage, 0, len(cfg.ScalingWorkers))
	for _, n := range cfg.ScalingWorkers {
		threaded := strategy.NewThreaded(n)
		stages = append(stages, harness.Stage{
			Label:    threaded.Name(),
			Workers:  n,
			Strategy: threaded,
		})
	}
	return stages
}
