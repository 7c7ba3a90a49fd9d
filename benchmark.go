package main

import (
	"io"

	"github.com/spf13/cobra"

	"go-gray/pkg/config"
	"go-gray/pkg/harness"
	"go-gray/pkg/strategy"
)

func newRootCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "go-gray",
		Short:         "Benchmark sequential, threaded and accelerated grayscale conversion",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, out)
			if err != nil {
				return err
			}
			return a.runBenchmark(cmd)
		},
	}
	cmd.PersistentFlags().String("config", "", "optional YAML config file")
	cmd.AddCommand(newScalingCmd(out), newHistoryCmd(out))
	return cmd
}

// benchmarkStages lists the strategies in execution order; Sequential is
// first and therefore the baseline.
func benchmarkStages(cfg config.Config) []harness.Stage {
	threaded := strategy.NewThreaded(cfg.Workers)
	return []harness.Stage{
		{
			Label:      "Sequential",
			OutputPath: cfg.OutputPath("sequential"),
			Workers:    1,
			Strategy:   strategy.NewSequential(),
		},
		{
			Label:      threaded.Name(),
			OutputPath: cfg.OutputPath("threaded"),
			Workers:    threaded.Workers,
			Strategy:   threaded,
		},
		{
			Label:      "Accelerated",
			OutputPath: cfg.OutputPath("accelerated"),
			Strategy:   strategy.NewExternal(),
		},
	}
}

func (a *app) runBenchmark(cmd *cobra.Command) error {
	ctx := cmd.Context()
	h, cleanup := a.newHarness(ctx, "grayscale_")
	defer cleanup()

	a.console.Header("🚀 IMAGE PROCESSING BENCHMARK 🚀")
	report := h.Run(ctx, benchmarkStages(a.cfg))
	a.logger.Info("Benchmark: finished", "run_id", report.RunID,
		"results", len(report.Results), "skipped", len(report.Failures))
	return nil
}
