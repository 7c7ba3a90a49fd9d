package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	_ "go-gray/pkg/accel"
	"go-gray/pkg/codec"
	"go-gray/pkg/common"
	"go-gray/pkg/config"
	"go-gray/pkg/harness"
	"go-gray/pkg/metrics"
	"go-gray/pkg/queue"
	"go-gray/pkg/stats"
	"go-gray/pkg/ux"
)

// app bundles what every subcommand needs.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	console *ux.Console
	out     io.Writer
}

func newApp(cmd *cobra.Command, out io.Writer) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	tty := isTerminal(out)

	return &app{
		cfg:     cfg,
		logger:  logger,
		console: ux.NewConsole(out, !tty, cfg.Progress && tty),
		out:     out,
	}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// connectRedis returns nil when no address is configured or the server is
// unreachable; publishing is optional.
func (a *app) connectRedis(ctx context.Context) *queue.RedisClient {
	if a.cfg.Redis.Addr == "" {
		return nil
	}
	client, err := queue.NewRedisClient(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Stream)
	if err != nil {
		a.logger.Warn("Redis: publishing disabled", "addr", a.cfg.Redis.Addr, "err", err)
		return nil
	}
	return client
}

// newHarness wires the codec, console, metrics and report sinks. The
// returned func releases the Redis connection.
func (a *app) newHarness(ctx context.Context, reportPrefix string) (*harness.Harness, func()) {
	recorder := metrics.NewRecorder(a.cfg.MetricsFile)
	opts := []harness.Option{
		harness.WithObserver(a.console),
		harness.WithRecorder(recorder),
		harness.WithLogger(a.logger),
		harness.WithSink("metrics", recorder),
	}

	if a.cfg.ReportDir != "" {
		opts = append(opts, harness.WithSink("report", harness.SinkFunc(func(_ context.Context, report *common.RunReport) error {
			path, err := stats.WritePerformanceResultsWithPrefix(a.cfg.ReportDir, reportPrefix, report)
			if err == nil {
				a.logger.Info("Report: results written", "path", path)
			}
			return err
		})))
	}

	cleanup := func() {}
	if client := a.connectRedis(ctx); client != nil {
		opts = append(opts, harness.WithSink("redis", client))
		cleanup = func() { client.Close() }
	}

	fileCodec := &codec.FileCodec{RawDump: a.cfg.RawDump}
	return harness.New(a.cfg.InputPath, fileCodec, opts...), cleanup
}
