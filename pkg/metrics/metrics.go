// Package metrics exposes benchmark timings as Prometheus metrics.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"go-gray/pkg/common"
	"go-gray/pkg/stats"
)

const namespace = "gray"

// Recorder owns a private registry so several runs in one process never
// collide on the default one.
type Recorder struct {
	registry     *prometheus.Registry
	stageSeconds *prometheus.GaugeVec
	stageTiming  *prometheus.HistogramVec
	rows         *prometheus.CounterVec
	failures     *prometheus.CounterVec
	speedup      *prometheus.GaugeVec
	textfile     string
}

// NewRecorder returns a Recorder. When textfile is set, Publish writes the
// registry to it in the node_exporter textfile format.
func NewRecorder(textfile string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stageSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall-clock time of the last run of each strategy.",
		}, []string{"strategy"}),
		stageTiming: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_seconds",
			Help:      "Distribution of strategy run times.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
		}, []string{"strategy"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_converted_total",
			Help:      "Image rows converted per strategy.",
		}, []string{"strategy"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_failures_total",
			Help:      "Skipped stages by error kind.",
		}, []string{"strategy", "kind"}),
		speedup: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "speedup_ratio",
			Help:      "Baseline duration divided by the strategy's duration.",
		}, []string{"strategy"}),
		textfile: textfile,
	}
	r.registry.MustRegister(r.stageSeconds, r.stageTiming, r.rows, r.failures, r.speedup)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ObserveStage(result common.BenchmarkResult, rows int) {
	r.stageSeconds.WithLabelValues(result.Label).Set(result.Seconds)
	r.stageTiming.WithLabelValues(result.Label).Observe(result.Seconds)
	r.rows.WithLabelValues(result.Label).Add(float64(rows))
}

func (r *Recorder) ObserveFailure(failure common.StageFailure) {
	r.failures.WithLabelValues(failure.Label, string(failure.Kind)).Inc()
}

// Publish records the speedups of a finished run and writes the textfile.
func (r *Recorder) Publish(_ context.Context, report *common.RunReport) error {
	for _, row := range stats.Compare(report.Results) {
		r.speedup.WithLabelValues(row.Label).Set(row.Speedup)
	}
	if r.textfile == "" {
		return nil
	}
	return prometheus.WriteToTextfile(r.textfile, r.registry)
}
