// Package harness runs grayscale strategies one after another against the
// same input image and collects their timings.
package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"go-gray/pkg/common"
	"go-gray/pkg/progress"
	"go-gray/pkg/strategy"
)

// Codec loads the input and persists each stage's output.
type Codec interface {
	Decode(path string) (*common.ImageBuffer, error)
	Encode(buf *common.ImageBuffer, path string) error
}

// Observer is told about every stage. It cannot influence the run.
type Observer interface {
	StageStarted(index int, label, inputPath string)
	ProgressFunc(label string) progress.ReportFunc
	StageCompleted(result common.BenchmarkResult)
	StageFailed(failure common.StageFailure)
	RunFinished(report *common.RunReport)
}

// Recorder receives per-stage measurements, e.g. for metrics.
type Recorder interface {
	ObserveStage(result common.BenchmarkResult, rows int)
	ObserveFailure(failure common.StageFailure)
}

// Sink receives the finished report of a run with at least one result.
type Sink interface {
	Publish(ctx context.Context, report *common.RunReport) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, report *common.RunReport) error

func (f SinkFunc) Publish(ctx context.Context, report *common.RunReport) error {
	return f(ctx, report)
}

// Stage is one strategy run. An empty OutputPath skips persisting the output.
type Stage struct {
	Label      string
	OutputPath string
	Workers    int
	Strategy   strategy.Strategy
}

func (s Stage) label() string {
	if s.Label != "" {
		return s.Label
	}
	if s.Strategy != nil {
		return s.Strategy.Name()
	}
	return "unnamed stage"
}

type namedSink struct {
	name string
	sink Sink
}

type Harness struct {
	inputPath string
	codec     Codec
	observer  Observer
	recorder  Recorder
	sinks     []namedSink
	logger    *slog.Logger
	now       func() time.Time
	newRunID  func() string
}

type Option func(*Harness)

func WithObserver(o Observer) Option {
	return func(h *Harness) { h.observer = o }
}

func WithRecorder(r Recorder) Option {
	return func(h *Harness) { h.recorder = r }
}

func WithSink(name string, s Sink) Option {
	return func(h *Harness) { h.sinks = append(h.sinks, namedSink{name: name, sink: s}) }
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// New returns a harness that reads its input from inputPath.
func New(inputPath string, codec Codec, opts ...Option) *Harness {
	h := &Harness{
		inputPath: inputPath,
		codec:     codec,
		observer:  nopObserver{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Harness) InputPath() string {
	return h.inputPath
}

// Run executes stages in order. A failing stage is recorded and skipped;
// the remaining stages still run. The first successful stage is the
// baseline for the comparison.
func (h *Harness) Run(ctx context.Context, stages []Stage) *common.RunReport {
	report := &common.RunReport{
		RunID:     h.newRunID(),
		InputPath: h.inputPath,
		StartedAt: h.now(),
	}
	h.logger.Info("Harness: starting run", "run_id", report.RunID, "input", h.inputPath, "stages", len(stages))

	for i, stage := range stages {
		label := stage.label()
		h.observer.StageStarted(i+1, label, h.inputPath)

		result, rows, err := h.runStage(ctx, stage, label)
		if err != nil {
			failure := common.StageFailure{Label: label, Kind: common.KindOf(err), Message: err.Error()}
			report.Failures = append(report.Failures, failure)
			h.logger.Warn("Harness: stage skipped", "stage", label, "kind", failure.Kind, "err", err)
			h.observer.StageFailed(failure)
			if h.recorder != nil {
				h.recorder.ObserveFailure(failure)
			}
			continue
		}

		if len(report.Results) == 0 {
			result.MatchesBaseline = true
		} else {
			result.MatchesBaseline = result.Digest == report.Results[0].Digest
		}
		report.Results = append(report.Results, result)
		h.logger.Info("Harness: stage completed", "stage", label, "seconds", result.Seconds, "digest", fmt.Sprintf("%016x", result.Digest))
		h.observer.StageCompleted(result)
		if h.recorder != nil {
			h.recorder.ObserveStage(result, rows)
		}
	}

	report.FinishedAt = h.now()
	if len(report.Results) == 0 {
		h.logger.Warn("Harness: no stage succeeded", "run_id", report.RunID, "failures", len(report.Failures))
		return report
	}

	h.observer.RunFinished(report)
	for _, s := range h.sinks {
		if err := s.sink.Publish(ctx, report); err != nil {
			h.logger.Error("Harness: sink failed", "sink", s.name, "err", err)
		}
	}
	return report
}

// runStage decodes the input, runs the strategy and persists its output.
// Only the strategy's own measurement ends up in the result, so decoding
// and encoding never count towards the timing.
func (h *Harness) runStage(ctx context.Context, stage Stage, label string) (result common.BenchmarkResult, rows int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: stage %s panicked: %v", common.ErrUnexpectedFailure, label, r)
		}
	}()

	if stage.Strategy == nil {
		return result, 0, fmt.Errorf("%w: stage %s has no strategy", common.ErrUnexpectedFailure, label)
	}

	in, err := h.codec.Decode(h.inputPath)
	if err != nil {
		return result, 0, err
	}
	h.logger.Debug("Harness: input loaded", "stage", label, "width", in.Width, "height", in.Height)

	tracker := progress.New(in.Height, h.observer.ProgressFunc(label))
	out, elapsed, err := stage.Strategy.Run(ctx, in, tracker)
	if err != nil {
		return result, 0, err
	}

	if stage.OutputPath != "" {
		if err := h.codec.Encode(out, stage.OutputPath); err != nil {
			return result, 0, fmt.Errorf("%w: %v", common.ErrUnexpectedFailure, err)
		}
	}

	return common.BenchmarkResult{
		Label:      label,
		Seconds:    elapsed.Seconds(),
		Workers:    stage.Workers,
		OutputPath: stage.OutputPath,
		Digest:     xxhash.Sum64(out.Pix),
		Timestamp:  h.now(),
	}, in.Height, nil
}

type nopObserver struct{}

func (nopObserver) StageStarted(int, string, string)        {}
func (nopObserver) ProgressFunc(string) progress.ReportFunc { return nil }
func (nopObserver) StageCompleted(common.BenchmarkResult)   {}
func (nopObserver) StageFailed(common.StageFailure)         {}
func (nopObserver) RunFinished(*common.RunReport)           {}
