package stats

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"go-gray/pkg/common"
)

// BAR_WIDTH is the length of the bar drawn for the slowest result.
const BAR_WIDTH = 30

// Comparison is one row of the speedup table.
type Comparison struct {
	Label    string
	Seconds  float64
	Baseline bool
	Speedup  float64
	Faster   bool
	Bar      int
}

// Speedup returns how many times faster d is than baseline. A zero duration
// is infinitely faster than any measured baseline and level with a zero one.
func Speedup(baseline, d float64) float64 {
	if d <= 0 {
		if baseline <= 0 {
			return 1
		}
		return math.Inf(1)
	}
	return baseline / d
}

// Compare relates every result to the first one. The first result is the
// baseline even when it is not the slowest.
func Compare(results []common.BenchmarkResult) []Comparison {
	if len(results) == 0 {
		return nil
	}

	maxSeconds := 0.0
	for _, r := range results {
		maxSeconds = max(maxSeconds, r.Seconds)
	}

	baseline := results[0].Seconds
	rows := make([]Comparison, len(results))
	for i, r := range results {
		row := Comparison{Label: r.Label, Seconds: r.Seconds}
		if maxSeconds > 0 {
			row.Bar = int(r.Seconds / maxSeconds * BAR_WIDTH)
		}
		if i == 0 {
			row.Baseline = true
			row.Speedup = 1
		} else {
			row.Speedup = Speedup(baseline, r.Seconds)
			row.Faster = row.Speedup > 1.0
		}
		rows[i] = row
	}
	return rows
}

// Verdict is "faster" or "slower" for non-baseline rows and "baseline" otherwise.
func (c Comparison) Verdict() string {
	switch {
	case c.Baseline:
		return "baseline"
	case c.Faster:
		return "faster"
	default:
		return "slower"
	}
}

// WritePerformanceResults writes a single combined results file into dir.
func WritePerformanceResults(dir string, report *common.RunReport) (string, error) {
	return WritePerformanceResultsWithPrefix(dir, "grayscale_", report)
}

// WritePerformanceResultsWithPrefix writes results file with custom prefix
func WritePerformanceResultsWithPrefix(dir, prefix string, report *common.RunReport) (string, error) {
	if report == nil || len(report.Results) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", dir, err)
	}

	timestamp := report.StartedAt.Format("2006-01-02_15-04-05")
	resultsFile := filepath.Join(dir, fmt.Sprintf("%s%s.txt", prefix, timestamp))

	file, err := os.Create(resultsFile)
	if err != nil {
		return "", fmt.Errorf("failed to create results file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "=== Grayscale Conversion Benchmark Results ===\n")
	fmt.Fprintf(file, "Run: %s\n", report.RunID)
	fmt.Fprintf(file, "Timestamp: %s\n", report.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(file, "Input: %s\n\n", report.InputPath)

	for i, result := range report.Results {
		fmt.Fprintf(file, "=== %d. %s ===\n", i+1, result.Label)
		fmt.Fprintf(file, "Duration: %.4fs\n", result.Seconds)
		if result.Workers > 0 {
			fmt.Fprintf(file, "Workers: %d\n", result.Workers)
		}
		if result.OutputPath != "" {
			fmt.Fprintf(file, "Output: %s\n", result.OutputPath)
		}
		fmt.Fprintf(file, "Digest: %016x (matches baseline: %t)\n\n", result.Digest, result.MatchesBaseline)
	}

	fmt.Fprintf(file, "=== Speedup ===\n")
	for _, row := range Compare(report.Results) {
		if row.Baseline {
			fmt.Fprintf(file, "%-28s baseline\n", row.Label)
			continue
		}
		fmt.Fprintf(file, "%-28s %6.2fx %s\n", row.Label, row.Speedup, row.Verdict())
	}

	if len(report.Failures) > 0 {
		fmt.Fprintf(file, "\n=== Skipped stages ===\n")
		for _, f := range report.Failures {
			fmt.Fprintf(file, "%s: %s (%s)\n", f.Label, f.Kind, f.Message)
		}
	}

	if err := file.Close(); err != nil {
		return "", err
	}
	return resultsFile, nil
}
