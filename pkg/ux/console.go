package ux

import (
	"fmt"
	"io"
	"strings"
	"sync"

	bar "github.com/charmbracelet/bubbles/progress"

	"go-gray/pkg/common"
	"go-gray/pkg/progress"
	"go-gray/pkg/stats"
)

const rule = 60

// Console prints stage lifecycle, progress bars and the comparison table.
// It only observes the benchmark.
type Console struct {
	mu           sync.Mutex
	out          io.Writer
	theme        Theme
	showProgress bool
	bar          bar.Model
}

// NewConsole writes to out. showProgress enables the live bar, which only
// makes sense on a terminal.
func NewConsole(out io.Writer, plain, showProgress bool) *Console {
	return &Console{
		out:          out,
		theme:        NewTheme(plain),
		showProgress: showProgress,
		bar:          bar.New(bar.WithDefaultGradient(), bar.WithWidth(40), bar.WithoutPercentage()),
	}
}

func (c *Console) printf(s Style, format string, args ...any) {
	fmt.Fprint(c.out, c.theme.Render(s, fmt.Sprintf(format, args...)))
}

// Header prints the banner.
func (c *Console) Header(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf(StyleBold, "\n%s\n", strings.Repeat("=", rule))
	c.printf(StyleHeader, "    %s\n", title)
	c.printf(StyleBold, "%s\n\n", strings.Repeat("=", rule))
}

func (c *Console) StageStarted(index int, label, inputPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	title := fmt.Sprintf("Processing '%s' with %s", inputPath, label)
	c.printf(StyleSection, "\n[%d] %s\n", index, title)
	c.printf(StyleSection, "%s\n", strings.Repeat("-", len(title)+6))
}

// ProgressFunc returns the report callback for one stage.
func (c *Console) ProgressFunc(label string) progress.ReportFunc {
	if !c.showProgress {
		return nil
	}
	done := false
	return func(completed, total int) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if done {
			return
		}
		pct := 1.0
		if total > 0 {
			pct = float64(completed) / float64(total)
		}
		fmt.Fprintf(c.out, "\r    %s %s %3.0f%% (%d/%d rows)", label, c.bar.ViewAs(pct), pct*100, completed, total)
		if completed >= total {
			done = true
			fmt.Fprintln(c.out)
		}
	}
}

func (c *Console) StageCompleted(result common.BenchmarkResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf(StyleSuccess, "    ✓ %s completed in %.4f seconds\n", result.Label, result.Seconds)
	if result.OutputPath != "" {
		c.printf(StylePlain, "    💾 Result saved to '%s'\n", result.OutputPath)
	}
	if !result.MatchesBaseline {
		c.printf(StyleWarning, "    ⚠ output differs from the baseline (digest %016x)\n", result.Digest)
	}
}

func (c *Console) StageFailed(failure common.StageFailure) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch failure.Kind {
	case common.KindInputNotFound:
		c.printf(StyleError, "    ❌ Error: could not find the input image (%s)\n", failure.Message)
		c.printf(StyleWarning, "    Please put a large JPG image at the configured input path.\n")
	case common.KindAcceleratedUnavailable:
		c.printf(StyleError, "    ❌ Error: accelerated routine not available for %s\n", failure.Label)
		c.printf(StyleWarning, "    --> build with the accel package imported\n")
	default:
		c.printf(StyleError, "    ❌ Unexpected error in %s: %s\n", failure.Label, failure.Message)
	}
}

// RunFinished prints the comparison table. Nothing is printed for a run
// without results.
func (c *Console) RunFinished(report *common.RunReport) {
	if report == nil || len(report.Results) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf(StyleHeader, "\n📊 PERFORMANCE COMPARISON\n")
	c.printf(StyleHeader, "%s\n", strings.Repeat("=", 50))
	c.printf(StyleInfo, "Time bars show relative duration (longer = slower)\n\n")

	rows := stats.Compare(report.Results)
	width := labelWidth(rows)
	for _, row := range rows {
		fmt.Fprintf(c.out, "%-*s %s %s\n", width, row.Label,
			c.theme.Render(StyleBold, fmt.Sprintf("%8.4fs", row.Seconds)),
			c.theme.Render(StyleBar, strings.Repeat("█", row.Bar)))
	}

	if len(rows) > 1 {
		c.printf(StyleInfo, "\n🏃 SPEEDUP ANALYSIS\n")
		c.printf(StyleInfo, "%s\n", strings.Repeat("-", 30))
		for _, row := range rows {
			if row.Baseline {
				fmt.Fprintf(c.out, "%-*s %s\n", width, row.Label, c.theme.Render(StyleBold, "baseline"))
				continue
			}
			s := StyleError
			if row.Faster {
				s = StyleSuccess
			}
			fmt.Fprintf(c.out, "%-*s %s\n", width, row.Label,
				c.theme.Render(s, fmt.Sprintf("%6.2fx %s", row.Speedup, row.Verdict())))
		}
	}

	c.printf(StyleSuccess, "\n🎉 Benchmark Complete!\n")
}

func labelWidth(rows []stats.Comparison) int {
	width := 20
	for _, r := range rows {
		width = max(width, len(r.Label))
	}
	return width
}
