package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gray/pkg/codec"
	"go-gray/pkg/config"
)

func writePNG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 3), B: uint8(x ^ y), A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func writeTestConfig(t *testing.T, dir, input string) string {
	t.Helper()
	body := fmt.Sprintf(`input_path: %q
output_dir: %q
output_ext: .png
report_dir: %q
metrics_file: %q
raw_dump: true
scaling_workers: [1, 3]
log_level: error
`, input, filepath.Join(dir, "out"), filepath.Join(dir, "logs"), filepath.Join(dir, "gray.prom"))
	path := filepath.Join(dir, "gray.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestBenchmarkStages(t *testing.T) {
	cfg := config.Default()
	cfg.Workers = 6
	stages := benchmarkStages(cfg)
	require.Len(t, stages, 3)

	assert.Equal(t, "Sequential", stages[0].Label)
	assert.Equal(t, "result-sequential.jpg", stages[0].OutputPath)
	assert.Equal(t, "Threaded (6 workers)", stages[1].Label)
	assert.Equal(t, "result-threaded.jpg", stages[1].OutputPath)
	assert.Equal(t, 6, stages[1].Workers)
	assert.Equal(t, "Accelerated", stages[2].Label)
	assert.Equal(t, "result-accelerated.jpg", stages[2].OutputPath)
}

func TestScalingStages(t *testing.T) {
	cfg := config.Default()
	cfg.ScalingWorkers = []int{1, 2, 16}
	stages := scalingStages(cfg)
	require.Len(t, stages, 3)
	for i, n := range cfg.ScalingWorkers {
		assert.Equal(t, n, stages[i].Workers)
		assert.Empty(t, stages[i].OutputPath)
	}
	assert.Equal(t, "Threaded (16 workers)", stages[2].Label)
}

func TestBenchmarkEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.png")
	writePNG(t, input, 48, 37)

	text := runCLI(t, "--config", writeTestConfig(t, dir, input))

	assert.Contains(t, text, "PERFORMANCE COMPARISON")
	assert.Regexp(t, `Sequential\s+baseline`, text)
	assert.NotContains(t, text, "differs from the baseline")

	outDir := filepath.Join(dir, "out")
	var outputs []string
	for _, suffix := range []string{"sequential", "threaded", "accelerated"} {
		outputs = append(outputs, filepath.Join(outDir, "result-"+suffix+".png"))
	}
	first, err := codec.ReadRaw(codec.RawPath(outputs[0]))
	require.NoError(t, err)
	for _, path := range outputs {
		assert.FileExists(t, path)
		raw, err := codec.ReadRaw(codec.RawPath(path))
		require.NoError(t, err)
		assert.True(t, first.Equal(raw), path)
	}

	reports, err := filepath.Glob(filepath.Join(dir, "logs", "grayscale_*.txt"))
	require.NoError(t, err)
	assert.Len(t, reports, 1)
	assert.FileExists(t, filepath.Join(dir, "gray.prom"))
}

func TestBenchmarkMissingInputCompletes(t *testing.T) {
	dir := t.TempDir()
	text := runCLI(t, "--config", writeTestConfig(t, dir, filepath.Join(dir, "nope.jpg")))

	assert.Contains(t, text, "could not find the input image")
	assert.NotContains(t, text, "PERFORMANCE COMPARISON")
	assert.NoDirExists(t, filepath.Join(dir, "logs"))
	assert.NoFileExists(t, filepath.Join(dir, "gray.prom"))
}

func TestScalingCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.png")
	writePNG(t, input, 20, 20)

	text := runCLI(t, "scaling", "--config", writeTestConfig(t, dir, input))
	assert.Regexp(t, `Threaded \(1 workers\)\s+baseline`, text)
	assert.Contains(t, text, "Threaded (3 workers)")
	assert.NoDirExists(t, filepath.Join(dir, "out"))

	reports, err := filepath.Glob(filepath.Join(dir, "logs", "scaling_*.txt"))
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestHistoryRequiresRedis(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"history", "--config", writeTestConfig(t, dir, "in.png")})
	assert.ErrorContains(t, cmd.Execute(), "redis.addr")
}

func TestBadConfigIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 0\n"), 0644))

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"--config", path})
	assert.ErrorContains(t, cmd.Execute(), "invalid config")
}
