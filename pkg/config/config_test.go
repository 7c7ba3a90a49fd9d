package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gray.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, DEFAULT_INPUT_PATH, cfg.InputPath)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "result-threaded.jpg", cfg.OutputPath("threaded"))
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
input_path: photos/big.png
output_dir: out
output_ext: .png
workers: 8
scaling_workers: [1, 16]
log_level: debug
redis:
  addr: localhost:6379
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "photos/big.png", cfg.InputPath)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, []int{1, 16}, cfg.ScalingWorkers)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "gray:runs", cfg.Redis.Stream)
	assert.Equal(t, "result", cfg.OutputPrefix)
	assert.Equal(t, filepath.Join("out", "result-accelerated.png"), cfg.OutputPath("accelerated"))
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"zero workers":     "workers: 0\n",
		"bad scaling":      "scaling_workers: [2, 0]\n",
		"empty scaling":    "scaling_workers: []\n",
		"bad extension":    "output_ext: .gif\n",
		"bad log level":    "log_level: loud\n",
		"bad redis":        "redis:\n  addr: not a host\n",
		"prefix with path": "output_prefix: a/b\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestLoadMissingAndMalformed(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "does not exist")

	_, err = Load(writeConfig(t, "workers: [oops"))
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestSlogLevel(t *testing.T) {
	cfg := Default()
	for level, want := range map[string]slog.Level{
		"debug": slog.LevelDebug, "info": slog.LevelInfo, "warn": slog.LevelWarn, "error": slog.LevelError,
	} {
		cfg.LogLevel = level
		assert.Equal(t, want, cfg.SlogLevel())
	}
}

func TestLoadAcceptsUpperCaseLogLevel(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log_level: WARN\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())

	cfg, err = Load(writeConfig(t, "log_level: Debug\n"))
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}
