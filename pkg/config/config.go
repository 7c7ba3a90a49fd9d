// Package config loads the benchmark settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const DEFAULT_INPUT_PATH = "Curiosity_Self-Portrait_at_'Big_Sky'_Drilling_Site.jpg"

type Config struct {
	InputPath      string      `yaml:"input_path" validate:"required"`
	OutputDir      string      `yaml:"output_dir" validate:"required"`
	OutputPrefix   string      `yaml:"output_prefix" validate:"required,excludesall=/\\"`
	OutputExt      string      `yaml:"output_ext" validate:"oneof=.jpg .jpeg .png .bmp .tif .tiff"`
	Workers        int         `yaml:"workers" validate:"gte=1,lte=1024"`
	ScalingWorkers []int       `yaml:"scaling_workers" validate:"required,min=1,dive,gte=1,lte=1024"`
	ReportDir      string      `yaml:"report_dir"`
	Progress       bool        `yaml:"progress"`
	RawDump        bool        `yaml:"raw_dump"`
	MetricsFile    string      `yaml:"metrics_file"`
	LogLevel       string      `yaml:"log_level" validate:"oneof=debug info warn error"`
	HistoryLimit   int         `yaml:"history_limit" validate:"gte=1"`
	Redis          RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr   string `yaml:"addr" validate:"omitempty,hostname_port"`
	Stream string `yaml:"stream" validate:"required"`
}

// Default returns the settings used when no config file is given.
func Default() Config {
	return Config{
		InputPath:      DEFAULT_INPUT_PATH,
		OutputDir:      ".",
		OutputPrefix:   "result",
		OutputExt:      ".jpg",
		Workers:        4,
		ScalingWorkers: []int{1, 2, 4, 8},
		ReportDir:      "logs",
		Progress:       true,
		LogLevel:       "info",
		HistoryLimit:   10,
		Redis: RedisConfig{
			Stream: "gray:runs",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("config file %s does not exist", path)
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	// levels are case-insensitive in the file
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// OutputPath returns the file a stage with the given suffix writes to,
// e.g. "./result-threaded.jpg".
func (c Config) OutputPath(suffix string) string {
	return filepath.Join(c.OutputDir, c.OutputPrefix+"-"+suffix+c.OutputExt)
}

// SlogLevel maps LogLevel onto slog.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
