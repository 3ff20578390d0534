// Package config provides unified configuration loading for gris.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nvandessel/gris/internal/acceptance"
	"github.com/nvandessel/gris/internal/constants"
	"github.com/nvandessel/gris/internal/equilibrium"
	"gopkg.in/yaml.v3"
)

// GrisConfig contains all gris configuration settings.
type GrisConfig struct {
	// Iteration controls the round loop.
	Iteration IterationConfig `json:"iteration" yaml:"iteration"`

	// Classification controls the accepted/rejected labels.
	Classification ClassificationConfig `json:"classification" yaml:"classification"`

	// Logging contains settings for operational and decision logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Visualization controls chart output after each run.
	Visualization VisualizationConfig `json:"visualization" yaml:"visualization"`
}

// IterationConfig configures the iteration engine.
type IterationConfig struct {
	// MaxIterations is the round budget. Default: 100.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`

	// ChangeThreshold is the increase a value must exceed for a round to
	// count as changed. Default: 0.0001.
	ChangeThreshold float64 `json:"change_threshold" yaml:"change_threshold"`
}

// ClassificationConfig configures the acceptance classifier.
type ClassificationConfig struct {
	// CrispThreshold is the distance from 0 or 1 within which a value gets
	// a crisp label. Range: 0.0 to 1.0. Default: 0.01.
	CrispThreshold float64 `json:"crisp_threshold" yaml:"crisp_threshold"`
}

// LoggingConfig configures gris's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "warn", "info" (default), "debug" or "trace".
	// "debug" enables run tracing to ~/.gris/decisions.jsonl.
	// "trace" additionally logs every value of every round.
	Level string `json:"level" yaml:"level"`
}

// VisualizationConfig configures the charts written after each run.
type VisualizationConfig struct {
	// Enabled writes the HTML chart page after each interactive run.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Open opens the chart in a browser when stdout is a terminal.
	Open bool `json:"open" yaml:"open"`

	// OutputDir is where chart pages are written. Empty means the OS temp dir.
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
}

// Default returns a GrisConfig with sensible defaults.
func Default() *GrisConfig {
	return &GrisConfig{
		Iteration: IterationConfig{
			MaxIterations:   constants.DefaultMaxIterations,
			ChangeThreshold: constants.DefaultChangeThreshold,
		},
		Classification: ClassificationConfig{
			CrispThreshold: constants.DefaultCrispThreshold,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Visualization: VisualizationConfig{
			Enabled: true,
			Open:    true,
		},
	}
}

// Dir returns the per-user gris directory (~/.gris).
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, constants.DirName), nil
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.gris/config.yaml -> environment variables
func Load() (*GrisConfig, error) {
	config := Default()

	if dir, err := Dir(); err == nil {
		configPath := filepath.Join(dir, constants.ConfigFileName)
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFrom loads configuration from path instead of the default location,
// then applies environment overrides. An empty path behaves like Load.
func LoadFrom(path string) (*GrisConfig, error) {
	if path == "" {
		return Load()
	}
	config, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(config)
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file. Settings
// missing from the file keep their defaults.
func LoadFromFile(path string) (*GrisConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *GrisConfig) Validate() error {
	if c.Iteration.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must be non-negative, got %d", c.Iteration.MaxIterations)
	}

	if c.Iteration.ChangeThreshold < 0 {
		return fmt.Errorf("change_threshold must be non-negative, got %f", c.Iteration.ChangeThreshold)
	}

	if c.Classification.CrispThreshold < 0 || c.Classification.CrispThreshold > 1 {
		return fmt.Errorf("crisp_threshold must be between 0 and 1, got %f", c.Classification.CrispThreshold)
	}

	validLevels := map[string]bool{"warn": true, "info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: warn, info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// Engine returns the iteration engine configuration.
func (c *GrisConfig) Engine() equilibrium.Config {
	return equilibrium.Config{
		MaxIterations:   c.Iteration.MaxIterations,
		ChangeThreshold: c.Iteration.ChangeThreshold,
	}
}

// Classifier returns the acceptance classifier.
func (c *GrisConfig) Classifier() acceptance.Classifier {
	return acceptance.New(c.Classification.CrispThreshold)
}

// applyEnvOverrides applies environment variable overrides to the config.
// Unparseable values are ignored.
func applyEnvOverrides(config *GrisConfig) {
	if v := os.Getenv("GRIS_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Iteration.MaxIterations = n
		}
	}

	if v := os.Getenv("GRIS_CHANGE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Iteration.ChangeThreshold = f
		}
	}

	if v := os.Getenv("GRIS_CRISP_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Classification.CrispThreshold = f
		}
	}

	if v := os.Getenv("GRIS_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("GRIS_OPEN_BROWSER"); v != "" {
		config.Visualization.Open = v == "true" || v == "1"
	}
}
