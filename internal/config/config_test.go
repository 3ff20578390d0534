package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolateEnv clears gris environment overrides and points HOME at a temp
// directory so tests never read the real ~/.gris/config.yaml.
func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"GRIS_MAX_ITERATIONS", "GRIS_CHANGE_THRESHOLD", "GRIS_CRISP_THRESHOLD", "GRIS_LOG_LEVEL", "GRIS_OPEN_BROWSER"} {
		t.Setenv(k, "")
	}
	return home
}

func TestDefault(t *testing.T) {
	config := Default()

	if config.Iteration.MaxIterations != 100 {
		t.Errorf("expected MaxIterations 100, got %d", config.Iteration.MaxIterations)
	}
	if config.Iteration.ChangeThreshold != 0.0001 {
		t.Errorf("expected ChangeThreshold 0.0001, got %f", config.Iteration.ChangeThreshold)
	}
	if config.Classification.CrispThreshold != 0.01 {
		t.Errorf("expected CrispThreshold 0.01, got %f", config.Classification.CrispThreshold)
	}
	if config.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", config.Logging.Level)
	}
	if !config.Visualization.Enabled || !config.Visualization.Open {
		t.Error("expected visualization enabled and opening by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
iteration:
  max_iterations: 50
  change_threshold: 0.001

classification:
  crisp_threshold: 0.05

logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Iteration.MaxIterations != 50 {
		t.Errorf("expected MaxIterations 50, got %d", config.Iteration.MaxIterations)
	}
	if config.Iteration.ChangeThreshold != 0.001 {
		t.Errorf("expected ChangeThreshold 0.001, got %f", config.Iteration.ChangeThreshold)
	}
	if config.Classification.CrispThreshold != 0.05 {
		t.Errorf("expected CrispThreshold 0.05, got %f", config.Classification.CrispThreshold)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %s", config.Logging.Level)
	}
	// Unset sections keep defaults
	if !config.Visualization.Enabled {
		t.Error("expected Visualization.Enabled default to survive partial file")
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := LoadFromFile(filepath.Join(tmpDir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	badPath := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(badPath, []byte("iteration: [unclosed"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadFromFile(badPath)
	if err == nil || !strings.Contains(err.Error(), "parsing config file") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoad_HomeConfigAndEnv(t *testing.T) {
	home := isolateEnv(t)
	dir := filepath.Join(home, ".gris")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("iteration:\n  max_iterations: 7\n"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("GRIS_CRISP_THRESHOLD", "0.2")
	t.Setenv("GRIS_LOG_LEVEL", "trace")

	config, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if config.Iteration.MaxIterations != 7 {
		t.Errorf("MaxIterations = %d, want 7 from file", config.Iteration.MaxIterations)
	}
	if config.Classification.CrispThreshold != 0.2 {
		t.Errorf("CrispThreshold = %f, want 0.2 from env", config.Classification.CrispThreshold)
	}
	if config.Logging.Level != "trace" {
		t.Errorf("Level = %s, want trace from env", config.Logging.Level)
	}
}

func TestLoad_NoFile(t *testing.T) {
	isolateEnv(t)

	config, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if config.Iteration.MaxIterations != 100 {
		t.Errorf("MaxIterations = %d, want default 100", config.Iteration.MaxIterations)
	}
}

func TestApplyEnvOverrides_IgnoresGarbage(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GRIS_MAX_ITERATIONS", "lots")
	t.Setenv("GRIS_CHANGE_THRESHOLD", "tiny")
	t.Setenv("GRIS_OPEN_BROWSER", "0")

	config := Default()
	applyEnvOverrides(config)

	if config.Iteration.MaxIterations != 100 {
		t.Errorf("MaxIterations = %d, want 100", config.Iteration.MaxIterations)
	}
	if config.Iteration.ChangeThreshold != 0.0001 {
		t.Errorf("ChangeThreshold = %f, want 0.0001", config.Iteration.ChangeThreshold)
	}
	if config.Visualization.Open {
		t.Error("GRIS_OPEN_BROWSER=0 should disable opening")
	}
}

func TestLoadFrom(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("classification:\n  crisp_threshold: 0.1\n"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("GRIS_MAX_ITERATIONS", "12")

	config, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if config.Classification.CrispThreshold != 0.1 {
		t.Errorf("CrispThreshold = %f, want 0.1", config.Classification.CrispThreshold)
	}
	if config.Iteration.MaxIterations != 12 {
		t.Errorf("MaxIterations = %d, want 12 from env", config.Iteration.MaxIterations)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*GrisConfig)
		wantErr bool
	}{
		{"defaults", func(c *GrisConfig) {}, false},
		{"zero budget", func(c *GrisConfig) { c.Iteration.MaxIterations = 0 }, false},
		{"negative budget", func(c *GrisConfig) { c.Iteration.MaxIterations = -1 }, true},
		{"negative change threshold", func(c *GrisConfig) { c.Iteration.ChangeThreshold = -0.1 }, true},
		{"crisp threshold above 1", func(c *GrisConfig) { c.Classification.CrispThreshold = 1.5 }, true},
		{"crisp threshold below 0", func(c *GrisConfig) { c.Classification.CrispThreshold = -0.01 }, true},
		{"empty level", func(c *GrisConfig) { c.Logging.Level = "" }, false},
		{"bad level", func(c *GrisConfig) { c.Logging.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.modify(config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEngineAndClassifier(t *testing.T) {
	config := Default()
	config.Iteration.MaxIterations = 5
	config.Classification.CrispThreshold = 0.2

	if got := config.Engine().MaxIterations; got != 5 {
		t.Errorf("Engine().MaxIterations = %d, want 5", got)
	}
	if got := config.Classifier().Threshold; got != 0.2 {
		t.Errorf("Classifier().Threshold = %f, want 0.2", got)
	}
}
