package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Output.DefaultDir != "" {
		t.Errorf("Output.DefaultDir = %q, want empty", cfg.Output.DefaultDir)
	}
	if cfg.Render.TimeoutSeconds != 60 {
		t.Errorf("Render.TimeoutSeconds = %d, want 60", cfg.Render.TimeoutSeconds)
	}
	if !cfg.Preflight.Enabled {
		t.Error("Preflight.Enabled = false, want true")
	}
	if len(cfg.Preflight.Checks) != 0 {
		t.Errorf("Preflight.Checks = %v, want empty (all)", cfg.Preflight.Checks)
	}
	if cfg.Preflight.Weights.Error != 10 || cfg.Preflight.Weights.Warning != 1 {
		t.Errorf("Weights = %+v, want error=10 warning=1", cfg.Preflight.Weights)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid engine override",
			mutate: func(c *Config) { c.Engines["pdf"] = []string{"direct-drawing", "chromium"} },
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Render.TimeoutSeconds = -1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative weight",
			mutate:  func(c *Config) { c.Preflight.Weights.Error = -5 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown engine format",
			mutate:  func(c *Config) { c.Engines["odt"] = []string{"anything"} },
			wantErr: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docforge.yaml")
	content := `
output:
  defaultDir: /tmp/out
engines:
  pdf: [direct-drawing, chromium]
render:
  timeoutSeconds: 30
preflight:
  enabled: false
  checks: [PlaceholderLeakage]
  weights:
    error: 20
    warning: 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Output.DefaultDir != "/tmp/out" {
		t.Errorf("Output.DefaultDir = %q, want /tmp/out", cfg.Output.DefaultDir)
	}
	if got := cfg.Engines["pdf"]; len(got) != 2 || got[0] != "direct-drawing" {
		t.Errorf("Engines[pdf] = %v, want [direct-drawing chromium]", got)
	}
	if cfg.Render.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.Render.TimeoutSeconds)
	}
	if cfg.Preflight.Enabled {
		t.Error("Preflight.Enabled = true, want false")
	}
	if cfg.Preflight.Weights.Error != 20 {
		t.Errorf("Weights.Error = %d, want 20", cfg.Preflight.Weights.Error)
	}
}

func TestLoadConfigNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("bogus: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(path)
	if !errors.Is(err, ErrConfigParse) {
		t.Errorf("error = %v, want ErrConfigParse", err)
	}
}

func TestLoadConfigEmptyName(t *testing.T) {
	_, err := LoadConfig("")
	if !errors.Is(err, ErrEmptyConfigName) {
		t.Errorf("error = %v, want ErrEmptyConfigName", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docforge.yaml")

	cfg := DefaultConfig()
	cfg.Output.DefaultDir = "artifacts"
	cfg.Engines["pdf"] = []string{"pandoc"}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.Output.DefaultDir != "artifacts" {
		t.Errorf("DefaultDir = %q, want artifacts", loaded.Output.DefaultDir)
	}
	if got := loaded.Engines["pdf"]; len(got) != 1 || got[0] != "pandoc" {
		t.Errorf("Engines[pdf] = %v, want [pandoc]", got)
	}
}

func TestGet(t *testing.T) {
	cfg := DefaultConfig()

	got, err := cfg.Get("preflight.weights.error")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	switch v := got.(type) {
	case int:
		if v != 10 {
			t.Errorf("value = %d, want 10", v)
		}
	case uint64:
		if v != 10 {
			t.Errorf("value = %d, want 10", v)
		}
	default:
		t.Errorf("value type = %T, want integer", got)
	}

	if _, err := cfg.Get("no.such.key"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("error = %v, want ErrUnknownKey", err)
	}
}

func TestSet(t *testing.T) {
	cfg := DefaultConfig()

	updated, err := cfg.Set("render.timeoutSeconds", "90")
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if updated.Render.TimeoutSeconds != 90 {
		t.Errorf("TimeoutSeconds = %d, want 90", updated.Render.TimeoutSeconds)
	}

	updated, err = cfg.Set("engines.pdf", "[direct-drawing, chromium]")
	if err != nil {
		t.Fatalf("Set(engines.pdf) error = %v", err)
	}
	if got := updated.Engines["pdf"]; len(got) != 2 || got[1] != "chromium" {
		t.Errorf("Engines[pdf] = %v, want [direct-drawing chromium]", got)
	}
}

func TestSetRejectsUnknownKey(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := cfg.Set("no.such.key", "1"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("error = %v, want ErrUnknownKey", err)
	}
}

func TestSetRejectsInvalidValue(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := cfg.Set("render.timeoutSeconds", "-5"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("error = %v, want ErrInvalidValue", err)
	}
}
