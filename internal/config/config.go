// Package config loads, validates, and persists docforge configuration.
//
// Configuration is YAML, resolved by name from the current directory or
// the user config directory, or loaded from an explicit path. The CLI's
// config command reads and writes individual values with dot-notation
// keys ("preflight.weights.error").
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alnah/go-docforge/internal/fileutil"
	"github.com/alnah/go-docforge/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrUnknownKey      = errors.New("unknown config key")
	ErrInvalidValue    = errors.New("invalid config value")
)

// ConfigDirName is the subdirectory under the user config dir.
const ConfigDirName = "go-docforge"

// DefaultConfigName is the base name searched by LoadConfig and written
// by Init.
const DefaultConfigName = "docforge"

// knownFormats mirrors the format set supported by the render core.
// Kept local so the config package stays import-free of the root.
var knownFormats = []string{"pdf", "docx", "pptx", "xlsx", "html"}

// Config holds all configuration consumed by the orchestrator, the
// preflight validator, and the CLI.
type Config struct {
	Output    OutputConfig        `yaml:"output"`
	Templates TemplatesConfig     `yaml:"templates"`
	Engines   map[string][]string `yaml:"engines"`
	Render    RenderConfig        `yaml:"render"`
	Preflight PreflightConfig     `yaml:"preflight"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Used when output is a bare filename (empty = cwd)
}

// TemplatesConfig defines template discovery options.
type TemplatesConfig struct {
	Dir string `yaml:"dir"` // Extra on-disk template directory (empty = built-ins only)
}

// RenderConfig defines render loop options.
type RenderConfig struct {
	TimeoutSeconds int  `yaml:"timeoutSeconds"` // Per engine attempt (0 = default)
	FailFast       bool `yaml:"failFast"`       // Busy output path fails instead of waiting
}

// PreflightConfig defines structural validation options.
type PreflightConfig struct {
	Enabled bool          `yaml:"enabled"` // Run preflight automatically after generate
	Checks  []string      `yaml:"checks"`  // Enabled checks (empty = all)
	Weights WeightsConfig `yaml:"weights"`
}

// WeightsConfig defines scoring weights per severity.
type WeightsConfig struct {
	Error   int `yaml:"error"`
	Warning int `yaml:"warning"`
}

// DefaultConfig returns the documented defaults: preflight enabled with
// every check and error=10/warning=1 scoring.
func DefaultConfig() *Config {
	return &Config{
		Engines: map[string][]string{},
		Render:  RenderConfig{TimeoutSeconds: 60},
		Preflight: PreflightConfig{
			Enabled: true,
			Weights: WeightsConfig{Error: 10, Warning: 1},
		},
	}
}

// Validate checks value ranges and engine override keys.
func (c *Config) Validate() error {
	if c.Render.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: render.timeoutSeconds must be >= 0, got %d", ErrInvalidValue, c.Render.TimeoutSeconds)
	}
	if c.Preflight.Weights.Error < 0 || c.Preflight.Weights.Warning < 0 {
		return fmt.Errorf("%w: preflight.weights must be >= 0", ErrInvalidValue)
	}
	for format := range c.Engines {
		if !isKnownFormat(format) {
			return fmt.Errorf("%w: engines.%s (formats: %s)", ErrInvalidValue, format, strings.Join(knownFormats, ", "))
		}
	}
	return nil
}

func isKnownFormat(s string) bool {
	for _, f := range knownFormats {
		if f == s {
			return true
		}
	}
	return false
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	return loadConfigFile(configPath)
}

func loadConfigFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save persists the configuration atomically at path.
func Save(path string, cfg *Config) error {
	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data)
}

// DefaultPath returns the canonical config file location under the user
// config directory.
func DefaultPath() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(userConfigDir, ConfigDirName, DefaultConfigName+".yaml"), nil
}

// resolveConfigPath searches for a config file by name in standard
// locations. Tries extensions .yaml then .yml, locations cwd then the
// user config directory.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, ConfigDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// Get reads a value by dot-notation key ("preflight.weights.error").
func (c *Config) Get(key string) (any, error) {
	tree, err := c.toTree()
	if err != nil {
		return nil, err
	}

	value := any(tree)
	for _, part := range strings.Split(key, ".") {
		m, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		value, ok = m[part]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
	}
	return value, nil
}

// Set writes a value by dot-notation key and returns the updated
// configuration. The raw value is parsed as YAML, so "60" becomes an
// integer and "[chromium, pandoc]" a list. Unknown keys are rejected by
// the strict re-decode.
func (c *Config) Set(key, raw string) (*Config, error) {
	tree, err := c.toTree()
	if err != nil {
		return nil, err
	}

	var value any
	if err := yamlutil.Unmarshal([]byte(raw), &value); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidValue, raw, err)
	}

	parts := strings.Split(key, ".")
	current := tree
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			// engines.<format> is the only open map; create on demand.
			if part != "engines" && current[part] != nil {
				return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
			}
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value

	data, err := yamlutil.Marshal(tree)
	if err != nil {
		return nil, err
	}
	updated := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, updated); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	return updated, nil
}

// Keys returns all settable leaf keys in stable order, for help output.
func (c *Config) Keys() []string {
	tree, err := c.toTree()
	if err != nil {
		return nil
	}
	var keys []string
	collectKeys("", tree, &keys)
	sort.Strings(keys)
	return keys
}

func collectKeys(prefix string, tree map[string]any, out *[]string) {
	for k, v := range tree {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			collectKeys(full, sub, out)
			continue
		}
		*out = append(*out, full)
	}
}

// toTree converts the config to a generic map for key traversal.
func (c *Config) toTree() (map[string]any, error) {
	data, err := yamlutil.Marshal(c)
	if err != nil {
		return nil, err
	}
	var tree map[string]any
	if err := yamlutil.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}
