// Package yamlutil is the single decoding entry point for docforge:
// data payloads, dot-key config values, and configuration files all
// pass through it. Because JSON is a YAML subset, the same functions
// accept inline JSON payloads and YAML files alike.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps decoder input. Data payloads can carry whole
// document bodies, so the cap is generous.
const MaxInputSize = 4 << 20

var (
	ErrEmptyInput    = errors.New("yamlutil: empty input")
	ErrInputTooLarge = errors.New("yamlutil: input exceeds maximum size")
)

// Unmarshal decodes YAML or JSON into v, ignoring unknown fields.
func Unmarshal(data []byte, v any) error {
	return decode(data, v)
}

// UnmarshalStrict rejects unknown fields, so config file typos surface
// as errors instead of silently ignored keys.
func UnmarshalStrict(data []byte, v any) error {
	return decode(data, v, yaml.Strict())
}

func decode(data []byte, v any, opts ...yaml.DecodeOption) error {
	if len(data) == 0 {
		return ErrEmptyInput
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if err := yaml.UnmarshalWithOptions(data, v, opts...); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// Marshal encodes v as YAML.
func Marshal(v any) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}
