// Package assets provides the built-in template units and CSS styles
// embedded in the binary.
//
// Template units are text/template files named <format>_<id>.tmpl that
// render a data payload to the Markdown intermediate. Styles are CSS
// injected by the HTML-producing engines. Asset names are validated to
// prevent path traversal.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"
)

//go:embed templates/*.tmpl
var templates embed.FS

//go:embed styles/*.css
var styles embed.FS

// Sentinel errors for asset loading.
var (
	ErrTemplateNotFound = errors.New("built-in template not found")
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
)

// TemplateNames lists the built-in template file names, sorted.
func TemplateNames() []string {
	entries, err := templates.ReadDir("templates")
	if err != nil {
		// The directory is embedded at compile time; absence is a build defect.
		panic(fmt.Sprintf("assets: embedded templates unavailable: %v", err))
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// ReadTemplate returns the source of a built-in template by file name
// (e.g. "pdf_whitepaper.tmpl").
func ReadTemplate(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := templates.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return string(content), nil
}

// ReadStyle returns a CSS style by name (without the .css extension).
func ReadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}

// ValidateAssetName rejects names that could escape the asset
// directories.
func ValidateAssetName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
