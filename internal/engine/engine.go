// Package engine implements the rendering engines behind the
// orchestrator's fallback chain. Every engine consumes the Markdown
// intermediate produced by a template unit and writes exactly one
// artifact file, atomically: a failed render never leaves a partial
// file at the output path.
package engine

import (
	"context"
	"errors"
)

// Sentinel errors for engine operations.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrRenderFailed   = errors.New("engine render failed")
	ErrToolFailed     = errors.New("external tool failed")
)

// Engine names. These are the stable identifiers used in engine
// preferences, config priority overrides, and render diagnostics.
const (
	NameChromium      = "chromium"
	NameDirectDrawing = "direct-drawing"
	NamePandoc        = "pandoc"
	NameNativeOOXML   = "native-ooxml"
	NameExcelize      = "excelize"
	NameHTMLDeck      = "htmldeck"
)

// Job describes one render invocation handed to an engine.
type Job struct {
	// Title is the document title, already resolved from the data
	// payload or the Markdown's first heading.
	Title string
	// Markdown is the intermediate document produced by the template.
	Markdown string
	// Data is the original payload, passed through for engines that
	// can use more structure than the Markdown carries.
	Data map[string]any
	// OutputPath is the exact artifact path to create on success.
	OutputPath string
}

// Engine renders one Job to an artifact file.
//
// Contract: on success, exactly OutputPath exists with the complete
// artifact; on failure, the returned error carries a diagnostic and no
// file exists at OutputPath (unless a previous render put one there).
type Engine interface {
	Name() string
	Render(ctx context.Context, job Job) error
	Close() error
}
