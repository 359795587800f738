package docforge

import (
	"fmt"
	"strings"
	"time"
)

// Format identifies an artifact output format.
type Format string

// Supported output formats.
const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatPPTX Format = "pptx"
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
)

// formatExtensions is the closed extension mapping used both for output
// path completion and for preflight format detection. Unknown extensions
// fail closed rather than guessing.
var formatExtensions = map[Format]string{
	FormatPDF:  ".pdf",
	FormatDOCX: ".docx",
	FormatPPTX: ".pptx",
	FormatXLSX: ".xlsx",
	FormatHTML: ".html",
}

// Formats returns all supported formats in stable order.
func Formats() []Format {
	return []Format{FormatPDF, FormatDOCX, FormatPPTX, FormatXLSX, FormatHTML}
}

// ParseFormat validates a format string (case-insensitive).
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if _, ok := formatExtensions[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	return formatExtensions[f]
}

// FormatForExtension maps a file extension (with or without dot,
// case-insensitive) to its format. The second return is false for
// unrecognized extensions.
func FormatForExtension(ext string) (Format, bool) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for f, e := range formatExtensions {
		if e == ext {
			return f, true
		}
	}
	return "", false
}

// TemplateDescriptor describes one discoverable template unit.
type TemplateDescriptor struct {
	// ID is the short identifier, e.g. "whitepaper".
	ID string
	// Path locates the template source. Built-in templates use a
	// "builtin/" prefix; disk templates use their filesystem path.
	Path string
	// Format is the artifact format the template produces. Empty means
	// the template was resolved from a bare path without a format
	// prefix and matches any requested format.
	Format Format
	// Capabilities lists optional features the template exercises,
	// e.g. "tables", "sections". Informational.
	Capabilities []string
	// Description is the template's self-description from its header
	// comment, if present.
	Description string
	// BuiltIn is true for templates shipped embedded in the binary.
	BuiltIn bool
}

// EngineDescriptor describes one rendering engine for one format.
// Available is a point-in-time probe result.
type EngineDescriptor struct {
	Name      string
	Format    Format
	Priority  int
	Available bool
}

// RenderRequest describes one render invocation. Transient; owned by
// the caller.
type RenderRequest struct {
	Format      Format
	TemplateRef string
	OutputPath  string
	Data        map[string]any
	// EnginePreference pins a named engine. Empty or "auto" selects the
	// first available engine in priority order and enables fallback.
	EnginePreference string
}

// Attempt records the outcome of one engine invocation.
type Attempt struct {
	Engine     string
	Diagnostic string
	Duration   time.Duration
}

// RenderResult is the outcome of a render. EngineUsed is set if and
// only if Success is true. Attempts always carries the full history,
// including the successful attempt.
type RenderResult struct {
	Success    bool
	EngineUsed string
	OutputPath string
	Attempts   []Attempt
}

// Render timing defaults. Engine invocations are generous by default to
// accommodate browser startup and print-to-PDF latency.
const (
	DefaultAttemptTimeout = 60 * time.Second
	MinAttemptTimeout     = time.Second
)

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithAttemptTimeout bounds each engine invocation. Panics if d is
// below MinAttemptTimeout (programmer error, similar to time.NewTicker).
func WithAttemptTimeout(d time.Duration) OrchestratorOption {
	if d < MinAttemptTimeout {
		panic("docforge: attempt timeout too small")
	}
	return func(o *Orchestrator) {
		o.attemptTimeout = d
	}
}

// WithFailFast makes a render targeting a busy output path return
// ErrPathBusy immediately instead of serializing behind the holder.
func WithFailFast() OrchestratorOption {
	return func(o *Orchestrator) {
		o.failFast = true
	}
}
