package main

import (
	"errors"
	"os"

	docforge "github.com/alnah/go-docforge"
	"github.com/alnah/go-docforge/internal/config"
	"github.com/alnah/go-docforge/internal/engine"
)

// Exit codes for the docforge CLI.
// Unix conventions: 0=success, 1=general, 2=usage, custom codes < 126.
const (
	ExitSuccess   = 0 // Requested operation completed
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, or validation
	ExitIO        = 3 // File not found, permission denied
	ExitEngine    = 4 // Render/engine errors, all fallbacks exhausted
	ExitPreflight = 5 // Artifact failed preflight validation
)

// exitCodeFor maps an error to its exit code. Matching uses errors.Is,
// so callers must wrap with fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Engine errors (exit 4)
	if errors.Is(err, docforge.ErrAllEnginesExhausted) ||
		errors.Is(err, docforge.ErrEngineUnavailable) ||
		errors.Is(err, docforge.ErrNoEngines) ||
		errors.Is(err, docforge.ErrPathBusy) ||
		errors.Is(err, engine.ErrBrowserConnect) ||
		errors.Is(err, engine.ErrRenderFailed) ||
		errors.Is(err, engine.ErrToolFailed) {
		return ExitEngine
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, docforge.ErrArtifactOpen) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, docforge.ErrUnresolvedTemplate) ||
		errors.Is(err, docforge.ErrTemplateNotFound) ||
		errors.Is(err, docforge.ErrDestinationExists) ||
		errors.Is(err, docforge.ErrFormatMismatch) ||
		errors.Is(err, docforge.ErrAmbiguousInput) ||
		errors.Is(err, docforge.ErrDataParse) ||
		errors.Is(err, docforge.ErrUnknownFormat) ||
		errors.Is(err, docforge.ErrEmptyOutputPath) ||
		errors.Is(err, docforge.ErrUnsupportedFormat) ||
		errors.Is(err, docforge.ErrUnknownCheck) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrUnknownKey) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	return ExitGeneral
}
