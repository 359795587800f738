package docforge

import "errors"

// Sentinel errors for library operations.
var (
	// Template resolution errors.
	ErrUnresolvedTemplate = errors.New("template reference cannot be resolved")
	ErrTemplateNotFound   = errors.New("template not found")
	ErrDestinationExists  = errors.New("clone destination already exists")
	ErrFormatMismatch     = errors.New("template format does not match requested format")

	// Engine selection and render errors.
	ErrEngineUnavailable   = errors.New("requested engine is not available")
	ErrNoEngines           = errors.New("no engine registered for format")
	ErrAllEnginesExhausted = errors.New("all candidate engines failed")
	ErrPathBusy            = errors.New("output path is busy")

	// Data binding errors.
	ErrAmbiguousInput = errors.New("exactly one data source must be provided")
	ErrDataParse      = errors.New("failed to parse data payload")

	// Request validation errors.
	ErrUnknownFormat   = errors.New("unknown output format")
	ErrEmptyOutputPath = errors.New("output path cannot be empty")

	// Preflight errors.
	ErrUnsupportedFormat = errors.New("unsupported artifact format")
	ErrUnknownCheck      = errors.New("unknown preflight check")
	ErrArtifactOpen      = errors.New("failed to open artifact")
)
