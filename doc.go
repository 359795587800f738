// Package docforge turns structured input data into finished document
// artifacts (PDF, DOCX, PPTX, XLSX, HTML decks) by delegating to one of
// several interchangeable rendering engines, then validates the result
// with a structural preflight pass.
//
// # Architecture
//
// The package is organized around four collaborators:
//
//	Registry      - resolves template references to template units
//	Prober        - probes which engines are available per format
//	Orchestrator  - drives render attempts with ordered engine fallback
//	Preflight     - runs structural checks over a finished artifact
//
// A template unit is a text/template file that renders the data payload
// into a Markdown intermediate document. Engines consume that Markdown
// and produce the artifact: headless Chrome prints HTML to PDF, a pure
// Go drawing engine lays out pages directly, OOXML writers build DOCX
// and PPTX packages, and so on. Every engine writes its artifact
// atomically; a failed attempt never leaves a partial file behind.
//
// # Basic usage
//
//	reg, err := docforge.NewRegistry("")
//	if err != nil { ... }
//	orch := docforge.NewOrchestrator(reg, docforge.NewProber())
//
//	result, err := orch.Render(ctx, docforge.RenderRequest{
//		Format:      docforge.FormatPDF,
//		TemplateRef: "whitepaper",
//		OutputPath:  "out.pdf",
//		Data:        map[string]any{"title": "Q3 Report"},
//	})
//
// When the preferred engine is unavailable or fails, the orchestrator
// falls back to the next engine in the format's priority order. Every
// attempt's diagnostic is recorded in the result, so total failure
// surfaces the complete history rather than only the last error.
//
// # Preflight
//
//	report, err := docforge.RunPreflight("out.pdf")
//	if err != nil { ... }
//	if !report.OverallPass { ... }
//
// Preflight detects the artifact format from the file extension, runs
// each requested check independently, and produces a deterministic,
// scored report. A check that cannot read its section of the artifact
// is reported as a finding rather than aborting sibling checks.
package docforge
