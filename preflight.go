package docforge

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alnah/go-docforge/internal/docfile"
)

// Severity classifies a finding. Errors fail the artifact; warnings
// only add to its score.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one structural defect located in an artifact.
type Finding struct {
	Check    string   `json:"check"`
	Severity Severity `json:"severity"`
	Location string   `json:"location,omitempty"`
	Detail   string   `json:"detail"`
}

// Report is the outcome of one preflight run. For a fixed artifact the
// report is deterministic: findings are sorted by (check, location,
// detail) and no check consults the clock or the network.
type Report struct {
	ArtifactPath string    `json:"artifact_path"`
	Format       Format    `json:"format"`
	Findings     []Finding `json:"findings"`
	// OverallPass is true when no finding has severity error.
	OverallPass bool `json:"overall_pass"`
	// Score is the weighted sum of findings; 0 is clean, lower is
	// better.
	Score int `json:"score"`
}

// Weights configures finding scores per severity.
type Weights struct {
	Error   int
	Warning int
}

// DefaultWeights scores an error at 10 and a warning at 1.
var DefaultWeights = Weights{Error: 10, Warning: 1}

// Preflight check names.
const (
	CheckPlaceholderLeakage = "PlaceholderLeakage"
	CheckLayoutOverflow     = "LayoutOverflow"
	CheckFontEmbedding      = "FontEmbedding"
	CheckBrokenLink         = "BrokenLink"
	CheckTableOverflow      = "TableOverflow"
)

// CheckNames lists every known check in stable order.
func CheckNames() []string {
	return []string{
		CheckBrokenLink,
		CheckFontEmbedding,
		CheckLayoutOverflow,
		CheckPlaceholderLeakage,
		CheckTableOverflow,
	}
}

// checkFormats restricts checks to the formats where their concept
// exists. A check not listed for a format is silently skipped there.
var checkFormats = map[string][]Format{
	CheckPlaceholderLeakage: {FormatPDF, FormatDOCX, FormatPPTX, FormatXLSX, FormatHTML},
	CheckLayoutOverflow:     {FormatPPTX},
	CheckFontEmbedding:      {FormatPDF},
	CheckBrokenLink:         {FormatHTML},
	CheckTableOverflow:      {FormatDOCX, FormatPPTX},
}

// placeholderMarkers is the maintained set of template boilerplate
// fragments that must never reach a delivered artifact.
var placeholderMarkers = []string{
	"TODO_PLACEHOLDER",
	"TKTK",
	"[PLACEHOLDER]",
	"<PLACEHOLDER>",
	"LOREM IPSUM",
	"{{",
	"<NO VALUE>",
}

// Preflight runs structural checks over a finished artifact.
type Preflight struct {
	checks  []string
	weights Weights
}

// PreflightOption configures a Preflight.
type PreflightOption func(*Preflight)

// WithChecks restricts the run to the named checks.
func WithChecks(names []string) PreflightOption {
	return func(p *Preflight) {
		p.checks = names
	}
}

// WithWeights overrides the scoring weights.
func WithWeights(w Weights) PreflightOption {
	return func(p *Preflight) {
		p.weights = w
	}
}

// NewPreflight creates a validator running all checks with default
// weights unless configured otherwise.
func NewPreflight(opts ...PreflightOption) *Preflight {
	p := &Preflight{checks: CheckNames(), weights: DefaultWeights}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// artifactView is the shared parsed handle the checks of one run read
// from. Exactly one of the format fields is populated.
type artifactView struct {
	path   string
	format Format

	pdf  *docfile.PDFInfo
	docx *docfile.DocxInfo
	pptx *docfile.PptxInfo
	xlsx *docfile.XlsxInfo
	html *docfile.HTMLInfo
}

// Run validates one artifact. The format comes from the file extension
// via a closed mapping; unknown extensions fail with
// ErrUnsupportedFormat rather than guessing. Check failures never
// abort the run: a check that cannot complete contributes a
// CheckFailed finding and its siblings still execute.
func (p *Preflight) Run(artifactPath string) (*Report, error) {
	format, ok := FormatForExtension(filepath.Ext(artifactPath))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(artifactPath))
	}
	for _, name := range p.checks {
		if _, known := checkFormats[name]; !known {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCheck, name)
		}
	}
	if info, err := os.Stat(artifactPath); err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrArtifactOpen, artifactPath)
	}

	view := &artifactView{path: artifactPath, format: format}
	loadErr := view.load()

	report := &Report{ArtifactPath: artifactPath, Format: format}
	for _, name := range p.checks {
		if !checkApplies(name, format) {
			continue
		}
		if loadErr != nil {
			report.Findings = append(report.Findings, checkFailed(name, loadErr.Error()))
			continue
		}
		report.Findings = append(report.Findings, runCheck(name, view)...)
	}

	sort.SliceStable(report.Findings, func(i, j int) bool {
		a, b := report.Findings[i], report.Findings[j]
		if a.Check != b.Check {
			return a.Check < b.Check
		}
		if a.Location != b.Location {
			return a.Location < b.Location
		}
		return a.Detail < b.Detail
	})

	report.OverallPass = true
	for _, f := range report.Findings {
		switch f.Severity {
		case SeverityError:
			report.OverallPass = false
			report.Score += p.weights.Error
		case SeverityWarning:
			report.Score += p.weights.Warning
		}
	}
	return report, nil
}

func (v *artifactView) load() (err error) {
	switch v.format {
	case FormatPDF:
		v.pdf, err = docfile.ReadPDF(v.path)
	case FormatDOCX:
		v.docx, err = docfile.ReadDocx(v.path)
	case FormatPPTX:
		v.pptx, err = docfile.ReadPptx(v.path)
	case FormatXLSX:
		v.xlsx, err = docfile.ReadXlsx(v.path)
	case FormatHTML:
		v.html, err = docfile.ReadHTML(v.path)
	}
	return err
}

func (v *artifactView) text() string {
	switch v.format {
	case FormatPDF:
		return v.pdf.Text
	case FormatDOCX:
		return v.docx.Text
	case FormatPPTX:
		return v.pptx.Text
	case FormatXLSX:
		return v.xlsx.Text
	case FormatHTML:
		return v.html.Text
	}
	return ""
}

func checkApplies(name string, format Format) bool {
	for _, f := range checkFormats[name] {
		if f == format {
			return true
		}
	}
	return false
}

func checkFailed(name, detail string) Finding {
	return Finding{
		Check:    "CheckFailed:" + name,
		Severity: SeverityError,
		Detail:   detail,
	}
}

// runCheck executes one check with panic isolation.
func runCheck(name string, view *artifactView) (findings []Finding) {
	defer func() {
		if r := recover(); r != nil {
			findings = []Finding{checkFailed(name, fmt.Sprint(r))}
		}
	}()

	switch name {
	case CheckPlaceholderLeakage:
		return checkPlaceholderLeakage(view)
	case CheckLayoutOverflow:
		return checkLayoutOverflow(view)
	case CheckFontEmbedding:
		return checkFontEmbedding(view)
	case CheckBrokenLink:
		return checkBrokenLink(view)
	case CheckTableOverflow:
		return checkTableOverflow(view)
	}
	return nil
}

func checkPlaceholderLeakage(view *artifactView) []Finding {
	text := strings.ToUpper(view.text())
	var findings []Finding
	for _, marker := range placeholderMarkers {
		if !strings.Contains(text, marker) {
			continue
		}
		findings = append(findings, Finding{
			Check:    CheckPlaceholderLeakage,
			Severity: SeverityError,
			Detail:   fmt.Sprintf("placeholder marker %q present in document text", marker),
		})
	}
	return findings
}

func checkLayoutOverflow(view *artifactView) []Finding {
	var findings []Finding
	for i, slide := range view.pptx.Slides {
		for _, shape := range slide.Shapes {
			if shape.OffX+shape.ExtX <= view.pptx.SlideWidth &&
				shape.OffY+shape.ExtY <= view.pptx.SlideHeight {
				continue
			}
			name := shape.Name
			if name == "" {
				name = "shape"
			}
			findings = append(findings, Finding{
				Check:    CheckLayoutOverflow,
				Severity: SeverityWarning,
				Location: fmt.Sprintf("slide %d", i+1),
				Detail:   fmt.Sprintf("%s extends beyond the slide bounds", name),
			})
		}
	}
	return findings
}

func checkFontEmbedding(view *artifactView) []Finding {
	var findings []Finding
	for _, font := range view.pdf.Fonts {
		if font.Embedded || font.Standard {
			continue
		}
		findings = append(findings, Finding{
			Check:    CheckFontEmbedding,
			Severity: SeverityWarning,
			Location: "font " + font.Name,
			Detail:   fmt.Sprintf("font %s is neither embedded nor a standard font", font.Name),
		})
	}
	return findings
}

func checkBrokenLink(view *artifactView) []Finding {
	var findings []Finding
	for _, link := range view.html.Links {
		if fragment, ok := strings.CutPrefix(link, "#"); ok {
			if view.html.IDs[fragment] {
				continue
			}
			findings = append(findings, Finding{
				Check:    CheckBrokenLink,
				Severity: SeverityError,
				Location: "link " + link,
				Detail:   fmt.Sprintf("internal anchor %q has no target", link),
			})
			continue
		}
		// External URLs: well-formedness only, never the network.
		if reason := malformedURL(link); reason != "" {
			findings = append(findings, Finding{
				Check:    CheckBrokenLink,
				Severity: SeverityError,
				Location: "link " + link,
				Detail:   reason,
			})
		}
	}
	return findings
}

func malformedURL(link string) string {
	if strings.TrimSpace(link) == "" {
		return "empty link target"
	}
	u, err := url.Parse(link)
	if err != nil {
		return fmt.Sprintf("malformed URL: %v", err)
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Host == "" {
		return fmt.Sprintf("malformed URL %q: missing host", link)
	}
	return ""
}

func checkTableOverflow(view *artifactView) []Finding {
	var grids []docfile.TableGrid
	var locations []string
	switch view.format {
	case FormatDOCX:
		for i, table := range view.docx.Tables {
			grids = append(grids, table)
			locations = append(locations, fmt.Sprintf("table %d", i+1))
		}
	case FormatPPTX:
		for s, slide := range view.pptx.Slides {
			for i, table := range slide.Tables {
				grids = append(grids, table)
				locations = append(locations, fmt.Sprintf("slide %d table %d", s+1, i+1))
			}
		}
	}

	var findings []Finding
	for i, grid := range grids {
		total := 0
		for _, w := range grid.ColumnWidths {
			total += w
		}
		if grid.FrameWidth <= 0 || total <= grid.FrameWidth {
			continue
		}
		findings = append(findings, Finding{
			Check:    CheckTableOverflow,
			Severity: SeverityWarning,
			Location: locations[i],
			Detail:   fmt.Sprintf("column widths total %d exceed the container width %d", total, grid.FrameWidth),
		})
	}
	return findings
}
