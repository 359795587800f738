package engine

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const sampleMarkdown = `# Quarterly Report

An overview paragraph.

## Revenue

- North region up
- South region flat

| Region | Total |
| --- | --- |
| North | 120 |
| South | 80 |

## Outlook

Steady growth expected.
`

func TestDirectDrawingProducesPDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.pdf")
	eng := NewDirectDrawing()

	err := eng.Render(context.Background(), Job{Markdown: sampleMarkdown, OutputPath: out})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		t.Errorf("artifact does not start with PDF magic, got %q", content[:min(8, len(content))])
	}
}

func TestDirectDrawingCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := filepath.Join(t.TempDir(), "report.pdf")
	err := NewDirectDrawing().Render(ctx, Job{Markdown: "# T", OutputPath: out})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Render() error = %v, want context.Canceled", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("cancelled render left a file at the output path")
	}
}

func TestNativeOOXMLDocx(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.docx")
	eng := NewNativeOOXML("docx")

	err := eng.Render(context.Background(), Job{Markdown: sampleMarkdown, OutputPath: out})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	names := zipPartNames(t, out)
	for _, want := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml", "word/styles.xml"} {
		if !names[want] {
			t.Errorf("package is missing part %s", want)
		}
	}

	document := readZipPart(t, out, "word/document.xml")
	for _, want := range []string{"Quarterly Report", "Revenue", "North region up", "w:tblGrid", `w:w="11906"`} {
		if !strings.Contains(document, want) {
			t.Errorf("document.xml is missing %q", want)
		}
	}
}

func TestNativeOOXMLPptx(t *testing.T) {
	out := filepath.Join(t.TempDir(), "deck.pptx")
	eng := NewNativeOOXML("pptx")

	err := eng.Render(context.Background(), Job{Markdown: sampleMarkdown, OutputPath: out})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	names := zipPartNames(t, out)
	// Title slide plus one per section.
	for _, want := range []string{
		"ppt/presentation.xml",
		"ppt/slides/slide1.xml", "ppt/slides/slide2.xml", "ppt/slides/slide3.xml",
		"ppt/slideMasters/slideMaster1.xml", "ppt/slideLayouts/slideLayout1.xml",
	} {
		if !names[want] {
			t.Errorf("package is missing part %s", want)
		}
	}

	pres := readZipPart(t, out, "ppt/presentation.xml")
	if !strings.Contains(pres, `cx="9144000"`) || !strings.Contains(pres, `cy="6858000"`) {
		t.Error("presentation.xml does not declare the expected slide size")
	}

	slide2 := readZipPart(t, out, "ppt/slides/slide2.xml")
	for _, want := range []string{"Revenue", "North region up", "a:tbl", "a:gridCol"} {
		if !strings.Contains(slide2, want) {
			t.Errorf("slide2.xml is missing %q", want)
		}
	}
}

func TestNativeOOXMLUnknownFlavor(t *testing.T) {
	eng := NewNativeOOXML("odt")
	err := eng.Render(context.Background(), Job{Markdown: "# T", OutputPath: filepath.Join(t.TempDir(), "x.odt")})
	if !errors.Is(err, ErrRenderFailed) {
		t.Fatalf("Render() error = %v, want ErrRenderFailed", err)
	}
}

func TestExcelizeWorkbook(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.xlsx")
	eng := NewExcelize()

	err := eng.Render(context.Background(), Job{Markdown: sampleMarkdown, OutputPath: out})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	book, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	want := []string{"Overview", "Revenue", "Outlook"}
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v, want %v", sheets, want)
	}
	for i, name := range want {
		if sheets[i] != name {
			t.Errorf("sheets[%d] = %q, want %q", i, sheets[i], name)
		}
	}

	title, err := book.GetCellValue("Overview", "A1")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if title != "Quarterly Report" {
		t.Errorf("Overview!A1 = %q, want %q", title, "Quarterly Report")
	}

	rows, err := book.GetRows("Revenue")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	var foundHeader bool
	for _, row := range rows {
		if len(row) >= 2 && row[0] == "Region" && row[1] == "Total" {
			foundHeader = true
		}
	}
	if !foundHeader {
		t.Error("Revenue sheet does not contain the table header row")
	}
}

func TestCodeBlockContentSurvives(t *testing.T) {
	const markdown = "# Runbook\n\n## Deploy\n\n```\nmake release VERSION=1.2\n```\n"
	const codeLine = "make release VERSION=1.2"

	t.Run("docx", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "runbook.docx")
		if err := NewNativeOOXML("docx").Render(context.Background(), Job{Markdown: markdown, OutputPath: out}); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if document := readZipPart(t, out, "word/document.xml"); !strings.Contains(document, codeLine) {
			t.Errorf("document.xml is missing the code line %q", codeLine)
		}
	})

	t.Run("pptx", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "runbook.pptx")
		if err := NewNativeOOXML("pptx").Render(context.Background(), Job{Markdown: markdown, OutputPath: out}); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if slide := readZipPart(t, out, "ppt/slides/slide2.xml"); !strings.Contains(slide, codeLine) {
			t.Errorf("slide2.xml is missing the code line %q", codeLine)
		}
	})

	t.Run("xlsx", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "runbook.xlsx")
		if err := NewExcelize().Render(context.Background(), Job{Markdown: markdown, OutputPath: out}); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		book, err := excelize.OpenFile(out)
		if err != nil {
			t.Fatalf("opening workbook: %v", err)
		}
		defer book.Close()
		rows, err := book.GetRows("Deploy")
		if err != nil {
			t.Fatalf("GetRows: %v", err)
		}
		var found bool
		for _, row := range rows {
			if len(row) > 0 && row[0] == codeLine {
				found = true
			}
		}
		if !found {
			t.Errorf("Deploy sheet is missing the code line %q", codeLine)
		}
	})
}

func TestHTMLDeckSlidesAndNav(t *testing.T) {
	out := filepath.Join(t.TempDir(), "deck.html")
	eng := NewHTMLDeck()

	err := eng.Render(context.Background(), Job{Markdown: sampleMarkdown, OutputPath: out})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	html := string(content)

	if got := strings.Count(html, `<section class="slide"`); got != 3 {
		t.Errorf("slide count = %d, want 3", got)
	}
	for _, want := range []string{
		`<title>Quarterly Report</title>`,
		`href="#revenue"`, `id="revenue"`,
		`href="#outlook"`, `id="outlook"`,
		"<table>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("deck is missing %q", want)
		}
	}
}

func TestSlideIDUnique(t *testing.T) {
	used := map[string]bool{}
	if got := slideID("Revenue & Costs", used); got != "revenue-costs" {
		t.Errorf("slideID = %q, want %q", got, "revenue-costs")
	}
	if got := slideID("Revenue & Costs", used); got != "revenue-costs-2" {
		t.Errorf("duplicate slideID = %q, want %q", got, "revenue-costs-2")
	}
	if got := slideID("!!!", used); got != "slide" {
		t.Errorf("slideID for symbols = %q, want %q", got, "slide")
	}
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{}
	tests := []struct {
		in   string
		want string
	}{
		{"Revenue", "Revenue"},
		{"Revenue", "Revenue 2"},
		{"A/B: Test?", "A B  Test"},
		{strings.Repeat("x", 40), strings.Repeat("x", 31)},
		{"", "Sheet"},
	}
	for _, tt := range tests {
		if got := sheetName(tt.in, used); got != tt.want {
			t.Errorf("sheetName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type fakeRunner struct {
	stderr string
	err    error
	calls  [][]string
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	if r.err != nil {
		return "", r.stderr, r.err
	}
	// Simulate pandoc writing its output file.
	for i, arg := range args {
		if arg == "-o" && i+1 < len(args) {
			if err := os.WriteFile(args[i+1], []byte("artifact"), 0o600); err != nil {
				return "", "", err
			}
		}
	}
	return "", "", nil
}

func TestPandocRenameOnSuccess(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.docx")
	eng := &Pandoc{To: "docx", Runner: &fakeRunner{}}

	err := eng.Render(context.Background(), Job{Title: "T", Markdown: "# T", OutputPath: out})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
}

func TestPandocFailureKeepsStderrAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "report.pdf")
	runner := &fakeRunner{stderr: "pdflatex not found", err: errors.New("exit status 47")}
	eng := &Pandoc{To: "pdf", Runner: runner}

	err := eng.Render(context.Background(), Job{Markdown: "# T", OutputPath: out})
	if !errors.Is(err, ErrToolFailed) {
		t.Fatalf("Render() error = %v, want ErrToolFailed", err)
	}
	if !strings.Contains(err.Error(), "pdflatex not found") {
		t.Errorf("error %q does not carry the tool diagnostic", err)
	}

	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatalf("ReadDir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Errorf("failed render left files behind: %v", entries)
	}
}

func zipPartNames(t *testing.T, path string) map[string]bool {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening package: %v", err)
	}
	defer r.Close()
	names := map[string]bool{}
	for _, f := range r.File {
		names[f.Name] = true
	}
	return names
}

func readZipPart(t *testing.T, path, part string) string {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening package: %v", err)
	}
	defer r.Close()
	for _, f := range r.File {
		if f.Name != part {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening part %s: %v", part, err)
		}
		defer rc.Close()
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			t.Fatalf("reading part %s: %v", part, err)
		}
		return buf.String()
	}
	t.Fatalf("part %s not found in %s", part, path)
	return ""
}
