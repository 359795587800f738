package engine

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/alnah/go-docforge/internal/fileutil"
	"github.com/alnah/go-docforge/internal/outline"
)

// Layout constants in millimeters (A4 portrait).
const (
	ddMargin     = 18.0
	ddLineHeight = 5.5
	ddCellHeight = 7.0
)

// DirectDrawing renders the document outline straight into a PDF with
// the pure Go fpdf library. No external toolkit is needed, which makes
// this the always-available fallback for page-based output.
type DirectDrawing struct{}

func NewDirectDrawing() *DirectDrawing { return &DirectDrawing{} }

func (d *DirectDrawing) Name() string { return NameDirectDrawing }

func (d *DirectDrawing) Close() error { return nil }

// Render lays out title, sections, lists, tables, and code blocks on A4
// pages and writes the artifact atomically.
func (d *DirectDrawing) Render(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	o := outline.Parse(job.Markdown)
	title := job.Title
	if title == "" {
		title = o.Title
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(ddMargin, ddMargin, ddMargin)
	pdf.SetAutoPageBreak(true, ddMargin)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if title != "" {
		pdf.SetFont("Helvetica", "B", 22)
		pdf.MultiCell(0, 10, tr(title), "", "L", false)
		pdf.Ln(4)
	}

	drawBlocks(pdf, tr, o.Intro)
	for _, section := range o.Sections {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 15)
		pdf.MultiCell(0, 8, tr(section.Heading), "", "L", false)
		pdf.Ln(1)
		drawBlocks(pdf, tr, section.Blocks)
	}

	if pdf.Err() {
		return fmt.Errorf("%w: %v", ErrRenderFailed, pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	return fileutil.WriteFileAtomic(job.OutputPath, buf.Bytes())
}

func drawBlocks(pdf *fpdf.Fpdf, tr func(string) string, blocks []outline.Block) {
	for _, b := range blocks {
		switch b.Kind {
		case outline.KindHeading:
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 7, tr(b.Text), "", "L", false)
		case outline.KindList:
			pdf.SetFont("Helvetica", "", 11)
			for _, item := range b.Lines {
				pdf.MultiCell(0, ddLineHeight, tr("- "+item), "", "L", false)
			}
			pdf.Ln(2)
		case outline.KindCode:
			pdf.SetFont("Courier", "", 9)
			for _, line := range strings.Split(b.Text, "\n") {
				pdf.MultiCell(0, 4.5, tr(line), "", "L", false)
			}
			pdf.Ln(2)
		case outline.KindTable:
			drawTable(pdf, tr, b.Table)
		default:
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, ddLineHeight, tr(b.Text), "", "L", false)
			pdf.Ln(2)
		}
	}
}

func drawTable(pdf *fpdf.Fpdf, tr func(string) string, t *outline.Table) {
	if t == nil || len(t.Header) == 0 {
		return
	}

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(t.Header))

	pdf.SetFont("Helvetica", "B", 10)
	for _, cell := range t.Header {
		pdf.CellFormat(colWidth, ddCellHeight, tr(cell), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range t.Rows {
		for i := 0; i < len(t.Header); i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(colWidth, ddCellHeight, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(2)
}
