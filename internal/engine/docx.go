package engine

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/alnah/go-docforge/internal/outline"
)

// A4 page geometry in twentieths of a point (twips).
const (
	docxPageWidth  = 11906
	docxPageHeight = 16838
	docxMargin     = 1440
)

// docxContentWidth is the usable width between margins, used to size
// table grids.
const docxContentWidth = docxPageWidth - 2*docxMargin

// buildDocxParts assembles the minimal WordprocessingML package for one
// outline: content types, package rels, styles, and the document body.
func buildDocxParts(doc *outline.Outline) ([]ooxmlPart, error) {
	var parts []ooxmlPart

	ct, err := contentTypesPart([][2]string{
		{"/word/document.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"},
		{"/word/styles.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"},
	})
	if err != nil {
		return nil, err
	}
	parts = append(parts, ct)

	rels, err := relationshipsPart("_rels/.rels", [][3]string{
		{"rId1", nsOfficeRels + "/officeDocument", "word/document.xml"},
	})
	if err != nil {
		return nil, err
	}
	parts = append(parts, rels)

	docRels, err := relationshipsPart("word/_rels/document.xml.rels", [][3]string{
		{"rId1", nsOfficeRels + "/styles", "styles.xml"},
	})
	if err != nil {
		return nil, err
	}
	parts = append(parts, docRels)

	styles, err := docxStylesPart()
	if err != nil {
		return nil, err
	}
	parts = append(parts, styles)

	body, err := docxDocumentPart(doc)
	if err != nil {
		return nil, err
	}
	parts = append(parts, body)

	return parts, nil
}

func docxStylesPart() (ooxmlPart, error) {
	xml := newOOXMLDoc()
	root := xml.CreateElement("w:styles")
	root.CreateAttr("xmlns:w", nsWordprocessingML)

	addHeading := func(id string, size int) {
		style := root.CreateElement("w:style")
		style.CreateAttr("w:type", "paragraph")
		style.CreateAttr("w:styleId", id)
		style.CreateElement("w:name").CreateAttr("w:val", id)
		rPr := style.CreateElement("w:rPr")
		rPr.CreateElement("w:b")
		rPr.CreateElement("w:sz").CreateAttr("w:val", strconv.Itoa(size))
	}
	addHeading("Title", 48)
	addHeading("Heading1", 32)
	addHeading("Heading2", 26)

	return serializePart("word/styles.xml", xml)
}

func docxDocumentPart(doc *outline.Outline) (ooxmlPart, error) {
	xml := newOOXMLDoc()
	root := xml.CreateElement("w:document")
	root.CreateAttr("xmlns:w", nsWordprocessingML)
	body := root.CreateElement("w:body")

	if doc.Title != "" {
		docxParagraph(body, doc.Title, "Title")
	}
	docxBlocks(body, doc.Intro)
	for _, section := range doc.Sections {
		if section.Heading != "" {
			docxParagraph(body, section.Heading, "Heading1")
		}
		docxBlocks(body, section.Blocks)
	}

	sectPr := body.CreateElement("w:sectPr")
	pgSz := sectPr.CreateElement("w:pgSz")
	pgSz.CreateAttr("w:w", strconv.Itoa(docxPageWidth))
	pgSz.CreateAttr("w:h", strconv.Itoa(docxPageHeight))
	pgMar := sectPr.CreateElement("w:pgMar")
	for _, side := range []string{"w:top", "w:right", "w:bottom", "w:left"} {
		pgMar.CreateAttr(side, strconv.Itoa(docxMargin))
	}

	return serializePart("word/document.xml", xml)
}

func docxBlocks(body *etree.Element, blocks []outline.Block) {
	for _, block := range blocks {
		switch block.Kind {
		case outline.KindHeading:
			docxParagraph(body, block.Text, "Heading2")
		case outline.KindList:
			for _, item := range block.Lines {
				docxParagraph(body, "• "+item, "")
			}
		case outline.KindCode:
			for _, line := range strings.Split(block.Text, "\n") {
				p := docxParagraph(body, line, "")
				run := p.FindElement("w:r")
				rPr := etree.NewElement("w:rPr")
				rPr.CreateElement("w:rFonts").CreateAttr("w:ascii", "Courier New")
				run.InsertChildAt(0, rPr)
			}
		case outline.KindTable:
			if block.Table != nil {
				docxTable(body, block.Table)
			}
		default:
			docxParagraph(body, block.Text, "")
		}
	}
}

func docxParagraph(body *etree.Element, text, style string) *etree.Element {
	p := body.CreateElement("w:p")
	if style != "" {
		p.CreateElement("w:pPr").CreateElement("w:pStyle").CreateAttr("w:val", style)
	}
	run := p.CreateElement("w:r")
	t := run.CreateElement("w:t")
	t.CreateAttr("xml:space", "preserve")
	t.SetText(text)
	return p
}

func docxTable(body *etree.Element, table *outline.Table) {
	cols := len(table.Header)
	for _, row := range table.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return
	}
	colWidth := docxContentWidth / cols

	tbl := body.CreateElement("w:tbl")
	tblPr := tbl.CreateElement("w:tblPr")
	tblW := tblPr.CreateElement("w:tblW")
	tblW.CreateAttr("w:w", strconv.Itoa(colWidth*cols))
	tblW.CreateAttr("w:type", "dxa")
	borders := tblPr.CreateElement("w:tblBorders")
	for _, edge := range []string{"w:top", "w:left", "w:bottom", "w:right", "w:insideH", "w:insideV"} {
		b := borders.CreateElement(edge)
		b.CreateAttr("w:val", "single")
		b.CreateAttr("w:sz", "4")
	}

	grid := tbl.CreateElement("w:tblGrid")
	for range cols {
		grid.CreateElement("w:gridCol").CreateAttr("w:w", strconv.Itoa(colWidth))
	}

	writeRow := func(cells []string, bold bool) {
		tr := tbl.CreateElement("w:tr")
		for i := range cols {
			var text string
			if i < len(cells) {
				text = cells[i]
			}
			tc := tr.CreateElement("w:tc")
			tcPr := tc.CreateElement("w:tcPr")
			tcW := tcPr.CreateElement("w:tcW")
			tcW.CreateAttr("w:w", strconv.Itoa(colWidth))
			tcW.CreateAttr("w:type", "dxa")
			p := tc.CreateElement("w:p")
			run := p.CreateElement("w:r")
			if bold {
				run.CreateElement("w:rPr").CreateElement("w:b")
			}
			t := run.CreateElement("w:t")
			t.CreateAttr("xml:space", "preserve")
			t.SetText(text)
		}
	}
	if len(table.Header) > 0 {
		writeRow(table.Header, true)
	}
	for _, row := range table.Rows {
		writeRow(row, false)
	}
}
