package docfile

import (
	"archive/zip"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// TableGrid is one table's declared column widths plus the width of
// the frame it must fit in. Units are twips for docx, EMU for pptx.
type TableGrid struct {
	ColumnWidths []int
	FrameWidth   int
}

// DocxInfo is the validation view of a docx artifact.
type DocxInfo struct {
	Text string
	// Page geometry in twips, from the body sectPr.
	PageWidth   int
	MarginLeft  int
	MarginRight int
	Tables      []TableGrid
}

// ContentWidth is the usable width between the page margins.
func (d *DocxInfo) ContentWidth() int {
	return d.PageWidth - d.MarginLeft - d.MarginRight
}

// ShapeInfo is one positioned slide shape, in EMU.
type ShapeInfo struct {
	Name string
	OffX int
	OffY int
	ExtX int
	ExtY int
}

// SlideInfo is one slide's shapes and tables.
type SlideInfo struct {
	Shapes []ShapeInfo
	Tables []TableGrid
}

// PptxInfo is the validation view of a pptx artifact.
type PptxInfo struct {
	Text        string
	SlideWidth  int
	SlideHeight int
	Slides      []SlideInfo
}

// ReadDocx extracts text, page geometry, and table grids from the main
// document part.
func ReadDocx(path string) (*DocxInfo, error) {
	doc, err := readXMLPart(path, "word/document.xml")
	if err != nil {
		return nil, err
	}

	info := &DocxInfo{}

	var text strings.Builder
	collectElementText(doc.Root(), "w:t", &text)
	info.Text = text.String()

	if pgSz := doc.FindElement("//w:sectPr/w:pgSz"); pgSz != nil {
		info.PageWidth = intAttr(pgSz, "w:w")
	}
	if pgMar := doc.FindElement("//w:sectPr/w:pgMar"); pgMar != nil {
		info.MarginLeft = intAttr(pgMar, "w:left")
		info.MarginRight = intAttr(pgMar, "w:right")
	}

	for _, tbl := range doc.FindElements("//w:tbl") {
		grid := TableGrid{FrameWidth: info.ContentWidth()}
		for _, col := range tbl.FindElements("w:tblGrid/w:gridCol") {
			grid.ColumnWidths = append(grid.ColumnWidths, intAttr(col, "w:w"))
		}
		info.Tables = append(info.Tables, grid)
	}

	return info, nil
}

// ReadPptx extracts text, slide size, shape geometry, and table grids
// from every slide part.
func ReadPptx(path string) (*PptxInfo, error) {
	pres, err := readXMLPart(path, "ppt/presentation.xml")
	if err != nil {
		return nil, err
	}

	info := &PptxInfo{}
	if size := pres.FindElement("//p:sldSz"); size != nil {
		info.SlideWidth = intAttr(size, "cx")
		info.SlideHeight = intAttr(size, "cy")
	}

	slideParts, err := listParts(path, "ppt/slides/slide")
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, part := range slideParts {
		doc, err := readXMLPart(path, part)
		if err != nil {
			return nil, err
		}
		collectElementText(doc.Root(), "a:t", &text)
		text.WriteByte('\n')

		slide := SlideInfo{}
		for _, sp := range doc.FindElements("//p:sp") {
			shape := ShapeInfo{}
			if cNvPr := sp.FindElement(".//p:cNvPr"); cNvPr != nil {
				shape.Name = cNvPr.SelectAttrValue("name", "")
			}
			if off := sp.FindElement("p:spPr/a:xfrm/a:off"); off != nil {
				shape.OffX = intAttr(off, "x")
				shape.OffY = intAttr(off, "y")
			}
			if ext := sp.FindElement("p:spPr/a:xfrm/a:ext"); ext != nil {
				shape.ExtX = intAttr(ext, "cx")
				shape.ExtY = intAttr(ext, "cy")
			}
			slide.Shapes = append(slide.Shapes, shape)
		}
		for _, frame := range doc.FindElements("//p:graphicFrame") {
			grid := TableGrid{}
			if ext := frame.FindElement("p:xfrm/a:ext"); ext != nil {
				grid.FrameWidth = intAttr(ext, "cx")
			}
			for _, col := range frame.FindElements(".//a:tblGrid/a:gridCol") {
				grid.ColumnWidths = append(grid.ColumnWidths, intAttr(col, "w"))
			}
			slide.Tables = append(slide.Tables, grid)
		}
		info.Slides = append(info.Slides, slide)
	}
	info.Text = text.String()

	return info, nil
}

func readXMLPart(path, part string) (*etree.Document, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != part {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: opening %s: %v", ErrUnreadable, part, err)
		}
		defer rc.Close()

		doc := etree.NewDocument()
		if _, err := doc.ReadFrom(rc); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", ErrUnreadable, part, err)
		}
		return doc, nil
	}
	return nil, fmt.Errorf("%w: missing part %s", ErrUnreadable, part)
}

// listParts returns package parts with the given prefix, in numeric
// slide order.
func listParts(path, prefix string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		if strings.HasPrefix(f.Name, prefix) && strings.HasSuffix(f.Name, ".xml") {
			names = append(names, f.Name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return partNumber(names[i], prefix) < partNumber(names[j], prefix)
	})
	return names, nil
}

func partNumber(name, prefix string) int {
	n, _ := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".xml"))
	return n
}

// collectElementText appends the text of every descendant element with
// the given tag, separating elements with newlines.
func collectElementText(root *etree.Element, tag string, out *strings.Builder) {
	if root == nil {
		return
	}
	for _, el := range root.FindElements("//" + tag) {
		out.WriteString(el.Text())
		out.WriteByte('\n')
	}
}

func intAttr(el *etree.Element, name string) int {
	n, _ := strconv.Atoi(el.SelectAttrValue(name, "0"))
	return n
}
