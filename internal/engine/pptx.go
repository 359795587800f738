package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/alnah/go-docforge/internal/outline"
)

// Slide geometry in English Metric Units. The slide surface is the
// standard 4:3 canvas; the title and body boxes match the default
// placeholder layout, so the overflow preflight check measures against
// the same frames PowerPoint would use.
const (
	pptxSlideWidth  = 9144000
	pptxSlideHeight = 6858000

	pptxTitleOffX = 457200
	pptxTitleOffY = 274638
	pptxTitleExtX = 8229600
	pptxTitleExtY = 1143000

	pptxBodyOffX = 457200
	pptxBodyOffY = 1600200
	pptxBodyExtX = 8229600
	pptxBodyExtY = 4525963
)

// buildPptxParts assembles a PresentationML package: the first slide
// carries the title and intro, then one slide per section.
func buildPptxParts(doc *outline.Outline) ([]ooxmlPart, error) {
	slides := pptxSlides(doc)

	var parts []ooxmlPart

	overrides := [][2]string{
		{"/ppt/presentation.xml", "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"},
		{"/ppt/slideMasters/slideMaster1.xml", "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"},
		{"/ppt/slideLayouts/slideLayout1.xml", "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"},
	}
	for i := range slides {
		overrides = append(overrides, [2]string{
			fmt.Sprintf("/ppt/slides/slide%d.xml", i+1),
			"application/vnd.openxmlformats-officedocument.presentationml.slide+xml",
		})
	}
	ct, err := contentTypesPart(overrides)
	if err != nil {
		return nil, err
	}
	parts = append(parts, ct)

	rels, err := relationshipsPart("_rels/.rels", [][3]string{
		{"rId1", nsOfficeRels + "/officeDocument", "ppt/presentation.xml"},
	})
	if err != nil {
		return nil, err
	}
	parts = append(parts, rels)

	presRels := [][3]string{
		{"rId1", nsOfficeRels + "/slideMaster", "slideMasters/slideMaster1.xml"},
	}
	for i := range slides {
		presRels = append(presRels, [3]string{
			fmt.Sprintf("rId%d", i+2),
			nsOfficeRels + "/slide",
			fmt.Sprintf("slides/slide%d.xml", i+1),
		})
	}
	pr, err := relationshipsPart("ppt/_rels/presentation.xml.rels", presRels)
	if err != nil {
		return nil, err
	}
	parts = append(parts, pr)

	pres, err := pptxPresentationPart(len(slides))
	if err != nil {
		return nil, err
	}
	parts = append(parts, pres)

	master, err := pptxMasterPart()
	if err != nil {
		return nil, err
	}
	parts = append(parts, master)
	masterRels, err := relationshipsPart("ppt/slideMasters/_rels/slideMaster1.xml.rels", [][3]string{
		{"rId1", nsOfficeRels + "/slideLayout", "../slideLayouts/slideLayout1.xml"},
	})
	if err != nil {
		return nil, err
	}
	parts = append(parts, masterRels)

	layout, err := pptxLayoutPart()
	if err != nil {
		return nil, err
	}
	parts = append(parts, layout)
	layoutRels, err := relationshipsPart("ppt/slideLayouts/_rels/slideLayout1.xml.rels", [][3]string{
		{"rId1", nsOfficeRels + "/slideMaster", "../slideMasters/slideMaster1.xml"},
	})
	if err != nil {
		return nil, err
	}
	parts = append(parts, layoutRels)

	for i, slide := range slides {
		part, err := pptxSlidePart(fmt.Sprintf("ppt/slides/slide%d.xml", i+1), slide)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)

		slideRels, err := relationshipsPart(
			fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1),
			[][3]string{{"rId1", nsOfficeRels + "/slideLayout", "../slideLayouts/slideLayout1.xml"}},
		)
		if err != nil {
			return nil, err
		}
		parts = append(parts, slideRels)
	}

	return parts, nil
}

// pptxSlide is the flattened content of one slide.
type pptxSlide struct {
	Title  string
	Blocks []outline.Block
}

func pptxSlides(doc *outline.Outline) []pptxSlide {
	slides := []pptxSlide{{Title: doc.Title, Blocks: doc.Intro}}
	for _, section := range doc.Sections {
		slides = append(slides, pptxSlide{Title: section.Heading, Blocks: section.Blocks})
	}
	return slides
}

func pptxPresentationPart(slideCount int) (ooxmlPart, error) {
	xml := newOOXMLDoc()
	root := xml.CreateElement("p:presentation")
	root.CreateAttr("xmlns:p", nsPresentationML)
	root.CreateAttr("xmlns:a", nsDrawingML)
	root.CreateAttr("xmlns:r", nsOfficeRels)

	masters := root.CreateElement("p:sldMasterIdLst")
	master := masters.CreateElement("p:sldMasterId")
	master.CreateAttr("id", "2147483648")
	master.CreateAttr("r:id", "rId1")

	slides := root.CreateElement("p:sldIdLst")
	for i := range slideCount {
		s := slides.CreateElement("p:sldId")
		s.CreateAttr("id", strconv.Itoa(256+i))
		s.CreateAttr("r:id", fmt.Sprintf("rId%d", i+2))
	}

	size := root.CreateElement("p:sldSz")
	size.CreateAttr("cx", strconv.Itoa(pptxSlideWidth))
	size.CreateAttr("cy", strconv.Itoa(pptxSlideHeight))
	notes := root.CreateElement("p:notesSz")
	notes.CreateAttr("cx", strconv.Itoa(pptxSlideHeight))
	notes.CreateAttr("cy", strconv.Itoa(pptxSlideWidth))

	return serializePart("ppt/presentation.xml", xml)
}

func pptxMasterPart() (ooxmlPart, error) {
	xml := newOOXMLDoc()
	root := xml.CreateElement("p:sldMaster")
	root.CreateAttr("xmlns:p", nsPresentationML)
	root.CreateAttr("xmlns:a", nsDrawingML)
	root.CreateAttr("xmlns:r", nsOfficeRels)
	pptxEmptySpTree(root.CreateElement("p:cSld"))

	clrMap := root.CreateElement("p:clrMap")
	for _, m := range [][2]string{
		{"bg1", "lt1"}, {"tx1", "dk1"}, {"bg2", "lt2"}, {"tx2", "dk2"},
		{"accent1", "accent1"}, {"accent2", "accent2"}, {"accent3", "accent3"},
		{"accent4", "accent4"}, {"accent5", "accent5"}, {"accent6", "accent6"},
		{"hlink", "hlink"}, {"folHlink", "folHlink"},
	} {
		clrMap.CreateAttr(m[0], m[1])
	}

	layouts := root.CreateElement("p:sldLayoutIdLst")
	layout := layouts.CreateElement("p:sldLayoutId")
	layout.CreateAttr("id", "2147483649")
	layout.CreateAttr("r:id", "rId1")

	return serializePart("ppt/slideMasters/slideMaster1.xml", xml)
}

func pptxLayoutPart() (ooxmlPart, error) {
	xml := newOOXMLDoc()
	root := xml.CreateElement("p:sldLayout")
	root.CreateAttr("xmlns:p", nsPresentationML)
	root.CreateAttr("xmlns:a", nsDrawingML)
	root.CreateAttr("xmlns:r", nsOfficeRels)
	pptxEmptySpTree(root.CreateElement("p:cSld"))
	root.CreateElement("p:clrMapOvr").CreateElement("a:masterClrMapping")
	return serializePart("ppt/slideLayouts/slideLayout1.xml", xml)
}

func pptxEmptySpTree(cSld *etree.Element) *etree.Element {
	tree := cSld.CreateElement("p:spTree")
	nv := tree.CreateElement("p:nvGrpSpPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", "1")
	cNvPr.CreateAttr("name", "")
	nv.CreateElement("p:cNvGrpSpPr")
	nv.CreateElement("p:nvPr")
	tree.CreateElement("p:grpSpPr")
	return tree
}

func pptxSlidePart(name string, slide pptxSlide) (ooxmlPart, error) {
	xml := newOOXMLDoc()
	root := xml.CreateElement("p:sld")
	root.CreateAttr("xmlns:p", nsPresentationML)
	root.CreateAttr("xmlns:a", nsDrawingML)
	root.CreateAttr("xmlns:r", nsOfficeRels)
	tree := pptxEmptySpTree(root.CreateElement("p:cSld"))

	nextID := 2
	pptxTextShape(tree, nextID, "Title", "title",
		pptxTitleOffX, pptxTitleOffY, pptxTitleExtX, pptxTitleExtY,
		[]string{slide.Title}, 3200)
	nextID++

	var lines []string
	var tables []*outline.Table
	for _, block := range slide.Blocks {
		switch block.Kind {
		case outline.KindList:
			for _, item := range block.Lines {
				lines = append(lines, "• "+item)
			}
		case outline.KindCode:
			lines = append(lines, strings.Split(block.Text, "\n")...)
		case outline.KindTable:
			if block.Table != nil {
				tables = append(tables, block.Table)
			}
		default:
			lines = append(lines, block.Text)
		}
	}
	pptxTextShape(tree, nextID, "Content", "body",
		pptxBodyOffX, pptxBodyOffY, pptxBodyExtX, pptxBodyExtY,
		lines, 1800)
	nextID++

	for _, table := range tables {
		pptxTableFrame(tree, nextID, table)
		nextID++
	}

	root.CreateElement("p:clrMapOvr").CreateElement("a:masterClrMapping")
	return serializePart(name, xml)
}

func pptxTextShape(tree *etree.Element, id int, name, phType string, offX, offY, extX, extY int, lines []string, fontSize int) {
	sp := tree.CreateElement("p:sp")

	nv := sp.CreateElement("p:nvSpPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", strconv.Itoa(id))
	cNvPr.CreateAttr("name", name)
	nv.CreateElement("p:cNvSpPr")
	nv.CreateElement("p:nvPr").CreateElement("p:ph").CreateAttr("type", phType)

	spPr := sp.CreateElement("p:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", strconv.Itoa(offX))
	off.CreateAttr("y", strconv.Itoa(offY))
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", strconv.Itoa(extX))
	ext.CreateAttr("cy", strconv.Itoa(extY))
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")

	tx := sp.CreateElement("p:txBody")
	tx.CreateElement("a:bodyPr")
	tx.CreateElement("a:lstStyle")
	if len(lines) == 0 {
		lines = []string{""}
	}
	for _, line := range lines {
		p := tx.CreateElement("a:p")
		r := p.CreateElement("a:r")
		rPr := r.CreateElement("a:rPr")
		rPr.CreateAttr("lang", "en-US")
		rPr.CreateAttr("sz", strconv.Itoa(fontSize))
		r.CreateElement("a:t").SetText(line)
	}
}

func pptxTableFrame(tree *etree.Element, id int, table *outline.Table) {
	cols := len(table.Header)
	for _, row := range table.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return
	}
	colWidth := pptxBodyExtX / cols

	frame := tree.CreateElement("p:graphicFrame")
	nv := frame.CreateElement("p:nvGraphicFramePr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", strconv.Itoa(id))
	cNvPr.CreateAttr("name", "Table")
	nv.CreateElement("p:cNvGraphicFramePr")
	nv.CreateElement("p:nvPr")

	xfrm := frame.CreateElement("p:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", strconv.Itoa(pptxBodyOffX))
	off.CreateAttr("y", strconv.Itoa(pptxBodyOffY))
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", strconv.Itoa(colWidth*cols))
	ext.CreateAttr("cy", strconv.Itoa(pptxBodyExtY))

	graphic := frame.CreateElement("a:graphic")
	data := graphic.CreateElement("a:graphicData")
	data.CreateAttr("uri", "http://schemas.openxmlformats.org/drawingml/2006/table")
	tbl := data.CreateElement("a:tbl")
	tbl.CreateElement("a:tblPr")
	grid := tbl.CreateElement("a:tblGrid")
	for range cols {
		grid.CreateElement("a:gridCol").CreateAttr("w", strconv.Itoa(colWidth))
	}

	writeRow := func(cells []string) {
		tr := tbl.CreateElement("a:tr")
		tr.CreateAttr("h", "370840")
		for i := range cols {
			var text string
			if i < len(cells) {
				text = cells[i]
			}
			tc := tr.CreateElement("a:tc")
			tx := tc.CreateElement("a:txBody")
			tx.CreateElement("a:bodyPr")
			tx.CreateElement("a:lstStyle")
			p := tx.CreateElement("a:p")
			r := p.CreateElement("a:r")
			r.CreateElement("a:rPr").CreateAttr("lang", "en-US")
			r.CreateElement("a:t").SetText(text)
			tc.CreateElement("a:tcPr")
		}
	}
	if len(table.Header) > 0 {
		writeRow(table.Header)
	}
	for _, row := range table.Rows {
		writeRow(row)
	}
}
