// Package outline extracts document structure from the Markdown
// intermediate that template units produce. Structure-aware engines
// (direct PDF drawing, OOXML writers, spreadsheets, HTML decks) consume
// the outline instead of re-parsing Markdown themselves.
//
// The mapping is fixed: the first H1 is the document title, each H2
// starts a section (a slide, a sheet, a chapter), and paragraphs,
// lists, tables, and code blocks become typed blocks inside the
// current section.
package outline

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// BlockKind discriminates outline blocks.
type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindList
	KindCode
	KindTable
	KindHeading // H3 and deeper inside a section
)

// Outline is the structured view of one Markdown document.
type Outline struct {
	Title    string
	Intro    []Block // blocks before the first section heading
	Sections []Section
}

// Section is one H2-delimited unit of content.
type Section struct {
	Heading string
	Blocks  []Block
}

// Block is one typed content unit.
type Block struct {
	Kind  BlockKind
	Text  string   // paragraph/heading text or code content
	Lines []string // list items
	Table *Table
}

// Table is a parsed Markdown (GFM) table.
type Table struct {
	Header []string
	Rows   [][]string
}

// Parse builds an Outline from Markdown source.
func Parse(markdown string) *Outline {
	src := []byte(markdown)
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(src))

	o := &Outline{}
	var current *Section

	appendBlock := func(b Block) {
		if current != nil {
			current.Blocks = append(current.Blocks, b)
			return
		}
		o.Intro = append(o.Intro, b)
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			heading := nodeText(node, src)
			switch {
			case node.Level == 1 && o.Title == "":
				o.Title = heading
			case node.Level <= 2:
				o.Sections = append(o.Sections, Section{Heading: heading})
				current = &o.Sections[len(o.Sections)-1]
			default:
				appendBlock(Block{Kind: KindHeading, Text: heading})
			}
		case *east.Table:
			appendBlock(Block{Kind: KindTable, Table: parseTable(node, src)})
		case *ast.FencedCodeBlock:
			appendBlock(Block{Kind: KindCode, Text: rawLines(node, src)})
		case *ast.CodeBlock:
			appendBlock(Block{Kind: KindCode, Text: rawLines(node, src)})
		case *ast.List:
			appendBlock(Block{Kind: KindList, Lines: listItems(node, src)})
		default:
			if txt := strings.TrimSpace(nodeText(n, src)); txt != "" {
				appendBlock(Block{Kind: KindParagraph, Text: txt})
			}
		}
	}

	return o
}

// Text flattens every text-carrying element of the outline, in document
// order. Used by engines that only need plain content.
func (o *Outline) Text() string {
	var sb strings.Builder
	writeBlocks := func(blocks []Block) {
		for _, b := range blocks {
			switch b.Kind {
			case KindTable:
				for _, cell := range b.Table.Header {
					sb.WriteString(cell)
					sb.WriteByte(' ')
				}
				for _, row := range b.Table.Rows {
					for _, cell := range row {
						sb.WriteString(cell)
						sb.WriteByte(' ')
					}
				}
				sb.WriteByte('\n')
			case KindList:
				for _, line := range b.Lines {
					sb.WriteString(line)
					sb.WriteByte('\n')
				}
			default:
				sb.WriteString(b.Text)
				sb.WriteByte('\n')
			}
		}
	}

	if o.Title != "" {
		sb.WriteString(o.Title)
		sb.WriteByte('\n')
	}
	writeBlocks(o.Intro)
	for _, s := range o.Sections {
		sb.WriteString(s.Heading)
		sb.WriteByte('\n')
		writeBlocks(s.Blocks)
	}
	return sb.String()
}

// nodeText collects the plain text of a node and its descendants.
func nodeText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// rawLines concatenates the raw source lines of a code block.
func rawLines(n ast.Node, src []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// listItems extracts one line of text per list item, flattening nested
// lists into their parent item.
func listItems(list *ast.List, src []byte) []string {
	var items []string
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		items = append(items, nodeText(item, src))
	}
	return items
}

// parseTable converts a GFM table node into header and row cells.
func parseTable(table *east.Table, src []byte) *Table {
	t := &Table{}
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, nodeText(cell, src))
		}
		if _, ok := row.(*east.TableHeader); ok {
			t.Header = cells
			continue
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}
