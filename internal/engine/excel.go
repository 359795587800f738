package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/alnah/go-docforge/internal/fileutil"
	"github.com/alnah/go-docforge/internal/outline"
)

// sheetNameLimit is the spreadsheet format's hard cap on sheet names.
const sheetNameLimit = 31

// Excelize renders the outline as a workbook: an overview sheet for the
// title and intro, then one sheet per section. Tables land as cell
// grids, everything else as single-column rows.
type Excelize struct{}

func NewExcelize() *Excelize { return &Excelize{} }

func (e *Excelize) Name() string { return NameExcelize }

func (e *Excelize) Close() error { return nil }

func (e *Excelize) Render(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := outline.Parse(job.Markdown)
	if doc.Title == "" {
		doc.Title = job.Title
	}

	book := excelize.NewFile()
	defer book.Close()

	used := map[string]bool{}
	overview := sheetName("Overview", used)
	if err := book.SetSheetName("Sheet1", overview); err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	row := 1
	if doc.Title != "" {
		if err := setCell(book, overview, 1, row, doc.Title); err != nil {
			return err
		}
		row += 2
	}
	if _, err := writeBlocks(book, overview, row, doc.Intro); err != nil {
		return err
	}

	for _, section := range doc.Sections {
		name := sheetName(section.Heading, used)
		if _, err := book.NewSheet(name); err != nil {
			return fmt.Errorf("%w: %v", ErrRenderFailed, err)
		}
		if err := setCell(book, name, 1, 1, section.Heading); err != nil {
			return err
		}
		if _, err := writeBlocks(book, name, 3, section.Blocks); err != nil {
			return err
		}
	}

	buf, err := book.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return fileutil.WriteFileAtomic(job.OutputPath, buf.Bytes())
}

func writeBlocks(book *excelize.File, sheet string, row int, blocks []outline.Block) (int, error) {
	for _, block := range blocks {
		switch block.Kind {
		case outline.KindCode:
			for _, line := range strings.Split(block.Text, "\n") {
				if err := setCell(book, sheet, 1, row, line); err != nil {
					return row, err
				}
				row++
			}
		case outline.KindList:
			for _, line := range block.Lines {
				if err := setCell(book, sheet, 1, row, line); err != nil {
					return row, err
				}
				row++
			}
		case outline.KindTable:
			if block.Table == nil {
				continue
			}
			grid := append([][]string{block.Table.Header}, block.Table.Rows...)
			for _, cells := range grid {
				for col, value := range cells {
					if err := setCell(book, sheet, col+1, row, value); err != nil {
						return row, err
					}
				}
				row++
			}
		default:
			if err := setCell(book, sheet, 1, row, block.Text); err != nil {
				return row, err
			}
			row++
		}
		row++ // blank row between blocks
	}
	return row, nil
}

func setCell(book *excelize.File, sheet string, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	if err := book.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return nil
}

// sheetName sanitizes a heading into a unique, legal sheet name.
func sheetName(heading string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return ' '
		}
		return r
	}, heading)
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Sheet"
	}
	runes := []rune(name)
	if len(runes) > sheetNameLimit {
		name = string(runes[:sheetNameLimit])
	}

	base := []rune(name)
	for n := 2; used[name]; n++ {
		suffix := fmt.Sprintf(" %d", n)
		trimmed := base
		if len(trimmed)+len(suffix) > sheetNameLimit {
			trimmed = trimmed[:sheetNameLimit-len(suffix)]
		}
		name = string(trimmed) + suffix
	}
	used[name] = true
	return name
}
