package docfile

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XlsxInfo is the validation view of a workbook artifact.
type XlsxInfo struct {
	Text   string
	Sheets []string
}

// ReadXlsx flattens every cell of every sheet into text.
func ReadXlsx(path string) (*XlsxInfo, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer book.Close()

	info := &XlsxInfo{Sheets: book.GetSheetList()}

	var text strings.Builder
	for _, sheet := range info.Sheets {
		text.WriteString(sheet)
		text.WriteByte('\n')
		rows, err := book.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("%w: reading sheet %s: %v", ErrUnreadable, sheet, err)
		}
		for _, row := range rows {
			text.WriteString(strings.Join(row, "\t"))
			text.WriteByte('\n')
		}
	}
	info.Text = text.String()

	return info, nil
}
