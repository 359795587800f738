// Package docfile reads back the artifacts the engines produce, in
// just enough depth for structural validation: extracted text, font
// usage, page and slide geometry, table grids, and hyperlink targets.
// It never renders anything.
package docfile

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadable marks artifacts that cannot be opened or decoded.
var ErrUnreadable = errors.New("unreadable artifact")

// FontInfo describes one font referenced by a PDF page.
type FontInfo struct {
	// Name is the base font name with any subset prefix stripped.
	Name     string
	Embedded bool
	// Standard reports membership in the base-14 set that every PDF
	// viewer ships, so non-embedded use is safe.
	Standard bool
}

// PDFInfo is the validation view of a PDF artifact.
type PDFInfo struct {
	Text  string
	Fonts []FontInfo
}

// standard14 is the base font set guaranteed by the PDF specification.
var standard14 = map[string]bool{
	"Helvetica": true, "Helvetica-Bold": true, "Helvetica-Oblique": true, "Helvetica-BoldOblique": true,
	"Times-Roman": true, "Times-Bold": true, "Times-Italic": true, "Times-BoldItalic": true,
	"Courier": true, "Courier-Bold": true, "Courier-Oblique": true, "Courier-BoldOblique": true,
	"Symbol": true, "ZapfDingbats": true,
}

// ReadPDF extracts plain text and per-font embedding information.
func ReadPDF(path string) (info *PDFInfo, err error) {
	// The pdf library panics on malformed files.
	defer func() {
		if r := recover(); r != nil {
			info = nil
			err = fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	info = &PDFInfo{}

	if textReader, textErr := reader.GetPlainText(); textErr == nil {
		if content, readErr := io.ReadAll(textReader); readErr == nil {
			info.Text = string(content)
		}
	}

	seen := map[string]bool{}
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		for _, fontName := range page.Fonts() {
			font := page.Font(fontName)
			name := baseFontName(font)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			info.Fonts = append(info.Fonts, FontInfo{
				Name:     name,
				Embedded: fontEmbedded(font),
				Standard: standard14[name],
			})
		}
	}
	return info, nil
}

func baseFontName(font pdf.Font) string {
	name := font.BaseFont()
	// Subset prefixes look like "ABCDEF+Name".
	if i := strings.IndexByte(name, '+'); i == 6 {
		name = name[i+1:]
	}
	return name
}

func fontEmbedded(font pdf.Font) bool {
	descriptor := font.V.Key("FontDescriptor")
	if descriptor.IsNull() {
		// Composite fonts keep the descriptor on the descendant font.
		descendants := font.V.Key("DescendantFonts")
		if descendants.Kind() == pdf.Array && descendants.Len() > 0 {
			descriptor = descendants.Index(0).Key("FontDescriptor")
		}
	}
	if descriptor.IsNull() {
		return false
	}
	for _, key := range []string{"FontFile", "FontFile2", "FontFile3"} {
		if !descriptor.Key(key).IsNull() {
			return true
		}
	}
	return false
}
