package docforge

import (
	"fmt"
	"strings"
	"text/template"
)

// templateFuncs is the function map available to every template unit.
// Payloads are schemaless, so a section may be a bare string or a
// nested map and the same template must render both; the helpers
// tolerate either shape.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"get":     lookupKey,
		"str":     toString,
		"strs":    toStrings,
		"mdtable": toMarkdownTable,
	}
}

// lookupKey indexes a map by key, returning nil for non-map values or
// missing keys instead of erroring.
func lookupKey(v any, key string) any {
	switch m := v.(type) {
	case map[string]any:
		return m[key]
	case map[any]any:
		return m[key]
	}
	return nil
}

// toString renders any scalar as text.
func toString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// toStrings coerces a value into a list of strings: slices item by
// item, scalars as a single-element list.
func toStrings(v any) []string {
	switch items := v.(type) {
	case nil:
		return nil
	case []string:
		return items
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, toString(item))
		}
		return out
	default:
		return []string{toString(v)}
	}
}

// toMarkdownTable renders {"header": [...], "rows": [[...], ...]} as a
// GFM table. Anything else renders as plain text so a malformed payload
// degrades instead of failing the whole render.
func toMarkdownTable(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return toString(v)
	}
	header := toStrings(m["header"])
	rowsVal, _ := m["rows"].([]any)

	var rows [][]string
	for _, row := range rowsVal {
		rows = append(rows, toStrings(row))
	}
	if len(header) == 0 && len(rows) == 0 {
		return ""
	}
	if len(header) == 0 {
		header, rows = rows[0], rows[1:]
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for i := range header {
			cell := ""
			if i < len(cells) {
				cell = strings.ReplaceAll(cells[i], "|", "\\|")
			}
			b.WriteString(" " + cell + " |")
		}
		b.WriteString("\n")
	}
	writeRow(header)
	b.WriteString("|")
	for range header {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
	return strings.TrimRight(b.String(), "\n")
}
