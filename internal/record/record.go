// Package record parses delimited text exports into ordered field maps.
//
// Practice management systems export data as comma-delimited text with a
// header row. The exact schema varies by vendor, so the parser makes no
// assumptions about column names or order: it captures every row as a
// header->value map and leaves semantic interpretation to the field mapper.
package record

import (
	"errors"
	"strings"
)

// ErrNoHeader is returned when the input contains no non-empty lines.
var ErrNoHeader = errors.New("file contains no header row")

// Row is a single data row from the source file.
type Row struct {
	// Number is the 1-based position of the row among data rows
	// (the header row is not counted).
	Number int

	// Fields maps each header to the raw cell value at its position.
	// Headers with no corresponding cell map to the empty string.
	Fields map[string]string
}

// Document is a parsed delimited export.
type Document struct {
	Headers []string
	Rows    []Row
}

// Parse reads a comma-delimited export. The first non-empty line is the
// header row; every subsequent non-empty line is split positionally and
// zipped against the headers. Surrounding quotes are stripped from cells.
//
// Known limitation: a delimiter embedded inside a quoted value is not
// escaped, so rows containing one will misalign. This mirrors the export
// format's own behavior and is surfaced to the caller as ordinary
// per-row validation failures rather than corrected silently.
func Parse(raw string) (*Document, error) {
	raw = strings.TrimPrefix(raw, "\uFEFF")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	lines := make([]string, 0, strings.Count(raw, "\n")+1)
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return nil, ErrNoHeader
	}

	headers := splitLine(lines[0])

	doc := &Document{
		Headers: headers,
		Rows:    make([]Row, 0, len(lines)-1),
	}

	for i, line := range lines[1:] {
		cells := splitLine(line)

		fields := make(map[string]string, len(headers))
		for pos, header := range headers {
			if pos < len(cells) {
				fields[header] = cells[pos]
			} else {
				fields[header] = ""
			}
		}

		doc.Rows = append(doc.Rows, Row{
			Number: i + 1,
			Fields: fields,
		})
	}

	return doc, nil
}

// splitLine splits a line on commas and cleans each cell.
func splitLine(line string) []string {
	parts := strings.Split(line, ",")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = CleanCell(p)
	}
	return cells
}

// CleanCell trims whitespace and strips one layer of surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}
