package parser

import "strings"

// Row maps the header cells of a sheet to the values of one data line.
type Row map[string]string

const quote = `"`

// DecodeCSV turns the text of a published sheet into rows. It understands
// only the flat dialect of the export: one record per line, quoted fields
// may contain commas but not line breaks. Any failure yields no rows.
func DecodeCSV(raw string) (rows []Row) {
	defer func() {
		if r := recover(); r != nil {
			rows = []Row{}
		}
	}()

	lines := nonBlankLines(raw)
	if len(lines) < 2 {
		return []Row{}
	}

	headers := strings.Split(lines[0], ",")
	for i := range headers {
		headers[i] = unquote(headers[i])
	}

	rows = make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := splitLine(line)
		if len(values) < len(headers) {
			continue
		}

		row := make(Row, len(headers))
		for i, h := range headers {
			row[h] = unquote(values[i])
		}
		rows = append(rows, row)
	}

	return rows
}

func nonBlankLines(raw string) []string {
	var lines []string
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}

	return lines
}

// splitLine scans a data line, treating commas inside quotes as text. The
// quote characters themselves are dropped.
func splitLine(line string) []string {
	var (
		values   []string
		current  strings.Builder
		inQuotes bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			values = append(values, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}

	return append(values, strings.TrimSpace(current.String()))
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, quote)
	s = strings.TrimSuffix(s, quote)

	return strings.TrimSpace(s)
}
