package metadata

import (
	"fmt"
	"strings"
)

// Token turns free text into a syntactically safe categorical identifier:
// anything other than ASCII letters, digits, '.' and '_' becomes '.', and an
// "X" is prefixed when the result would start with a digit, an underscore or
// a dot followed by a digit. The mapping is deterministic but does not
// guarantee that distinct inputs stay distinct.
func Token(s string) string {
	if s == "" {
		return "X"
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('.')
		}
	}

	out := b.String()
	switch first := out[0]; {
	case isDigit(first), first == '_':
		out = "X" + out
	case first == '.' && len(out) > 1 && isDigit(out[1]):
		out = "X" + out
	}

	return out
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// FromSheet normalizes a sample sheet. The sample column becomes the leading
// IDColumn, and every column except those in exclude is replaced by its
// Token. Row order is preserved.
func FromSheet(raw Raw, sampleColumn string, exclude ...string) (*Table, error) {
	sampleCol, err := raw.ColumnIndex(sampleColumn)
	if err != nil {
		return nil, err
	}

	skip := make(map[int]struct{})
	for _, name := range exclude {
		if i, err := raw.ColumnIndex(name); err == nil {
			skip[i] = struct{}{}
		}
	}

	columns := []string{IDColumn}
	for i, col := range raw.Columns {
		if i != sampleCol {
			columns = append(columns, col)
		}
	}

	rows := make([]Row, 0, len(raw.Rows))
	for _, cells := range raw.Rows {
		values := make([]string, 0, len(columns))
		values = append(values, Token(cells[sampleCol]))
		for i, cell := range cells {
			if i == sampleCol {
				continue
			}
			if _, keep := skip[i]; keep {
				values = append(values, cell)
				continue
			}
			values = append(values, Token(cell))
		}

		rows = append(rows, Row{ID: values[0], Values: values})
	}

	return newTable(columns, rows)
}

// FromEmbedded adopts the metadata table stored inside an aggregate object
// as-is, renaming its first column to IDColumn.
func FromEmbedded(raw Raw) (*Table, error) {
	if len(raw.Columns) == 0 {
		return nil, fmt.Errorf("%w: embedded metadata has no columns", ErrMissingColumn)
	}

	columns := append([]string{IDColumn}, raw.Columns[1:]...)

	rows := make([]Row, 0, len(raw.Rows))
	for _, cells := range raw.Rows {
		values := append([]string(nil), cells...)
		if len(values) == 0 {
			values = []string{""}
		}
		rows = append(rows, Row{ID: values[0], Values: values})
	}

	return newTable(columns, rows)
}
