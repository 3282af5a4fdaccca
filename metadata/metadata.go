// Package metadata builds the per-sample metadata table that every tidy
// metric table is joined against.
package metadata

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

const (
	// IDColumn is the canonical name of the sample identifier column.
	IDColumn = "SampleID"

	// PeaksColumn holds the number of called regions per sample.
	PeaksColumn = "Peaks"
)

var (
	// ErrMissingColumn means a designated column is absent from the table.
	ErrMissingColumn = errors.New("missing column")

	// ErrDuplicateSample means two rows resolve to the same identifier.
	ErrDuplicateSample = errors.New("duplicate sample identifier")
)

// Table has one row per sample. Columns[0] is always IDColumn.
type Table struct {
	Columns []string
	Rows    []Row

	index map[string]int
}

// Row is one sample. Values is aligned with Table.Columns, so Values[0] is
// the identifier.
type Row struct {
	ID     string
	Values []string
}

// Raw is an un-normalized table as read from a sheet or an aggregate object.
type Raw struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of name within r, or an ErrMissingColumn.
func (r Raw) ColumnIndex(name string) (int, error) {
	for i, col := range r.Columns {
		if col == name {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%w: %q (have %v)", ErrMissingColumn, name, r.Columns)
}

func newTable(columns []string, rows []Row) (*Table, error) {
	t := &Table{
		Columns: columns,
		Rows:    rows,
		index:   make(map[string]int, len(rows)),
	}

	for i, row := range rows {
		if len(row.Values) != len(columns) {
			return nil, fmt.Errorf("Row %d (%s) has %d values but the table has %d columns", i, row.ID, len(row.Values), len(columns))
		}
		if _, exists := t.index[row.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSample, row.ID)
		}
		t.index[row.ID] = i
	}

	return t, nil
}

// Len is the number of samples.
func (t *Table) Len() int { return len(t.Rows) }

// IDs returns the sample identifiers in row order.
func (t *Table) IDs() []string {
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, row.ID)
	}

	return out
}

// Lookup finds the row for a sample identifier.
func (t *Table) Lookup(id string) (Row, bool) {
	i, ok := t.index[id]
	if !ok {
		return Row{}, false
	}

	return t.Rows[i], true
}

// ColumnIndex returns the position of name, or an ErrMissingColumn.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, col := range t.Columns {
		if col == name {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%w: %q (have %v)", ErrMissingColumn, name, t.Columns)
}

// Require checks that every named column is present.
func (t *Table) Require(names ...string) error {
	for _, name := range names {
		if _, err := t.ColumnIndex(name); err != nil {
			return err
		}
	}

	return nil
}

// Column returns the values of one column in row order.
func (t *Table) Column(name string) ([]string, error) {
	col, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, row.Values[col])
	}

	return out, nil
}

// Distinct returns the sorted distinct values of one column.
func (t *Table) Distinct(name string) ([]string, error) {
	values, err := t.Column(name)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0)
	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)

	return out, nil
}

// AppendPeaks sets the Peaks column from per-sample peak counts, which must
// be in row order. An existing Peaks column (e.g. a peak file path carried in
// the sheet) is overwritten.
func (t *Table) AppendPeaks(counts []int) error {
	if len(counts) != len(t.Rows) {
		return fmt.Errorf("Got peak counts for %d samples, but the metadata has %d", len(counts), len(t.Rows))
	}

	col, err := t.ColumnIndex(PeaksColumn)
	if err != nil {
		t.Columns = append(t.Columns, PeaksColumn)
		col = len(t.Columns) - 1
		for i := range t.Rows {
			t.Rows[i].Values = append(t.Rows[i].Values, "")
		}
	}

	for i, n := range counts {
		t.Rows[i].Values[col] = strconv.Itoa(n)
	}

	return nil
}
