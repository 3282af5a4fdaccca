// Package tidy reshapes metric families into long-form tables: one row per
// (sample, index) observation, joined against the sample metadata.
package tidy

import (
	"errors"
	"fmt"

	"github.com/carbocation/chipqc/metadata"
)

// ErrJoinMismatch means a table and the metadata disagree on which samples
// exist. Rows are never dropped silently.
var ErrJoinMismatch = errors.New("join mismatch")

// Table is a long-form metric table.
type Table struct {
	// Name is the family name, also used for file names.
	Name string

	// Index names the per-family index column (Depth, ShiftSize, ...). When
	// Categories is set the index is categorical and Row.Category is used.
	Index      string
	Categories []string

	// Value names the metric column, and Derived an optional transform of it.
	Value   string
	Derived string

	MetaColumns []string
	Rows        []Row
}

// Row is one observation.
type Row struct {
	Sample   string
	Index    float64
	Category string
	Value    float64
	Derived  float64
	Meta     []string
}

// Categorical reports whether the index is a category rather than a number.
func (t *Table) Categorical() bool {
	return len(t.Categories) > 0
}

// Samples returns the distinct samples of t in first-seen order.
func (t *Table) Samples() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, row := range t.Rows {
		if _, exists := seen[row.Sample]; exists {
			continue
		}
		seen[row.Sample] = struct{}{}
		out = append(out, row.Sample)
	}

	return out
}

// MetaValue returns a row's value for a metadata column. The identifier
// column resolves to the row's sample.
func (t *Table) MetaValue(row Row, column string) (string, error) {
	if column == metadata.IDColumn {
		return row.Sample, nil
	}

	for i, col := range t.MetaColumns {
		if col == column {
			return row.Meta[i], nil
		}
	}

	return "", fmt.Errorf("%w: %q is not joined onto %s", metadata.ErrMissingColumn, column, t.Name)
}

// Join attaches every metadata column (other than the identifier) to each
// row. Every sample in t must have exactly one metadata row. When complete is
// set, every metadata sample must also appear in t, unless t is empty
// altogether (e.g. no sample has any called region).
func Join(t *Table, meta *metadata.Table, complete bool) error {
	t.MetaColumns = append([]string(nil), meta.Columns[1:]...)

	present := make(map[string]struct{})
	for i, row := range t.Rows {
		m, ok := meta.Lookup(row.Sample)
		if !ok {
			return fmt.Errorf("%w: %s has sample %q, which is not in the metadata", ErrJoinMismatch, t.Name, row.Sample)
		}
		t.Rows[i].Meta = m.Values[1:]
		present[row.Sample] = struct{}{}
	}

	if complete && len(t.Rows) > 0 {
		for _, id := range meta.IDs() {
			if _, ok := present[id]; !ok {
				return fmt.Errorf("%w: metadata sample %q has no rows in %s", ErrJoinMismatch, id, t.Name)
			}
		}
	}

	return nil
}
