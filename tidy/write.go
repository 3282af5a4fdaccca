package tidy

import (
	"encoding/csv"
	"io"
	"strconv"
)

// FormatFloat renders v the same way on every run: shortest round-trip
// representation, with NaN/+Inf/-Inf spelled out.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Header returns the column names of t in output order.
func (t *Table) Header() []string {
	var out []string
	if t.Categorical() {
		out = []string{"Sample", t.Index, t.Value}
	} else {
		out = []string{t.Index, "Sample", t.Value}
	}
	if t.Derived != "" {
		out = append(out, t.Derived)
	}

	return append(out, t.MetaColumns...)
}

// WriteCSV writes t as a comma-delimited file with a header row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return err
	}

	for _, row := range t.Rows {
		var rec []string
		if t.Categorical() {
			rec = []string{row.Sample, row.Category, FormatFloat(row.Value)}
		} else {
			rec = []string{FormatFloat(row.Index), row.Sample, FormatFloat(row.Value)}
		}
		if t.Derived != "" {
			rec = append(rec, FormatFloat(row.Derived))
		}
		rec = append(rec, row.Meta...)

		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSV writes the summary table with missing values as NA.
func (w *Wide) WriteCSV(out io.Writer) error {
	cw := csv.NewWriter(out)

	header := append([]string{"Sample"}, w.Columns...)
	if err := cw.Write(append(header, w.MetaColumns...)); err != nil {
		return err
	}

	for _, row := range w.Rows {
		rec := make([]string, 0, 1+len(row.Values)+len(row.Meta))
		rec = append(rec, row.Sample)
		for _, v := range row.Values {
			if !v.Valid {
				rec = append(rec, "NA")
				continue
			}
			rec = append(rec, FormatFloat(v.Float64))
		}
		rec = append(rec, row.Meta...)

		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
