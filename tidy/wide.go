package tidy

import (
	"fmt"

	"github.com/carbocation/chipqc/metadata"
	"github.com/carbocation/chipqc/metrics"
	"gopkg.in/guregu/null.v3"
)

// Wide is the per-sample summary metrics table joined with metadata. It
// stays one row per sample.
type Wide struct {
	Columns     []string
	MetaColumns []string
	Rows        []WideRow
}

// WideRow is one sample's summary metrics and metadata.
type WideRow struct {
	Sample string
	Values []null.Float
	Meta   []string
}

// SummaryTable joins the summary metrics against metadata. Both sides must
// hold exactly the same samples.
func SummaryTable(s metrics.Summary, meta *metadata.Table) (*Wide, error) {
	out := &Wide{
		Columns:     append([]string(nil), s.Columns...),
		MetaColumns: append([]string(nil), meta.Columns[1:]...),
		Rows:        make([]WideRow, 0, len(s.Rows)),
	}

	for _, row := range s.Rows {
		m, ok := meta.Lookup(row.Sample)
		if !ok {
			return nil, fmt.Errorf("%w: summary has sample %q, which is not in the metadata", ErrJoinMismatch, row.Sample)
		}
		out.Rows = append(out.Rows, WideRow{
			Sample: row.Sample,
			Values: append([]null.Float(nil), row.Values...),
			Meta:   m.Values[1:],
		})
	}

	if len(out.Rows) != meta.Len() {
		return nil, fmt.Errorf("%w: summary has %d samples but the metadata has %d", ErrJoinMismatch, len(out.Rows), meta.Len())
	}

	return out, nil
}

// Column returns the named summary column in row order.
func (w *Wide) Column(name string) ([]null.Float, error) {
	for j, col := range w.Columns {
		if col != name {
			continue
		}

		out := make([]null.Float, 0, len(w.Rows))
		for _, row := range w.Rows {
			out = append(out, row.Values[j])
		}
		return out, nil
	}

	return nil, fmt.Errorf("%w: %q", metadata.ErrMissingColumn, name)
}
