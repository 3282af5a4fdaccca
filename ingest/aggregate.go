package ingest

import (
	"log"

	"github.com/carbocation/chipqc"
	"github.com/carbocation/chipqc/metadata"
	"github.com/carbocation/chipqc/qcsample"
)

// AggregateIngestor reads one pre-aggregated QC object that carries every
// sample plus its own metadata table.
type AggregateIngestor struct {
	Path   string
	Opener *chipqc.Opener
}

// Ingest takes sample identifiers from the first column of the embedded
// metadata.
func (a *AggregateIngestor) Ingest() (*Batch, error) {
	exp, err := qcsample.LoadExperiment(a.Opener, a.Path)
	if err != nil {
		return nil, err
	}

	raw := metadata.Raw{Columns: exp.Metadata.Columns, Rows: exp.Metadata.Rows}

	b := &Batch{
		Mode:    ModeAggregate,
		IDs:     make([]string, 0, len(raw.Rows)),
		Samples: exp.Samples,
		raw:     raw,
	}
	for _, row := range raw.Rows {
		id := ""
		if len(row) > 0 {
			id = row[0]
		}
		b.IDs = append(b.IDs, id)
	}

	if err := b.check(); err != nil {
		return nil, err
	}
	log.Println("Loaded aggregate QC object with", len(b.IDs), "samples")

	return b, nil
}

// Metadata adopts the embedded table and appends the Peaks column.
func (a *AggregateIngestor) Metadata(b *Batch) (*metadata.Table, error) {
	t, err := metadata.FromEmbedded(b.raw)
	if err != nil {
		return nil, err
	}

	return checkedMetadata(t, b)
}
