package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"strings"

	"github.com/carbocation/chipqc"
	"github.com/carbocation/chipqc/metadata"
	"github.com/carbocation/chipqc/qcsample"
	"github.com/carbocation/pfx"
)

// SheetIngestor reads a sample sheet and loads one QC handle per row.
type SheetIngestor struct {
	Path            string
	SampleColumn    string
	PathColumn      string
	ReplicateColumn string
	Opener          *chipqc.Opener
}

// Ingest loads handles one at a time in sheet order. A single unreadable
// handle fails the whole batch.
func (s *SheetIngestor) Ingest() (*Batch, error) {
	raw, err := ReadSheet(s.Opener, s.Path)
	if err != nil {
		return nil, err
	}
	log.Println("Loaded sample sheet", s.Path, "with", len(raw.Rows), "samples")

	sampleCol, err := raw.ColumnIndex(s.SampleColumn)
	if err != nil {
		return nil, err
	}

	pathCol, err := raw.ColumnIndex(s.PathColumn)
	if err != nil {
		return nil, err
	}

	b := &Batch{
		Mode:    ModeSheet,
		IDs:     make([]string, 0, len(raw.Rows)),
		Samples: make([]*qcsample.Sample, 0, len(raw.Rows)),
		raw:     raw,
	}

	for _, row := range raw.Rows {
		handlePath, err := chipqc.ResolveRelative(s.Path, row[pathCol])
		if err != nil {
			return nil, err
		}

		sample, err := qcsample.LoadSample(s.Opener, handlePath)
		if err != nil {
			return nil, err
		}

		b.Samples = append(b.Samples, sample)
		b.IDs = append(b.IDs, metadata.Token(row[sampleCol]))
	}

	if err := b.check(); err != nil {
		return nil, err
	}

	return b, nil
}

// Metadata tokenizes every sheet column except the handle path and the
// replicate number, then appends the Peaks column.
func (s *SheetIngestor) Metadata(b *Batch) (*metadata.Table, error) {
	t, err := metadata.FromSheet(b.raw, s.SampleColumn, s.PathColumn, s.ReplicateColumn)
	if err != nil {
		return nil, err
	}

	return checkedMetadata(t, b)
}

// ReadSheet reads a delimited sample sheet with a header row.
func ReadSheet(o *chipqc.Opener, path string) (metadata.Raw, error) {
	data, err := o.ReadAll(path)
	if err != nil {
		return metadata.Raw{}, pfx.Err(err)
	}

	head := data
	if len(head) > 4096 {
		head = head[:4096]
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = chipqc.DetermineDelimiter(path, head)
	r.Comment = '#'
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return metadata.Raw{}, pfx.Err(fmt.Errorf("%s: %v", path, err))
	}

	if len(records) < 1 {
		return metadata.Raw{}, fmt.Errorf("%s: No entries in the sample sheet", path)
	}

	// Spreadsheet exports often lead with a byte order mark.
	records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")

	return metadata.Raw{Columns: records[0], Rows: records[1:]}, nil
}
