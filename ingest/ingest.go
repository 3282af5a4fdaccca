// Package ingest loads the per-sample QC handles behind a report input,
// whichever of the two input shapes was supplied.
package ingest

import (
	"errors"
	"fmt"

	"github.com/carbocation/chipqc"
	"github.com/carbocation/chipqc/config"
	"github.com/carbocation/chipqc/metadata"
	"github.com/carbocation/chipqc/qcsample"
)

// ErrSampleCount means the number of handles does not match the number of
// sample identifiers.
var ErrSampleCount = errors.New("sample count mismatch")

// Batch is the ingested input: handles and identifiers share one order.
type Batch struct {
	Mode    Mode
	IDs     []string
	Samples []*qcsample.Sample

	raw metadata.Raw
}

// PeakCounts returns the number of called regions per sample, in order.
func (b *Batch) PeakCounts() []int {
	out := make([]int, 0, len(b.Samples))
	for _, s := range b.Samples {
		out = append(out, s.PeakCount())
	}

	return out
}

func (b *Batch) check() error {
	if len(b.Samples) != len(b.IDs) {
		return fmt.Errorf("%w: %d handles but %d sample identifiers", ErrSampleCount, len(b.Samples), len(b.IDs))
	}

	seen := make(map[string]struct{}, len(b.IDs))
	for _, id := range b.IDs {
		if _, exists := seen[id]; exists {
			return fmt.Errorf("%w: %s", metadata.ErrDuplicateSample, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// SampleIngestor is implemented once per input shape, so that everything
// downstream can ignore which shape was supplied.
type SampleIngestor interface {
	// Ingest loads every handle.
	Ingest() (*Batch, error)

	// Metadata builds the normalized metadata table for an ingested batch.
	// Its rows follow b.IDs exactly.
	Metadata(b *Batch) (*metadata.Table, error)
}

// New resolves the input shape and returns the matching ingestor.
func New(cfg config.Config, o *chipqc.Opener) (SampleIngestor, error) {
	mode, err := Resolve(cfg.Input)
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeSheet:
		return &SheetIngestor{
			Path:            cfg.Input,
			SampleColumn:    cfg.SampleColumn,
			PathColumn:      cfg.PathColumn,
			ReplicateColumn: cfg.ReplicateColumn,
			Opener:          o,
		}, nil
	case ModeAggregate:
		return &AggregateIngestor{
			Path:   cfg.Input,
			Opener: o,
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrInvalidInputFormat, cfg.Input)
}

func checkedMetadata(t *metadata.Table, b *Batch) (*metadata.Table, error) {
	if err := t.AppendPeaks(b.PeakCounts()); err != nil {
		return nil, err
	}

	ids := t.IDs()
	if len(ids) != len(b.IDs) {
		return nil, fmt.Errorf("%w: metadata has %d rows for %d samples", ErrSampleCount, len(ids), len(b.IDs))
	}
	for i := range ids {
		if ids[i] != b.IDs[i] {
			return nil, fmt.Errorf("Metadata row %d is %q but sample %d is %q", i, ids[i], i, b.IDs[i])
		}
	}

	return t, nil
}
