// Package metrics pulls the metric families out of ingested QC handles.
// Every slice it returns is a copy; the handles are never modified.
package metrics

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/carbocation/chipqc/qcsample"
	"github.com/carbocation/chipqc/ragged"
	"gopkg.in/guregu/null.v3"
)

var (
	// ErrUndefinedRatio marks a sample whose reads-in-peaks fraction cannot
	// be computed. Such samples are left out of that family only.
	ErrUndefinedRatio = errors.New("undefined reads-in-peaks ratio")

	// ErrProfileLength means a fixed-length family has members of different
	// lengths.
	ErrProfileLength = errors.New("profile length mismatch")
)

// Summary is one row per sample of opaque scalar QC columns.
type Summary struct {
	Columns []string
	Rows    []SummaryRow
}

// SummaryRow holds one sample's values, aligned with Summary.Columns. A
// metric the sample lacks is null.
type SummaryRow struct {
	Sample string
	Values []null.Float
}

// ReadsInPeaks holds the two scalars behind the reads-in-peaks fraction.
type ReadsInPeaks struct {
	Sample string
	Inside float64
	Mapped float64
}

// Outside is the number of mapped reads not in called regions.
func (r ReadsInPeaks) Outside() float64 {
	return r.Mapped - r.Inside
}

// Families are the metric families for one batch. Every collection is
// labelled with the canonical identifiers, in order.
type Families struct {
	IDs []string

	Summary           Summary
	CoverageHistogram ragged.Collection
	CrossCoverage     ragged.Collection
	PeakProfile       ragged.Collection
	ReadsInPeaks      []ReadsInPeaks
	PeakCounts        ragged.Collection

	// Excluded lists samples left out of ReadsInPeaks.
	Excluded []string
}

// Extract builds every family. ids and samples must share one order.
func Extract(ids []string, samples []*qcsample.Sample) (*Families, error) {
	if len(ids) != len(samples) {
		return nil, fmt.Errorf("Got %d identifiers for %d samples", len(ids), len(samples))
	}

	labels := append([]string(nil), ids...)

	out := &Families{
		IDs:               labels,
		Summary:           summarize(ids, samples),
		CoverageHistogram: ragged.Collection{Labels: labels, Vectors: make([][]float64, 0, len(samples))},
		CrossCoverage:     ragged.Collection{Labels: labels, Vectors: make([][]float64, 0, len(samples))},
		PeakProfile:       ragged.Collection{Labels: labels, Vectors: make([][]float64, 0, len(samples))},
		PeakCounts:        ragged.Collection{Labels: labels, Vectors: make([][]float64, 0, len(samples))},
	}

	for i, s := range samples {
		out.CoverageHistogram.Vectors = append(out.CoverageHistogram.Vectors, qcsample.Floats(s.CoverageHistogram))
		out.CrossCoverage.Vectors = append(out.CrossCoverage.Vectors, qcsample.Floats(s.CrossCoverage))
		out.PeakProfile.Vectors = append(out.PeakProfile.Vectors, qcsample.Floats(s.PeakProfile))
		out.PeakCounts.Vectors = append(out.PeakCounts.Vectors, s.PeakCounts())

		rip, err := readsInPeaks(ids[i], s)
		if err != nil {
			log.Printf("Excluding %s from the reads-in-peaks summary: %v\n", ids[i], err)
			out.Excluded = append(out.Excluded, ids[i])
			continue
		}
		out.ReadsInPeaks = append(out.ReadsInPeaks, rip)
	}

	if err := sameLength("cross-coverage", out.CrossCoverage); err != nil {
		return nil, err
	}
	if err := sameLength("peak profile", out.PeakProfile); err != nil {
		return nil, err
	}

	log.Println("Extracted metrics across", len(ids), "samples")

	return out, nil
}

func readsInPeaks(id string, s *qcsample.Sample) (ReadsInPeaks, error) {
	inside, mapped := qcsample.Float(s.ReadsInPeaks), qcsample.Float(s.MappedReads)

	switch {
	case math.IsNaN(inside):
		return ReadsInPeaks{}, fmt.Errorf("%w: no reads-in-peaks value", ErrUndefinedRatio)
	case math.IsNaN(mapped), mapped <= 0:
		return ReadsInPeaks{}, fmt.Errorf("%w: mapped reads is %v", ErrUndefinedRatio, mapped)
	case inside < 0, inside > mapped:
		return ReadsInPeaks{}, fmt.Errorf("%w: %v reads in peaks out of %v mapped", ErrUndefinedRatio, inside, mapped)
	}

	return ReadsInPeaks{Sample: id, Inside: inside, Mapped: mapped}, nil
}

func summarize(ids []string, samples []*qcsample.Sample) Summary {
	seen := make(map[string]struct{})
	for _, s := range samples {
		for k := range s.Metrics {
			seen[k] = struct{}{}
		}
	}

	columns := make([]string, 0, len(seen))
	for k := range seen {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	out := Summary{Columns: columns, Rows: make([]SummaryRow, 0, len(samples))}
	for i, s := range samples {
		row := SummaryRow{Sample: ids[i], Values: make([]null.Float, len(columns))}
		for j, col := range columns {
			row.Values[j] = s.Metrics[col]
		}
		out.Rows = append(out.Rows, row)
	}

	return out
}

func sameLength(family string, c ragged.Collection) error {
	for i, v := range c.Vectors {
		if len(v) != len(c.Vectors[0]) {
			return fmt.Errorf("%w: %s for %s has length %d, but %s has length %d", ErrProfileLength, family, c.Labels[i], len(v), c.Labels[0], len(c.Vectors[0]))
		}
	}

	return nil
}
