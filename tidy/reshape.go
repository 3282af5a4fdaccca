package tidy

import (
	"fmt"
	"math"
	"strconv"

	"github.com/carbocation/chipqc/metadata"
	"github.com/carbocation/chipqc/metrics"
	"github.com/carbocation/chipqc/ragged"
)

// Family names.
const (
	CoverageHistogram = "coverage_histogram"
	CrossCoverage     = "cross_coverage"
	PeakProfile       = "peak_profile"
	ReadsInPeaks      = "reads_in_peaks"
	PeakCounts        = "peak_counts"
)

// Display order of the reads-in-peaks categories.
const (
	Outside = "Outside"
	Inside  = "Inside"
)

// Histogram reshapes the padded coverage histogram to (Depth, Sample, bp)
// with log10(bp). Empty depths yield -Inf, which is kept.
func Histogram(m *ragged.Matrix, meta *metadata.Table) (*Table, error) {
	t, err := fromMatrix(m, CoverageHistogram, "Depth", "bp", "log10_bp")
	if err != nil {
		return nil, err
	}

	return t, Join(t, meta, true)
}

// PeakCountTable reshapes padded per-peak read counts to (PeakIndex, Sample,
// Count) with log10(Count).
func PeakCountTable(m *ragged.Matrix, meta *metadata.Table) (*Table, error) {
	t, err := fromMatrix(m, PeakCounts, "PeakIndex", "Count", "log10_Count")
	if err != nil {
		return nil, err
	}

	return t, Join(t, meta, true)
}

func fromMatrix(m *ragged.Matrix, name, index, value, derived string) (*Table, error) {
	t := &Table{
		Name:    name,
		Index:   index,
		Value:   value,
		Derived: derived,
		Rows:    make([]Row, 0, m.Rows()*m.Cols()),
	}

	for j, sample := range m.ColLabels {
		for i, label := range m.RowLabels {
			idx, err := strconv.ParseFloat(label, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row label %q: %v", name, label, err)
			}
			v := m.At(i, j)
			t.Rows = append(t.Rows, Row{Sample: sample, Index: idx, Value: v, Derived: math.Log10(v)})
		}
	}

	return t, nil
}

// CrossCoverageTable reshapes cross-coverage scores to (ShiftSize, Sample,
// CCScore), with ShiftSize running 1..N.
func CrossCoverageTable(c ragged.Collection, meta *metadata.Table) (*Table, error) {
	t := &Table{Name: CrossCoverage, Index: "ShiftSize", Value: "CCScore"}

	for j, v := range c.Vectors {
		for i, x := range v {
			t.Rows = append(t.Rows, Row{Sample: c.Labels[j], Index: float64(i + 1), Value: x})
		}
	}

	return t, Join(t, meta, true)
}

// ProfileDistances returns the distance from the peak center for each
// position of an n-long profile, and the position to drop (or -1). An even
// length carries one synthetic position at n/2 which is dropped so that the
// remaining distances are symmetric around zero.
func ProfileDistances(n int) (distances []float64, drop int) {
	drop = -1
	kept := n
	if n%2 == 0 && n > 0 {
		drop = n / 2
		kept = n - 1
	}

	half := (kept - 1) / 2
	distances = make([]float64, 0, kept)
	for d := -half; d <= half; d++ {
		distances = append(distances, float64(d))
	}

	return distances, drop
}

// PeakProfileTable reshapes average peak signal to (Distance, Sample,
// Signal), centered at zero.
func PeakProfileTable(c ragged.Collection, meta *metadata.Table) (*Table, error) {
	t := &Table{Name: PeakProfile, Index: "Distance", Value: "Signal"}

	for j, v := range c.Vectors {
		distances, drop := ProfileDistances(len(v))

		k := 0
		for i, x := range v {
			if i == drop {
				continue
			}
			t.Rows = append(t.Rows, Row{Sample: c.Labels[j], Index: distances[k], Value: x})
			k++
		}
	}

	return t, Join(t, meta, true)
}

// ReadsInPeaksTable reshapes the reads-in-peaks scalars to (Sample,
// Category, Percentage) with Outside ahead of Inside. Samples that were
// excluded upstream are simply absent, so the join is not complete.
func ReadsInPeaksTable(rip []metrics.ReadsInPeaks, meta *metadata.Table) (*Table, error) {
	t := &Table{
		Name:       ReadsInPeaks,
		Index:      "Category",
		Categories: []string{Outside, Inside},
		Value:      "Percentage",
		Rows:       make([]Row, 0, 2*len(rip)),
	}

	for _, r := range rip {
		inside, outside := Percentages(r.Inside, r.Outside())
		t.Rows = append(t.Rows,
			Row{Sample: r.Sample, Index: 1, Category: Outside, Value: outside},
			Row{Sample: r.Sample, Index: 2, Category: Inside, Value: inside},
		)
	}

	return t, Join(t, meta, false)
}

// Percentages converts two counts into percentages of their sum.
func Percentages(inside, outside float64) (insidePct, outsidePct float64) {
	total := inside + outside
	return 100 * inside / total, 100 * outside / total
}
