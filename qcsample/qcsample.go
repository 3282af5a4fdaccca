// Package qcsample holds the per-sample QC metrics computed upstream by the
// ChIP-seq analysis engine. Nothing in this package recomputes a metric; it
// only reads them.
package qcsample

import (
	"math"
	"sort"

	"gopkg.in/guregu/null.v3"
)

// Peak is one called region.
type Peak struct {
	Chrom  string     `json:"chrom"`
	Start  int64      `json:"start"`
	End    int64      `json:"end"`
	Counts null.Float `json:"counts"`
}

// Sample is the handle for one sample's QC metrics. A null value anywhere
// means the engine could not compute it.
type Sample struct {
	// Metrics are arbitrary scalar QC values (Reads, Map%, RelCC, ...).
	Metrics map[string]null.Float `json:"metrics"`

	// CoverageHistogram[i] is the number of base pairs covered at depth i.
	CoverageHistogram []null.Float `json:"coverage_histogram"`

	// CrossCoverage[i] is the cross-coverage score at shift i+1.
	CrossCoverage []null.Float `json:"cross_coverage"`

	// PeakProfile is the average signal around peak summits.
	PeakProfile []null.Float `json:"peak_profile"`

	ReadsInPeaks null.Float `json:"reads_in_peaks"`
	MappedReads  null.Float `json:"mapped_reads"`

	Peaks []Peak `json:"peaks"`
}

// Experiment is the pre-aggregated form: one object that carries every
// sample and a metadata table describing them. Samples[i] belongs to
// Metadata.Rows[i].
type Experiment struct {
	Metadata EmbeddedTable `json:"metadata"`
	Samples  []*Sample     `json:"samples"`
}

// EmbeddedTable is the metadata table stored inside an Experiment. Its first
// column identifies the sample.
type EmbeddedTable struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// PeakCount is the number of called regions.
func (s *Sample) PeakCount() int {
	return len(s.Peaks)
}

// PeakCounts returns a fresh slice with the read count of each called region.
// Missing counts are NaN.
func (s *Sample) PeakCounts() []float64 {
	out := make([]float64, 0, len(s.Peaks))
	for _, p := range s.Peaks {
		out = append(out, Float(p.Counts))
	}

	return out
}

// MetricNames returns the sorted names of the sample's scalar metrics.
func (s *Sample) MetricNames() []string {
	out := make([]string, 0, len(s.Metrics))
	for k := range s.Metrics {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}

// Float converts a nullable value to NaN-for-missing.
func Float(v null.Float) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// Floats copies a nullable vector into a plain one, with NaN for missing.
func Floats(v []null.Float) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = Float(x)
	}

	return out
}
