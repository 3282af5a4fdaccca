package report

import (
	"math"
	"sort"

	"github.com/carbocation/chipqc/tidy"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// MetricStats describes one summary metric across samples.
type MetricStats struct {
	Metric string  `csv:"Metric"`
	N      int     `csv:"N"`
	Mean   float64 `csv:"Mean"`
	SD     float64 `csv:"SD"`
	Median float64 `csv:"Median"`
	Q05    float64 `csv:"Q05"`
	Q95    float64 `csv:"Q95"`
	Min    float64 `csv:"Min"`
	Max    float64 `csv:"Max"`
}

// ReadsInPeaksRow is one sample of the reads-in-peaks summary.
type ReadsInPeaksRow struct {
	Sample  string  `csv:"Sample"`
	Inside  float64 `csv:"Inside"`
	Outside float64 `csv:"Outside"`
	RiP     float64 `csv:"RiP%"`
}

// Summarize computes across-sample statistics for every summary column,
// skipping missing values. Columns with no values at all report NaN, as does
// the SD of a column with a single value.
func Summarize(w *tidy.Wide) []MetricStats {
	out := make([]MetricStats, 0, len(w.Columns))

	for j, col := range w.Columns {
		values := make([]float64, 0, len(w.Rows))
		for _, row := range w.Rows {
			if v := row.Values[j]; v.Valid && !math.IsNaN(v.Float64) {
				values = append(values, v.Float64)
			}
		}

		s := MetricStats{Metric: col, N: len(values)}
		if len(values) == 0 {
			nan := math.NaN()
			s.Mean, s.SD, s.Median, s.Q05, s.Q95, s.Min, s.Max = nan, nan, nan, nan, nan, nan, nan
			out = append(out, s)
			continue
		}

		s.Mean, s.SD = stat.MeanStdDev(values, nil)
		if len(values) < 2 {
			s.SD = math.NaN()
		}

		s.Median, _ = stats.Median(values)
		s.Min, _ = stats.Min(values)
		s.Max, _ = stats.Max(values)

		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		s.Q05 = stat.Quantile(0.05, stat.LinInterp, sorted, nil)
		s.Q95 = stat.Quantile(0.95, stat.LinInterp, sorted, nil)

		out = append(out, s)
	}

	return out
}

// ReadsInPeaksRows derives the reads-in-peaks summary from the tidy table.
func ReadsInPeaksRows(r *Report) []ReadsInPeaksRow {
	out := make([]ReadsInPeaksRow, 0, len(r.ReadsInPeaks))
	for _, rip := range r.ReadsInPeaks {
		inside, _ := tidy.Percentages(rip.Inside, rip.Outside())
		out = append(out, ReadsInPeaksRow{
			Sample:  rip.Sample,
			Inside:  rip.Inside,
			Outside: rip.Outside(),
			RiP:     inside,
		})
	}

	return out
}
