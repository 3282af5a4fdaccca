// Package qctest writes small QC fixtures for tests.
package qctest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/chipqc/qcsample"
	"gopkg.in/guregu/null.v3"
)

// Sample builds a handle with the given reads-in-peaks and mapped read
// counts and nPeaks called regions whose counts are 1..nPeaks.
func Sample(rip, mapped float64, nPeaks int) *qcsample.Sample {
	s := &qcsample.Sample{
		Metrics: map[string]null.Float{
			"Reads": null.FloatFrom(mapped * 1.1),
			"Map%":  null.FloatFrom(90),
		},
		CoverageHistogram: []null.Float{null.FloatFrom(100), null.FloatFrom(50), null.FloatFrom(0)},
		CrossCoverage:     []null.Float{null.FloatFrom(0.5), null.FloatFrom(0.7), null.FloatFrom(0.6)},
		PeakProfile:       []null.Float{null.FloatFrom(1), null.FloatFrom(3), null.FloatFrom(8), null.FloatFrom(9), null.FloatFrom(3), null.FloatFrom(1)},
		ReadsInPeaks:      null.FloatFrom(rip),
		MappedReads:       null.FloatFrom(mapped),
	}

	for i := 0; i < nPeaks; i++ {
		s.Peaks = append(s.Peaks, qcsample.Peak{
			Chrom:  "chr1",
			Start:  int64(1000 * i),
			End:    int64(1000*i + 200),
			Counts: null.FloatFrom(float64(i + 1)),
		})
	}

	return s
}

// WriteJSON marshals v into dir/name and returns the path.
func WriteJSON(t testing.TB, dir, name string, v interface{}) string {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

// WriteSheet writes a comma-delimited sample sheet to dir/name.
func WriteSheet(t testing.TB, dir, name string, header []string, rows ...[]string) string {
	t.Helper()

	lines := []string{strings.Join(header, ",")}
	for _, row := range rows {
		lines = append(lines, strings.Join(row, ","))
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

// SheetHeader is the column layout used by WriteTwoSampleSheet.
var SheetHeader = []string{"SampleID", "Tissue", "Factor", "Condition", "Replicate", "QCsample"}

// WriteTwoSampleSheet writes two handles with Inside [10, 20] and Outside
// [90, 80] reads and a sheet referencing them by relative path.
func WriteTwoSampleSheet(t testing.TB, dir string) string {
	t.Helper()

	WriteJSON(t, dir, "s1.json", Sample(10, 100, 3))
	WriteJSON(t, dir, "s2.json", Sample(20, 100, 5))

	return WriteSheet(t, dir, "samples.csv", SheetHeader,
		[]string{"CTCF 1", "Liver", "CTCF", "WT", "1", "s1.json"},
		[]string{"CTCF 2", "Liver", "CTCF", "KO", "2", "s2.json"},
	)
}

// WriteExperiment writes an aggregate QC object with the given samples and
// metadata rows (whose first column is the identifier).
func WriteExperiment(t testing.TB, dir, name string, columns []string, rows [][]string, samples ...*qcsample.Sample) string {
	t.Helper()

	return WriteJSON(t, dir, name, qcsample.Experiment{
		Metadata: qcsample.EmbeddedTable{Columns: columns, Rows: rows},
		Samples:  samples,
	})
}
