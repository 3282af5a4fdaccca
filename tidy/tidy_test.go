package tidy

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/carbocation/chipqc/metadata"
	"github.com/carbocation/chipqc/metrics"
	"github.com/carbocation/chipqc/ragged"
	"gopkg.in/guregu/null.v3"
)

func meta(t *testing.T, ids ...string) *metadata.Table {
	t.Helper()

	raw := metadata.Raw{Columns: []string{"SampleID", "Tissue", "Condition"}}
	for i, id := range ids {
		cond := "WT"
		if i%2 == 1 {
			cond = "KO"
		}
		raw.Rows = append(raw.Rows, []string{id, "Liver", cond})
	}

	tab, err := metadata.FromSheet(raw, "SampleID")
	if err != nil {
		t.Fatal(err)
	}

	return tab
}

func TestHistogram(t *testing.T) {
	m, err := ragged.Pad(ragged.Collection{
		Labels:  []string{"A", "B"},
		Vectors: [][]float64{{100, 10}, {1000}},
	})
	if err != nil {
		t.Fatal(err)
	}

	tab, err := Histogram(m, meta(t, "A", "B"))
	if err != nil {
		t.Fatal(err)
	}

	if len(tab.Rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(tab.Rows))
	}

	last := tab.Rows[3]
	if last.Sample != "B" || last.Index != 2 || last.Value != 0 || !math.IsInf(last.Derived, -1) {
		t.Fatalf("Padded row: %+v", last)
	}
	if first := tab.Rows[0]; first.Index != 1 || math.Abs(first.Derived-2) > 1e-12 {
		t.Fatalf("First row: %+v", first)
	}
	if v, err := tab.MetaValue(tab.Rows[2], "Condition"); err != nil || v != "KO" {
		t.Fatalf("MetaValue: %q %v", v, err)
	}
}

func TestCrossCoverage(t *testing.T) {
	tab, err := CrossCoverageTable(ragged.Collection{
		Labels:  []string{"A"},
		Vectors: [][]float64{{0.1, 0.2, 0.3}},
	}, meta(t, "A"))
	if err != nil {
		t.Fatal(err)
	}

	for i, row := range tab.Rows {
		if row.Index != float64(i+1) {
			t.Fatalf("ShiftSize at %d: %f", i, row.Index)
		}
	}
}

func TestProfileDistances(t *testing.T) {
	for _, v := range []struct {
		N        int
		Drop     int
		Expected []float64
	}{
		{6, 3, []float64{-2, -1, 0, 1, 2}},
		{5, -1, []float64{-2, -1, 0, 1, 2}},
		{2, 1, []float64{0}},
		{1, -1, []float64{0}},
		{0, -1, []float64{}},
	} {
		got, drop := ProfileDistances(v.N)
		if drop != v.Drop || len(got) != len(v.Expected) {
			t.Fatalf("ProfileDistances(%d) = %v, %d; expected %v, %d", v.N, got, drop, v.Expected, v.Drop)
		}
		for i := range got {
			if got[i] != v.Expected[i] {
				t.Fatalf("ProfileDistances(%d) = %v; expected %v", v.N, got, v.Expected)
			}
		}
	}
}

func TestPeakProfile(t *testing.T) {
	tab, err := PeakProfileTable(ragged.Collection{
		Labels:  []string{"A"},
		Vectors: [][]float64{{1, 3, 8, 99, 3, 1}},
	}, meta(t, "A"))
	if err != nil {
		t.Fatal(err)
	}

	if len(tab.Rows) != 5 {
		t.Fatalf("Expected 5 rows, got %d", len(tab.Rows))
	}
	for _, row := range tab.Rows {
		if row.Value == 99 {
			t.Fatalf("The synthetic center position was kept: %+v", row)
		}
	}
	if tab.Rows[0].Index != -2 || tab.Rows[4].Index != 2 {
		t.Fatalf("Distances: %v .. %v", tab.Rows[0].Index, tab.Rows[4].Index)
	}
}

func TestPercentages(t *testing.T) {
	in, out := Percentages(40, 60)
	if in != 40.0 || out != 60.0 || in+out != 100.0 {
		t.Fatalf("Percentages(40, 60) = %f, %f", in, out)
	}
}

func TestReadsInPeaks(t *testing.T) {
	tab, err := ReadsInPeaksTable([]metrics.ReadsInPeaks{
		{Sample: "A", Inside: 10, Mapped: 100},
		{Sample: "B", Inside: 20, Mapped: 100},
	}, meta(t, "A", "B", "C"))
	if err != nil {
		t.Fatal(err)
	}

	expected := []struct {
		Sample, Category string
		Value            float64
	}{
		{"A", Outside, 90},
		{"A", Inside, 10},
		{"B", Outside, 80},
		{"B", Inside, 20},
	}
	if len(tab.Rows) != len(expected) {
		t.Fatalf("Expected %d rows, got %d", len(expected), len(tab.Rows))
	}
	for i, e := range expected {
		row := tab.Rows[i]
		if row.Sample != e.Sample || row.Category != e.Category || row.Value != e.Value {
			t.Fatalf("Row %d: %+v, expected %+v", i, row, e)
		}
	}
	if tab.Categories[0] != Outside {
		t.Fatalf("Category order: %v", tab.Categories)
	}
}

func TestJoinMismatch(t *testing.T) {
	m, err := ragged.Pad(ragged.Collection{Labels: []string{"A", "Z"}, Vectors: [][]float64{{1}, {2}}})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := PeakCountTable(m, meta(t, "A", "Z2")); !errors.Is(err, ErrJoinMismatch) {
		t.Fatalf("Expected ErrJoinMismatch for an unknown sample, got %v", err)
	}

	m, err = ragged.Pad(ragged.Collection{Labels: []string{"A"}, Vectors: [][]float64{{1}}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := PeakCountTable(m, meta(t, "A", "B")); !errors.Is(err, ErrJoinMismatch) {
		t.Fatalf("Expected ErrJoinMismatch for a missing sample, got %v", err)
	}
}

func TestJoinEmptyFamily(t *testing.T) {
	m, err := ragged.Pad(ragged.Collection{Labels: []string{"A", "B"}, Vectors: [][]float64{{}, {}}})
	if err != nil {
		t.Fatal(err)
	}

	tab, err := PeakCountTable(m, meta(t, "A", "B"))
	if err != nil {
		t.Fatal(err)
	}
	if len(tab.Rows) != 0 {
		t.Fatalf("Expected no rows, got %d", len(tab.Rows))
	}
}

func TestSummaryTable(t *testing.T) {
	s := metrics.Summary{
		Columns: []string{"Reads", "RelCC"},
		Rows: []metrics.SummaryRow{
			{Sample: "A", Values: []null.Float{null.FloatFrom(100), null.Float{}}},
			{Sample: "B", Values: []null.Float{null.FloatFrom(200), null.FloatFrom(1.5)}},
		},
	}

	w, err := SummaryTable(s, meta(t, "A", "B"))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := w.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}

	expected := "Sample,Reads,RelCC,Tissue,Condition\nA,100,NA,Liver,WT\nB,200,1.5,Liver,KO\n"
	if buf.String() != expected {
		t.Fatalf("\nGot:\n%s\nExpected:\n%s", buf.String(), expected)
	}

	if _, err := SummaryTable(s, meta(t, "A", "B", "C")); !errors.Is(err, ErrJoinMismatch) {
		t.Fatalf("Expected ErrJoinMismatch, got %v", err)
	}
}

func TestWriteCSV(t *testing.T) {
	m, err := ragged.Pad(ragged.Collection{Labels: []string{"A"}, Vectors: [][]float64{{10, 0}}})
	if err != nil {
		t.Fatal(err)
	}

	tab, err := Histogram(m, meta(t, "A"))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := tab.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "Depth,Sample,bp,log10_bp,Tissue,Condition" {
		t.Fatalf("Header: %s", lines[0])
	}
	if lines[2] != "2,A,0,-Inf,Liver,WT" {
		t.Fatalf("Row: %s", lines[2])
	}
}

func TestMetaValueIdentifier(t *testing.T) {
	tab, err := CrossCoverageTable(ragged.Collection{
		Labels:  []string{"A", "B"},
		Vectors: [][]float64{{0.1}, {0.2}},
	}, meta(t, "A", "B"))
	if err != nil {
		t.Fatal(err)
	}

	for _, row := range tab.Rows {
		got, err := tab.MetaValue(row, metadata.IDColumn)
		if err != nil {
			t.Fatal(err)
		}
		if got != row.Sample {
			t.Fatalf("MetaValue(%s) = %q, expected %q", metadata.IDColumn, got, row.Sample)
		}
	}

	if _, err := tab.MetaValue(tab.Rows[0], "Batch"); !errors.Is(err, metadata.ErrMissingColumn) {
		t.Fatalf("Expected ErrMissingColumn, got %v", err)
	}
}
