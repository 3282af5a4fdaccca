package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/carbocation/chipqc/metadata"
	"github.com/carbocation/chipqc/metrics"
	"github.com/carbocation/chipqc/palette"
	"github.com/carbocation/chipqc/ragged"
	"github.com/carbocation/chipqc/tidy"
)

func fixture(t *testing.T) (*metadata.Table, Options) {
	t.Helper()

	meta, err := metadata.FromSheet(metadata.Raw{
		Columns: []string{"SampleID", "Tissue", "Factor", "Condition"},
		Rows: [][]string{
			{"A", "Liver", "CTCF", "WT"},
			{"B", "Liver", "CTCF", "KO"},
			{"C", "Heart", "CTCF", "WT"},
		},
	}, "SampleID")
	if err != nil {
		t.Fatal(err)
	}

	pal, err := palette.Get("Set1")
	if err != nil {
		t.Fatal(err)
	}

	return meta, Options{
		FacetX:   "Factor",
		FacetY:   "Tissue",
		FacetZ:   "Condition",
		UseColor: true,
		Palette:  pal,
		Width:    400,
		Height:   300,
	}
}

func TestPanels(t *testing.T) {
	meta, opts := fixture(t)

	tab, err := tidy.CrossCoverageTable(ragged.Collection{
		Labels:  []string{"A", "B", "C"},
		Vectors: [][]float64{{1, 2}, {2, 3}, {3, 4}},
	}, meta)
	if err != nil {
		t.Fatal(err)
	}

	panels, err := Panels(tab, opts)
	if err != nil {
		t.Fatal(err)
	}

	if len(panels) != 2 {
		t.Fatalf("Expected 2 panels, got %d", len(panels))
	}
	if panels[0].Y != "Heart" || len(panels[0].Rows) != 2 || panels[1].Y != "Liver" || len(panels[1].Rows) != 4 {
		t.Fatalf("Unexpected panels: %+v", panels)
	}

	opts.FacetY = "Nope"
	if _, err := Panels(tab, opts); err == nil {
		t.Fatal("Expected an error for an unknown facet column")
	}
}

func TestSampleColors(t *testing.T) {
	meta, opts := fixture(t)

	colors, err := SampleColors(meta, opts)
	if err != nil {
		t.Fatal(err)
	}
	// Levels sort as KO, WT.
	if colors["B"] != opts.Palette.Color(0) || colors["A"] != opts.Palette.Color(1) || colors["A"] != colors["C"] {
		t.Fatalf("Colors: %v", colors)
	}

	opts.UseColor = false
	colors, err = SampleColors(meta, opts)
	if err != nil {
		t.Fatal(err)
	}
	if colors["A"] != colors["B"] {
		t.Fatalf("Expected one color without a color channel: %v", colors)
	}
}

func TestRenderDistinctFileNames(t *testing.T) {
	_, opts := fixture(t)
	opts.UseColor = false

	// Untokenized metadata, as an aggregate object carries it.
	meta, err := metadata.FromEmbedded(metadata.Raw{
		Columns: []string{"ID", "Tissue", "Factor", "Condition"},
		Rows: [][]string{
			{"A", "WT 1", "CTCF", "WT"},
			{"B", "WT-1", "CTCF", "WT"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	tab, err := tidy.CrossCoverageTable(ragged.Collection{
		Labels:  []string{"A", "B"},
		Vectors: [][]float64{{1, 2}, {2, 3}},
	}, meta)
	if err != nil {
		t.Fatal(err)
	}

	charts, err := Render(t.TempDir(), tab, meta, opts)
	if err != nil {
		t.Fatal(err)
	}

	if len(charts) != 2 {
		t.Fatalf("Expected 2 charts, got %+v", charts)
	}
	if charts[0].File != "cross_coverage_CTCF_WT.1.png" || charts[1].File != "cross_coverage_CTCF_WT.1_2.png" {
		t.Fatalf("File names: %q, %q", charts[0].File, charts[1].File)
	}
}

func TestRender(t *testing.T) {
	meta, opts := fixture(t)
	dir := t.TempDir()

	m, err := ragged.Pad(ragged.Collection{
		Labels:  []string{"A", "B", "C"},
		Vectors: [][]float64{{100, 10, 1}, {50, 5}, {0, 0}},
	})
	if err != nil {
		t.Fatal(err)
	}
	hist, err := tidy.Histogram(m, meta)
	if err != nil {
		t.Fatal(err)
	}

	charts, err := Render(dir, hist, meta, opts)
	if err != nil {
		t.Fatal(err)
	}

	// Sample C only has zero coverage, which cannot be drawn on a log scale,
	// so the Heart panel is skipped.
	if len(charts) != 1 || charts[0].File != "coverage_histogram_CTCF_Liver.png" {
		t.Fatalf("Charts: %+v", charts)
	}
	if _, err := os.Stat(filepath.Join(dir, charts[0].File)); err != nil {
		t.Fatal(err)
	}

	rip, err := tidy.ReadsInPeaksTable([]metrics.ReadsInPeaks{
		{Sample: "A", Inside: 10, Mapped: 100},
		{Sample: "B", Inside: 20, Mapped: 100},
	}, meta)
	if err != nil {
		t.Fatal(err)
	}

	charts, err = Render(dir, rip, meta, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(charts) != 1 || charts[0].Family != tidy.ReadsInPeaks {
		t.Fatalf("Charts: %+v", charts)
	}
}
