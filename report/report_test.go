package report

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/chipqc"
	"github.com/carbocation/chipqc/config"
	"github.com/carbocation/chipqc/ingest"
	"github.com/carbocation/chipqc/internal/qctest"
	"github.com/carbocation/chipqc/metadata"
	"github.com/carbocation/chipqc/palette"
	"github.com/carbocation/chipqc/tidy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

func opener() *chipqc.Opener {
	return chipqc.NewOpener(context.Background(), nil)
}

func twoSampleConfig(t *testing.T) config.Config {
	t.Helper()

	cfg := config.Defaults()
	cfg.Input = qctest.WriteTwoSampleSheet(t, t.TempDir())
	return cfg
}

func TestBuildTwoSamples(t *testing.T) {
	r, err := Build(twoSampleConfig(t), opener())
	require.NoError(t, err)

	assert.Equal(t, ingest.ModeSheet, r.Mode)
	assert.True(t, r.UseColor)
	assert.Empty(t, r.Excluded)
	assert.Equal(t, []string{"CTCF.1", "CTCF.2"}, r.Metadata.IDs())

	peaks, err := r.Metadata.Column(metadata.PeaksColumn)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "5"}, peaks)

	rip := r.Table(tidy.ReadsInPeaks)
	require.NotNil(t, rip)
	require.Len(t, rip.Rows, 4)

	got := map[string]float64{}
	for _, row := range rip.Rows {
		got[row.Sample+"/"+row.Category] = row.Value
	}
	assert.InDelta(t, 10, got["CTCF.1/Inside"], 1e-9)
	assert.InDelta(t, 90, got["CTCF.1/Outside"], 1e-9)
	assert.InDelta(t, 20, got["CTCF.2/Inside"], 1e-9)
	assert.InDelta(t, 80, got["CTCF.2/Outside"], 1e-9)

	counts := r.Table(tidy.PeakCounts)
	require.NotNil(t, counts)
	// Five rows per sample after padding the three-peak sample.
	assert.Len(t, counts.Rows, 10)
}

func TestSummarize(t *testing.T) {
	r, err := Build(twoSampleConfig(t), opener())
	require.NoError(t, err)

	s := Summarize(r.Summary)
	require.Len(t, s, 2)

	assert.Equal(t, "Map%", s[0].Metric)
	assert.Equal(t, 2, s[0].N)
	assert.InDelta(t, 90, s[0].Mean, 1e-9)
	assert.InDelta(t, 0, s[0].SD, 1e-9)

	assert.Equal(t, "Reads", s[1].Metric)
	assert.InDelta(t, 110, s[1].Median, 1e-9)
	assert.InDelta(t, 110, s[1].Min, 1e-9)
	assert.InDelta(t, 110, s[1].Max, 1e-9)
}

func TestSummarizeSingleValue(t *testing.T) {
	s := Summarize(&tidy.Wide{
		Columns: []string{"Reads", "RelCC"},
		Rows: []tidy.WideRow{
			{Sample: "A", Values: []null.Float{null.FloatFrom(100), null.FloatFrom(1.2)}},
			{Sample: "B", Values: []null.Float{null.FloatFrom(300), null.Float{}}},
		},
	})
	require.Len(t, s, 2)

	assert.Equal(t, 2, s[0].N)
	assert.InDelta(t, 200, s[0].Mean, 1e-9)
	assert.False(t, math.IsNaN(s[0].SD))

	assert.Equal(t, 1, s[1].N)
	assert.InDelta(t, 1.2, s[1].Mean, 1e-9)
	assert.True(t, math.IsNaN(s[1].SD), "SD of one value is undefined, got %v", s[1].SD)
}

func TestReadsInPeaksRows(t *testing.T) {
	r, err := Build(twoSampleConfig(t), opener())
	require.NoError(t, err)

	rows := ReadsInPeaksRows(r)
	require.Len(t, rows, 2)
	assert.Equal(t, ReadsInPeaksRow{Sample: "CTCF.1", Inside: 10, Outside: 90, RiP: 10}, rows[0])
	assert.Equal(t, ReadsInPeaksRow{Sample: "CTCF.2", Inside: 20, Outside: 80, RiP: 20}, rows[1])
}

func TestWrite(t *testing.T) {
	cfg := twoSampleConfig(t)
	cfg.Echo = true

	r, err := Build(cfg, opener())
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	out, err := r.Write(dir)
	require.NoError(t, err)

	for _, name := range out.Tables {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	assert.NotEmpty(t, out.Charts)
	for _, c := range out.Charts {
		assert.FileExists(t, filepath.Join(dir, c.File))
	}

	index, err := os.ReadFile(filepath.Join(dir, IndexFile))
	require.NoError(t, err)
	assert.Contains(t, string(index), "colored by `Condition`")
	assert.Contains(t, string(index), "## Configuration")
	assert.Contains(t, string(index), "palette: Set1")

	rip, err := os.ReadFile(filepath.Join(dir, ReadsInPeaksFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(rip)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Sample,Inside,Outside,RiP%", lines[0])
}

func TestWriteIsIdempotent(t *testing.T) {
	cfg := twoSampleConfig(t)

	dirs := []string{filepath.Join(t.TempDir(), "a"), filepath.Join(t.TempDir(), "b")}
	for _, dir := range dirs {
		r, err := Build(cfg, opener())
		require.NoError(t, err)
		_, err = r.Write(dir)
		require.NoError(t, err)
	}

	names, err := filepath.Glob(filepath.Join(dirs[0], "*.csv"))
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		a, err := os.ReadFile(name)
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dirs[1], filepath.Base(name)))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), filepath.Base(name))
	}
}

func TestFacetBySample(t *testing.T) {
	cfg := twoSampleConfig(t)
	cfg.FacetX = metadata.IDColumn

	r, err := Build(cfg, opener())
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	out, err := r.Write(dir)
	require.NoError(t, err)

	panels := map[string]bool{}
	for _, c := range out.Charts {
		panels[c.Panel] = true
		assert.FileExists(t, filepath.Join(dir, c.File))
	}
	assert.Equal(t, map[string]bool{"CTCF.1 / Liver": true, "CTCF.2 / Liver": true}, panels)
	assert.FileExists(t, filepath.Join(dir, "coverage_histogram_CTCF.1_Liver.png"))
}

func TestBuildAggregate(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.Input = qctest.WriteExperiment(t, dir, "experiment.json",
		[]string{"ID", "Tissue", "Factor", "Condition"},
		[][]string{
			{"a", "Liver", "CTCF", "WT"},
			{"b", "Liver", "CTCF", "WT"},
		},
		qctest.Sample(10, 100, 2), qctest.Sample(30, 100, 2),
	)

	r, err := Build(cfg, opener())
	require.NoError(t, err)

	assert.Equal(t, ingest.ModeAggregate, r.Mode)
	assert.False(t, r.UseColor)
	assert.Equal(t, []string{"a", "b"}, r.Metadata.IDs())

	_, err = r.Write(filepath.Join(dir, "out"))
	require.NoError(t, err)
}

func TestBuildErrors(t *testing.T) {
	cfg := twoSampleConfig(t)
	cfg.Palette = "Rainbow"
	_, err := Build(cfg, opener())
	assert.ErrorIs(t, err, palette.ErrInvalidPalette)

	cfg = twoSampleConfig(t)
	cfg.Input = filepath.Join(t.TempDir(), "data.txt")
	_, err = Build(cfg, opener())
	assert.ErrorIs(t, err, ingest.ErrInvalidInputFormat)

	cfg = twoSampleConfig(t)
	cfg.FacetZ = "Batch"
	_, err = Build(cfg, opener())
	assert.ErrorIs(t, err, metadata.ErrMissingColumn)
}
