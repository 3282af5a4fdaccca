package report

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/chipqc/palette"
	"github.com/carbocation/chipqc/render"
	"github.com/carbocation/chipqc/tidy"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
)

const (
	SummaryFile      = "summary.csv"
	SummaryStatsFile = "summary_stats.csv"
	ReadsInPeaksFile = "reads_in_peaks_summary.csv"
	IndexFile        = "report.md"
)

// Output lists what Write produced, relative to the output directory.
type Output struct {
	Dir    string
	Tables []string
	Charts []render.Chart
}

// Write renders the report into dir. Re-running on the same inputs produces
// identical CSV output.
func (r *Report) Write(dir string) (*Output, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, pfx.Err(err)
	}

	out := &Output{Dir: dir}

	for _, t := range r.Tables {
		name := t.Name + ".csv"
		if err := writeFile(filepath.Join(dir, name), t.WriteCSV); err != nil {
			return nil, err
		}
		out.Tables = append(out.Tables, name)
	}

	if err := writeFile(filepath.Join(dir, SummaryFile), r.Summary.WriteCSV); err != nil {
		return nil, err
	}
	out.Tables = append(out.Tables, SummaryFile)

	summaryStats := Summarize(r.Summary)
	if err := writeFile(filepath.Join(dir, SummaryStatsFile), func(w io.Writer) error {
		return gocsv.Marshal(&summaryStats, w)
	}); err != nil {
		return nil, err
	}
	out.Tables = append(out.Tables, SummaryStatsFile)

	ripRows := ReadsInPeaksRows(r)
	if err := writeFile(filepath.Join(dir, ReadsInPeaksFile), func(w io.Writer) error {
		return gocsv.Marshal(&ripRows, w)
	}); err != nil {
		return nil, err
	}
	out.Tables = append(out.Tables, ReadsInPeaksFile)

	pal, err := palette.Get(r.Config.Palette)
	if err != nil {
		return nil, err
	}
	opts := render.Options{
		FacetX:   r.Config.FacetX,
		FacetY:   r.Config.FacetY,
		FacetZ:   r.Config.FacetZ,
		UseColor: r.UseColor,
		Palette:  pal,
		Width:    r.Config.ChartWidth,
		Height:   r.Config.ChartHeight,
	}

	for _, t := range r.Tables {
		charts, err := render.Render(dir, t, r.Metadata, opts)
		if err != nil {
			return nil, err
		}
		out.Charts = append(out.Charts, charts...)
	}

	if err := writeFile(filepath.Join(dir, IndexFile), func(w io.Writer) error {
		return r.writeIndex(w, out)
	}); err != nil {
		return nil, err
	}

	log.Printf("Wrote %d tables and %d charts to %s\n", len(out.Tables), len(out.Charts), dir)

	return out, nil
}

func writeFile(path string, fill func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := fill(&buf); err != nil {
		return pfx.Err(fmt.Errorf("%s: %v", path, err))
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return pfx.Err(err)
	}

	return nil
}

func (r *Report) writeIndex(w io.Writer, out *Output) error {
	fmt.Fprintf(w, "# ChIP-seq QC report\n\n")
	fmt.Fprintf(w, "Input: `%s` (%s), %d samples.\n\n", r.Config.Input, r.Mode, r.Metadata.Len())

	if r.UseColor {
		fmt.Fprintf(w, "Samples are colored by `%s` using the %s palette.\n\n", r.Config.FacetZ, r.Config.Palette)
	} else {
		fmt.Fprintf(w, "`%s` has a single level; samples are not colored.\n\n", r.Config.FacetZ)
	}

	if len(r.Excluded) > 0 {
		fmt.Fprintf(w, "Excluded from reads-in-peaks (undefined ratio): %s\n\n", strings.Join(r.Excluded, ", "))
	}

	fmt.Fprintf(w, "## Tables\n\n")
	for _, name := range out.Tables {
		fmt.Fprintf(w, "- [%s](%s)\n", name, name)
	}

	fmt.Fprintf(w, "\n## Charts\n\n")
	for _, c := range out.Charts {
		fmt.Fprintf(w, "### %s: %s\n\n![%s](%s)\n\n", c.Family, c.Panel, c.Family, c.File)
	}

	if t := r.Table(tidy.PeakCounts); t != nil {
		if err := writePeakHistogram(w, t); err != nil {
			return err
		}
	}

	if r.Config.Echo {
		cfg, err := r.Config.YAML()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "## Configuration\n\n```yaml\n%s```\n", cfg)
	}

	return nil
}

// writePeakHistogram prints a text histogram of log10 per-peak counts across
// all samples. Tables with fewer than two distinct finite values are noted
// instead.
func writePeakHistogram(w io.Writer, t *tidy.Table) error {
	values := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if !math.IsInf(row.Derived, 0) && !math.IsNaN(row.Derived) {
			values = append(values, row.Derived)
		}
	}

	fmt.Fprintf(w, "## Per-peak counts (log10)\n\n")

	lo, _ := stats.Min(values)
	hi, _ := stats.Max(values)
	if len(values) < 2 || lo == hi {
		fmt.Fprintf(w, "Not enough distinct peak counts to plot.\n\n")
		return nil
	}

	fmt.Fprintf(w, "```\n")
	hist := histogram.Hist(20, values)
	if err := histogram.Fprint(w, hist, histogram.Linear(40)); err != nil {
		return pfx.Err(err)
	}
	fmt.Fprintf(w, "```\n\n")

	return nil
}
