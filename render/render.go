// Package render draws tidy metric tables as PNG charts. It is handed a
// finished table plus facet and color instructions; it never reshapes data.
package render

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/carbocation/chipqc/metadata"
	"github.com/carbocation/chipqc/palette"
	"github.com/carbocation/chipqc/tidy"
	"github.com/montanaflynn/stats"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// outsideColor fills the "Outside" segment of reads-in-peaks bars.
const outsideColor = "BDBDBD"

// Options tell the renderer how to split and color samples.
type Options struct {
	FacetX, FacetY, FacetZ string

	// UseColor adds a color channel keyed on FacetZ. When false, every sample
	// shares one color.
	UseColor bool

	Palette       palette.Palette
	Width, Height int
}

// Chart is one rendered file.
type Chart struct {
	Family string
	Panel  string
	File   string
}

// Panel is the subset of a table that shares one FacetX and FacetY value.
type Panel struct {
	X, Y string
	Rows []tidy.Row
}

// Name is a human-readable panel label.
func (p Panel) Name() string {
	return p.X + " / " + p.Y
}

// Panels splits t by FacetX and FacetY, sorted by (X, Y).
func Panels(t *tidy.Table, opts Options) ([]Panel, error) {
	byKey := make(map[[2]string]*Panel)
	for _, row := range t.Rows {
		x, err := t.MetaValue(row, opts.FacetX)
		if err != nil {
			return nil, err
		}
		y, err := t.MetaValue(row, opts.FacetY)
		if err != nil {
			return nil, err
		}

		key := [2]string{x, y}
		p, exists := byKey[key]
		if !exists {
			p = &Panel{X: x, Y: y}
			byKey[key] = p
		}
		p.Rows = append(p.Rows, row)
	}

	out := make([]Panel, 0, len(byKey))
	for _, p := range byKey {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})

	return out, nil
}

// SampleColors assigns a hex color to every sample. With UseColor, samples
// sharing a FacetZ value share a color; otherwise all samples get the
// palette's first color.
func SampleColors(meta *metadata.Table, opts Options) (map[string]string, error) {
	out := make(map[string]string, meta.Len())

	if !opts.UseColor {
		for _, id := range meta.IDs() {
			out[id] = opts.Palette.Color(0)
		}
		return out, nil
	}

	levels, err := meta.Distinct(opts.FacetZ)
	if err != nil {
		return nil, err
	}
	levelIndex := make(map[string]int, len(levels))
	for i, level := range levels {
		levelIndex[level] = i
	}

	zs, err := meta.Column(opts.FacetZ)
	if err != nil {
		return nil, err
	}
	for i, id := range meta.IDs() {
		out[id] = opts.Palette.Color(levelIndex[zs[i]])
	}

	return out, nil
}

// Render draws one chart per panel of t into dir.
func Render(dir string, t *tidy.Table, meta *metadata.Table, opts Options) ([]Chart, error) {
	panels, err := Panels(t, opts)
	if err != nil {
		return nil, err
	}

	colors, err := SampleColors(meta, opts)
	if err != nil {
		return nil, err
	}

	out := make([]Chart, 0, len(panels))
	used := make(map[string]struct{}, len(panels))
	for _, p := range panels {
		var buf bytes.Buffer

		var drawn bool
		if t.Categorical() {
			drawn, err = drawStacked(&buf, t, p, colors, opts)
		} else {
			drawn, err = drawLines(&buf, t, p, colors, opts)
		}
		if err != nil {
			return nil, fmt.Errorf("%s (%s): %w", t.Name, p.Name(), err)
		}
		if !drawn {
			continue
		}

		// Distinct facet values can share a token, e.g. "WT 1" and "WT-1".
		stem := fmt.Sprintf("%s_%s_%s", t.Name, metadata.Token(p.X), metadata.Token(p.Y))
		name := stem + ".png"
		for n := 2; ; n++ {
			if _, exists := used[name]; !exists {
				break
			}
			name = fmt.Sprintf("%s_%d.png", stem, n)
		}
		used[name] = struct{}{}
		if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
			return nil, err
		}
		out = append(out, Chart{Family: t.Name, Panel: p.Name(), File: name})
	}

	return out, nil
}

func sampleLabel(t *tidy.Table, row tidy.Row, opts Options) string {
	if !opts.UseColor || opts.FacetZ == metadata.IDColumn {
		return row.Sample
	}
	z, err := t.MetaValue(row, opts.FacetZ)
	if err != nil {
		return row.Sample
	}

	return row.Sample + " (" + z + ")"
}

func drawLines(buf *bytes.Buffer, t *tidy.Table, p Panel, colors map[string]string, opts Options) (bool, error) {
	yName := t.Value
	if t.Derived != "" {
		yName = t.Derived
	}

	order := make([]string, 0)
	series := make(map[string]*chart.ContinuousSeries)
	var xs, ys []float64

	for _, row := range p.Rows {
		y := row.Value
		if t.Derived != "" {
			y = row.Derived
		}
		// log10(0) and friends cannot be placed on an axis.
		if math.IsInf(y, 0) || math.IsNaN(y) {
			continue
		}

		s, exists := series[row.Sample]
		if !exists {
			c := drawing.ColorFromHex(colors[row.Sample])
			s = &chart.ContinuousSeries{
				Name:  sampleLabel(t, row, opts),
				Style: chart.Style{StrokeColor: c, StrokeWidth: 2},
			}
			series[row.Sample] = s
			order = append(order, row.Sample)
		}
		s.XValues = append(s.XValues, row.Index)
		s.YValues = append(s.YValues, y)
		xs = append(xs, row.Index)
		ys = append(ys, y)
	}

	if len(order) == 0 {
		return false, nil
	}

	xRange, err := axisRange(xs)
	if err != nil {
		return false, err
	}
	yRange, err := axisRange(ys)
	if err != nil {
		return false, err
	}

	graph := chart.Chart{
		Title:  t.Name + ": " + p.Name(),
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{Name: t.Index, Range: xRange},
		YAxis: chart.YAxis{Name: yName, Range: yRange},
	}
	for _, sample := range order {
		graph.Series = append(graph.Series, *series[sample])
	}
	if opts.UseColor {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}

	if err := graph.Render(chart.PNG, buf); err != nil {
		return false, err
	}

	return true, nil
}

// axisRange pads a degenerate range so the chart always has a non-zero
// delta.
func axisRange(values []float64) (*chart.ContinuousRange, error) {
	min, err := stats.Min(values)
	if err != nil {
		return nil, err
	}
	max, err := stats.Max(values)
	if err != nil {
		return nil, err
	}

	if min == max {
		min, max = min-1, max+1
	}

	return &chart.ContinuousRange{Min: min, Max: max}, nil
}

func drawStacked(buf *bytes.Buffer, t *tidy.Table, p Panel, colors map[string]string, opts Options) (bool, error) {
	order := make([]string, 0)
	bars := make(map[string]*chart.StackedBar)

	for _, row := range p.Rows {
		if math.IsInf(row.Value, 0) || math.IsNaN(row.Value) {
			continue
		}

		bar, exists := bars[row.Sample]
		if !exists {
			bar = &chart.StackedBar{Name: sampleLabel(t, row, opts)}
			bars[row.Sample] = bar
			order = append(order, row.Sample)
		}

		fill := colors[row.Sample]
		if row.Category == tidy.Outside {
			fill = outsideColor
		}
		bar.Values = append(bar.Values, chart.Value{
			Label: row.Category,
			Value: row.Value,
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex(fill),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
			},
		})
	}

	if len(order) == 0 {
		return false, nil
	}

	sbc := chart.StackedBarChart{
		Title:  t.Name + ": " + p.Name(),
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
	}
	for _, sample := range order {
		sbc.Bars = append(sbc.Bars, *bars[sample])
	}

	if err := sbc.Render(chart.PNG, buf); err != nil {
		return false, err
	}

	return true, nil
}
