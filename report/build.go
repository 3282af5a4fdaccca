// Package report runs the full pipeline for one QC report: ingest the input,
// normalize metadata, extract metrics, reshape them into tidy tables, and
// hand those to the renderer.
package report

import (
	"fmt"
	"log"

	"github.com/carbocation/chipqc"
	"github.com/carbocation/chipqc/config"
	"github.com/carbocation/chipqc/ingest"
	"github.com/carbocation/chipqc/metadata"
	"github.com/carbocation/chipqc/metrics"
	"github.com/carbocation/chipqc/ragged"
	"github.com/carbocation/chipqc/tidy"
)

// Report is everything the presentation layer needs.
type Report struct {
	Config   config.Config
	Mode     ingest.Mode
	Metadata *metadata.Table
	Summary  *tidy.Wide

	// Tables are in a fixed order: coverage histogram, cross-coverage, peak
	// profile, reads-in-peaks, per-peak counts.
	Tables []*tidy.Table

	// ReadsInPeaks are the raw scalars behind the reads-in-peaks table.
	ReadsInPeaks []metrics.ReadsInPeaks

	// UseColor is the FacetZ color decision.
	UseColor bool

	// Excluded lists samples left out of the reads-in-peaks table.
	Excluded []string
}

// Table returns the tidy table for a family name, or nil.
func (r *Report) Table(name string) *tidy.Table {
	for _, t := range r.Tables {
		if t.Name == name {
			return t
		}
	}

	return nil
}

// Build runs everything up to, but not including, rendering. Any failure
// aborts the whole run.
func Build(cfg config.Config, o *chipqc.Opener) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ing, err := ingest.New(cfg, o)
	if err != nil {
		return nil, err
	}

	batch, err := ing.Ingest()
	if err != nil {
		return nil, err
	}
	log.Println("Ingested", len(batch.IDs), "samples as", batch.Mode)

	meta, err := ing.Metadata(batch)
	if err != nil {
		return nil, err
	}
	if err := meta.Require(cfg.FacetX, cfg.FacetY, cfg.FacetZ); err != nil {
		return nil, err
	}

	fam, err := metrics.Extract(batch.IDs, batch.Samples)
	if err != nil {
		return nil, err
	}

	tables, err := reshape(fam, meta)
	if err != nil {
		return nil, err
	}

	summary, err := tidy.SummaryTable(fam.Summary, meta)
	if err != nil {
		return nil, err
	}

	useColor, err := metadata.UseColor(meta, cfg.FacetZ)
	if err != nil {
		return nil, err
	}

	return &Report{
		Config:       cfg,
		Mode:         batch.Mode,
		Metadata:     meta,
		Summary:      summary,
		Tables:       tables,
		ReadsInPeaks: fam.ReadsInPeaks,
		UseColor:     useColor,
		Excluded:     fam.Excluded,
	}, nil
}

func reshape(fam *metrics.Families, meta *metadata.Table) ([]*tidy.Table, error) {
	hist, err := pad(fam.CoverageHistogram)
	if err != nil {
		return nil, err
	}
	histogram, err := tidy.Histogram(hist, meta)
	if err != nil {
		return nil, err
	}

	cc, err := tidy.CrossCoverageTable(fam.CrossCoverage, meta)
	if err != nil {
		return nil, err
	}

	profile, err := tidy.PeakProfileTable(fam.PeakProfile, meta)
	if err != nil {
		return nil, err
	}

	rip, err := tidy.ReadsInPeaksTable(fam.ReadsInPeaks, meta)
	if err != nil {
		return nil, err
	}

	counts, err := pad(fam.PeakCounts)
	if err != nil {
		return nil, err
	}
	peakCounts, err := tidy.PeakCountTable(counts, meta)
	if err != nil {
		return nil, err
	}

	return []*tidy.Table{histogram, cc, profile, rip, peakCounts}, nil
}

func pad(c ragged.Collection) (*ragged.Matrix, error) {
	d, err := ragged.ToMatrix(c)
	if err != nil {
		return nil, err
	}

	m, ok := d.(*ragged.Matrix)
	if !ok {
		return nil, fmt.Errorf("Expected a padded matrix, got %T", d)
	}

	return m, nil
}
