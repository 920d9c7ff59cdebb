// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"fmt"
	"io"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"

	"github.com/mcanela/starkit/catalog"
)

// Scatter plots one point per row.
func Scatter(d *catalog.Data, o ScatterOptions) *gg.Plot {
	plot := gg.NewPlot(d.Table())
	if o.FacetBy != "" {
		plot.Add(gg.FacetX{Col: o.FacetBy})
	}
	plot.Add(gg.LayerPoints{X: o.X, Y: o.Y, Color: o.Color})
	addLabels(plot, o.Title, o.XLabel, o.YLabel)
	return plot
}

// ColorMagnitude draws the g-r color against g magnitude, faceted by
// shape_type. The data must come from an object search with its
// derived columns intact.
func ColorMagnitude(d *catalog.Data, o ScatterOptions) (*gg.Plot, error) {
	for _, col := range []string{"gmr", "mag_g_cModel", "shape_type"} {
		if d.Column(col) == nil {
			return nil, fmt.Errorf("plot: color-magnitude needs column %q", col)
		}
	}
	o.X, o.Y = "gmr", "mag_g_cModel"
	o.FacetBy = "shape_type"
	if o.XLabel == "" {
		o.XLabel = "g - r"
	}
	if o.YLabel == "" {
		o.YLabel = "g magnitude"
	}
	return Scatter(d, o), nil
}

// bin computes a histogram per table, emitting bin_left and count
// columns for a staircase layer.
type bin struct {
	col string
}

func (b bin) F(g table.Grouping) table.Grouping {
	return table.MapTables(g, func(_ table.GroupID, t *table.Table) *table.Table {
		edges, counts, err := catalog.New(t).Histogram(b.col)
		if err != nil {
			// An unbinnable group becomes an empty one.
			return new(table.Builder).
				Add("bin_left", []float64{}).
				Add("count", []float64{}).
				Done()
		}
		// Repeat the final count so the staircase closes at the
		// right edge.
		left := make([]float64, len(counts)+1)
		ys := make([]float64, len(counts)+1)
		copy(left, edges[:len(counts)])
		left[len(counts)] = edges[len(edges)-1]
		for i, c := range counts {
			ys[i] = float64(c)
		}
		ys[len(counts)] = float64(counts[len(counts)-1])
		return new(table.Builder).
			Add("bin_left", left).
			Add("count", ys).
			Done()
	})
}

// Histogram plots the distribution of one numeric column as a
// staircase.
func Histogram(d *catalog.Data, o HistogramOptions) (*gg.Plot, error) {
	if d.Column(o.Column) == nil {
		return nil, fmt.Errorf("plot: no column %q to bin", o.Column)
	}
	plot := gg.NewPlot(d.Table())
	plot.Stat(bin{o.Column})
	plot.SetScale("y", gg.NewLinearScaler().Include(0))
	plot.Add(gg.LayerSteps{LayerPaths: gg.LayerPaths{X: "bin_left", Y: "count"}})
	xlabel := o.XLabel
	if xlabel == "" {
		xlabel = o.Column
	}
	addLabels(plot, o.Title, xlabel, "count")
	return plot, nil
}

// FluxSeries plots a light curve: flux samples connected in time
// order with the points marked.
func FluxSeries(d *catalog.Data, o SeriesOptions) *gg.Plot {
	x, y := o.X, o.Y
	if x == "" {
		x = "expMidptMJD"
	}
	if y == "" {
		y = "psfDiffFlux"
	}
	plot := gg.NewPlot(d.Table())
	plot.SortBy(x)
	if o.By != "" {
		plot.GroupBy(o.By)
	}
	plot.Add(gg.LayerLines{X: x, Y: y, Color: o.By})
	plot.Add(gg.LayerPoints{X: x, Y: y, Color: o.By})
	addLabels(plot, o.Title, x, y)
	return plot
}

// WriteSVG renders the plot at the given pixel size.
func WriteSVG(w io.Writer, p *gg.Plot, width, height int) error {
	return p.WriteSVG(w, width, height)
}

func addLabels(p *gg.Plot, title, xlabel, ylabel string) {
	if title != "" {
		p.Add(gg.Title(title))
	}
	if xlabel != "" {
		p.Add(gg.AxisLabel("x", xlabel))
	}
	if ylabel != "" {
		p.Add(gg.AxisLabel("y", ylabel))
	}
}
