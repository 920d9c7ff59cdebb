// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plot builds grid plots over catalog data. Rendering is
// delegated to go-gg; this package only assembles tables, stats and
// layers.
package plot

// ScatterOptions configures Scatter and ColorMagnitude. Every field
// is explicit; there is no global plot state.
type ScatterOptions struct {
	// X and Y name the plotted columns.
	X, Y string

	// Color names a column to group points by color. Empty means
	// a single color.
	Color string

	// FacetBy names a column to split into horizontal facets.
	FacetBy string

	Title  string
	XLabel string
	YLabel string
}

// HistogramOptions configures Histogram.
type HistogramOptions struct {
	// Column names the binned column.
	Column string

	Title  string
	XLabel string
}

// SeriesOptions configures FluxSeries.
type SeriesOptions struct {
	// X and Y name the plotted columns; empty means expMidptMJD
	// and psfDiffFlux.
	X, Y string

	// By names a column to draw one line per value, e.g. band.
	By string

	Title string
}
