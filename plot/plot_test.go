// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"bytes"
	"os"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcanela/starkit/catalog"
)

func objectData() *catalog.Data {
	return catalog.New(new(table.Builder).
		Add("gmr", []float64{0.5, 1.0, 0.7, 0.2}).
		Add("mag_g_cModel", []float64{22.0, 23.5, 21.0, 24.0}).
		Add("shape_type", []string{"point", "extended", "point", "extended"}).
		Done())
}

func fluxData() *catalog.Data {
	return catalog.New(new(table.Builder).
		Add("expMidptMJD", []float64{60300.2, 60290.5, 60310.8}).
		Add("psfDiffFlux", []float64{120.5, -30.25, 85.0}).
		Add("band", []string{"i", "i", "i"}).
		Done())
}

func TestScatterRenders(t *testing.T) {
	p := Scatter(objectData(), ScatterOptions{X: "gmr", Y: "mag_g_cModel", Title: "colors"})
	var buf bytes.Buffer
	require.NoError(t, p.WriteSVG(&buf, 400, 300))
	assert.Contains(t, buf.String(), "<svg")
}

func TestColorMagnitude(t *testing.T) {
	p, err := ColorMagnitude(objectData(), ScatterOptions{Title: "cmd"})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, p.WriteSVG(&buf, 800, 400))
	assert.Contains(t, buf.String(), "<svg")
}

func TestColorMagnitudeMissingColumns(t *testing.T) {
	d := catalog.New(new(table.Builder).Add("x", []float64{1}).Done())
	_, err := ColorMagnitude(d, ScatterOptions{})
	assert.Error(t, err)
}

func TestHistogramRenders(t *testing.T) {
	p, err := Histogram(objectData(), HistogramOptions{Column: "mag_g_cModel"})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, p.WriteSVG(&buf, 400, 300))
	assert.Contains(t, buf.String(), "<svg")
}

func TestHistogramUnknownColumn(t *testing.T) {
	_, err := Histogram(objectData(), HistogramOptions{Column: "nope"})
	assert.Error(t, err)
}

func TestFluxSeriesRenders(t *testing.T) {
	p := FluxSeries(fluxData(), SeriesOptions{By: "band", Title: "light curve"})
	var buf bytes.Buffer
	require.NoError(t, p.WriteSVG(&buf, 500, 350))
	assert.Contains(t, buf.String(), "<svg")
}

func TestWriteHTML(t *testing.T) {
	p := Scatter(objectData(), ScatterOptions{X: "gmr", Y: "mag_g_cModel"})
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, "colors", p, 400, 300))
	out := buf.String()
	assert.Contains(t, out, "<title>colors</title>")
	assert.Contains(t, out, "<svg")
}

func TestSaveHTML(t *testing.T) {
	p := Scatter(objectData(), ScatterOptions{X: "gmr", Y: "mag_g_cModel"})
	path, err := SaveHTML(t.TempDir(), "colors", "colors", p, 400, 300)
	require.NoError(t, err)
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, fi.Size())
}
