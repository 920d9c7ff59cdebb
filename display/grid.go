// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package display renders exposure rasters to images and HTML pages.
// The heavy lifting (quantiles, color interpolation, resampling) is
// delegated to go-moremath, go-gg/palette and x/image.
package display

import "fmt"

// Grid is a single-plane float raster, row-major with (0, 0) in the
// lower-left corner, as exposures are stored.
type Grid struct {
	W, H int
	Pix  []float32
}

// NewGrid returns a zero-filled w×h grid.
func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, Pix: make([]float32, w*h)}
}

// At returns the sample at (x, y). No bounds check; callers index
// within W×H.
func (g *Grid) At(x, y int) float32 { return g.Pix[y*g.W+x] }

// Set stores the sample at (x, y).
func (g *Grid) Set(x, y int, v float32) { g.Pix[y*g.W+x] = v }

// Bounds returns the grid extent as (x0, y0, width, height).
func (g *Grid) Bounds() (x0, y0, w, h int) { return 0, 0, g.W, g.H }

// Cutout returns a copy of the w×h subregion with lower-left corner
// at (x, y). The region must lie entirely inside the grid.
func Cutout(g *Grid, x, y, w, h int) (*Grid, error) {
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > g.W || y+h > g.H {
		return nil, fmt.Errorf("display: cutout %dx%d at (%d,%d) outside %dx%d grid", w, h, x, y, g.W, g.H)
	}
	out := NewGrid(w, h)
	for row := 0; row < h; row++ {
		copy(out.Pix[row*w:(row+1)*w], g.Pix[(y+row)*g.W+x:(y+row)*g.W+x+w])
	}
	return out, nil
}
