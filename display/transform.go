// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package display

import (
	"math"

	"github.com/aclements/go-moremath/stats"
)

// A Transform rewrites a raster before rendering. Transforms return
// a new grid and leave the input untouched.
type Transform interface {
	Apply(g *Grid) *Grid
}

// Identity returns the input grid unchanged.
type Identity struct{}

func (Identity) Apply(g *Grid) *Grid { return g }

// FlipUD flips the raster vertically. Exposures index rows from the
// bottom; screen images index from the top.
type FlipUD struct{}

func (FlipUD) Apply(g *Grid) *Grid {
	out := NewGrid(g.W, g.H)
	for y := 0; y < g.H; y++ {
		copy(out.Pix[(g.H-1-y)*g.W:(g.H-y)*g.W], g.Pix[y*g.W:(y+1)*g.W])
	}
	return out
}

// AsinhStretch reduces the dynamic range of a raster: samples are
// clipped to a central quantile interval and mapped through an asinh
// stretch onto [0, 1].
type AsinhStretch struct {
	// LoQ and HiQ bound the clipping interval. Zero values mean
	// the 0.025 and 0.975 quantiles.
	LoQ, HiQ float64

	// Softening is the asinh softening parameter a; zero means 0.1.
	Softening float64
}

func (t AsinhStretch) Apply(g *Grid) *Grid {
	lo, hi := t.LoQ, t.HiQ
	if lo == 0 && hi == 0 {
		lo, hi = 0.025, 0.975
	}
	a := t.Softening
	if a == 0 {
		a = 0.1
	}

	xs := make([]float64, len(g.Pix))
	for i, v := range g.Pix {
		xs[i] = float64(v)
	}
	s := stats.Sample{Xs: xs}
	vlo, vhi := s.Quantile(lo), s.Quantile(hi)
	if vhi <= vlo {
		vhi = vlo + 1
	}

	// asinh(x/a)/asinh(1/a) maps [0, 1] onto [0, 1] with the low
	// end expanded.
	norm := math.Asinh(1 / a)
	out := NewGrid(g.W, g.H)
	for i, v := range g.Pix {
		x := (float64(v) - vlo) / (vhi - vlo)
		if x < 0 {
			x = 0
		} else if x > 1 {
			x = 1
		}
		out.Pix[i] = float32(math.Asinh(x/a) / norm)
	}
	return out
}

// Pipeline applies its transforms in order.
type Pipeline []Transform

func (p Pipeline) Apply(g *Grid) *Grid {
	for _, t := range p {
		g = t.Apply(g)
	}
	return g
}

// Standard is the usual preparation for on-screen display: dynamic
// range reduction followed by a vertical flip.
func Standard() Pipeline {
	return Pipeline{AsinhStretch{}, FlipUD{}}
}
