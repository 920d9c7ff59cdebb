// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package display

import (
	"image"
	"image/color"

	"github.com/aclements/go-gg/palette"
	xdraw "golang.org/x/image/draw"
)

// Well-known colormaps. Greys matches the usual astronomical
// grayscale; Viridis is a perceptually uniform gradient.
var (
	Greys palette.Continuous = palette.RGBGradient{
		Colors: []color.RGBA{
			{0x00, 0x00, 0x00, 0xff},
			{0xff, 0xff, 0xff, 0xff},
		},
	}

	Viridis palette.Continuous = palette.RGBGradient{
		Colors: []color.RGBA{
			{0x44, 0x01, 0x54, 0xff},
			{0x3b, 0x52, 0x8b, 0xff},
			{0x21, 0x91, 0x8c, 0xff},
			{0x5e, 0xc9, 0x62, 0xff},
			{0xfd, 0xe7, 0x25, 0xff},
		},
	}
)

// Options configures Raster. The zero value renders at the grid's
// own size, in grayscale, with the standard stretch-and-flip
// preparation.
type Options struct {
	// Colormap maps normalized samples to colors. Nil means Greys.
	Colormap palette.Continuous

	// Width and Height give the output size in pixels. Zero means
	// the grid's own size.
	Width, Height int

	// Transform prepares the raster before coloring. Nil means
	// Standard(); use Identity{} to render raw samples.
	Transform Transform
}

// Raster renders a grid to an image. Samples are normalized to the
// grid's min/max after the transform runs, then mapped through the
// colormap. Resampling to the requested size uses bilinear
// interpolation.
func Raster(g *Grid, opts Options) image.Image {
	tr := opts.Transform
	if tr == nil {
		tr = Standard()
	}
	g = tr.Apply(g)

	cmap := opts.Colormap
	if cmap == nil {
		cmap = Greys
	}

	lo, hi := g.Pix[0], g.Pix[0]
	for _, v := range g.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	scale := float64(hi - lo)
	if scale == 0 {
		scale = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			v := float64(g.At(x, y)-lo) / scale
			img.Set(x, y, cmap.Map(v))
		}
	}

	w, h := opts.Width, opts.Height
	if (w == 0 || w == g.W) && (h == 0 || h == g.H) {
		return img
	}
	if w == 0 {
		w = g.W
	}
	if h == 0 {
		h = g.H
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}
