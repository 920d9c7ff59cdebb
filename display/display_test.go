// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package display

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(w, h int) *Grid {
	g := NewGrid(w, h)
	for i := range g.Pix {
		g.Pix[i] = float32(i)
	}
	return g
}

func TestFlipUD(t *testing.T) {
	g := ramp(3, 2)
	f := FlipUD{}.Apply(g)
	assert.Equal(t, []float32{3, 4, 5, 0, 1, 2}, f.Pix)
	// Input untouched.
	assert.Equal(t, []float32{0, 1, 2, 3, 4, 5}, g.Pix)
	// Involution.
	assert.Equal(t, g.Pix, FlipUD{}.Apply(f).Pix)
}

func TestCutout(t *testing.T) {
	g := ramp(4, 4)
	c, err := Cutout(g, 1, 1, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 6, 9, 10}, c.Pix)
	assert.Equal(t, 2, c.W)
	assert.Equal(t, 2, c.H)
}

func TestCutoutOutOfBounds(t *testing.T) {
	g := ramp(4, 4)
	for _, args := range [][4]int{
		{-1, 0, 2, 2},
		{0, 0, 5, 1},
		{3, 3, 2, 2},
		{0, 0, 0, 1},
	} {
		_, err := Cutout(g, args[0], args[1], args[2], args[3])
		assert.Error(t, err, "cutout %v should fail", args)
	}
}

func TestAsinhStretchRange(t *testing.T) {
	g := ramp(16, 16)
	s := AsinhStretch{}.Apply(g)
	for i, v := range s.Pix {
		assert.GreaterOrEqual(t, v, float32(0), "pixel %d", i)
		assert.LessOrEqual(t, v, float32(1), "pixel %d", i)
	}
	// Monotone within the clipped interval.
	assert.LessOrEqual(t, s.At(0, 8), s.At(1, 8))
}

func TestAsinhStretchFlat(t *testing.T) {
	g := NewGrid(4, 4)
	s := AsinhStretch{}.Apply(g)
	for _, v := range s.Pix {
		assert.False(t, v != v, "NaN in stretched flat grid")
	}
}

func TestRasterSize(t *testing.T) {
	g := ramp(8, 6)

	img := Raster(g, Options{Transform: Identity{}})
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())

	img = Raster(g, Options{Width: 16, Height: 12, Transform: Identity{}})
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 12, img.Bounds().Dy())
}

func TestRasterGrayscaleEnds(t *testing.T) {
	g := ramp(2, 1)
	img := Raster(g, Options{Transform: Identity{}})
	r0, g0, b0, _ := img.At(0, 0).RGBA()
	r1, _, _, _ := img.At(1, 0).RGBA()
	assert.Equal(t, r0, g0)
	assert.Equal(t, g0, b0)
	assert.Less(t, r0, r1)
}

func TestWriteHTML(t *testing.T) {
	g := ramp(4, 4)
	img := Raster(g, Options{})
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, "calexp 192350 175 i", img))
	out := buf.String()
	assert.Contains(t, out, "data:image/png;base64,")
	assert.Contains(t, out, "<title>calexp 192350 175 i</title>")
}

func TestSaveHTML(t *testing.T) {
	g := ramp(4, 4)
	img := Raster(g, Options{})
	path, err := SaveHTML(t.TempDir(), "cutout", "cutout", img)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "cutout.html"))
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, fi.Size())
}
