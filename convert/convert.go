// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package convert holds small conversions shared by exploration
// notebooks: identifier formatting, PSF size math and coordinate to
// patch lookup.
package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mcanela/starkit/tap"
)

// IDsToString formats object identifiers as an ADQL IN list:
// "(id, id, ...)".
func IDsToString(ids []int64) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}
	b.WriteByte(')')
	return b.String()
}

// DataIDToString encodes a data identifier dictionary as JSON. It
// works on any string-keyed map, not just data ids.
func DataIDToString(id map[string]interface{}) (string, error) {
	raw, err := json.Marshal(id)
	if err != nil {
		return "", fmt.Errorf("convert: encoding data id: %w", err)
	}
	return string(raw), nil
}

// SigmaToFWHM converts a Gaussian width to full width at half
// maximum.
func SigmaToFWHM(sigma float64) float64 {
	return sigma * 2 * math.Sqrt(2*math.Ln2)
}

// PSF is a point-spread model evaluated per pixel. butler.GaussianPSF
// satisfies it.
type PSF interface {
	SigmaAt(x, y int) float64
}

// PSFSize is the PSF width at one pixel, in pixels.
type PSFSize struct {
	Sigma float64
	FWHM  float64
}

// PSFSizeAt evaluates the PSF size at pixel (x, y) of an image whose
// extent is (x0, y0, w, h). Coordinates outside the image are an
// error.
func PSFSizeAt(psf PSF, x0, y0, w, h, x, y int) (PSFSize, error) {
	if x < x0 || y < y0 || x >= x0+w || y >= y0+h {
		return PSFSize{}, fmt.Errorf("convert: pixel (%d, %d) outside image bounds (%d, %d, %d, %d)", x, y, x0, y0, w, h)
	}
	sigma := psf.SigmaAt(x, y)
	return PSFSize{Sigma: sigma, FWHM: SigmaToFWHM(sigma)}, nil
}

// Patch identifies the coadd patch nearest to a coordinate.
type Patch struct {
	Tract    int64
	Patch    int64
	Distance float64 // degrees from the query point to the patch center
}

// Patches are 4100 pixels of 0.2 arcsec on a side; half of that in
// degrees bounds how far a contained point can be from the center.
const patchHalfSide = 4100 * 0.2 / 3600 / 2

// NearestPatch looks up the coadd patch closest to (ra, dec) through
// the given TAP client. No patch at all, or a nearest patch farther
// away than a patch diagonal, is an error carrying the coordinates; a
// distance between the inscribed and circumscribed radius only logs a
// warning, since the point may still fall inside the patch.
func NearestPatch(ctx context.Context, c *tap.Client, ra, dec float64, log *zap.Logger) (Patch, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c.SetQuery(tap.NearestPatchQuery{RA: ra, Dec: dec, Limit: 1})
	data, err := c.Fetch(ctx)
	if err != nil {
		return Patch{}, err
	}
	if data.Len() == 0 {
		return Patch{}, fmt.Errorf("convert: no patch found for RA %v, Dec %v", ra, dec)
	}

	tract, err := int64At(data.Column("lsst_tract"), 0)
	if err != nil {
		return Patch{}, fmt.Errorf("convert: lsst_tract: %w", err)
	}
	patch, err := int64At(data.Column("lsst_patch"), 0)
	if err != nil {
		return Patch{}, fmt.Errorf("convert: lsst_patch: %w", err)
	}
	dist, err := floatAt(data.Column("distance"), 0)
	if err != nil {
		return Patch{}, fmt.Errorf("convert: distance: %w", err)
	}

	// Maximum in-patch distances: along RA the patch width grows by
	// the cos(dec) term; the diagonal bounds containment outright.
	maxRA := patchHalfSide / math.Cos(dec*math.Pi/180)
	maxDist := math.Sqrt(patchHalfSide*patchHalfSide + maxRA*maxRA)
	if dist > maxDist {
		return Patch{}, fmt.Errorf("convert: nearest patch is %v deg from RA %v, Dec %v, outside the patch boundary", dist, ra, dec)
	}
	if dist >= maxRA {
		log.Warn("large distance to nearest patch",
			zap.Float64("distance", dist),
			zap.Float64("ra", ra),
			zap.Float64("dec", dec))
	}
	return Patch{Tract: tract, Patch: patch, Distance: dist}, nil
}

func int64At(col interface{}, i int) (int64, error) {
	switch xs := col.(type) {
	case []int:
		return int64(xs[i]), nil
	case []int64:
		return xs[i], nil
	case []float64:
		return int64(xs[i]), nil
	}
	return 0, fmt.Errorf("not a numeric column (%T)", col)
}

func floatAt(col interface{}, i int) (float64, error) {
	switch xs := col.(type) {
	case []float64:
		return xs[i], nil
	case []int:
		return float64(xs[i]), nil
	}
	return 0, fmt.Errorf("not a numeric column (%T)", col)
}
