// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package butler

import (
	"fmt"
	"os"

	"github.com/astrogo/fitsio"

	"github.com/mcanela/starkit/catalog"
	"github.com/mcanela/starkit/display"
)

// CalExp is a handle on one calibrated exposure. Image and source
// data load on first use and are cached on the handle.
type CalExp struct {
	repo *Repo
	id   DataID

	img *display.Grid
	psf *GaussianPSF
}

// ID returns the exposure identifier.
func (c *CalExp) ID() DataID { return c.id }

// Image reads the exposure raster from the FITS primary HDU.
func (c *CalExp) Image() (*display.Grid, error) {
	if c.img != nil {
		return c.img, nil
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c.img, nil
}

// Bounds returns the exposure extent as (x0, y0, width, height).
func (c *CalExp) Bounds() (x0, y0, w, h int, err error) {
	img, err := c.Image()
	if err != nil {
		return 0, 0, 0, 0, err
	}
	x0, y0, w, h = img.Bounds()
	return
}

// Sources reads the exposure's source table sidecar.
func (c *CalExp) Sources() (*catalog.Data, error) {
	f, err := os.Open(c.repo.sourcesPath(c.id))
	if err != nil {
		return nil, fmt.Errorf("butler: sources for %s: %w", c.id, err)
	}
	defer f.Close()
	return catalog.FromCSV(f)
}

// PSF returns the exposure's point-spread model, a constant Gaussian
// whose width comes from the PSF_SIG header card. Exposures written
// without the card have no PSF.
func (c *CalExp) PSF() (*GaussianPSF, error) {
	if c.img == nil {
		if err := c.load(); err != nil {
			return nil, err
		}
	}
	if c.psf == nil {
		return nil, fmt.Errorf("butler: exposure %s carries no PSF_SIG", c.id)
	}
	return c.psf, nil
}

func (c *CalExp) load() error {
	f, err := os.Open(c.repo.imagePath(c.id))
	if err != nil {
		return fmt.Errorf("butler: reading %s: %w", c.id, err)
	}
	defer f.Close()

	fits, err := fitsio.Open(f)
	if err != nil {
		return fmt.Errorf("butler: opening FITS for %s: %w", c.id, err)
	}
	defer fits.Close()

	hdu, ok := fits.HDU(0).(fitsio.Image)
	if !ok {
		return fmt.Errorf("butler: %s: primary HDU is not an image", c.id)
	}
	hdr := hdu.Header()
	axes := hdr.Axes()
	if len(axes) != 2 {
		return fmt.Errorf("butler: %s: expected 2 image axes, got %d", c.id, len(axes))
	}
	w, h := axes[0], axes[1]

	pix := make([]float32, w*h)
	if err := hdu.Read(&pix); err != nil {
		return fmt.Errorf("butler: reading image for %s: %w", c.id, err)
	}
	if len(pix) != w*h {
		return fmt.Errorf("butler: %s: %d samples for %dx%d image", c.id, len(pix), w, h)
	}
	c.img = &display.Grid{W: w, H: h, Pix: pix}

	if card := hdr.Get("PSF_SIG"); card != nil {
		if sigma, ok := cardFloat(card.Value); ok {
			c.psf = &GaussianPSF{Sigma: sigma}
		}
	}
	return nil
}

func cardFloat(v interface{}) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

// GaussianPSF is a spatially constant Gaussian point-spread model.
type GaussianPSF struct {
	Sigma float64
}

// SigmaAt returns the PSF width at a pixel. A constant model ignores
// the position.
func (p *GaussianPSF) SigmaAt(x, y int) float64 { return p.Sigma }
