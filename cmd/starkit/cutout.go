// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mcanela/starkit/butler"
	"github.com/mcanela/starkit/display"
)

var (
	cutoutRoot       string
	cutoutCollection string
	cutoutVisit      int
	cutoutDetector   int
	cutoutBand       string
	cutoutRegion     []int
	cutoutOut        string
	cutoutSize       []int
	cutoutRaw        bool
	cutoutColormap   string
)

var cutoutCmd = &cobra.Command{
	Use:   "cutout",
	Short: "render a calibrated exposure, or a cutout of one",
	Long: `Render a calibrated exposure from a butler repository.

The exposure is keyed by --visit, --detector and --band. With
--region X,Y,W,H only that subregion renders. The output format
follows the --out extension: .png or .html.`,
	RunE: runCutout,
}

func init() {
	cutoutCmd.Flags().StringVar(&cutoutRoot, "root", "", "butler repository `name` or path (required)")
	cutoutCmd.Flags().StringVar(&cutoutCollection, "collection", "", "collection within the repository (required)")
	cutoutCmd.Flags().IntVar(&cutoutVisit, "visit", 0, "visit identifier (required)")
	cutoutCmd.Flags().IntVar(&cutoutDetector, "detector", 0, "detector identifier (required)")
	cutoutCmd.Flags().StringVar(&cutoutBand, "band", "", "band label (required)")
	cutoutCmd.Flags().IntSliceVar(&cutoutRegion, "region", nil, "cutout region `x,y,w,h` in pixels")
	cutoutCmd.Flags().StringVarP(&cutoutOut, "out", "o", "", "output `file`, .png or .html (required)")
	cutoutCmd.Flags().IntSliceVar(&cutoutSize, "size", nil, "output size `w,h` in pixels")
	cutoutCmd.Flags().BoolVar(&cutoutRaw, "raw", false, "skip the stretch-and-flip preparation")
	cutoutCmd.Flags().StringVar(&cutoutColormap, "colormap", "greys", "colormap: greys or viridis")
	for _, f := range []string{"root", "collection", "visit", "detector", "band", "out"} {
		cutoutCmd.MarkFlagRequired(f)
	}
	rootCmd.AddCommand(cutoutCmd)
}

func runCutout(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	band, err := butler.ParseBand(cutoutBand)
	if err != nil {
		return err
	}
	id := butler.DataID{Visit: cutoutVisit, Detector: cutoutDetector, Band: band}

	repo, err := butler.Open(cfg.butlerRoot(cutoutRoot), cutoutCollection)
	if err != nil {
		return err
	}
	exp, err := repo.CalExp(id)
	if err != nil {
		return err
	}
	logger.Info("loaded exposure", zap.String("id", id.String()))

	grid, err := exp.Image()
	if err != nil {
		return err
	}
	if cutoutRegion != nil {
		if len(cutoutRegion) != 4 {
			return fmt.Errorf("--region wants x,y,w,h; got %d values", len(cutoutRegion))
		}
		grid, err = display.Cutout(grid, cutoutRegion[0], cutoutRegion[1], cutoutRegion[2], cutoutRegion[3])
		if err != nil {
			return err
		}
	}

	opts := display.Options{}
	switch cutoutColormap {
	case "greys":
		opts.Colormap = display.Greys
	case "viridis":
		opts.Colormap = display.Viridis
	default:
		return fmt.Errorf("unknown colormap %q", cutoutColormap)
	}
	if cutoutRaw {
		opts.Transform = display.Identity{}
	}
	if cutoutSize != nil {
		if len(cutoutSize) != 2 {
			return fmt.Errorf("--size wants w,h; got %d values", len(cutoutSize))
		}
		opts.Width, opts.Height = cutoutSize[0], cutoutSize[1]
	}
	img := display.Raster(grid, opts)

	switch strings.ToLower(filepath.Ext(cutoutOut)) {
	case ".png":
		f, err := os.Create(cutoutOut)
		if err != nil {
			return err
		}
		defer f.Close()
		return display.WritePNG(f, img)
	case ".html":
		f, err := os.Create(cutoutOut)
		if err != nil {
			return err
		}
		defer f.Close()
		return display.WriteHTML(f, "calexp "+id.String(), img)
	}
	return fmt.Errorf("output %q must end in .png or .html", cutoutOut)
}
