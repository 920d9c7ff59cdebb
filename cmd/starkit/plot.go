// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/aclements/go-gg/gg"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mcanela/starkit/catalog"
	"github.com/mcanela/starkit/plot"
)

var (
	plotInput  string
	plotKind   string
	plotX      string
	plotY      string
	plotColor  string
	plotColumn string
	plotTitle  string
	plotOut    string
	plotWidth  int
	plotHeight int
	plotOpen   string
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "plot a catalog CSV",
	Long: `Plot a previously fetched catalog, read as CSV.

--kind selects the plot: scatter, cmd (color-magnitude), hist or
series. The output format follows the --out extension: .svg or
.html. With --open CMD, CMD runs on the written file, e.g.
--open "firefox --new-window".`,
	RunE: runPlot,
}

func init() {
	plotCmd.Flags().StringVarP(&plotInput, "input", "i", "", "input CSV `file` (required)")
	plotCmd.Flags().StringVar(&plotKind, "kind", "scatter", "plot kind: scatter, cmd, hist or series")
	plotCmd.Flags().StringVarP(&plotX, "x", "x", "", "x column")
	plotCmd.Flags().StringVarP(&plotY, "y", "y", "", "y column")
	plotCmd.Flags().StringVar(&plotColor, "color", "", "color-by column")
	plotCmd.Flags().StringVar(&plotColumn, "column", "", "binned column (hist)")
	plotCmd.Flags().StringVar(&plotTitle, "title", "", "plot title")
	plotCmd.Flags().StringVarP(&plotOut, "out", "o", "", "output `file`, .svg or .html (required)")
	plotCmd.Flags().IntVar(&plotWidth, "width", 600, "plot width in pixels")
	plotCmd.Flags().IntVar(&plotHeight, "height", 400, "plot height in pixels")
	plotCmd.Flags().StringVar(&plotOpen, "open", "", "run `command` on the written file")
	plotCmd.MarkFlagRequired("input")
	plotCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(plotCmd)
}

func runPlot(cmd *cobra.Command, args []string) error {
	f, err := os.Open(plotInput)
	if err != nil {
		return err
	}
	data, err := catalog.FromCSV(f)
	f.Close()
	if err != nil {
		return err
	}

	var p *gg.Plot
	switch plotKind {
	case "scatter":
		p = plot.Scatter(data, plot.ScatterOptions{
			X: plotX, Y: plotY, Color: plotColor, Title: plotTitle,
		})
	case "cmd":
		p, err = plot.ColorMagnitude(data, plot.ScatterOptions{Title: plotTitle})
	case "hist":
		if plotColumn == "" {
			plotColumn = plotX
		}
		p, err = plot.Histogram(data, plot.HistogramOptions{Column: plotColumn, Title: plotTitle})
	case "series":
		p = plot.FluxSeries(data, plot.SeriesOptions{X: plotX, Y: plotY, By: plotColor, Title: plotTitle})
	default:
		return fmt.Errorf("unknown plot kind %q", plotKind)
	}
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(plotOut)) {
	case ".svg":
		f, err := os.Create(plotOut)
		if err != nil {
			return err
		}
		if err := plot.WriteSVG(f, p, plotWidth, plotHeight); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	case ".html":
		f, err := os.Create(plotOut)
		if err != nil {
			return err
		}
		if err := plot.WriteHTML(f, plotTitle, p, plotWidth, plotHeight); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("output %q must end in .svg or .html", plotOut)
	}
	logger.Info("wrote plot", zap.String("path", plotOut))

	if plotOpen == "" {
		return nil
	}
	words, err := shellquote.Split(plotOpen)
	if err != nil {
		return fmt.Errorf("parsing --open command: %w", err)
	}
	open := exec.Command(words[0], append(words[1:], plotOut)...)
	open.Stdout, open.Stderr = os.Stdout, os.Stderr
	return open.Run()
}
