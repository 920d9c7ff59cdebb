// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catalog

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"
)

// ErrEmptyColumn reports a histogram over a column with no values.
var ErrEmptyColumn = errors.New("catalog: histogram of empty column")

// Histogram bins the named numeric column with the Freedman–Diaconis
// rule, falling back to the Sturges rule when the IQR is degenerate.
// It returns len(counts)+1 bin edges. Bins are open on the right
// except for the last one, which is closed on both sides.
func (d *Data) Histogram(column string) (edges []float64, counts []int, err error) {
	col := d.t.Column(column)
	if col == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrNoColumn, column)
	}
	xs, err := floatColumn(col)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog: column %q: %w", column, err)
	}
	if len(xs) == 0 {
		return nil, nil, fmt.Errorf("%w: %q", ErrEmptyColumn, column)
	}

	s := stats.Sample{Xs: xs}
	lo, hi := s.Bounds()
	if lo == hi {
		// All values identical. One unit-wide bin around them.
		return []float64{lo - 0.5, lo + 0.5}, []int{len(xs)}, nil
	}

	n := len(xs)
	width := 2 * s.IQR() / math.Cbrt(float64(n))
	var nbins int
	if width > 0 {
		nbins = int(math.Ceil((hi - lo) / width))
	} else {
		nbins = int(math.Ceil(math.Log2(float64(n)))) + 1
	}
	if nbins < 1 {
		nbins = 1
	}

	edges = make([]float64, nbins+1)
	for i := range edges {
		edges[i] = lo + (hi-lo)*float64(i)/float64(nbins)
	}
	edges[nbins] = hi

	counts = make([]int, nbins)
	binw := (hi - lo) / float64(nbins)
	for _, x := range xs {
		i := int((x - lo) / binw)
		if i >= nbins {
			i = nbins - 1
		}
		counts[i]++
	}
	return edges, counts, nil
}
