// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package catalog wraps tabular catalog results in a small, chainable
// façade. Every transforming operation returns a new Data over a new
// table; the receiver is never mutated.
package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"reflect"

	"github.com/aclements/go-gg/table"
)

var (
	// ErrBadOperator reports a filter operator outside ==, > and <.
	ErrBadOperator = errors.New("catalog: unsupported filter operator")

	// ErrNoColumn reports a column name the table does not have.
	ErrNoColumn = errors.New("catalog: no such column")

	// ErrBadFraction reports a sampling fraction outside [0, 1].
	ErrBadFraction = errors.New("catalog: fraction must be in [0, 1]")
)

// Op is a filter comparison operator.
type Op string

const (
	OpEq Op = "=="
	OpGt Op = ">"
	OpLt Op = "<"
)

// Data owns a fully materialized table of rows × named columns. The
// zero value is not useful; use New or FromCSV.
type Data struct {
	t *table.Table
}

// New returns a Data wrapping t. The table is not copied; callers
// must not modify it afterwards.
func New(t *table.Table) *Data {
	if t == nil {
		t = new(table.Table)
	}
	return &Data{t: t}
}

// FromCSV reads a CSV stream with a header row. Columns whose values
// all parse as numbers are coerced to numeric slices.
func FromCSV(r io.Reader) (*Data, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("catalog: reading CSV: %w", err)
	}
	if len(rows) == 0 {
		return New(nil), nil
	}
	return New(table.TableFromStrings(rows[0], rows[1:], true)), nil
}

// Table returns the wrapped table.
func (d *Data) Table() *table.Table { return d.t }

// Len returns the number of rows.
func (d *Data) Len() int { return d.t.Len() }

// Columns returns the column names in table order.
func (d *Data) Columns() []string { return d.t.Columns() }

// Column returns the named column slice, or nil if the table has no
// such column.
func (d *Data) Column(name string) table.Slice { return d.t.Column(name) }

// Filter returns a new Data holding only the rows where the named
// column compares true against value under op. Equality works on
// numeric and string columns; ordering only on numeric ones.
func (d *Data) Filter(column string, op Op, value interface{}) (*Data, error) {
	col := d.t.Column(column)
	if col == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoColumn, column)
	}
	switch op {
	case OpEq, OpGt, OpLt:
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadOperator, op)
	}

	var keep []int
	switch xs := col.(type) {
	case []string:
		if op != OpEq {
			return nil, fmt.Errorf("%w: %q on string column %q", ErrBadOperator, op, column)
		}
		want, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("catalog: filtering string column %q against %T", column, value)
		}
		for i, x := range xs {
			if x == want {
				keep = append(keep, i)
			}
		}
	default:
		want, err := asFloat(value)
		if err != nil {
			return nil, fmt.Errorf("catalog: filtering column %q: %w", column, err)
		}
		fs, err := floatColumn(col)
		if err != nil {
			return nil, fmt.Errorf("catalog: column %q: %w", column, err)
		}
		for i, x := range fs {
			var ok bool
			switch op {
			case OpEq:
				ok = x == want
			case OpGt:
				ok = x > want
			case OpLt:
				ok = x < want
			}
			if ok {
				keep = append(keep, i)
			}
		}
	}
	return d.selectRows(keep), nil
}

// Reduce returns a new Data holding a uniformly random subset of
// round(frac*N) rows. frac of 1 returns the receiver itself; frac of
// 0 returns an empty Data.
func (d *Data) Reduce(frac float64) (*Data, error) {
	return d.reduce(frac, rand.Int63())
}

// ReduceSeeded is Reduce with a fixed sampling seed, for reproducible
// subsets.
func (d *Data) ReduceSeeded(frac float64, seed int64) (*Data, error) {
	return d.reduce(frac, seed)
}

func (d *Data) reduce(frac float64, seed int64) (*Data, error) {
	if frac < 0 || frac > 1 {
		return nil, fmt.Errorf("%w: %v", ErrBadFraction, frac)
	}
	if frac == 1 {
		return d, nil
	}
	n := d.t.Len()
	want := int(float64(n)*frac + 0.5)
	if want > n {
		want = n
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	keep := perm[:want]
	return d.selectRows(keep), nil
}

// Mask returns a new Data holding only the rows where keep is true.
// keep must have exactly one entry per row.
func (d *Data) Mask(keep []bool) (*Data, error) {
	if len(keep) != d.t.Len() {
		return nil, fmt.Errorf("catalog: mask length %d does not match %d rows", len(keep), d.t.Len())
	}
	var idx []int
	for i, k := range keep {
		if k {
			idx = append(idx, i)
		}
	}
	return d.selectRows(idx), nil
}

// selectRows builds a new Data from the given row indexes, in order.
func (d *Data) selectRows(idx []int) *Data {
	b := new(table.Builder)
	for _, name := range d.t.Columns() {
		cv := reflect.ValueOf(d.t.Column(name))
		out := reflect.MakeSlice(cv.Type(), len(idx), len(idx))
		for i, j := range idx {
			out.Index(i).Set(cv.Index(j))
		}
		b.Add(name, out.Interface())
	}
	return New(b.Done())
}

func (d *Data) String() string {
	var buf bytes.Buffer
	table.Fprint(&buf, d.t)
	return buf.String()
}

// asFloat widens the numeric types a caller is likely to hand in.
func asFloat(v interface{}) (float64, error) {
	switch v := v.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("cannot compare against %T", v)
}

// floatColumn views a numeric column as []float64.
func floatColumn(col table.Slice) ([]float64, error) {
	switch xs := col.(type) {
	case []float64:
		return xs, nil
	case []int:
		out := make([]float64, len(xs))
		for i, x := range xs {
			out[i] = float64(x)
		}
		return out, nil
	case []int64:
		out := make([]float64, len(xs))
		for i, x := range xs {
			out[i] = float64(x)
		}
		return out, nil
	}
	return nil, fmt.Errorf("not a numeric column (%T)", col)
}
