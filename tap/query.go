// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tap

import (
	"fmt"
	"strconv"

	"github.com/aclements/go-gg/table"
)

// A Query produces the final ADQL text submitted to the service and
// optionally post-processes the returned table. Formatting is pure
// string interpolation; parameter ranges are not validated here.
type Query interface {
	// String returns the ADQL text. It must be deterministic:
	// identical parameters produce byte-identical text.
	String() string

	// PostProcess transforms the fetched table before it is
	// wrapped. Most queries return the table unchanged.
	PostProcess(t *table.Table) (*table.Table, error)
}

// BasicQuery submits its text verbatim with no post-processing.
type BasicQuery string

func (q BasicQuery) String() string { return string(q) }

func (q BasicQuery) PostProcess(t *table.Table) (*table.Table, error) { return t, nil }

// ObjectSearchQuery selects objects within a circle on the sky, with
// cModel magnitudes in the g, r and i bands. Post-processing adds the
// gmi, rmi and gmr color-index columns, remaps r_extendedness to a
// categorical shape_type column and coerces objectId to strings.
type ObjectSearchQuery struct {
	RA, Dec float64 // degrees, ICRS
	Radius  float64 // degrees
}

const objectSearchTemplate = "SELECT coord_ra, coord_dec, objectId, r_extendedness, " +
	"scisql_nanojanskyToAbMag(g_cModelFlux) AS mag_g_cModel, " +
	"scisql_nanojanskyToAbMag(r_cModelFlux) AS mag_r_cModel, " +
	"scisql_nanojanskyToAbMag(i_cModelFlux) AS mag_i_cModel " +
	"FROM dp02_dc2_catalogs.Object " +
	"WHERE CONTAINS(POINT('ICRS', coord_ra, coord_dec)," +
	"CIRCLE('ICRS', %v , %v , %v )) = 1 " +
	"AND detect_isPrimary = 1 " +
	"AND scisql_nanojanskyToAbMag(r_cModelFlux) < 27.0 " +
	"AND r_extendedness IS NOT NULL"

func (q ObjectSearchQuery) String() string {
	return fmt.Sprintf(objectSearchTemplate, q.RA, q.Dec, q.Radius)
}

func (q ObjectSearchQuery) PostProcess(t *table.Table) (*table.Table, error) {
	g, err := magColumn(t, "mag_g_cModel")
	if err != nil {
		return nil, err
	}
	r, err := magColumn(t, "mag_r_cModel")
	if err != nil {
		return nil, err
	}
	i, err := magColumn(t, "mag_i_cModel")
	if err != nil {
		return nil, err
	}
	ext, err := magColumn(t, "r_extendedness")
	if err != nil {
		return nil, err
	}

	n := t.Len()
	gmi, rmi, gmr := make([]float64, n), make([]float64, n), make([]float64, n)
	shape := make([]string, n)
	for j := 0; j < n; j++ {
		gmi[j] = g[j] - i[j]
		rmi[j] = r[j] - i[j]
		gmr[j] = g[j] - r[j]
		if ext[j] == 0 {
			shape[j] = "point"
		} else {
			shape[j] = "extended"
		}
	}

	b := table.NewBuilder(t).
		Add("gmi", gmi).
		Add("rmi", rmi).
		Add("gmr", gmr).
		Add("shape_type", shape)

	// Downstream tooling treats object identifiers as opaque labels.
	if ids := stringIDs(t.Column("objectId")); ids != nil {
		b.Add("objectId", ids)
	}
	return b.Done(), nil
}

// ForcedSourceQuery selects the psfFlux/psfDiffFlux time series of a
// single DIA object in one band, joined against visit midpoints.
type ForcedSourceQuery struct {
	DiaObjectID int64
	Band        string
}

const forcedSourceTemplate = "SELECT fsodo.coord_ra, fsodo.coord_dec, " +
	"fsodo.diaObjectId, fsodo.ccdVisitId, fsodo.band, " +
	"fsodo.psfFlux, fsodo.psfDiffFlux, " +
	"fsodo.psfDiffFluxErr, cv.expMidptMJD " +
	"FROM dp02_dc2_catalogs.ForcedSourceOnDiaObject as fsodo " +
	"JOIN dp02_dc2_catalogs.CcdVisit as cv " +
	"ON cv.ccdVisitId = fsodo.ccdVisitId " +
	"WHERE fsodo.diaObjectId = %d " +
	"AND fsodo.band = '%s'"

func (q ForcedSourceQuery) String() string {
	return fmt.Sprintf(forcedSourceTemplate, q.DiaObjectID, q.Band)
}

func (q ForcedSourceQuery) PostProcess(t *table.Table) (*table.Table, error) { return t, nil }

// VisitOverlapQuery selects the CcdVisit rows whose bounding polygon
// contains a point, within an MJD time range.
type VisitOverlapQuery struct {
	RA, Dec  float64
	MJDBegin int64
	MJDEnd   int64
}

const visitOverlapTemplate = "SELECT ra, decl, band, ccdVisitId, expMidptMJD, " +
	"llcra, llcdec, ulcra, ulcdec, urcra, urcdec, lrcra, lrcdec " +
	"FROM dp02_dc2_catalogs.CcdVisit " +
	"WHERE CONTAINS(POINT('ICRS', %v, %v), " +
	"POLYGON('ICRS', llcra, llcdec, ulcra, ulcdec, " +
	"urcra, urcdec, lrcra, lrcdec)) = 1 " +
	"AND expMidptMJD >= %d AND expMidptMJD <= %d"

func (q VisitOverlapQuery) String() string {
	return fmt.Sprintf(visitOverlapTemplate, q.RA, q.Dec, q.MJDBegin, q.MJDEnd)
}

func (q VisitOverlapQuery) PostProcess(t *table.Table) (*table.Table, error) { return t, nil }

// NearestPatchQuery selects the coadd patches closest to a point,
// nearest first.
type NearestPatchQuery struct {
	RA, Dec float64
	Limit   int
}

const nearestPatchTemplate = "SELECT coadd.lsst_tract, coadd.lsst_patch, " +
	"DISTANCE(POINT('ICRS GEOCENTER',%v,%v), " +
	"POINT('ICRS GEOCENTER',coadd.s_ra, coadd.s_dec)) as distance " +
	"FROM dp02_dc2_catalogs.CoaddPatches as coadd " +
	"ORDER BY distance LIMIT %d"

func (q NearestPatchQuery) String() string {
	limit := q.Limit
	if limit <= 0 {
		limit = 1
	}
	return fmt.Sprintf(nearestPatchTemplate, q.RA, q.Dec, limit)
}

func (q NearestPatchQuery) PostProcess(t *table.Table) (*table.Table, error) { return t, nil }

// magColumn views a numeric column as []float64. CSV coercion can
// deliver integers for columns that happen to hold round values.
func magColumn(t *table.Table, name string) ([]float64, error) {
	col := t.Column(name)
	if col == nil {
		return nil, fmt.Errorf("tap: result has no column %q", name)
	}
	switch xs := col.(type) {
	case []float64:
		return xs, nil
	case []int:
		out := make([]float64, len(xs))
		for i, x := range xs {
			out[i] = float64(x)
		}
		return out, nil
	}
	return nil, fmt.Errorf("tap: column %q is not numeric (%T)", name, col)
}

func stringIDs(col table.Slice) []string {
	switch xs := col.(type) {
	case []string:
		return xs
	case []int:
		out := make([]string, len(xs))
		for i, x := range xs {
			out[i] = strconv.Itoa(x)
		}
		return out
	case []int64:
		out := make([]string, len(xs))
		for i, x := range xs {
			out[i] = strconv.FormatInt(x, 10)
		}
		return out
	case []float64:
		out := make([]string, len(xs))
		for i, x := range xs {
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		}
		return out
	}
	return nil
}
