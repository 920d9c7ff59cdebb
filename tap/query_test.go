// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tap

import (
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectSearchQueryString(t *testing.T) {
	q := ObjectSearchQuery{RA: 55.745834, Dec: -32.269167, Radius: 0.1}
	want := "SELECT coord_ra, coord_dec, objectId, r_extendedness, " +
		"scisql_nanojanskyToAbMag(g_cModelFlux) AS mag_g_cModel, " +
		"scisql_nanojanskyToAbMag(r_cModelFlux) AS mag_r_cModel, " +
		"scisql_nanojanskyToAbMag(i_cModelFlux) AS mag_i_cModel " +
		"FROM dp02_dc2_catalogs.Object " +
		"WHERE CONTAINS(POINT('ICRS', coord_ra, coord_dec)," +
		"CIRCLE('ICRS', 55.745834 , -32.269167 , 0.1 )) = 1 " +
		"AND detect_isPrimary = 1 " +
		"AND scisql_nanojanskyToAbMag(r_cModelFlux) < 27.0 " +
		"AND r_extendedness IS NOT NULL"
	assert.Equal(t, want, q.String())

	// Formatting is pure; repeated calls are byte-identical.
	for i := 0; i < 10; i++ {
		assert.Equal(t, want, q.String())
	}
}

func TestForcedSourceQueryString(t *testing.T) {
	q := ForcedSourceQuery{DiaObjectID: 1250953961339360185, Band: "i"}
	got := q.String()
	assert.Contains(t, got, "WHERE fsodo.diaObjectId = 1250953961339360185 ")
	assert.Contains(t, got, "AND fsodo.band = 'i'")
	assert.Equal(t, got, q.String())
}

func TestVisitOverlapQueryString(t *testing.T) {
	q := VisitOverlapQuery{RA: 62.0, Dec: -37.0, MJDBegin: 60250, MJDEnd: 60300}
	got := q.String()
	assert.Contains(t, got, "POINT('ICRS', 62, -37)")
	assert.Contains(t, got, "expMidptMJD >= 60250 AND expMidptMJD <= 60300")
}

func TestNearestPatchQueryString(t *testing.T) {
	q := NearestPatchQuery{RA: 55.745834, Dec: -32.269167}
	assert.Contains(t, q.String(), "LIMIT 1")
	q.Limit = 5
	assert.Contains(t, q.String(), "LIMIT 5")
}

func TestBasicQuery(t *testing.T) {
	q := BasicQuery("SELECT TOP 5 * FROM dp02_dc2_catalogs.Object")
	assert.Equal(t, "SELECT TOP 5 * FROM dp02_dc2_catalogs.Object", q.String())

	tab := new(table.Builder).Add("x", []float64{1}).Done()
	got, err := q.PostProcess(tab)
	require.NoError(t, err)
	assert.Same(t, tab, got)
}

func TestObjectSearchPostProcess(t *testing.T) {
	tab := new(table.Builder).
		Add("objectId", []int64{100, 200}).
		Add("r_extendedness", []float64{0, 1}).
		Add("mag_g_cModel", []float64{22.0, 23.5}).
		Add("mag_r_cModel", []float64{21.5, 22.5}).
		Add("mag_i_cModel", []float64{21.0, 22.0}).
		Done()

	got, err := ObjectSearchQuery{}.PostProcess(tab)
	require.NoError(t, err)

	assert.Equal(t, []float64{1.0, 1.5}, got.MustColumn("gmi"))
	assert.Equal(t, []float64{0.5, 0.5}, got.MustColumn("rmi"))
	assert.Equal(t, []float64{0.5, 1.0}, got.MustColumn("gmr"))
	assert.Equal(t, []string{"point", "extended"}, got.MustColumn("shape_type"))
	assert.Equal(t, []string{"100", "200"}, got.MustColumn("objectId"))

	// The input table is left as it was.
	assert.Equal(t, []int64{100, 200}, tab.MustColumn("objectId"))
}

func TestObjectSearchPostProcessMissingColumn(t *testing.T) {
	tab := new(table.Builder).Add("x", []float64{1}).Done()
	_, err := ObjectSearchQuery{}.PostProcess(tab)
	assert.Error(t, err)
}
