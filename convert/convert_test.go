// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package convert

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcanela/starkit/tap"
)

func TestIDsToString(t *testing.T) {
	assert.Equal(t, "(1, 2, 3)", IDsToString([]int64{1, 2, 3}))
	assert.Equal(t, "(1250953961339360185)", IDsToString([]int64{1250953961339360185}))
	assert.Equal(t, "()", IDsToString(nil))
}

func TestDataIDToString(t *testing.T) {
	got, err := DataIDToString(map[string]interface{}{"visit": 192350, "band": "i"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"visit": 192350, "band": "i"}`, got)
}

func TestSigmaToFWHM(t *testing.T) {
	assert.InDelta(t, 2.3548, SigmaToFWHM(1.0), 1e-4)
	assert.InDelta(t, 4.7096, SigmaToFWHM(2.0), 1e-4)
}

type constPSF float64

func (p constPSF) SigmaAt(x, y int) float64 { return float64(p) }

func TestPSFSizeAt(t *testing.T) {
	got, err := PSFSizeAt(constPSF(2.0), 0, 0, 100, 50, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.Sigma)
	assert.InDelta(t, 4.7096, got.FWHM, 1e-4)

	_, err = PSFSizeAt(constPSF(2.0), 0, 0, 100, 50, 100, 20)
	assert.Error(t, err)
	_, err = PSFSizeAt(constPSF(2.0), 0, 0, 100, 50, -1, 0)
	assert.Error(t, err)
}

// patchServer serves a completed UWS job whose result is one patch
// row at the given distance.
func patchServer(t *testing.T, distance float64, rows int) *tap.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /tap/async", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/tap/async/1")
		w.WriteHeader(http.StatusSeeOther)
	})
	mux.HandleFunc("GET /tap/async/1/phase", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "COMPLETED")
	})
	mux.HandleFunc("GET /tap/async/1/results/result", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "lsst_tract,lsst_patch,distance\n")
		for i := 0; i < rows; i++ {
			fmt.Fprintf(w, "4431,17,%v\n", distance)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return tap.NewClient(srv.URL+"/tap", tap.WithPollInterval(time.Millisecond))
}

func TestNearestPatch(t *testing.T) {
	c := patchServer(t, 0.001, 1)
	got, err := NearestPatch(context.Background(), c, 55.745834, -32.269167, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4431), got.Tract)
	assert.Equal(t, int64(17), got.Patch)
	assert.Equal(t, 0.001, got.Distance)
}

func TestNearestPatchEmpty(t *testing.T) {
	c := patchServer(t, 0, 0)
	_, err := NearestPatch(context.Background(), c, 55.7, -32.2, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "55.7")
}

func TestNearestPatchTooFar(t *testing.T) {
	// Half a degree is far outside any patch diagonal.
	c := patchServer(t, 0.5, 1)
	_, err := NearestPatch(context.Background(), c, 55.7, -32.2, nil)
	assert.Error(t, err)
}
