// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package butler reads calibrated exposures and their source tables
// from a file-backed data repository. Exposures are keyed by a
// (visit, detector, band) triple and stored as FITS images with CSV
// source sidecars.
package butler

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Band is a photometric filter label.
type Band string

const (
	BandU Band = "u"
	BandG Band = "g"
	BandR Band = "r"
	BandI Band = "i"
	BandZ Band = "z"
	BandY Band = "y"
)

// ParseBand validates a band label.
func ParseBand(s string) (Band, error) {
	switch Band(s) {
	case BandU, BandG, BandR, BandI, BandZ, BandY:
		return Band(s), nil
	}
	return "", fmt.Errorf("butler: unknown band %q", s)
}

// DataID identifies one calibrated exposure.
type DataID struct {
	Visit    int  `json:"visit"`
	Detector int  `json:"detector"`
	Band     Band `json:"band"`
}

func (id DataID) String() string {
	return fmt.Sprintf("visit: %d detector: %d band: %s", id.Visit, id.Detector, id.Band)
}

// stem is the per-exposure file name, shared by the image and its
// sidecars.
func (id DataID) stem() string {
	return fmt.Sprintf("v%08d-d%03d-%s", id.Visit, id.Detector, id.Band)
}

// NotFoundError reports a lookup of an exposure the repository does
// not hold.
type NotFoundError struct {
	ID DataID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("butler: unrecognized exposure: %s", e.ID)
}

// Config is the repository description stored in butler.yaml at the
// repository root.
type Config struct {
	Name        string   `yaml:"name"`
	Collections []string `yaml:"collections"`
}

// Repo is an open repository bound to one collection.
type Repo struct {
	root       string
	collection string
	cfg        Config
}

// Open reads the repository config under root and binds the given
// collection. Opening a collection the config does not list is an
// error.
func Open(root, collection string) (*Repo, error) {
	raw, err := os.ReadFile(filepath.Join(root, "butler.yaml"))
	if err != nil {
		return nil, fmt.Errorf("butler: reading repo config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("butler: parsing repo config: %w", err)
	}

	ok := false
	for _, c := range cfg.Collections {
		if c == collection {
			ok = true
			break
		}
	}
	if !ok {
		return nil, fmt.Errorf("butler: collection %q not in repository %q", collection, cfg.Name)
	}
	return &Repo{root: root, collection: collection, cfg: cfg}, nil
}

// Name returns the repository name from its config.
func (r *Repo) Name() string { return r.cfg.Name }

// Collection returns the bound collection.
func (r *Repo) Collection() string { return r.collection }

func (r *Repo) imagePath(id DataID) string {
	return filepath.Join(r.root, r.collection, "calexp", id.stem()+".fits")
}

func (r *Repo) sourcesPath(id DataID) string {
	return filepath.Join(r.root, r.collection, "sourceTable", id.stem()+".csv")
}

// Exists reports whether the collection holds the exposure.
func (r *Repo) Exists(id DataID) bool {
	_, err := os.Stat(r.imagePath(id))
	return err == nil
}

// CalExp returns a handle for the exposure. The presence check runs
// here; image and source data load lazily from the handle.
func (r *Repo) CalExp(id DataID) (*CalExp, error) {
	if !r.Exists(id) {
		return nil, &NotFoundError{ID: id}
	}
	return &CalExp{repo: r, id: id}, nil
}
