// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// config names the external services and repositories a starkit
// invocation may talk to. Everything is explicit; there is no
// implicit global setup.
type config struct {
	// Services maps a short name to a TAP service base URL.
	Services map[string]string `yaml:"services"`

	// DefaultService is the service used when --service is not
	// given.
	DefaultService string `yaml:"default_service"`

	// Butlers maps a short name to a butler repository root.
	Butlers map[string]string `yaml:"butlers"`
}

// loadConfig reads the config named by --config, falling back to
// ~/.config/starkit/config.yaml. A missing fallback is an empty
// config, not an error.
func loadConfig() (*config, error) {
	path := flagConfig
	fallback := false
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return &config{}, nil
		}
		path = filepath.Join(home, ".config", "starkit", "config.yaml")
		fallback = true
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if fallback && os.IsNotExist(err) {
			return &config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// serviceURL resolves a --service flag value: a configured name, the
// configured default, or a literal URL.
func (c *config) serviceURL(name string) (string, error) {
	if name == "" {
		name = c.DefaultService
	}
	if name == "" {
		return "", fmt.Errorf("no service named and no default_service configured")
	}
	if url, ok := c.Services[name]; ok {
		return url, nil
	}
	// Not a configured name; treat it as a URL.
	return name, nil
}

// butlerRoot resolves a --root flag value: a configured name or a
// literal path.
func (c *config) butlerRoot(name string) string {
	if root, ok := c.Butlers[name]; ok {
		return root
	}
	return name
}
