// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command starkit explores astronomical survey data from the shell:
// it runs catalog queries against a TAP service, cuts calibrated
// exposures out of a butler repository and renders both to static
// artifacts.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "starkit:", err)
		os.Exit(1)
	}
}
