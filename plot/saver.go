// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/aclements/go-gg/gg"
)

const plotPage = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>{{.Title}}</title>
    <style>
body {
  font-family: sans-serif;
  color: #222;
}
    </style>
  </head>
  <body>
    {{.SVG}}
  </body>
</html>
`

var plotTemplate = template.Must(template.New("plot").Parse(plotPage))

// WriteHTML writes a standalone HTML page with the rendered plot
// inlined as SVG.
func WriteHTML(w io.Writer, title string, p *gg.Plot, width, height int) error {
	var svg bytes.Buffer
	if err := p.WriteSVG(&svg, width, height); err != nil {
		return fmt.Errorf("plot: rendering SVG: %w", err)
	}
	return plotTemplate.Execute(w, struct {
		Title string
		SVG   template.HTML
	}{title, template.HTML(svg.String())})
}

// SaveHTML writes the page to <dir>/<name>.html and returns the
// written path.
func SaveHTML(dir, name, title string, p *gg.Plot, width, height int) (string, error) {
	path := filepath.Join(dir, name+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := WriteHTML(f, title, p, width, height); err != nil {
		return "", err
	}
	return path, nil
}
