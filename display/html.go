// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package display

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

const imagePage = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>{{.Title}}</title>
    <style>
body {
  font-family: sans-serif;
  color: #222;
  text-align: center;
}
img {
  image-rendering: pixelated;
  border: 1px solid #ddd;
}
    </style>
  </head>
  <body>
    <h1>{{.Title}}</h1>
    <img src="data:image/png;base64,{{.PNG}}" alt="{{.Title}}" />
  </body>
</html>
`

var imageTemplate = template.Must(template.New("image").Parse(imagePage))

// WriteHTML writes a standalone HTML page with the image embedded as
// a base64 PNG data URI.
func WriteHTML(w io.Writer, title string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("display: encoding PNG: %w", err)
	}
	return imageTemplate.Execute(w, struct {
		Title string
		PNG   string
	}{title, base64.StdEncoding.EncodeToString(buf.Bytes())})
}

// SaveHTML writes the page to <dir>/<name>.html and returns the
// written path.
func SaveHTML(dir, name, title string, img image.Image) (string, error) {
	path := filepath.Join(dir, name+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := WriteHTML(f, title, img); err != nil {
		return "", err
	}
	return path, nil
}

// WritePNG writes the image as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
