// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/spf13/cobra"

	"github.com/mcanela/starkit/catalog"
	"github.com/mcanela/starkit/tap"
)

var (
	queryService   string
	queryText      string
	queryFile      string
	queryOut       string
	queryReduce    float64
	queryCone      []float64
	queryPointLike bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "run an ADQL query against a TAP service",
	Long: `Run an ADQL query against a TAP service and print the result.

The query text comes from --query, from --query-file, or from a cone
search built with --cone RA,DEC,RADIUS. Results print as an aligned
table, or as CSV with --out.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryService, "service", "", "TAP service `name` or URL")
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "ADQL query text")
	queryCmd.Flags().StringVar(&queryFile, "query-file", "", "read the ADQL query from `file`")
	queryCmd.Flags().StringVarP(&queryOut, "out", "o", "", "write CSV to `file` instead of printing")
	queryCmd.Flags().Float64Var(&queryReduce, "reduce", 1.0, "keep a random `fraction` of the rows")
	queryCmd.Flags().Float64SliceVar(&queryCone, "cone", nil, "object cone search: `ra,dec,radius` in degrees")
	queryCmd.Flags().BoolVar(&queryPointLike, "points-only", false, "with --cone, keep only point-like objects")
	rootCmd.AddCommand(queryCmd)
}

func buildQuery() (tap.Query, error) {
	set := 0
	for _, ok := range []bool{queryText != "", queryFile != "", len(queryCone) > 0} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of --query, --query-file or --cone must be given")
	}
	switch {
	case queryText != "":
		return tap.BasicQuery(queryText), nil
	case queryFile != "":
		raw, err := os.ReadFile(queryFile)
		if err != nil {
			return nil, err
		}
		return tap.BasicQuery(strings.TrimSpace(string(raw))), nil
	default:
		if len(queryCone) != 3 {
			return nil, fmt.Errorf("--cone wants ra,dec,radius; got %d values", len(queryCone))
		}
		return tap.ObjectSearchQuery{RA: queryCone[0], Dec: queryCone[1], Radius: queryCone[2]}, nil
	}
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	url, err := cfg.serviceURL(queryService)
	if err != nil {
		return err
	}
	q, err := buildQuery()
	if err != nil {
		return err
	}

	client := tap.NewClient(url, tap.WithLogger(logger))
	client.SetQuery(q)
	data, err := client.Fetch(cmd.Context())
	if err != nil {
		return err
	}

	if queryPointLike && data.Column("shape_type") != nil {
		data, err = data.Filter("shape_type", catalog.OpEq, "point")
		if err != nil {
			return err
		}
	}
	if queryReduce != 1.0 {
		data, err = data.Reduce(queryReduce)
		if err != nil {
			return err
		}
	}

	if queryOut == "" {
		return table.Fprint(os.Stdout, data.Table())
	}
	f, err := os.Create(queryOut)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeCSV(f, data)
}

// writeCSV emits the wrapped table as CSV, one header row then the
// data rows with every cell formatted by its Go value.
func writeCSV(w io.Writer, d *catalog.Data) error {
	cw := csv.NewWriter(w)
	cols := d.Columns()
	if err := cw.Write(cols); err != nil {
		return err
	}
	vals := make([]reflect.Value, len(cols))
	for i, col := range cols {
		vals[i] = reflect.ValueOf(d.Column(col))
	}
	row := make([]string, len(cols))
	for i := 0; i < d.Len(); i++ {
		for j := range cols {
			row[j] = fmt.Sprint(vals[j].Index(i).Interface())
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
