// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tap

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mcanela/starkit/catalog"
)

// FetchAll runs several queries against c's service with bounded
// concurrency and returns the results in query order. The first
// failure cancels the remaining fetches.
func FetchAll(ctx context.Context, c *Client, queries ...Query) ([]*catalog.Data, error) {
	results := make([]*catalog.Data, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(2 * runtime.GOMAXPROCS(-1))
	for i, q := range queries {
		g.Go(func() error {
			// Each worker gets its own client so the shared
			// one's stored query is left alone.
			worker := &Client{
				base:  c.base,
				hc:    c.hc,
				log:   c.log,
				poll:  c.poll,
				query: q,
			}
			data, err := worker.Fetch(ctx)
			if err != nil {
				return err
			}
			results[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
