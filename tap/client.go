// Copyright 2025 The StarKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tap is a client for UWS-style asynchronous TAP (Table
// Access Protocol) catalog services. A Client submits one query as a
// remote job, blocks while polling the job phase, and wraps the
// completed result in a catalog.Data.
package tap

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aclements/go-gg/table"
	"go.uber.org/zap"

	"github.com/mcanela/starkit/catalog"
)

// Job phases defined by UWS. The client only distinguishes terminal
// phases from everything else.
const (
	PhaseCompleted = "COMPLETED"
	PhaseError     = "ERROR"
	PhaseAborted   = "ABORTED"
)

// ErrNoQuery reports a Fetch on a client with no query set.
var ErrNoQuery = errors.New("tap: no query set")

// JobError is a remote job that reached a terminal failure phase. The
// message is the service's error text, passed through verbatim.
type JobError struct {
	Phase   string
	Message string
}

func (e *JobError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tap: job finished with phase %s", e.Phase)
	}
	return fmt.Sprintf("tap: job finished with phase %s: %s", e.Phase, e.Message)
}

// Client executes queries against one TAP service. It holds at most
// one query at a time; SetQuery replaces any previous one.
//
// A Client performs no retries and no backoff. Any transport or
// server fault surfaces as an error from Fetch.
type Client struct {
	base  string
	hc    *http.Client
	log   *zap.Logger
	poll  time.Duration
	query Query
}

// An Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.hc = hc } }

// WithLogger sets the client's logger. The default discards logs.
func WithLogger(log *zap.Logger) Option { return func(c *Client) { c.log = log } }

// WithPollInterval sets the delay between job phase polls.
func WithPollInterval(d time.Duration) Option { return func(c *Client) { c.poll = d } }

// NewClient returns a client for the TAP service rooted at base
// (e.g. "https://data.example.org/api/tap").
func NewClient(base string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(base, "/"),
		log:  zap.NewNop(),
		poll: time.Second,
	}
	for _, o := range opts {
		o(c)
	}
	if c.hc == nil {
		// Job creation answers 303 See Other; the Location
		// header is the job URL and must not be chased.
		c.hc = &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}
	return c
}

// SetQuery stores the query run by the next Fetch, replacing any
// previous one.
func (c *Client) SetQuery(q Query) { c.query = q }

// Query returns the stored query, or nil.
func (c *Client) Query() Query { return c.query }

// Fetch submits the stored query, polls the job until it reaches a
// terminal phase, and returns the materialized result. On a job
// error the service's error text is returned as a *JobError and no
// wrapper is produced.
func (c *Client) Fetch(ctx context.Context) (*catalog.Data, error) {
	if c.query == nil {
		return nil, ErrNoQuery
	}
	adql := c.query.String()
	c.log.Info("submitting TAP query", zap.String("query", adql))

	jobURL, err := c.submit(ctx, adql)
	if err != nil {
		return nil, err
	}

	phase, err := c.wait(ctx, jobURL)
	if err != nil {
		return nil, err
	}
	if phase != PhaseCompleted {
		msg, _ := c.text(ctx, jobURL+"/error")
		c.log.Error("TAP job failed", zap.String("phase", phase), zap.String("message", msg))
		return nil, &JobError{Phase: phase, Message: strings.TrimSpace(msg)}
	}

	c.log.Info("TAP job completed", zap.String("job", jobURL))
	t, err := c.result(ctx, jobURL)
	if err != nil {
		return nil, err
	}
	t, err = c.query.PostProcess(t)
	if err != nil {
		return nil, fmt.Errorf("tap: post-processing result: %w", err)
	}
	return catalog.New(t), nil
}

// submit creates the async job and starts it. The service answers
// 303 with the job URL in Location.
func (c *Client) submit(ctx context.Context, adql string) (string, error) {
	form := url.Values{
		"LANG":           {"ADQL"},
		"QUERY":          {adql},
		"RESPONSEFORMAT": {"csv"},
		"PHASE":          {"RUN"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/async", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("tap: submitting job: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusSeeOther {
		return "", fmt.Errorf("tap: submitting job: unexpected status %s", resp.Status)
	}
	loc := resp.Header.Get("Location")
	if loc == "" {
		return "", errors.New("tap: job response carried no Location")
	}
	base, err := url.Parse(c.base + "/async")
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(loc)
	if err != nil {
		return "", fmt.Errorf("tap: bad job location %q: %w", loc, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// wait polls the job phase until it is terminal. There is no
// timeout of its own; cancellation comes from ctx.
func (c *Client) wait(ctx context.Context, jobURL string) (string, error) {
	for {
		phase, err := c.text(ctx, jobURL+"/phase")
		if err != nil {
			return "", err
		}
		phase = strings.TrimSpace(phase)
		c.log.Debug("TAP job phase", zap.String("job", jobURL), zap.String("phase", phase))
		switch phase {
		case PhaseCompleted, PhaseError, PhaseAborted:
			return phase, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.poll):
		}
	}
}

// result downloads and parses the job's CSV result.
func (c *Client) result(ctx context.Context, jobURL string) (*table.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jobURL+"/results/result", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tap: fetching result: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tap: fetching result: unexpected status %s", resp.Status)
	}
	rows, err := csv.NewReader(resp.Body).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("tap: parsing result: %w", err)
	}
	if len(rows) == 0 {
		return new(table.Table), nil
	}
	return table.TableFromStrings(rows[0], rows[1:], true), nil
}

func (c *Client) text(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("tap: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tap: GET %s: unexpected status %s", url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
