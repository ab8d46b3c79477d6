package airtable

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mehanizm/airtable"
)

// Airtable field names.
const (
	fieldSubdomain   = "Subdomain"
	fieldEmail       = "Email"
	fieldGithubRepo  = "Github Repo"
	fieldDomains     = "Domains"
	fieldDomainNames = "Name (from Domains)"
	fieldClubName    = "Club Name"
	fieldStatus      = "Status"
	fieldName        = "Name"
)

// maxPages bounds pagination on full enumerations (100 records per page).
const maxPages = 20

// Tables names the tables, view and lookup field of one base.
type Tables struct {
	Subdomains      string
	Domains         string
	ClubNames       string
	View            string
	ClubLookupField string
}

// Client binds an Airtable API client to one base. Each call is bounded by
// the http client's Timeout.
type Client struct {
	at      *airtable.Client
	base    string
	tables  Tables
	timeout time.Duration
}

func NewClient(apiKey, baseID string, tables Tables, httpClient *http.Client) *Client {
	at := airtable.NewClient(apiKey)
	c := &Client{at: at, base: baseID, tables: tables}
	if httpClient != nil {
		at.SetCustomClient(httpClient)
		c.timeout = httpClient.Timeout
	}
	return c
}

// bounded runs fn, which cannot take a context, and gives up when ctx or the
// per-call timeout ends first. A late error after the deadline is reported as
// the context error so callers can classify it with errors.Is.
func bounded[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-done:
		if r.err != nil && ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return r.v, r.err
	}
}

// SetBaseURL points the client at another API root, e.g. a local fake.
func (c *Client) SetBaseURL(u string) error {
	return c.at.SetBaseURL(u)
}

func (c *Client) table(name string) *airtable.Table {
	return c.at.GetTable(c.base, name)
}

// list runs a filtered select and follows offsets until limit records were
// read or the table is exhausted. limit <= 0 means no limit.
func (c *Client) list(ctx context.Context, tableName, view, formula string, limit int) ([]*airtable.Record, error) {
	var (
		out    []*airtable.Record
		offset string
	)
	for page := 0; page < maxPages; page++ {
		q := c.table(tableName).GetRecords()
		if view != "" {
			q = q.FromView(view)
		}
		if formula != "" {
			q = q.WithFilterFormula(formula)
		}
		if limit > 0 {
			q = q.MaxRecords(limit)
		}
		if offset != "" {
			q = q.WithOffset(offset)
		}
		res, err := bounded(ctx, c.timeout, q.Do)
		if err != nil {
			return nil, fmt.Errorf("airtable list %s: %w", tableName, err)
		}
		out = append(out, res.Records...)
		if res.Offset == "" || (limit > 0 && len(out) >= limit) {
			break
		}
		offset = res.Offset
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
