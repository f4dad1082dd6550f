package dropcountr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/yosida95/uritemplate/v3"
)

// Usage fetches usage buckets from a service connection's usage_series
// template for the given period ("hour", "day", "month") and interval.
func (c *Client) Usage(ctx context.Context, templatedURL, period, during string) (*SeriesPage, error) {
	return c.series(ctx, templatedURL, period, during)
}

// Cost fetches cost buckets from a cost_series template. Identical to Usage
// apart from which template the caller passes in.
func (c *Client) Cost(ctx context.Context, templatedURL, period, during string) (*SeriesPage, error) {
	return c.series(ctx, templatedURL, period, during)
}

// Goal fetches goal buckets from a goal_series template.
func (c *Client) Goal(ctx context.Context, templatedURL, period, during string) (*SeriesPage, error) {
	return c.series(ctx, templatedURL, period, during)
}

// series expands the RFC 6570 template with period and during, then fetches
// the concrete URL. Reserved characters in during (the / between the two
// interval endpoints) are percent-encoded by the expansion.
func (c *Client) series(ctx context.Context, templatedURL, period, during string) (*SeriesPage, error) {
	tmpl, err := uritemplate.New(templatedURL)
	if err != nil {
		return nil, fmt.Errorf("parsing series template: %w", err)
	}
	expanded, err := tmpl.Expand(uritemplate.Values{
		"period": uritemplate.String(period),
		"during": uritemplate.String(formatTimeRange(during)),
	})
	if err != nil {
		return nil, fmt.Errorf("expanding series template: %w", err)
	}

	var page SeriesPage
	if err := c.Get(ctx, expanded, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// formatTimeRange normalizes during before template expansion. Anything
// containing a / is already an ISO 8601 interval literal and passes through
// unchanged. Other inputs also pass through for now; normalizing richer
// inputs would hook in here, and Interval/IntervalAt exist for composing
// intervals from time values.
func formatTimeRange(during string) string {
	if strings.Contains(during, "/") {
		return during
	}
	return during
}

// Interval renders a date-only ISO 8601 interval, e.g.
// "2023-01-01/2023-01-31".
func Interval(start, end time.Time) string {
	return fmt.Sprintf("%s/%s", strfmt.Date(start), strfmt.Date(end))
}

// IntervalAt renders a full-timestamp ISO 8601 interval, e.g.
// "2023-01-01T00:00:00.000Z/2023-01-31T23:59:59.000Z".
func IntervalAt(start, end time.Time) string {
	return fmt.Sprintf("%s/%s", strfmt.DateTime(start), strfmt.DateTime(end))
}
