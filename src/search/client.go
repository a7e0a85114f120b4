package search

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"
	"unicode/utf8"
)

const (
	defaultAttempts   = 3
	defaultRetryDelay = time.Second
	minTitleLength    = 5
)

// factCheckSites is appended to fact-check queries so reputable checkers rank
// first in the results.
const factCheckSites = "site:snopes.com OR site:factcheck.org OR site:politifact.com OR site:reuters.com/fact-check"

// Client wraps a Provider with bounded retry and soft-fail semantics: callers
// always get a non-empty result list, never an error. Total exhaustion yields
// a single error-marker result the model can read.
type Client struct {
	provider Provider
	attempts int
	delay    time.Duration
}

// NewClient returns a search client with the default retry policy.
func NewClient(provider Provider) *Client {
	return &Client{provider: provider, attempts: defaultAttempts, delay: defaultRetryDelay}
}

// Search runs a query with retries. Empty parse results are retried exactly
// like provider errors: a blocked or throttled surface returns a well-formed
// page with nothing in it.
func (c *Client) Search(ctx context.Context, query string, maxResults int) []Result {
	if maxResults <= 0 {
		maxResults = 5
	}

	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			t := time.NewTimer(c.delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return errorMarker(ctx.Err())
			case <-t.C:
			}
		}

		raw, err := c.provider.Search(ctx, query)
		if err != nil {
			lastErr = err
			continue
		}

		results := normalize(raw, maxResults)
		if len(results) == 0 {
			lastErr = fmt.Errorf("no results found")
			continue
		}
		return results
	}

	log.Printf("search: query failed after %d attempts: %v", c.attempts, lastErr)
	return []Result{{Error: fmt.Sprintf("Search failed after %d attempts: %v", c.attempts, lastErr)}}
}

// FactCheck rewrites a claim into a query scoped to fact-checking sites.
func (c *Client) FactCheck(ctx context.Context, claim string, maxResults int) []Result {
	return c.Search(ctx, claim+" "+factCheckSites, maxResults)
}

// News rewrites a topic with recency keywords to surface current coverage.
func (c *Client) News(ctx context.Context, topic string, maxResults int) []Result {
	year := time.Now().Year()
	return c.Search(ctx, fmt.Sprintf("%s news latest %d %d", topic, year-1, year), maxResults)
}

// normalize dedupes by URL, drops results without a readable title, fills in
// the source domain, and truncates to maxResults.
func normalize(raw []Result, maxResults int) []Result {
	seen := make(map[string]bool)
	out := make([]Result, 0, maxResults)

	for _, r := range raw {
		if utf8.RuneCountInString(r.Title) < minTitleLength {
			continue
		}
		if seen[r.URL] {
			continue
		}
		seen[r.URL] = true

		if r.Source == "" {
			r.Source = sourceDomain(r.URL)
		}

		out = append(out, r)
		if len(out) >= maxResults {
			break
		}
	}

	return out
}

// sourceDomain extracts the authority component of a result URL.
func sourceDomain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}

func errorMarker(err error) []Result {
	return []Result{{Error: fmt.Sprintf("Search failed: %v", err)}}
}
