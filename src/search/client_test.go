package search

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// scriptedProvider replays canned responses per attempt.
type scriptedProvider struct {
	responses [][]Result
	errs      []error
	calls     int
	queries   []string
}

func (p *scriptedProvider) Search(_ context.Context, query string) ([]Result, error) {
	idx := p.calls
	p.calls++
	p.queries = append(p.queries, query)
	if idx < len(p.errs) && p.errs[idx] != nil {
		return nil, p.errs[idx]
	}
	if idx < len(p.responses) {
		return p.responses[idx], nil
	}
	return nil, errors.New("script exhausted")
}

func fastClient(p Provider) *Client {
	c := NewClient(p)
	c.delay = time.Millisecond
	return c
}

func TestSearchSuccessFirstAttempt(t *testing.T) {
	provider := &scriptedProvider{
		responses: [][]Result{{{Title: "Example result", URL: "https://example.com/a"}}},
	}
	results := fastClient(provider).Search(context.Background(), "query", 5)
	if len(results) != 1 || results[0].Error != "" {
		t.Fatalf("unexpected results %v", results)
	}
	if provider.calls != 1 {
		t.Fatalf("success must not retry, got %d calls", provider.calls)
	}
}

func TestSearchRetriesProviderErrors(t *testing.T) {
	provider := &scriptedProvider{
		errs:      []error{errors.New("http 503"), nil},
		responses: [][]Result{nil, {{Title: "Recovered result", URL: "https://example.com"}}},
	}
	results := fastClient(provider).Search(context.Background(), "query", 5)
	if provider.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", provider.calls)
	}
	if results[0].Title != "Recovered result" {
		t.Fatalf("unexpected results %v", results)
	}
}

func TestSearchRetriesEmptyResults(t *testing.T) {
	// A blocked page parses cleanly to nothing; that must retry like an error.
	provider := &scriptedProvider{
		responses: [][]Result{{}, {{Title: "Late result", URL: "https://example.com"}}},
	}
	results := fastClient(provider).Search(context.Background(), "query", 5)
	if provider.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", provider.calls)
	}
	if results[0].Title != "Late result" {
		t.Fatalf("unexpected results %v", results)
	}
}

func TestSearchExhaustionReturnsErrorMarker(t *testing.T) {
	provider := &scriptedProvider{
		errs: []error{errors.New("down"), errors.New("down"), errors.New("down")},
	}
	results := fastClient(provider).Search(context.Background(), "query", 5)
	if provider.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", provider.calls)
	}
	if len(results) != 1 {
		t.Fatalf("expected single error marker, got %v", results)
	}
	if !strings.Contains(results[0].Error, "Search failed after 3 attempts") {
		t.Fatalf("unexpected marker %q", results[0].Error)
	}
}

func TestSearchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	provider := &scriptedProvider{
		errs: []error{errors.New("down")},
	}
	c := NewClient(provider)
	c.delay = time.Minute
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	results := c.Search(ctx, "query", 5)
	if len(results) != 1 || results[0].Error == "" {
		t.Fatalf("expected error marker on cancellation, got %v", results)
	}
}

func TestNormalize(t *testing.T) {
	raw := []Result{
		{Title: "abc", URL: "https://short-title.example"},
		{Title: "First real result", URL: "https://example.com/a"},
		{Title: "Duplicate of first", URL: "https://example.com/a"},
		{Title: "Second real result", URL: "https://news.example.org/b", Source: "preset"},
		{Title: "Third real result", URL: "https://example.net/c"},
	}
	out := normalize(raw, 2)
	if len(out) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(out))
	}
	if out[0].URL != "https://example.com/a" {
		t.Fatalf("short title not dropped first, got %v", out[0])
	}
	if out[0].Source != "example.com" {
		t.Fatalf("source domain not filled, got %q", out[0].Source)
	}
	if out[1].Source != "preset" {
		t.Fatalf("preset source overwritten: %q", out[1].Source)
	}
}

func TestFactCheckScopesQuery(t *testing.T) {
	provider := &scriptedProvider{
		responses: [][]Result{{{Title: "Fact check result", URL: "https://snopes.com/x"}}},
	}
	fastClient(provider).FactCheck(context.Background(), "the claim", 5)
	if !strings.Contains(provider.queries[0], "site:snopes.com") {
		t.Fatalf("fact-check sites not appended: %q", provider.queries[0])
	}
	if !strings.HasPrefix(provider.queries[0], "the claim ") {
		t.Fatalf("claim not preserved: %q", provider.queries[0])
	}
}

func TestNewsAddsRecency(t *testing.T) {
	provider := &scriptedProvider{
		responses: [][]Result{{{Title: "News result", URL: "https://news.example/x"}}},
	}
	fastClient(provider).News(context.Background(), "earthquake", 5)
	year := time.Now().Year()
	if !strings.Contains(provider.queries[0], "news latest") {
		t.Fatalf("recency keywords missing: %q", provider.queries[0])
	}
	if !strings.Contains(provider.queries[0], time.Now().Format("2006")) {
		t.Fatalf("current year %d missing: %q", year, provider.queries[0])
	}
}
