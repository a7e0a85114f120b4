package search

import "context"

// Result is a single scraped search hit. The JSON tags are the shape the
// agent serializes into tool-result turns. Error is set only on the marker
// result produced when every attempt failed.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"link"`
	Source  string `json:"source"`
	Error   string `json:"error,omitempty"`
}

// Provider executes one query against a search surface and returns raw,
// unfiltered results. Retries and soft-fail semantics live in Client.
type Provider interface {
	Search(ctx context.Context, query string) ([]Result, error)
}
