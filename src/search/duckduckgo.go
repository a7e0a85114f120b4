package search

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/aletheia-labs/aletheia/src/webclient"
)

// DuckDuckGo scrapes the DuckDuckGo HTML interface. The HTML front end is
// more stable for scraping than the main site and needs no API key.
type DuckDuckGo struct {
	endpoint   string
	httpClient *http.Client
	stripper   *bluemonday.Policy
}

// NewDuckDuckGo creates a scraper with a ~20s per-attempt timeout.
func NewDuckDuckGo() *DuckDuckGo {
	return NewDuckDuckGoWithClient(webclient.NewDefault(20 * time.Second))
}

// NewDuckDuckGoWithClient creates a scraper using the supplied HTTP client.
func NewDuckDuckGoWithClient(client *http.Client) *DuckDuckGo {
	return &DuckDuckGo{
		endpoint:   "https://html.duckduckgo.com/html/",
		httpClient: client,
		stripper:   bluemonday.StrictPolicy(),
	}
}

// Search fetches and parses one results page. Zero parsed results comes back
// as an empty slice, not an error; the caller decides whether to retry.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query is empty")
	}

	endpoint := d.endpoint + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return d.parseResults(string(body)), nil
}

var (
	linkPattern    = regexp.MustCompile(`<a[^>]*class="result__a"[^>]*href="([^"]+)"[^>]*>(.+?)</a>`)
	snippetPattern = regexp.MustCompile(`<a[^>]*class="result__snippet"[^>]*>(.+?)</a>`)
	uddgPattern    = regexp.MustCompile(`uddg=([^&]+)`)
)

// parseResults extracts results from the DuckDuckGo HTML page. Links point at
// a redirect endpoint carrying the real URL in the uddg query parameter.
func (d *DuckDuckGo) parseResults(page string) []Result {
	links := linkPattern.FindAllStringSubmatch(page, -1)
	snippets := snippetPattern.FindAllStringSubmatch(page, -1)

	var results []Result
	for i, match := range links {
		if len(match) < 3 {
			continue
		}

		link := strings.TrimSpace(match[1])
		if m := uddgPattern.FindStringSubmatch(link); m != nil {
			if decoded, err := url.QueryUnescape(m[1]); err == nil {
				link = decoded
			}
		}

		title := d.clean(match[2])
		snippet := ""
		if i < len(snippets) && len(snippets[i]) > 1 {
			snippet = d.clean(snippets[i][1])
		}

		// Skip ads, internal navigation, and anything that is not a page.
		if title == "" || !strings.HasPrefix(link, "http") || strings.Contains(link, "duckduckgo.com") {
			continue
		}

		results = append(results, Result{
			Title:   title,
			Snippet: snippet,
			URL:     link,
		})
	}

	return results
}

// clean strips markup and entities from scraped text.
func (d *DuckDuckGo) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(d.stripper.Sanitize(s)))
}
