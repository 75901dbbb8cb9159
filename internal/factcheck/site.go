package factcheck

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const (
	defaultSearchURL = "https://www.google.com/search"
	userAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// SiteSearcher counts web search results restricted to a single site.
type SiteSearcher interface {
	CountResults(ctx context.Context, site, query string) (int, error)
}

// SiteSearch scrapes a web search results page and counts result headings.
// Outbound requests share one limiter so concurrent callers stay polite.
type SiteSearch struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// SiteOption customises a SiteSearch.
type SiteOption func(*SiteSearch)

// WithSearchEndpoint overrides the search endpoint (useful for tests).
func WithSearchEndpoint(u string) SiteOption {
	return func(s *SiteSearch) {
		if u != "" {
			s.endpoint = u
		}
	}
}

// WithSearchHTTPClient overrides the HTTP client.
func WithSearchHTTPClient(hc *http.Client) SiteOption {
	return func(s *SiteSearch) {
		if hc != nil {
			s.httpClient = hc
		}
	}
}

// NewSiteSearch creates a scraper issuing at most rps requests per second.
// A non-positive rps disables throttling.
func NewSiteSearch(rps float64, opts ...SiteOption) *SiteSearch {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	s := &SiteSearch{
		endpoint:   defaultSearchURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(limit, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CountResults runs "site:<site> <query>" and returns the number of h3 headings.
func (s *SiteSearch) CountResults(ctx context.Context, site, query string) (int, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("factcheck: wait for limiter: %w", err)
	}

	params := url.Values{}
	params.Set("q", "site:"+site+" "+query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("factcheck: create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("factcheck: search %s: %w", site, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("factcheck: search %s: unexpected status %d", site, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("factcheck: parse results for %s: %w", site, err)
	}
	return doc.Find("h3").Length(), nil
}
