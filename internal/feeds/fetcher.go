package feeds

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"newsverifier/internal/cache"
)

const (
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	maxFeedBytes = 8 << 20
)

// Reader captures the ability to fetch a parsed feed.
type Reader interface {
	Fetch(ctx context.Context, url string) (*gofeed.Feed, error)
}

// Fetcher retrieves and parses syndication feeds.
type Fetcher struct {
	client   *http.Client
	store    cache.Store
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// Option customises a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(f *Fetcher) {
		if hc != nil {
			f.client = hc
		}
	}
}

// WithCache keeps raw feed bodies in store for ttl.
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.store = store
		f.cacheTTL = ttl
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher creates a fetcher with a 10s request timeout.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: 10 * time.Second},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads and parses the feed at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	body, err := f.body(ctx, url)
	if err != nil {
		return nil, err
	}
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("feeds: parse %s: %w", url, err)
	}
	return feed, nil
}

func (f *Fetcher) body(ctx context.Context, url string) ([]byte, error) {
	key := cache.Key("feed", url)
	if f.store != nil && f.cacheTTL > 0 {
		if data, ok, err := f.store.Get(ctx, key); err != nil {
			f.logger.Warn().Err(err).Str("feed", url).Msg("feed cache read failed")
		} else if ok {
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("feeds: create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feeds: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feeds: fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("feeds: read %s: %w", url, err)
	}

	if f.store != nil && f.cacheTTL > 0 {
		if err := f.store.Set(ctx, key, data, f.cacheTTL); err != nil {
			f.logger.Warn().Err(err).Str("feed", url).Msg("feed cache write failed")
		}
	}
	return data, nil
}
