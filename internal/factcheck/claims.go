package factcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"newsverifier/internal/cache"
)

const (
	defaultClaimsURL = "https://factchecktools.googleapis.com/v1alpha1/claims:search"
	claimsPageSize   = 5
)

// ErrMissingAPIKey is returned when the claims client is used without credentials.
var ErrMissingAPIKey = errors.New("factcheck: missing API key")

// Publisher identifies the organisation behind a claim review.
type Publisher struct {
	Name string `json:"name"`
	Site string `json:"site"`
}

// ClaimReview is one fact-checker's verdict on a claim.
type ClaimReview struct {
	Publisher     Publisher `json:"publisher"`
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	TextualRating string    `json:"textualRating"`
	LanguageCode  string    `json:"languageCode"`
}

// Claim is a reviewed statement.
type Claim struct {
	Text        string        `json:"text"`
	Claimant    string        `json:"claimant"`
	ClaimReview []ClaimReview `json:"claimReview"`
}

type claimsResponse struct {
	Claims []Claim `json:"claims"`
}

// ClaimSearcher captures the ability to look up reviewed claims.
type ClaimSearcher interface {
	SearchClaims(ctx context.Context, query string) ([]Claim, error)
}

// ClaimsClient queries the Google Fact Check Tools API.
type ClaimsClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	store      cache.Store
	cacheTTL   time.Duration
	logger     zerolog.Logger
}

// ClaimsOption customises a ClaimsClient.
type ClaimsOption func(*ClaimsClient)

// WithClaimsEndpoint overrides the API endpoint (useful for tests).
func WithClaimsEndpoint(u string) ClaimsOption {
	return func(c *ClaimsClient) {
		if u != "" {
			c.endpoint = u
		}
	}
}

// WithClaimsHTTPClient overrides the HTTP client.
func WithClaimsHTTPClient(hc *http.Client) ClaimsOption {
	return func(c *ClaimsClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithClaimsCache keeps API responses in store for ttl.
func WithClaimsCache(store cache.Store, ttl time.Duration) ClaimsOption {
	return func(c *ClaimsClient) {
		c.store = store
		c.cacheTTL = ttl
	}
}

// WithClaimsLogger sets the logger.
func WithClaimsLogger(l zerolog.Logger) ClaimsOption {
	return func(c *ClaimsClient) { c.logger = l }
}

// NewClaimsClient constructs a client with a 10s timeout.
func NewClaimsClient(apiKey string, opts ...ClaimsOption) *ClaimsClient {
	c := &ClaimsClient{
		endpoint:   defaultClaimsURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchClaims returns reviewed claims matching query.
func (c *ClaimsClient) SearchClaims(ctx context.Context, query string) ([]Claim, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	key := cache.Key("claims", query)
	if c.store != nil && c.cacheTTL > 0 {
		if data, ok, err := c.store.Get(ctx, key); err != nil {
			c.logger.Warn().Err(err).Msg("claims cache read failed")
		} else if ok {
			return decodeClaims(data)
		}
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("pageSize", strconv.Itoa(claimsPageSize))
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("factcheck: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("factcheck: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("factcheck: api error %d: %s", resp.StatusCode, string(data))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("factcheck: read response: %w", err)
	}
	claims, err := decodeClaims(data)
	if err != nil {
		return nil, err
	}

	if c.store != nil && c.cacheTTL > 0 {
		if err := c.store.Set(ctx, key, data, c.cacheTTL); err != nil {
			c.logger.Warn().Err(err).Msg("claims cache write failed")
		}
	}
	return claims, nil
}

func decodeClaims(data []byte) ([]Claim, error) {
	var payload claimsResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("factcheck: decode response: %w", err)
	}
	return payload.Claims, nil
}
