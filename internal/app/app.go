package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"newsverifier/internal/cache"
	"newsverifier/internal/config"
	"newsverifier/internal/factcheck"
	"newsverifier/internal/feeds"
	"newsverifier/internal/newsapi"
	"newsverifier/internal/verify"
)

const memoryCacheItems = 512

// App holds the wired verification service.
type App struct {
	Verifier *verify.Verifier
	// Corpus is the local article store. It is nil unless a corpus file is
	// given or ingestion is enabled without a NewsAPI key.
	Corpus *newsapi.Corpus

	closers []func() error
}

// New builds every capability the configuration allows and the verifier on top.
func New(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{}
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	store, err := a.cacheStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	caps := verify.Capabilities{
		Feeds: feeds.NewFetcher(
			feeds.WithHTTPClient(httpClient),
			feeds.WithCache(store, cfg.CacheTTL),
			feeds.WithLogger(logger.With().Str("component", "feeds").Logger()),
		),
		FeedURLs:       cfg.Sources.Feeds,
		Sites:          factcheck.NewSiteSearch(cfg.SearchRPS, factcheck.WithSearchHTTPClient(httpClient)),
		FactCheckSites: cfg.Sources.FactCheckSites,
	}

	if cfg.CorpusFile != "" {
		corpus, err := newsapi.LoadCorpus(cfg.CorpusFile)
		if err != nil {
			return nil, fmt.Errorf("init corpus: %w", err)
		}
		a.Corpus = corpus
		logger.Info().Str("path", cfg.CorpusFile).Int("articles", corpus.Len()).Msg("local corpus loaded")
	}

	switch {
	case cfg.NewsAPIKey != "":
		opts := []func(*newsapi.Client){newsapi.WithHTTPClient(httpClient)}
		if cfg.NewsAPIBaseURL != "" {
			opts = append(opts, newsapi.WithBaseURL(cfg.NewsAPIBaseURL))
		}
		caps.Articles = newsapi.NewClient(cfg.NewsAPIKey, opts...)
	case a.Corpus != nil:
		caps.Articles = a.Corpus
	case cfg.Ingest:
		a.Corpus = newsapi.NewCorpus()
		caps.Articles = a.Corpus
		logger.Warn().Msg("no NewsAPI key configured, searching ingested articles only")
	default:
		logger.Warn().Msg("no article search backend configured, skipping search")
	}

	if cfg.GoogleAPIKey != "" {
		caps.Claims = factcheck.NewClaimsClient(cfg.GoogleAPIKey,
			factcheck.WithClaimsHTTPClient(httpClient),
			factcheck.WithClaimsCache(store, cfg.CacheTTL),
			factcheck.WithClaimsLogger(logger.With().Str("component", "claims").Logger()),
		)
	}

	reputation := verify.NewReputationTable(domainWeights(cfg.Sources.DomainWeights), cfg.DefaultReputation)
	collectors := verify.DefaultCollectors(caps, reputation, logger, cfg.Sequential)

	v, err := verify.NewVerifier(collectors, logger)
	if err != nil {
		return nil, fmt.Errorf("init verifier: %w", err)
	}
	v.Sequential = cfg.Sequential
	a.Verifier = v

	logger.Info().Strs("collectors", collectors.Names()).Msg("verifier ready")
	return a, nil
}

// Close releases external connections.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (a *App) cacheStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (cache.Store, error) {
	if cfg.RedisURL == "" || cfg.CacheTTL <= 0 {
		return cache.NewMemory(memoryCacheItems), nil
	}

	rdb, err := cache.NewRedis(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("init redis cache: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx); err != nil {
		_ = rdb.Close()
		logger.Warn().Err(err).Msg("redis unavailable, falling back to in-memory cache")
		return cache.NewMemory(memoryCacheItems), nil
	}
	a.closers = append(a.closers, rdb.Close)
	return rdb, nil
}

func domainWeights(overrides map[string]float64) map[string]float64 {
	weights := verify.DefaultDomainWeights()
	for domain, w := range overrides {
		weights[domain] = w
	}
	return weights
}
