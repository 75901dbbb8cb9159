package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration for the verification service.
type Config struct {
	ListenAddr        string
	NewsAPIKey        string
	NewsAPIBaseURL    string
	GoogleAPIKey      string
	SourcesFile       string
	CorpusFile        string
	RequestTimeout    time.Duration
	VerifyTimeout     time.Duration
	SearchRPS         float64
	CacheTTL          time.Duration
	RedisURL          string
	LogLevel          string
	LogPretty         bool
	Sequential        bool
	Ingest            bool
	DefaultReputation float64
	Sources           Sources
}

// FromEnv creates a configuration instance sourced from environment variables
// and the sources file they point at.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:        getEnv("VERIFIER_LISTEN_ADDR", ":8080"),
		NewsAPIKey:        getEnv("VERIFIER_NEWSAPI_KEY", ""),
		NewsAPIBaseURL:    getEnv("VERIFIER_NEWSAPI_BASE_URL", ""),
		GoogleAPIKey:      getEnv("VERIFIER_GOOGLE_API_KEY", ""),
		SourcesFile:       getEnv("VERIFIER_SOURCES_FILE", "config/sources.yaml"),
		CorpusFile:        getEnv("VERIFIER_CORPUS_FILE", ""),
		RequestTimeout:    10 * time.Second,
		VerifyTimeout:     45 * time.Second,
		SearchRPS:         1,
		RedisURL:          getEnv("VERIFIER_REDIS_URL", ""),
		LogLevel:          getEnv("VERIFIER_LOG_LEVEL", "info"),
		DefaultReputation: 0.5,
	}

	if v := os.Getenv("VERIFIER_REQUEST_TIMEOUT_S"); v != "" {
		var seconds int
		if _, err := fmt.Sscanf(v, "%d", &seconds); err != nil {
			return Config{}, fmt.Errorf("parse VERIFIER_REQUEST_TIMEOUT_S: %w", err)
		}
		cfg.RequestTimeout = time.Duration(seconds) * time.Second
	}

	if v := os.Getenv("VERIFIER_VERIFY_TIMEOUT_S"); v != "" {
		var seconds int
		if _, err := fmt.Sscanf(v, "%d", &seconds); err != nil {
			return Config{}, fmt.Errorf("parse VERIFIER_VERIFY_TIMEOUT_S: %w", err)
		}
		cfg.VerifyTimeout = time.Duration(seconds) * time.Second
	}

	if v := os.Getenv("VERIFIER_CACHE_TTL_S"); v != "" {
		var seconds int
		if _, err := fmt.Sscanf(v, "%d", &seconds); err != nil {
			return Config{}, fmt.Errorf("parse VERIFIER_CACHE_TTL_S: %w", err)
		}
		cfg.CacheTTL = time.Duration(seconds) * time.Second
	}

	if v := os.Getenv("VERIFIER_SEARCH_RPS"); v != "" {
		if _, err := fmt.Sscanf(v, "%f", &cfg.SearchRPS); err != nil {
			return Config{}, fmt.Errorf("parse VERIFIER_SEARCH_RPS: %w", err)
		}
	}

	if v := os.Getenv("VERIFIER_DEFAULT_REPUTATION"); v != "" {
		if _, err := fmt.Sscanf(v, "%f", &cfg.DefaultReputation); err != nil {
			return Config{}, fmt.Errorf("parse VERIFIER_DEFAULT_REPUTATION: %w", err)
		}
		if cfg.DefaultReputation < 0 || cfg.DefaultReputation > 1 {
			return Config{}, fmt.Errorf("VERIFIER_DEFAULT_REPUTATION must be within [0,1], got %v", cfg.DefaultReputation)
		}
	}

	var err error
	if cfg.LogPretty, err = getBool("VERIFIER_LOG_PRETTY"); err != nil {
		return Config{}, err
	}
	if cfg.Sequential, err = getBool("VERIFIER_SEQUENTIAL"); err != nil {
		return Config{}, err
	}
	if cfg.Ingest, err = getBool("VERIFIER_INGEST"); err != nil {
		return Config{}, err
	}

	cfg.Sources, err = LoadSources(cfg.SourcesFile)
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getBool(key string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "", "0", "false", "no", "off":
		return false, nil
	case "1", "true", "yes", "on":
		return true, nil
	default:
		return false, fmt.Errorf("parse %s: expected a boolean, got %q", key, os.Getenv(key))
	}
}
