package verify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"newsverifier/internal/factcheck"
	"newsverifier/internal/feeds"
	"newsverifier/internal/newsapi"
)

// Capabilities are the external collaborators available to the verifier.
// A nil capability disables the collector that depends on it.
type Capabilities struct {
	Articles       newsapi.Searcher
	Feeds          feeds.Reader
	FeedURLs       []string
	Claims         factcheck.ClaimSearcher
	Sites          factcheck.SiteSearcher
	FactCheckSites []string
}

// DefaultCollectors builds the search-api, feeds and fact-check collectors
// for whatever capabilities are present, in that order.
func DefaultCollectors(caps Capabilities, reputation ReputationTable, logger zerolog.Logger, sequential bool) *Registry {
	reg := NewRegistry()
	if caps.Articles != nil {
		reg.Add(&SearchCollector{
			Searcher:   caps.Articles,
			Reputation: reputation,
			Logger:     logger.With().Str("collector", MethodSearchAPI).Logger(),
		})
	}
	if caps.Feeds != nil && len(caps.FeedURLs) > 0 {
		reg.Add(&FeedCollector{
			Reader:     caps.Feeds,
			FeedURLs:   caps.FeedURLs,
			Reputation: reputation,
			Logger:     logger.With().Str("collector", MethodFeeds).Logger(),
			Sequential: sequential,
		})
	}
	if caps.Claims != nil || (caps.Sites != nil && len(caps.FactCheckSites) > 0) {
		reg.Add(&FactCheckCollector{
			Claims:     caps.Claims,
			Sites:      caps.Sites,
			SiteList:   caps.FactCheckSites,
			Logger:     logger.With().Str("collector", MethodFactCheck).Logger(),
			Sequential: sequential,
		})
	}
	return reg
}

// Verifier runs the collectors, scores the merged evidence and writes the summary.
type Verifier struct {
	Collectors *Registry
	Logger     zerolog.Logger
	Sequential bool
	Now        func() time.Time
	NewID      func() string
}

// NewVerifier constructs a Verifier.
func NewVerifier(collectors *Registry, logger zerolog.Logger) (*Verifier, error) {
	if collectors == nil {
		return nil, errors.New("verifier requires a collector registry")
	}
	return &Verifier{
		Collectors: collectors,
		Logger:     logger,
		Now:        time.Now,
		NewID:      uuid.NewString,
	}, nil
}

type outcome struct {
	name     string
	evidence Evidence
	err      error
}

// Verify checks headline against every configured collector. It always
// returns a well-formed Result; an unexpected failure sets the status to
// Error and keeps whatever evidence was gathered.
func (v *Verifier) Verify(ctx context.Context, headline string) (result Result) {
	result = newResult("", headline, time.Time{})
	defer func() {
		if rec := recover(); rec != nil {
			v.Logger.Error().Str("verification_id", result.ID).Interface("panic", rec).Msg("error in headline verification")
			result.VerificationStatus = StatusError
			result.Error = fmt.Sprint(rec)
		}
	}()

	now := v.Now().UTC()
	result.ID = v.NewID()
	result.CheckedAt = now
	log := v.Logger.With().Str("verification_id", result.ID).Logger()

	normalized := Normalize(headline)
	if normalized == "" {
		result.addReason("headline is empty")
		Score(&result)
		return result
	}

	q := Query{Headline: normalized, Keywords: ExtractKeywords(normalized), Now: now}
	log.Info().Str("headline", normalized).Strs("keywords", q.Keywords).Msg("verifying headline")

	for _, o := range v.collect(ctx, q) {
		result.Details.VerificationMethod = append(result.Details.VerificationMethod, o.name)
		if o.err != nil {
			log.Error().Err(o.err).Str("collector", o.name).Msg("collector failed")
			if result.Details.Errors == nil {
				result.Details.Errors = make(map[string]string)
			}
			result.Details.Errors[o.name] = o.err.Error()
		}
		result.apply(o.evidence)
	}

	Score(&result)
	Summarize(&result)

	log.Info().
		Int("score", result.AuthenticityScore).
		Str("status", string(result.VerificationStatus)).
		Int("matching_sources", result.Details.MatchingSources).
		Msg("verification complete")
	return result
}

// collect runs every collector and returns their outcomes in registration
// order regardless of completion order.
func (v *Verifier) collect(ctx context.Context, q Query) []outcome {
	collectors := v.Collectors.collectors
	outcomes := make([]outcome, len(collectors))

	if v.Sequential {
		for i, c := range collectors {
			outcomes[i] = runCollector(ctx, c, q)
		}
		return outcomes
	}

	var wg sync.WaitGroup
	for i, c := range collectors {
		wg.Add(1)
		go func(i int, c Collector) {
			defer wg.Done()
			outcomes[i] = runCollector(ctx, c, q)
		}(i, c)
	}
	wg.Wait()
	return outcomes
}

func runCollector(ctx context.Context, c Collector, q Query) (o outcome) {
	o.name = c.Name()
	defer func() {
		if rec := recover(); rec != nil {
			o.evidence = Evidence{}
			o.err = fmt.Errorf("%s: panic: %v", o.name, rec)
		}
	}()
	o.evidence, o.err = c.Collect(ctx, q)
	return o
}
