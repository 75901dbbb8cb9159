package verify

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"newsverifier/internal/factcheck"
)

const (
	factCheckAPISite    = "Google Fact Check API"
	factCheckReviewSite = "Fact-check"
	factCheckFound      = "Found related fact-checks"
)

// FactCheckCollector looks the headline up in claim-review databases and
// on fact-checking sites. Either capability may be nil.
type FactCheckCollector struct {
	Claims     factcheck.ClaimSearcher
	Sites      factcheck.SiteSearcher
	SiteList   []string
	Logger     zerolog.Logger
	Sequential bool
}

// Name implements Collector.
func (c *FactCheckCollector) Name() string { return MethodFactCheck }

// Collect implements Collector. Failures of the claims API or of a single
// site are logged and skipped.
func (c *FactCheckCollector) Collect(ctx context.Context, q Query) (Evidence, error) {
	var ev Evidence
	phrase := strings.Join(firstN(q.Keywords, 3), " ")

	if c.Claims != nil {
		ev.FactChecks = append(ev.FactChecks, c.claimObservations(ctx, phrase)...)
	}
	if c.Sites != nil {
		ev.FactChecks = append(ev.FactChecks, c.siteObservations(ctx, phrase)...)
	}
	return ev, nil
}

func (c *FactCheckCollector) claimObservations(ctx context.Context, phrase string) []FactCheckObservation {
	claims, err := c.Claims.SearchClaims(ctx, phrase)
	if err != nil {
		c.Logger.Warn().Err(err).Msg("fact check API failed")
		return nil
	}
	if len(claims) == 0 {
		return nil
	}

	out := []FactCheckObservation{{
		Site:         factCheckAPISite,
		ResultsFound: len(claims),
		Status:       factCheckFound,
	}}
	for _, claim := range claims {
		for _, review := range claim.ClaimReview {
			site := review.Publisher.Name
			if site == "" {
				site = factCheckReviewSite
			}
			out = append(out, FactCheckObservation{
				Site:   site,
				Rating: strings.ToLower(review.TextualRating),
				URL:    review.URL,
			})
		}
	}
	return out
}

func (c *FactCheckCollector) siteObservations(ctx context.Context, phrase string) []FactCheckObservation {
	found := make([]int, len(c.SiteList))

	check := func(i int, site string) {
		n, err := c.Sites.CountResults(ctx, site, phrase)
		if err != nil {
			c.Logger.Warn().Err(err).Str("site", site).Msg("failed to check fact-check site")
			return
		}
		found[i] = n
	}

	if c.Sequential {
		for i, site := range c.SiteList {
			check(i, site)
		}
	} else {
		var wg sync.WaitGroup
		for i, site := range c.SiteList {
			wg.Add(1)
			go func(i int, site string) {
				defer wg.Done()
				check(i, site)
			}(i, site)
		}
		wg.Wait()
	}

	var out []FactCheckObservation
	for i, site := range c.SiteList {
		if found[i] == 0 {
			continue
		}
		out = append(out, FactCheckObservation{
			Site:         site,
			ResultsFound: found[i],
			Status:       factCheckFound,
		})
	}
	return out
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
