package verify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"newsverifier/internal/newsapi"
)

// Recency policy. Parse failures and feed entries are treated as recent;
// the scoring constants were tuned against this leniency.
const (
	SearchWindow               = 14 * 24 * time.Hour
	RecentWindow               = 21 * 24 * time.Hour
	AssumeRecentOnParseFailure = true
	FeedEntriesAlwaysRecent    = true

	searchLanguage = "en"
	searchSortBy   = "relevancy"
	searchPageSize = 50
)

// SearchCollector corroborates a headline against an article-search API.
type SearchCollector struct {
	Searcher   newsapi.Searcher
	Reputation ReputationTable
	Logger     zerolog.Logger
}

// Name implements Collector.
func (c *SearchCollector) Name() string { return MethodSearchAPI }

// Collect implements Collector.
func (c *SearchCollector) Collect(ctx context.Context, q Query) (Evidence, error) {
	var ev Evidence
	query := searchQuery(q.Headline, q.Keywords)
	c.Logger.Info().Str("query", query).Msg("searching articles")

	resp, err := c.Searcher.Everything(ctx, newsapi.Query{
		Q:        query,
		Language: searchLanguage,
		SortBy:   searchSortBy,
		From:     q.Now.Add(-SearchWindow),
		PageSize: searchPageSize,
	})
	if err != nil {
		return ev, fmt.Errorf("article search: %w", err)
	}

	ev.Checked = len(resp.Articles)
	seen := make(map[string]struct{}, len(resp.Articles))

	for _, article := range resp.Articles {
		if article.Title == "" {
			continue
		}
		scores := CompareHeadlines(q.Headline, article.Title)
		similarity := scores.Best()
		if similarity < DiscardBelow {
			continue
		}

		recent := isRecent(article.PublishedAt, q.Now)

		if article.URL == "" {
			continue
		}
		if _, dup := seen[article.URL]; dup {
			continue
		}
		seen[article.URL] = struct{}{}

		domain, weight := c.Reputation.Lookup(article.URL)

		c.Logger.Debug().
			Int("similarity", similarity).
			Int("ratio", scores.Ratio).
			Int("partial", scores.Partial).
			Int("token_sort", scores.TokenSort).
			Str("title", truncate(article.Title, 50)).
			Msg("article similarity")

		if similarity < MatchAtLeast || !recent {
			continue
		}
		c.Logger.Info().Str("source", article.Source.Name).Msg("adding matching source")
		ev.addMatch(MatchedSource{
			SourceName:       article.Source.Name,
			Title:            article.Title,
			URL:              article.URL,
			PublishedAt:      article.PublishedAt,
			SimilarityScore:  similarity,
			Description:      article.Description,
			Domain:           domain,
			ReputationWeight: weight,
		})
	}

	return ev, nil
}

func isRecent(publishedAt string, now time.Time) bool {
	if publishedAt == "" {
		return AssumeRecentOnParseFailure
	}
	published, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return AssumeRecentOnParseFailure
	}
	return now.Sub(published) <= RecentWindow
}
