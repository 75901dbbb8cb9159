package verify

import (
	"context"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"newsverifier/internal/feeds"
)

const defaultFeedTitle = "RSS Feed"

var plainTextPolicy = bluemonday.StrictPolicy()

// FeedCollector corroborates a headline against configured syndication feeds.
type FeedCollector struct {
	Reader     feeds.Reader
	FeedURLs   []string
	Reputation ReputationTable
	Logger     zerolog.Logger
	Sequential bool
}

// Name implements Collector.
func (c *FeedCollector) Name() string { return MethodFeeds }

// Collect implements Collector. A feed that cannot be fetched is skipped.
func (c *FeedCollector) Collect(ctx context.Context, q Query) (Evidence, error) {
	parts := make([]Evidence, len(c.FeedURLs))

	if c.Sequential {
		for i, feedURL := range c.FeedURLs {
			parts[i] = c.collectFeed(ctx, feedURL, q)
		}
	} else {
		var wg sync.WaitGroup
		for i, feedURL := range c.FeedURLs {
			wg.Add(1)
			go func(i int, feedURL string) {
				defer wg.Done()
				parts[i] = c.collectFeed(ctx, feedURL, q)
			}(i, feedURL)
		}
		wg.Wait()
	}

	var ev Evidence
	for _, part := range parts {
		ev.merge(part)
	}
	return ev, nil
}

func (c *FeedCollector) collectFeed(ctx context.Context, feedURL string, q Query) Evidence {
	var ev Evidence
	feed, err := c.Reader.Fetch(ctx, feedURL)
	if err != nil {
		c.Logger.Warn().Err(err).Str("feed", feedURL).Msg("failed to parse feed")
		return ev
	}

	ev.Checked = len(feed.Items)
	sourceName := strings.TrimSpace(feed.Title)
	if sourceName == "" {
		sourceName = defaultFeedTitle
	}

	for _, item := range feed.Items {
		if item == nil || strings.TrimSpace(item.Title) == "" {
			continue
		}
		similarity := Similarity(q.Headline, item.Title)
		if similarity < DiscardBelow {
			continue
		}
		if !FeedEntriesAlwaysRecent {
			continue
		}

		domain, weight := c.Reputation.Lookup(item.Link)
		ev.addMatch(MatchedSource{
			SourceName:       sourceName,
			Title:            item.Title,
			URL:              item.Link,
			PublishedAt:      item.Published,
			SimilarityScore:  similarity,
			Description:      entryText(item),
			Domain:           domain,
			ReputationWeight: weight,
		})
	}
	return ev
}

// entryText returns the entry summary as plain text.
func entryText(item *gofeed.Item) string {
	if item.Description == "" {
		return ""
	}
	text := html.UnescapeString(plainTextPolicy.Sanitize(item.Description))
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}
