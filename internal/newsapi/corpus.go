package newsapi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Corpus is an in-memory article store answering the same queries as the
// NewsAPI client. It is seeded from a JSON file and grows through ingestion.
type Corpus struct {
	mu       sync.RWMutex
	articles []Article
	now      func() time.Time
}

// NewCorpus constructs an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{now: time.Now}
}

// LoadCorpus reads a JSON array of articles from path.
func LoadCorpus(path string) (*Corpus, error) {
	if path == "" {
		return nil, errors.New("corpus requires a path")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file %s: %w", path, err)
	}
	articles, err := decodeArticles(raw)
	if err != nil {
		return nil, fmt.Errorf("decode corpus file %s: %w", path, err)
	}
	c := NewCorpus()
	c.articles = articles
	return c, nil
}

// Len returns the number of stored articles.
func (c *Corpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.articles)
}

// Add stores an article, replacing any existing one with the same URL.
func (c *Corpus) Add(a Article) (Article, error) {
	a.Title = strings.TrimSpace(a.Title)
	a.URL = strings.TrimSpace(a.URL)
	if a.Title == "" || a.URL == "" {
		return Article{}, errors.New("corpus: title and url are required")
	}
	if a.PublishedAt == "" {
		a.PublishedAt = c.now().UTC().Format(time.RFC3339)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for idx := range c.articles {
		if c.articles[idx].URL == a.URL {
			c.articles[idx] = a
			return a, nil
		}
	}
	c.articles = append(c.articles, a)
	return a, nil
}

type corpusHit struct {
	article   Article
	hits      int
	published time.Time
}

// Everything returns stored articles matching any query term.
func (c *Corpus) Everything(ctx context.Context, q Query) (*Response, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var terms []string
	for _, t := range strings.Fields(strings.ToLower(q.Q)) {
		if len(t) >= 3 {
			terms = append(terms, t)
		}
	}
	if len(terms) == 0 {
		return &Response{Status: "ok"}, nil
	}

	c.mu.RLock()
	matched := make([]corpusHit, 0, len(c.articles))
	for _, a := range c.articles {
		published, err := time.Parse(time.RFC3339, a.PublishedAt)
		if err == nil && !q.From.IsZero() && published.Before(q.From) {
			continue
		}
		text := strings.ToLower(a.Title + " " + a.Description)
		hits := 0
		for _, t := range terms {
			if strings.Contains(text, t) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		matched = append(matched, corpusHit{article: a, hits: hits, published: published})
	}
	c.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].hits != matched[j].hits {
			return matched[i].hits > matched[j].hits
		}
		return matched[i].published.After(matched[j].published)
	})

	if q.PageSize > 0 && len(matched) > q.PageSize {
		matched = matched[:q.PageSize]
	}

	out := make([]Article, 0, len(matched))
	for _, m := range matched {
		out = append(out, m.article)
	}
	return &Response{Status: "ok", TotalResults: len(out), Articles: out}, nil
}
