package verify

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"newsverifier/internal/factcheck"
	"newsverifier/internal/newsapi"
)

const testHeadline = "Example City hosts major summit"

var testNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

type fakeSearcher struct {
	mu       sync.Mutex
	articles []newsapi.Article
	err      error
	queries  []newsapi.Query
}

func (f *fakeSearcher) Everything(_ context.Context, q newsapi.Query) (*newsapi.Response, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &newsapi.Response{Status: "ok", TotalResults: len(f.articles), Articles: f.articles}, nil
}

type fakeFeeds map[string]*gofeed.Feed

func (f fakeFeeds) Fetch(_ context.Context, url string) (*gofeed.Feed, error) {
	feed, ok := f[url]
	if !ok {
		return nil, errors.New("feed unavailable")
	}
	return feed, nil
}

type fakeClaims struct {
	claims []factcheck.Claim
	err    error
	query  string
}

func (f *fakeClaims) SearchClaims(_ context.Context, query string) ([]factcheck.Claim, error) {
	f.query = query
	return f.claims, f.err
}

type fakeSites map[string]int

func (f fakeSites) CountResults(_ context.Context, site, _ string) (int, error) {
	n, ok := f[site]
	if !ok {
		return 0, errors.New("site unreachable")
	}
	return n, nil
}

func testQuery() Query {
	return Query{Headline: testHeadline, Keywords: ExtractKeywords(testHeadline), Now: testNow}
}

func TestSearchCollectorFiltersAndMatches(t *testing.T) {
	searcher := &fakeSearcher{articles: []newsapi.Article{
		{Source: newsapi.Source{Name: "Reuters"}, Title: testHeadline, URL: "https://www.reuters.com/world/summit", PublishedAt: "2026-10-15T08:00:00Z"},
		{Source: newsapi.Source{Name: "Reuters"}, Title: testHeadline, URL: "https://www.reuters.com/world/summit", PublishedAt: "2026-10-15T08:00:00Z"},
		{Source: newsapi.Source{Name: "BBC"}, Title: testHeadline + " on climate", URL: "https://www.bbc.com/news/1", PublishedAt: "2026-09-01T08:00:00Z"},
		{Source: newsapi.Source{Name: "Local"}, Title: "Leaders arrive as Example City hosts summit", URL: "https://example.org/a", PublishedAt: "yesterday"},
		{Source: newsapi.Source{Name: "Local"}, Title: "Example City summit ends in chaos, sources claim", URL: "https://example.org/b"},
		{Source: newsapi.Source{Name: "Markets"}, Title: "Stock markets fall sharply", URL: "https://example.org/c"},
	}}
	c := &SearchCollector{Searcher: searcher, Reputation: DefaultReputation(), Logger: zerolog.Nop()}

	ev, err := c.Collect(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if ev.Checked != 6 {
		t.Errorf("checked = %d, want 6", ev.Checked)
	}
	if ev.Matching != 2 || len(ev.Sources) != 2 {
		t.Fatalf("matching = %d (%d sources), want 2", ev.Matching, len(ev.Sources))
	}

	first := ev.Sources[0]
	if first.Domain != "reuters.com" || first.ReputationWeight != 1.0 || first.SimilarityScore != 100 {
		t.Errorf("unexpected first source: %+v", first)
	}
	second := ev.Sources[1]
	if second.Domain != "example.org" || second.ReputationWeight != DefaultReputationWeight {
		t.Errorf("unexpected second source: %+v", second)
	}
	if second.SimilarityScore < MatchAtLeast {
		t.Errorf("second source similarity %d below match threshold", second.SimilarityScore)
	}
	if ev.Similar[1].Source != "Local" {
		t.Errorf("similar headline source = %q", ev.Similar[1].Source)
	}

	if len(searcher.queries) != 1 {
		t.Fatalf("expected one search, got %d", len(searcher.queries))
	}
	q := searcher.queries[0]
	if q.Q != "example city example city" || q.PageSize != searchPageSize || q.Language != "en" {
		t.Errorf("unexpected query: %+v", q)
	}
	if !q.From.Equal(testNow.Add(-SearchWindow)) {
		t.Errorf("from = %s", q.From)
	}
}

func TestSearchCollectorWrapsSearchFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	c := &SearchCollector{Searcher: &fakeSearcher{err: boom}, Reputation: DefaultReputation(), Logger: zerolog.Nop()}

	_, err := c.Collect(context.Background(), testQuery())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped search error, got %v", err)
	}
}

func TestIsRecent(t *testing.T) {
	if !isRecent("2026-10-01T00:00:00Z", testNow) {
		t.Error("16 days old should be recent")
	}
	if isRecent("2026-09-20T00:00:00Z", testNow) {
		t.Error("27 days old should not be recent")
	}
	if isRecent("not a date", testNow) != AssumeRecentOnParseFailure {
		t.Error("unparseable dates should follow the parse-failure policy")
	}
}

func newFeedFixture() fakeFeeds {
	return fakeFeeds{
		"https://feeds.example/world": {
			Title: "World News",
			Items: []*gofeed.Item{
				{Title: "Example City mayor resigns", Link: "https://www.bbc.co.uk/news/2", Description: "<p>Mayor &amp; council</p>", Published: "Fri, 16 Oct 2026 09:00:00 GMT"},
				{Title: "Weather turns cold", Link: "https://www.bbc.co.uk/news/3"},
			},
		},
		"https://feeds.example/untitled": {
			Items: []*gofeed.Item{
				{Title: "Major summit hosted by Example City", Link: "https://unknown.net/x"},
			},
		},
	}
}

func TestFeedCollectorSkipsBrokenFeeds(t *testing.T) {
	for _, sequential := range []bool{true, false} {
		c := &FeedCollector{
			Reader: newFeedFixture(),
			FeedURLs: []string{
				"https://feeds.example/world",
				"https://feeds.example/broken",
				"https://feeds.example/untitled",
			},
			Reputation: DefaultReputation(),
			Logger:     zerolog.Nop(),
			Sequential: sequential,
		}

		ev, err := c.Collect(context.Background(), testQuery())
		if err != nil {
			t.Fatalf("Collect: %v", err)
		}
		if ev.Checked != 3 {
			t.Errorf("sequential=%v: checked = %d, want 3", sequential, ev.Checked)
		}
		if ev.Matching != 2 || len(ev.Sources) != 2 {
			t.Fatalf("sequential=%v: matching = %d, want 2", sequential, ev.Matching)
		}

		world := ev.Sources[0]
		if world.SourceName != "World News" || world.Domain != "bbc.co.uk" || world.ReputationWeight != 1.0 {
			t.Errorf("sequential=%v: unexpected first source %+v", sequential, world)
		}
		if world.Description != "Mayor & council" {
			t.Errorf("sequential=%v: description = %q", sequential, world.Description)
		}
		if ev.Sources[1].SourceName != defaultFeedTitle {
			t.Errorf("sequential=%v: untitled feed name = %q", sequential, ev.Sources[1].SourceName)
		}
	}
}

func TestFactCheckCollectorObservations(t *testing.T) {
	claims := &fakeClaims{claims: []factcheck.Claim{{
		Text: "Example City hosts summit",
		ClaimReview: []factcheck.ClaimReview{
			{Publisher: factcheck.Publisher{Name: "PolitiFact"}, URL: "https://www.politifact.com/x", TextualRating: "False"},
			{URL: "https://checker.example/y", TextualRating: "Mostly True"},
		},
	}}}
	c := &FactCheckCollector{
		Claims:   claims,
		Sites:    fakeSites{"snopes.com": 3, "factcheck.org": 0},
		SiteList: []string{"snopes.com", "politifact.com", "factcheck.org"},
		Logger:   zerolog.Nop(),
	}

	ev, err := c.Collect(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if claims.query != "example city example city" {
		t.Errorf("claims query = %q", claims.query)
	}

	want := []FactCheckObservation{
		{Site: factCheckAPISite, ResultsFound: 1, Status: factCheckFound},
		{Site: "PolitiFact", Rating: "false", URL: "https://www.politifact.com/x"},
		{Site: factCheckReviewSite, Rating: "mostly true", URL: "https://checker.example/y"},
		{Site: "snopes.com", ResultsFound: 3, Status: factCheckFound},
	}
	if !reflect.DeepEqual(ev.FactChecks, want) {
		t.Fatalf("fact checks = %+v\nwant %+v", ev.FactChecks, want)
	}
	if ev.Checked != 0 || ev.Matching != 0 {
		t.Errorf("fact checks should not count as sources: %+v", ev)
	}
}

func TestFactCheckCollectorToleratesClaimsFailure(t *testing.T) {
	c := &FactCheckCollector{
		Claims: &fakeClaims{err: errors.New("forbidden")},
		Logger: zerolog.Nop(),
	}
	ev, err := c.Collect(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(ev.FactChecks) != 0 {
		t.Fatalf("expected no observations, got %+v", ev.FactChecks)
	}
}
