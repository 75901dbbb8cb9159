package factcheck

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"newsverifier/internal/cache"
)

const claimsBody = `{"claims":[{"text":"Summit cancelled","claimReview":[{"publisher":{"name":"PolitiFact","site":"politifact.com"},"url":"https://www.politifact.com/x","textualRating":"Pants on Fire"}]}]}`

func TestClaimsClientDecodesReviews(t *testing.T) {
	var gotQuery, gotPageSize string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotPageSize = r.URL.Query().Get("pageSize")
		_, _ = w.Write([]byte(claimsBody))
	}))
	defer srv.Close()

	client := NewClaimsClient("key", WithClaimsEndpoint(srv.URL))
	claims, err := client.SearchClaims(context.Background(), "example summit")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotQuery != "example summit" || gotPageSize != "5" {
		t.Errorf("unexpected params query=%q pageSize=%q", gotQuery, gotPageSize)
	}
	if len(claims) != 1 || len(claims[0].ClaimReview) != 1 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	review := claims[0].ClaimReview[0]
	if review.Publisher.Name != "PolitiFact" || review.TextualRating != "Pants on Fire" {
		t.Errorf("unexpected review: %+v", review)
	}
}

func TestClaimsClientCachesResponses(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(claimsBody))
	}))
	defer srv.Close()

	client := NewClaimsClient("key", WithClaimsEndpoint(srv.URL), WithClaimsCache(cache.NewMemory(0), time.Minute))
	for i := 0; i < 2; i++ {
		if _, err := client.SearchClaims(context.Background(), "q"); err != nil {
			t.Fatalf("search: %v", err)
		}
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected cached second call, got %d upstream calls", atomic.LoadInt32(&calls))
	}
}

func TestClaimsClientRequiresKey(t *testing.T) {
	_, err := NewClaimsClient("").SearchClaims(context.Background(), "q")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestSiteSearchCountsHeadings(t *testing.T) {
	var gotQ string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`<html><body><h3>One</h3><div><h3>Two</h3></div><h2>Not counted</h2></body></html>`))
	}))
	defer srv.Close()

	s := NewSiteSearch(0, WithSearchEndpoint(srv.URL))
	n, err := s.CountResults(context.Background(), "snopes.com", "example summit")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 headings, got %d", n)
	}
	if gotQ != "site:snopes.com example summit" {
		t.Errorf("q = %q", gotQ)
	}
}

func TestSiteSearchFailsOnStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := NewSiteSearch(0, WithSearchEndpoint(srv.URL)).CountResults(context.Background(), "a.com", "q"); err == nil {
		t.Fatalf("expected error")
	}
}
