package app

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"newsverifier/internal/config"
	"newsverifier/internal/newsapi"
	"newsverifier/internal/verify"
)

func TestNewWithSampleCorpus(t *testing.T) {
	cfg := config.Config{
		CorpusFile:        filepath.Join("..", "..", "data", "sample_articles.json"),
		RequestTimeout:    time.Second,
		DefaultReputation: 0.5,
		Sequential:        true,
	}

	a, err := New(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if a.Corpus == nil || a.Corpus.Len() != 5 {
		t.Fatalf("expected sample corpus to load")
	}
	if got := a.Verifier.Collectors.Names(); !reflect.DeepEqual(got, []string{verify.MethodSearchAPI}) {
		t.Fatalf("collectors = %v", got)
	}

	if _, err := a.Corpus.Add(newsapi.Article{
		Source:      newsapi.Source{Name: "Reuters"},
		Title:       "Harbour bridge reopens after repairs",
		URL:         "https://www.reuters.com/world/harbour-bridge",
		PublishedAt: time.Now().UTC().Add(-2 * time.Hour).Format(time.RFC3339),
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	r := a.Verifier.Verify(context.Background(), "Harbour bridge reopens after repairs")
	if r.Details.MatchingSources != 1 || r.SourcesFound[0].Domain != "reuters.com" {
		t.Fatalf("unexpected result: %+v", r.Details)
	}
}

func TestNewWithoutSearchBackendSkipsSearch(t *testing.T) {
	a, err := New(context.Background(), config.Config{DefaultReputation: 0.5}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Corpus != nil {
		t.Fatal("no corpus expected without ingestion")
	}
	if names := a.Verifier.Collectors.Names(); len(names) != 0 {
		t.Fatalf("collectors = %v, want none", names)
	}

	r := a.Verifier.Verify(context.Background(), "Harbour bridge reopens after repairs")
	if len(r.Details.VerificationMethod) != 0 || r.Details.TotalSourcesChecked != 0 {
		t.Fatalf("unexpected details: %+v", r.Details)
	}
}

func TestNewWithIngestUsesEmptyCorpus(t *testing.T) {
	a, err := New(context.Background(), config.Config{DefaultReputation: 0.5, Ingest: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Corpus == nil || a.Corpus.Len() != 0 {
		t.Fatal("expected an empty local corpus")
	}
	if got := a.Verifier.Collectors.Names(); !reflect.DeepEqual(got, []string{verify.MethodSearchAPI}) {
		t.Fatalf("collectors = %v", got)
	}
}

func TestNewRejectsMissingCorpus(t *testing.T) {
	cfg := config.Config{CorpusFile: filepath.Join(t.TempDir(), "missing.json")}
	if _, err := New(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected error for missing corpus file")
	}
}

func TestDomainWeightsOverride(t *testing.T) {
	weights := domainWeights(map[string]float64{"reuters.com": 0.2, "example.org": 0.9})
	if weights["reuters.com"] != 0.2 || weights["example.org"] != 0.9 || weights["bbc.com"] != 1.0 {
		t.Fatalf("weights = %v", weights)
	}
}
