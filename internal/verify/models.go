package verify

import (
	"encoding/json"
	"time"
)

// Status is the categorical verdict attached to a verification.
type Status string

const (
	StatusUnknown          Status = "Unknown"
	StatusHighlyLikelyTrue Status = "Highly Likely True"
	StatusLikelyTrue       Status = "Likely True"
	StatusPossiblyTrue     Status = "Possibly True"
	StatusQuestionable     Status = "Questionable"
	StatusLikelyFalse      Status = "Likely False or Unverified"
	StatusError            Status = "Error"
)

// MatchedSource is an external article judged similar enough to the headline
// to count as corroborating evidence.
type MatchedSource struct {
	SourceName       string  `json:"source"`
	Title            string  `json:"title"`
	URL              string  `json:"url"`
	PublishedAt      string  `json:"published_at,omitempty"`
	SimilarityScore  int     `json:"similarity_score"`
	Description      string  `json:"description"`
	Domain           string  `json:"domain"`
	ReputationWeight float64 `json:"reputation_weight"`
}

// SimilarHeadline is the reporting projection of a MatchedSource.
type SimilarHeadline struct {
	Title      string `json:"title"`
	Similarity int    `json:"similarity"`
	Source     string `json:"source"`
}

// FactCheckObservation records either a site-level hit count (coarse) or a
// specific claim review (fine). Coarse records carry ResultsFound and Status;
// fine records carry Rating and URL.
type FactCheckObservation struct {
	Site         string `json:"site"`
	ResultsFound int    `json:"results_found,omitempty"`
	Status       string `json:"status,omitempty"`
	Rating       string `json:"rating"`
	URL          string `json:"url,omitempty"`
}

// IsReview reports whether the observation is a fine-grained claim review.
func (o FactCheckObservation) IsReview() bool {
	return o.Status == ""
}

// MarshalJSON emits only the fields of the observation's own shape, so a
// review always carries rating and url even when they are empty.
func (o FactCheckObservation) MarshalJSON() ([]byte, error) {
	if o.IsReview() {
		return json.Marshal(struct {
			Site   string `json:"site"`
			Rating string `json:"rating"`
			URL    string `json:"url"`
		}{o.Site, o.Rating, o.URL})
	}
	return json.Marshal(struct {
		Site         string `json:"site"`
		ResultsFound int    `json:"results_found"`
		Status       string `json:"status"`
	}{o.Site, o.ResultsFound, o.Status})
}

// Summary is the best-effort what/when/where/why narrative.
type Summary struct {
	WhatHappened  string `json:"what_happened"`
	WhenHappened  string `json:"when_happened"`
	WhereHappened string `json:"where_happened"`
	WhyHappened   string `json:"why_happened"`
}

// Details holds counters and audit information for a verification.
type Details struct {
	TotalSourcesChecked int                    `json:"total_sources_checked"`
	MatchingSources     int                    `json:"matching_sources"`
	FactCheckResults    []FactCheckObservation `json:"fact_check_results"`
	VerificationMethod  []string               `json:"verification_method"`
	Reasoning           []string               `json:"reasoning"`
	Errors              map[string]string      `json:"errors,omitempty"`
}

// Result is the outcome of one verification call.
type Result struct {
	ID                 string            `json:"id"`
	Headline           string            `json:"headline"`
	CheckedAt          time.Time         `json:"checked_at"`
	AuthenticityScore  int               `json:"authenticity_score"`
	VerificationStatus Status            `json:"verification_status"`
	SourcesFound       []MatchedSource   `json:"sources_found"`
	SimilarHeadlines   []SimilarHeadline `json:"similar_headlines"`
	Summary            Summary           `json:"summary"`
	Details            Details           `json:"details"`
	Error              string            `json:"error,omitempty"`
}

func newResult(id, headline string, now time.Time) Result {
	return Result{
		ID:                 id,
		Headline:           headline,
		CheckedAt:          now,
		VerificationStatus: StatusUnknown,
		SourcesFound:       []MatchedSource{},
		SimilarHeadlines:   []SimilarHeadline{},
		Details: Details{
			FactCheckResults:   []FactCheckObservation{},
			VerificationMethod: []string{},
			Reasoning:          []string{},
		},
	}
}

// Evidence is the partial result contributed by a single collector.
type Evidence struct {
	Sources    []MatchedSource
	Similar    []SimilarHeadline
	FactChecks []FactCheckObservation
	Checked    int
	Matching   int
}

func (e *Evidence) addMatch(src MatchedSource) {
	e.Sources = append(e.Sources, src)
	e.Similar = append(e.Similar, SimilarHeadline{
		Title:      src.Title,
		Similarity: src.SimilarityScore,
		Source:     src.SourceName,
	})
	e.Matching++
}

func (e *Evidence) merge(other Evidence) {
	e.Sources = append(e.Sources, other.Sources...)
	e.Similar = append(e.Similar, other.Similar...)
	e.FactChecks = append(e.FactChecks, other.FactChecks...)
	e.Checked += other.Checked
	e.Matching += other.Matching
}

func (r *Result) apply(e Evidence) {
	r.SourcesFound = append(r.SourcesFound, e.Sources...)
	r.SimilarHeadlines = append(r.SimilarHeadlines, e.Similar...)
	r.Details.FactCheckResults = append(r.Details.FactCheckResults, e.FactChecks...)
	r.Details.TotalSourcesChecked += e.Checked
	r.Details.MatchingSources += e.Matching
}
