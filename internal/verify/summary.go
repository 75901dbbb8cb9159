package verify

import (
	"regexp"
	"strings"
)

const (
	noDateText     = "Date information not available"
	noLocationText = "Location information not clearly specified"
	noContextText  = "Additional context not available from sources"
	contextMinLen  = 50
	contextMaxLen  = 200
)

// locationPattern is a best-effort heuristic: "in"/"at" followed by a
// capitalised phrase that ends at punctuation or a reporting verb.
var locationPattern = regexp.MustCompile(`\b(?:in|at)\s+([A-Z][a-zA-Z\s]+?)(?:[,.]|\s+(?:said|reported|according))`)

// Summarize fills r.Summary from the most reputable matched source, with
// similarity breaking ties. It leaves r untouched when nothing matched.
func Summarize(r *Result) {
	best, ok := bestSource(r.SourcesFound)
	if !ok {
		return
	}

	r.Summary.WhatHappened = "Based on verification, the headline appears to be related to: " + best.Title

	if best.PublishedAt != "" {
		r.Summary.WhenHappened = "Originally reported around: " + best.PublishedAt
	} else {
		r.Summary.WhenHappened = noDateText
	}

	r.Summary.WhereHappened = noLocationText
	if m := locationPattern.FindStringSubmatch(best.Description); m != nil {
		r.Summary.WhereHappened = "Location mentioned: " + strings.TrimSpace(m[1])
	}

	r.Summary.WhyHappened = noContextText
	if desc := []rune(best.Description); len(desc) > contextMinLen {
		if len(desc) > contextMaxLen {
			desc = desc[:contextMaxLen]
		}
		r.Summary.WhyHappened = "Context: " + string(desc) + "..."
	}
}

// bestSource returns the first source with the highest (reputation, similarity).
func bestSource(sources []MatchedSource) (MatchedSource, bool) {
	if len(sources) == 0 {
		return MatchedSource{}, false
	}
	best := sources[0]
	for _, s := range sources[1:] {
		if s.ReputationWeight > best.ReputationWeight ||
			(s.ReputationWeight == best.ReputationWeight && s.SimilarityScore > best.SimilarityScore) {
			best = s
		}
	}
	return best, true
}

func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
