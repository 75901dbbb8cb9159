package verify

import (
	"fmt"
	"math"
	"strings"
)

// FalsehoodNote is the reasoning line added when a fact-check rates the claim false.
const FalsehoodNote = "Fact-check indicates falsehood"

var falseRatings = map[string]struct{}{
	"false":         {},
	"fake":          {},
	"pants on fire": {},
}

// Score computes the authenticity score and verdict from the evidence held
// in r. It only reads sources_found, similar_headlines and details, so the
// outcome does not depend on the order collectors finished in.
func Score(r *Result) {
	score := 0

	matching := r.Details.MatchingSources
	if bonus := sourceCountBonus(matching); bonus > 0 {
		score += bonus
		r.addReason(fmt.Sprintf("%d matching source(s): +%d", matching, bonus))
	}

	if len(r.SimilarHeadlines) > 0 {
		var total float64
		for _, h := range r.SimilarHeadlines {
			total += float64(h.Similarity)
		}
		avg := total / float64(len(r.SimilarHeadlines))
		bonus := int(math.Min(40, math.Max(0, (avg-DiscardBelow)*0.8)))
		score += bonus
		r.addReason(fmt.Sprintf("average headline similarity %.1f%%: +%d", avg, bonus))
	}

	if len(r.SourcesFound) > 0 {
		best := r.SourcesFound[0].ReputationWeight
		for _, s := range r.SourcesFound[1:] {
			if s.ReputationWeight > best {
				best = s.ReputationWeight
			}
		}
		bonus := int(15 * best)
		score += bonus
		r.addReason(fmt.Sprintf("most reputable source weight %.2f: +%d", best, bonus))
	}

	if len(r.Details.FactCheckResults) > 0 {
		if hasFalseRating(r.Details.FactCheckResults) {
			score -= 20
			r.addReason(FalsehoodNote)
		} else {
			score += 8
			r.addReason("fact-check coverage without false ratings: +8")
		}
	}

	score = clampScore(score)
	r.AuthenticityScore = score
	r.VerificationStatus = StatusFor(score)
}

// StatusFor maps a 0-100 score to its verdict label.
func StatusFor(score int) Status {
	switch {
	case score >= 80:
		return StatusHighlyLikelyTrue
	case score >= 60:
		return StatusLikelyTrue
	case score >= 40:
		return StatusPossiblyTrue
	case score >= 20:
		return StatusQuestionable
	default:
		return StatusLikelyFalse
	}
}

func sourceCountBonus(matching int) int {
	switch {
	case matching >= 4:
		return 45
	case matching >= 3:
		return 35
	case matching >= 2:
		return 25
	case matching >= 1:
		return 12
	default:
		return 0
	}
}

func hasFalseRating(observations []FactCheckObservation) bool {
	for _, o := range observations {
		if _, ok := falseRatings[strings.ToLower(o.Rating)]; ok {
			return true
		}
	}
	return false
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func (r *Result) addReason(note string) {
	r.Details.Reasoning = append(r.Details.Reasoning, note)
}
