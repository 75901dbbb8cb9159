package verify

import (
	"net/url"
	"strings"
)

// DefaultReputationWeight applies to domains missing from the table.
const DefaultReputationWeight = 0.5

// ReputationTable maps publication domains to a trust weight in [0,1].
type ReputationTable struct {
	weights  map[string]float64
	fallback float64
}

// NewReputationTable copies weights into a new table. Unknown domains get fallback.
func NewReputationTable(weights map[string]float64, fallback float64) ReputationTable {
	copied := make(map[string]float64, len(weights))
	for domain, w := range weights {
		copied[strings.ToLower(strings.TrimSpace(domain))] = w
	}
	return ReputationTable{weights: copied, fallback: fallback}
}

// DefaultReputation returns the built-in table.
func DefaultReputation() ReputationTable {
	return NewReputationTable(DefaultDomainWeights(), DefaultReputationWeight)
}

// DefaultDomainWeights lists the built-in publisher weights.
func DefaultDomainWeights() map[string]float64 {
	return map[string]float64{
		"bbc.co.uk":          1.0,
		"bbc.com":            1.0,
		"reuters.com":        1.0,
		"apnews.com":         0.95,
		"npr.org":            0.9,
		"cnn.com":            0.85,
		"thehindu.com":       0.85,
		"indiatimes.com":     0.75,
		"hindustantimes.com": 0.75,
		"indianexpress.com":  0.8,
		"ndtv.com":           0.75,
		"news18.com":         0.7,
		"firstpost.com":      0.65,
		"deccanherald.com":   0.7,
		"republicworld.com":  0.4,
	}
}

// Weight returns the weight for domain.
func (t ReputationTable) Weight(domain string) float64 {
	if w, ok := t.weights[strings.ToLower(domain)]; ok {
		return w
	}
	return t.fallback
}

// Lookup resolves the domain of rawURL and its weight.
func (t ReputationTable) Lookup(rawURL string) (string, float64) {
	domain := DomainOf(rawURL)
	return domain, t.Weight(domain)
}

// DomainOf returns the host of rawURL with a leading "www." removed.
// Unparseable input yields an empty domain.
func DomainOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
