package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// Sources lists the external sources consulted during verification.
type Sources struct {
	Feeds          []string           `yaml:"feeds"`
	FactCheckSites []string           `yaml:"fact_check_sites"`
	DomainWeights  map[string]float64 `yaml:"domain_weights"`
}

// DefaultSources returns the built-in feed and fact-check site lists.
func DefaultSources() Sources {
	return Sources{
		Feeds: []string{
			"https://feeds.bbci.co.uk/news/world/rss.xml",
			"https://feeds.npr.org/1004/rss.xml",
			"https://www.thehindu.com/news/national/feeder/default.rss",
			"https://indianexpress.com/feed/",
		},
		FactCheckSites: []string{
			"snopes.com",
			"factcheck.org",
			"politifact.com",
			"altnews.in",
		},
	}
}

// LoadSources reads the YAML sources file at path. A missing file yields the
// defaults; a list omitted from the file keeps its default.
func LoadSources(path string) (Sources, error) {
	src := DefaultSources()
	if path == "" {
		return src, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return src, nil
	}
	if err != nil {
		return Sources{}, fmt.Errorf("read sources file %s: %w", path, err)
	}

	var file Sources
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Sources{}, fmt.Errorf("parse sources file %s: %w", path, err)
	}

	if file.Feeds != nil {
		src.Feeds = cleanList(file.Feeds)
	}
	if file.FactCheckSites != nil {
		src.FactCheckSites = cleanList(file.FactCheckSites)
	}
	for domain, weight := range file.DomainWeights {
		if weight < 0 || weight > 1 {
			return Sources{}, fmt.Errorf("sources file %s: weight for %q must be within [0,1], got %v", path, domain, weight)
		}
	}
	src.DomainWeights = file.DomainWeights

	return src, nil
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
