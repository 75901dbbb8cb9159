package verify

import (
	"context"
	"time"
)

// Collector tags recorded in details.verification_method.
const (
	MethodSearchAPI = "search-api"
	MethodFeeds     = "feeds"
	MethodFactCheck = "fact-check"
)

// Query is the shared input handed to every collector.
type Query struct {
	Headline string
	Keywords []string
	Now      time.Time
}

// Collector gathers one kind of evidence for a headline. A returned error
// means the whole pass failed; per-item failures are skipped internally.
// Evidence returned alongside an error is still merged.
type Collector interface {
	Name() string
	Collect(ctx context.Context, q Query) (Evidence, error)
}

// Registry keeps collectors in the order their evidence is merged.
type Registry struct {
	collectors []Collector
}

// NewRegistry builds a registry, ignoring nil collectors.
func NewRegistry(collectors ...Collector) *Registry {
	r := &Registry{}
	for _, c := range collectors {
		r.Add(c)
	}
	return r
}

// Add registers a collector after the existing ones.
func (r *Registry) Add(c Collector) {
	if c == nil {
		return
	}
	r.collectors = append(r.collectors, c)
}

// Names lists registered collector tags in merge order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.collectors))
	for _, c := range r.collectors {
		names = append(names, c.Name())
	}
	return names
}

// Len returns the number of registered collectors.
func (r *Registry) Len() int { return len(r.collectors) }
