package rules

import (
	"fmt"
	"sort"

	"letwise/internal/facts"
	"letwise/internal/referencedata"
	"letwise/pkg/platform/sentinel"
)

type registryKey struct {
	jurisdiction referencedata.Jurisdiction
	topic        facts.Topic
}

// Registry indexes rule sets by jurisdiction and topic. It is built once and
// read-only afterwards.
type Registry struct {
	sets map[registryKey]RuleSet
}

// NewRegistry validates and indexes rule sets. Two sets for the same
// jurisdiction and topic are rejected.
func NewRegistry(sets ...RuleSet) (*Registry, error) {
	r := &Registry{sets: make(map[registryKey]RuleSet, len(sets))}
	for _, rs := range sets {
		if err := rs.Validate(); err != nil {
			return nil, err
		}
		key := registryKey{jurisdiction: rs.Jurisdiction, topic: rs.Topic}
		if existing, ok := r.sets[key]; ok {
			return nil, fmt.Errorf("rule sets %s and %s both cover %s/%s", existing.ID, rs.ID, rs.Jurisdiction, rs.Topic)
		}
		r.sets[key] = rs
	}
	return r, nil
}

// Lookup returns the rule set for a jurisdiction and topic.
func (r *Registry) Lookup(j referencedata.Jurisdiction, t facts.Topic) (RuleSet, error) {
	rs, ok := r.sets[registryKey{jurisdiction: j, topic: t}]
	if !ok {
		return RuleSet{}, fmt.Errorf("rule set for %s/%s: %w", j, t, sentinel.ErrNotFound)
	}
	return rs, nil
}

// All returns every registered set ordered by topic then jurisdiction.
func (r *Registry) All() []RuleSet {
	out := make([]RuleSet, 0, len(r.sets))
	for _, rs := range r.sets {
		out = append(out, rs)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Topic != out[j].Topic {
			return out[i].Topic < out[j].Topic
		}
		return out[i].Jurisdiction < out[j].Jurisdiction
	})
	return out
}
