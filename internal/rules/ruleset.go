// Package rules holds the data-driven rule sets and the evaluator that folds
// TenancyFacts over them.
//
// A RuleSet is scoped to one jurisdiction and topic and is loaded from YAML.
// Rules are independent predicates: no rule reads another rule's outcome.
// Tier resolution is explicit:
//  1. the highest-ranked tier among matched rules wins
//  2. among matched rules of that tier, the earliest declared rule decides
//  3. with no match, the lowest tier applies
package rules

import (
	"fmt"
	"strings"

	"letwise/internal/facts"
	"letwise/internal/referencedata"
)

// Tier is a discrete classification bucket. Its rank comes from the owning
// RuleSet's Tiers list (lowest first).
type Tier string

// Operator is a condition comparison. Numeric operators are lower bounds so
// raising a count can only add matches, never remove them.
type Operator string

const (
	OpGTE    Operator = "gte"
	OpGT     Operator = "gt"
	OpEQ     Operator = "eq"
	OpIn     Operator = "in"
	OpIsTrue Operator = "is_true"
)

// Condition tests one fact. All conditions of a rule must hold.
type Condition struct {
	Field  facts.Field `yaml:"field"`
	Op     Operator    `yaml:"op"`
	Value  int64       `yaml:"value,omitempty"`
	Values []string    `yaml:"values,omitempty"`
}

// Rule is a named predicate that, when matched, proposes its Tier.
// Advisory rules encode thresholds with no statutory basis; they are
// configurable data and render with an advisory flag.
type Rule struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Tier        Tier        `yaml:"tier"`
	Advisory    bool        `yaml:"advisory,omitempty"`
	Conditions  []Condition `yaml:"conditions"`
}

// RuleSet is a versioned, jurisdiction-and-topic-scoped collection of rules.
// Rule order is significant: it is the documented tie-break.
type RuleSet struct {
	ID             string                     `yaml:"id"`
	Version        string                     `yaml:"version"`
	Jurisdiction   referencedata.Jurisdiction `yaml:"jurisdiction"`
	Topic          facts.Topic                `yaml:"topic"`
	DocumentKind   string                     `yaml:"document_kind"`
	Title          string                     `yaml:"title"`
	Tiers          []Tier                     `yaml:"tiers"`
	EvidenceFields []facts.Field              `yaml:"evidence_fields,omitempty"`
	Rules          []Rule                     `yaml:"rules"`
}

// Rank returns the position of a tier in the set's ordering, or -1.
func (rs RuleSet) Rank(t Tier) int {
	for i, tier := range rs.Tiers {
		if tier == t {
			return i
		}
	}
	return -1
}

// LowestTier is the default outcome when nothing matches.
func (rs RuleSet) LowestTier() Tier {
	if len(rs.Tiers) == 0 {
		return ""
	}
	return rs.Tiers[0]
}

// TopTier is the most severe tier.
func (rs RuleSet) TopTier() Tier {
	if len(rs.Tiers) == 0 {
		return ""
	}
	return rs.Tiers[len(rs.Tiers)-1]
}

// Validate checks the set is self-consistent before it is registered.
func (rs RuleSet) Validate() error {
	if strings.TrimSpace(rs.ID) == "" {
		return fmt.Errorf("rule set id is required")
	}
	if rs.Version == "" {
		return fmt.Errorf("rule set %s: version is required", rs.ID)
	}
	if _, ok := referencedata.ParseJurisdiction(string(rs.Jurisdiction)); !ok {
		return fmt.Errorf("rule set %s: unknown jurisdiction %q", rs.ID, rs.Jurisdiction)
	}
	if !facts.SupportedTopic(rs.Topic) {
		return fmt.Errorf("rule set %s: unknown topic %q", rs.ID, rs.Topic)
	}
	if rs.DocumentKind == "" {
		return fmt.Errorf("rule set %s: document_kind is required", rs.ID)
	}
	if len(rs.Tiers) == 0 {
		return fmt.Errorf("rule set %s: at least one tier is required", rs.ID)
	}
	seenTier := make(map[Tier]bool, len(rs.Tiers))
	for _, t := range rs.Tiers {
		if t == "" || seenTier[t] {
			return fmt.Errorf("rule set %s: tier %q is empty or repeated", rs.ID, t)
		}
		seenTier[t] = true
	}
	for _, f := range rs.EvidenceFields {
		if kind, ok := facts.KindOf(f); !ok || kind != facts.KindNumber {
			return fmt.Errorf("rule set %s: evidence field %q must be a known numeric field", rs.ID, f)
		}
	}
	if len(rs.Rules) == 0 {
		return fmt.Errorf("rule set %s: at least one rule is required", rs.ID)
	}
	seenRule := make(map[string]bool, len(rs.Rules))
	for _, r := range rs.Rules {
		if r.ID == "" || seenRule[r.ID] {
			return fmt.Errorf("rule set %s: rule id %q is empty or repeated", rs.ID, r.ID)
		}
		seenRule[r.ID] = true
		if !seenTier[r.Tier] {
			return fmt.Errorf("rule %s: tier %q is not declared", r.ID, r.Tier)
		}
		if len(r.Conditions) == 0 {
			return fmt.Errorf("rule %s: at least one condition is required", r.ID)
		}
		for _, c := range r.Conditions {
			if err := c.validate(); err != nil {
				return fmt.Errorf("rule %s: %w", r.ID, err)
			}
		}
	}
	return nil
}

func (c Condition) validate() error {
	kind, ok := facts.KindOf(c.Field)
	if !ok {
		return fmt.Errorf("unknown field %q", c.Field)
	}
	switch c.Op {
	case OpGTE, OpGT, OpEQ, OpIsTrue:
		if kind != facts.KindNumber {
			return fmt.Errorf("operator %s needs a numeric field, %q is text", c.Op, c.Field)
		}
	case OpIn:
		if kind != facts.KindText {
			return fmt.Errorf("operator in needs a text field, %q is numeric", c.Field)
		}
		if len(c.Values) == 0 {
			return fmt.Errorf("operator in on %q needs values", c.Field)
		}
	default:
		return fmt.Errorf("unknown operator %q", c.Op)
	}
	return nil
}
