package rules

import (
	"slices"

	"letwise/internal/facts"
)

// Reason explains how the resolved tier was reached.
type Reason string

const (
	ReasonRuleMatched   Reason = "rule_matched"
	ReasonNoRuleMatched Reason = "no_rule_matched"
	ReasonNoEvidence    Reason = "no_evidence"
)

// RuleEvaluation records one rule's outcome for explainability.
type RuleEvaluation struct {
	RuleID      string `json:"rule_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Tier        Tier   `json:"tier"`
	Advisory    bool   `json:"advisory"`
	Matched     bool   `json:"matched"`
}

// ClassificationResult is the outcome of evaluating facts against a rule set.
// Evaluations lists every rule in declaration order, so a result always cites
// the rules it was judged against.
type ClassificationResult struct {
	RuleSetID    string           `json:"rule_set_id"`
	Version      string           `json:"version"`
	Tier         Tier             `json:"tier"`
	Rank         int              `json:"rank"`
	TopRank      int              `json:"top_rank"`
	DecidingRule string           `json:"deciding_rule,omitempty"`
	Reason       Reason           `json:"reason"`
	Evaluations  []RuleEvaluation `json:"evaluations"`
}

// Matches returns matched evaluations in declaration order.
func (r ClassificationResult) Matches() []RuleEvaluation {
	out := make([]RuleEvaluation, 0, len(r.Evaluations))
	for _, e := range r.Evaluations {
		if e.Matched {
			out = append(out, e)
		}
	}
	return out
}

// Decider returns the evaluation that decided the tier, if any.
func (r ClassificationResult) Decider() (RuleEvaluation, bool) {
	for _, e := range r.Evaluations {
		if e.RuleID == r.DecidingRule && e.Matched {
			return e, true
		}
	}
	return RuleEvaluation{}, false
}

// IsTop reports whether the result sits in the most severe tier.
func (r ClassificationResult) IsTop() bool {
	return r.Rank == r.TopRank
}

// Evaluate folds the facts over the rule set. It is deterministic and has no
// side effects. When every evidence field is zero the lowest tier applies
// without testing rules: absence of evidence is not evidence of a breach.
func Evaluate(f facts.TenancyFacts, rs RuleSet) ClassificationResult {
	result := ClassificationResult{
		RuleSetID:   rs.ID,
		Version:     rs.Version,
		Tier:        rs.LowestTier(),
		Rank:        0,
		TopRank:     len(rs.Tiers) - 1,
		Reason:      ReasonNoRuleMatched,
		Evaluations: make([]RuleEvaluation, 0, len(rs.Rules)),
	}

	skip := noEvidence(f, rs.EvidenceFields)
	if skip {
		result.Reason = ReasonNoEvidence
	}

	best := -1
	for _, rule := range rs.Rules {
		matched := !skip && ruleMatches(f, rule)
		result.Evaluations = append(result.Evaluations, RuleEvaluation{
			RuleID:      rule.ID,
			Name:        rule.Name,
			Description: rule.Description,
			Tier:        rule.Tier,
			Advisory:    rule.Advisory,
			Matched:     matched,
		})
		if !matched {
			continue
		}
		// strictly greater keeps the earliest declared rule on ties
		if rank := rs.Rank(rule.Tier); rank > best {
			best = rank
			result.Tier = rule.Tier
			result.Rank = rank
			result.DecidingRule = rule.ID
			result.Reason = ReasonRuleMatched
		}
	}
	return result
}

func noEvidence(f facts.TenancyFacts, fields []facts.Field) bool {
	if len(fields) == 0 {
		return false
	}
	for _, field := range fields {
		if v, ok := f.Number(field); ok && v != 0 {
			return false
		}
	}
	return true
}

func ruleMatches(f facts.TenancyFacts, r Rule) bool {
	for _, c := range r.Conditions {
		if !conditionHolds(f, c) {
			return false
		}
	}
	return true
}

func conditionHolds(f facts.TenancyFacts, c Condition) bool {
	if c.Op == OpIn {
		v, ok := f.Text(c.Field)
		return ok && slices.Contains(c.Values, v)
	}
	v, ok := f.Number(c.Field)
	if !ok {
		return false
	}
	switch c.Op {
	case OpGTE:
		return v >= c.Value
	case OpGT:
		return v > c.Value
	case OpEQ:
		return v == c.Value
	case OpIsTrue:
		return v != 0
	}
	return false
}
