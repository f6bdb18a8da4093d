// Package scoring computes how well a candidate fits a request's criteria.
package scoring

import "github.com/upb/llm-model-router/models"

// Scorer applies an ordered rule list. It is a pure function of its inputs
// and safe for concurrent use.
type Scorer struct {
	rules []Rule
}

// New creates a scorer with the default rules
func New() *Scorer {
	return NewWithRules(DefaultRules())
}

// NewWithRules creates a scorer evaluating rules in the given order
func NewWithRules(rules []Rule) *Scorer {
	return &Scorer{rules: append([]Rule(nil), rules...)}
}

// Rules returns the rules in evaluation order
func (s *Scorer) Rules() []Rule {
	return append([]Rule(nil), s.rules...)
}

// Score sums every rule's delta and collects fragments in rule order
func (s *Scorer) Score(criteria models.Criteria, candidate models.Candidate) models.ScoredCandidate {
	scored := models.ScoredCandidate{
		Candidate: candidate,
		Reasons:   []string{},
	}
	for _, rule := range s.rules {
		delta, reason := rule.Apply(criteria, candidate)
		scored.Score += delta
		if reason != "" {
			scored.Reasons = append(scored.Reasons, reason)
		}
	}
	return scored
}
