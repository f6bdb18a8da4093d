// Package selection ranks the catalog for a request and picks a backend.
package selection

import (
	"sort"

	"github.com/upb/llm-model-router/models"
	"github.com/upb/llm-model-router/services"
	"github.com/upb/llm-model-router/services/catalog"
	"github.com/upb/llm-model-router/services/scoring"
)

const (
	// MinConfidence and MaxConfidence bound the reported confidence
	MinConfidence = 60
	MaxConfidence = 95

	// MaxAlternatives caps the runner-up list
	MaxAlternatives = 3

	// FallbackReasoning is reported when no rule produced a fragment for the winner
	FallbackReasoning = "best overall match for your requirements"
)

// Selector ranks candidates with a Scorer
type Selector struct {
	scorer *scoring.Scorer
}

// New creates a selector. A nil scorer means the default rules.
func New(scorer *scoring.Scorer) *Selector {
	if scorer == nil {
		scorer = scoring.New()
	}
	return &Selector{scorer: scorer}
}

// Rank scores every candidate and orders them by descending score.
// Equal scores keep catalog order.
func (s *Selector) Rank(c *catalog.Catalog, criteria models.Criteria) ([]models.ScoredCandidate, error) {
	if c.Len() == 0 {
		return nil, services.ErrEmptyCatalog
	}

	candidates := c.All()
	ranking := make([]models.ScoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		ranking = append(ranking, s.scorer.Score(criteria, candidate))
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Score > ranking[j].Score
	})
	return ranking, nil
}

// Select picks the best candidate for criteria
func (s *Selector) Select(c *catalog.Catalog, criteria models.Criteria) (*models.SelectionResult, error) {
	ranking, err := s.Rank(c, criteria)
	if err != nil {
		return nil, err
	}
	return ResultFromRanking(ranking, 0), nil
}

// ResultFromRanking builds the result for ranking[chosen]; the alternatives are
// the best-ranked remaining entries.
func ResultFromRanking(ranking []models.ScoredCandidate, chosen int) *models.SelectionResult {
	top := ranking[chosen]

	reasoning := top.Reasoning()
	if reasoning == "" {
		reasoning = FallbackReasoning
	}

	alternatives := make([]models.Candidate, 0, MaxAlternatives)
	for i, scored := range ranking {
		if len(alternatives) == MaxAlternatives {
			break
		}
		if i == chosen {
			continue
		}
		alternatives = append(alternatives, scored.Candidate)
	}

	return &models.SelectionResult{
		SelectedModel: top.Candidate,
		Confidence:    Confidence(top.Score),
		Reasoning:     reasoning,
		Alternatives:  alternatives,
	}
}

// Confidence clamps a raw score into [MinConfidence, MaxConfidence]
func Confidence(score int) int {
	if score < MinConfidence {
		return MinConfidence
	}
	if score > MaxConfidence {
		return MaxConfidence
	}
	return score
}
