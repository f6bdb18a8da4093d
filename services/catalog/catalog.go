// Package catalog holds the ordered, immutable set of candidate backends
// that the selector ranks, and the machinery to load and hot-swap it.
package catalog

import (
	"fmt"

	"github.com/upb/llm-model-router/models"
	"github.com/upb/llm-model-router/services"
	"github.com/upb/llm-model-router/utils"
)

// Catalog is an ordered set of candidates with unique ids.
// A Catalog is never mutated after New returns, so concurrent readers need no lock.
type Catalog struct {
	candidates []models.Candidate
	index      map[string]int
}

// New validates candidates and returns an immutable catalog preserving their order.
// It fails with a configuration error when the list is empty, an id repeats,
// or a record fails validation.
func New(candidates []models.Candidate) (*Catalog, error) {
	if len(candidates) == 0 {
		return nil, services.NewConfigurationError("candidate catalog is empty", nil)
	}

	c := &Catalog{
		candidates: make([]models.Candidate, 0, len(candidates)),
		index:      make(map[string]int, len(candidates)),
	}

	for i, candidate := range candidates {
		if err := utils.ValidateStruct(&candidate); err != nil {
			return nil, services.NewConfigurationError(
				fmt.Sprintf("invalid candidate record at position %d", i), err).
				WithDetail("id", candidate.ID)
		}
		if _, exists := c.index[candidate.ID]; exists {
			return nil, services.NewConfigurationError("duplicate candidate id", nil).
				WithDetail("id", candidate.ID)
		}

		c.index[candidate.ID] = len(c.candidates)
		c.candidates = append(c.candidates, cloneCandidate(candidate))
	}

	return c, nil
}

// All returns the candidates in registry order
func (c *Catalog) All() []models.Candidate {
	if c == nil {
		return nil
	}
	out := make([]models.Candidate, len(c.candidates))
	copy(out, c.candidates)
	return out
}

// Get looks up a candidate by id
func (c *Catalog) Get(id string) (models.Candidate, bool) {
	if c == nil {
		return models.Candidate{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return models.Candidate{}, false
	}
	return c.candidates[i], true
}

// Len returns the number of candidates
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.candidates)
}

// IDs returns candidate ids in registry order
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, len(c.candidates))
	for i, candidate := range c.candidates {
		ids[i] = candidate.ID
	}
	return ids
}

func cloneCandidate(c models.Candidate) models.Candidate {
	c.Capabilities = append([]string(nil), c.Capabilities...)
	c.Strengths = append([]string(nil), c.Strengths...)
	return c
}
