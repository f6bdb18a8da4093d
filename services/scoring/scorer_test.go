package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/llm-model-router/models"
)

func candidate(provider string, rt models.ResponseTime, accuracy int, in, out float64, caps ...string) models.Candidate {
	return models.Candidate{
		ID:           "test",
		Name:         "Test",
		Provider:     provider,
		Capabilities: caps,
		Pricing:      models.Pricing{InputRate: in, OutputRate: out},
		ResponseTime: rt,
		Accuracy:     accuracy,
	}
}

func TestScore_Rules(t *testing.T) {
	s := New()

	tests := []struct {
		name      string
		criteria  models.Criteria
		candidate models.Candidate
		wantScore int
		wantWhy   []string
	}{
		{
			name:      "no signals",
			criteria:  models.DefaultCriteria(),
			candidate: candidate("Other", models.ResponseTimeMedium, 90, 0.01, 0.03, "code"),
			wantScore: 0,
			wantWhy:   []string{},
		},
		{
			name:      "code capability",
			criteria:  models.Criteria{RequiresCode: true, Complexity: models.ComplexityMedium},
			candidate: candidate("Other", models.ResponseTimeMedium, 85, 0.01, 0.03, "code"),
			wantScore: 30,
			wantWhy:   []string{ReasonCoding},
		},
		{
			name:      "code without capability",
			criteria:  models.Criteria{RequiresCode: true, Complexity: models.ComplexityMedium},
			candidate: candidate("Other", models.ResponseTimeMedium, 85, 0.01, 0.03),
			wantScore: 0,
			wantWhy:   []string{},
		},
		{
			name:      "creative capability",
			criteria:  models.Criteria{RequiresCreative: true},
			candidate: candidate("Other", models.ResponseTimeMedium, 85, 0.01, 0.03, "creative-writing"),
			wantScore: 25,
			wantWhy:   []string{ReasonCreative},
		},
		{
			name:      "multimodal capability",
			criteria:  models.Criteria{RequiresMultimodal: true},
			candidate: candidate("Other", models.ResponseTimeMedium, 85, 0.01, 0.03, "multimodal"),
			wantScore: 35,
			wantWhy:   []string{ReasonMultimodal},
		},
		{
			name:      "speed fast",
			criteria:  models.Criteria{RequiresSpeed: true},
			candidate: candidate("Other", models.ResponseTimeFast, 85, 0.01, 0.03),
			wantScore: 20,
			wantWhy:   []string{ReasonFast},
		},
		{
			name:      "speed medium",
			criteria:  models.Criteria{RequiresSpeed: true},
			candidate: candidate("Other", models.ResponseTimeMedium, 85, 0.01, 0.03),
			wantScore: 10,
			wantWhy:   []string{},
		},
		{
			name:      "speed slow",
			criteria:  models.Criteria{RequiresSpeed: true},
			candidate: candidate("Other", models.ResponseTimeSlow, 85, 0.01, 0.03),
			wantScore: -10,
			wantWhy:   []string{},
		},
		{
			name:      "accuracy high",
			criteria:  models.Criteria{RequiresAccuracy: true},
			candidate: candidate("Other", models.ResponseTimeMedium, 95, 0.01, 0.03),
			wantScore: 30,
			wantWhy:   []string{ReasonAccuracy},
		},
		{
			name:      "accuracy below baseline",
			criteria:  models.Criteria{RequiresAccuracy: true},
			candidate: candidate("Other", models.ResponseTimeMedium, 70, 0.01, 0.03),
			wantScore: -20,
			wantWhy:   []string{},
		},
		{
			name:      "budget cheap",
			criteria:  models.Criteria{BudgetSensitive: true},
			candidate: candidate("Other", models.ResponseTimeMedium, 85, 0.0005, 0.0015),
			wantScore: 20,
			wantWhy:   []string{ReasonBudget},
		},
		{
			name:      "budget expensive",
			criteria:  models.Criteria{BudgetSensitive: true},
			candidate: candidate("Other", models.ResponseTimeMedium, 85, 0.015, 0.075),
			wantScore: -15,
			wantWhy:   []string{},
		},
		{
			name:      "budget middle",
			criteria:  models.Criteria{BudgetSensitive: true},
			candidate: candidate("Other", models.ResponseTimeMedium, 85, 0.01, 0.03),
			wantScore: 0,
			wantWhy:   []string{},
		},
		{
			name:      "high complexity accurate",
			criteria:  models.Criteria{Complexity: models.ComplexityHigh},
			candidate: candidate("Other", models.ResponseTimeMedium, 90, 0.01, 0.03),
			wantScore: 15,
			wantWhy:   []string{ReasonComplex},
		},
		{
			name:      "low complexity fast",
			criteria:  models.Criteria{Complexity: models.ComplexityLow},
			candidate: candidate("Other", models.ResponseTimeFast, 80, 0.01, 0.03),
			wantScore: 10,
			wantWhy:   []string{ReasonSimple},
		},
		{
			name:      "openai reasoning bonus",
			criteria:  models.Criteria{RequiresReasoning: true},
			candidate: candidate("OpenAI", models.ResponseTimeMedium, 85, 0.01, 0.03),
			wantScore: 5,
			wantWhy:   []string{},
		},
		{
			name:      "anthropic ignores code",
			criteria:  models.Criteria{RequiresCode: true},
			candidate: candidate("Anthropic", models.ResponseTimeMedium, 85, 0.01, 0.03),
			wantScore: 0,
			wantWhy:   []string{},
		},
		{
			name:      "google multimodal bonus",
			criteria:  models.Criteria{RequiresMultimodal: true},
			candidate: candidate("Google", models.ResponseTimeMedium, 85, 0.01, 0.03),
			wantScore: 5,
			wantWhy:   []string{},
		},
		{
			name:      "meta budget bonus",
			criteria:  models.Criteria{BudgetSensitive: true},
			candidate: candidate("Meta", models.ResponseTimeMedium, 85, 0.01, 0.03),
			wantScore: 5,
			wantWhy:   []string{},
		},
		{
			name: "combined in rule order",
			criteria: models.Criteria{
				RequiresCode:     true,
				RequiresSpeed:    true,
				RequiresAccuracy: true,
				Complexity:       models.ComplexityHigh,
			},
			candidate: candidate("OpenAI", models.ResponseTimeFast, 95, 0.01, 0.03, "code"),
			// 30 code + 20 fast + 30 accuracy + 15 complex + 5 provider
			wantScore: 100,
			wantWhy:   []string{ReasonCoding, ReasonFast, ReasonAccuracy, ReasonComplex},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.criteria, tt.candidate)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantWhy, got.Reasons)
			assert.Equal(t, tt.candidate.ID, got.Candidate.ID)
		})
	}
}

func TestScore_ReasoningIsJoinedAndLowerCased(t *testing.T) {
	c := candidate("OpenAI", models.ResponseTimeFast, 95, 0.01, 0.03, "code")
	got := New().Score(models.Criteria{RequiresCode: true, RequiresSpeed: true}, c)
	assert.Equal(t, "excellent for coding tasks, fast response time", got.Reasoning())
}

func TestScore_CapabilityMonotonicity(t *testing.T) {
	s := New()
	flags := []struct {
		name string
		set  func(*models.Criteria)
	}{
		{"code", func(c *models.Criteria) { c.RequiresCode = true }},
		{"creative", func(c *models.Criteria) { c.RequiresCreative = true }},
		{"reasoning", func(c *models.Criteria) { c.RequiresReasoning = true }},
		{"multimodal", func(c *models.Criteria) { c.RequiresMultimodal = true }},
	}
	candidates := []models.Candidate{
		candidate("OpenAI", models.ResponseTimeMedium, 95, 0.01, 0.03, "code", "reasoning", "creative-writing"),
		candidate("Google", models.ResponseTimeFast, 85, 0.0005, 0.0015, "multimodal"),
		candidate("Meta", models.ResponseTimeSlow, 70, 0.0007, 0.0009),
	}
	bases := []models.Criteria{
		models.DefaultCriteria(),
		{RequiresSpeed: true, BudgetSensitive: true, Complexity: models.ComplexityLow},
		{RequiresAccuracy: true, Complexity: models.ComplexityHigh},
	}

	for _, flag := range flags {
		for _, base := range bases {
			for _, m := range candidates {
				flipped := base
				flag.set(&flipped)
				before := s.Score(base, m).Score
				after := s.Score(flipped, m).Score
				assert.GreaterOrEqual(t, after, before, "flag %s on provider %s", flag.name, m.Provider)
			}
		}
	}
}

func TestScore_OrderIndependentTotal(t *testing.T) {
	rules := DefaultRules()
	reversed := make([]Rule, len(rules))
	for i, r := range rules {
		reversed[len(rules)-1-i] = r
	}

	criteria := models.Criteria{
		RequiresCode:      true,
		RequiresReasoning: true,
		RequiresSpeed:     true,
		RequiresAccuracy:  true,
		BudgetSensitive:   true,
		Complexity:        models.ComplexityHigh,
	}
	c := candidate("OpenAI", models.ResponseTimeFast, 92, 0.0005, 0.001, "code", "reasoning")

	forward := NewWithRules(rules).Score(criteria, c)
	backward := NewWithRules(reversed).Score(criteria, c)

	assert.Equal(t, forward.Score, backward.Score)
	assert.ElementsMatch(t, forward.Reasons, backward.Reasons)
}

func TestDefaultRules_Names(t *testing.T) {
	rules := New().Rules()
	require.Len(t, rules, 9)

	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	assert.Equal(t, []string{
		"code", "creative", "reasoning", "multimodal", "speed",
		"accuracy", "budget", "complexity", "provider_affinity",
	}, names)
}
