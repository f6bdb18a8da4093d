package scoring

import "github.com/upb/llm-model-router/models"

// Rule is one scoring contribution. Apply returns the score delta and an
// optional reasoning fragment; an empty fragment means nothing is reported.
type Rule struct {
	Name  string
	Apply func(c models.Criteria, m models.Candidate) (int, string)
}

// Reasoning fragments emitted by the default rules
const (
	ReasonCoding     = "excellent for coding tasks"
	ReasonCreative   = "strong creative capabilities"
	ReasonReasoning  = "advanced reasoning abilities"
	ReasonMultimodal = "multimodal support"
	ReasonFast       = "fast response time"
	ReasonAccuracy   = "high accuracy"
	ReasonBudget     = "cost-effective"
	ReasonComplex    = "handles complex tasks well"
	ReasonSimple     = "efficient for simple tasks"
)

// Capability names referenced by the default rules
const (
	CapabilityCode            = "code"
	CapabilityCreativeWriting = "creative-writing"
	CapabilityReasoning       = "reasoning"
	CapabilityMultimodal      = "multimodal"
)

const (
	highAccuracyThreshold = 90
	accuracyBaseline      = 80
	cheapAverageRate      = 0.002
	expensiveAverageRate  = 0.02
	providerBonus         = 5
)

// DefaultRules returns the scoring rules in evaluation order.
// The total is order independent; the order only fixes how fragments read.
func DefaultRules() []Rule {
	return []Rule{
		capabilityRule("code", CapabilityCode, 30, ReasonCoding,
			func(c models.Criteria) bool { return c.RequiresCode }),
		capabilityRule("creative", CapabilityCreativeWriting, 25, ReasonCreative,
			func(c models.Criteria) bool { return c.RequiresCreative }),
		capabilityRule("reasoning", CapabilityReasoning, 25, ReasonReasoning,
			func(c models.Criteria) bool { return c.RequiresReasoning }),
		capabilityRule("multimodal", CapabilityMultimodal, 35, ReasonMultimodal,
			func(c models.Criteria) bool { return c.RequiresMultimodal }),
		{Name: "speed", Apply: speedRule},
		{Name: "accuracy", Apply: accuracyRule},
		{Name: "budget", Apply: budgetRule},
		{Name: "complexity", Apply: complexityRule},
		{Name: "provider_affinity", Apply: providerRule},
	}
}

func capabilityRule(name, capability string, weight int, reason string, wants func(models.Criteria) bool) Rule {
	return Rule{
		Name: name,
		Apply: func(c models.Criteria, m models.Candidate) (int, string) {
			if wants(c) && m.HasCapability(capability) {
				return weight, reason
			}
			return 0, ""
		},
	}
}

func speedRule(c models.Criteria, m models.Candidate) (int, string) {
	if !c.RequiresSpeed {
		return 0, ""
	}
	switch m.ResponseTime {
	case models.ResponseTimeFast:
		return 20, ReasonFast
	case models.ResponseTimeMedium:
		return 10, ""
	case models.ResponseTimeSlow:
		return -10, ""
	}
	return 0, ""
}

func accuracyRule(c models.Criteria, m models.Candidate) (int, string) {
	if !c.RequiresAccuracy {
		return 0, ""
	}
	delta := (m.Accuracy - accuracyBaseline) * 2
	if m.Accuracy >= highAccuracyThreshold {
		return delta, ReasonAccuracy
	}
	return delta, ""
}

func budgetRule(c models.Criteria, m models.Candidate) (int, string) {
	if !c.BudgetSensitive {
		return 0, ""
	}
	avg := m.Pricing.Average()
	switch {
	case avg < cheapAverageRate:
		return 20, ReasonBudget
	case avg > expensiveAverageRate:
		return -15, ""
	}
	return 0, ""
}

// complexityRule covers both ends of the scale; complexity is never high and low at once
func complexityRule(c models.Criteria, m models.Candidate) (int, string) {
	switch {
	case c.Complexity == models.ComplexityHigh && m.Accuracy >= highAccuracyThreshold:
		return 15, ReasonComplex
	case c.Complexity == models.ComplexityLow && m.ResponseTime == models.ResponseTimeFast:
		return 10, ReasonSimple
	}
	return 0, ""
}

func providerRule(c models.Criteria, m models.Candidate) (int, string) {
	var applies bool
	switch m.Provider {
	case "OpenAI":
		applies = c.RequiresCode || c.RequiresReasoning
	case "Anthropic":
		applies = c.RequiresReasoning
	case "Google":
		applies = c.RequiresSpeed || c.RequiresMultimodal
	case "Meta":
		applies = c.BudgetSensitive || c.RequiresCode
	}
	if applies {
		return providerBonus, ""
	}
	return 0, ""
}
