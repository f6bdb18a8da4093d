// Package analyzer infers routing criteria from free-text requests.
package analyzer

import (
	"strings"

	"github.com/upb/llm-model-router/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Keywords holds the term lists that switch on each criteria signal.
// A signal fires when any of its terms occurs as a substring of the lower-cased text.
type Keywords struct {
	Code           []string
	Creative       []string
	Reasoning      []string
	Speed          []string
	Accuracy       []string
	Budget         []string
	Multimodal     []string
	LowComplexity  []string
	HighComplexity []string
}

// DefaultKeywords returns the built-in term lists
func DefaultKeywords() Keywords {
	return Keywords{
		Code: []string{
			"code", "program", "debug", "function", "algorithm", "script", "api",
			"database", "sql", "javascript", "python", "react", "html", "css",
		},
		Creative: []string{
			"write", "story", "poem", "creative", "blog", "article", "marketing",
			"content", "design", "brainstorm",
		},
		Reasoning: []string{
			"analyze", "compare", "explain", "reason", "logic", "problem", "solve",
			"strategy", "plan", "decision",
		},
		Speed:          []string{"quick", "fast", "urgent", "immediately", "asap", "now"},
		Accuracy:       []string{"accurate", "precise", "exact", "detailed", "thorough", "comprehensive", "research"},
		Budget:         []string{"cheap", "cost", "budget", "affordable", "economical"},
		Multimodal:     []string{"image", "picture", "photo", "visual", "diagram", "chart", "multimodal"},
		LowComplexity:  []string{"simple", "basic", "easy", "quick"},
		HighComplexity: []string{"complex", "advanced", "detailed", "comprehensive", "difficult"},
	}
}

// Analyzer maps request text to Criteria. It holds no mutable state and is
// safe for concurrent use.
type Analyzer struct {
	keywords Keywords
}

// New creates an analyzer with the built-in keyword lists
func New() *Analyzer {
	return NewWithKeywords(DefaultKeywords())
}

// NewWithKeywords creates an analyzer with custom keyword lists.
// Terms are lower-cased once here so matching stays case-insensitive.
func NewWithKeywords(kw Keywords) *Analyzer {
	return &Analyzer{
		keywords: Keywords{
			Code:           lowerAll(kw.Code),
			Creative:       lowerAll(kw.Creative),
			Reasoning:      lowerAll(kw.Reasoning),
			Speed:          lowerAll(kw.Speed),
			Accuracy:       lowerAll(kw.Accuracy),
			Budget:         lowerAll(kw.Budget),
			Multimodal:     lowerAll(kw.Multimodal),
			LowComplexity:  lowerAll(kw.LowComplexity),
			HighComplexity: lowerAll(kw.HighComplexity),
		},
	}
}

// Analyze derives criteria from text. It never fails; empty text yields DefaultCriteria.
func (a *Analyzer) Analyze(text string) models.Criteria {
	criteria := models.DefaultCriteria()
	if text == "" {
		return criteria
	}

	lower := lower(text)

	criteria.RequiresCode = containsAny(lower, a.keywords.Code)
	criteria.RequiresCreative = containsAny(lower, a.keywords.Creative)
	criteria.RequiresReasoning = containsAny(lower, a.keywords.Reasoning)
	criteria.RequiresSpeed = containsAny(lower, a.keywords.Speed)
	criteria.RequiresAccuracy = containsAny(lower, a.keywords.Accuracy)
	criteria.BudgetSensitive = containsAny(lower, a.keywords.Budget)
	criteria.RequiresMultimodal = containsAny(lower, a.keywords.Multimodal)

	// high wins when both lists match
	if containsAny(lower, a.keywords.LowComplexity) {
		criteria.Complexity = models.ComplexityLow
	}
	if containsAny(lower, a.keywords.HighComplexity) {
		criteria.Complexity = models.ComplexityHigh
	}

	criteria.TaskType = taskType(criteria)
	return criteria
}

// taskType picks the first matching signal in priority order
func taskType(c models.Criteria) models.TaskType {
	switch {
	case c.RequiresCode:
		return models.TaskTypeCoding
	case c.RequiresCreative:
		return models.TaskTypeCreative
	case c.RequiresReasoning:
		return models.TaskTypeReasoning
	case c.RequiresMultimodal:
		return models.TaskTypeMultimodal
	default:
		return models.TaskTypeGeneral
	}
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// lower folds text with language-neutral rules. A Caser keeps internal state,
// so each call gets its own.
func lower(text string) string {
	return cases.Lower(language.Und).String(text)
}

func lowerAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		out = append(out, lower(term))
	}
	return out
}
