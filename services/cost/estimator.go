// Package cost approximates token counts and prices an exchange with a candidate.
package cost

import (
	"math"
	"unicode/utf8"

	"github.com/upb/llm-model-router/models"
)

// CharsPerToken is the approximation used by EstimateTokens
const CharsPerToken = 4

// rateUnit is the token count the pricing rates are quoted per
const rateUnit = 1000

// EstimateTokens approximates the token count of text as ceil(characters / 4).
// Characters are Unicode code points. This is not a tokenizer.
func EstimateTokens(text string) int {
	chars := utf8.RuneCountInString(text)
	return int(math.Ceil(float64(chars) / CharsPerToken))
}

// Calculate prices an exchange using the candidate's per-1000-token rates.
// It is linear in each token count and zero when both are zero.
func Calculate(candidate models.Candidate, inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*candidate.Pricing.InputRate/rateUnit +
		float64(outputTokens)*candidate.Pricing.OutputRate/rateUnit
}

// Estimate is a pre-call cost projection
type Estimate struct {
	ModelID      string  `json:"model_id"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	Cost         float64 `json:"cost"`
}

// EstimateExchange projects the cost of sending prompt and receiving
// expectedOutputTokens back from candidate.
func EstimateExchange(candidate models.Candidate, prompt string, expectedOutputTokens int) Estimate {
	in := EstimateTokens(prompt)
	return Estimate{
		ModelID:      candidate.ID,
		InputTokens:  in,
		OutputTokens: expectedOutputTokens,
		Cost:         Calculate(candidate, in, expectedOutputTokens),
	}
}
