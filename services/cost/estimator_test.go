package cost

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/upb/llm-model-router/models"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"one char", "a", 1},
		{"exact multiple", "abcd", 1},
		{"rounds up", "abcde", 2},
		{"long", strings.Repeat("x", 4001), 1001},
		{"counts code points", "日本語テキスト", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateTokens(tt.text))
		})
	}
}

func TestCalculate(t *testing.T) {
	gpt := models.Candidate{ID: "gpt-4-turbo", Pricing: models.Pricing{InputRate: 0.01, OutputRate: 0.03}}

	t.Run("reference exchange", func(t *testing.T) {
		assert.InDelta(t, 0.025, Calculate(gpt, 1000, 500), 1e-12)
	})

	t.Run("zero tokens", func(t *testing.T) {
		assert.Equal(t, 0.0, Calculate(gpt, 0, 0))
	})

	t.Run("linear in each count independently", func(t *testing.T) {
		base := Calculate(gpt, 1000, 500)
		assert.InDelta(t, base+Calculate(gpt, 1000, 0), Calculate(gpt, 2000, 500), 1e-12)
		assert.InDelta(t, base+Calculate(gpt, 0, 500), Calculate(gpt, 1000, 1000), 1e-12)
		assert.InDelta(t, 3*Calculate(gpt, 0, 700), Calculate(gpt, 0, 2100), 1e-12)
	})

	t.Run("free candidate", func(t *testing.T) {
		assert.Equal(t, 0.0, Calculate(models.Candidate{}, 5000, 5000))
	})
}

func TestEstimateExchange(t *testing.T) {
	c := models.Candidate{ID: "m", Pricing: models.Pricing{InputRate: 0.01, OutputRate: 0.03}}

	got := EstimateExchange(c, strings.Repeat("a", 4000), 500)
	assert.Equal(t, "m", got.ModelID)
	assert.Equal(t, 1000, got.InputTokens)
	assert.Equal(t, 500, got.OutputTokens)
	assert.InDelta(t, 0.025, got.Cost, 1e-12)
}
