package models

// ResponseTime classifies how quickly a backend typically answers
type ResponseTime string

const (
	ResponseTimeFast   ResponseTime = "fast"
	ResponseTimeMedium ResponseTime = "medium"
	ResponseTimeSlow   ResponseTime = "slow"
)

// Pricing holds per-1000-token rates for a candidate
type Pricing struct {
	InputRate  float64 `json:"inputTokens" yaml:"inputTokens" validate:"gte=0"`
	OutputRate float64 `json:"outputTokens" yaml:"outputTokens" validate:"gte=0"`
}

// Average returns the mean of the input and output rates
func (p Pricing) Average() float64 {
	return (p.InputRate + p.OutputRate) / 2
}

// Candidate describes one AI backend that can serve a request.
// Field names on the wire follow the catalog record format.
type Candidate struct {
	ID           string       `json:"id" yaml:"id" validate:"required"`
	Name         string       `json:"name" yaml:"name" validate:"required"`
	Provider     string       `json:"provider" yaml:"provider" validate:"required"`
	Description  string       `json:"description" yaml:"description"`
	Capabilities []string     `json:"capabilities" yaml:"capabilities"`
	Strengths    []string     `json:"strengths" yaml:"strengths"`
	Pricing      Pricing      `json:"pricing" yaml:"pricing"`
	MaxTokens    int          `json:"maxTokens" yaml:"maxTokens" validate:"gte=0"`
	ResponseTime ResponseTime `json:"responseTime" yaml:"responseTime" validate:"required,oneof=fast medium slow"`
	Accuracy     int          `json:"accuracy" yaml:"accuracy" validate:"gte=0,lte=100"`
	Icon         string       `json:"icon" yaml:"icon"`
}

// HasCapability reports whether the candidate lists the given capability
func (c Candidate) HasCapability(capability string) bool {
	for _, have := range c.Capabilities {
		if have == capability {
			return true
		}
	}
	return false
}
