package models

import "strings"

// ReasonSeparator joins reasoning fragments into a single sentence
const ReasonSeparator = ", "

// ScoredCandidate is a candidate together with its fit score for one request
type ScoredCandidate struct {
	Candidate Candidate `json:"candidate"`
	Score     int       `json:"score"`
	Reasons   []string  `json:"reasons"`
}

// Reasoning returns the joined, lower-cased reasoning fragments
func (s ScoredCandidate) Reasoning() string {
	return strings.ToLower(strings.Join(s.Reasons, ReasonSeparator))
}

// SelectionResult is the outcome of ranking the catalog for a request
type SelectionResult struct {
	SelectedModel Candidate   `json:"selectedModel"`
	Confidence    int         `json:"confidence"`
	Reasoning     string      `json:"reasoning"`
	Alternatives  []Candidate `json:"alternatives"`
}
