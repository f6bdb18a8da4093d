package models

// TaskType is the dominant kind of work a request asks for
type TaskType string

const (
	TaskTypeCoding     TaskType = "coding"
	TaskTypeCreative   TaskType = "creative"
	TaskTypeReasoning  TaskType = "reasoning"
	TaskTypeMultimodal TaskType = "multimodal"
	TaskTypeGeneral    TaskType = "general"
)

// Complexity is the inferred difficulty of a request
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Criteria is the structured representation of what a request needs.
// The boolean flags are independent of each other and of TaskType.
type Criteria struct {
	TaskType           TaskType   `json:"taskType" validate:"omitempty,oneof=coding creative reasoning multimodal general"`
	Complexity         Complexity `json:"complexity" validate:"omitempty,oneof=low medium high"`
	RequiresSpeed      bool       `json:"requiresSpeed"`
	RequiresAccuracy   bool       `json:"requiresAccuracy"`
	BudgetSensitive    bool       `json:"budgetSensitive"`
	RequiresMultimodal bool       `json:"requiresMultimodal"`
	RequiresCode       bool       `json:"requiresCode"`
	RequiresCreative   bool       `json:"requiresCreative"`
	RequiresReasoning  bool       `json:"requiresReasoning"`
}

// DefaultCriteria returns the criteria of a request with no detected signals
func DefaultCriteria() Criteria {
	return Criteria{
		TaskType:   TaskTypeGeneral,
		Complexity: ComplexityMedium,
	}
}
