package model

// QuestionKind defines how a question is answered
type QuestionKind string

const (
	KindShortText    QuestionKind = "short-text"    // Single line input
	KindLongText     QuestionKind = "long-text"     // Multi line essay input
	KindSingleChoice QuestionKind = "single-choice" // One of Options
)

// Question is an immutable questionnaire entry
type Question struct {
	ID       string       `json:"id" yaml:"id"`
	Prompt   string       `json:"prompt" yaml:"prompt"`
	Kind     QuestionKind `json:"kind" yaml:"kind"`
	Options  []string     `json:"options,omitempty" yaml:"options,omitempty"` // single-choice only
	Required bool         `json:"required" yaml:"required"`
}

// ConditionalRule makes DependentID visible only while the answer to
// TriggerID equals TriggerValue. When Substitute is set, a finalized
// submission replaces the trigger answer with the dependent answer.
type ConditionalRule struct {
	TriggerID    string `json:"triggerQuestionId" yaml:"triggerQuestionId"`
	TriggerValue string `json:"triggerValue" yaml:"triggerValue"`
	DependentID  string `json:"dependentQuestionId" yaml:"dependentQuestionId"`
	Substitute   bool   `json:"substitute" yaml:"substitute"`
}

// FormDefinition is a questionnaire template
type FormDefinition struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	PageSize  int               `json:"pageSize"`
	Questions []Question        `json:"questions"`
	Rules     []ConditionalRule `json:"rules,omitempty"`
}
