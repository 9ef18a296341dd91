package model

import "time"

// SubmissionPhase is the state of a wizard submission
type SubmissionPhase string

const (
	PhaseIdle       SubmissionPhase = "idle"
	PhaseSubmitting SubmissionPhase = "submitting"
	PhaseSuccess    SubmissionPhase = "success"
	PhaseFailed     SubmissionPhase = "failed"
)

// NoticeLevel classifies a transient user notice
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient message shown to the user
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
}

// Submission is the persisted submission state of a wizard session
type Submission struct {
	Phase     SubmissionPhase `json:"phase"`
	AttemptID string          `json:"attemptId,omitempty"`
	Document  string          `json:"document,omitempty"`
	Failure   *Notice         `json:"failure,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// WizardSession is a persisted form instance
type WizardSession struct {
	ID         string     `json:"id"`
	FormID     string     `json:"formId"`
	Answers    AnswerMap  `json:"answers"`
	Page       int        `json:"page"`
	Submission Submission `json:"submission"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// SOPDocument is an archived generated statement of purpose
type SOPDocument struct {
	ID        string            `json:"id" bson:"_id,omitempty"`
	SessionID string            `json:"sessionId" bson:"sessionId"`
	FormID    string            `json:"formId" bson:"formId"`
	Answers   map[string]string `json:"answers" bson:"answers"`
	Document  string            `json:"document" bson:"document"`
	CreatedAt time.Time         `json:"createdAt" bson:"createdAt"`
}
