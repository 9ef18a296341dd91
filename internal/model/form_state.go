package model

// FormState is the client view of a wizard session
type FormState struct {
	SessionID  string     `json:"sessionId"`
	FormID     string     `json:"formId"`
	Page       int        `json:"page"`
	PageCount  int        `json:"pageCount"`
	IsLastPage bool       `json:"isLastPage"`
	Questions  []Question `json:"questions"` // current page
	Answers    AnswerMap  `json:"answers"`
	CanAdvance bool       `json:"canAdvance"`
	Submission Submission `json:"submission"`
}
