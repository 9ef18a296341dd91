package model

// FeedbackRecord is the structured evaluation of an SOP
type FeedbackRecord struct {
	Strengths    []string `json:"strengths" bson:"strengths"`
	Weaknesses   []string `json:"weaknesses" bson:"weaknesses"`
	Suggestions  []string `json:"suggestions" bson:"suggestions"`
	OverallScore float64  `json:"overallScore" bson:"overallScore"` // 0-10
}

// Evaluation is the normalized result of an SOP evaluation call
type Evaluation struct {
	SOPText    string         `json:"sopText"`
	Evaluation FeedbackRecord `json:"evaluation"`
}

// EvaluateRequest carries the SOP to evaluate
type EvaluateRequest struct {
	Text       string `json:"text"`
	University string `json:"university"`
	Program    string `json:"program"`
	FileName   string `json:"fileName,omitempty"`
	FileSize   int64  `json:"fileSize,omitempty"`
	File       []byte `json:"-"`
}
