package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"gradpath/internal/apperr"
	"gradpath/internal/config"
	"gradpath/internal/model"
)

const evaluateOp = "evaluate sop"

// Upload limits for SOP files
const (
	MaxUploadBytes = 5 << 20
	// ExtractedTextPlaceholder stands in for text of binary uploads, which
	// are not parsed
	ExtractedTextPlaceholder = "This is the evaluated SOP text that would be extracted from a file."
)

var allowedUploadExt = map[string]bool{".pdf": true, ".docx": true, ".txt": true}

// UploadTooLarge is the validation failure for files over MaxUploadBytes
func UploadTooLarge() error {
	return apperr.Invalid("File size should be less than 5MB", "file")
}

// Evaluator produces structured feedback for an SOP
type Evaluator interface {
	Evaluate(ctx context.Context, req model.EvaluateRequest) (*model.Evaluation, error)
}

// EvaluatorService calls the hosted evaluation agent, or a canned
// evaluation when no API key is configured
type EvaluatorService struct {
	config *config.AIConfig
	client *http.Client
	logger *zap.Logger
}

// NewEvaluatorService creates a new evaluator service
func NewEvaluatorService(cfg *config.AIConfig, logger *zap.Logger) *EvaluatorService {
	return &EvaluatorService{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("evaluator"),
	}
}

// Evaluate validates the request and returns a normalized evaluation
func (s *EvaluatorService) Evaluate(ctx context.Context, req model.EvaluateRequest) (*model.Evaluation, error) {
	message, err := EvaluationMessage(req)
	if err != nil {
		return nil, err
	}

	if !s.config.IsEvaluatorLive() {
		if err := wait(ctx, s.config.Delays.Evaluate); err != nil {
			return nil, &apperr.RemoteCallError{Op: evaluateOp, Err: err}
		}
		return mockEvaluation(message), nil
	}

	body, err := s.callEvaluator(ctx, message)
	if err != nil {
		s.logger.Warn("evaluation call failed", zap.Error(err))
		return nil, err
	}
	result, err := DecodeEvaluation(body, message)
	if err != nil {
		s.logger.Warn("evaluation response rejected", zap.Error(err), zap.Int("bytes", len(body)))
		return nil, err
	}
	return result, nil
}

// EvaluationMessage validates an evaluation request and returns the text
// sent to the evaluator. An uploaded file takes precedence over pasted
// text; only .txt uploads contribute their contents.
func EvaluationMessage(req model.EvaluateRequest) (string, error) {
	var missing []string
	if strings.TrimSpace(req.University) == "" {
		missing = append(missing, "university")
	}
	if strings.TrimSpace(req.Program) == "" {
		missing = append(missing, "program")
	}
	if req.FileName == "" && strings.TrimSpace(req.Text) == "" {
		missing = append(missing, "text")
	}
	if len(missing) > 0 {
		return "", apperr.Invalid("Please fill in all required fields", missing...)
	}

	if req.FileName == "" {
		return req.Text, nil
	}

	ext := strings.ToLower(filepath.Ext(req.FileName))
	if !allowedUploadExt[ext] {
		return "", apperr.Invalid("Please upload a PDF, DOCX, or TXT file", "file")
	}
	size := req.FileSize
	if n := int64(len(req.File)); n > size {
		size = n
	}
	if size > MaxUploadBytes {
		return "", UploadTooLarge()
	}
	if ext != ".txt" {
		return ExtractedTextPlaceholder, nil
	}
	text := string(req.File)
	if strings.TrimSpace(text) == "" {
		return "", apperr.Invalid("The uploaded file is empty", "file")
	}
	return text, nil
}

// callEvaluator posts the message to the agent inference endpoint
func (s *EvaluatorService) callEvaluator(ctx context.Context, message string) ([]byte, error) {
	reqBody := map[string]string{
		"user_id":    s.config.EvaluatorUserID,
		"agent_id":   s.config.EvaluatorAgentID,
		"session_id": s.config.EvaluatorAgentID,
		"message":    message,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode evaluation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.EvaluatorURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, &apperr.RemoteCallError{Op: evaluateOp, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.config.EvaluatorAPIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &apperr.RemoteCallError{Op: evaluateOp, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &apperr.RemoteCallError{Op: evaluateOp, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperr.RemoteCallError{Op: evaluateOp, Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}
	return body, nil
}

// feedbackPayload is a FeedbackRecord whose presence checks survive decoding
type feedbackPayload struct {
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
	Suggestions  []string `json:"suggestions"`
	OverallScore *float64 `json:"overallScore"`
}

// DecodeEvaluation parses an untrusted evaluator response. Accepted shapes
// are a pre-shaped {sopText, evaluation} object and an agent envelope
// {response} whose text holds JSON, optionally fenced, that is either a
// feedback record or the pre-shaped object. submitted fills in a missing
// document text.
func DecodeEvaluation(body []byte, submitted string) (*model.Evaluation, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, &apperr.RemoteResponseError{Op: evaluateOp, Reason: "body is not a JSON object"}
	}

	if _, ok := top["evaluation"]; ok {
		return decodeShaped(top, submitted)
	}

	raw, ok := top["response"]
	if !ok {
		return nil, &apperr.RemoteResponseError{Op: evaluateOp, Reason: "neither evaluation nor response present"}
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, &apperr.RemoteResponseError{Op: evaluateOp, Reason: "response is not a string"}
	}

	var inner map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripFence(text)), &inner); err != nil {
		return nil, &apperr.RemoteResponseError{Op: evaluateOp, Reason: "response text is not a JSON object"}
	}
	if _, ok := inner["evaluation"]; ok {
		return decodeShaped(inner, submitted)
	}
	record, err := decodeFeedback(text)
	if err != nil {
		return nil, err
	}
	return &model.Evaluation{SOPText: submitted, Evaluation: *record}, nil
}

func decodeShaped(obj map[string]json.RawMessage, submitted string) (*model.Evaluation, error) {
	out := &model.Evaluation{SOPText: submitted}
	if raw, ok := obj["sopText"]; ok {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, &apperr.RemoteResponseError{Op: evaluateOp, Reason: "sopText is not a string"}
		}
		if strings.TrimSpace(text) != "" {
			out.SOPText = text
		}
	}
	record, err := decodeFeedback(string(obj["evaluation"]))
	if err != nil {
		return nil, err
	}
	out.Evaluation = *record
	return out, nil
}

func decodeFeedback(text string) (*model.FeedbackRecord, error) {
	var p feedbackPayload
	if err := json.Unmarshal([]byte(stripFence(text)), &p); err != nil {
		return nil, &apperr.RemoteResponseError{Op: evaluateOp, Reason: "evaluation has the wrong shape"}
	}
	if p.OverallScore == nil {
		return nil, &apperr.RemoteResponseError{Op: evaluateOp, Reason: "overallScore missing"}
	}
	score := *p.OverallScore
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 || score > 10 {
		return nil, &apperr.RemoteResponseError{Op: evaluateOp, Reason: fmt.Sprintf("overallScore %v out of range", score)}
	}
	return &model.FeedbackRecord{
		Strengths:    nonNil(p.Strengths),
		Weaknesses:   nonNil(p.Weaknesses),
		Suggestions:  nonNil(p.Suggestions),
		OverallScore: score,
	}, nil
}

// stripFence removes a surrounding markdown code fence
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func mockEvaluation(message string) *model.Evaluation {
	return &model.Evaluation{
		SOPText: message,
		Evaluation: model.FeedbackRecord{
			Strengths: []string{
				"Clear articulation of academic background",
				"Strong connection between past experiences and future goals",
				"Specific reasons for choosing the university and program",
			},
			Weaknesses: []string{
				"Introduction could be more engaging",
				"Some statements lack specific examples to back them up",
				"Conclusion doesn't fully tie back to the introduction",
			},
			Suggestions: []string{
				"Add specific examples of projects or research that demonstrate your interests",
				"Mention particular faculty members or research groups you're interested in working with",
				"Strengthen the conclusion by reiterating your fit for the program",
				"Consider adding more details about long-term career aspirations",
			},
			OverallScore: 7.5,
		},
	}
}
