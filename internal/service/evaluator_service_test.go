package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gradpath/internal/apperr"
	"gradpath/internal/config"
	"gradpath/internal/model"
)

func offlineAI() *config.AIConfig {
	return &config.AIConfig{
		EvaluatorUserID:  "tester",
		EvaluatorAgentID: "agent-1",
		GeminiModel:      "gemini-2.0-flash",
		Timeout:          5 * time.Second,
	}
}

func TestEvaluationMessage(t *testing.T) {
	base := model.EvaluateRequest{University: "Stanford University", Program: "CS"}

	tests := []struct {
		name    string
		mutate  func(r *model.EvaluateRequest)
		want    string
		missing []string
	}{
		{"pasted text", func(r *model.EvaluateRequest) { r.Text = "My SOP" }, "My SOP", nil},
		{"nothing to evaluate", func(r *model.EvaluateRequest) {}, "", []string{"text"}},
		{"missing university and program", func(r *model.EvaluateRequest) {
			r.Text = "x"
			r.University = " "
			r.Program = ""
		}, "", []string{"university", "program"}},
		{"txt upload wins over text", func(r *model.EvaluateRequest) {
			r.Text = "ignored"
			r.FileName = "sop.TXT"
			r.File = []byte("From file")
		}, "From file", nil},
		{"pdf upload uses placeholder", func(r *model.EvaluateRequest) {
			r.FileName = "sop.pdf"
			r.File = []byte("%PDF-1.4")
		}, ExtractedTextPlaceholder, nil},
		{"unsupported extension", func(r *model.EvaluateRequest) {
			r.FileName = "sop.png"
		}, "", []string{"file"}},
		{"oversized upload", func(r *model.EvaluateRequest) {
			r.FileName = "sop.docx"
			r.FileSize = MaxUploadBytes + 1
		}, "", []string{"file"}},
		{"empty txt", func(r *model.EvaluateRequest) {
			r.FileName = "sop.txt"
			r.File = []byte("  \n")
		}, "", []string{"file"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			got, err := EvaluationMessage(req)
			if tt.missing != nil {
				var valErr *apperr.ValidationError
				require.ErrorAs(t, err, &valErr)
				assert.Equal(t, tt.missing, valErr.Missing)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeEvaluation(t *testing.T) {
	feedback := `{"strengths":["a"],"weaknesses":["b"],"suggestions":["c"],"overallScore":8}`

	t.Run("pre-shaped", func(t *testing.T) {
		body := `{"sopText":"Returned text","evaluation":` + feedback + `}`
		got, err := DecodeEvaluation([]byte(body), "submitted")
		require.NoError(t, err)
		assert.Equal(t, "Returned text", got.SOPText)
		assert.Equal(t, 8.0, got.Evaluation.OverallScore)
		assert.Equal(t, []string{"a"}, got.Evaluation.Strengths)
	})

	t.Run("envelope with fenced record", func(t *testing.T) {
		inner := "```json\n" + feedback + "\n```"
		body, _ := json.Marshal(map[string]string{"response": inner})
		got, err := DecodeEvaluation(body, "submitted")
		require.NoError(t, err)
		assert.Equal(t, "submitted", got.SOPText)
		assert.Equal(t, []string{"c"}, got.Evaluation.Suggestions)
	})

	t.Run("envelope with pre-shaped object", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"response": `{"evaluation":` + feedback + `}`})
		got, err := DecodeEvaluation(body, "submitted")
		require.NoError(t, err)
		assert.Equal(t, "submitted", got.SOPText)
		assert.Equal(t, 8.0, got.Evaluation.OverallScore)
	})

	t.Run("missing lists become empty", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"response": `{"overallScore":5.5}`})
		got, err := DecodeEvaluation(body, "s")
		require.NoError(t, err)
		assert.Equal(t, []string{}, got.Evaluation.Strengths)
	})

	rejects := map[string]string{
		"not json":           `<html>`,
		"array":              `[1,2]`,
		"unknown object":     `{"status":"ok"}`,
		"response not text":  `{"response":{"overallScore":5}}`,
		"prose response":     `{"response":"Your SOP looks great!"}`,
		"no score":           `{"evaluation":{"strengths":[]}}`,
		"score out of range": `{"evaluation":{"overallScore":11}}`,
		"negative score":     `{"response":"{\"overallScore\":-1}"}`,
		"wrong field type":   `{"evaluation":{"overallScore":"high"}}`,
		"null evaluation":    `{"evaluation":null}`,
	}
	for name, body := range rejects {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeEvaluation([]byte(body), "s")
			var respErr *apperr.RemoteResponseError
			assert.ErrorAs(t, err, &respErr)
		})
	}
}

func TestStripFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFence("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripFence("  {\"a\":1} "))
}

func TestEvaluateLive(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "key-123", r.Header.Get("x-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"response": `{"strengths":["s"],"weaknesses":[],"suggestions":[],"overallScore":6}`,
		})
	}))
	defer srv.Close()

	cfg := offlineAI()
	cfg.EvaluatorURL = srv.URL
	cfg.EvaluatorAPIKey = "key-123"
	svc := NewEvaluatorService(cfg, zap.NewNop())

	result, err := svc.Evaluate(context.Background(), model.EvaluateRequest{Text: "My SOP", University: "MIT", Program: "EECS"})
	require.NoError(t, err)
	assert.Equal(t, "My SOP", result.SOPText)
	assert.Equal(t, 6.0, result.Evaluation.OverallScore)
	assert.Equal(t, map[string]string{
		"user_id":    "tester",
		"agent_id":   "agent-1",
		"session_id": "agent-1",
		"message":    "My SOP",
	}, got)
}

func TestEvaluateLiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "down") {
			http.Error(w, "boom", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"response":"I cannot help with that"}`))
	}))
	defer srv.Close()

	req := model.EvaluateRequest{Text: "My SOP", University: "MIT", Program: "EECS"}

	cfg := offlineAI()
	cfg.EvaluatorAPIKey = "k"
	cfg.EvaluatorURL = srv.URL + "/down"
	_, err := NewEvaluatorService(cfg, zap.NewNop()).Evaluate(context.Background(), req)
	var callErr *apperr.RemoteCallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, http.StatusServiceUnavailable, callErr.Status)

	cfg.EvaluatorURL = srv.URL + "/up"
	_, err = NewEvaluatorService(cfg, zap.NewNop()).Evaluate(context.Background(), req)
	var respErr *apperr.RemoteResponseError
	assert.ErrorAs(t, err, &respErr)
}

func TestEvaluateOffline(t *testing.T) {
	svc := NewEvaluatorService(offlineAI(), zap.NewNop())
	result, err := svc.Evaluate(context.Background(), model.EvaluateRequest{Text: "Draft", University: "MIT", Program: "EECS"})
	require.NoError(t, err)
	assert.Equal(t, "Draft", result.SOPText)
	assert.Equal(t, 7.5, result.Evaluation.OverallScore)
	assert.Len(t, result.Evaluation.Suggestions, 4)

	_, err = svc.Evaluate(context.Background(), model.EvaluateRequest{University: "MIT", Program: "EECS"})
	var valErr *apperr.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestEvaluateOfflineHonoursCancellation(t *testing.T) {
	cfg := offlineAI()
	cfg.Delays.Evaluate = time.Hour
	svc := NewEvaluatorService(cfg, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Evaluate(ctx, model.EvaluateRequest{Text: "Draft", University: "MIT", Program: "EECS"})
	var callErr *apperr.RemoteCallError
	require.ErrorAs(t, err, &callErr)
	assert.ErrorIs(t, err, context.Canceled)
}
