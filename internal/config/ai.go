package config

import (
	"os"
	"time"
)

// MockDelays simulate collaborator latency when running without keys
type MockDelays struct {
	Evaluate     time.Duration
	Generate     time.Duration
	Scholarships time.Duration
	Fees         time.Duration
}

// AIConfig holds external collaborator settings
type AIConfig struct {
	// Evaluator is the hosted agent inference chat endpoint
	EvaluatorURL     string `json:"evaluatorUrl"`
	EvaluatorAPIKey  string `json:"-"` // Never serialize
	EvaluatorAgentID string `json:"agentId"`
	EvaluatorUserID  string `json:"userId"`

	// Generator uses Gemini
	GeminiAPIKey string `json:"-"`
	GeminiModel  string `json:"geminiModel"`

	Timeout time.Duration `json:"timeout"`
	Delays  MockDelays    `json:"delays"`
}

// DefaultAIConfig returns the AI configuration from the environment
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		EvaluatorURL:     getEnvOrDefault("SOP_EVALUATOR_URL", "https://agent-prod.studio.lyzr.ai/v3/inference/chat/"),
		EvaluatorAPIKey:  os.Getenv("SOP_EVALUATOR_API_KEY"),
		EvaluatorAgentID: os.Getenv("SOP_EVALUATOR_AGENT_ID"),
		EvaluatorUserID:  getEnvOrDefault("SOP_EVALUATOR_USER_ID", "gradpath"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		Timeout:          getEnvDuration("AI_TIMEOUT_MS", 30*time.Second),
		Delays: MockDelays{
			Evaluate:     getEnvDuration("MOCK_DELAY_EVALUATE_MS", 2*time.Second),
			Generate:     getEnvDuration("MOCK_DELAY_GENERATE_MS", 3*time.Second),
			Scholarships: getEnvDuration("MOCK_DELAY_SCHOLARSHIPS_MS", 1500*time.Millisecond),
			Fees:         getEnvDuration("MOCK_DELAY_FEES_MS", 2*time.Second),
		},
	}
}

// IsEvaluatorLive returns true if the evaluation endpoint is configured
func (c *AIConfig) IsEvaluatorLive() bool {
	return c.EvaluatorAPIKey != "" && c.EvaluatorURL != ""
}

// IsGeneratorLive returns true if Gemini is configured
func (c *AIConfig) IsGeneratorLive() bool {
	return c.GeminiAPIKey != ""
}
