package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"gradpath/internal/apperr"
	"gradpath/internal/config"
	"gradpath/internal/model"
	"gradpath/internal/wizard"
)

const generateOp = "generate sop"

// Generator turns a finalized questionnaire into document text
type Generator interface {
	Generate(ctx context.Context, def *model.FormDefinition, answers wizard.Finalized) (string, error)
}

// textModel is the live text generation backend
type textModel interface {
	generateText(ctx context.Context, prompt string) (string, error)
}

// GeneratorService generates SOPs with Gemini, or returns the sample
// statement when no API key is configured
type GeneratorService struct {
	config *config.AIConfig
	model  textModel
	logger *zap.Logger
}

// NewGeneratorService creates a generator; the Gemini client is only
// created when a key is configured
func NewGeneratorService(ctx context.Context, cfg *config.AIConfig, logger *zap.Logger) (*GeneratorService, error) {
	s := &GeneratorService{config: cfg, logger: logger.Named("generator")}
	if !cfg.IsGeneratorLive() {
		return s, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	s.model = &geminiModel{client: client, name: cfg.GeminiModel}
	return s, nil
}

// Generate returns the statement of purpose for the answers
func (s *GeneratorService) Generate(ctx context.Context, def *model.FormDefinition, answers wizard.Finalized) (string, error) {
	if s.model == nil {
		if err := wait(ctx, s.config.Delays.Generate); err != nil {
			return "", &apperr.RemoteCallError{Op: generateOp, Err: err}
		}
		return SampleStatement, nil
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	text, err := s.model.generateText(ctx, BuildPrompt(def, answers))
	if err != nil {
		s.logger.Warn("generation call failed", zap.Error(err))
		return "", &apperr.RemoteCallError{Op: generateOp, Err: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &apperr.RemoteResponseError{Op: generateOp, Reason: "empty document"}
	}
	return text, nil
}

// BuildPrompt lists the answered questions in form order
func BuildPrompt(def *model.FormDefinition, answers wizard.Finalized) string {
	var b strings.Builder
	b.WriteString("Write a compelling, well-structured statement of purpose for a graduate school application.\n")
	b.WriteString("Use a formal first-person voice, plain paragraphs separated by blank lines, and no markdown.\n")
	b.WriteString("Base it only on the applicant's answers below.\n\n")
	for _, q := range def.Questions {
		v := strings.TrimSpace(answers.Get(q.ID))
		if v == "" {
			continue
		}
		fmt.Fprintf(&b, "%s\n%s\n\n", q.Prompt, v)
	}
	return strings.TrimRight(b.String(), "\n")
}

type geminiModel struct {
	client *genai.Client
	name   string
}

func (m *geminiModel) generateText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := m.client.Models.GenerateContent(ctx, m.name, contents, nil)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}

// SampleStatement is returned by the offline generator
const SampleStatement = `Statement of Purpose

I am writing to express my strong interest in pursuing a Master's in Computer Science at Stanford University. With a solid foundation in computer science from my undergraduate studies at [University Name], I am eager to deepen my knowledge and contribute to cutting-edge research in artificial intelligence and machine learning.

Throughout my academic journey, I have maintained a GPA of 3.8/4.0 while engaging in various research projects that have shaped my interest in this field. My senior thesis on optimizing neural networks for edge devices received departmental honors and sparked my passion for making AI more accessible and efficient.

My professional experience includes a software engineering internship at [Company Name], where I worked on implementing machine learning algorithms to improve recommendation systems. This experience taught me the practical challenges of deploying AI solutions and reinforced my desire to pursue advanced studies to develop more robust methodologies.

Stanford's Computer Science program stands out to me because of its multidisciplinary approach to AI research and the opportunity to work with renowned faculty like Professors [Name] and [Name], whose work in reinforcement learning and computer vision aligns perfectly with my research interests. The collaborative environment and access to state-of-the-art facilities such as the Stanford Artificial Intelligence Laboratory would provide the ideal setting for me to grow as a researcher.

My long-term goal is to lead research initiatives that bridge the gap between theoretical AI advancements and practical applications that can address real-world problems. With Stanford's emphasis on innovation and interdisciplinary collaboration, I believe I can develop the technical expertise and leadership skills necessary to make meaningful contributions to the field.

Beyond academics, I hope to engage with Stanford's vibrant community through student organizations like [Organization Name] and contribute to initiatives that promote diversity in STEM. I believe that diverse perspectives are essential for developing AI systems that work equitably for all users.

In conclusion, studying at Stanford University would be transformative for my academic and professional growth. I am excited about the prospect of joining your community of scholars and contributing to the advancement of computer science and artificial intelligence. Thank you for considering my application.`
