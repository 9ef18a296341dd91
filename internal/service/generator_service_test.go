package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gradpath/internal/apperr"
	"gradpath/internal/wizard"
)

type stubModel struct {
	text   string
	err    error
	prompt string
}

func (m *stubModel) generateText(ctx context.Context, prompt string) (string, error) {
	m.prompt = prompt
	return m.text, m.err
}

func finalizedSOP(t *testing.T) wizard.Finalized {
	t.Helper()
	f := wizard.NewForm(wizard.SOPForm())
	for k, v := range sopAnswers() {
		f.SetAnswer(k, v)
	}
	fin, err := f.Finalize()
	require.NoError(t, err)
	return fin
}

func TestGenerateOffline(t *testing.T) {
	svc, err := NewGeneratorService(context.Background(), offlineAI(), zap.NewNop())
	require.NoError(t, err)

	doc, err := svc.Generate(context.Background(), wizard.SOPForm(), finalizedSOP(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc, "Statement of Purpose\n\n"))
}

func TestGenerateWithModel(t *testing.T) {
	def := wizard.SOPForm()
	fin := finalizedSOP(t)

	t.Run("document", func(t *testing.T) {
		m := &stubModel{text: "  Generated SOP\n"}
		svc := &GeneratorService{config: offlineAI(), model: m, logger: zap.NewNop()}
		doc, err := svc.Generate(context.Background(), def, fin)
		require.NoError(t, err)
		assert.Equal(t, "Generated SOP", doc)
		assert.Contains(t, m.prompt, "Which university are you applying to?\nStanford University")
	})

	t.Run("empty document", func(t *testing.T) {
		svc := &GeneratorService{config: offlineAI(), model: &stubModel{text: " "}, logger: zap.NewNop()}
		_, err := svc.Generate(context.Background(), def, fin)
		var respErr *apperr.RemoteResponseError
		assert.ErrorAs(t, err, &respErr)
	})

	t.Run("call failure", func(t *testing.T) {
		svc := &GeneratorService{config: offlineAI(), model: &stubModel{err: errors.New("quota")}, logger: zap.NewNop()}
		_, err := svc.Generate(context.Background(), def, fin)
		var callErr *apperr.RemoteCallError
		assert.ErrorAs(t, err, &callErr)
	})
}

func TestBuildPromptOrderAndOmissions(t *testing.T) {
	prompt := BuildPrompt(wizard.SOPForm(), finalizedSOP(t))
	uni := strings.Index(prompt, "Which university")
	program := strings.Index(prompt, "What program")
	contribution := strings.Index(prompt, "How will you contribute")
	assert.True(t, uni >= 0 && uni < program && program < contribution)
	assert.NotContains(t, prompt, "research experience", "unanswered questions are left out")
	assert.NotContains(t, prompt, "If other")
}
