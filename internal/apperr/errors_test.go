package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"gradpath/internal/model"
)

func TestNoticeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"validation", &ValidationError{Missing: []string{"a"}}, CodeValidation},
		{"wrapped remote call", fmt.Errorf("generate: %w", &RemoteCallError{Op: "generate", Status: 500}), CodeRemoteCall},
		{"remote response", &RemoteResponseError{Op: "evaluate", Reason: "missing evaluation"}, CodeRemoteResponse},
		{"clipboard", &ClipboardError{Err: errors.New("no display")}, CodeClipboard},
		{"unknown", errors.New("boom"), CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NoticeFor(tt.err)
			assert.Equal(t, model.NoticeError, n.Level)
			assert.Equal(t, tt.code, n.Code)
			assert.NotEmpty(t, n.Message)
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Missing: []string{"program", "skills"}}
	assert.Equal(t, "missing required answers: program, skills", err.Error())

	err = Invalid("Please enter a program", "program")
	assert.Equal(t, "Please enter a program", err.Error())
	assert.Equal(t, "Please enter a program", NoticeFor(err).Message)
}

func TestRemoteCallErrorUnwrap(t *testing.T) {
	inner := errors.New("dial tcp: refused")
	err := &RemoteCallError{Op: "evaluate", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "refused")
}
