package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gradpath/internal/config"
	"gradpath/internal/present"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	c.text = text
	return c.err
}

func setup(t *testing.T) (*cobra.Command, *bytes.Buffer, *fakeClipboard) {
	t.Helper()
	logger = zap.NewNop()
	aiConfig = &config.AIConfig{}
	timeout = time.Minute
	cb := &fakeClipboard{}
	clipboard = cb
	t.Cleanup(func() {
		clipboard = present.SystemClipboard{}
		evalFile, evalText, evalUniversity, evalProgram, evalOutDir = "", "", "", "", ""
		evalCopy = false
		searchCriteria.university, searchCriteria.program, searchCriteria.country, searchCriteria.degree = "", "", "", ""
		searchCriteria.minAmount = 0
		feeProgram, feeDegree, feeCompareBy = "", "", "total"
	})

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	return cmd, &out, cb
}

func TestEvaluateText(t *testing.T) {
	cmd, out, cb := setup(t)
	evalText = "I want to study distributed systems."
	evalUniversity = "Stanford University"
	evalProgram = "MS Computer Science"
	evalCopy = true
	evalOutDir = t.TempDir()

	require.NoError(t, runEvaluate(cmd, nil))
	assert.Contains(t, out.String(), "Overall score: 7.5/10 (moderate)")
	assert.Contains(t, out.String(), "Strengths:")
	assert.Contains(t, out.String(), "Copied to clipboard")
	assert.Equal(t, evalText, cb.text)

	saved, err := os.ReadFile(filepath.Join(evalOutDir, present.DownloadFilename))
	require.NoError(t, err)
	assert.Equal(t, evalText, string(saved))
}

func TestEvaluateFileAndClipboardFailure(t *testing.T) {
	cmd, out, cb := setup(t)
	cb.err = errors.New("no display")
	path := filepath.Join(t.TempDir(), "sop.txt")
	require.NoError(t, os.WriteFile(path, []byte("From the file."), 0o644))
	evalFile = path
	evalUniversity = "MIT"
	evalProgram = "EECS"
	evalCopy = true

	require.NoError(t, runEvaluate(cmd, nil))
	assert.Contains(t, out.String(), "Failed to copy text")
	assert.Equal(t, "From the file.", cb.text)
}

func TestEvaluateMissingFields(t *testing.T) {
	cmd, _, _ := setup(t)
	evalText = "text"

	err := runEvaluate(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "university")
	assert.Contains(t, err.Error(), "program")
}

func TestScholarships(t *testing.T) {
	cmd, out, _ := setup(t)
	searchCriteria.program = "computer"

	require.NoError(t, runScholarships(cmd, nil))
	assert.Contains(t, out.String(), "Future Tech Innovators Grant")

	out.Reset()
	searchCriteria.program = ""
	searchCriteria.country = "Atlantis"
	require.NoError(t, runScholarships(cmd, nil))
	assert.Contains(t, out.String(), "No scholarships match")
}

func TestScholarshipsNeedsCriterion(t *testing.T) {
	cmd, _, _ := setup(t)
	assert.Error(t, runScholarships(cmd, nil))
}

func TestFees(t *testing.T) {
	cmd, out, _ := setup(t)
	feeProgram = "Computer Science"
	feeDegree = "Master's"
	feeCompareBy = "tuition"

	require.NoError(t, runFees(cmd, []string{"stanford", "oxford"}))
	assert.Contains(t, out.String(), "Stanford")
	assert.Contains(t, out.String(), "Oxford")
	assert.Contains(t, out.String(), "By tuition:")
	assert.Contains(t, out.String(), "$56,000")
}

func TestFeesValidation(t *testing.T) {
	cmd, _, _ := setup(t)
	feeDegree = "Master's"
	assert.Error(t, runFees(cmd, []string{"stanford"}))

	feeProgram = "CS"
	assert.Error(t, runFees(cmd, []string{"a", "b", "c", "d", "e", "f"}))
}
