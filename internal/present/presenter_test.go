package present

import (
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradpath/internal/apperr"
	"gradpath/internal/model"
)

func TestBand(t *testing.T) {
	tests := []struct {
		score float64
		want  ScoreBand
	}{
		{10, BandStrong},
		{8.0, BandStrong},
		{7.999, BandModerate},
		{7.5, BandModerate},
		{6.0, BandModerate},
		{5.999, BandWeak},
		{0, BandWeak},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Band(tt.score), "score %v", tt.score)
	}
}

func TestParagraphsKeepBlankLines(t *testing.T) {
	got := Paragraphs("\nStatement of Purpose\n\nFirst.\nSecond.\n")
	assert.Equal(t, []string{"", "Statement of Purpose", "", "First.", "Second.", ""}, got)
	assert.Equal(t, []string{""}, Paragraphs(""))
}

func TestRender(t *testing.T) {
	fb := &model.FeedbackRecord{OverallScore: 7.5}
	r := Render("a\nb", fb)
	assert.Equal(t, []string{"a", "b"}, r.Paragraphs)
	assert.Equal(t, BandModerate, r.Band)
	assert.Equal(t, "7.5/10", r.Score)
	assert.Equal(t, DownloadFilename, r.Filename)

	plain := Render("doc", nil)
	assert.Empty(t, plain.Band)
	assert.Nil(t, plain.Feedback)
}

func TestWriteDownload(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteDownload(rec, "my sop"))
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="statement-of-purpose.txt"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "my sop", rec.Body.String())
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveFile(dir, "line1\nline2")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "statement-of-purpose.txt"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2", string(data))
}

type fakeClipboard struct {
	got   string
	err   error
	panic bool
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.panic {
		panic("display gone")
	}
	f.got = text
	return f.err
}

func TestCopySuccess(t *testing.T) {
	cb := &fakeClipboard{}
	n, err := Copy(cb, "whole\ndocument")
	require.NoError(t, err)
	assert.Equal(t, model.NoticeSuccess, n.Level)
	assert.Equal(t, "whole\ndocument", cb.got)
}

func TestCopyFailureIsReportedNotThrown(t *testing.T) {
	n, err := Copy(&fakeClipboard{err: errors.New("denied")}, "x")
	var clipErr *apperr.ClipboardError
	require.ErrorAs(t, err, &clipErr)
	assert.Equal(t, model.NoticeError, n.Level)
	assert.Equal(t, "Failed to copy text", n.Message)

	n, err = Copy(&fakeClipboard{panic: true}, "x")
	require.ErrorAs(t, err, &clipErr)
	assert.Equal(t, apperr.CodeClipboard, n.Code)
}
