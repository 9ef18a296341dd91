package present

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gradpath/internal/model"
)

// Download conventions
const (
	DownloadFilename    = "statement-of-purpose.txt"
	DownloadContentType = "text/plain"
)

// ScoreBand is the display class of an overall score
type ScoreBand string

const (
	BandStrong   ScoreBand = "strong"
	BandModerate ScoreBand = "moderate"
	BandWeak     ScoreBand = "weak"
)

// Band classifies a 0-10 score. Lower bounds are inclusive.
func Band(score float64) ScoreBand {
	switch {
	case score >= 8:
		return BandStrong
	case score >= 6:
		return BandModerate
	default:
		return BandWeak
	}
}

// Paragraphs splits a document on line breaks. Blank lines are kept as
// empty paragraphs.
func Paragraphs(text string) []string {
	return strings.Split(text, "\n")
}

// Result is a rendered document with optional feedback
type Result struct {
	Document   string                `json:"document"`
	Paragraphs []string              `json:"paragraphs"`
	Feedback   *model.FeedbackRecord `json:"feedback,omitempty"`
	Score      string                `json:"score,omitempty"`
	Band       ScoreBand             `json:"band,omitempty"`
	Filename   string                `json:"filename"`
}

// Render builds the presenter view of a document and its feedback
func Render(document string, feedback *model.FeedbackRecord) Result {
	r := Result{
		Document:   document,
		Paragraphs: Paragraphs(document),
		Feedback:   feedback,
		Filename:   DownloadFilename,
	}
	if feedback != nil {
		r.Score = fmt.Sprintf("%g/10", feedback.OverallScore)
		r.Band = Band(feedback.OverallScore)
	}
	return r
}

// WriteDownload sends the document as a plain-text file attachment
func WriteDownload(w http.ResponseWriter, document string) error {
	w.Header().Set("Content-Type", DownloadContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", DownloadFilename))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write([]byte(document))
	return err
}

// SaveFile writes the document into dir under the download filename
func SaveFile(dir, document string) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, DownloadFilename)
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}
	return path, nil
}
