package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"gradpath/internal/model"
	"gradpath/internal/present"
	"gradpath/internal/service"
)

// SOPHandler handles standalone SOP evaluation and export
type SOPHandler struct {
	evaluator service.Evaluator
	logger    *zap.Logger
}

// NewSOPHandler creates a new SOP handler
func NewSOPHandler(evaluator service.Evaluator, logger *zap.Logger) *SOPHandler {
	return &SOPHandler{evaluator: evaluator, logger: logger}
}

// EvaluateResponse is the rendered evaluation
type EvaluateResponse struct {
	SOPText    string               `json:"sopText"`
	Paragraphs []string             `json:"paragraphs"`
	Evaluation model.FeedbackRecord `json:"evaluation"`
	Score      string               `json:"score"`
	Band       present.ScoreBand    `json:"band"`
}

// DownloadRequest is the request body for exporting a document
type DownloadRequest struct {
	Text string `json:"text"`
}

// Evaluate handles POST /v1/sop/evaluate with a JSON or multipart body
func (h *SOPHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeEvaluate(w, r)
	if !ok {
		return
	}

	eval, err := h.evaluator.Evaluate(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	view := present.Render(eval.SOPText, &eval.Evaluation)
	writeJSON(w, http.StatusOK, EvaluateResponse{
		SOPText:    eval.SOPText,
		Paragraphs: view.Paragraphs,
		Evaluation: eval.Evaluation,
		Score:      view.Score,
		Band:       view.Band,
	})
}

func (h *SOPHandler) decodeEvaluate(w http.ResponseWriter, r *http.Request) (model.EvaluateRequest, bool) {
	var req model.EvaluateRequest
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return req, false
		}
		req.FileName, req.FileSize = "", 0
		return req, true
	}

	// the form fields and multipart framing fit in the extra megabyte
	const bodyLimit = service.MaxUploadBytes + 1<<20
	if r.ContentLength > bodyLimit {
		writeServiceError(w, h.logger, service.UploadTooLarge())
		return req, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	if err := r.ParseMultipartForm(bodyLimit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeServiceError(w, h.logger, service.UploadTooLarge())
			return req, false
		}
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return req, false
	}
	req.Text = r.FormValue("text")
	req.University = r.FormValue("university")
	req.Program = r.FormValue("program")

	file, header, err := r.FormFile("file")
	if err == http.ErrMissingFile {
		return req, true
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid file upload")
		return req, false
	}
	defer file.Close()

	req.FileName = header.Filename
	req.FileSize = header.Size
	if req.FileSize <= service.MaxUploadBytes {
		data, err := io.ReadAll(io.LimitReader(file, service.MaxUploadBytes+1))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid file upload")
			return req, false
		}
		req.File = data
	}
	return req, true
}

// Download handles POST /v1/sop/download
func (h *SOPHandler) Download(w http.ResponseWriter, r *http.Request) {
	var req DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "nothing to download", Code: "validation", Missing: []string{"text"}})
		return
	}
	if err := present.WriteDownload(w, req.Text); err != nil {
		h.logger.Warn("download interrupted", zap.Error(err))
	}
}
