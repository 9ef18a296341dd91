package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gradpath/internal/present"
	"gradpath/internal/service"
)

// SessionHandler handles questionnaire session endpoints
type SessionHandler struct {
	wizardSvc *service.WizardService
	logger    *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(wizardSvc *service.WizardService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{wizardSvc: wizardSvc, logger: logger}
}

// CreateSessionRequest is the request body for starting a session
type CreateSessionRequest struct {
	FormID string `json:"formId"`
}

// AnswerRequest is the request body for recording an answer
type AnswerRequest struct {
	Value string `json:"value"`
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.wizardSvc.CreateSession(r.Context(), req.FormID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Form handles GET /v1/forms/{formId}
func (h *SessionHandler) Form(w http.ResponseWriter, r *http.Request) {
	def, err := h.wizardSvc.Form(mux.Vars(r)["formId"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// Get handles GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.wizardSvc.GetState(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// SetAnswer handles PUT /v1/sessions/{id}/answers/{questionId}
func (h *SessionHandler) SetAnswer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.wizardSvc.SetAnswer(r.Context(), vars["id"], vars["questionId"], req.Value)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Next handles POST /v1/sessions/{id}/next
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	state, err := h.wizardSvc.Next(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Prev handles POST /v1/sessions/{id}/prev
func (h *SessionHandler) Prev(w http.ResponseWriter, r *http.Request) {
	state, err := h.wizardSvc.Prev(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Submit handles POST /v1/sessions/{id}/submit
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	state, err := h.wizardSvc.Submit(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusAccepted, state)
}

// Reset handles POST /v1/sessions/{id}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	state, err := h.wizardSvc.Reset(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Result handles GET /v1/sessions/{id}/result
func (h *SessionHandler) Result(w http.ResponseWriter, r *http.Request) {
	result, err := h.wizardSvc.Result(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Download handles GET /v1/sessions/{id}/result/download
func (h *SessionHandler) Download(w http.ResponseWriter, r *http.Request) {
	result, err := h.wizardSvc.Result(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := present.WriteDownload(w, result.Document); err != nil {
		h.logger.Warn("download interrupted", zap.Error(err))
	}
}

// Documents handles GET /v1/sessions/{id}/documents
func (h *SessionHandler) Documents(w http.ResponseWriter, r *http.Request) {
	docs, err := h.wizardSvc.Documents(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

// Delete handles DELETE /v1/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.wizardSvc.DeleteSession(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
