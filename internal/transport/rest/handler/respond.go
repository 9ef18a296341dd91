package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"gradpath/internal/apperr"
	"gradpath/internal/service"
	"gradpath/internal/submission"
	"gradpath/internal/wizard"
)

// ErrorResponse is the JSON error body
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps a service failure onto a status and error body
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, body)
}

func classify(err error) (int, ErrorResponse) {
	var valErr *apperr.ValidationError
	if errors.As(err, &valErr) {
		n := apperr.NoticeFor(err)
		return http.StatusUnprocessableEntity, ErrorResponse{Error: n.Message, Code: n.Code, Missing: valErr.Missing}
	}

	var (
		callErr *apperr.RemoteCallError
		respErr *apperr.RemoteResponseError
	)
	if errors.As(err, &callErr) || errors.As(err, &respErr) {
		n := apperr.NoticeFor(err)
		return http.StatusBadGateway, ErrorResponse{Error: n.Message, Code: n.Code}
	}

	switch {
	case errors.Is(err, submission.ErrAlreadySubmitting):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "already_submitting"}
	case errors.Is(err, submission.ErrIllegalTransition):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "illegal_transition"}
	case errors.Is(err, service.ErrResultNotReady):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "result_not_ready"}
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrUnknownQuestion),
		errors.Is(err, wizard.ErrFormNotFound):
		return http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "not_found"}
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, ErrorResponse{Error: err.Error(), Code: "unauthorized"}
	case errors.Is(err, service.ErrSessionMismatch):
		return http.StatusForbidden, ErrorResponse{Error: err.Error(), Code: "forbidden"}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: apperr.CodeInternal}
}
