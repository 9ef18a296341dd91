package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"gradpath/internal/apperr"
	"gradpath/internal/model"
	"gradpath/internal/service"
)

// CatalogHandler handles scholarship search and fee comparison
type CatalogHandler struct {
	scholarshipSvc *service.ScholarshipService
	feeSvc         *service.FeeService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(scholarshipSvc *service.ScholarshipService, feeSvc *service.FeeService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		scholarshipSvc: scholarshipSvc,
		feeSvc:         feeSvc,
		logger:         logger,
	}
}

// Scholarships handles GET /v1/scholarships
func (h *CatalogHandler) Scholarships(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := model.ScholarshipCriteria{
		University:  q.Get("university"),
		Program:     q.Get("program"),
		Country:     q.Get("country"),
		DegreeLevel: q.Get("degreeLevel"),
	}
	if raw := q.Get("minAmount"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeServiceError(w, h.logger, apperr.Invalid("minAmount must be a whole number", "minAmount"))
			return
		}
		criteria.MinAmount = n
	}

	results, err := h.scholarshipSvc.Search(r.Context(), criteria)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"scholarships": results})
}

// CompareFees handles POST /v1/fees/compare
func (h *CatalogHandler) CompareFees(w http.ResponseWriter, r *http.Request) {
	var req model.FeeComparisonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.feeSvc.Compare(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
