package analyticshandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"insights/internal/domain/analytics"
	"insights/internal/transport/http/api"
	"insights/internal/transport/http/middleware"
	"insights/internal/transport/http/shared"
)

type Handler struct {
	Orchestrator *analytics.Orchestrator
}

func NewHandler(orchestrator *analytics.Orchestrator) *Handler {
	return &Handler{Orchestrator: orchestrator}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Post("/reports", h.handleGenerateReport)
		r.Post("/reports/export", h.handleExportReport)
	})
}

type reportPayload struct {
	Scope                   string   `json:"scope"`
	EmployeeID              string   `json:"employeeId"`
	TeamID                  string   `json:"teamId"`
	DepartmentID            string   `json:"departmentId"`
	Period                  string   `json:"period"`
	StartDate               string   `json:"startDate"`
	EndDate                 string   `json:"endDate"`
	Template                string   `json:"template"`
	MetricGroups            []string `json:"metricGroups"`
	IncludeTeamComparison   bool     `json:"includeTeamComparison"`
	IncludePeriodComparison bool     `json:"includePeriodComparison"`
}

func (h *Handler) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	envelope, ok := h.generate(w, r)
	if !ok {
		return
	}
	api.Success(w, envelope, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExportReport(w http.ResponseWriter, r *http.Request) {
	envelope, ok := h.generate(w, r)
	if !ok {
		return
	}
	pdf, err := analytics.RenderPDF(envelope)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "pdf_failed", "failed to render report pdf", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "performance-report-"+envelope.ID+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) (analytics.Envelope, bool) {
	reqID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return analytics.Envelope{}, false
	}

	var payload reportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return analytics.Envelope{}, false
	}

	req := analytics.ReportRequest{
		Scope:                   analytics.Scope(payload.Scope),
		EmployeeID:              payload.EmployeeID,
		TeamID:                  payload.TeamID,
		DepartmentID:            payload.DepartmentID,
		Period:                  analytics.Period(payload.Period),
		Template:                payload.Template,
		MetricGroups:            payload.MetricGroups,
		IncludeTeamComparison:   payload.IncludeTeamComparison,
		IncludePeriodComparison: payload.IncludePeriodComparison,
		AsOf:                    time.Now().UTC(),
	}
	if payload.StartDate != "" {
		start, err := shared.ParseDate(payload.StartDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid start date", reqID)
			return analytics.Envelope{}, false
		}
		req.StartDate = &start
	}
	if payload.EndDate != "" {
		end, err := shared.ParseDate(payload.EndDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid end date", reqID)
			return analytics.Envelope{}, false
		}
		req.EndDate = &end
	}

	envelope, err := h.Orchestrator.GenerateReport(r.Context(), req)
	if err != nil {
		h.writeError(w, err, reqID)
		return analytics.Envelope{}, false
	}
	return envelope, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, analytics.ErrEmployeeNotFound),
		errors.Is(err, analytics.ErrTeamNotFound),
		errors.Is(err, analytics.ErrDepartmentNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, analytics.ErrInvalidPeriod),
		errors.Is(err, analytics.ErrMissingDepartment):
		api.Fail(w, http.StatusBadRequest, "invalid_request", err.Error(), reqID)
	case errors.Is(err, analytics.ErrProviderUnavailable):
		api.Fail(w, http.StatusBadGateway, "provider_unavailable", "narrative generation failed", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to generate report", reqID)
	}
}
