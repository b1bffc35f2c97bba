package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/clinassign/clinassign-backend-go/internal/domain/report"
	"github.com/clinassign/clinassign-backend-go/internal/handler/http/middleware"
	"github.com/clinassign/clinassign-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// Generate implements ReportHandler.
func (h *reportHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	query := r.URL.Query()

	filter := report.Filter{
		Type:       query.Get("type"),
		StartDate:  query.Get("start_date"),
		EndDate:    optionalParam(query.Get("end_date")),
		Department: optionalParam(query.Get("department")),
		StudentID:  optionalParam(query.Get("student_id")),
	}

	result, err := h.reportService.Generate(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, result)
}

// Export implements ReportHandler.
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	var req report.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Debug("Failed to decode export request", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.reportService.Export(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, result)
}
