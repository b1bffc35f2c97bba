package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/clinassign/clinassign-backend-go/internal/domain/attendance"
	"github.com/clinassign/clinassign-backend-go/internal/handler/http/middleware"
	"github.com/clinassign/clinassign-backend-go/internal/handler/http/response"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	query := r.URL.Query()

	// Parse query parameters
	filter := attendance.Filter{
		StudentID:  optionalParam(query.Get("student_id")),
		Date:       optionalParam(query.Get("date")),
		Department: optionalParam(query.Get("department")),
		Status:     optionalParam(query.Get("status")),
		StartDate:  optionalParam(query.Get("start_date")),
		EndDate:    optionalParam(query.Get("end_date")),
	}

	// Pagination
	var errs validator.ValidationErrors
	if l := query.Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil {
			errs.Add("limit", "limit must be a number")
		}
		filter.Limit = limit
	}
	if o := query.Get("offset"); o != "" {
		offset, err := strconv.Atoi(o)
		if err != nil {
			errs.Add("offset", "offset must be a number")
		}
		filter.Offset = offset
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ListRecords(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, result)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")

	result, err := h.attendanceService.GetRecord(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, result)
}

// Create implements AttendanceHandler.
func (h *attendanceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	var req attendance.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Debug("Failed to decode attendance request", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.attendanceService.CreateRecord(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, result)
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req attendance.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Debug("Failed to decode attendance request", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.attendanceService.UpdateRecord(r.Context(), actor, id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, result)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.attendanceService.DeleteRecord(r.Context(), actor, id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

func optionalParam(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
