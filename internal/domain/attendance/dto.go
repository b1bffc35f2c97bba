package attendance

import (
	"strings"

	"github.com/clinassign/clinassign-backend-go/internal/pkg/validator"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CreateRequest struct {
	ID          string  `json:"id,omitempty"`
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
	Department  string  `json:"department"`
	Remarks     *string `json:"remarks,omitempty"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID != "" && !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}

	validateRequiredText(&errs, "student_id", r.StudentID, 64)
	validateRequiredText(&errs, "student_name", r.StudentName, 255)
	validateRequiredText(&errs, "department", r.Department, 255)

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}

	if validator.IsEmpty(r.Status) {
		errs.Add("status", "status is required")
	} else if _, ok := ParseStatus(r.Status); !ok {
		errs.Add("status", statusMessage)
	}

	if r.Remarks != nil && !validator.MaxLength(*r.Remarks, 1000) {
		errs.Add("remarks", "remarks must not exceed 1000 characters")
	}

	return errs.Err()
}

// UpdateRequest carries a partial update. Nil fields are left unchanged.
// Identity and timestamp fields are not accepted from clients.
type UpdateRequest struct {
	StudentID   *string `json:"student_id,omitempty"`
	StudentName *string `json:"student_name,omitempty"`
	Date        *string `json:"date,omitempty"`
	Status      *string `json:"status,omitempty"`
	Department  *string `json:"department,omitempty"`
	Remarks     *string `json:"remarks,omitempty"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StudentID != nil {
		validateRequiredText(&errs, "student_id", *r.StudentID, 64)
	}
	if r.StudentName != nil {
		validateRequiredText(&errs, "student_name", *r.StudentName, 255)
	}
	if r.Department != nil {
		validateRequiredText(&errs, "department", *r.Department, 255)
	}
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	if r.Status != nil {
		if _, ok := ParseStatus(*r.Status); !ok {
			errs.Add("status", statusMessage)
		}
	}
	if r.Remarks != nil && !validator.MaxLength(*r.Remarks, 1000) {
		errs.Add("remarks", "remarks must not exceed 1000 characters")
	}

	return errs.Err()
}

// Filter selects records for listing. All set fields are AND-combined.
type Filter struct {
	StudentID  *string
	Date       *string
	Department *string
	Status     *string
	StartDate  *string
	EndDate    *string

	Limit  int
	Offset int
}

// Validate applies pagination defaults and normalizes the status filter.
func (f *Filter) Validate() error {
	var errs validator.ValidationErrors

	if f.Limit == 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	} else if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		errs.Add("offset", "offset must not be negative")
	}

	if f.Status != nil && *f.Status != "" {
		st, ok := ParseStatus(*f.Status)
		if !ok {
			errs.Add("status", statusMessage)
		} else {
			s := string(st)
			f.Status = &s
		}
	}

	for _, d := range []struct {
		field string
		value *string
	}{
		{"date", f.Date},
		{"start_date", f.StartDate},
		{"end_date", f.EndDate},
	} {
		if d.value == nil || *d.value == "" {
			continue
		}
		if _, ok := validator.IsValidDate(*d.value); !ok {
			errs.Add(d.field, d.field+" must be in YYYY-MM-DD format")
		}
	}

	if f.StartDate != nil && f.EndDate != nil && *f.StartDate != "" && *f.EndDate != "" && *f.EndDate < *f.StartDate {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	return errs.Err()
}

type Pagination struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type ListResponse struct {
	Data       []Record   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ReportQuery selects the records a report is built from.
type ReportQuery struct {
	StartDate  string
	EndDate    *string
	Department *string
	StudentID  *string
}

var statusMessage = "status must be one of " + joinStatuses()

func joinStatuses() string {
	names := make([]string, len(AllStatuses))
	for i, s := range AllStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func validateRequiredText(errs *validator.ValidationErrors, field, value string, max int) {
	if validator.IsEmpty(value) {
		errs.Add(field, field+" is required")
		return
	}
	if !validator.MaxLength(value, max) {
		errs.Add(field, field+" is too long")
	}
}
