package report

import (
	"strings"

	"github.com/clinassign/clinassign-backend-go/internal/domain/attendance"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/validator"
)

type Type string

const (
	TypeDaily      Type = "daily"
	TypeDepartment Type = "department"
	TypeStudent    Type = "student"
)

// GroupBy is the record dimension a report partitions on.
type GroupBy string

const (
	GroupByDate       GroupBy = "date"
	GroupByDepartment GroupBy = "department"
	GroupByStudent    GroupBy = "student"
)

// GroupBy maps a report type onto its grouping dimension.
func (t Type) GroupBy() (GroupBy, bool) {
	switch t {
	case TypeDaily:
		return GroupByDate, true
	case TypeDepartment:
		return GroupByDepartment, true
	case TypeStudent:
		return GroupByStudent, true
	default:
		return "", false
	}
}

// ========================================
// ATTENDANCE REPORT
// ========================================

type Filter struct {
	Type       string
	StartDate  string
	EndDate    *string
	Department *string
	StudentID  *string
}

func (f *Filter) Validate() error {
	var errs validator.ValidationErrors

	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	if f.Type == "" {
		f.Type = string(TypeDaily)
	}
	if _, ok := Type(f.Type).GroupBy(); !ok {
		errs.Add("type", "type must be one of daily, department, student")
	}

	if validator.IsEmpty(f.StartDate) {
		errs.Add("start_date", "start_date is required")
	} else if _, ok := validator.IsValidDate(f.StartDate); !ok {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}

	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		} else if f.StartDate != "" && *f.EndDate < f.StartDate {
			errs.Add("end_date", "end_date must not be before start_date")
		}
	}

	return errs.Err()
}

// Query converts the filter into a repository query.
func (f Filter) Query() attendance.ReportQuery {
	return attendance.ReportQuery{
		StartDate:  f.StartDate,
		EndDate:    f.EndDate,
		Department: f.Department,
		StudentID:  f.StudentID,
	}
}

// Group is one partition of a report.
type Group struct {
	Key     string              `json:"key"`
	Label   string              `json:"label"`
	Total   int                 `json:"total"`
	Present int                 `json:"present"`
	Absent  int                 `json:"absent"`
	Records []attendance.Record `json:"records"`
}

type Response struct {
	ReportType string  `json:"report_type"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date"`
	Data       []Group `json:"data"`
}

// ========================================
// EXPORT
// ========================================

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

type ExportRequest struct {
	Format     string    `json:"format"`
	ReportData *Response `json:"reportData"`
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	switch ExportFormat(r.Format) {
	case FormatCSV, FormatJSON:
	case "":
		errs.Add("format", "format is required")
	default:
		errs.Add("format", "format must be one of csv, json")
	}

	if r.ReportData == nil {
		errs.Add("reportData", "reportData is required")
	} else if _, ok := Type(r.ReportData.ReportType).GroupBy(); !ok {
		errs.Add("reportData.report_type", "report_type must be one of daily, department, student")
	}

	return errs.Err()
}

type ExportResponse struct {
	Message     string `json:"message"`
	DownloadURL string `json:"download_url"`
	FileName    string `json:"file_name"`
}
