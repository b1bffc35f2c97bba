package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/clinassign/clinassign-backend-go/internal/domain/attendance"
	"github.com/clinassign/clinassign-backend-go/internal/domain/report"
	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExportPrefix is the storage directory exported reports are written to.
const ExportPrefix = "exports"

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	storage        storage.FileStorage
	policy         user.Policy
	now            func() time.Time
}

func NewReportService(attendanceRepo attendance.AttendanceRepository, fileStorage storage.FileStorage, policy user.Policy) report.ReportService {
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		storage:        fileStorage,
		policy:         policy,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Generate implements report.ReportService.
func (s *ReportServiceImpl) Generate(ctx context.Context, actor user.Actor, filter report.Filter) (report.Response, error) {
	if !s.policy.IsAuthorized(actor.Role, user.OperationReport) {
		return report.Response{}, user.ErrForbidden
	}
	if err := filter.Validate(); err != nil {
		return report.Response{}, err
	}

	groupBy, _ := report.Type(filter.Type).GroupBy()

	records, err := s.attendanceRepo.ListForReport(ctx, filter.Query())
	if err != nil {
		return report.Response{}, fmt.Errorf("failed to get report records: %w", err)
	}

	return report.Response{
		ReportType: filter.Type,
		StartDate:  filter.StartDate,
		EndDate:    filter.EndDate,
		Data:       BuildReport(records, groupBy),
	}, nil
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, actor user.Actor, req report.ExportRequest) (report.ExportResponse, error) {
	if !s.policy.IsAuthorized(actor.Role, user.OperationReport) {
		return report.ExportResponse{}, user.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return report.ExportResponse{}, err
	}

	var (
		body        []byte
		contentType string
		err         error
	)
	switch report.ExportFormat(req.Format) {
	case report.FormatCSV:
		body, err = encodeCSV(*req.ReportData)
		contentType = "text/csv"
	default:
		body, err = json.MarshalIndent(req.ReportData, "", "  ")
		contentType = "application/json"
	}
	if err != nil {
		return report.ExportResponse{}, fmt.Errorf("%w: %w", report.ErrExportFailed, err)
	}

	fileName := fmt.Sprintf("attendance-report-%s-%s-%s.%s",
		req.ReportData.ReportType,
		s.now().Format("20060102-150405"),
		uuid.NewString()[:8],
		req.Format,
	)
	path := ExportPrefix + "/" + fileName

	stored, err := s.storage.Upload(ctx, bytes.NewReader(body), path, contentType)
	if err != nil {
		return report.ExportResponse{}, fmt.Errorf("%w: %w", report.ErrExportFailed, err)
	}

	url, err := s.storage.GetURL(ctx, stored, 0)
	if err != nil {
		return report.ExportResponse{}, fmt.Errorf("%w: %w", report.ErrExportFailed, err)
	}

	return report.ExportResponse{
		Message:     "Report exported successfully",
		DownloadURL: url,
		FileName:    fileName,
	}, nil
}

// encodeCSV writes one summary row per group.
func encodeCSV(resp report.Response) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"key", "label", "total", "present", "absent", "present_rate"}); err != nil {
		return nil, err
	}
	for _, g := range resp.Data {
		rate := decimal.Zero
		if g.Total > 0 {
			rate = decimal.NewFromInt(int64(g.Present)).
				Mul(decimal.NewFromInt(100)).
				DivRound(decimal.NewFromInt(int64(g.Total)), 2)
		}
		row := []string{
			g.Key,
			g.Label,
			strconv.Itoa(g.Total),
			strconv.Itoa(g.Present),
			strconv.Itoa(g.Absent),
			rate.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
