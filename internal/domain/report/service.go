package report

import (
	"context"

	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
)

// ReportService defines the interface for attendance report generation
type ReportService interface {
	// Generate builds a grouped report over the filtered records
	Generate(ctx context.Context, actor user.Actor, filter Filter) (Response, error)

	// Export writes a previously generated report to file storage
	Export(ctx context.Context, actor user.Actor, req ExportRequest) (ExportResponse, error)
}
