package attendance

import (
	"context"

	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
)

// AttendanceService defines business logic for attendance operations.
// Every method authorizes actor against the injected role policy.
type AttendanceService interface {
	ListRecords(ctx context.Context, actor user.Actor, filter Filter) (ListResponse, error)
	GetRecord(ctx context.Context, actor user.Actor, id string) (Record, error)
	CreateRecord(ctx context.Context, actor user.Actor, req CreateRequest) (Record, error)
	UpdateRecord(ctx context.Context, actor user.Actor, id string, req UpdateRequest) (Record, error)
	DeleteRecord(ctx context.Context, actor user.Actor, id string) error
}
