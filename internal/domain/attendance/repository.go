package attendance

import (
	"context"
)

// AttendanceRepository defines data access methods for attendance records.
// Uniqueness of (student_id, date) is enforced by the store itself.
type AttendanceRepository interface {
	// Create inserts a record. Returns ErrDuplicateAttendance or ErrRecordIDExists on a unique violation.
	Create(ctx context.Context, record Record) (Record, error)

	GetByID(ctx context.Context, id string) (Record, error)

	// GetByStudentAndDate returns nil when the student has no record on date.
	GetByStudentAndDate(ctx context.Context, studentID string, date string) (*Record, error)

	// Update overwrites every mutable column of the record with the given id.
	Update(ctx context.Context, record Record) (Record, error)

	Delete(ctx context.Context, id string) error

	// List returns one page of records ordered by date descending, plus the total match count.
	List(ctx context.Context, filter Filter) ([]Record, int64, error)

	// ListForReport returns every record in the query window ordered by date, then student name.
	ListForReport(ctx context.Context, query ReportQuery) ([]Record, error)
}

// Transactor groups repository calls into one atomic unit of work.
// Repositories invoked with the ctx passed to fn participate in it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
