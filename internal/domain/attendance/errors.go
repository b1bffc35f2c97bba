package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound  = errors.New("attendance record not found")
	ErrDuplicateAttendance = errors.New("attendance already marked for this student on this date")
	ErrRecordIDExists      = errors.New("attendance record id already exists")
)

// ConflictError reports a uniqueness violation together with the id of the
// record that already occupies the slot.
type ConflictError struct {
	ExistingID string
	Err        error
}

func (e *ConflictError) Error() string {
	return e.Err.Error()
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}
