package attendance

import (
	"strings"
	"time"
)

type Status string

// Canonical statuses. Input is matched case-insensitively, so legacy values such
// as "Present" map onto StatusPresent.
const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
	StatusLate    Status = "late"
)

var AllStatuses = []Status{StatusPresent, StatusAbsent, StatusLeave, StatusLate}

// ParseStatus normalizes s to a canonical Status.
func ParseStatus(s string) (Status, bool) {
	candidate := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range AllStatuses {
		if candidate == st {
			return st, true
		}
	}
	return "", false
}

// IsPresent reports whether the status counts toward the present column of a report.
func (s Status) IsPresent() bool {
	return s == StatusPresent
}

// Record is one student's attendance for one calendar date.
type Record struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	Date        string    `json:"date"`
	Status      Status    `json:"status"`
	Department  string    `json:"department"`
	MarkedBy    string    `json:"marked_by"`
	Remarks     *string   `json:"remarks,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
