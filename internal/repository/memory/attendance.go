package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/clinassign/clinassign-backend-go/internal/domain/attendance"
)

type slotKey struct {
	studentID string
	date      string
}

// AttendanceRepository keeps records in process memory. The (student_id, date)
// index enforces the same uniqueness as the database constraint.
type AttendanceRepository struct {
	mu      sync.RWMutex
	records map[string]attendance.Record
	slots   map[slotKey]string
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{
		records: make(map[string]attendance.Record),
		slots:   make(map[slotKey]string),
	}
}

// Create implements attendance.AttendanceRepository.
func (r *AttendanceRepository) Create(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[rec.ID]; ok {
		return attendance.Record{}, attendance.ErrRecordIDExists
	}
	key := slotKey{rec.StudentID, rec.Date}
	if _, ok := r.slots[key]; ok {
		return attendance.Record{}, attendance.ErrDuplicateAttendance
	}

	r.records[rec.ID] = rec
	r.slots[key] = rec.ID
	return rec, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *AttendanceRepository) GetByID(_ context.Context, id string) (attendance.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

// GetByStudentAndDate implements attendance.AttendanceRepository.
func (r *AttendanceRepository) GetByStudentAndDate(_ context.Context, studentID string, date string) (*attendance.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.slots[slotKey{studentID, date}]
	if !ok {
		return nil, nil
	}
	rec := r.records[id]
	return &rec, nil
}

// Update implements attendance.AttendanceRepository.
func (r *AttendanceRepository) Update(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.records[rec.ID]
	if !ok {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}

	oldKey := slotKey{prev.StudentID, prev.Date}
	newKey := slotKey{rec.StudentID, rec.Date}
	if newKey != oldKey {
		if _, taken := r.slots[newKey]; taken {
			return attendance.Record{}, attendance.ErrDuplicateAttendance
		}
		delete(r.slots, oldKey)
		r.slots[newKey] = rec.ID
	}

	rec.CreatedAt = prev.CreatedAt
	r.records[rec.ID] = rec
	return rec, nil
}

// Delete implements attendance.AttendanceRepository.
func (r *AttendanceRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(r.records, id)
	delete(r.slots, slotKey{rec.StudentID, rec.Date})
	return nil
}

// List implements attendance.AttendanceRepository.
func (r *AttendanceRepository) List(_ context.Context, filter attendance.Filter) ([]attendance.Record, int64, error) {
	r.mu.RLock()
	matched := make([]attendance.Record, 0)
	for _, rec := range r.records {
		if matchesFilter(rec, filter) {
			matched = append(matched, rec)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	total := int64(len(matched))
	start := min(filter.Offset, len(matched))
	end := len(matched)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, len(matched))
	}

	page := make([]attendance.Record, end-start)
	copy(page, matched[start:end])
	return page, total, nil
}

// ListForReport implements attendance.AttendanceRepository.
func (r *AttendanceRepository) ListForReport(_ context.Context, query attendance.ReportQuery) ([]attendance.Record, error) {
	r.mu.RLock()
	matched := make([]attendance.Record, 0)
	for _, rec := range r.records {
		if rec.Date < query.StartDate {
			continue
		}
		if !emptyOr(query.EndDate, func(v string) bool { return rec.Date <= v }) ||
			!emptyOr(query.Department, func(v string) bool { return rec.Department == v }) ||
			!emptyOr(query.StudentID, func(v string) bool { return rec.StudentID == v }) {
			continue
		}
		matched = append(matched, rec)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.StudentName != b.StudentName {
			return a.StudentName < b.StudentName
		}
		return a.ID < b.ID
	})
	return matched, nil
}

func matchesFilter(rec attendance.Record, f attendance.Filter) bool {
	return emptyOr(f.StudentID, func(v string) bool { return rec.StudentID == v }) &&
		emptyOr(f.Date, func(v string) bool { return rec.Date == v }) &&
		emptyOr(f.Department, func(v string) bool { return rec.Department == v }) &&
		emptyOr(f.Status, func(v string) bool { return string(rec.Status) == v }) &&
		emptyOr(f.StartDate, func(v string) bool { return rec.Date >= v }) &&
		emptyOr(f.EndDate, func(v string) bool { return rec.Date <= v })
}

// emptyOr reports true when the filter value is unset, otherwise the result of match.
func emptyOr(value *string, match func(string) bool) bool {
	if value == nil || *value == "" {
		return true
	}
	return match(*value)
}

// Transactor satisfies attendance.Transactor for the in-memory store.
// Each repository call is already atomic, so fn runs directly.
type Transactor struct{}

func (Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
