package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinassign/clinassign-backend-go/internal/domain/attendance"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/database"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/validator"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	attendanceStudentDateKey = "attendance_records_student_date_key"
	attendancePrimaryKey     = "attendance_records_pkey"
)

const attendanceColumns = `
	id, student_id, student_name, date::text, status, department, marked_by, remarks,
	created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.StudentID, &rec.StudentName, &rec.Date, &rec.Status, &rec.Department,
		&rec.MarkedBy, &rec.Remarks, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// mapUniqueViolation translates constraint violations on attendance_records into domain errors.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case attendanceStudentDateKey:
		return attendance.ErrDuplicateAttendance
	case attendancePrimaryKey:
		return attendance.ErrRecordIDExists
	}
	return nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (
			id, student_id, student_name, date, status, department, marked_by, remarks,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10
		) RETURNING ` + attendanceColumns

	created, err := scanRecord(q.QueryRow(ctx, query,
		rec.ID,
		rec.StudentID,
		rec.StudentName,
		rec.Date,
		rec.Status,
		rec.Department,
		rec.MarkedBy,
		rec.Remarks,
		rec.CreatedAt,
		rec.UpdatedAt,
	))
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return attendance.Record{}, mapped
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return created, nil
}

// GetByID implements attendance.AttendanceRepository.
// Inside a transaction the row is locked until commit.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	if !validator.IsValidUUID(id) {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE id = $1`
	if inTransaction(ctx) {
		query += " FOR UPDATE"
	}

	rec, err := scanRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record by ID: %w", err)
	}

	return rec, nil
}

// GetByStudentAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByStudentAndDate(ctx context.Context, studentID string, date string) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE student_id = $1 AND date = $2::date
		LIMIT 1`

	rec, err := scanRecord(q.QueryRow(ctx, query, studentID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No existing record
		}
		return nil, fmt.Errorf("failed to get attendance record by student and date: %w", err)
	}

	return &rec, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if !validator.IsValidUUID(rec.ID) {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET student_id = $2,
			student_name = $3,
			date = $4::date,
			status = $5,
			department = $6,
			marked_by = $7,
			remarks = $8,
			updated_at = $9
		WHERE id = $1
		RETURNING ` + attendanceColumns

	updated, err := scanRecord(q.QueryRow(ctx, query,
		rec.ID,
		rec.StudentID,
		rec.StudentName,
		rec.Date,
		rec.Status,
		rec.Department,
		rec.MarkedBy,
		rec.Remarks,
		rec.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		if mapped := mapUniqueViolation(err); mapped != nil {
			return attendance.Record{}, mapped
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return updated, nil
}

// Delete implements attendance.AttendanceRepository. Ids that are not UUIDs cannot exist in
// the uuid column and report ErrAttendanceNotFound.
func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return attendance.ErrAttendanceNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	addEq := func(column string, value *string, cast string) {
		if value == nil || *value == "" {
			return
		}
		baseWhere += fmt.Sprintf(" AND %s = $%d%s", column, argIdx, cast)
		args = append(args, *value)
		argIdx++
	}

	addEq("student_id", filter.StudentID, "")
	addEq("date", filter.Date, "::date")
	addEq("department", filter.Department, "")
	addEq("status", filter.Status, "")

	// Date range filters
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND date >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND date <= $%d::date", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	// Count total
	var total int64
	countQuery := "SELECT COUNT(*) FROM attendance_records WHERE " + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	dataQuery := fmt.Sprintf(`SELECT %s
		FROM attendance_records
		WHERE %s
		ORDER BY date DESC, created_at DESC, id
		LIMIT $%d OFFSET $%d`, attendanceColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := q.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	records, err := collectRecords(rows)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListForReport implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListForReport(ctx context.Context, query attendance.ReportQuery) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	where := "date >= $1::date"
	args := []interface{}{query.StartDate}
	argIdx := 2

	if query.EndDate != nil && *query.EndDate != "" {
		where += fmt.Sprintf(" AND date <= $%d::date", argIdx)
		args = append(args, *query.EndDate)
		argIdx++
	}
	if query.Department != nil && *query.Department != "" {
		where += fmt.Sprintf(" AND department = $%d", argIdx)
		args = append(args, *query.Department)
		argIdx++
	}
	if query.StudentID != nil && *query.StudentID != "" {
		where += fmt.Sprintf(" AND student_id = $%d", argIdx)
		args = append(args, *query.StudentID)
	}

	sql := `SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE ` + where + `
		ORDER BY date ASC, student_name ASC, id`

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query report records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func collectRecords(rows pgx.Rows) ([]attendance.Record, error) {
	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}
	return records, nil
}
