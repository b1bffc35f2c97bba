package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/clinassign/clinassign-backend-go/internal/domain/attendance"
	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/events"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	tx        attendance.Transactor
	policy    user.Policy
	publisher events.Publisher
	now       func() time.Time
}

func NewAttendanceService(
	repo attendance.AttendanceRepository,
	tx attendance.Transactor,
	policy user.Policy,
	publisher events.Publisher,
) attendance.AttendanceService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: repo,
		tx:                   tx,
		policy:               policy,
		publisher:            publisher,
		now: func() time.Time {
			// Postgres stores microseconds; keep returned values identical to stored ones.
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
}

func (s *AttendanceServiceImpl) authorize(actor user.Actor, op user.Operation) error {
	if !s.policy.IsAuthorized(actor.Role, op) {
		return user.ErrForbidden
	}
	return nil
}

// ListRecords implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListRecords(ctx context.Context, actor user.Actor, filter attendance.Filter) (attendance.ListResponse, error) {
	if err := s.authorize(actor, user.OperationRead); err != nil {
		return attendance.ListResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListResponse{}, err
	}

	records, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}
	if records == nil {
		records = []attendance.Record{}
	}

	return attendance.ListResponse{
		Data: records,
		Pagination: attendance.Pagination{
			Total:  total,
			Limit:  filter.Limit,
			Offset: filter.Offset,
		},
	}, nil
}

// GetRecord implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetRecord(ctx context.Context, actor user.Actor, id string) (attendance.Record, error) {
	if err := s.authorize(actor, user.OperationRead); err != nil {
		return attendance.Record{}, err
	}

	if !validator.IsValidUUID(id) {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}

	rec, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Record{}, err
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return rec, nil
}

// CreateRecord implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CreateRecord(ctx context.Context, actor user.Actor, req attendance.CreateRequest) (attendance.Record, error) {
	if err := s.authorize(actor, user.OperationWrite); err != nil {
		return attendance.Record{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		generated, err := uuid.NewV7()
		if err != nil {
			return attendance.Record{}, fmt.Errorf("failed to generate record id: %w", err)
		}
		id = generated.String()
	}

	status, _ := attendance.ParseStatus(req.Status)
	now := s.now()
	rec := attendance.Record{
		ID:          id,
		StudentID:   strings.TrimSpace(req.StudentID),
		StudentName: strings.TrimSpace(req.StudentName),
		Date:        req.Date,
		Status:      status,
		Department:  strings.TrimSpace(req.Department),
		MarkedBy:    actor.ID,
		Remarks:     req.Remarks,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Pre-check only improves the error; the store constraint is authoritative.
	existing, err := s.AttendanceRepository.GetByStudentAndDate(ctx, rec.StudentID, rec.Date)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if existing != nil {
		return attendance.Record{}, &attendance.ConflictError{ExistingID: existing.ID, Err: attendance.ErrDuplicateAttendance}
	}

	created, err := s.AttendanceRepository.Create(ctx, rec)
	if err != nil {
		return attendance.Record{}, s.resolveConflict(ctx, rec, err, "create")
	}

	s.publish(ctx, events.TypeAttendanceCreated, actor, created.ID, created)
	return created, nil
}

// UpdateRecord implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateRecord(ctx context.Context, actor user.Actor, id string, req attendance.UpdateRequest) (attendance.Record, error) {
	if err := s.authorize(actor, user.OperationWrite); err != nil {
		return attendance.Record{}, err
	}
	if !validator.IsValidUUID(id) {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}

	var (
		target  attendance.Record
		updated attendance.Record
	)
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		prev, err := s.AttendanceRepository.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := req.Validate(); err != nil {
			return err
		}

		target = applyUpdate(prev, req)
		target.MarkedBy = actor.ID
		target.UpdatedAt = s.now()
		if !target.UpdatedAt.After(prev.UpdatedAt) {
			target.UpdatedAt = prev.UpdatedAt.Add(time.Microsecond)
		}

		if target.StudentID != prev.StudentID || target.Date != prev.Date {
			occupant, err := s.AttendanceRepository.GetByStudentAndDate(txCtx, target.StudentID, target.Date)
			if err != nil {
				return fmt.Errorf("failed to check existing attendance: %w", err)
			}
			if occupant != nil && occupant.ID != prev.ID {
				return &attendance.ConflictError{ExistingID: occupant.ID, Err: attendance.ErrDuplicateAttendance}
			}
		}

		updated, err = s.AttendanceRepository.Update(txCtx, target)
		return err
	})
	if err != nil {
		var conflict *attendance.ConflictError
		var validation validator.ValidationErrors
		switch {
		case errors.As(err, &conflict), errors.As(err, &validation):
			return attendance.Record{}, err
		case errors.Is(err, attendance.ErrAttendanceNotFound):
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, s.resolveConflict(ctx, target, err, "update")
	}

	s.publish(ctx, events.TypeAttendanceUpdated, actor, updated.ID, updated)
	return updated, nil
}

// DeleteRecord implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteRecord(ctx context.Context, actor user.Actor, id string) error {
	if err := s.authorize(actor, user.OperationDelete); err != nil {
		return err
	}
	if !validator.IsValidUUID(id) {
		return attendance.ErrAttendanceNotFound
	}

	if err := s.AttendanceRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}

	s.publish(ctx, events.TypeAttendanceDeleted, actor, id, nil)
	return nil
}

// resolveConflict turns a store uniqueness error into a ConflictError carrying the
// id of the record that holds the slot. Other errors are wrapped.
func (s *AttendanceServiceImpl) resolveConflict(ctx context.Context, rec attendance.Record, err error, op string) error {
	switch {
	case errors.Is(err, attendance.ErrDuplicateAttendance):
		existing, lookupErr := s.AttendanceRepository.GetByStudentAndDate(ctx, rec.StudentID, rec.Date)
		if lookupErr != nil || existing == nil {
			return &attendance.ConflictError{Err: attendance.ErrDuplicateAttendance}
		}
		return &attendance.ConflictError{ExistingID: existing.ID, Err: attendance.ErrDuplicateAttendance}
	case errors.Is(err, attendance.ErrRecordIDExists):
		return &attendance.ConflictError{ExistingID: rec.ID, Err: attendance.ErrRecordIDExists}
	}
	return fmt.Errorf("failed to %s attendance record: %w", op, err)
}

func (s *AttendanceServiceImpl) publish(ctx context.Context, eventType string, actor user.Actor, recordID string, payload interface{}) {
	event := events.Event{
		Type:       eventType,
		RecordID:   recordID,
		ActorID:    actor.ID,
		OccurredAt: s.now(),
	}
	if payload != nil {
		event.Payload = payload
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish attendance event", "type", eventType, "record_id", recordID, "error", err)
	}
}

func applyUpdate(rec attendance.Record, req attendance.UpdateRequest) attendance.Record {
	if req.StudentID != nil {
		rec.StudentID = strings.TrimSpace(*req.StudentID)
	}
	if req.StudentName != nil {
		rec.StudentName = strings.TrimSpace(*req.StudentName)
	}
	if req.Date != nil {
		rec.Date = *req.Date
	}
	if req.Status != nil {
		rec.Status, _ = attendance.ParseStatus(*req.Status)
	}
	if req.Department != nil {
		rec.Department = strings.TrimSpace(*req.Department)
	}
	if req.Remarks != nil {
		rec.Remarks = req.Remarks
	}
	return rec
}
