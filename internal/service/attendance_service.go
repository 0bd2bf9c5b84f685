package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noelyen/classtrack-api/internal/models"
	appErrors "github.com/noelyen/classtrack-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type attendanceRepository interface {
	RecordBatch(ctx context.Context, scheduleID string, date time.Time, marks []models.AttendanceMark) (*models.AttendanceBatchResult, error)
	StudentHistory(ctx context.Context, studentID string) ([]models.StudentHistoryRow, error)
}

type attendanceScheduleRepository interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error)
}

type attendanceStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// TakeAttendanceRequest carries one session's submitted statuses,
// keyed by student ID.
type TakeAttendanceRequest struct {
	ScheduleID string                             `json:"schedule_id" validate:"required"`
	Date       string                             `json:"date" validate:"required"`
	Statuses   map[string]models.AttendanceStatus `json:"statuses" validate:"required,min=1"`
}

// AttendanceService is the ledger: it records attendance batches and
// drives balance deduction.
type AttendanceService struct {
	repo      attendanceRepository
	schedules attendanceScheduleRepository
	students  attendanceStudentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, schedules attendanceScheduleRepository, students attendanceStudentRepository, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, schedules: schedules, students: students, validator: validate, logger: logger}
}

// Take records one attendance batch. The first submission for a
// (student, schedule, date) wins; resubmissions never update status or
// deduct again. Unknown student IDs are skipped silently. An unknown
// schedule fails the entire call before any write.
func (s *AttendanceService) Take(ctx context.Context, req TakeAttendanceRequest) (*models.AttendanceBatchResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be YYYY-MM-DD")
	}
	for studentID, status := range req.Statuses {
		if !status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q for student %s", status, studentID))
		}
	}

	if _, err := s.schedules.FindByID(ctx, req.ScheduleID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}

	// Sorted iteration keeps the write order stable across calls.
	marks := make([]models.AttendanceMark, 0, len(req.Statuses))
	for studentID, status := range req.Statuses {
		marks = append(marks, models.AttendanceMark{StudentID: studentID, Status: status})
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].StudentID < marks[j].StudentID })

	result, err := s.repo.RecordBatch(ctx, req.ScheduleID, date, marks)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
	}
	s.logger.Info("attendance_recorded",
		zap.String("schedule_id", req.ScheduleID),
		zap.String("date", req.Date),
		zap.Int("created", result.Created),
		zap.Int("deducted", result.Deducted),
	)
	return result, nil
}

// StudentHistory returns the student's current profile paired with
// their full attendance history, newest first.
func (s *AttendanceService) StudentHistory(ctx context.Context, studentID string) (*models.StudentAttendanceHistory, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	records, err := s.repo.StudentHistory(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance history")
	}
	return &models.StudentAttendanceHistory{Student: *student, Records: records}, nil
}
