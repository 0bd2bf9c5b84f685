package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noelyen/classtrack-api/internal/models"
	appErrors "github.com/noelyen/classtrack-api/pkg/errors"
)

type mockAttendanceRepo struct {
	result    *models.AttendanceBatchResult
	history   []models.StudentHistoryRow
	lastMarks []models.AttendanceMark
	lastDate  time.Time
	calls     int
	err       error
}

func (m *mockAttendanceRepo) RecordBatch(ctx context.Context, scheduleID string, date time.Time, marks []models.AttendanceMark) (*models.AttendanceBatchResult, error) {
	m.calls++
	m.lastMarks = marks
	m.lastDate = date
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockAttendanceRepo) StudentHistory(ctx context.Context, studentID string) ([]models.StudentHistoryRow, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.history, nil
}

type mockAttendanceScheduleRepo struct {
	entries map[string]models.ScheduleEntry
}

func (m *mockAttendanceScheduleRepo) FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	if e, ok := m.entries[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

type mockAttendanceStudentRepo struct {
	students map[string]models.Student
}

func (m *mockAttendanceStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func newAttendanceService(repo *mockAttendanceRepo, schedules *mockAttendanceScheduleRepo, students *mockAttendanceStudentRepo) *AttendanceService {
	if schedules == nil {
		schedules = &mockAttendanceScheduleRepo{}
	}
	if students == nil {
		students = &mockAttendanceStudentRepo{}
	}
	return NewAttendanceService(repo, schedules, students, validator.New(), zap.NewNop())
}

func TestAttendanceServiceTake(t *testing.T) {
	repo := &mockAttendanceRepo{result: &models.AttendanceBatchResult{Created: 3, Deducted: 2}}
	schedules := &mockAttendanceScheduleRepo{entries: map[string]models.ScheduleEntry{
		"sch1": {ID: "sch1", CourseID: "c1"},
	}}
	svc := newAttendanceService(repo, schedules, nil)

	result, err := svc.Take(context.Background(), TakeAttendanceRequest{
		ScheduleID: "sch1",
		Date:       "2026-03-02",
		Statuses: map[string]models.AttendanceStatus{
			"stu-c": models.AttendanceStatusPresent,
			"stu-a": models.AttendanceStatusLate,
			"stu-b": models.AttendanceStatusAbsent,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 2, result.Deducted)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), repo.lastDate)

	// Marks reach the repository in student ID order regardless of map
	// iteration order.
	require.Len(t, repo.lastMarks, 3)
	assert.Equal(t, "stu-a", repo.lastMarks[0].StudentID)
	assert.Equal(t, "stu-b", repo.lastMarks[1].StudentID)
	assert.Equal(t, "stu-c", repo.lastMarks[2].StudentID)
}

func TestAttendanceServiceTakeUnknownSchedule(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := newAttendanceService(repo, nil, nil)

	_, err := svc.Take(context.Background(), TakeAttendanceRequest{
		ScheduleID: "missing",
		Date:       "2026-03-02",
		Statuses:   map[string]models.AttendanceStatus{"stu-a": models.AttendanceStatusPresent},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.calls, "no write may happen for an unknown schedule")
}

func TestAttendanceServiceTakeBadStatus(t *testing.T) {
	repo := &mockAttendanceRepo{}
	schedules := &mockAttendanceScheduleRepo{entries: map[string]models.ScheduleEntry{"sch1": {ID: "sch1"}}}
	svc := newAttendanceService(repo, schedules, nil)

	_, err := svc.Take(context.Background(), TakeAttendanceRequest{
		ScheduleID: "sch1",
		Date:       "2026-03-02",
		Statuses:   map[string]models.AttendanceStatus{"stu-a": "EXCUSED"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.calls)
}

func TestAttendanceServiceTakeBadDate(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := newAttendanceService(repo, nil, nil)

	_, err := svc.Take(context.Background(), TakeAttendanceRequest{
		ScheduleID: "sch1",
		Date:       "02/03/2026",
		Statuses:   map[string]models.AttendanceStatus{"stu-a": models.AttendanceStatusPresent},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceTakeEmptyStatuses(t *testing.T) {
	svc := newAttendanceService(&mockAttendanceRepo{}, nil, nil)

	_, err := svc.Take(context.Background(), TakeAttendanceRequest{
		ScheduleID: "sch1",
		Date:       "2026-03-02",
		Statuses:   map[string]models.AttendanceStatus{},
	})
	require.Error(t, err)
}

func TestAttendanceServiceStudentHistory(t *testing.T) {
	repo := &mockAttendanceRepo{history: []models.StudentHistoryRow{
		{CourseName: "Piano", Status: models.AttendanceStatusPresent, ClassDeducted: true},
		{CourseName: "Piano", Status: models.AttendanceStatusAbsent, ClassDeducted: false},
	}}
	students := &mockAttendanceStudentRepo{students: map[string]models.Student{
		"stu-a": {ID: "stu-a", Name: "Mina", RemainingClasses: 7},
	}}
	svc := newAttendanceService(repo, nil, students)

	history, err := svc.StudentHistory(context.Background(), "stu-a")
	require.NoError(t, err)
	assert.Equal(t, "Mina", history.Student.Name)
	assert.Equal(t, 7, history.Student.RemainingClasses)
	assert.Len(t, history.Records, 2)
}

func TestAttendanceServiceStudentHistoryUnknownStudent(t *testing.T) {
	svc := newAttendanceService(&mockAttendanceRepo{}, nil, nil)

	_, err := svc.StudentHistory(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
