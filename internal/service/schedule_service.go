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

// The studio closes for lunch between 12:10 and 13:00; no session may
// intersect that window.
const (
	lunchStartMinutes = 12*60 + 10
	lunchEndMinutes   = 13 * 60
)

type scheduleRepository interface {
	Create(ctx context.Context, entry *models.ScheduleEntry) error
	FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error)
	FindDetailByID(ctx context.Context, id string) (*models.ScheduleEntryDetail, error)
	ListDetails(ctx context.Context) ([]models.ScheduleEntryDetail, error)
}

type scheduleCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// AddScheduleEntryRequest holds payload for creating schedule entries.
// EndTime is always computed from the course duration, never supplied.
type AddScheduleEntryRequest struct {
	CourseID  string           `json:"course_id" validate:"required"`
	DayOfWeek models.DayOfWeek `json:"day_of_week" validate:"required"`
	StartTime string           `json:"start_time" validate:"required"`
}

// ScheduleService validates new weekly entries and expands them into
// dated occurrences.
type ScheduleService struct {
	repo      scheduleRepository
	courses   scheduleCourseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs the schedule service.
func NewScheduleService(repo scheduleRepository, courses scheduleCourseRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// AddEntry creates a weekly entry after checking the lunch window.
// Overlap with other entries of the same course, teacher or student is
// deliberately not checked.
func (s *ScheduleService) AddEntry(ctx context.Context, req AddScheduleEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if !req.DayOfWeek.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day of week %q", req.DayOfWeek))
	}
	start, err := parseClock(req.StartTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "start time must be HH:MM")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	end := start + course.DurationMinutes
	if !(end <= lunchStartMinutes || start >= lunchEndMinutes) {
		return nil, appErrors.Clone(appErrors.ErrScheduleConflict,
			fmt.Sprintf("%s-%s overlaps the 12:10-13:00 lunch break", formatClock(start), formatClock(end)))
	}

	entry := &models.ScheduleEntry{
		CourseID:  course.ID,
		DayOfWeek: req.DayOfWeek,
		StartTime: formatClock(start),
		EndTime:   formatClock(end),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule entry")
	}
	return entry, nil
}

// Occurrences expands every weekly entry into dated occurrences over
// the inclusive [from, to] range, sorted by (date, start time) with
// schedule ID as the final tie break. Computed fresh on each call.
func (s *ScheduleService) Occurrences(ctx context.Context, from, to time.Time) ([]models.Occurrence, error) {
	from = dateOnly(from)
	to = dateOnly(to)
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "range end precedes range start")
	}

	entries, err := s.repo.ListDetails(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
	}

	byDay := make(map[models.DayOfWeek][]models.ScheduleEntryDetail, 7)
	for _, entry := range entries {
		byDay[entry.DayOfWeek] = append(byDay[entry.DayOfWeek], entry)
	}

	occurrences := []models.Occurrence{}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		for _, entry := range byDay[models.DayOfWeekFor(d.Weekday())] {
			occurrences = append(occurrences, models.Occurrence{
				Date:        d,
				ScheduleID:  entry.ID,
				CourseID:    entry.CourseID,
				CourseName:  entry.CourseName,
				TeacherName: entry.TeacherName,
				StartTime:   entry.StartTime,
				EndTime:     entry.EndTime,
			})
		}
	}

	sort.Slice(occurrences, func(i, j int) bool {
		a, b := occurrences[i], occurrences[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ScheduleID < b.ScheduleID
	})
	return occurrences, nil
}

// Today returns the single-day expansion for the current date.
func (s *ScheduleService) Today(ctx context.Context) ([]models.Occurrence, error) {
	today := dateOnly(time.Now())
	return s.Occurrences(ctx, today, today)
}

func parseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
