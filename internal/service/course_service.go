package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noelyen/classtrack-api/internal/models"
	appErrors "github.com/noelyen/classtrack-api/pkg/errors"
)

const (
	defaultDurationMinutes = 60
	defaultBreakMinutes    = 10
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type courseTeacherRepository interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// CreateCourseRequest holds payload for creating courses.
type CreateCourseRequest struct {
	Name            string `json:"name" validate:"required"`
	TeacherID       string `json:"teacher_id" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=0"`
	BreakMinutes    int    `json:"break_minutes" validate:"min=0"`
}

// CourseService handles course use-cases.
type CourseService struct {
	repo      courseRepository
	teachers  courseTeacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, teachers courseTeacherRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, teachers: teachers, validator: validate, logger: logger}
}

// List returns courses with teacher and schedule context.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return courses, pagination, nil
}

// Get returns one course with its teacher and entries.
func (s *CourseService) Get(ctx context.Context, id string) (*models.CourseDetail, error) {
	course, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create registers a new course owned by an existing teacher.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	exists, err := s.repo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course name already used")
	}
	duration := req.DurationMinutes
	if duration == 0 {
		duration = defaultDurationMinutes
	}
	pause := req.BreakMinutes
	if pause == 0 {
		pause = defaultBreakMinutes
	}
	course := &models.Course{
		Name:            req.Name,
		TeacherID:       req.TeacherID,
		DurationMinutes: duration,
		BreakMinutes:    pause,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Delete removes a course and cascades to its schedule entries, their
// attendance records, and its enrollment edges.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}
