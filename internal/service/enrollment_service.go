package service

import (
	"context"
	"database/sql"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noelyen/classtrack-api/internal/models"
	appErrors "github.com/noelyen/classtrack-api/pkg/errors"
)

type enrollmentRepository interface {
	ListEnrolled(ctx context.Context, courseID string) ([]models.Student, error)
	ListUnenrolled(ctx context.Context, courseID string) ([]models.Student, error)
	Replace(ctx context.Context, courseID string, studentIDs []string) error
}

type enrollmentCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// SetRosterRequest carries the complete desired roster for a course.
// This is a full replace, not a diff.
type SetRosterRequest struct {
	StudentIDs []string `json:"student_ids"`
}

// EnrollmentService manages the student <-> course membership set.
type EnrollmentService struct {
	repo      enrollmentRepository
	courses   enrollmentCourseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(repo enrollmentRepository, courses enrollmentCourseRepository, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// Roster returns the students joined to a course, ordered by name.
func (s *EnrollmentService) Roster(ctx context.Context, courseID string) ([]models.Student, error) {
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return nil, err
	}
	students, err := s.repo.ListEnrolled(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	return students, nil
}

// Candidates returns every student not yet joined to the course.
func (s *EnrollmentService) Candidates(ctx context.Context, courseID string) ([]models.Student, error) {
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return nil, err
	}
	students, err := s.repo.ListUnenrolled(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load candidates")
	}
	return students, nil
}

// SetRoster replaces the full enrollment set for a course. Duplicate
// IDs in the input collapse to one edge. The prior roster survives any
// failure untouched.
func (s *EnrollmentService) SetRoster(ctx context.Context, courseID string, req SetRosterRequest) error {
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(req.StudentIDs))
	distinct := make([]string, 0, len(req.StudentIDs))
	for _, id := range req.StudentIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	sort.Strings(distinct)

	if err := s.repo.Replace(ctx, courseID, distinct); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace roster")
	}
	return nil
}

func (s *EnrollmentService) ensureCourse(ctx context.Context, courseID string) error {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return nil
}
