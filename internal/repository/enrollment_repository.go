package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noelyen/classtrack-api/internal/models"
)

// EnrollmentRepository handles the student <-> course membership set.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListEnrolled returns students joined to the course, ordered by name.
func (r *EnrollmentRepository) ListEnrolled(ctx context.Context, courseID string) ([]models.Student, error) {
	const query = `SELECT s.id, s.name, s.phone, s.address, s.registered_classes, s.remaining_classes, s.created_at, s.updated_at
        FROM students s
        JOIN enrollments e ON e.student_id = s.id
        WHERE e.course_id = $1
        ORDER BY s.name`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, courseID); err != nil {
		return nil, fmt.Errorf("list enrolled students: %w", err)
	}
	return students, nil
}

// ListUnenrolled returns every student not joined to the course. A
// course with zero enrollments yields the full student set.
func (r *EnrollmentRepository) ListUnenrolled(ctx context.Context, courseID string) ([]models.Student, error) {
	const query = `SELECT s.id, s.name, s.phone, s.address, s.registered_classes, s.remaining_classes, s.created_at, s.updated_at
        FROM students s
        WHERE s.id NOT IN (SELECT student_id FROM enrollments WHERE course_id = $1)
        ORDER BY s.name`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, courseID); err != nil {
		return nil, fmt.Errorf("list unenrolled students: %w", err)
	}
	return students, nil
}

// Replace swaps the full edge set for a course: every existing edge is
// deleted, then one edge per given student is inserted. Runs in one
// transaction so a failure leaves the prior roster intact.
func (r *EnrollmentRepository) Replace(ctx context.Context, courseID string, studentIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace enrollment: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("clear enrollment: %w", err)
	}
	for _, studentID := range studentIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO enrollments (student_id, course_id) VALUES ($1, $2)`, studentID, courseID); err != nil {
			return fmt.Errorf("insert enrollment edge: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace enrollment: %w", err)
	}
	committed = true
	return nil
}
