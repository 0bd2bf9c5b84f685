package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noelyen/classtrack-api/internal/models"
)

// ScheduleRepository handles persistence of weekly schedule entries.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create persists a new schedule entry.
func (r *ScheduleRepository) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO schedule_entries (id, course_id, day_of_week, start_time, end_time, created_at)
        VALUES (:id, :course_id, :day_of_week, :start_time, :end_time, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create schedule entry: %w", err)
	}
	return nil
}

// FindByID returns a schedule entry by ID.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	const query = `SELECT id, course_id, day_of_week, start_time, end_time, created_at FROM schedule_entries WHERE id = $1`
	var entry models.ScheduleEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindDetailByID returns a schedule entry with course and teacher names.
func (r *ScheduleRepository) FindDetailByID(ctx context.Context, id string) (*models.ScheduleEntryDetail, error) {
	const query = `SELECT se.id, se.course_id, se.day_of_week, se.start_time, se.end_time, se.created_at,
        c.name AS course_name, t.name AS teacher_name
        FROM schedule_entries se
        JOIN courses c ON c.id = se.course_id
        JOIN teachers t ON t.id = c.teacher_id
        WHERE se.id = $1`
	var detail models.ScheduleEntryDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListDetails returns every schedule entry joined with its course and
// teacher, the working set for occurrence expansion.
func (r *ScheduleRepository) ListDetails(ctx context.Context) ([]models.ScheduleEntryDetail, error) {
	const query = `SELECT se.id, se.course_id, se.day_of_week, se.start_time, se.end_time, se.created_at,
        c.name AS course_name, t.name AS teacher_name
        FROM schedule_entries se
        JOIN courses c ON c.id = se.course_id
        JOIN teachers t ON t.id = c.teacher_id
        ORDER BY se.start_time, se.id`
	var entries []models.ScheduleEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list schedule entries: %w", err)
	}
	return entries, nil
}
