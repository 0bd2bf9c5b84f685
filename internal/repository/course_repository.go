package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noelyen/classtrack-api/internal/models"
)

// CourseRepository handles persistence of courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses joined with their teacher and weekly entries.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error) {
	base := `FROM courses c
JOIN teachers t ON t.id = c.teacher_id`
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("c.name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.TeacherID != "" {
		where = append(where, fmt.Sprintf("c.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	whereClause := strings.Join(where, " AND ")

	allowedSorts := map[string]string{
		"name":         "c.name",
		"teacher_name": "t.name",
		"created_at":   "c.created_at",
	}
	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "name"
	}
	orderBy, ok := allowedSorts[sortBy]
	if !ok {
		orderBy = "c.name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT c.id, c.name, c.teacher_id, c.duration_minutes, c.break_minutes, c.created_at, c.updated_at,
        t.name AS teacher_name
        %s WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, whereClause, orderBy, order, size, offset)

	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	if err := r.attachSchedules(ctx, courses); err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *CourseRepository) attachSchedules(ctx context.Context, courses []models.CourseDetail) error {
	if len(courses) == 0 {
		return nil
	}
	ids := make([]string, len(courses))
	placeholders := make([]string, len(courses))
	args := make([]interface{}, len(courses))
	for i := range courses {
		ids[i] = courses[i].ID
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = courses[i].ID
	}
	query := fmt.Sprintf(`SELECT id, course_id, day_of_week, start_time, end_time, created_at
        FROM schedule_entries WHERE course_id IN (%s)
        ORDER BY course_id, start_time, id`, strings.Join(placeholders, ","))
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return fmt.Errorf("load course schedules: %w", err)
	}
	byCourse := make(map[string][]models.ScheduleEntry, len(ids))
	for _, entry := range entries {
		byCourse[entry.CourseID] = append(byCourse[entry.CourseID], entry)
	}
	for i := range courses {
		courses[i].Schedules = byCourse[courses[i].ID]
	}
	return nil
}

// FindByID returns a course by ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, name, teacher_id, duration_minutes, break_minutes, created_at, updated_at FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindDetailByID returns a course with its teacher and entries.
func (r *CourseRepository) FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	const query = `SELECT c.id, c.name, c.teacher_id, c.duration_minutes, c.break_minutes, c.created_at, c.updated_at,
        t.name AS teacher_name
        FROM courses c
        JOIN teachers t ON t.id = c.teacher_id
        WHERE c.id = $1`
	var detail models.CourseDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	details := []models.CourseDetail{detail}
	if err := r.attachSchedules(ctx, details); err != nil {
		return nil, err
	}
	return &details[0], nil
}

// ExistsByName checks whether a course already uses the name.
func (r *CourseRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	const query = `SELECT 1 FROM courses WHERE lower(name) = lower($1) LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, name); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course name: %w", err)
	}
	return true, nil
}

// Create persists a new course record.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	now := time.Now().UTC()
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	course.CreatedAt = now
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, name, teacher_id, duration_minutes, break_minutes, created_at, updated_at)
        VALUES (:id, :name, :teacher_id, :duration_minutes, :break_minutes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Delete removes a course with its schedule entries, the attendance
// records tied to those entries, and its enrollment edges, in
// dependency order inside one transaction. Student balances are left
// untouched.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete course: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance_records
        WHERE schedule_id IN (SELECT id FROM schedule_entries WHERE course_id = $1)`, id); err != nil {
		return fmt.Errorf("delete course attendance: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_entries WHERE course_id = $1`, id); err != nil {
		return fmt.Errorf("delete course schedules: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE course_id = $1`, id); err != nil {
		return fmt.Errorf("delete course enrollments: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete course result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete course: %w", err)
	}
	committed = true
	return nil
}
