package models

import "time"

// Course represents a recurring class owned by a teacher.
// BreakMinutes is informational only and never enters conflict math.
type Course struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	TeacherID       string    `db:"teacher_id" json:"teacher_id"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	BreakMinutes    int       `db:"break_minutes" json:"break_minutes"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// CourseDetail joins a course with its teacher and weekly entries.
type CourseDetail struct {
	Course
	TeacherName string          `db:"teacher_name" json:"teacher_name"`
	Schedules   []ScheduleEntry `db:"-" json:"schedules"`
}

// CourseFilter describes query params for listing courses.
type CourseFilter struct {
	Search    string
	TeacherID string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
