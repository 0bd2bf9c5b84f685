package models

// EnrollmentEdge is one membership link between a student and a course.
// The pair is unique per (student_id, course_id).
type EnrollmentEdge struct {
	StudentID string `db:"student_id" json:"student_id"`
	CourseID  string `db:"course_id" json:"course_id"`
}
