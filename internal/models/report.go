package models

import "time"

// MonthlyReportRow is one attendance record joined across student,
// schedule, course and teacher. RemainingClasses is the student's
// balance at query time, not at the attendance date.
type MonthlyReportRow struct {
	Date             time.Time        `db:"date" json:"date"`
	StudentName      string           `db:"student_name" json:"student_name"`
	CourseName       string           `db:"course_name" json:"course_name"`
	StartTime        string           `db:"start_time" json:"start_time"`
	EndTime          string           `db:"end_time" json:"end_time"`
	TeacherName      string           `db:"teacher_name" json:"teacher_name"`
	Status           AttendanceStatus `db:"status" json:"status"`
	RemainingClasses int              `db:"remaining_classes" json:"remaining_classes"`
}
