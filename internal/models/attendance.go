package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "PRESENT"
	AttendanceStatusLate    AttendanceStatus = "LATE"
	AttendanceStatusAbsent  AttendanceStatus = "ABSENT"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusLate, AttendanceStatusAbsent:
		return true
	default:
		return false
	}
}

// Deductible reports whether the status consumes a prepaid class.
func (s AttendanceStatus) Deductible() bool {
	return s == AttendanceStatusPresent || s == AttendanceStatusLate
}

// AttendanceRecord stores one student's attendance for one session.
// At most one record exists per (student_id, schedule_id, date).
type AttendanceRecord struct {
	ID            string           `db:"id" json:"id"`
	StudentID     string           `db:"student_id" json:"student_id"`
	ScheduleID    string           `db:"schedule_id" json:"schedule_id"`
	Date          time.Time        `db:"date" json:"date"`
	Status        AttendanceStatus `db:"status" json:"status"`
	ClassDeducted bool             `db:"class_deducted" json:"class_deducted"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
}

// AttendanceMark is one student's submitted status for a session.
type AttendanceMark struct {
	StudentID string           `json:"student_id"`
	Status    AttendanceStatus `json:"status"`
}

// AttendanceBatchResult summarises what one takeAttendance call did.
type AttendanceBatchResult struct {
	Created        int `json:"created"`
	SkippedUnknown int `json:"skipped_unknown"`
	SkippedExists  int `json:"skipped_existing"`
	Deducted       int `json:"deducted"`
}

// StudentHistoryRow is one attendance record joined to its course.
type StudentHistoryRow struct {
	Date          time.Time        `db:"date" json:"date"`
	CourseName    string           `db:"course_name" json:"course_name"`
	StartTime     string           `db:"start_time" json:"start_time"`
	EndTime       string           `db:"end_time" json:"end_time"`
	Status        AttendanceStatus `db:"status" json:"status"`
	ClassDeducted bool             `db:"class_deducted" json:"class_deducted"`
}

// StudentAttendanceHistory pairs the student's current profile with
// their full record list, newest first.
type StudentAttendanceHistory struct {
	Student Student             `json:"student"`
	Records []StudentHistoryRow `json:"records"`
}
