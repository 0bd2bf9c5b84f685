package models

import "time"

// DayOfWeek names a weekday in schedule entries.
type DayOfWeek string

const (
	DayMonday    DayOfWeek = "MON"
	DayTuesday   DayOfWeek = "TUE"
	DayWednesday DayOfWeek = "WED"
	DayThursday  DayOfWeek = "THU"
	DayFriday    DayOfWeek = "FRI"
	DaySaturday  DayOfWeek = "SAT"
	DaySunday    DayOfWeek = "SUN"
)

// Valid returns true when the day is a supported value.
func (d DayOfWeek) Valid() bool {
	switch d {
	case DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday, DaySunday:
		return true
	default:
		return false
	}
}

// DayOfWeekFor maps a calendar weekday to its schedule name.
func DayOfWeekFor(w time.Weekday) DayOfWeek {
	switch w {
	case time.Monday:
		return DayMonday
	case time.Tuesday:
		return DayTuesday
	case time.Wednesday:
		return DayWednesday
	case time.Thursday:
		return DayThursday
	case time.Friday:
		return DayFriday
	case time.Saturday:
		return DaySaturday
	default:
		return DaySunday
	}
}

// ScheduleEntry is one weekly recurring time slot of a course.
// Times are wall-clock "HH:MM" strings at minute precision.
type ScheduleEntry struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	DayOfWeek DayOfWeek `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ScheduleEntryDetail joins an entry with its course and teacher.
type ScheduleEntryDetail struct {
	ScheduleEntry
	CourseName  string `db:"course_name" json:"course_name"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}

// Occurrence is one concrete calendar-dated instance of a weekly entry.
type Occurrence struct {
	Date        time.Time `json:"date"`
	ScheduleID  string    `json:"schedule_id"`
	CourseID    string    `json:"course_id"`
	CourseName  string    `json:"course_name"`
	TeacherName string    `json:"teacher_name"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
}
