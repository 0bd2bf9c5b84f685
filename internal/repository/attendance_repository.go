package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noelyen/classtrack-api/internal/models"
)

// AttendanceRepository records per-session attendance and mutates
// class balances.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// RecordBatch writes one attendance batch atomically. Per mark:
// unknown students and already-recorded (student, schedule, date)
// triples are skipped without error; deductible statuses decrement the
// student's balance only while it is positive, and the record keeps
// whether a class was actually deducted. Any storage failure rolls the
// whole batch back.
func (r *AttendanceRepository) RecordBatch(ctx context.Context, scheduleID string, date time.Time, marks []models.AttendanceMark) (*models.AttendanceBatchResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin attendance batch: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	result := &models.AttendanceBatchResult{}
	now := time.Now().UTC()

	for _, mark := range marks {
		var remaining int
		err := tx.GetContext(ctx, &remaining, `SELECT remaining_classes FROM students WHERE id = $1`, mark.StudentID)
		if err != nil {
			if err == sql.ErrNoRows {
				result.SkippedUnknown++
				continue
			}
			return nil, fmt.Errorf("load student balance: %w", err)
		}

		var exists int
		err = tx.GetContext(ctx, &exists, `SELECT 1 FROM attendance_records WHERE student_id = $1 AND schedule_id = $2 AND date = $3 LIMIT 1`,
			mark.StudentID, scheduleID, date)
		if err == nil {
			result.SkippedExists++
			continue
		}
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("check attendance record: %w", err)
		}

		deducted := false
		if mark.Status.Deductible() && remaining > 0 {
			if _, err := tx.ExecContext(ctx, `UPDATE students SET remaining_classes = remaining_classes - 1, updated_at = $2 WHERE id = $1 AND remaining_classes > 0`,
				mark.StudentID, now); err != nil {
				return nil, fmt.Errorf("deduct class balance: %w", err)
			}
			deducted = true
			result.Deducted++
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO attendance_records (id, student_id, schedule_id, date, status, class_deducted, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.NewString(), mark.StudentID, scheduleID, date, mark.Status, deducted, now); err != nil {
			return nil, fmt.Errorf("insert attendance record: %w", err)
		}
		result.Created++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit attendance batch: %w", err)
	}
	committed = true
	return result, nil
}

// StudentHistory returns every record for a student joined to its
// course, newest first.
func (r *AttendanceRepository) StudentHistory(ctx context.Context, studentID string) ([]models.StudentHistoryRow, error) {
	const query = `SELECT ar.date, c.name AS course_name, se.start_time, se.end_time, ar.status, ar.class_deducted
        FROM attendance_records ar
        JOIN schedule_entries se ON se.id = ar.schedule_id
        JOIN courses c ON c.id = se.course_id
        WHERE ar.student_id = $1
        ORDER BY ar.date DESC`
	var rows []models.StudentHistoryRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("student attendance history: %w", err)
	}
	return rows, nil
}

// MonthlyReport returns attendance rows in the inclusive date range
// joined across student, schedule, course and teacher, sorted by
// (date, student name). The balance column is read live.
func (r *AttendanceRepository) MonthlyReport(ctx context.Context, from, to time.Time) ([]models.MonthlyReportRow, error) {
	const query = `SELECT ar.date, s.name AS student_name, c.name AS course_name,
        se.start_time, se.end_time, t.name AS teacher_name, ar.status, s.remaining_classes
        FROM attendance_records ar
        JOIN students s ON s.id = ar.student_id
        JOIN schedule_entries se ON se.id = ar.schedule_id
        JOIN courses c ON c.id = se.course_id
        JOIN teachers t ON t.id = c.teacher_id
        WHERE ar.date BETWEEN $1 AND $2
        ORDER BY ar.date, s.name`
	var rows []models.MonthlyReportRow
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("monthly attendance report: %w", err)
	}
	return rows, nil
}
