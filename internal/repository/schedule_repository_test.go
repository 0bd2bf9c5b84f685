package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noelyen/classtrack-api/internal/models"
)

func newScheduleMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScheduleRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec("INSERT INTO schedule_entries").
		WithArgs(sqlmock.AnyArg(), "c1", models.DayMonday, "14:30", "15:30", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := &models.ScheduleEntry{CourseID: "c1", DayOfWeek: models.DayMonday, StartTime: "14:30", EndTime: "15:30"}
	err := repo.Create(context.Background(), entry)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "course_id", "day_of_week", "start_time", "end_time", "created_at"}).
		AddRow("s1", "c1", "MON", "14:30", "15:30", time.Now())
	mock.ExpectQuery("SELECT id, course_id, day_of_week").
		WithArgs("s1").
		WillReturnRows(rows)

	entry, err := repo.FindByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, models.DayMonday, entry.DayOfWeek)

	mock.ExpectQuery("SELECT id, course_id, day_of_week").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.FindByID(context.Background(), "missing")
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListDetails(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "course_id", "day_of_week", "start_time", "end_time", "created_at", "course_name", "teacher_name"}).
		AddRow("s1", "c1", "MON", "10:00", "11:00", time.Now(), "Piano", "Kim").
		AddRow("s2", "c2", "THU", "16:00", "17:00", time.Now(), "Violin", "Lee")
	mock.ExpectQuery("FROM schedule_entries se").
		WillReturnRows(rows)

	entries, err := repo.ListDetails(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Piano", entries[0].CourseName)
	assert.Equal(t, "Lee", entries[1].TeacherName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
