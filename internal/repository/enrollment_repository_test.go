package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnrollmentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEnrollmentRepositoryReplace(t *testing.T) {
	db, mock, cleanup := newEnrollmentMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM enrollments WHERE course_id = $1`)).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO enrollments (student_id, course_id) VALUES ($1, $2)`)).
		WithArgs("stu-a", "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO enrollments (student_id, course_id) VALUES ($1, $2)`)).
		WithArgs("stu-b", "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Replace(context.Background(), "c1", []string{"stu-a", "stu-b"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryReplaceEmpty(t *testing.T) {
	db, mock, cleanup := newEnrollmentMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM enrollments WHERE course_id = $1`)).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	err := repo.Replace(context.Background(), "c1", nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryReplaceRollsBack(t *testing.T) {
	db, mock, cleanup := newEnrollmentMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM enrollments WHERE course_id = $1`)).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO enrollments (student_id, course_id) VALUES ($1, $2)`)).
		WithArgs("stu-a", "c1").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Replace(context.Background(), "c1", []string{"stu-a"})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListEnrolled(t *testing.T) {
	db, mock, cleanup := newEnrollmentMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "phone", "address", "registered_classes", "remaining_classes", "created_at", "updated_at"}).
		AddRow("stu-a", "Ara", "", "", 8, 5, time.Now(), time.Now()).
		AddRow("stu-b", "Bin", "", "", 4, 4, time.Now(), time.Now())
	mock.ExpectQuery("JOIN enrollments e ON e.student_id = s.id").
		WithArgs("c1").
		WillReturnRows(rows)

	students, err := repo.ListEnrolled(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Ara", students[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListUnenrolled(t *testing.T) {
	db, mock, cleanup := newEnrollmentMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "phone", "address", "registered_classes", "remaining_classes", "created_at", "updated_at"}).
		AddRow("stu-c", "Chul", "", "", 0, 0, time.Now(), time.Now())
	mock.ExpectQuery("NOT IN \\(SELECT student_id FROM enrollments").
		WithArgs("c1").
		WillReturnRows(rows)

	students, err := repo.ListUnenrolled(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Chul", students[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
