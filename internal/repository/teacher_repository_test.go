package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noelyen/classtrack-api/internal/models"
)

func newTeacherMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTeacherRepositoryList(t *testing.T) {
	db, mock, cleanup := newTeacherMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "phone", "address", "created_at", "updated_at"}).
		AddRow("t1", "Kim", "010", "", time.Now(), time.Now())
	mock.ExpectQuery("SELECT t.id, t.name, t.phone").
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM teachers t").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	teachers, total, err := repo.List(context.Background(), models.TeacherFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, teachers, 1)
	assert.Equal(t, "Kim", teachers[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newTeacherMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec("INSERT INTO teachers").
		WithArgs(sqlmock.AnyArg(), "Kim", "010", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	teacher := &models.Teacher{Name: "Kim", Phone: "010"}
	err := repo.Create(context.Background(), teacher)
	require.NoError(t, err)
	assert.NotEmpty(t, teacher.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryCountCourses(t *testing.T) {
	db, mock, cleanup := newTeacherMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM courses WHERE teacher_id = $1`)).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountCourses(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newTeacherMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM teachers WHERE id = $1`)).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "t1"))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM teachers WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
