package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noelyen/classtrack-api/internal/models"
	appErrors "github.com/noelyen/classtrack-api/pkg/errors"
)

type mockTeacherRepo struct {
	teachers map[string]models.Teacher
	courses  map[string]int
	deleted  []string
}

func (m *mockTeacherRepo) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	out := make([]models.Teacher, 0, len(m.teachers))
	for _, t := range m.teachers {
		out = append(out, t)
	}
	return out, len(out), nil
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		return &t, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, t := range m.teachers {
		if t.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	if m.teachers == nil {
		m.teachers = make(map[string]models.Teacher)
	}
	if teacher.ID == "" {
		teacher.ID = "generated"
	}
	m.teachers[teacher.ID] = *teacher
	return nil
}

func (m *mockTeacherRepo) CountCourses(ctx context.Context, id string) (int, error) {
	return m.courses[id], nil
}

func (m *mockTeacherRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.teachers[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.teachers, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func TestTeacherServiceCreate(t *testing.T) {
	repo := &mockTeacherRepo{}
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	teacher, err := svc.Create(context.Background(), CreateTeacherRequest{Name: "Kim", Phone: "010-9876"})
	require.NoError(t, err)
	assert.NotEmpty(t, teacher.ID)
	assert.Len(t, repo.teachers, 1)
}

func TestTeacherServiceCreateDuplicateName(t *testing.T) {
	repo := &mockTeacherRepo{teachers: map[string]models.Teacher{
		"t1": {ID: "t1", Name: "Kim"},
	}}
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateTeacherRequest{Name: "Kim"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceDeleteBlockedByCourses(t *testing.T) {
	repo := &mockTeacherRepo{
		teachers: map[string]models.Teacher{"t1": {ID: "t1", Name: "Kim"}},
		courses:  map[string]int{"t1": 2},
	}
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "t1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConstraint.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "2 course(s)")
	assert.Empty(t, repo.deleted, "teacher must survive a blocked delete")
}

func TestTeacherServiceDelete(t *testing.T) {
	repo := &mockTeacherRepo{
		teachers: map[string]models.Teacher{"t1": {ID: "t1", Name: "Kim"}},
	}
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "t1"))
	assert.Contains(t, repo.deleted, "t1")
}

func TestTeacherServiceDeleteUnknown(t *testing.T) {
	svc := NewTeacherService(&mockTeacherRepo{}, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
