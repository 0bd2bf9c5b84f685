package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noelyen/classtrack-api/internal/models"
	appErrors "github.com/noelyen/classtrack-api/pkg/errors"
)

type mockScheduleRepo struct {
	entries []models.ScheduleEntryDetail
	created []models.ScheduleEntry
	err     error
}

func (m *mockScheduleRepo) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	if m.err != nil {
		return m.err
	}
	if entry.ID == "" {
		entry.ID = "generated"
	}
	m.created = append(m.created, *entry)
	return nil
}

func (m *mockScheduleRepo) FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	for _, e := range m.entries {
		if e.ID == id {
			entry := e.ScheduleEntry
			return &entry, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockScheduleRepo) FindDetailByID(ctx context.Context, id string) (*models.ScheduleEntryDetail, error) {
	for _, e := range m.entries {
		if e.ID == id {
			entry := e
			return &entry, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockScheduleRepo) ListDetails(ctx context.Context) ([]models.ScheduleEntryDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

type mockScheduleCourseRepo struct {
	courses map[string]models.Course
}

func (m *mockScheduleCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func newScheduleService(repo *mockScheduleRepo, courses *mockScheduleCourseRepo) *ScheduleService {
	return NewScheduleService(repo, courses, validator.New(), zap.NewNop())
}

func TestScheduleServiceAddEntry(t *testing.T) {
	repo := &mockScheduleRepo{}
	courses := &mockScheduleCourseRepo{courses: map[string]models.Course{
		"c1": {ID: "c1", Name: "Piano", DurationMinutes: 60},
	}}
	svc := newScheduleService(repo, courses)

	entry, err := svc.AddEntry(context.Background(), AddScheduleEntryRequest{
		CourseID:  "c1",
		DayOfWeek: models.DayMonday,
		StartTime: "14:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "14:30", entry.StartTime)
	assert.Equal(t, "15:30", entry.EndTime)
	assert.Len(t, repo.created, 1)
}

func TestScheduleServiceAddEntryLunchOverlap(t *testing.T) {
	courses := &mockScheduleCourseRepo{courses: map[string]models.Course{
		"c1": {ID: "c1", Name: "Piano", DurationMinutes: 60},
	}}

	cases := []struct {
		name  string
		start string
		ok    bool
	}{
		{"spans into lunch", "12:00", false},
		{"starts inside lunch", "12:30", false},
		{"ends inside lunch", "11:30", false},
		{"ends exactly at lunch start", "11:10", true},
		{"starts exactly at lunch end", "13:00", true},
		{"well before lunch", "09:00", true},
		{"well after lunch", "18:00", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newScheduleService(&mockScheduleRepo{}, courses)
			_, err := svc.AddEntry(context.Background(), AddScheduleEntryRequest{
				CourseID:  "c1",
				DayOfWeek: models.DayWednesday,
				StartTime: tc.start,
			})
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, appErrors.ErrScheduleConflict.Code, appErrors.FromError(err).Code)
			}
		})
	}
}

func TestScheduleServiceAddEntryShortCourseAtNoon(t *testing.T) {
	// A 10 minute course ending exactly at 12:10 does not intersect
	// the lunch window.
	courses := &mockScheduleCourseRepo{courses: map[string]models.Course{
		"c1": {ID: "c1", Name: "Theory", DurationMinutes: 10},
	}}
	svc := newScheduleService(&mockScheduleRepo{}, courses)

	entry, err := svc.AddEntry(context.Background(), AddScheduleEntryRequest{
		CourseID:  "c1",
		DayOfWeek: models.DayFriday,
		StartTime: "12:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "12:10", entry.EndTime)
}

func TestScheduleServiceAddEntryUnknownCourse(t *testing.T) {
	svc := newScheduleService(&mockScheduleRepo{}, &mockScheduleCourseRepo{})

	_, err := svc.AddEntry(context.Background(), AddScheduleEntryRequest{
		CourseID:  "missing",
		DayOfWeek: models.DayMonday,
		StartTime: "10:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceAddEntryBadDay(t *testing.T) {
	svc := newScheduleService(&mockScheduleRepo{}, &mockScheduleCourseRepo{})

	_, err := svc.AddEntry(context.Background(), AddScheduleEntryRequest{
		CourseID:  "c1",
		DayOfWeek: "MONDAY",
		StartTime: "10:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceOccurrences(t *testing.T) {
	repo := &mockScheduleRepo{entries: []models.ScheduleEntryDetail{
		{ScheduleEntry: models.ScheduleEntry{ID: "s2", CourseID: "c1", DayOfWeek: models.DayMonday, StartTime: "14:00", EndTime: "15:00"}, CourseName: "Piano", TeacherName: "Kim"},
		{ScheduleEntry: models.ScheduleEntry{ID: "s1", CourseID: "c1", DayOfWeek: models.DayMonday, StartTime: "10:00", EndTime: "11:00"}, CourseName: "Piano", TeacherName: "Kim"},
		{ScheduleEntry: models.ScheduleEntry{ID: "s3", CourseID: "c2", DayOfWeek: models.DayThursday, StartTime: "16:00", EndTime: "17:00"}, CourseName: "Violin", TeacherName: "Lee"},
	}}
	svc := newScheduleService(repo, &mockScheduleCourseRepo{})

	// 2026-03-02 is a Monday; the two week range holds two Mondays
	// and two Thursdays.
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	occurrences, err := svc.Occurrences(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, occurrences, 6)

	assert.Equal(t, "s1", occurrences[0].ScheduleID)
	assert.Equal(t, "s2", occurrences[1].ScheduleID)
	assert.Equal(t, "s3", occurrences[2].ScheduleID)
	assert.Equal(t, from, occurrences[0].Date)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), occurrences[2].Date)

	for i := 1; i < len(occurrences); i++ {
		prev, cur := occurrences[i-1], occurrences[i]
		ordered := prev.Date.Before(cur.Date) ||
			(prev.Date.Equal(cur.Date) && prev.StartTime <= cur.StartTime)
		assert.True(t, ordered, "occurrence %d out of order", i)
	}
}

func TestScheduleServiceOccurrencesSingleDay(t *testing.T) {
	repo := &mockScheduleRepo{entries: []models.ScheduleEntryDetail{
		{ScheduleEntry: models.ScheduleEntry{ID: "s1", CourseID: "c1", DayOfWeek: models.DaySaturday, StartTime: "10:00", EndTime: "11:00"}, CourseName: "Piano", TeacherName: "Kim"},
	}}
	svc := newScheduleService(repo, &mockScheduleCourseRepo{})

	// 2026-03-07 is a Saturday.
	day := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	occurrences, err := svc.Occurrences(context.Background(), day, day)
	require.NoError(t, err)
	require.Len(t, occurrences, 1)
	assert.Equal(t, "s1", occurrences[0].ScheduleID)

	// The day after holds nothing.
	sunday := day.AddDate(0, 0, 1)
	occurrences, err = svc.Occurrences(context.Background(), sunday, sunday)
	require.NoError(t, err)
	assert.Empty(t, occurrences)
}

func TestScheduleServiceOccurrencesInvertedRange(t *testing.T) {
	svc := newScheduleService(&mockScheduleRepo{}, &mockScheduleCourseRepo{})

	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.Occurrences(context.Background(), from, from.AddDate(0, 0, -1))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
