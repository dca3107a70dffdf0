package course

import (
	"context"
	"errors"
	"testing"

	"github.com/ShewonGun/FarmerBackup/internal/app_errors"
	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLog struct{}

func (nopLog) Debug(string, ...interface{})           {}
func (nopLog) Info(string, ...interface{})            {}
func (nopLog) Warn(string, ...interface{})            {}
func (nopLog) Error(string, ...interface{})           {}
func (nopLog) ErrorErr(string, error, ...interface{}) {}
func (nopLog) Fatal(string, ...interface{})           {}
func (nopLog) FatalErr(string, error, ...interface{}) {}

type fakeCourseRepo struct {
	courses []models.Course
	deleted []uuid.UUID
}

func (r *fakeCourseRepo) CreateCourse(_ context.Context, course *models.Course) (uuid.UUID, error) {
	course.ID = uuid.New()
	r.courses = append(r.courses, *course)
	return course.ID, nil
}

func (r *fakeCourseRepo) CourseByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	for _, c := range r.courses {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, app_errors.ErrCourseNotFound
}

func (r *fakeCourseRepo) ListCourses(_ context.Context, limit, offset int) ([]models.Course, error) {
	if offset >= len(r.courses) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.courses) {
		end = len(r.courses)
	}
	return r.courses[offset:end], nil
}

func (r *fakeCourseRepo) CoursesByIDs(_ context.Context, ids []uuid.UUID) ([]models.Course, error) {
	var out []models.Course
	for _, id := range ids {
		for _, c := range r.courses {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) CountCourses(_ context.Context) (int, error) {
	return len(r.courses), nil
}

func (r *fakeCourseRepo) UpdateCourse(_ context.Context, id uuid.UUID, upd models.CourseUpdate) (*models.Course, error) {
	for i := range r.courses {
		if r.courses[i].ID != id {
			continue
		}
		if upd.Title != nil {
			r.courses[i].Title = *upd.Title
		}
		return &r.courses[i], nil
	}
	return nil, app_errors.ErrCourseNotFound
}

func (r *fakeCourseRepo) DeleteCourseCascade(_ context.Context, courseID uuid.UUID) error {
	for i := range r.courses {
		if r.courses[i].ID == courseID {
			r.courses = append(r.courses[:i], r.courses[i+1:]...)
			r.deleted = append(r.deleted, courseID)
			return nil
		}
	}
	return app_errors.ErrCourseNotFound
}

type fakeSearchRepo struct {
	indexed  []uuid.UUID
	deleted  []uuid.UUID
	ids      []uuid.UUID
	indexErr error
}

func (r *fakeSearchRepo) Index(_ context.Context, course models.Course) error {
	if r.indexErr != nil {
		return r.indexErr
	}
	r.indexed = append(r.indexed, course.ID)
	return nil
}

func (r *fakeSearchRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeSearchRepo) Search(_ context.Context, query string, size int) ([]uuid.UUID, error) {
	if size > len(r.ids) {
		size = len(r.ids)
	}
	return r.ids[:size], nil
}

func (r *fakeSearchRepo) Count(_ context.Context, query string) (int, error) {
	return len(r.ids), nil
}

func TestCreateCourse(t *testing.T) {
	repo := &fakeCourseRepo{}
	search := &fakeSearchRepo{}
	s := NewCourseService(nopLog{}, repo, search)

	course, err := s.CreateCourse(context.Background(), models.Course{Title: "Drip Irrigation", NoOfLessons: 7})
	require.NoError(t, err)
	assert.Equal(t, 0, course.NoOfLessons, "lesson counter is storage-owned")
	assert.Equal(t, []uuid.UUID{course.ID}, search.indexed)
}

func TestCreateCourseRequiresTitle(t *testing.T) {
	repo := &fakeCourseRepo{}
	s := NewCourseService(nopLog{}, repo, &fakeSearchRepo{})

	_, err := s.CreateCourse(context.Background(), models.Course{Title: "  "})
	assert.ErrorIs(t, err, app_errors.ErrTitleRequired)
	assert.Empty(t, repo.courses)
}

func TestCreateCourseSurvivesIndexFailure(t *testing.T) {
	repo := &fakeCourseRepo{}
	s := NewCourseService(nopLog{}, repo, &fakeSearchRepo{indexErr: errors.New("es down")})

	course, err := s.CreateCourse(context.Background(), models.Course{Title: "Drip Irrigation"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, course.ID)
	assert.Len(t, repo.courses, 1)
}

func TestListCoursesPagination(t *testing.T) {
	repo := &fakeCourseRepo{}
	s := NewCourseService(nopLog{}, repo, &fakeSearchRepo{})
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, err := s.CreateCourse(ctx, models.Course{Title: "Course"})
		require.NoError(t, err)
	}

	page, err := s.ListCourses(ctx, 2, 10, "")
	require.NoError(t, err)
	assert.Len(t, page.Courses, 10)
	assert.Equal(t, 2, page.Pagination.CurrentPage)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.Equal(t, 25, page.Pagination.TotalCourses)

	last, err := s.ListCourses(ctx, 3, 10, "")
	require.NoError(t, err)
	assert.Len(t, last.Courses, 5)
}

func TestListCoursesClampsBadInput(t *testing.T) {
	s := NewCourseService(nopLog{}, &fakeCourseRepo{}, &fakeSearchRepo{})

	page, err := s.ListCourses(context.Background(), -3, 1000, "")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.CurrentPage)
	assert.Equal(t, 10, page.Pagination.Limit)
}

func TestListCoursesSearch(t *testing.T) {
	repo := &fakeCourseRepo{}
	search := &fakeSearchRepo{}
	s := NewCourseService(nopLog{}, repo, search)
	ctx := context.Background()

	c, err := s.CreateCourse(ctx, models.Course{Title: "Organic Composting"})
	require.NoError(t, err)
	search.ids = []uuid.UUID{c.ID}

	page, err := s.ListCourses(ctx, 1, 10, "compost")
	require.NoError(t, err)
	require.Len(t, page.Courses, 1)
	assert.Equal(t, c.ID, page.Courses[0].ID)
	assert.Equal(t, 1, page.Pagination.TotalCourses)
}

func TestDeleteCourseRemovesFromIndex(t *testing.T) {
	repo := &fakeCourseRepo{}
	search := &fakeSearchRepo{}
	s := NewCourseService(nopLog{}, repo, search)
	ctx := context.Background()

	c, err := s.CreateCourse(ctx, models.Course{Title: "Organic Composting"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCourse(ctx, c.ID))
	assert.Equal(t, []uuid.UUID{c.ID}, repo.deleted)
	assert.Equal(t, []uuid.UUID{c.ID}, search.deleted)

	assert.ErrorIs(t, s.DeleteCourse(ctx, c.ID), app_errors.ErrCourseNotFound)
}
