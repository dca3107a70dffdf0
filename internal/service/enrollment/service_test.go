package enrollment

import (
	"context"
	"testing"
	"time"

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

type fakeEnrollmentRepo struct {
	enrollments map[string]*models.Enrollment
	staleReads  int
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{enrollments: map[string]*models.Enrollment{}}
}

func key(userID, courseID uuid.UUID) string {
	return userID.String() + "/" + courseID.String()
}

func (r *fakeEnrollmentRepo) CreateEnrollment(_ context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	k := key(userID, courseID)
	if _, exists := r.enrollments[k]; exists {
		return nil, app_errors.ErrAlreadyEnrolled
	}
	e := &models.Enrollment{
		ID:               uuid.New(),
		UserID:           userID,
		CourseID:         courseID,
		CompletedLessons: []uuid.UUID{},
		EnrolledAt:       time.Now().UTC(),
	}
	r.enrollments[k] = e
	return e, nil
}

func (r *fakeEnrollmentRepo) EnrollmentByUserAndCourse(_ context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	e, exists := r.enrollments[key(userID, courseID)]
	if !exists {
		return nil, app_errors.ErrNotEnrolled
	}
	copied := *e
	copied.CompletedLessons = append([]uuid.UUID{}, e.CompletedLessons...)
	if r.staleReads > 0 {
		r.staleReads--
		if n := len(copied.CompletedLessons); n > 0 {
			copied.CompletedLessons = copied.CompletedLessons[:n-1]
		}
	}
	return &copied, nil
}

func (r *fakeEnrollmentRepo) AddCompletedLesson(_ context.Context, enrollmentID, lessonID uuid.UUID, noOfLessons int) (int, *time.Time, error) {
	for _, e := range r.enrollments {
		if e.ID != enrollmentID {
			continue
		}
		for _, done := range e.CompletedLessons {
			if done == lessonID {
				return 0, nil, app_errors.ErrLessonAlreadyCompleted
			}
		}
		e.CompletedLessons = append(e.CompletedLessons, lessonID)
		count := len(e.CompletedLessons)
		if noOfLessons > 0 {
			e.Progress = models.ProgressPercent(count, noOfLessons)
			if e.Progress >= 100 && e.CompletedAt == nil {
				now := time.Now().UTC()
				e.CompletedAt = &now
			}
		}
		return count, e.CompletedAt, nil
	}
	return 0, nil, app_errors.ErrNotEnrolled
}

func (r *fakeEnrollmentRepo) ListUserEnrollments(_ context.Context, userID uuid.UUID) ([]models.EnrollmentDetail, error) {
	var details []models.EnrollmentDetail
	for _, e := range r.enrollments {
		if e.UserID == userID {
			details = append(details, models.EnrollmentDetail{ID: e.ID, UserID: e.UserID, Progress: e.Progress})
		}
	}
	return details, nil
}

func (r *fakeEnrollmentRepo) EnrollmentDetail(_ context.Context, userID, courseID uuid.UUID) (*models.EnrollmentDetail, error) {
	e, exists := r.enrollments[key(userID, courseID)]
	if !exists {
		return nil, app_errors.ErrNotEnrolled
	}
	return &models.EnrollmentDetail{ID: e.ID, UserID: e.UserID, Progress: e.Progress, CompletedAt: e.CompletedAt}, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func (r *fakeUserRepo) UserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, exists := r.users[id]
	if !exists {
		return nil, app_errors.ErrUserNotFound
	}
	return u, nil
}

type fakeCourseRepo struct {
	courses map[uuid.UUID]*models.Course
}

func (r *fakeCourseRepo) CourseByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	c, exists := r.courses[id]
	if !exists {
		return nil, app_errors.ErrCourseNotFound
	}
	return c, nil
}

type fakeLessonRepo struct {
	lessons map[uuid.UUID]*models.Lesson
}

func (r *fakeLessonRepo) LessonInCourse(_ context.Context, lessonID, courseID uuid.UUID) (*models.Lesson, error) {
	l, exists := r.lessons[lessonID]
	if !exists || l.CourseID != courseID {
		return nil, app_errors.ErrLessonNotInCourse
	}
	return l, nil
}

type fixture struct {
	service  *EnrollmentService
	repo     *fakeEnrollmentRepo
	userID   uuid.UUID
	courseID uuid.UUID
	lessons  []uuid.UUID
}

func newFixture(t *testing.T, lessonCount int) *fixture {
	t.Helper()

	userID := uuid.New()
	courseID := uuid.New()

	users := &fakeUserRepo{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, Name: "Sunil", Role: models.FarmerRole},
	}}
	courses := &fakeCourseRepo{courses: map[uuid.UUID]*models.Course{
		courseID: {ID: courseID, Title: "Organic Composting", NoOfLessons: lessonCount},
	}}
	lessons := &fakeLessonRepo{lessons: map[uuid.UUID]*models.Lesson{}}

	lessonIDs := make([]uuid.UUID, 0, lessonCount)
	for i := 0; i < lessonCount; i++ {
		id := uuid.New()
		lessons.lessons[id] = &models.Lesson{ID: id, CourseID: courseID}
		lessonIDs = append(lessonIDs, id)
	}

	repo := newFakeEnrollmentRepo()
	return &fixture{
		service:  NewEnrollmentService(nopLog{}, repo, users, courses, lessons),
		repo:     repo,
		userID:   userID,
		courseID: courseID,
		lessons:  lessonIDs,
	}
}

func TestEnroll(t *testing.T) {
	f := newFixture(t, 4)

	enrollment, err := f.service.Enroll(context.Background(), f.userID, f.courseID)
	require.NoError(t, err)
	assert.Equal(t, 0, enrollment.Progress)
	assert.Empty(t, enrollment.CompletedLessons)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestEnrollTwiceConflicts(t *testing.T) {
	f := newFixture(t, 4)

	_, err := f.service.Enroll(context.Background(), f.userID, f.courseID)
	require.NoError(t, err)

	_, err = f.service.Enroll(context.Background(), f.userID, f.courseID)
	assert.ErrorIs(t, err, app_errors.ErrAlreadyEnrolled)
}

func TestEnrollUnknownCourse(t *testing.T) {
	f := newFixture(t, 4)

	_, err := f.service.Enroll(context.Background(), f.userID, uuid.New())
	assert.ErrorIs(t, err, app_errors.ErrCourseNotFound)
}

func TestEnrollUnknownUser(t *testing.T) {
	f := newFixture(t, 4)

	_, err := f.service.Enroll(context.Background(), uuid.New(), f.courseID)
	assert.ErrorIs(t, err, app_errors.ErrUserNotFound)
}

func TestProgressAcrossFourLessons(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	_, err := f.service.Enroll(ctx, f.userID, f.courseID)
	require.NoError(t, err)

	expected := []int{25, 50, 75, 100}
	for i, lessonID := range f.lessons {
		enrollment, err := f.service.MarkLessonCompleted(ctx, f.userID, f.courseID, lessonID)
		require.NoError(t, err)
		assert.Equal(t, expected[i], enrollment.Progress, "after lesson %d", i+1)

		if expected[i] < 100 {
			assert.Nil(t, enrollment.CompletedAt)
		} else {
			assert.NotNil(t, enrollment.CompletedAt)
		}
	}
}

func TestProgressRounding(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	_, err := f.service.Enroll(ctx, f.userID, f.courseID)
	require.NoError(t, err)

	enrollment, err := f.service.MarkLessonCompleted(ctx, f.userID, f.courseID, f.lessons[0])
	require.NoError(t, err)
	assert.Equal(t, 33, enrollment.Progress)

	enrollment, err = f.service.MarkLessonCompleted(ctx, f.userID, f.courseID, f.lessons[1])
	require.NoError(t, err)
	assert.Equal(t, 67, enrollment.Progress)
}

func TestCompleteLessonTwiceConflicts(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	_, err := f.service.Enroll(ctx, f.userID, f.courseID)
	require.NoError(t, err)

	_, err = f.service.MarkLessonCompleted(ctx, f.userID, f.courseID, f.lessons[0])
	require.NoError(t, err)

	_, err = f.service.MarkLessonCompleted(ctx, f.userID, f.courseID, f.lessons[0])
	assert.ErrorIs(t, err, app_errors.ErrLessonAlreadyCompleted)

	enrollment, err := f.service.MarkLessonCompleted(ctx, f.userID, f.courseID, f.lessons[1])
	require.NoError(t, err)
	assert.Equal(t, 50, enrollment.Progress)
}

func TestCompleteLessonNotEnrolled(t *testing.T) {
	f := newFixture(t, 4)

	_, err := f.service.MarkLessonCompleted(context.Background(), f.userID, f.courseID, f.lessons[0])
	assert.ErrorIs(t, err, app_errors.ErrNotEnrolled)
}

func TestCompleteLessonFromOtherCourse(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	_, err := f.service.Enroll(ctx, f.userID, f.courseID)
	require.NoError(t, err)

	_, err = f.service.MarkLessonCompleted(ctx, f.userID, f.courseID, uuid.New())
	assert.ErrorIs(t, err, app_errors.ErrLessonNotInCourse)
}

func TestCompletedAtIsPermanent(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	_, err := f.service.Enroll(ctx, f.userID, f.courseID)
	require.NoError(t, err)

	enrollment, err := f.service.MarkLessonCompleted(ctx, f.userID, f.courseID, f.lessons[0])
	require.NoError(t, err)
	require.NotNil(t, enrollment.CompletedAt)
	first := *enrollment.CompletedAt

	stored, err := f.service.enrollmentRepo.EnrollmentByUserAndCourse(ctx, f.userID, f.courseID)
	require.NoError(t, err)
	require.NotNil(t, stored.CompletedAt)
	assert.Equal(t, first, *stored.CompletedAt)
}

func TestCompleteLessonZeroLessonCourse(t *testing.T) {
	userID := uuid.New()
	courseID := uuid.New()
	lessonID := uuid.New()

	users := &fakeUserRepo{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, Name: "Sunil", Role: models.FarmerRole},
	}}
	// The lesson exists but the course counter reports zero.
	courses := &fakeCourseRepo{courses: map[uuid.UUID]*models.Course{
		courseID: {ID: courseID, Title: "Organic Composting", NoOfLessons: 0},
	}}
	lessons := &fakeLessonRepo{lessons: map[uuid.UUID]*models.Lesson{
		lessonID: {ID: lessonID, CourseID: courseID},
	}}
	service := NewEnrollmentService(nopLog{}, newFakeEnrollmentRepo(), users, courses, lessons)
	ctx := context.Background()

	_, err := service.Enroll(ctx, userID, courseID)
	require.NoError(t, err)

	enrollment, err := service.MarkLessonCompleted(ctx, userID, courseID, lessonID)
	require.NoError(t, err)
	assert.Equal(t, 0, enrollment.Progress)
	assert.Nil(t, enrollment.CompletedAt)
	assert.Equal(t, []uuid.UUID{lessonID}, enrollment.CompletedLessons)
}

func TestProgressComputedFromStoredCount(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	_, err := f.service.Enroll(ctx, f.userID, f.courseID)
	require.NoError(t, err)

	for _, lessonID := range f.lessons[:3] {
		_, err := f.service.MarkLessonCompleted(ctx, f.userID, f.courseID, lessonID)
		require.NoError(t, err)
	}

	// Serve the next read without the third completion, as if another request
	// committed it between this caller's read and write.
	f.repo.staleReads = 1

	enrollment, err := f.service.MarkLessonCompleted(ctx, f.userID, f.courseID, f.lessons[3])
	require.NoError(t, err)
	assert.Equal(t, 100, enrollment.Progress)
	assert.NotNil(t, enrollment.CompletedAt)
}

func TestCheckEnrollment(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	enrolled, detail, err := f.service.CheckEnrollment(ctx, f.userID, f.courseID)
	require.NoError(t, err)
	assert.False(t, enrolled)
	assert.Nil(t, detail)

	_, err = f.service.Enroll(ctx, f.userID, f.courseID)
	require.NoError(t, err)

	enrolled, detail, err = f.service.CheckEnrollment(ctx, f.userID, f.courseID)
	require.NoError(t, err)
	assert.True(t, enrolled)
	require.NotNil(t, detail)
	assert.Equal(t, f.userID, detail.UserID)
}
