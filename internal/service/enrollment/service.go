package enrollment

import (
	"context"
	"errors"
	"time"

	"github.com/ShewonGun/FarmerBackup/internal/app_errors"
	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/ShewonGun/FarmerBackup/pkg/logger"
	"github.com/google/uuid"
)

type enrollmentRepo interface {
	CreateEnrollment(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
	EnrollmentByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
	AddCompletedLesson(ctx context.Context, enrollmentID, lessonID uuid.UUID, noOfLessons int) (int, *time.Time, error)
	ListUserEnrollments(ctx context.Context, userID uuid.UUID) ([]models.EnrollmentDetail, error)
	EnrollmentDetail(ctx context.Context, userID, courseID uuid.UUID) (*models.EnrollmentDetail, error)
}

type userRepo interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type lessonRepo interface {
	LessonInCourse(ctx context.Context, lessonID, courseID uuid.UUID) (*models.Lesson, error)
}

type EnrollmentService struct {
	log            logger.Log
	enrollmentRepo enrollmentRepo
	userRepo       userRepo
	courseRepo     courseRepo
	lessonRepo     lessonRepo
}

func NewEnrollmentService(l logger.Log, enrollments enrollmentRepo, users userRepo, courses courseRepo, lessons lessonRepo) *EnrollmentService {
	return &EnrollmentService{
		log:            l,
		enrollmentRepo: enrollments,
		userRepo:       users,
		courseRepo:     courses,
		lessonRepo:     lessons,
	}
}

func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	if _, err := s.userRepo.UserByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.courseRepo.CourseByID(ctx, courseID); err != nil {
		return nil, err
	}

	enrollment, err := s.enrollmentRepo.CreateEnrollment(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	s.log.Info("user enrolled", "user_id", userID, "course_id", courseID)
	return enrollment, nil
}

// MarkLessonCompleted records the lesson against the enrollment. Progress is
// recomputed by storage from the completion count inside its transaction, so
// progress only ever moves forward: a duplicate completion is rejected before
// any update, and the completion timestamp is set once when progress first
// reaches 100.
func (s *EnrollmentService) MarkLessonCompleted(ctx context.Context, userID, courseID, lessonID uuid.UUID) (*models.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.EnrollmentByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	if _, err := s.lessonRepo.LessonInCourse(ctx, lessonID, courseID); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	count, completedAt, err := s.enrollmentRepo.AddCompletedLesson(ctx, enrollment.ID, lessonID, course.NoOfLessons)
	if err != nil {
		return nil, err
	}

	progress := enrollment.Progress
	if course.NoOfLessons > 0 {
		progress = models.ProgressPercent(count, course.NoOfLessons)
	}

	enrollment.CompletedLessons = append(enrollment.CompletedLessons, lessonID)
	enrollment.Progress = progress
	enrollment.CompletedAt = completedAt

	s.log.Info("lesson completed",
		"user_id", userID, "course_id", courseID, "lesson_id", lessonID, "progress", progress)
	return enrollment, nil
}

func (s *EnrollmentService) UserEnrollments(ctx context.Context, userID uuid.UUID) ([]models.EnrollmentDetail, error) {
	if _, err := s.userRepo.UserByID(ctx, userID); err != nil {
		return nil, err
	}
	details, err := s.enrollmentRepo.ListUserEnrollments(ctx, userID)
	if err != nil {
		return nil, err
	}
	if details == nil {
		details = []models.EnrollmentDetail{}
	}
	return details, nil
}

// CheckEnrollment reports membership without treating absence as a failure.
func (s *EnrollmentService) CheckEnrollment(ctx context.Context, userID, courseID uuid.UUID) (bool, *models.EnrollmentDetail, error) {
	detail, err := s.enrollmentRepo.EnrollmentDetail(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, app_errors.ErrNotEnrolled) {
			return false, nil, nil
		}
		return false, nil, err
	}
	return true, detail, nil
}
