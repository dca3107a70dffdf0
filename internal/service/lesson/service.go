package lesson

import (
	"context"
	"strings"

	"github.com/ShewonGun/FarmerBackup/internal/app_errors"
	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/ShewonGun/FarmerBackup/pkg/logger"
	"github.com/google/uuid"
)

type lessonRepo interface {
	CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error)
	LessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
	ListLessonsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error)
	UpdateLesson(ctx context.Context, id uuid.UUID, upd models.LessonUpdate) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, id uuid.UUID) (courseAdjusted bool, err error)
}

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type LessonService struct {
	log        logger.Log
	lessonRepo lessonRepo
	courseRepo courseRepo
}

func NewLessonService(l logger.Log, lessons lessonRepo, courses courseRepo) *LessonService {
	return &LessonService{
		log:        l,
		lessonRepo: lessons,
		courseRepo: courses,
	}
}

func (s *LessonService) AddLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error) {
	if strings.TrimSpace(lesson.Title) == "" || strings.TrimSpace(lesson.Content) == "" {
		return nil, app_errors.ErrContentRequired
	}

	if _, err := s.courseRepo.CourseByID(ctx, lesson.CourseID); err != nil {
		return nil, err
	}

	lesson.IsQuizAvailable = false
	return s.lessonRepo.CreateLesson(ctx, lesson)
}

func (s *LessonService) LessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	return s.lessonRepo.LessonByID(ctx, id)
}

func (s *LessonService) LessonsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error) {
	if _, err := s.courseRepo.CourseByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.lessonRepo.ListLessonsByCourse(ctx, courseID)
}

func (s *LessonService) UpdateLesson(ctx context.Context, id uuid.UUID, upd models.LessonUpdate) (*models.Lesson, error) {
	return s.lessonRepo.UpdateLesson(ctx, id, upd)
}

func (s *LessonService) DeleteLesson(ctx context.Context, id uuid.UUID) error {
	courseAdjusted, err := s.lessonRepo.DeleteLesson(ctx, id)
	if err != nil {
		return err
	}
	if !courseAdjusted {
		// The parent is gone or the counter was already zero; the deletion stands.
		s.log.Warn("DeleteLesson: course counter not adjusted", "lesson_id", id)
	}
	return nil
}
