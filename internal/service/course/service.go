package course

import (
	"context"
	"strings"

	"github.com/ShewonGun/FarmerBackup/internal/app_errors"
	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/ShewonGun/FarmerBackup/pkg/logger"
	"github.com/google/uuid"
)

type courseRepo interface {
	CreateCourse(ctx context.Context, course *models.Course) (uuid.UUID, error)
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	ListCourses(ctx context.Context, limit, offset int) ([]models.Course, error)
	CoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Course, error)
	CountCourses(ctx context.Context) (int, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, upd models.CourseUpdate) (*models.Course, error)
	DeleteCourseCascade(ctx context.Context, courseID uuid.UUID) error
}

type searchRepo interface {
	Index(ctx context.Context, course models.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, size int) ([]uuid.UUID, error)
	Count(ctx context.Context, query string) (int, error)
}

type CourseService struct {
	log        logger.Log
	courseRepo courseRepo
	searchRepo searchRepo
}

func NewCourseService(l logger.Log, c courseRepo, s searchRepo) *CourseService {
	return &CourseService{
		log:        l,
		courseRepo: c,
		searchRepo: s,
	}
}

func (s *CourseService) CreateCourse(ctx context.Context, course models.Course) (*models.Course, error) {
	if strings.TrimSpace(course.Title) == "" {
		return nil, app_errors.ErrTitleRequired
	}
	course.NoOfLessons = 0

	if _, err := s.courseRepo.CreateCourse(ctx, &course); err != nil {
		return nil, err
	}

	// The catalog index trails the database; a failed index never fails the write.
	if err := s.searchRepo.Index(ctx, course); err != nil {
		s.log.ErrorErr("CreateCourse: failed to index course", err, "course_id", course.ID)
	}
	return &course, nil
}

func (s *CourseService) CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return s.courseRepo.CourseByID(ctx, id)
}

func (s *CourseService) ListCourses(ctx context.Context, page, limit int, search string) (*models.CoursePage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	if search != "" {
		return s.searchCourses(ctx, search, page, limit)
	}

	courses, err := s.courseRepo.ListCourses(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	total, err := s.courseRepo.CountCourses(ctx)
	if err != nil {
		return nil, err
	}

	return &models.CoursePage{
		Courses:    courses,
		Pagination: paginate(page, limit, total),
	}, nil
}

func (s *CourseService) searchCourses(ctx context.Context, query string, page, limit int) (*models.CoursePage, error) {
	ids, err := s.searchRepo.Search(ctx, query, page*limit)
	if err != nil {
		return nil, err
	}
	total, err := s.searchRepo.Count(ctx, query)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	if offset > len(ids) {
		offset = len(ids)
	}
	pageIDs := ids[offset:]

	var courses []models.Course
	if len(pageIDs) > 0 {
		courses, err = s.courseRepo.CoursesByIDs(ctx, pageIDs)
		if err != nil {
			return nil, err
		}
	}

	return &models.CoursePage{
		Courses:    courses,
		Pagination: paginate(page, limit, total),
	}, nil
}

func (s *CourseService) UpdateCourse(ctx context.Context, id uuid.UUID, upd models.CourseUpdate) (*models.Course, error) {
	course, err := s.courseRepo.UpdateCourse(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	if err := s.searchRepo.Index(ctx, *course); err != nil {
		s.log.ErrorErr("UpdateCourse: failed to reindex course", err, "course_id", course.ID)
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	if err := s.courseRepo.DeleteCourseCascade(ctx, id); err != nil {
		return err
	}

	if err := s.searchRepo.Delete(ctx, id); err != nil {
		s.log.ErrorErr("DeleteCourse: failed to remove course from index", err, "course_id", id)
	}
	return nil
}

func paginate(page, limit, total int) models.Pagination {
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	return models.Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalCourses: total,
		Limit:        limit,
	}
}
