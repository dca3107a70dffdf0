package certificate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ShewonGun/FarmerBackup/internal/app_errors"
	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/ShewonGun/FarmerBackup/internal/render"
	"github.com/ShewonGun/FarmerBackup/pkg/logger"
	"github.com/google/uuid"
)

const issueRetries = 3

type certificateRepo interface {
	CreateCertificate(ctx context.Context, cert models.Certificate) (*models.Certificate, error)
	CertificateByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Certificate, error)
	ListUserCertificates(ctx context.Context, userID uuid.UUID) ([]models.Certificate, error)
}

type userRepo interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type enrollmentRepo interface {
	EnrollmentByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
}

type lessonRepo interface {
	ListQuizLessons(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error)
}

type quizRepo interface {
	QuizzesByLessons(ctx context.Context, lessonIDs []uuid.UUID) ([]models.Quiz, error)
}

type attemptRepo interface {
	BestScoresByQuizzes(ctx context.Context, userID uuid.UUID, quizIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

type renderer interface {
	RenderToFile(ctx context.Context, html, outPath string) error
}

type artifactStorage interface {
	Upload(ctx context.Context, localPath, certificateNumber string) (string, error)
	Remove(ctx context.Context, certificateNumber string) error
}

type CertificateService struct {
	log             logger.Log
	certificateRepo certificateRepo
	userRepo        userRepo
	courseRepo      courseRepo
	enrollmentRepo  enrollmentRepo
	lessonRepo      lessonRepo
	quizRepo        quizRepo
	attemptRepo     attemptRepo
	renderer        renderer
	artifacts       artifactStorage
	tempDir         string
}

func NewCertificateService(
	l logger.Log,
	certificates certificateRepo,
	users userRepo,
	courses courseRepo,
	enrollments enrollmentRepo,
	lessons lessonRepo,
	quizzes quizRepo,
	attempts attemptRepo,
	rend renderer,
	artifacts artifactStorage,
	tempDir string,
) *CertificateService {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &CertificateService{
		log:             l,
		certificateRepo: certificates,
		userRepo:        users,
		courseRepo:      courses,
		enrollmentRepo:  enrollments,
		lessonRepo:      lessons,
		quizRepo:        quizzes,
		attemptRepo:     attempts,
		renderer:        rend,
		artifacts:       artifacts,
		tempDir:         tempDir,
	}
}

// IssueCertificate runs the full pipeline: eligibility checks, score
// aggregation, document render, artifact upload, record insert. Calling it for
// a user who already holds the certificate returns the existing record.
func (s *CertificateService) IssueCertificate(ctx context.Context, userID, courseID uuid.UUID) (*models.Certificate, error) {
	if existing, err := s.certificateRepo.CertificateByUserAndCourse(ctx, userID, courseID); err == nil {
		return existing, nil
	} else if !errors.Is(err, app_errors.ErrCertificateNotFound) {
		return nil, err
	}

	user, err := s.userRepo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	enrollment, err := s.enrollmentRepo.EnrollmentByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	averageScore, err := s.averageQuizScore(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	completionDate := time.Now().UTC()
	if enrollment.CompletedAt != nil {
		completionDate = *enrollment.CompletedAt
	}

	for attempt := 0; attempt < issueRetries; attempt++ {
		cert, err := s.issueOnce(ctx, user, course, averageScore, completionDate)
		if err == nil {
			s.log.Info("certificate issued",
				"user_id", userID, "course_id", courseID, "number", cert.CertificateNumber)
			return cert, nil
		}
		if errors.Is(err, app_errors.ErrCertificateExists) {
			// Lost the race to a concurrent issuance for the same pair.
			return s.certificateRepo.CertificateByUserAndCourse(ctx, userID, courseID)
		}
		if errors.Is(err, app_errors.ErrCertificateNumberTaken) {
			s.log.Warn("certificate number collision, retrying",
				"user_id", userID, "course_id", courseID)
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("failed to issue certificate: %w", app_errors.ErrCertificateNumberTaken)
}

// issueOnce renders and uploads under a freshly generated number, then inserts
// the record. The uploaded artifact is removed again when the insert fails, so
// the bucket never keeps documents for numbers that were never recorded.
func (s *CertificateService) issueOnce(ctx context.Context, user *models.User, course *models.Course, averageScore int, completionDate time.Time) (*models.Certificate, error) {
	number, err := newCertificateNumber(time.Now().UTC())
	if err != nil {
		return nil, err
	}

	html, err := render.CertificateHTML(render.CertificateData{
		RecipientName:     user.Name,
		CourseTitle:       course.Title,
		AverageScore:      averageScore,
		CertificateNumber: number,
		CompletionDate:    completionDate,
	})
	if err != nil {
		return nil, err
	}

	localPath := filepath.Join(s.tempDir, number+".pdf")
	if err := s.renderer.RenderToFile(ctx, html, localPath); err != nil {
		return nil, err
	}
	defer func() {
		if rmErr := os.Remove(localPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			s.log.Warn("failed to remove temp certificate file", "path", localPath)
		}
	}()

	url, err := s.artifacts.Upload(ctx, localPath, number)
	if err != nil {
		return nil, err
	}

	cert, err := s.certificateRepo.CreateCertificate(ctx, models.Certificate{
		ID:                uuid.New(),
		UserID:            user.ID,
		CourseID:          course.ID,
		CertificateNumber: number,
		CertificateURL:    url,
		IssueDate:         time.Now().UTC(),
		CompletionDate:    completionDate,
		AverageScore:      averageScore,
	})
	if err != nil {
		if rmErr := s.artifacts.Remove(ctx, number); rmErr != nil {
			s.log.ErrorErr("remove orphaned certificate artifact", rmErr, "number", number)
		}
		return nil, err
	}
	return cert, nil
}

// averageQuizScore is the mean of the user's best score across every quiz in
// the course. Every one of those best scores has to clear its quiz's passing
// threshold, otherwise the course does not count as passed.
func (s *CertificateService) averageQuizScore(ctx context.Context, userID, courseID uuid.UUID) (int, error) {
	quizLessons, err := s.lessonRepo.ListQuizLessons(ctx, courseID)
	if err != nil {
		return 0, err
	}
	if len(quizLessons) == 0 {
		return 0, app_errors.ErrNoQuizzes
	}

	lessonIDs := make([]uuid.UUID, 0, len(quizLessons))
	for _, l := range quizLessons {
		lessonIDs = append(lessonIDs, l.ID)
	}

	quizzes, err := s.quizRepo.QuizzesByLessons(ctx, lessonIDs)
	if err != nil {
		return 0, err
	}
	if len(quizzes) == 0 {
		return 0, app_errors.ErrNoQuizzes
	}

	quizIDs := make([]uuid.UUID, 0, len(quizzes))
	for _, q := range quizzes {
		quizIDs = append(quizIDs, q.ID)
	}

	bestScores, err := s.attemptRepo.BestScoresByQuizzes(ctx, userID, quizIDs)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, q := range quizzes {
		best, ok := bestScores[q.ID]
		if !ok || best < q.PassingScore {
			return 0, app_errors.ErrQuizzesNotPassed
		}
		total += best
	}
	return (total + len(quizzes)/2) / len(quizzes), nil
}

func (s *CertificateService) CertificateByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Certificate, error) {
	return s.certificateRepo.CertificateByUserAndCourse(ctx, userID, courseID)
}

func (s *CertificateService) UserCertificates(ctx context.Context, userID uuid.UUID) ([]models.Certificate, error) {
	if _, err := s.userRepo.UserByID(ctx, userID); err != nil {
		return nil, err
	}
	certs, err := s.certificateRepo.ListUserCertificates(ctx, userID)
	if err != nil {
		return nil, err
	}
	if certs == nil {
		certs = []models.Certificate{}
	}
	return certs, nil
}
