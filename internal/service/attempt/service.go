package attempt

import (
	"context"
	"errors"
	"time"

	"github.com/ShewonGun/FarmerBackup/internal/app_errors"
	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/ShewonGun/FarmerBackup/pkg/logger"
	"github.com/google/uuid"
)

type attemptRepo interface {
	CreateAttempt(ctx context.Context, attempt models.QuizAttempt) (*models.QuizAttempt, error)
	AttemptByID(ctx context.Context, id uuid.UUID) (*models.QuizAttempt, error)
	ListUserQuizAttempts(ctx context.Context, userID, quizID uuid.UUID) ([]models.QuizAttempt, error)
	ListUserCourseAttempts(ctx context.Context, userID, courseID uuid.UUID) ([]models.QuizAttempt, error)
}

type quizRepo interface {
	QuizByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error)
	QuestionsWithChoices(ctx context.Context, quizID uuid.UUID) ([]models.QuestionWithChoices, error)
}

type lessonRepo interface {
	LessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
}

type progressMarker interface {
	MarkLessonCompleted(ctx context.Context, userID, courseID, lessonID uuid.UUID) (*models.Enrollment, error)
}

type AttemptService struct {
	log         logger.Log
	attemptRepo attemptRepo
	quizRepo    quizRepo
	lessonRepo  lessonRepo
	progress    progressMarker
}

func NewAttemptService(l logger.Log, attempts attemptRepo, quizzes quizRepo, lessons lessonRepo, progress progressMarker) *AttemptService {
	return &AttemptService{
		log:         l,
		attemptRepo: attempts,
		quizRepo:    quizzes,
		lessonRepo:  lessons,
		progress:    progress,
	}
}

// SubmitAttempt grades the submitted answers against the quiz's current
// question set and persists the attempt. An answer referencing a question or
// choice outside the quiz counts as wrong rather than failing the submission.
func (s *AttemptService) SubmitAttempt(ctx context.Context, userID, quizID uuid.UUID, answers []models.QuizAnswer) (*models.QuizAttempt, error) {
	quiz, err := s.quizRepo.QuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}

	questions, err := s.quizRepo.QuestionsWithChoices(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, app_errors.ErrNoQuestions
	}

	correctByQuestion := make(map[uuid.UUID]map[uuid.UUID]bool, len(questions))
	for _, q := range questions {
		correct := make(map[uuid.UUID]bool, len(q.Choices))
		for _, c := range q.Choices {
			if c.IsCorrect {
				correct[c.ID] = true
			}
		}
		correctByQuestion[q.ID] = correct
	}

	answered := make(map[uuid.UUID]bool, len(answers))
	correctCount := 0
	for _, a := range answers {
		correct, ok := correctByQuestion[a.QuestionID]
		if !ok || answered[a.QuestionID] {
			continue
		}
		answered[a.QuestionID] = true
		if correct[a.ChoiceID] {
			correctCount++
		}
	}

	score := (correctCount*100 + len(questions)/2) / len(questions)
	passed := score >= quiz.PassingScore

	attempt, err := s.attemptRepo.CreateAttempt(ctx, models.QuizAttempt{
		ID:          uuid.New(),
		UserID:      userID,
		QuizID:      quiz.ID,
		Score:       score,
		Passed:      passed,
		Answers:     answers,
		SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if passed {
		s.markLessonProgress(ctx, userID, quiz.LessonID)
	}

	s.log.Info("quiz attempt submitted",
		"user_id", userID, "quiz_id", quiz.ID, "score", score, "passed", passed)
	return attempt, nil
}

// markLessonProgress is best effort: the attempt is already recorded, so a
// lesson that was completed earlier or an enrollment that no longer exists
// must not fail the submission.
func (s *AttemptService) markLessonProgress(ctx context.Context, userID, lessonID uuid.UUID) {
	lesson, err := s.lessonRepo.LessonByID(ctx, lessonID)
	if err != nil {
		s.log.ErrorErr("resolve lesson for passed attempt", err, "lesson_id", lessonID)
		return
	}

	_, err = s.progress.MarkLessonCompleted(ctx, userID, lesson.CourseID, lessonID)
	if err != nil {
		if errors.Is(err, app_errors.ErrLessonAlreadyCompleted) || errors.Is(err, app_errors.ErrNotEnrolled) {
			s.log.Debug("passed attempt did not advance progress",
				"user_id", userID, "lesson_id", lessonID, "reason", err.Error())
			return
		}
		s.log.ErrorErr("mark lesson complete after passed attempt", err,
			"user_id", userID, "lesson_id", lessonID)
	}
}

func (s *AttemptService) AttemptByID(ctx context.Context, id uuid.UUID) (*models.QuizAttempt, error) {
	return s.attemptRepo.AttemptByID(ctx, id)
}

func (s *AttemptService) UserQuizAttempts(ctx context.Context, userID, quizID uuid.UUID) ([]models.QuizAttempt, error) {
	if _, err := s.quizRepo.QuizByID(ctx, quizID); err != nil {
		return nil, err
	}
	attempts, err := s.attemptRepo.ListUserQuizAttempts(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	if attempts == nil {
		attempts = []models.QuizAttempt{}
	}
	return attempts, nil
}

func (s *AttemptService) UserCourseAttempts(ctx context.Context, userID, courseID uuid.UUID) ([]models.QuizAttempt, error) {
	attempts, err := s.attemptRepo.ListUserCourseAttempts(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if attempts == nil {
		attempts = []models.QuizAttempt{}
	}
	return attempts, nil
}
