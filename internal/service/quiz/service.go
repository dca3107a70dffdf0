package quiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/ShewonGun/FarmerBackup/internal/app_errors"
	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/ShewonGun/FarmerBackup/pkg/logger"
	"github.com/google/uuid"
)

type quizRepo interface {
	CreateQuizWithQuestions(ctx context.Context, quiz models.Quiz, questions []models.QuestionWithChoices) (*models.QuizDetail, error)
	QuizByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error)
	QuizByLesson(ctx context.Context, lessonID uuid.UUID) (*models.Quiz, error)
	UpdateQuiz(ctx context.Context, id uuid.UUID, title *string, passingScore, timeLimit *int) (*models.Quiz, error)
	DeleteQuiz(ctx context.Context, id uuid.UUID) error
	ReplaceQuestions(ctx context.Context, quizID uuid.UUID, questions []models.QuestionWithChoices) ([]models.QuestionWithChoices, error)
	CreateQuestionWithChoices(ctx context.Context, question models.Question, choices []models.Choice) (*models.QuestionWithChoices, error)
	QuestionByID(ctx context.Context, id uuid.UUID) (*models.Question, error)
	UpdateQuestion(ctx context.Context, id uuid.UUID, text *string, order *int, choices []models.Choice) (*models.QuestionWithChoices, error)
	DeleteQuestion(ctx context.Context, id uuid.UUID) error
	QuestionsWithChoices(ctx context.Context, quizID uuid.UUID) ([]models.QuestionWithChoices, error)
}

type lessonRepo interface {
	LessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
}

type QuizService struct {
	log        logger.Log
	quizRepo   quizRepo
	lessonRepo lessonRepo
}

func NewQuizService(l logger.Log, quizzes quizRepo, lessons lessonRepo) *QuizService {
	return &QuizService{
		log:        l,
		quizRepo:   quizzes,
		lessonRepo: lessons,
	}
}

// AddQuiz validates the whole question set up front; the repository then
// commits quiz, questions and choices in a single transaction, so a rejected
// set leaves nothing behind.
func (s *QuizService) AddQuiz(ctx context.Context, quiz models.Quiz, questions []models.QuestionWithChoices) (*models.QuizDetail, error) {
	if strings.TrimSpace(quiz.Title) == "" {
		return nil, app_errors.ErrTitleRequired
	}
	if len(questions) == 0 {
		return nil, app_errors.ErrNoQuestions
	}
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}
	if quiz.PassingScore == 0 {
		quiz.PassingScore = models.DefaultPassingScore
	}

	if _, err := s.lessonRepo.LessonByID(ctx, quiz.LessonID); err != nil {
		return nil, err
	}

	return s.quizRepo.CreateQuizWithQuestions(ctx, quiz, questions)
}

func (s *QuizService) QuizByLesson(ctx context.Context, lessonID uuid.UUID) (*models.QuizDetail, error) {
	quiz, err := s.quizRepo.QuizByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	questions, err := s.quizRepo.QuestionsWithChoices(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}
	return &models.QuizDetail{Quiz: *quiz, Questions: questions}, nil
}

func (s *QuizService) UpdateQuiz(ctx context.Context, id uuid.UUID, title *string, passingScore, timeLimit *int, questions []models.QuestionWithChoices) (*models.QuizDetail, error) {
	if questions != nil {
		if len(questions) == 0 {
			return nil, app_errors.ErrNoQuestions
		}
		if err := validateQuestions(questions); err != nil {
			return nil, err
		}
	}

	quiz, err := s.quizRepo.UpdateQuiz(ctx, id, title, passingScore, timeLimit)
	if err != nil {
		return nil, err
	}

	var updated []models.QuestionWithChoices
	if questions != nil {
		updated, err = s.quizRepo.ReplaceQuestions(ctx, quiz.ID, questions)
	} else {
		updated, err = s.quizRepo.QuestionsWithChoices(ctx, quiz.ID)
	}
	if err != nil {
		return nil, err
	}

	return &models.QuizDetail{Quiz: *quiz, Questions: updated}, nil
}

func (s *QuizService) DeleteQuiz(ctx context.Context, id uuid.UUID) error {
	return s.quizRepo.DeleteQuiz(ctx, id)
}

func (s *QuizService) AddQuestion(ctx context.Context, question models.Question, choices []models.Choice) (*models.QuestionWithChoices, error) {
	if err := validateQuestion(models.QuestionWithChoices{Question: question, Choices: choices}); err != nil {
		return nil, err
	}

	if _, err := s.quizRepo.QuizByID(ctx, question.QuizID); err != nil {
		return nil, err
	}

	return s.quizRepo.CreateQuestionWithChoices(ctx, question, choices)
}

func (s *QuizService) QuestionsByQuiz(ctx context.Context, quizID uuid.UUID) ([]models.QuestionWithChoices, error) {
	if _, err := s.quizRepo.QuizByID(ctx, quizID); err != nil {
		return nil, err
	}
	return s.quizRepo.QuestionsWithChoices(ctx, quizID)
}

// UpdateQuestion validates replacement choices before anything is written, and
// the repository swaps the set transactionally, so a bad payload can no longer
// strand freshly created choices.
func (s *QuizService) UpdateQuestion(ctx context.Context, id uuid.UUID, text *string, order *int, choices []models.Choice) (*models.QuestionWithChoices, error) {
	if choices != nil {
		if err := validateChoices(choices); err != nil {
			return nil, err
		}
	}
	return s.quizRepo.UpdateQuestion(ctx, id, text, order, choices)
}

func (s *QuizService) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	return s.quizRepo.DeleteQuestion(ctx, id)
}

func validateQuestions(questions []models.QuestionWithChoices) error {
	for i, q := range questions {
		if err := validateQuestion(q); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

func validateQuestion(q models.QuestionWithChoices) error {
	if strings.TrimSpace(q.QuestionText) == "" {
		return app_errors.ErrQuestionTextRequired
	}
	return validateChoices(q.Choices)
}

func validateChoices(choices []models.Choice) error {
	if len(choices) < 2 {
		return app_errors.ErrNotEnoughChoices
	}
	hasCorrect := false
	for i, c := range choices {
		if strings.TrimSpace(c.ChoiceText) == "" {
			return fmt.Errorf("choice %d: %w", i+1, app_errors.ErrChoiceTextRequired)
		}
		if c.IsCorrect {
			hasCorrect = true
		}
	}
	if !hasCorrect {
		return app_errors.ErrNoCorrectChoice
	}
	return nil
}
