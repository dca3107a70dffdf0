package quiz

import (
	"context"
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

type fakeQuizRepo struct {
	created         []models.Quiz
	createdQs       []models.QuestionWithChoices
	replaceCalled   bool
	questionsByQuiz map[uuid.UUID][]models.QuestionWithChoices
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{questionsByQuiz: map[uuid.UUID][]models.QuestionWithChoices{}}
}

func (r *fakeQuizRepo) CreateQuizWithQuestions(_ context.Context, quiz models.Quiz, questions []models.QuestionWithChoices) (*models.QuizDetail, error) {
	quiz.ID = uuid.New()
	r.created = append(r.created, quiz)
	r.createdQs = append(r.createdQs, questions...)
	return &models.QuizDetail{Quiz: quiz, Questions: questions}, nil
}

func (r *fakeQuizRepo) QuizByID(_ context.Context, id uuid.UUID) (*models.Quiz, error) {
	for _, q := range r.created {
		if q.ID == id {
			return &q, nil
		}
	}
	return nil, app_errors.ErrQuizNotFound
}

func (r *fakeQuizRepo) QuizByLesson(_ context.Context, lessonID uuid.UUID) (*models.Quiz, error) {
	for _, q := range r.created {
		if q.LessonID == lessonID {
			return &q, nil
		}
	}
	return nil, app_errors.ErrQuizNotFound
}

func (r *fakeQuizRepo) UpdateQuiz(_ context.Context, id uuid.UUID, title *string, passingScore, timeLimit *int) (*models.Quiz, error) {
	for i := range r.created {
		if r.created[i].ID != id {
			continue
		}
		if title != nil {
			r.created[i].Title = *title
		}
		if passingScore != nil {
			r.created[i].PassingScore = *passingScore
		}
		if timeLimit != nil {
			r.created[i].TimeLimit = timeLimit
		}
		return &r.created[i], nil
	}
	return nil, app_errors.ErrQuizNotFound
}

func (r *fakeQuizRepo) DeleteQuiz(_ context.Context, id uuid.UUID) error {
	return nil
}

func (r *fakeQuizRepo) ReplaceQuestions(_ context.Context, quizID uuid.UUID, questions []models.QuestionWithChoices) ([]models.QuestionWithChoices, error) {
	r.replaceCalled = true
	r.questionsByQuiz[quizID] = questions
	return questions, nil
}

func (r *fakeQuizRepo) CreateQuestionWithChoices(_ context.Context, question models.Question, choices []models.Choice) (*models.QuestionWithChoices, error) {
	question.ID = uuid.New()
	q := models.QuestionWithChoices{Question: question, Choices: choices}
	r.questionsByQuiz[question.QuizID] = append(r.questionsByQuiz[question.QuizID], q)
	return &q, nil
}

func (r *fakeQuizRepo) QuestionByID(_ context.Context, id uuid.UUID) (*models.Question, error) {
	return nil, app_errors.ErrQuestionNotFound
}

func (r *fakeQuizRepo) UpdateQuestion(_ context.Context, id uuid.UUID, text *string, order *int, choices []models.Choice) (*models.QuestionWithChoices, error) {
	return nil, app_errors.ErrQuestionNotFound
}

func (r *fakeQuizRepo) DeleteQuestion(_ context.Context, id uuid.UUID) error {
	return nil
}

func (r *fakeQuizRepo) QuestionsWithChoices(_ context.Context, quizID uuid.UUID) ([]models.QuestionWithChoices, error) {
	return r.questionsByQuiz[quizID], nil
}

type fakeLessonRepo struct {
	lessonID uuid.UUID
}

func (r *fakeLessonRepo) LessonByID(_ context.Context, id uuid.UUID) (*models.Lesson, error) {
	if id != r.lessonID {
		return nil, app_errors.ErrLessonNotFound
	}
	return &models.Lesson{ID: id}, nil
}

func validQuestions() []models.QuestionWithChoices {
	return []models.QuestionWithChoices{
		{
			Question: models.Question{QuestionText: "What does NPK stand for?"},
			Choices: []models.Choice{
				{ChoiceText: "Nitrogen, Phosphorus, Potassium", IsCorrect: true},
				{ChoiceText: "Nickel, Platinum, Krypton"},
			},
		},
	}
}

func newService(t *testing.T) (*QuizService, *fakeQuizRepo, uuid.UUID) {
	t.Helper()
	repo := newFakeQuizRepo()
	lessonID := uuid.New()
	return NewQuizService(nopLog{}, repo, &fakeLessonRepo{lessonID: lessonID}), repo, lessonID
}

func TestAddQuiz(t *testing.T) {
	s, repo, lessonID := newService(t)

	detail, err := s.AddQuiz(context.Background(), models.Quiz{LessonID: lessonID, Title: "Soil"}, validQuestions())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPassingScore, detail.PassingScore)
	assert.Len(t, repo.created, 1)
	assert.Len(t, detail.Questions, 1)
}

func TestAddQuizKeepsExplicitPassingScore(t *testing.T) {
	s, _, lessonID := newService(t)

	detail, err := s.AddQuiz(context.Background(), models.Quiz{LessonID: lessonID, Title: "Soil", PassingScore: 85}, validQuestions())
	require.NoError(t, err)
	assert.Equal(t, 85, detail.PassingScore)
}

func TestAddQuizValidation(t *testing.T) {
	s, repo, lessonID := newService(t)
	ctx := context.Background()
	base := models.Quiz{LessonID: lessonID, Title: "Soil"}

	_, err := s.AddQuiz(ctx, models.Quiz{LessonID: lessonID}, validQuestions())
	assert.ErrorIs(t, err, app_errors.ErrTitleRequired)

	_, err = s.AddQuiz(ctx, base, nil)
	assert.ErrorIs(t, err, app_errors.ErrNoQuestions)

	noText := validQuestions()
	noText[0].QuestionText = " "
	_, err = s.AddQuiz(ctx, base, noText)
	assert.ErrorIs(t, err, app_errors.ErrQuestionTextRequired)

	oneChoice := validQuestions()
	oneChoice[0].Choices = oneChoice[0].Choices[:1]
	_, err = s.AddQuiz(ctx, base, oneChoice)
	assert.ErrorIs(t, err, app_errors.ErrNotEnoughChoices)

	noCorrect := validQuestions()
	noCorrect[0].Choices[0].IsCorrect = false
	_, err = s.AddQuiz(ctx, base, noCorrect)
	assert.ErrorIs(t, err, app_errors.ErrNoCorrectChoice)

	assert.Empty(t, repo.created, "rejected quizzes must not be persisted")
	assert.Empty(t, repo.createdQs)
}

func TestAddQuizErrorNamesQuestionPosition(t *testing.T) {
	s, _, lessonID := newService(t)

	questions := append(validQuestions(), models.QuestionWithChoices{
		Question: models.Question{QuestionText: "Second"},
		Choices: []models.Choice{
			{ChoiceText: "A"},
			{ChoiceText: "B"},
		},
	})
	_, err := s.AddQuiz(context.Background(), models.Quiz{LessonID: lessonID, Title: "Soil"}, questions)
	require.ErrorIs(t, err, app_errors.ErrNoCorrectChoice)
	assert.Contains(t, err.Error(), "question 2")
}

func TestAddQuizUnknownLesson(t *testing.T) {
	s, _, _ := newService(t)

	_, err := s.AddQuiz(context.Background(), models.Quiz{LessonID: uuid.New(), Title: "Soil"}, validQuestions())
	assert.ErrorIs(t, err, app_errors.ErrLessonNotFound)
}

func TestUpdateQuizReplacesQuestions(t *testing.T) {
	s, repo, lessonID := newService(t)
	ctx := context.Background()

	detail, err := s.AddQuiz(ctx, models.Quiz{LessonID: lessonID, Title: "Soil"}, validQuestions())
	require.NoError(t, err)

	title := "Soil Health"
	updated, err := s.UpdateQuiz(ctx, detail.ID, &title, nil, nil, validQuestions())
	require.NoError(t, err)
	assert.Equal(t, "Soil Health", updated.Title)
	assert.True(t, repo.replaceCalled)
}

func TestUpdateQuizRejectsEmptyQuestionSet(t *testing.T) {
	s, repo, lessonID := newService(t)
	ctx := context.Background()

	detail, err := s.AddQuiz(ctx, models.Quiz{LessonID: lessonID, Title: "Soil"}, validQuestions())
	require.NoError(t, err)

	_, err = s.UpdateQuiz(ctx, detail.ID, nil, nil, nil, []models.QuestionWithChoices{})
	assert.ErrorIs(t, err, app_errors.ErrNoQuestions)
	assert.False(t, repo.replaceCalled)
}

func TestAddQuestion(t *testing.T) {
	s, _, lessonID := newService(t)
	ctx := context.Background()

	detail, err := s.AddQuiz(ctx, models.Quiz{LessonID: lessonID, Title: "Soil"}, validQuestions())
	require.NoError(t, err)

	q := validQuestions()[0]
	q.QuizID = detail.ID
	created, err := s.AddQuestion(ctx, q.Question, q.Choices)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	_, err = s.AddQuestion(ctx, models.Question{QuizID: uuid.New(), QuestionText: "x"}, q.Choices)
	assert.ErrorIs(t, err, app_errors.ErrQuizNotFound)
}

func TestUpdateQuestionValidatesChoices(t *testing.T) {
	s, _, _ := newService(t)

	_, err := s.UpdateQuestion(context.Background(), uuid.New(), nil, nil, []models.Choice{{ChoiceText: "only one", IsCorrect: true}})
	assert.ErrorIs(t, err, app_errors.ErrNotEnoughChoices)
}
