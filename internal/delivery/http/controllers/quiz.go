package controllers

import (
	"context"
	"net/http"

	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/ShewonGun/FarmerBackup/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QuizService interface {
	AddQuiz(ctx context.Context, quiz models.Quiz, questions []models.QuestionWithChoices) (*models.QuizDetail, error)
	QuizByLesson(ctx context.Context, lessonID uuid.UUID) (*models.QuizDetail, error)
	UpdateQuiz(ctx context.Context, id uuid.UUID, title *string, passingScore, timeLimit *int, questions []models.QuestionWithChoices) (*models.QuizDetail, error)
	DeleteQuiz(ctx context.Context, id uuid.UUID) error
	AddQuestion(ctx context.Context, question models.Question, choices []models.Choice) (*models.QuestionWithChoices, error)
	QuestionsByQuiz(ctx context.Context, quizID uuid.UUID) ([]models.QuestionWithChoices, error)
	UpdateQuestion(ctx context.Context, id uuid.UUID, text *string, order *int, choices []models.Choice) (*models.QuestionWithChoices, error)
	DeleteQuestion(ctx context.Context, id uuid.UUID) error
}

type QuizHandler struct {
	QuizService QuizService
	log         logger.Log
}

func NewQuizHandler(l logger.Log, quizService QuizService) *QuizHandler {
	return &QuizHandler{
		QuizService: quizService,
		log:         l,
	}
}

type choiceRequest struct {
	ChoiceText string `json:"choice_text"`
	IsCorrect  bool   `json:"is_correct"`
	Order      int    `json:"order"`
}

type questionRequest struct {
	QuestionText string          `json:"question_text"`
	Order        int             `json:"order"`
	Choices      []choiceRequest `json:"choices"`
}

type newQuizRequest struct {
	Title        string            `json:"title" binding:"required"`
	PassingScore int               `json:"passing_score"`
	TimeLimit    *int              `json:"time_limit"`
	Questions    []questionRequest `json:"questions"`
}

func (r questionRequest) toModel() models.QuestionWithChoices {
	q := models.QuestionWithChoices{
		Question: models.Question{
			QuestionText: r.QuestionText,
			Order:        r.Order,
		},
	}
	for _, c := range r.Choices {
		q.Choices = append(q.Choices, models.Choice{
			ChoiceText: c.ChoiceText,
			IsCorrect:  c.IsCorrect,
			Order:      c.Order,
		})
	}
	return q
}

func questionModels(reqs []questionRequest) []models.QuestionWithChoices {
	if reqs == nil {
		return nil
	}
	questions := make([]models.QuestionWithChoices, 0, len(reqs))
	for _, r := range reqs {
		questions = append(questions, r.toModel())
	}
	return questions
}

func (h *QuizHandler) AddQuiz(c *gin.Context) {
	lessonID, ok := parseIDParam(c, "lesson_id")
	if !ok {
		return
	}

	var input newQuizRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	quiz, err := h.QuizService.AddQuiz(c.Request.Context(), models.Quiz{
		LessonID:     lessonID,
		Title:        input.Title,
		PassingScore: input.PassingScore,
		TimeLimit:    input.TimeLimit,
	}, questionModels(input.Questions))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "quiz": quiz})
}

func (h *QuizHandler) QuizByLesson(c *gin.Context) {
	lessonID, ok := parseIDParam(c, "lesson_id")
	if !ok {
		return
	}

	quiz, err := h.QuizService.QuizByLesson(c.Request.Context(), lessonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "quiz": quiz})
}

type updateQuizRequest struct {
	Title        *string           `json:"title"`
	PassingScore *int              `json:"passing_score"`
	TimeLimit    *int              `json:"time_limit"`
	Questions    []questionRequest `json:"questions"`
}

func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	quizID, ok := parseIDParam(c, "quiz_id")
	if !ok {
		return
	}

	var input updateQuizRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	quiz, err := h.QuizService.UpdateQuiz(c.Request.Context(), quizID,
		input.Title, input.PassingScore, input.TimeLimit, questionModels(input.Questions))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "quiz": quiz})
}

func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID, ok := parseIDParam(c, "quiz_id")
	if !ok {
		return
	}

	if err := h.QuizService.DeleteQuiz(c.Request.Context(), quizID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "quiz deleted"})
}

func (h *QuizHandler) AddQuestion(c *gin.Context) {
	quizID, ok := parseIDParam(c, "quiz_id")
	if !ok {
		return
	}

	var input questionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	question := input.toModel()
	question.QuizID = quizID
	created, err := h.QuizService.AddQuestion(c.Request.Context(), question.Question, question.Choices)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "question": created})
}

func (h *QuizHandler) QuestionsByQuiz(c *gin.Context) {
	quizID, ok := parseIDParam(c, "quiz_id")
	if !ok {
		return
	}

	questions, err := h.QuizService.QuestionsByQuiz(c.Request.Context(), quizID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "questions": questions})
}

type updateQuestionRequest struct {
	QuestionText *string         `json:"question_text"`
	Order        *int            `json:"order"`
	Choices      []choiceRequest `json:"choices"`
}

func (h *QuizHandler) UpdateQuestion(c *gin.Context) {
	questionID, ok := parseIDParam(c, "question_id")
	if !ok {
		return
	}

	var input updateQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var choices []models.Choice
	if input.Choices != nil {
		choices = make([]models.Choice, 0, len(input.Choices))
		for _, ch := range input.Choices {
			choices = append(choices, models.Choice{
				ChoiceText: ch.ChoiceText,
				IsCorrect:  ch.IsCorrect,
				Order:      ch.Order,
			})
		}
	}

	question, err := h.QuizService.UpdateQuestion(c.Request.Context(), questionID,
		input.QuestionText, input.Order, choices)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "question": question})
}

func (h *QuizHandler) DeleteQuestion(c *gin.Context) {
	questionID, ok := parseIDParam(c, "question_id")
	if !ok {
		return
	}

	if err := h.QuizService.DeleteQuestion(c.Request.Context(), questionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "question deleted"})
}
