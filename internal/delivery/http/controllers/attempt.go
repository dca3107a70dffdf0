package controllers

import (
	"context"
	"net/http"

	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/ShewonGun/FarmerBackup/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AttemptService interface {
	SubmitAttempt(ctx context.Context, userID, quizID uuid.UUID, answers []models.QuizAnswer) (*models.QuizAttempt, error)
	AttemptByID(ctx context.Context, id uuid.UUID) (*models.QuizAttempt, error)
	UserQuizAttempts(ctx context.Context, userID, quizID uuid.UUID) ([]models.QuizAttempt, error)
	UserCourseAttempts(ctx context.Context, userID, courseID uuid.UUID) ([]models.QuizAttempt, error)
}

type AttemptHandler struct {
	AttemptService AttemptService
	log            logger.Log
}

func NewAttemptHandler(l logger.Log, attemptService AttemptService) *AttemptHandler {
	return &AttemptHandler{
		AttemptService: attemptService,
		log:            l,
	}
}

type submitAttemptRequest struct {
	Answers []models.QuizAnswer `json:"answers" binding:"required"`
}

func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}
	quizID, ok := parseIDParam(c, "quiz_id")
	if !ok {
		return
	}

	var input submitAttemptRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	attempt, err := h.AttemptService.SubmitAttempt(c.Request.Context(), userID, quizID, input.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "attempt": attempt})
}

func (h *AttemptHandler) MyQuizAttempts(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}
	quizID, ok := parseIDParam(c, "quiz_id")
	if !ok {
		return
	}

	attempts, err := h.AttemptService.UserQuizAttempts(c.Request.Context(), userID, quizID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "attempts": attempts})
}

// AttemptByID only serves the attempt owner, unless the caller is an admin.
func (h *AttemptHandler) AttemptByID(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}
	attemptID, ok := parseIDParam(c, "attempt_id")
	if !ok {
		return
	}

	attempt, err := h.AttemptService.AttemptByID(c.Request.Context(), attemptID)
	if err != nil {
		respondError(c, err)
		return
	}

	roleValue, _ := c.Get(ClientRoleCtx)
	role, _ := roleValue.(string)
	if attempt.UserID != userID && role != models.AdminRole {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "insufficient permissions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "attempt": attempt})
}

func (h *AttemptHandler) MyCourseAttempts(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(c, "course_id")
	if !ok {
		return
	}

	attempts, err := h.AttemptService.UserCourseAttempts(c.Request.Context(), userID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "attempts": attempts})
}
