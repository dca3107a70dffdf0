package controllers

import (
	"context"
	"net/http"

	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/ShewonGun/FarmerBackup/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LessonService interface {
	AddLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error)
	LessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
	LessonsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error)
	UpdateLesson(ctx context.Context, id uuid.UUID, upd models.LessonUpdate) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, id uuid.UUID) error
}

type LessonHandler struct {
	LessonService LessonService
	log           logger.Log
}

func NewLessonHandler(l logger.Log, lessonService LessonService) *LessonHandler {
	return &LessonHandler{
		LessonService: lessonService,
		log:           l,
	}
}

type newLessonRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	AssetURL string `json:"asset_url"`
}

func (h *LessonHandler) AddLesson(c *gin.Context) {
	courseID, ok := parseIDParam(c, "course_id")
	if !ok {
		return
	}

	var input newLessonRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	lesson, err := h.LessonService.AddLesson(c.Request.Context(), models.Lesson{
		CourseID: courseID,
		Title:    input.Title,
		Content:  input.Content,
		AssetURL: input.AssetURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "lesson": lesson})
}

func (h *LessonHandler) LessonsByCourse(c *gin.Context) {
	courseID, ok := parseIDParam(c, "course_id")
	if !ok {
		return
	}

	lessons, err := h.LessonService.LessonsByCourse(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "lessons": lessons})
}

func (h *LessonHandler) LessonByID(c *gin.Context) {
	lessonID, ok := parseIDParam(c, "lesson_id")
	if !ok {
		return
	}

	lesson, err := h.LessonService.LessonByID(c.Request.Context(), lessonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "lesson": lesson})
}

func (h *LessonHandler) UpdateLesson(c *gin.Context) {
	lessonID, ok := parseIDParam(c, "lesson_id")
	if !ok {
		return
	}

	var upd models.LessonUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	lesson, err := h.LessonService.UpdateLesson(c.Request.Context(), lessonID, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "lesson": lesson})
}

func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	lessonID, ok := parseIDParam(c, "lesson_id")
	if !ok {
		return
	}

	if err := h.LessonService.DeleteLesson(c.Request.Context(), lessonID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "lesson deleted"})
}
