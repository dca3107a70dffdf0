package controllers

import (
	"context"
	"net/http"

	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/ShewonGun/FarmerBackup/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
	MarkLessonCompleted(ctx context.Context, userID, courseID, lessonID uuid.UUID) (*models.Enrollment, error)
	UserEnrollments(ctx context.Context, userID uuid.UUID) ([]models.EnrollmentDetail, error)
	CheckEnrollment(ctx context.Context, userID, courseID uuid.UUID) (bool, *models.EnrollmentDetail, error)
}

type EnrollmentHandler struct {
	EnrollmentService EnrollmentService
	log               logger.Log
}

func NewEnrollmentHandler(l logger.Log, enrollmentService EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		EnrollmentService: enrollmentService,
		log:               l,
	}
}

func clientID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ClientIDCtx)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(c, "course_id")
	if !ok {
		return
	}

	enrollment, err := h.EnrollmentService.Enroll(c.Request.Context(), userID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "enrollment": enrollment})
}

func (h *EnrollmentHandler) CompleteLesson(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(c, "course_id")
	if !ok {
		return
	}
	lessonID, ok := parseIDParam(c, "lesson_id")
	if !ok {
		return
	}

	enrollment, err := h.EnrollmentService.MarkLessonCompleted(c.Request.Context(), userID, courseID, lessonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "enrollment": enrollment})
}

func (h *EnrollmentHandler) MyEnrollments(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}

	enrollments, err := h.EnrollmentService.UserEnrollments(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "enrollments": enrollments})
}

func (h *EnrollmentHandler) EnrollmentStatus(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(c, "course_id")
	if !ok {
		return
	}

	enrolled, detail, err := h.EnrollmentService.CheckEnrollment(c.Request.Context(), userID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !enrolled {
		c.JSON(http.StatusOK, gin.H{"success": true, "enrolled": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "enrolled": true, "enrollment": detail})
}
