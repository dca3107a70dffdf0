package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/ShewonGun/FarmerBackup/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CourseService interface {
	CreateCourse(ctx context.Context, course models.Course) (*models.Course, error)
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	ListCourses(ctx context.Context, page, limit int, search string) (*models.CoursePage, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, upd models.CourseUpdate) (*models.Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error
}

type CourseHandler struct {
	CourseService CourseService
	log           logger.Log
}

func NewCourseHandler(l logger.Log, courseService CourseService) *CourseHandler {
	return &CourseHandler{
		CourseService: courseService,
		log:           l,
	}
}

type newCourseRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var input newCourseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	course, err := h.CourseService.CreateCourse(c.Request.Context(), models.Course{
		Title:        input.Title,
		Description:  input.Description,
		ThumbnailURL: input.ThumbnailURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "course": course})
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	search := c.Query("search")

	coursePage, err := h.CourseService.ListCourses(c.Request.Context(), page, limit, search)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"courses":    coursePage.Courses,
		"pagination": coursePage.Pagination,
	})
}

func (h *CourseHandler) CourseByID(c *gin.Context) {
	courseID, ok := parseIDParam(c, "course_id")
	if !ok {
		return
	}

	course, err := h.CourseService.CourseByID(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "course": course})
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	courseID, ok := parseIDParam(c, "course_id")
	if !ok {
		return
	}

	var upd models.CourseUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	course, err := h.CourseService.UpdateCourse(c.Request.Context(), courseID, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "course": course})
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	courseID, ok := parseIDParam(c, "course_id")
	if !ok {
		return
	}

	if err := h.CourseService.DeleteCourse(c.Request.Context(), courseID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "course deleted"})
}
