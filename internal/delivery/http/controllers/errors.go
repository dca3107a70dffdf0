package controllers

import (
	"errors"
	"net/http"

	"github.com/ShewonGun/FarmerBackup/internal/app_errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var notFoundErrors = []error{
	app_errors.ErrUserNotFound,
	app_errors.ErrCourseNotFound,
	app_errors.ErrLessonNotFound,
	app_errors.ErrQuizNotFound,
	app_errors.ErrQuestionNotFound,
	app_errors.ErrAttemptNotFound,
	app_errors.ErrNotEnrolled,
	app_errors.ErrCertificateNotFound,
	app_errors.ErrLessonNotInCourse,
}

var conflictErrors = []error{
	app_errors.ErrUserExists,
	app_errors.ErrAlreadyEnrolled,
	app_errors.ErrLessonAlreadyCompleted,
	app_errors.ErrCertificateExists,
}

var badRequestErrors = []error{
	app_errors.ErrInvalidID,
	app_errors.ErrTitleRequired,
	app_errors.ErrContentRequired,
	app_errors.ErrQuestionTextRequired,
	app_errors.ErrChoiceTextRequired,
	app_errors.ErrNotEnoughChoices,
	app_errors.ErrNoCorrectChoice,
	app_errors.ErrNoQuestions,
	app_errors.ErrNoQuizzes,
	app_errors.ErrQuizzesNotPassed,
	app_errors.ErrIncorrectPassword,
	app_errors.ErrInvalidPassword,
}

// respondError translates a service error to its HTTP class. Anything outside
// the sentinel vocabulary is a 500 with a generic message; the real error goes
// to the request log through c.Error.
func respondError(c *gin.Context, err error) {
	for _, sentinel := range badRequestErrors {
		if errors.Is(err, sentinel) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
	}
	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
			return
		}
	}
	for _, sentinel := range conflictErrors {
		if errors.Is(err, sentinel) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
			return
		}
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
