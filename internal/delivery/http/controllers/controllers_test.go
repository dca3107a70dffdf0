package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ShewonGun/FarmerBackup/internal/app_errors"
	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{app_errors.ErrTitleRequired, http.StatusBadRequest},
		{app_errors.ErrNoCorrectChoice, http.StatusBadRequest},
		{app_errors.ErrQuizzesNotPassed, http.StatusBadRequest},
		{app_errors.ErrInvalidPassword, http.StatusBadRequest},
		{app_errors.ErrCourseNotFound, http.StatusNotFound},
		{app_errors.ErrNotEnrolled, http.StatusNotFound},
		{app_errors.ErrLessonNotInCourse, http.StatusNotFound},
		{app_errors.ErrAlreadyEnrolled, http.StatusConflict},
		{app_errors.ErrLessonAlreadyCompleted, http.StatusConflict},
		{app_errors.ErrCertificateExists, http.StatusConflict},
		{errors.New("pool exhausted"), http.StatusInternalServerError},
		{app_errors.ErrCertificateNumberTaken, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, tc.err)
		assert.Equal(t, tc.status, w.Code, "error %q", tc.err)
	}
}

func TestRespondErrorMapsWrappedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	wrapped := errors.Join(errors.New("question 2"), app_errors.ErrNotEnoughChoices)
	respondError(c, wrapped)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, errors.New("dial tcp 10.0.0.3:5432: connection refused"))

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body["message"])
}

func TestRequireRoles(t *testing.T) {
	r := gin.New()
	r.GET("/admin-only", func(c *gin.Context) {
		c.Set(ClientRoleCtx, models.FarmerRole)
	}, RequireRoles(models.AdminRole), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesAllowsMatch(t *testing.T) {
	r := gin.New()
	r.GET("/admin-only", func(c *gin.Context) {
		c.Set(ClientRoleCtx, models.AdminRole)
	}, RequireRoles(models.AdminRole), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireSelfOrAdmin(t *testing.T) {
	self := uuid.New()
	other := uuid.New()

	run := func(clientID uuid.UUID, role string, target uuid.UUID) int {
		r := gin.New()
		r.GET("/users/:user_id/certificates", func(c *gin.Context) {
			c.Set(ClientIDCtx, clientID)
			c.Set(ClientRoleCtx, role)
		}, RequireSelfOrAdmin("user_id"), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/"+target.String()+"/certificates", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, run(self, models.FarmerRole, self))
	assert.Equal(t, http.StatusForbidden, run(self, models.FarmerRole, other))
	assert.Equal(t, http.StatusOK, run(self, models.AdminRole, other))
}

func TestStatusEndpoint(t *testing.T) {
	r := gin.New()
	r.GET("/status", NewStatusHandler().Status)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"Available"}`, w.Body.String())
}
