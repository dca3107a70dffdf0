package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/ShewonGun/FarmerBackup/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ClientIDCtx   = "client_id"
	ClientRoleCtx = "client_role"
)

func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get(ClientRoleCtx)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "role not found"})
			return
		}
		role, ok := roleValue.(string)
		if !ok {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "insufficient permissions"})
	}
}

// RequireSelfOrAdmin lets a user through to their own resources; admins pass
// regardless of whose resource it is. paramName is the route parameter holding
// the target user id.
func RequireSelfOrAdmin(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, err := uuid.Parse(c.Param(paramName))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid user id"})
			return
		}

		roleValue, _ := c.Get(ClientRoleCtx)
		if role, ok := roleValue.(string); ok && role == models.AdminRole {
			c.Next()
			return
		}

		clientValue, exists := c.Get(ClientIDCtx)
		if !exists {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		clientID, ok := clientValue.(uuid.UUID)
		if !ok || clientID != targetID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

func LoggingMiddleware(logger logger.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		path := c.Request.URL.Path
		rawQuery := c.Request.URL.RawQuery
		if rawQuery != "" {
			path = fmt.Sprintf("%s?%s", path, rawQuery)
		}
		status := c.Writer.Status()

		msg := fmt.Sprintf("%s %s", method, path)

		logger.Info(msg,
			"status", status,
			"latency", latency,
			"client_ip", clientIP,
		)

		for _, ginErr := range c.Errors {
			logger.ErrorErr("HTTP request error", ginErr.Err,
				"status", status,
				"method", method,
				"path", path,
			)
		}
	}
}
