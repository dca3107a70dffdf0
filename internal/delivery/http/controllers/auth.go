package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ShewonGun/FarmerBackup/internal/app_errors"
	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/ShewonGun/FarmerBackup/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthService interface {
	Register(ctx context.Context, user models.User) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	User(ctx context.Context, id uuid.UUID) (*models.User, error)
	AccessClaims(ctx context.Context, token string) (userID uuid.UUID, role string, err error)
}

type AuthHandler struct {
	AuthService AuthService
	log         logger.Log
}

func NewAuthHandler(l logger.Log, authService AuthService) *AuthHandler {
	return &AuthHandler{
		AuthService: authService,
		log:         l,
	}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input registerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	user, err := h.AuthService.Register(c.Request.Context(), models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	token, user, err := h.AuthService.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, app_errors.ErrIncorrectPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": user})
}

func (h *AuthHandler) Me(c *gin.Context) {
	clientValue, exists := c.Get(ClientIDCtx)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}
	user, err := h.AuthService.User(c.Request.Context(), clientValue.(uuid.UUID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *AuthHandler) AuthMiddleware(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	var token string
	if parts := strings.Split(authHeader, "Bearer "); len(parts) == 2 {
		token = parts[1]
	}
	if token == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	userID, role, err := h.AuthService.AccessClaims(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, app_errors.ErrTokenExpired) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": app_errors.ErrTokenExpired.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
		return
	}

	c.Set(ClientIDCtx, userID)
	c.Set(ClientRoleCtx, role)
	c.Next()
}
