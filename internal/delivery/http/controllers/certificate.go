package controllers

import (
	"context"
	"net/http"

	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/ShewonGun/FarmerBackup/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CertificateService interface {
	IssueCertificate(ctx context.Context, userID, courseID uuid.UUID) (*models.Certificate, error)
	CertificateByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Certificate, error)
	UserCertificates(ctx context.Context, userID uuid.UUID) ([]models.Certificate, error)
}

type CertificateHandler struct {
	CertificateService CertificateService
	log                logger.Log
}

func NewCertificateHandler(l logger.Log, certificateService CertificateService) *CertificateHandler {
	return &CertificateHandler{
		CertificateService: certificateService,
		log:                l,
	}
}

func (h *CertificateHandler) IssueCertificate(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(c, "course_id")
	if !ok {
		return
	}

	cert, err := h.CertificateService.IssueCertificate(c.Request.Context(), userID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "certificate": cert})
}

func (h *CertificateHandler) MyCourseCertificate(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(c, "course_id")
	if !ok {
		return
	}

	cert, err := h.CertificateService.CertificateByUserAndCourse(c.Request.Context(), userID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "certificate": cert})
}

func (h *CertificateHandler) MyCertificates(c *gin.Context) {
	userID, ok := clientID(c)
	if !ok {
		return
	}

	certs, err := h.CertificateService.UserCertificates(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "certificates": certs})
}

// UserCertificates serves an arbitrary user's certificates; the router guards
// it with RequireSelfOrAdmin.
func (h *CertificateHandler) UserCertificates(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	certs, err := h.CertificateService.UserCertificates(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "certificates": certs})
}
