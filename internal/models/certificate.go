package models

import (
	"time"

	"github.com/google/uuid"
)

type Certificate struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	CourseID          uuid.UUID `json:"course_id"`
	CertificateNumber string    `json:"certificate_number"`
	CertificateURL    string    `json:"certificate_url"`
	IssueDate         time.Time `json:"issue_date"`
	CompletionDate    time.Time `json:"completion_date"`
	AverageScore      int       `json:"average_score"`
}
