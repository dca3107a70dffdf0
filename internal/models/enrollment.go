package models

import (
	"time"

	"github.com/google/uuid"
)

type Enrollment struct {
	ID               uuid.UUID   `json:"id"`
	UserID           uuid.UUID   `json:"user_id"`
	CourseID         uuid.UUID   `json:"course_id"`
	Progress         int         `json:"progress"`
	CompletedLessons []uuid.UUID `json:"completed_lessons"`
	EnrolledAt       time.Time   `json:"enrolled_at"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty"`
}

// ProgressPercent converts a completed-lesson count into a rounded whole
// percentage, capped at 100. total must be positive.
func ProgressPercent(completed, total int) int {
	progress := (completed*100 + total/2) / total
	if progress > 100 {
		progress = 100
	}
	return progress
}

// LessonSummary is the resolved view of a completed lesson inside an enrollment.
type LessonSummary struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type CourseSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	NoOfLessons int       `json:"no_of_lessons"`
}

type EnrollmentDetail struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"user_id"`
	Course           CourseSummary   `json:"course"`
	Progress         int             `json:"progress"`
	CompletedLessons []LessonSummary `json:"completed_lessons"`
	EnrolledAt       time.Time       `json:"enrolled_at"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
}
