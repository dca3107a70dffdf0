package models

import (
	"time"

	"github.com/google/uuid"
)

type Lesson struct {
	ID              uuid.UUID `json:"id"`
	CourseID        uuid.UUID `json:"course_id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	AssetURL        string    `json:"asset_url,omitempty"`
	IsQuizAvailable bool      `json:"is_quiz_available"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type LessonUpdate struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	AssetURL *string `json:"asset_url"`
}
