package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	NoOfLessons  int       `json:"no_of_lessons"`
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CourseUpdate carries the whitelisted mutable fields; nil means "leave as is".
type CourseUpdate struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	ThumbnailURL *string `json:"thumbnail_url"`
	IsPublished  *bool   `json:"is_published"`
}

type CoursePage struct {
	Courses    []Course   `json:"courses"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
	TotalCourses int `json:"total_courses"`
	Limit        int `json:"limit"`
}
