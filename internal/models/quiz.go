package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultPassingScore = 70

type Quiz struct {
	ID           uuid.UUID `json:"id"`
	LessonID     uuid.UUID `json:"lesson_id"`
	Title        string    `json:"title"`
	PassingScore int       `json:"passing_score"`
	TimeLimit    *int      `json:"time_limit,omitempty"` // minutes
	CreatedAt    time.Time `json:"created_at"`
}

type Question struct {
	ID           uuid.UUID `json:"id"`
	QuizID       uuid.UUID `json:"quiz_id"`
	QuestionText string    `json:"question_text"`
	Order        int       `json:"order"`
	CreatedAt    time.Time `json:"created_at"`
}

type Choice struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	ChoiceText string    `json:"choice_text"`
	IsCorrect  bool      `json:"is_correct"`
	Order      int       `json:"order"`
	CreatedAt  time.Time `json:"created_at"`
}

type QuestionWithChoices struct {
	Question
	Choices []Choice `json:"choices"`
}

type QuizDetail struct {
	Quiz
	Questions []QuestionWithChoices `json:"questions"`
}
