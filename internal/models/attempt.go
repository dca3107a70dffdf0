package models

import (
	"time"

	"github.com/google/uuid"
)

// QuizAnswer is a single selected choice in a submitted attempt.
type QuizAnswer struct {
	QuestionID uuid.UUID `json:"question_id"`
	ChoiceID   uuid.UUID `json:"choice_id"`
}

type QuizAttempt struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	QuizID      uuid.UUID    `json:"quiz_id"`
	Score       int          `json:"score"`
	Passed      bool         `json:"passed"`
	Answers     []QuizAnswer `json:"answers"`
	SubmittedAt time.Time    `json:"submitted_at"`
}
