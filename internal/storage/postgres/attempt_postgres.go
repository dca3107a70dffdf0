package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/ShewonGun/FarmerBackup/internal/app_errors"
	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AttemptPostgres struct {
	db *pgxpool.Pool
}

func NewAttemptPostgres(db *pgxpool.Pool) *AttemptPostgres {
	return &AttemptPostgres{db: db}
}

func (r *AttemptPostgres) CreateAttempt(ctx context.Context, attempt models.QuizAttempt) (*models.QuizAttempt, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	attempt.SubmittedAt = time.Now().UTC()

	_, err = tx.Exec(ctx,
		`INSERT INTO quiz_attempts (id, user_id, quiz_id, score, passed, submitted_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		attempt.ID, attempt.UserID, attempt.QuizID, attempt.Score, attempt.Passed, attempt.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, answer := range attempt.Answers {
		_, err = tx.Exec(ctx,
			`INSERT INTO quiz_attempt_answers (attempt_id, question_id, choice_id) VALUES ($1, $2, $3)`,
			attempt.ID, answer.QuestionID, answer.ChoiceID,
		)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptPostgres) AttemptByID(ctx context.Context, id uuid.UUID) (*models.QuizAttempt, error) {
	query := `
		SELECT id, user_id, quiz_id, score, passed, submitted_at
		FROM quiz_attempts
		WHERE id = $1
	`
	var a models.QuizAttempt
	row := r.db.QueryRow(ctx, query, id)
	err := row.Scan(&a.ID, &a.UserID, &a.QuizID, &a.Score, &a.Passed, &a.SubmittedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrAttemptNotFound
		}
		return nil, err
	}

	a.Answers, err = r.answersByAttempt(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptPostgres) ListUserQuizAttempts(ctx context.Context, userID, quizID uuid.UUID) ([]models.QuizAttempt, error) {
	query := `
		SELECT id, user_id, quiz_id, score, passed, submitted_at
		FROM quiz_attempts
		WHERE user_id = $1 AND quiz_id = $2
		ORDER BY submitted_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAttempts(rows)
}

// ListUserCourseAttempts returns the user's attempts across every quiz in the
// course, newest first.
func (r *AttemptPostgres) ListUserCourseAttempts(ctx context.Context, userID, courseID uuid.UUID) ([]models.QuizAttempt, error) {
	query := `
		SELECT a.id, a.user_id, a.quiz_id, a.score, a.passed, a.submitted_at
		FROM quiz_attempts a
		INNER JOIN quizzes z ON z.id = a.quiz_id
		INNER JOIN lessons l ON l.id = z.lesson_id
		WHERE a.user_id = $1 AND l.course_id = $2
		ORDER BY a.submitted_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAttempts(rows)
}

// BestScoresByQuizzes returns the user's highest score per quiz, for the quizzes
// the user has attempted at all.
func (r *AttemptPostgres) BestScoresByQuizzes(ctx context.Context, userID uuid.UUID, quizIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	query := `
		SELECT quiz_id, MAX(score)
		FROM quiz_attempts
		WHERE user_id = $1 AND quiz_id = ANY($2)
		GROUP BY quiz_id
	`
	rows, err := r.db.Query(ctx, query, userID, quizIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	best := make(map[uuid.UUID]int)
	for rows.Next() {
		var quizID uuid.UUID
		var score int
		if err := rows.Scan(&quizID, &score); err != nil {
			return nil, err
		}
		best[quizID] = score
	}
	return best, rows.Err()
}

func (r *AttemptPostgres) answersByAttempt(ctx context.Context, attemptID uuid.UUID) ([]models.QuizAnswer, error) {
	rows, err := r.db.Query(ctx,
		`SELECT question_id, choice_id FROM quiz_attempt_answers WHERE attempt_id = $1`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []models.QuizAnswer
	for rows.Next() {
		var a models.QuizAnswer
		if err := rows.Scan(&a.QuestionID, &a.ChoiceID); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func scanAttempts(rows pgx.Rows) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	for rows.Next() {
		var a models.QuizAttempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuizID, &a.Score, &a.Passed, &a.SubmittedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
