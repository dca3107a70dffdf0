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

type QuizPostgres struct {
	db *pgxpool.Pool
}

func NewQuizPostgres(db *pgxpool.Pool) *QuizPostgres {
	return &QuizPostgres{db: db}
}

// CreateQuizWithQuestions commits the quiz, its questions and their choices
// together or not at all, and flips the lesson's quiz flag in the same
// transaction.
func (r *QuizPostgres) CreateQuizWithQuestions(ctx context.Context, quiz models.Quiz, questions []models.QuestionWithChoices) (*models.QuizDetail, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if quiz.ID == uuid.Nil {
		quiz.ID = uuid.New()
	}
	now := time.Now().UTC()
	quiz.CreatedAt = now

	insertQuiz := `
		INSERT INTO quizzes (id, lesson_id, title, passing_score, time_limit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.Exec(ctx, insertQuiz,
		quiz.ID, quiz.LessonID, quiz.Title, quiz.PassingScore, quiz.TimeLimit, quiz.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	created, err := insertQuestions(ctx, tx, quiz.ID, questions, now)
	if err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE lessons SET is_quiz_available = true, updated_at = $2 WHERE id = $1`,
		quiz.LessonID, now,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, app_errors.ErrLessonNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &models.QuizDetail{Quiz: quiz, Questions: created}, nil
}

func (r *QuizPostgres) QuizByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	query := `
		SELECT id, lesson_id, title, passing_score, time_limit, created_at
		FROM quizzes
		WHERE id = $1
	`
	return r.scanQuiz(r.db.QueryRow(ctx, query, id))
}

func (r *QuizPostgres) QuizByLesson(ctx context.Context, lessonID uuid.UUID) (*models.Quiz, error) {
	query := `
		SELECT id, lesson_id, title, passing_score, time_limit, created_at
		FROM quizzes
		WHERE lesson_id = $1
		ORDER BY created_at
		LIMIT 1
	`
	return r.scanQuiz(r.db.QueryRow(ctx, query, lessonID))
}

func (r *QuizPostgres) QuizzesByLessons(ctx context.Context, lessonIDs []uuid.UUID) ([]models.Quiz, error) {
	query := `
		SELECT id, lesson_id, title, passing_score, time_limit, created_at
		FROM quizzes
		WHERE lesson_id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, lessonIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []models.Quiz
	for rows.Next() {
		var q models.Quiz
		if err := rows.Scan(&q.ID, &q.LessonID, &q.Title, &q.PassingScore, &q.TimeLimit, &q.CreatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

func (r *QuizPostgres) UpdateQuiz(ctx context.Context, id uuid.UUID, title *string, passingScore, timeLimit *int) (*models.Quiz, error) {
	query := `
		UPDATE quizzes SET
			title         = COALESCE($2, title),
			passing_score = COALESCE($3, passing_score),
			time_limit    = COALESCE($4, time_limit)
		WHERE id = $1
		RETURNING id, lesson_id, title, passing_score, time_limit, created_at
	`
	return r.scanQuiz(r.db.QueryRow(ctx, query, id, title, passingScore, timeLimit))
}

// DeleteQuiz cascades choices and questions, drops the quiz's attempts and
// resets the owning lesson's quiz flag, all in one transaction.
func (r *QuizPostgres) DeleteQuiz(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var lessonID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT lesson_id FROM quizzes WHERE id = $1`, id).Scan(&lessonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return app_errors.ErrQuizNotFound
		}
		return err
	}

	statements := []string{
		`DELETE FROM quiz_attempt_answers WHERE attempt_id IN (SELECT id FROM quiz_attempts WHERE quiz_id = $1)`,
		`DELETE FROM quiz_attempts WHERE quiz_id = $1`,
		`DELETE FROM choices WHERE question_id IN (SELECT id FROM questions WHERE quiz_id = $1)`,
		`DELETE FROM questions WHERE quiz_id = $1`,
		`DELETE FROM quizzes WHERE id = $1`,
	}
	for _, stmt := range statements {
		if _, err = tx.Exec(ctx, stmt, id); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE lessons SET is_quiz_available = false, updated_at = $2 WHERE id = $1`,
		lessonID, time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ReplaceQuestions swaps the quiz's whole question set atomically.
func (r *QuizPostgres) ReplaceQuestions(ctx context.Context, quizID uuid.UUID, questions []models.QuestionWithChoices) ([]models.QuestionWithChoices, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM choices WHERE question_id IN (SELECT id FROM questions WHERE quiz_id = $1)`, quizID)
	if err != nil {
		return nil, err
	}
	if _, err = tx.Exec(ctx, `DELETE FROM questions WHERE quiz_id = $1`, quizID); err != nil {
		return nil, err
	}

	created, err := insertQuestions(ctx, tx, quizID, questions, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// CreateQuestionWithChoices appends a question at the given order, or at the end
// of the quiz when order is zero. Question and choices land in one transaction.
func (r *QuizPostgres) CreateQuestionWithChoices(ctx context.Context, question models.Question, choices []models.Choice) (*models.QuestionWithChoices, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}
	now := time.Now().UTC()
	question.CreatedAt = now

	if question.Order == 0 {
		err = tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(question_order), 0) + 1 FROM questions WHERE quiz_id = $1`,
			question.QuizID,
		).Scan(&question.Order)
		if err != nil {
			return nil, err
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO questions (id, quiz_id, question_text, question_order, created_at) VALUES ($1, $2, $3, $4, $5)`,
		question.ID, question.QuizID, question.QuestionText, question.Order, question.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	created, err := insertChoices(ctx, tx, question.ID, choices, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &models.QuestionWithChoices{Question: question, Choices: created}, nil
}

func (r *QuizPostgres) QuestionByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	query := `
		SELECT id, quiz_id, question_text, question_order, created_at
		FROM questions
		WHERE id = $1
	`
	var q models.Question
	err := r.db.QueryRow(ctx, query, id).Scan(&q.ID, &q.QuizID, &q.QuestionText, &q.Order, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrQuestionNotFound
		}
		return nil, err
	}
	return &q, nil
}

// UpdateQuestion updates scalar fields and, when replacement choices are given,
// swaps the whole choice set in the same transaction so a late validation
// failure can never leave a partial set behind.
func (r *QuizPostgres) UpdateQuestion(ctx context.Context, id uuid.UUID, text *string, order *int, choices []models.Choice) (*models.QuestionWithChoices, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE questions SET
			question_text  = COALESCE($2, question_text),
			question_order = COALESCE($3, question_order)
		WHERE id = $1
		RETURNING id, quiz_id, question_text, question_order, created_at
	`
	var q models.Question
	err = tx.QueryRow(ctx, query, id, text, order).Scan(&q.ID, &q.QuizID, &q.QuestionText, &q.Order, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrQuestionNotFound
		}
		return nil, err
	}

	var updated []models.Choice
	if choices != nil {
		if _, err = tx.Exec(ctx, `DELETE FROM choices WHERE question_id = $1`, id); err != nil {
			return nil, err
		}
		updated, err = insertChoices(ctx, tx, id, choices, time.Now().UTC())
		if err != nil {
			return nil, err
		}
	} else {
		updated, err = choicesByQuestionTx(ctx, tx, id)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &models.QuestionWithChoices{Question: q, Choices: updated}, nil
}

func (r *QuizPostgres) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, `DELETE FROM choices WHERE question_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrQuestionNotFound
	}

	return tx.Commit(ctx)
}

// QuestionsWithChoices returns the quiz's questions with their choices, both in
// declared order.
func (r *QuizPostgres) QuestionsWithChoices(ctx context.Context, quizID uuid.UUID) ([]models.QuestionWithChoices, error) {
	questionRows, err := r.db.Query(ctx,
		`SELECT id, quiz_id, question_text, question_order, created_at
		 FROM questions WHERE quiz_id = $1 ORDER BY question_order`, quizID)
	if err != nil {
		return nil, err
	}
	defer questionRows.Close()

	var questions []models.QuestionWithChoices
	for questionRows.Next() {
		var q models.Question
		if err := questionRows.Scan(&q.ID, &q.QuizID, &q.QuestionText, &q.Order, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, models.QuestionWithChoices{Question: q})
	}
	if err := questionRows.Err(); err != nil {
		return nil, err
	}

	choiceRows, err := r.db.Query(ctx,
		`SELECT c.id, c.question_id, c.choice_text, c.is_correct, c.choice_order, c.created_at
		 FROM choices c
		 JOIN questions q ON q.id = c.question_id
		 WHERE q.quiz_id = $1
		 ORDER BY c.choice_order`, quizID)
	if err != nil {
		return nil, err
	}
	defer choiceRows.Close()

	byQuestion := make(map[uuid.UUID][]models.Choice)
	for choiceRows.Next() {
		var c models.Choice
		if err := choiceRows.Scan(&c.ID, &c.QuestionID, &c.ChoiceText, &c.IsCorrect, &c.Order, &c.CreatedAt); err != nil {
			return nil, err
		}
		byQuestion[c.QuestionID] = append(byQuestion[c.QuestionID], c)
	}
	if err := choiceRows.Err(); err != nil {
		return nil, err
	}

	for i := range questions {
		questions[i].Choices = byQuestion[questions[i].ID]
	}
	return questions, nil
}

func (r *QuizPostgres) scanQuiz(row pgx.Row) (*models.Quiz, error) {
	var q models.Quiz
	err := row.Scan(&q.ID, &q.LessonID, &q.Title, &q.PassingScore, &q.TimeLimit, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrQuizNotFound
		}
		return nil, err
	}
	return &q, nil
}

func insertQuestions(ctx context.Context, tx pgx.Tx, quizID uuid.UUID, questions []models.QuestionWithChoices, now time.Time) ([]models.QuestionWithChoices, error) {
	created := make([]models.QuestionWithChoices, 0, len(questions))
	for i, qc := range questions {
		q := qc.Question
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		q.QuizID = quizID
		if q.Order == 0 {
			q.Order = i + 1
		}
		q.CreatedAt = now

		_, err := tx.Exec(ctx,
			`INSERT INTO questions (id, quiz_id, question_text, question_order, created_at) VALUES ($1, $2, $3, $4, $5)`,
			q.ID, q.QuizID, q.QuestionText, q.Order, q.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		choices, err := insertChoices(ctx, tx, q.ID, qc.Choices, now)
		if err != nil {
			return nil, err
		}
		created = append(created, models.QuestionWithChoices{Question: q, Choices: choices})
	}
	return created, nil
}

func insertChoices(ctx context.Context, tx pgx.Tx, questionID uuid.UUID, choices []models.Choice, now time.Time) ([]models.Choice, error) {
	created := make([]models.Choice, 0, len(choices))
	for i, c := range choices {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		c.QuestionID = questionID
		if c.Order == 0 {
			c.Order = i + 1
		}
		c.CreatedAt = now

		_, err := tx.Exec(ctx,
			`INSERT INTO choices (id, question_id, choice_text, is_correct, choice_order, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			c.ID, c.QuestionID, c.ChoiceText, c.IsCorrect, c.Order, c.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		created = append(created, c)
	}
	return created, nil
}

func choicesByQuestionTx(ctx context.Context, tx pgx.Tx, questionID uuid.UUID) ([]models.Choice, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, question_id, choice_text, is_correct, choice_order, created_at
		 FROM choices WHERE question_id = $1 ORDER BY choice_order`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var choices []models.Choice
	for rows.Next() {
		var c models.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.ChoiceText, &c.IsCorrect, &c.Order, &c.CreatedAt); err != nil {
			return nil, err
		}
		choices = append(choices, c)
	}
	return choices, rows.Err()
}
