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

type LessonPostgres struct {
	db *pgxpool.Pool
}

func NewLessonPostgres(db *pgxpool.Pool) *LessonPostgres {
	return &LessonPostgres{db: db}
}

// CreateLesson inserts the lesson and bumps the parent course counter in one
// transaction, so no_of_lessons cannot drift under concurrent writers.
func (r *LessonPostgres) CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	now := time.Now().UTC()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now

	insertQuery := `
		INSERT INTO lessons (
			id, course_id, title, content, asset_url,
			is_quiz_available, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.Exec(ctx, insertQuery,
		lesson.ID, lesson.CourseID, lesson.Title, lesson.Content, lesson.AssetURL,
		lesson.IsQuizAvailable, lesson.CreatedAt, lesson.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE courses SET no_of_lessons = no_of_lessons + 1, updated_at = $2 WHERE id = $1`,
		lesson.CourseID, now,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, app_errors.ErrCourseNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonPostgres) LessonByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	query := `
		SELECT id, course_id, title, content, asset_url,
		       is_quiz_available, created_at, updated_at
		FROM lessons
		WHERE id = $1
	`
	var lesson models.Lesson
	row := r.db.QueryRow(ctx, query, id)
	err := row.Scan(
		&lesson.ID, &lesson.CourseID, &lesson.Title, &lesson.Content, &lesson.AssetURL,
		&lesson.IsQuizAvailable, &lesson.CreatedAt, &lesson.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrLessonNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonPostgres) ListLessonsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error) {
	query := `
		SELECT id, course_id, title, content, asset_url,
		       is_quiz_available, created_at, updated_at
		FROM lessons
		WHERE course_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(
			&l.ID, &l.CourseID, &l.Title, &l.Content, &l.AssetURL,
			&l.IsQuizAvailable, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

// ListQuizLessons returns the course's lessons that carry a quiz.
func (r *LessonPostgres) ListQuizLessons(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error) {
	query := `
		SELECT id, course_id, title, content, asset_url,
		       is_quiz_available, created_at, updated_at
		FROM lessons
		WHERE course_id = $1 AND is_quiz_available = true
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(
			&l.ID, &l.CourseID, &l.Title, &l.Content, &l.AssetURL,
			&l.IsQuizAvailable, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

func (r *LessonPostgres) LessonInCourse(ctx context.Context, lessonID, courseID uuid.UUID) (*models.Lesson, error) {
	query := `
		SELECT id, course_id, title, content, asset_url,
		       is_quiz_available, created_at, updated_at
		FROM lessons
		WHERE id = $1 AND course_id = $2
	`
	var lesson models.Lesson
	row := r.db.QueryRow(ctx, query, lessonID, courseID)
	err := row.Scan(
		&lesson.ID, &lesson.CourseID, &lesson.Title, &lesson.Content, &lesson.AssetURL,
		&lesson.IsQuizAvailable, &lesson.CreatedAt, &lesson.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrLessonNotInCourse
		}
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonPostgres) UpdateLesson(ctx context.Context, id uuid.UUID, upd models.LessonUpdate) (*models.Lesson, error) {
	query := `
		UPDATE lessons SET
			title      = COALESCE($2, title),
			content    = COALESCE($3, content),
			asset_url  = COALESCE($4, asset_url),
			updated_at = $5
		WHERE id = $1
		RETURNING id, course_id, title, content, asset_url,
		          is_quiz_available, created_at, updated_at
	`
	var lesson models.Lesson
	row := r.db.QueryRow(ctx, query, id, upd.Title, upd.Content, upd.AssetURL, time.Now().UTC())
	err := row.Scan(
		&lesson.ID, &lesson.CourseID, &lesson.Title, &lesson.Content, &lesson.AssetURL,
		&lesson.IsQuizAvailable, &lesson.CreatedAt, &lesson.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrLessonNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

// Child-before-parent delete order for a lesson's quiz subtree and completion rows.
var lessonCascadeStatements = []string{
	`DELETE FROM quiz_attempt_answers WHERE attempt_id IN (
		SELECT a.id FROM quiz_attempts a
		JOIN quizzes z ON z.id = a.quiz_id
		WHERE z.lesson_id = $1)`,
	`DELETE FROM quiz_attempts WHERE quiz_id IN (SELECT id FROM quizzes WHERE lesson_id = $1)`,
	`DELETE FROM choices WHERE question_id IN (
		SELECT q.id FROM questions q
		JOIN quizzes z ON z.id = q.quiz_id
		WHERE z.lesson_id = $1)`,
	`DELETE FROM questions WHERE quiz_id IN (SELECT id FROM quizzes WHERE lesson_id = $1)`,
	`DELETE FROM quizzes WHERE lesson_id = $1`,
	`DELETE FROM completed_lessons WHERE lesson_id = $1`,
}

// DeleteLesson removes the lesson with its quiz subtree and completion rows,
// and decrements the course counter, all in one transaction. The returned flag
// reports whether the parent course still existed.
func (r *LessonPostgres) DeleteLesson(ctx context.Context, id uuid.UUID) (courseAdjusted bool, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	for _, stmt := range lessonCascadeStatements {
		if _, err = tx.Exec(ctx, stmt, id); err != nil {
			return false, err
		}
	}

	var courseID uuid.UUID
	err = tx.QueryRow(ctx, `DELETE FROM lessons WHERE id = $1 RETURNING course_id`, id).Scan(&courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, app_errors.ErrLessonNotFound
		}
		return false, err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE courses SET no_of_lessons = no_of_lessons - 1, updated_at = $2 WHERE id = $1 AND no_of_lessons > 0`,
		courseID, time.Now().UTC(),
	)
	if err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
