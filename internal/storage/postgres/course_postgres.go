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

type CoursePostgres struct {
	db *pgxpool.Pool
}

func NewCoursePostgres(db *pgxpool.Pool) *CoursePostgres {
	return &CoursePostgres{db: db}
}

func (r *CoursePostgres) CreateCourse(ctx context.Context, course *models.Course) (uuid.UUID, error) {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	query := `
		INSERT INTO courses (
			id, title, description, thumbnail_url, no_of_lessons,
			is_published, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(
		ctx,
		query,
		course.ID,
		course.Title,
		course.Description,
		course.ThumbnailURL,
		course.NoOfLessons,
		course.IsPublished,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return course.ID, nil
}

func (r *CoursePostgres) CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	const query = `
        SELECT id, title, description, thumbnail_url, no_of_lessons,
               is_published, created_at, updated_at
        FROM courses
        WHERE id = $1
    `
	course := &models.Course{}
	row := r.db.QueryRow(ctx, query, id)
	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.ThumbnailURL,
		&course.NoOfLessons,
		&course.IsPublished,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (r *CoursePostgres) ListCourses(ctx context.Context, limit, offset int) ([]models.Course, error) {
	query := `
        SELECT id, title, description, thumbnail_url, no_of_lessons,
               is_published, created_at, updated_at
        FROM courses
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCourses(rows)
}

func (r *CoursePostgres) CoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Course, error) {
	query := `
        SELECT id, title, description, thumbnail_url, no_of_lessons,
               is_published, created_at, updated_at
        FROM courses
        WHERE id = ANY($1)
    `
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCourses(rows)
}

func (r *CoursePostgres) CountCourses(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *CoursePostgres) UpdateCourse(ctx context.Context, id uuid.UUID, upd models.CourseUpdate) (*models.Course, error) {
	query := `
		UPDATE courses SET
			title         = COALESCE($2, title),
			description   = COALESCE($3, description),
			thumbnail_url = COALESCE($4, thumbnail_url),
			is_published  = COALESCE($5, is_published),
			updated_at    = $6
		WHERE id = $1
		RETURNING id, title, description, thumbnail_url, no_of_lessons,
		          is_published, created_at, updated_at
	`
	course := &models.Course{}
	row := r.db.QueryRow(ctx, query, id, upd.Title, upd.Description, upd.ThumbnailURL, upd.IsPublished, time.Now().UTC())
	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.ThumbnailURL,
		&course.NoOfLessons,
		&course.IsPublished,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// Child-before-parent delete order for a course. Certificates are deliberately
// absent: issued certificates outlive their course.
var courseCascadeStatements = []string{
	`DELETE FROM quiz_attempt_answers WHERE attempt_id IN (
		SELECT a.id FROM quiz_attempts a
		JOIN quizzes z ON z.id = a.quiz_id
		JOIN lessons l ON l.id = z.lesson_id
		WHERE l.course_id = $1)`,
	`DELETE FROM quiz_attempts WHERE quiz_id IN (
		SELECT z.id FROM quizzes z
		JOIN lessons l ON l.id = z.lesson_id
		WHERE l.course_id = $1)`,
	`DELETE FROM choices WHERE question_id IN (
		SELECT q.id FROM questions q
		JOIN quizzes z ON z.id = q.quiz_id
		JOIN lessons l ON l.id = z.lesson_id
		WHERE l.course_id = $1)`,
	`DELETE FROM questions WHERE quiz_id IN (
		SELECT z.id FROM quizzes z
		JOIN lessons l ON l.id = z.lesson_id
		WHERE l.course_id = $1)`,
	`DELETE FROM quizzes WHERE lesson_id IN (
		SELECT id FROM lessons WHERE course_id = $1)`,
	`DELETE FROM completed_lessons WHERE enrollment_id IN (
		SELECT id FROM enrollments WHERE course_id = $1)`,
	`DELETE FROM enrollments WHERE course_id = $1`,
	`DELETE FROM lessons WHERE course_id = $1`,
}

// DeleteCourseCascade removes the course together with everything hanging off it,
// children before parents, in a single transaction.
func (r *CoursePostgres) DeleteCourseCascade(ctx context.Context, courseID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, stmt := range courseCascadeStatements {
		if _, err = tx.Exec(ctx, stmt, courseID); err != nil {
			return err
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM courses WHERE id = $1`, courseID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrCourseNotFound
	}

	return tx.Commit(ctx)
}

func scanCourses(rows pgx.Rows) ([]models.Course, error) {
	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(
			&c.ID, &c.Title, &c.Description, &c.ThumbnailURL,
			&c.NoOfLessons, &c.IsPublished, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
