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

type EnrollmentPostgres struct {
	db *pgxpool.Pool
}

func NewEnrollmentPostgres(db *pgxpool.Pool) *EnrollmentPostgres {
	return &EnrollmentPostgres{db: db}
}

// CreateEnrollment relies on the unique (user_id, course_id) constraint, so a
// concurrent duplicate surfaces as ErrAlreadyEnrolled instead of a second row.
func (r *EnrollmentPostgres) CreateEnrollment(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	enrollment := models.Enrollment{
		ID:               uuid.New(),
		UserID:           userID,
		CourseID:         courseID,
		Progress:         0,
		CompletedLessons: []uuid.UUID{},
		EnrolledAt:       time.Now().UTC(),
	}
	query := `
		INSERT INTO enrollments (id, user_id, course_id, progress, enrolled_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		enrollment.ID, enrollment.UserID, enrollment.CourseID, enrollment.Progress, enrollment.EnrolledAt,
	)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == uniqueViolation {
			return nil, app_errors.ErrAlreadyEnrolled
		}
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentPostgres) EnrollmentByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, progress, enrolled_at, completed_at
		FROM enrollments
		WHERE user_id = $1 AND course_id = $2
	`
	var e models.Enrollment
	row := r.db.QueryRow(ctx, query, userID, courseID)
	err := row.Scan(&e.ID, &e.UserID, &e.CourseID, &e.Progress, &e.EnrolledAt, &e.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrNotEnrolled
		}
		return nil, err
	}

	lessonRows, err := r.db.Query(ctx,
		`SELECT lesson_id FROM completed_lessons WHERE enrollment_id = $1 ORDER BY completed_at`, e.ID)
	if err != nil {
		return nil, err
	}
	defer lessonRows.Close()

	e.CompletedLessons = []uuid.UUID{}
	for lessonRows.Next() {
		var lessonID uuid.UUID
		if err := lessonRows.Scan(&lessonID); err != nil {
			return nil, err
		}
		e.CompletedLessons = append(e.CompletedLessons, lessonID)
	}
	return &e, lessonRows.Err()
}

// AddCompletedLesson records the lesson and recomputes progress from the
// completion count read inside the same transaction, so concurrent completions
// of different lessons cannot undercount each other. It returns the
// authoritative count and completion timestamp; completed_at is only ever
// written through COALESCE, so the first timestamp is permanent.
func (r *EnrollmentPostgres) AddCompletedLesson(ctx context.Context, enrollmentID, lessonID uuid.UUID, noOfLessons int) (int, *time.Time, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO completed_lessons (enrollment_id, lesson_id, completed_at) VALUES ($1, $2, $3)`,
		enrollmentID, lessonID, time.Now().UTC(),
	)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == uniqueViolation {
			return 0, nil, app_errors.ErrLessonAlreadyCompleted
		}
		return 0, nil, err
	}

	var count int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM completed_lessons WHERE enrollment_id = $1`, enrollmentID,
	).Scan(&count)
	if err != nil {
		return 0, nil, err
	}

	var completedAt *time.Time
	if noOfLessons > 0 {
		progress := models.ProgressPercent(count, noOfLessons)
		var stamp *time.Time
		if progress >= 100 {
			now := time.Now().UTC()
			stamp = &now
		}
		err = tx.QueryRow(ctx,
			`UPDATE enrollments SET progress = $2, completed_at = COALESCE(completed_at, $3)
			 WHERE id = $1 RETURNING completed_at`,
			enrollmentID, progress, stamp,
		).Scan(&completedAt)
	} else {
		err = tx.QueryRow(ctx,
			`SELECT completed_at FROM enrollments WHERE id = $1`, enrollmentID,
		).Scan(&completedAt)
	}
	if err != nil {
		return 0, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, nil, err
	}
	return count, completedAt, nil
}

func (r *EnrollmentPostgres) ListUserEnrollments(ctx context.Context, userID uuid.UUID) ([]models.EnrollmentDetail, error) {
	query := `
		SELECT e.id, e.user_id, e.progress, e.enrolled_at, e.completed_at,
		       c.id, c.title, c.description, c.no_of_lessons
		FROM enrollments e
		INNER JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = $1
		ORDER BY e.enrolled_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []models.EnrollmentDetail
	for rows.Next() {
		var d models.EnrollmentDetail
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.Progress, &d.EnrolledAt, &d.CompletedAt,
			&d.Course.ID, &d.Course.Title, &d.Course.Description, &d.Course.NoOfLessons,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range details {
		lessons, err := r.completedLessonSummaries(ctx, details[i].ID)
		if err != nil {
			return nil, err
		}
		details[i].CompletedLessons = lessons
	}
	return details, nil
}

func (r *EnrollmentPostgres) EnrollmentDetail(ctx context.Context, userID, courseID uuid.UUID) (*models.EnrollmentDetail, error) {
	query := `
		SELECT e.id, e.user_id, e.progress, e.enrolled_at, e.completed_at,
		       c.id, c.title, c.description, c.no_of_lessons
		FROM enrollments e
		INNER JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = $1 AND e.course_id = $2
	`
	var d models.EnrollmentDetail
	row := r.db.QueryRow(ctx, query, userID, courseID)
	err := row.Scan(
		&d.ID, &d.UserID, &d.Progress, &d.EnrolledAt, &d.CompletedAt,
		&d.Course.ID, &d.Course.Title, &d.Course.Description, &d.Course.NoOfLessons,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrNotEnrolled
		}
		return nil, err
	}

	d.CompletedLessons, err = r.completedLessonSummaries(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *EnrollmentPostgres) completedLessonSummaries(ctx context.Context, enrollmentID uuid.UUID) ([]models.LessonSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT l.id, l.title
		FROM completed_lessons cl
		INNER JOIN lessons l ON l.id = cl.lesson_id
		WHERE cl.enrollment_id = $1
		ORDER BY cl.completed_at
	`, enrollmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []models.LessonSummary{}
	for rows.Next() {
		var s models.LessonSummary
		if err := rows.Scan(&s.ID, &s.Title); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
