package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ShewonGun/FarmerBackup/internal/app_errors"
	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CertificatePostgres struct {
	db *pgxpool.Pool
}

func NewCertificatePostgres(db *pgxpool.Pool) *CertificatePostgres {
	return &CertificatePostgres{db: db}
}

// CreateCertificate inserts under two unique constraints and tells the caller
// which one fired: the (user, course) pair means the certificate already exists
// and the winner's row should be returned, the number constraint means the
// random candidate collided and a fresh one should be tried.
func (r *CertificatePostgres) CreateCertificate(ctx context.Context, cert models.Certificate) (*models.Certificate, error) {
	if cert.ID == uuid.Nil {
		cert.ID = uuid.New()
	}
	if cert.IssueDate.IsZero() {
		cert.IssueDate = time.Now().UTC()
	}

	query := `
		INSERT INTO certificates (
			id, user_id, course_id, certificate_number, certificate_url,
			issue_date, completion_date, average_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		cert.ID, cert.UserID, cert.CourseID, cert.CertificateNumber, cert.CertificateURL,
		cert.IssueDate, cert.CompletionDate, cert.AverageScore,
	)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == uniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "certificate_number") {
				return nil, app_errors.ErrCertificateNumberTaken
			}
			return nil, app_errors.ErrCertificateExists
		}
		return nil, err
	}
	return &cert, nil
}

func (r *CertificatePostgres) CertificateByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Certificate, error) {
	query := `
		SELECT id, user_id, course_id, certificate_number, certificate_url,
		       issue_date, completion_date, average_score
		FROM certificates
		WHERE user_id = $1 AND course_id = $2
	`
	var c models.Certificate
	row := r.db.QueryRow(ctx, query, userID, courseID)
	err := row.Scan(
		&c.ID, &c.UserID, &c.CourseID, &c.CertificateNumber, &c.CertificateURL,
		&c.IssueDate, &c.CompletionDate, &c.AverageScore,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCertificateNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CertificatePostgres) ListUserCertificates(ctx context.Context, userID uuid.UUID) ([]models.Certificate, error) {
	query := `
		SELECT id, user_id, course_id, certificate_number, certificate_url,
		       issue_date, completion_date, average_score
		FROM certificates
		WHERE user_id = $1
		ORDER BY issue_date DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var certs []models.Certificate
	for rows.Next() {
		var c models.Certificate
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.CourseID, &c.CertificateNumber, &c.CertificateURL,
			&c.IssueDate, &c.CompletionDate, &c.AverageScore,
		); err != nil {
			return nil, err
		}
		certs = append(certs, c)
	}
	return certs, rows.Err()
}
