package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Fawadali4423/UEMS/internal/domain"
)

type templateRepository struct {
	DB *sql.DB
}

func NewTemplateRepository(db *sql.DB) domain.TemplateRepository {
	return &templateRepository{
		DB: db,
	}
}

// Upsert is keyed by event_id: each event owns at most one template, and
// re-uploading replaces the stored path.
func (r *templateRepository) Upsert(ctx context.Context, tpl *domain.CertificateTemplate) error {
	query := `
		INSERT INTO certificate_templates (event_id, template_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id) DO UPDATE
		SET template_path = EXCLUDED.template_path, updated_at = EXCLUDED.updated_at
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		tpl.EventID, tpl.TemplatePath, tpl.CreatedAt, tpl.UpdatedAt,
	).Scan(&tpl.ID)
}

func (r *templateRepository) GetByEventID(ctx context.Context, eventID string) (*domain.CertificateTemplate, error) {
	query := `
		SELECT id, event_id, template_path, created_at, updated_at
		FROM certificate_templates
		WHERE event_id = $1
	`
	tpl := &domain.CertificateTemplate{}
	err := r.DB.QueryRowContext(ctx, query, eventID).Scan(
		&tpl.ID, &tpl.EventID, &tpl.TemplatePath, &tpl.CreatedAt, &tpl.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return tpl, nil
}

type certificateRepository struct {
	DB *sql.DB
}

func NewCertificateRepository(db *sql.DB) domain.CertificateRepository {
	return &certificateRepository{
		DB: db,
	}
}

func (r *certificateRepository) Create(ctx context.Context, c *domain.GeneratedCertificate) error {
	query := `
		INSERT INTO generated_certificates (student_id, event_id, cert_uid, certificate_path, downloads, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		c.StudentID, c.EventID, c.CertUID, c.CertificatePath, c.Downloads, c.CreatedAt,
	).Scan(&c.ID)
}

func (r *certificateRepository) GetByCertUID(ctx context.Context, certUID string) (*domain.GeneratedCertificate, error) {
	query := `
		SELECT id, student_id, event_id, cert_uid, certificate_path, downloads, created_at
		FROM generated_certificates
		WHERE cert_uid = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, certUID))
}

// GetByEventAndStudent returns the most recent record when duplicates
// exist: uniqueness per (student, event) is a soft invariant, not a
// constraint.
func (r *certificateRepository) GetByEventAndStudent(ctx context.Context, eventID, studentID string) (*domain.GeneratedCertificate, error) {
	query := `
		SELECT id, student_id, event_id, cert_uid, certificate_path, downloads, created_at
		FROM generated_certificates
		WHERE event_id = $1 AND student_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, eventID, studentID))
}

func (r *certificateRepository) scanOne(row *sql.Row) (*domain.GeneratedCertificate, error) {
	c := &domain.GeneratedCertificate{}
	err := row.Scan(&c.ID, &c.StudentID, &c.EventID, &c.CertUID, &c.CertificatePath, &c.Downloads, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *certificateRepository) ListByStudentID(ctx context.Context, studentID string) ([]*domain.GeneratedCertificate, error) {
	query := `
		SELECT id, student_id, event_id, cert_uid, certificate_path, downloads, created_at
		FROM generated_certificates
		WHERE student_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	certs := make([]*domain.GeneratedCertificate, 0)
	for rows.Next() {
		c := &domain.GeneratedCertificate{}
		if err := rows.Scan(&c.ID, &c.StudentID, &c.EventID, &c.CertUID, &c.CertificatePath, &c.Downloads, &c.CreatedAt); err != nil {
			return nil, err
		}
		certs = append(certs, c)
	}
	return certs, rows.Err()
}

func (r *certificateRepository) IncrementDownloads(ctx context.Context, certUID string) error {
	query := `UPDATE generated_certificates SET downloads = downloads + 1 WHERE cert_uid = $1`
	result, err := r.DB.ExecContext(ctx, query, certUID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *certificateRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM generated_certificates`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
