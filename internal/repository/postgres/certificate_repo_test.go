package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Fawadali4423/UEMS/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var certCols = []string{"id", "student_id", "event_id", "cert_uid", "certificate_path", "downloads", "created_at"}

func TestCertificateRepository_Create(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cert := &domain.GeneratedCertificate{
		StudentID:       "stu-1",
		EventID:         "ev-1",
		CertUID:         "CERT-195F1A2B3C4-ABCDEF1234",
		CertificatePath: "certificates/generated/certificate_CERT-195F1A2B3C4-ABCDEF1234.pdf",
		CreatedAt:       time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	mock.ExpectQuery(`INSERT INTO generated_certificates`).
		WithArgs(cert.StudentID, cert.EventID, cert.CertUID, cert.CertificatePath, 0, cert.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("cert-uuid-1"))

	require.NoError(t, NewCertificateRepository(db).Create(ctx, cert))
	assert.Equal(t, "cert-uuid-1", cert.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepository_GetByCertUID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, student_id, event_id, cert_uid`).
			WithArgs("CERT-ABC").
			WillReturnRows(sqlmock.NewRows(certCols).
				AddRow("cert-1", "stu-1", "ev-1", "CERT-ABC", "certificates/generated/certificate_CERT-ABC.pdf", 3,
					time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)))

		got, err := NewCertificateRepository(db).GetByCertUID(ctx, "CERT-ABC")
		require.NoError(t, err)
		assert.Equal(t, "CERT-ABC", got.CertUID)
		assert.Equal(t, 3, got.Downloads)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found maps to sentinel", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, student_id, event_id, cert_uid`).
			WithArgs("CERT-MISSING").
			WillReturnError(sql.ErrNoRows)

		_, err = NewCertificateRepository(db).GetByCertUID(ctx, "CERT-MISSING")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCertificateRepository_GetByEventAndStudent(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Most recent record wins when duplicates exist.
	mock.ExpectQuery(`ORDER BY created_at DESC\s+LIMIT 1`).
		WithArgs("ev-1", "stu-1").
		WillReturnRows(sqlmock.NewRows(certCols).
			AddRow("cert-2", "stu-1", "ev-1", "CERT-NEWER", "certificates/generated/certificate_CERT-NEWER.pdf", 0,
				time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)))

	got, err := NewCertificateRepository(db).GetByEventAndStudent(ctx, "ev-1", "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "CERT-NEWER", got.CertUID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepository_IncrementDownloads(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE generated_certificates SET downloads = downloads \+ 1`).
			WithArgs("CERT-ABC").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewCertificateRepository(db).IncrementDownloads(ctx, "CERT-ABC"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown uid means not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE generated_certificates SET downloads = downloads \+ 1`).
			WithArgs("CERT-MISSING").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = NewCertificateRepository(db).IncrementDownloads(ctx, "CERT-MISSING")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTemplateRepository_Upsert(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tpl := &domain.CertificateTemplate{
		EventID:      "ev-1",
		TemplatePath: "certificates/certificate_ev-1_20250310120000.png",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	mock.ExpectQuery(`(?s)INSERT INTO certificate_templates.*ON CONFLICT \(event_id\) DO UPDATE`).
		WithArgs(tpl.EventID, tpl.TemplatePath, now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("tpl-1"))

	require.NoError(t, NewTemplateRepository(db).Upsert(ctx, tpl))
	assert.Equal(t, "tpl-1", tpl.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplateRepository_GetByEventID_NotFound(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, event_id, template_path`).
		WithArgs("ev-missing").
		WillReturnError(sql.ErrNoRows)

	_, err = NewTemplateRepository(db).GetByEventID(ctx, "ev-missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
