package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Fawadali4423/UEMS/internal/domain"
)

type studentRepository struct {
	DB *sql.DB
}

func NewStudentRepository(db *sql.DB) domain.StudentRepository {
	return &studentRepository{
		DB: db,
	}
}

// Upsert mirrors the identity-provider subject into the local store,
// refreshing display claims on every call. The IdP subject is the
// primary key; no local id is ever minted.
func (r *studentRepository) Upsert(ctx context.Context, s *domain.Student) error {
	query := `
		INSERT INTO students (id, name, email, roll_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email,
			roll_number = COALESCE(EXCLUDED.roll_number, students.roll_number),
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.DB.ExecContext(ctx, query,
		s.ID, s.Name, s.Email, s.RollNumber, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	query := `
		SELECT id, name, email, roll_number, created_at, updated_at
		FROM students
		WHERE id = $1
	`
	s := &domain.Student{}
	var rollNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Email, &rollNull, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if rollNull.Valid {
		s.RollNumber = &rollNull.String
	}
	return s, nil
}

func (r *studentRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM students`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
