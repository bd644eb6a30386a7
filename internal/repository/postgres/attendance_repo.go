package postgres

import (
	"context"
	"database/sql"

	"github.com/Fawadali4423/UEMS/internal/domain"
)

type attendanceRepository struct {
	DB *sql.DB
}

func NewAttendanceRepository(db *sql.DB) domain.AttendanceRepository {
	return &attendanceRepository{
		DB: db,
	}
}

func (r *attendanceRepository) Upsert(ctx context.Context, a *domain.EventAttendance) error {
	query := `
		INSERT INTO event_attendance (event_id, student_id, attended, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, student_id) DO UPDATE
		SET attended = EXCLUDED.attended, updated_at = EXCLUDED.updated_at
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		a.EventID, a.StudentID, a.Attended, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
}

func (r *attendanceRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventAttendance, error) {
	query := `
		SELECT id, event_id, student_id, attended, created_at, updated_at
		FROM event_attendance
		WHERE event_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := make([]*domain.EventAttendance, 0)
	for rows.Next() {
		a := &domain.EventAttendance{}
		if err := rows.Scan(&a.ID, &a.EventID, &a.StudentID, &a.Attended, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}
