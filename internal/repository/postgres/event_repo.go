package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Fawadali4423/UEMS/internal/domain"
)

const eventColumns = `id, title, description, to_char(date, 'YYYY-MM-DD'), start_time, end_time, venue,
		organizer_id, organizer_name, status, event_type, entry_fee, poster_path,
		participant_count, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var descNull sql.NullString
	var feeNull sql.NullFloat64
	var posterNull sql.NullString
	err := row.Scan(
		&e.ID, &e.Title, &descNull, &e.Date, &e.StartTime, &e.EndTime, &e.Venue,
		&e.OrganizerID, &e.OrganizerName, &e.Status, &e.EventType, &feeNull, &posterNull,
		&e.ParticipantCount, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if descNull.Valid {
		e.Description = &descNull.String
	}
	if feeNull.Valid {
		e.EntryFee = &feeNull.Float64
	}
	if posterNull.Valid {
		e.PosterPath = &posterNull.String
	}
	return e, nil
}

// CreateChecked atomically verifies the (date, venue) slot and inserts.
// Concurrent writers for the same slot serialize on a transaction-scoped
// advisory lock, closing the check-then-insert race; readers are not
// blocked. The overlap verdict comes from domain.FindConflicts, the same
// predicate the advisory check endpoint uses.
func (r *eventRepository) CreateChecked(ctx context.Context, e *domain.Event) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`, e.Date+"|"+e.Venue); err != nil {
		return fmt.Errorf("acquire slot lock: %w", err)
	}

	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE date = $1 AND venue = $2
		ORDER BY start_time ASC
	`
	rows, err := tx.QueryContext(ctx, query, e.Date, e.Venue)
	if err != nil {
		return fmt.Errorf("list slot events: %w", err)
	}
	existing := make([]*domain.Event, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			rows.Close()
			return err
		}
		existing = append(existing, ev)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	conflicts := domain.FindConflicts(existing, domain.TimeRange{Start: e.StartTime, End: e.EndTime})
	if len(conflicts) > 0 {
		return &domain.ConflictError{Events: conflicts}
	}

	insert := `
		INSERT INTO events (title, description, date, start_time, end_time, venue,
			organizer_id, organizer_name, status, event_type, entry_fee, poster_path,
			participant_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, insert,
		e.Title, e.Description, e.Date, e.StartTime, e.EndTime, e.Venue,
		e.OrganizerID, e.OrganizerName, e.Status, e.EventType, e.EntryFee, e.PosterPath,
		e.ParticipantCount, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return tx.Commit()
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListByDateVenue(ctx context.Context, date, venue string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE date = $1 AND venue = $2
		ORDER BY start_time ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, date, venue)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		ORDER BY date DESC, start_time DESC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
