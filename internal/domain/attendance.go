package domain

import (
	"context"
	"time"
)

// EventAttendance joins an event and a student with an attended flag.
// swagger:model EventAttendance
type EventAttendance struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	StudentID string    `json:"student_id"`
	Attended  bool      `json:"attended"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AttendanceRepository defines storage for event attendance records.
type AttendanceRepository interface {
	Upsert(ctx context.Context, att *EventAttendance) error
	ListByEventID(ctx context.Context, eventID string) ([]*EventAttendance, error)
}
