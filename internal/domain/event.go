package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors shared across the domain.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

// Event statuses.
const (
	EventStatusPending  = "pending"
	EventStatusApproved = "approved"
	EventStatusRejected = "rejected"
)

// Event types.
const (
	EventTypeFree = "free"
	EventTypePaid = "paid"
)

// Event represents a scheduled event at a venue.
// Date is a calendar day in "2006-01-02" form; StartTime and EndTime are
// zero-padded wall-clock "HH:MM" strings on that day, so lexicographic
// comparison matches chronological order.
// swagger:model Event
type Event struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      *string   `json:"description,omitempty"`
	Date             string    `json:"date"`
	StartTime        string    `json:"startTime"`
	EndTime          string    `json:"endTime"`
	Venue            string    `json:"venue"`
	OrganizerID      string    `json:"organizerId"`
	OrganizerName    string    `json:"organizerName"`
	Status           string    `json:"status"`
	EventType        string    `json:"eventType"`
	EntryFee         *float64  `json:"entryFee,omitempty"`
	PosterPath       *string   `json:"posterPath,omitempty"`
	ParticipantCount int       `json:"participantCount"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with defaults applied (status pending,
// participant count zero). ID is set by the repository on create.
func NewEvent(title, date, startTime, endTime, venue, organizerID, organizerName, eventType string, createdAt time.Time) *Event {
	return &Event{
		Title:            title,
		Date:             date,
		StartTime:        startTime,
		EndTime:          endTime,
		Venue:            venue,
		OrganizerID:      organizerID,
		OrganizerName:    organizerName,
		Status:           EventStatusPending,
		EventType:        eventType,
		ParticipantCount: 0,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
}

// ConflictError reports that a candidate booking overlaps existing events
// at the same venue on the same date. It carries the colliding events so
// callers can surface structured detail.
type ConflictError struct {
	Events []*Event
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("venue already booked: %d conflicting event(s)", len(e.Events))
}

// ConflictingEvent is the denormalized view of one colliding event in a
// conflict report.
// swagger:model ConflictingEvent
type ConflictingEvent struct {
	EventID        string `json:"eventId"`
	Name           string `json:"name"`
	Venue          string `json:"venue"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	OverlapMinutes int    `json:"overlapMinutes"`
}

// ConflictReport is the result of a read-only conflict check.
// Suggestions is always present and always empty: alternative-slot
// computation is out of scope.
// swagger:model ConflictReport
type ConflictReport struct {
	HasConflict       bool               `json:"hasConflict"`
	ConflictType      string             `json:"conflictType,omitempty"`
	ConflictingEvents []ConflictingEvent `json:"conflictingEvents"`
	Suggestions       []string           `json:"suggestions"`
}

// EventRepository defines the interface for event storage.
// CreateChecked must atomically verify the venue/date slot is free and
// insert, returning *ConflictError when the slot overlaps existing
// bookings. ListByDateVenue filters by exact, case-sensitive venue match.
type EventRepository interface {
	CreateChecked(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByDateVenue(ctx context.Context, date, venue string) ([]*Event, error)
	List(ctx context.Context) ([]*Event, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// EventService defines event-facing operations.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	ListEvents(ctx context.Context) ([]*Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
	CheckConflicts(ctx context.Context, date, startTime, endTime, venue string) (*ConflictReport, error)
}
