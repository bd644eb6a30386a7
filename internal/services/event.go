package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Fawadali4423/UEMS/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

// CreateEvent validates the draft and delegates to the repository's
// atomic check-and-insert. A *domain.ConflictError is returned untouched
// so callers can surface the colliding events.
func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateEvent(event); err != nil {
		return err
	}

	if event.Status == "" {
		event.Status = domain.EventStatusPending
	}
	event.ParticipantCount = 0
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.eventRepo.CreateChecked(ctx, event); err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			return conflict
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func validateEvent(e *domain.Event) error {
	switch {
	case e.Title == "":
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	case e.Venue == "":
		return fmt.Errorf("%w: venue is required", domain.ErrInvalidInput)
	case e.OrganizerID == "" || e.OrganizerName == "":
		return fmt.Errorf("%w: organizer id and name are required", domain.ErrInvalidInput)
	case e.EventType == "":
		return fmt.Errorf("%w: event type is required", domain.ErrInvalidInput)
	case !domain.ValidDate(e.Date):
		return fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
	case !domain.ValidTime(e.StartTime) || !domain.ValidTime(e.EndTime):
		return fmt.Errorf("%w: times must be zero-padded HH:MM", domain.ErrInvalidInput)
	case e.StartTime >= e.EndTime:
		return fmt.Errorf("%w: start time must be before end time", domain.ErrInvalidInput)
	}
	return nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

// DeleteEvent removes the event by its canonical identifier. A missing
// id is a recognized outcome, not a fallback trigger: there is no
// attribute-matching retry when the caller holds an identifier minted by
// some other system.
func (s *eventService) DeleteEvent(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// CheckConflicts is the read-only advisory check. It shares
// domain.FindConflicts with the create path so the two sites always
// produce the same verdict for the same inputs.
func (s *eventService) CheckConflicts(ctx context.Context, date, startTime, endTime, venue string) (*domain.ConflictReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.ValidDate(date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	if !domain.ValidTime(startTime) || !domain.ValidTime(endTime) {
		return nil, fmt.Errorf("%w: times must be zero-padded HH:MM", domain.ErrInvalidInput)
	}
	if startTime >= endTime {
		return nil, fmt.Errorf("%w: start time must be before end time", domain.ErrInvalidInput)
	}

	existing, err := s.eventRepo.ListByDateVenue(ctx, date, venue)
	if err != nil {
		return nil, fmt.Errorf("list events for slot: %w", err)
	}
	conflicts := domain.FindConflicts(existing, domain.TimeRange{Start: startTime, End: endTime})

	report := &domain.ConflictReport{
		HasConflict:       len(conflicts) > 0,
		ConflictingEvents: make([]domain.ConflictingEvent, 0, len(conflicts)),
		Suggestions:       []string{},
	}
	if report.HasConflict {
		report.ConflictType = "venue_booked"
	}
	for _, e := range conflicts {
		report.ConflictingEvents = append(report.ConflictingEvents, domain.ConflictingEvent{
			EventID:   e.ID,
			Name:      e.Title,
			Venue:     e.Venue,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
		})
	}
	return report, nil
}
