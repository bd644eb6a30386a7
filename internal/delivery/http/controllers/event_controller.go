package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Fawadali4423/UEMS/internal/delivery/http/helpers"
	"github.com/Fawadali4423/UEMS/internal/domain"
)

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title         string   `json:"title"`
	Description   *string  `json:"description"`
	Date          string   `json:"date"`
	StartTime     string   `json:"startTime"`
	EndTime       string   `json:"endTime"`
	Venue         string   `json:"venue"`
	OrganizerID   string   `json:"organizerId"`
	OrganizerName string   `json:"organizerName"`
	Status        string   `json:"status"`
	EventType     string   `json:"eventType"`
	EntryFee      *float64 `json:"entryFee"`
	PosterPath    *string  `json:"posterPath"`
}

// Validate implements Validator. Required fields, formats, and the
// start-before-end invariant.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.Title == "" {
		errs = append(errs, "title is required")
	}
	if c.Venue == "" {
		errs = append(errs, "venue is required")
	}
	if c.OrganizerID == "" {
		errs = append(errs, "organizerId is required")
	}
	if c.OrganizerName == "" {
		errs = append(errs, "organizerName is required")
	}
	if c.EventType == "" {
		errs = append(errs, "eventType is required")
	}
	if !domain.ValidDate(c.Date) {
		errs = append(errs, "date must be YYYY-MM-DD")
	}
	if !domain.ValidTime(c.StartTime) {
		errs = append(errs, "startTime must be zero-padded HH:MM")
	}
	if !domain.ValidTime(c.EndTime) {
		errs = append(errs, "endTime must be zero-padded HH:MM")
	}
	if domain.ValidTime(c.StartTime) && domain.ValidTime(c.EndTime) && c.StartTime >= c.EndTime {
		errs = append(errs, "startTime must be before endTime")
	}
	if c.Status != "" && c.Status != domain.EventStatusPending &&
		c.Status != domain.EventStatusApproved && c.Status != domain.EventStatusRejected {
		errs = append(errs, "status must be pending, approved, or rejected")
	}
	return errs
}

// CheckConflictsRequest is the request body for POST /events/check-conflicts.
type CheckConflictsRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Venue     string `json:"venue"`
}

// Validate implements Validator.
func (c CheckConflictsRequest) Validate() []string {
	var errs []string
	if !domain.ValidDate(c.Date) {
		errs = append(errs, "date must be YYYY-MM-DD")
	}
	if !domain.ValidTime(c.StartTime) {
		errs = append(errs, "startTime must be zero-padded HH:MM")
	}
	if !domain.ValidTime(c.EndTime) {
		errs = append(errs, "endTime must be zero-padded HH:MM")
	}
	if domain.ValidTime(c.StartTime) && domain.ValidTime(c.EndTime) && c.StartTime >= c.EndTime {
		errs = append(errs, "startTime must be before endTime")
	}
	if c.Venue == "" {
		errs = append(errs, "venue is required")
	}
	return errs
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Creates an event after checking the venue/date slot for time overlaps. The conflict verdict matches POST /events/check-conflicts for the same inputs.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event draft"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 409 {object} helpers.APIResponse "venue already booked; conflicts lists the colliding events"
// @Failure 422 {object} helpers.APIResponse "validation failed"
// @Failure 401 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	event := domain.NewEvent(req.Title, req.Date, req.StartTime, req.EndTime, req.Venue,
		req.OrganizerID, req.OrganizerName, req.EventType, time.Now())
	event.Description = req.Description
	event.EntryFee = req.EntryFee
	event.PosterPath = req.PosterPath
	if req.Status != "" {
		event.Status = req.Status
	}

	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			helpers.WriteJSON(w, http.StatusConflict, helpers.APIResponse{
				Success:   false,
				Message:   "Conflict detected: The venue is already booked for this time.",
				Error:     "Conflict Detected",
				Conflicts: conflictDetails(conflict.Events),
			})
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteValidationError(w, []string{err.Error()})
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Failed to create event", err.Error())
		return
	}
	helpers.WriteSuccess(w, http.StatusCreated, "Event created successfully", event)
}

func conflictDetails(events []*domain.Event) []domain.ConflictingEvent {
	out := make([]domain.ConflictingEvent, 0, len(events))
	for _, e := range events {
		out = append(out, domain.ConflictingEvent{
			EventID:   e.ID,
			Name:      e.Title,
			Venue:     e.Venue,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
		})
	}
	return out
}

// ListEvents godoc
// @Summary List all events
// @Description Returns all events, newest date first.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Event
// @Failure 401 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /admin/events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEvents(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Failed to list events", err.Error())
		return
	}
	helpers.WriteJSON(w, http.StatusOK, events)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event by its canonical identifier. An unknown identifier is a 404; there is no attribute-matching fallback.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteError(w, http.StatusBadRequest, "Missing event id", "missing id")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSON(w, http.StatusNotFound, map[string]string{"message": "Event not found"})
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Failed to delete event", err.Error())
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"message": "Event deleted successfully"})
}

// CheckConflicts godoc
// @Summary Check a venue/date slot for conflicts
// @Description Read-only advisory check; never mutates state. Uses the same overlap predicate as event creation.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param query body CheckConflictsRequest true "Candidate slot"
// @Success 200 {object} helpers.APIResponse "data contains the conflict report"
// @Failure 422 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /events/check-conflicts [post]
func (c *EventController) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	var req CheckConflictsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	report, err := c.Service.CheckConflicts(r.Context(), req.Date, req.StartTime, req.EndTime, req.Venue)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteValidationError(w, []string{err.Error()})
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Failed to check conflicts", err.Error())
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "", report)
}
