package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Fawadali4423/UEMS/internal/delivery/http/helpers"
	"github.com/Fawadali4423/UEMS/internal/delivery/http/middleware"
	"github.com/Fawadali4423/UEMS/internal/domain"
)

type AttendanceController struct {
	Logger *slog.Logger
	Repo   domain.AttendanceRepository
}

func NewAttendanceController(logger *slog.Logger, repo domain.AttendanceRepository) *AttendanceController {
	return &AttendanceController{
		Logger: logger,
		Repo:   repo,
	}
}

type markAttendanceRequest struct {
	Attended *bool `json:"attended"`
}

// Mark godoc
// @Summary Mark the caller's attendance for an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body markAttendanceRequest false "Defaults to attended=true"
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /student/events/{id}/attendance [post]
func (c *AttendanceController) Mark(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteAuthError(w, "Unauthorized")
		return
	}
	eventID := r.PathValue("id")
	if eventID == "" {
		helpers.WriteError(w, http.StatusBadRequest, "Missing event id", "missing id")
		return
	}
	var body markAttendanceRequest
	_ = decodeLoose(r, &body)
	attended := true
	if body.Attended != nil {
		attended = *body.Attended
	}

	now := time.Now()
	att := &domain.EventAttendance{
		EventID:   eventID,
		StudentID: identity.Subject,
		Attended:  attended,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Repo.Upsert(r.Context(), att); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Failed to record attendance", err.Error())
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "Attendance recorded", att)
}

// List godoc
// @Summary List attendance records for an event
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {array} domain.EventAttendance
// @Failure 401 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /admin/events/{id}/attendance [get]
func (c *AttendanceController) List(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		helpers.WriteError(w, http.StatusBadRequest, "Missing event id", "missing id")
		return
	}
	records, err := c.Repo.ListByEventID(r.Context(), eventID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Failed to list attendance", err.Error())
		return
	}
	helpers.WriteJSON(w, http.StatusOK, records)
}
