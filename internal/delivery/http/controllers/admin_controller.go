package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Fawadali4423/UEMS/internal/delivery/http/helpers"
	"github.com/Fawadali4423/UEMS/internal/domain"
)

type AdminController struct {
	Logger  *slog.Logger
	Service domain.CertificateService
}

func NewAdminController(logger *slog.Logger, svc domain.CertificateService) *AdminController {
	return &AdminController{
		Logger:  logger,
		Service: svc,
	}
}

// Stats godoc
// @Summary Admin counters
// @Description Returns total students, total events, and certificates generated.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.CertificateStats
// @Failure 401 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /admin/certificates/stats [get]
func (c *AdminController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Service.Stats(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Failed to load stats", err.Error())
		return
	}
	helpers.WriteJSON(w, http.StatusOK, stats)
}

// decodeLoose decodes an optional JSON body, tolerating an empty body.
func decodeLoose(r *http.Request, dest any) error {
	if r.Body == nil {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(dest)
}
