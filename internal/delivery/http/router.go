package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Fawadali4423/UEMS/internal/delivery/http/controllers"
	"github.com/Fawadali4423/UEMS/internal/delivery/http/middleware"
	"github.com/Fawadali4423/UEMS/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// storageDir, when non-empty, is served read-only under /storage/ so
// uploaded templates and generated certificates are downloadable.
func NewRouter(
	eventController *controllers.EventController,
	certController *controllers.CertificateController,
	adminController *controllers.AdminController,
	attendanceController *controllers.AttendanceController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
	storageDir string,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Public certificate routes
	mux.HandleFunc("POST /certificates/upload", certController.UploadTemplate)
	mux.HandleFunc("GET /certificates/verify/{id}", certController.Verify)
	mux.HandleFunc("GET /certificates/{uid}/download", certController.Download)

	// Admin
	mux.HandleFunc("GET /admin/events", auth(eventController.ListEvents))
	mux.HandleFunc("GET /admin/certificates/stats", auth(adminController.Stats))
	mux.HandleFunc("GET /admin/events/{id}/attendance", auth(attendanceController.List))

	// Event management
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("DELETE /events/{id}", auth(eventController.DeleteEvent))
	mux.HandleFunc("POST /events/check-conflicts", auth(eventController.CheckConflicts))

	// Student routes
	mux.HandleFunc("GET /student/certificates", auth(certController.MyCertificates))
	mux.HandleFunc("POST /student/events/{id}/generate-certificate", auth(certController.Generate))
	mux.HandleFunc("POST /student/events/{id}/attendance", auth(attendanceController.Mark))
	mux.HandleFunc("POST /certificates/generate", auth(certController.GenerateFromPayload))

	// Static assets (uploaded templates, generated certificates)
	if storageDir != "" {
		mux.Handle("GET /storage/", http.StripPrefix("/storage/", http.FileServer(http.Dir(storageDir))))
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
