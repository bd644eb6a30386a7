package main

import (
	"crypto/rand"
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/Fawadali4423/UEMS/config"
	_ "github.com/Fawadali4423/UEMS/docs"
	"github.com/Fawadali4423/UEMS/internal/adapters/auth"
	"github.com/Fawadali4423/UEMS/internal/adapters/email"
	"github.com/Fawadali4423/UEMS/internal/adapters/render"
	"github.com/Fawadali4423/UEMS/internal/adapters/storage"
	httpDelivery "github.com/Fawadali4423/UEMS/internal/delivery/http"
	"github.com/Fawadali4423/UEMS/internal/delivery/http/controllers"
	"github.com/Fawadali4423/UEMS/internal/delivery/http/middleware"
	"github.com/Fawadali4423/UEMS/internal/repository/postgres"
	"github.com/Fawadali4423/UEMS/internal/services"
)

// @title UEMS API
// @version 1.0
// @description University event management: event scheduling with venue
// @description conflict detection, certificate issuance and public
// @description verification.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	store, err := storage.NewFilesystemStore(cfg.StorageDir, cfg.BaseURL)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}

	mailer, err := email.NewMailer(cfg.Email, logger)
	if err != nil {
		log.Fatalf("init mailer: %v", err)
	}

	const timeout = 10 * time.Second

	eventRepo := postgres.NewEventRepository(db)
	certRepo := postgres.NewCertificateRepository(db)
	templateRepo := postgres.NewTemplateRepository(db)
	studentRepo := postgres.NewStudentRepository(db)
	attendanceRepo := postgres.NewAttendanceRepository(db)

	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer())
	eventSvc := services.NewEventService(eventRepo, timeout)
	certSvc := services.NewCertificateService(
		eventRepo, certRepo, templateRepo, studentRepo,
		store, render.NewPDFRenderer(), emailSvc, logger,
		cfg.IssuanceMode, cfg.BaseURL,
		time.Now, rand.Reader, timeout,
	)

	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	eventController := controllers.NewEventController(logger, eventSvc)
	certController := controllers.NewCertificateController(logger, certSvc)
	adminController := controllers.NewAdminController(logger, certSvc)
	attendanceController := controllers.NewAttendanceController(logger, attendanceRepo)

	storageDir, _ := storage.Dir(store)
	mux := httpDelivery.NewRouter(eventController, certController, adminController, attendanceController, verifier, logger, storageDir)

	var origins []string
	if cfg.CORSOrigins != "" {
		origins = strings.Split(cfg.CORSOrigins, ",")
	}
	handler := middleware.CORS(origins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server: %v", err)
	}
}
