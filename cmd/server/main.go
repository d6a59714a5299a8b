package main

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/api"
	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/app"
	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/auth"
	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/config"
	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/migrations"
	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/repository"
	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := app.NewLogger(cfg.Env)
	defer logger.Sync()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open DB", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		logger.Fatal("failed to connect to DB", zap.Error(err))
	}

	if err := migrations.Up(context.Background(), db); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}
	if version, err := migrations.Version(context.Background(), db); err == nil {
		logger.Info("database ready", zap.Int64("migration_version", version))
	}

	appointmentRepo := repository.NewAppointmentRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	jobRepo := repository.NewJobRepository(db)
	userRepo := repository.NewUserRepository(db)

	bookingSvc := service.NewBookingService(appointmentRepo, serviceRepo, logger)
	catalogSvc := service.NewCatalogService(serviceRepo, logger)
	adminSvc := service.NewAdminService(appointmentRepo, logger)
	adminAuthSvc := service.NewAdminAuthService(userRepo, cfg.JWTSecret)
	jobSvc := service.NewJobService(jobRepo, logger)

	appointmentHandler := api.NewAppointmentHandler(bookingSvc)
	serviceHandler := api.NewServiceHandler(catalogSvc)
	adminHandler := api.NewAdminHandler(adminSvc, adminAuthSvc)

	r := mux.NewRouter()
	r.Use(api.RequestLogger(logger))

	// Public endpoints
	r.HandleFunc("/api/services", serviceHandler.ListServices).Methods("GET")
	r.HandleFunc("/api/services/{id}", serviceHandler.GetService).Methods("GET")
	r.HandleFunc("/api/appointments", appointmentHandler.CreateAppointment).Methods("POST")
	r.HandleFunc("/api/appointments/check-availability", appointmentHandler.CheckAvailability).Methods("POST")
	r.HandleFunc("/api/appointments/date/{date}", appointmentHandler.GetAppointmentsByDate).Methods("GET")
	r.HandleFunc("/api/appointments/customer/{id}", appointmentHandler.GetAppointmentsByCustomer).Methods("GET")
	r.HandleFunc("/api/appointments/{id}", appointmentHandler.GetAppointment).Methods("GET")
	r.HandleFunc("/api/appointments/{id}/status", appointmentHandler.UpdateStatus).Methods("PATCH")

	// Admin endpoints (protected)
	r.HandleFunc("/admin/login", adminHandler.Login).Methods("POST")
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware(cfg.JWTSecret))
	admin.HandleFunc("/appointments", adminHandler.ListAppointments).Methods("GET")
	admin.HandleFunc("/appointments/{id}", adminHandler.UpdateAppointment).Methods("PUT")
	admin.HandleFunc("/users", adminHandler.CreateAdminUser).Methods("POST")

	c := cron.New()
	c.AddFunc("@hourly", func() {
		ctx := context.Background()
		jobSvc.CompleteElapsedAppointments(ctx)
		jobSvc.CancelStalePending(ctx)
	})
	c.Start()
	defer c.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)

	logger.Info("server running", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, corsHandler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
