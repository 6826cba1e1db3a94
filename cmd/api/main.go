// Package main runs the event registration HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventdesk/config"
	adapterauth "eventdesk/internal/adapters/auth"
	"eventdesk/internal/adapters/email"
	httpdelivery "eventdesk/internal/delivery/http"
	"eventdesk/internal/delivery/http/controllers"
	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/repository/postgres"
	"eventdesk/internal/services"
)

const (
	serviceTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// @title EventDesk API
// @version 1.0
// @description Event registration, attendance, payment, and rating backend.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	db, err := postgres.Open(cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	eventRepo := postgres.NewEventRepository(db)
	attendeeRepo := postgres.NewAttendeeRepository(db)
	regRepo := postgres.NewRegistrationRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)

	mailer := email.NewMailer(email.Config{
		Provider:        cfg.Email.Provider,
		FromAddress:     cfg.Email.FromAddress,
		FromName:        cfg.Email.FromName,
		Region:          cfg.Email.SESRegion,
		AccessKeyID:     cfg.Email.SESAccessKeyID,
		SecretAccessKey: cfg.Email.SESSecretAccessKey,
	}, logger)

	eventSvc := services.NewEventService(eventRepo, regRepo, serviceTimeout)
	attendeeSvc := services.NewAttendeeService(attendeeRepo, serviceTimeout)
	regSvc := services.NewRegistrationService(regRepo, eventRepo, attendeeRepo, mailer, logger, serviceTimeout)
	paymentSvc := services.NewPaymentService(paymentRepo, regRepo, serviceTimeout)
	ratingSvc := services.NewRatingService(ratingRepo, eventRepo, attendeeRepo, regRepo, serviceTimeout)

	verifier := adapterauth.NewJWTVerifier(cfg.JWTSecret)

	mux := httpdelivery.NewRouter(httpdelivery.Controllers{
		Events:        controllers.NewEventController(logger, eventSvc),
		Attendees:     controllers.NewAttendeeController(logger, attendeeSvc),
		Registrations: controllers.NewRegistrationController(logger, regSvc),
		Payments:      controllers.NewPaymentController(logger, paymentSvc),
		Ratings:       controllers.NewRatingController(logger, ratingSvc),
	}, verifier)

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.Logging(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
