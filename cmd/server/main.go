// Ella Rises enrollment backend.
//
// @title Ella Rises API
// @version 1.0
// @description Backend for the Ella Rises nonprofit: family accounts, recurring program events, registrations, check-in surveys, milestones, and donations.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"ellarises/config"
	_ "ellarises/docs"
	"ellarises/internal/adapters/auth"
	"ellarises/internal/adapters/email"
	delivery "ellarises/internal/delivery/http"
	"ellarises/internal/delivery/http/controllers"
	"ellarises/internal/delivery/http/middleware"
	"ellarises/internal/repository/postgres"
	"ellarises/internal/services"
)

const bcryptCost = 12

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger()
	slog.SetDefault(logger)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	// Repositories
	loginRepo := postgres.NewLoginRepository(db)
	parentRepo := postgres.NewParentRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	occurrenceRepo := postgres.NewOccurrenceRepository(db)
	regRepo := postgres.NewRegistrationRepository(db)
	surveyRepo := postgres.NewSurveyRepository(db)
	milestoneRepo := postgres.NewMilestoneRepository(db)
	donationRepo := postgres.NewDonationRepository(db)
	cascadeRepo := postgres.NewCascadeRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(bcryptCost)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mailer.Provider,
		FromAddress: cfg.Mailer.FromAddress,
		FromName:    cfg.Mailer.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mailer.SESRegion,
			AccessKeyID:        cfg.Mailer.SESAccessKeyID,
			SecretAccessKey:    cfg.Mailer.SESSecretAccessKey,
			InsecureSkipVerify: cfg.Mailer.SESInsecureSkipVerify,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	// Services
	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer())
	authSvc := services.NewAuthService(loginRepo, hasher, tokenIssuer)
	enrollmentSvc := services.NewEnrollmentService(loginRepo, parentRepo, participantRepo, regRepo, cascadeRepo, hasher, tokenIssuer, emailSvc)
	eventSvc := services.NewEventService(eventRepo, occurrenceRepo, regRepo, cascadeRepo)
	attendanceSvc := services.NewAttendanceService(regRepo, occurrenceRepo, participantRepo, parentRepo, surveyRepo)
	surveySvc := services.NewSurveyService(surveyRepo, regRepo, participantRepo, parentRepo)
	milestoneSvc := services.NewMilestoneService(milestoneRepo, participantRepo, parentRepo)
	donationSvc := services.NewDonationService(donationRepo, emailSvc)

	// HTTP
	mux := delivery.NewRouter(logger, tokenVerifier, delivery.Controllers{
		Auth:         controllers.NewAuthController(logger, authSvc, enrollmentSvc),
		Account:      controllers.NewAccountController(logger, enrollmentSvc),
		Event:        controllers.NewEventController(logger, eventSvc),
		Registration: controllers.NewRegistrationController(logger, attendanceSvc),
		Survey:       controllers.NewSurveyController(logger, surveySvc),
		Milestone:    controllers.NewMilestoneController(logger, milestoneSvc),
		Donation:     controllers.NewDonationController(logger, donationSvc),
	})

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(logger, handler)
	if len(cfg.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.AllowedOrigins, handler)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
