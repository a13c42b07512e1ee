// Command api serves the SportHive activity API and runs the expiration sweep.
//
// @title SportHive API
// @version 1.0
// @description Sports activities: publishing, review, registration and capacity management.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"sporthive/config"
	"sporthive/internal/adapters/auth"
	"sporthive/internal/adapters/email"
	deliveryhttp "sporthive/internal/delivery/http"
	"sporthive/internal/delivery/http/controllers"
	"sporthive/internal/delivery/http/middleware"
	"sporthive/internal/observability"
	"sporthive/internal/repository/postgres"
	"sporthive/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		logger.Info("schema migrated")
	}

	activityRepo := postgres.NewActivityRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	transactor := postgres.NewTransactor(db)
	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return err
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}
	emailService := services.NewEmailService(mailer, renderer, logger)

	activityService := services.NewActivityService(activityRepo, cfg.RequestTimeout)
	registrationService := services.NewRegistrationService(activityRepo, registrationRepo, transactor, emailService, metrics, logger, cfg.RequestTimeout)
	expirationJob := services.NewExpirationJob(activityRepo, cfg.ExpirationInterval, metrics, logger)

	router := deliveryhttp.NewRouter(deliveryhttp.RouterDeps{
		Logger:                 logger,
		Verifier:               auth.NewJWTVerifier(cfg.JWTSecret),
		ActivityController:     controllers.NewActivityController(logger, activityService),
		RegistrationController: controllers.NewRegistrationController(logger, registrationService),
	})
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, router))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return expirationJob.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
