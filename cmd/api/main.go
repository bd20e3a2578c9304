package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	robfigcron "github.com/robfig/cron/v3"

	"portfolio_backend/internal/controller"
	"portfolio_backend/internal/logger"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/tracking"
	"portfolio_backend/pkg/config"
	"portfolio_backend/pkg/cron"
	"portfolio_backend/pkg/database"
	"portfolio_backend/pkg/email"
	"portfolio_backend/pkg/utils/cloudflare"
	"portfolio_backend/pkg/utils/jwt"
)

const (
	adminTokenTTL   = 12 * time.Hour
	shutdownTimeout = 10 * time.Second
	mailTimeout     = 15 * time.Second
)

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}

func main() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.URL == "" {
		slog.Error("DATABASE_URL is not set")
		os.Exit(1)
	}

	db, err := database.Open(cfg.Database.URL, cfg.Database.LogLevel)
	if err != nil {
		fatal("Could not connect to database", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("Could not close database", "err", err)
		}
	}()

	if err := database.MigrateDatabase(db, repository.Models()...); err != nil {
		slog.Warn("Migration warning", "err", err)
	}

	mailer, err := email.NewEmailService(cfg.Email, &http.Client{Timeout: mailTimeout})
	if err != nil {
		fatal("Could not initialize email service", err)
	}
	slog.Info("Email service initialized", "from", cfg.Email.From)

	store := repository.NewGormStore(db)
	tracker := tracking.NewTracker(store)

	deps := controller.Deps{
		Store:   store,
		Tracker: tracker,
		Mailer:  mailer,
	}
	if cfg.Admin.AuthEnabled() {
		deps.Issuer = jwt.NewIssuer(cfg.Admin.JWTSecret, adminTokenTTL)
		deps.AdminPasswordHash = cfg.Admin.PasswordHash
		slog.Info("Admin login enabled, analytics report is protected")
	}

	digest, err := startDigest(ctx, cfg, store, tracker, mailer)
	if err != nil {
		fatal("Could not initialize digest cron", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: controller.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.FiberMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
	}))

	controller.SetupRoutes(app, controller.New(deps))

	go func() {
		slog.Info("Server is running", "port", cfg.Server.Port)
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			slog.Error("Server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	if digest != nil {
		<-digest.Stop().Done()
	}
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		slog.Error("Server shutdown failed", "err", err)
	}
}

func startDigest(ctx context.Context, cfg *config.Config, store *repository.GormStore, tracker *tracking.Tracker, mailer *email.EmailService) (*robfigcron.Cron, error) {
	if !cfg.Digest.Enabled() {
		slog.Info("Digest cron disabled")
		return nil, nil
	}

	var archiver cron.SnapshotArchiver
	if cfg.R2.Enabled() {
		a, err := cloudflare.NewArchiver(ctx, cfg.R2)
		if err != nil {
			return nil, err
		}
		archiver = a
	}

	job := cron.NewDigestJob(store, tracker, mailer, archiver)
	return cron.StartDigest(context.WithoutCancel(ctx), cfg.Digest.Schedule, job)
}
