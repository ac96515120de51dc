// main.go
//
// Landing page content service with lead capture
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-landing.
// jam-build-landing is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-landing is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-landing.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"
	"github.com/localnerve/jam-build-landing/internal/backup"
	"github.com/localnerve/jam-build-landing/internal/bus"
	"github.com/localnerve/jam-build-landing/internal/config"
	"github.com/localnerve/jam-build-landing/internal/database"
	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/handlers"
	"github.com/localnerve/jam-build-landing/internal/leads"
	"github.com/localnerve/jam-build-landing/internal/logging"
	"github.com/localnerve/jam-build-landing/internal/middleware"
	"github.com/localnerve/jam-build-landing/internal/page"
	"github.com/localnerve/jam-build-landing/internal/services"
	"github.com/localnerve/jam-build-landing/internal/storage"
	"github.com/localnerve/jam-build-landing/internal/webhook"
	"go.uber.org/zap"

	_ "github.com/localnerve/jam-build-landing/docs/api" // Swagger docs
)

// @title Landing CMS API
// @version 1.0.0
// @description Landing page content, section layout, lead capture and webhook delivery
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/jam-build-landing
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

const shutdownTimeout = 10 * time.Second

func main() {
	configFile := flag.String("config", "", "optional YAML configuration file")
	flag.Parse()

	// A missing .env is normal outside development
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg, logger, logging.GormLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	store := storage.NewStore(db, logger)
	changes := bus.New(logger)

	var signalChannel bus.Signal = bus.NoopSignal{}
	if cfg.RedisURL != "" {
		rs, err := bus.NewRedisSignal(cfg.RedisURL, changes.InstanceID(), logger)
		if err != nil {
			return err
		}
		signalChannel = rs
	}
	defer func() { _ = signalChannel.Close() }()

	go func() {
		if err := bus.Bridge(ctx, changes, signalChannel, logger.Named("bus")); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("change signal stopped", zap.Error(err))
		}
	}()

	catalog := documents.NewCatalog(store, changes, logger)
	client := webhook.NewClient(time.Duration(cfg.WebhookDefaultTimeoutMs)*time.Millisecond, logger)
	leadService := leads.NewService(catalog, client, storage.NewAttemptLog(db), leads.Options{
		RequireTaxID:      cfg.LeadsRequireTaxID,
		ResendConcurrency: cfg.LeadsResendConcurrency,
	}, logger)

	var uploader *backup.S3Uploader
	if cfg.S3.Enabled() {
		if uploader, err = backup.NewS3Uploader(cfg.S3); err != nil {
			return err
		}
		logger.Info("remote backups enabled", zap.String("bucket", cfg.S3.Bucket))
	}

	h := handlers.New(handlers.Deps{
		Catalog:       catalog,
		Leads:         leadService,
		Backup:        backup.NewService(store, catalog, changes, logger),
		Composer:      page.NewComposer(catalog, cfg.LeadsRequireTaxID, logger),
		Bus:           changes,
		Uploader:      uploader,
		Location:      time.Local,
		LeadRateLimit: cfg.LeadsRateLimit,
		Log:           logger,
	})

	// A nil *AuthService must not reach AuthAdmin as a non-nil interface
	var validator middleware.SessionValidator
	if auth := services.NewAuthService(cfg, logger); auth != nil {
		validator = auth
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(logger),
		DisableStartupMessage: true,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(logger))
	app.Use(compress.New(compress.Config{
		Next: func(c *fiber.Ctx) bool {
			// event streams must not be buffered by the compressor
			return c.Path() == "/api/events" || c.Path() == "/api/admin/events"
		},
	}))

	// Prometheus metrics
	prometheus := fiberprometheus.New("landing")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	h.Register(app, middleware.AuthAdmin(validator, logger))

	// 404 handler
	app.Use(handlers.NotFound)

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		errc <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("gracefully shutting down")
	h.Close()
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	return nil
}
