package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/selenevara/astroatlas/internal/adapters/http"
	natsadapter "github.com/selenevara/astroatlas/internal/adapters/nats"
	"github.com/selenevara/astroatlas/internal/adapters/postgres"
	"github.com/selenevara/astroatlas/internal/adapters/valkey"
	"github.com/selenevara/astroatlas/internal/core/ports"
	"github.com/selenevara/astroatlas/internal/core/usecases"
	"github.com/selenevara/astroatlas/internal/pkg/config"
	"github.com/selenevara/astroatlas/internal/pkg/logging"
	"github.com/selenevara/astroatlas/internal/pkg/metrics"
	"github.com/selenevara/astroatlas/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("astroatlas-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup("api", cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache. Assigned through the interface only on success so the services'
	// nil checks stay meaningful.
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// NATS
	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	// Raw NATS connection for the WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Repos
	profileRepo := postgres.NewProfileRepo(db)
	cityRepo := postgres.NewCityRepo(db)
	reportRepo := postgres.NewReportRepo(db)

	// Use cases
	profileSvc := usecases.NewProfileService(profileRepo, cacheSvc)
	chartSvc := usecases.NewChartService(profileRepo, cacheSvc, cfg.Engine.Resolution, cfg.Engine.Thresholds)
	synastrySvc := usecases.NewSynastryService(profileRepo, cityRepo, cacheSvc, cfg.Engine.Resolution, cfg.Engine.Thresholds)
	transitSvc := usecases.NewTransitService(profileRepo, publisher, cfg.Engine.Thresholds)
	hotspotSvc := usecases.NewHotspotService(chartSvc, cityRepo)
	citySvc := usecases.NewCityService(cityRepo, cacheSvc)
	reportSvc := usecases.NewReportService(reportRepo, synastrySvc, publisher, nil)

	deps := &http.Dependencies{
		Profiles: profileSvc,
		Charts:   chartSvc,
		Synastry: synastrySvc,
		Transits: transitSvc,
		Hotspots: hotspotSvc,
		Cities:   citySvc,
		Reports:  reportSvc,
		NATS:     natsConn,
		DB:       db,
		Cache:    cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "AstroAtlas API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.astroatlas.dev",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Export pgx pool stats
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			}
		}
	}()

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
