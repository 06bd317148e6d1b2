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
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/skysurvey/internal/adapters/http"
	natsadapter "github.com/samirrijal/skysurvey/internal/adapters/nats"
	"github.com/samirrijal/skysurvey/internal/adapters/postgres"
	"github.com/samirrijal/skysurvey/internal/adapters/valkey"
	"github.com/samirrijal/skysurvey/internal/core/coverage"
	"github.com/samirrijal/skysurvey/internal/core/ports"
	"github.com/samirrijal/skysurvey/internal/core/usecases"
	"github.com/samirrijal/skysurvey/internal/pkg/config"
	"github.com/samirrijal/skysurvey/internal/pkg/logging"
	"github.com/samirrijal/skysurvey/internal/pkg/metrics"
	"github.com/samirrijal/skysurvey/internal/pkg/telemetry"
)

var version = "dev"

func main() {
	cfg, err := config.Load("skysurvey-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format, "skysurvey-api")

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
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go reportPoolStats(ctx, db)

	// Cache (optional)
	var pathCache ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.KeyPrefix)
	if err != nil {
		slog.Warn("valkey unavailable, path cache disabled", "error", err)
	} else {
		defer cache.Close()
		pathCache = cache
	}

	// NATS (optional)
	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, events disabled", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	// Planner
	plannerOpts, err := cfg.Planner.Options()
	if err != nil {
		log.Fatalf("planner: %v", err)
	}
	planner := coverage.New(plannerOpts...)

	// Repos
	missionRepo := postgres.NewMissionRepo(db)
	droneRepo := postgres.NewDroneRepo(db)

	// Use cases
	pathSvc := usecases.NewPathService(planner, pathCache, events, usecases.PathDefaults{
		Subdivisions:    cfg.Planner.DefaultSubdivisions,
		CacheTTLSeconds: cfg.Planner.CacheTTL,
	})
	missionSvc := usecases.NewMissionService(missionRepo, droneRepo, pathSvc, events)
	fleetSvc := usecases.NewFleetService(droneRepo)

	deps := &http.Dependencies{
		Paths:          pathSvc,
		Missions:       missionSvc,
		Fleet:          fleetSvc,
		NATS:           natsConn,
		DB:             db,
		Cache:          cache,
		Version:        version,
		RateLimit:      cfg.Server.RateLimit,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		AppName:      "SkySurvey API",
	})
	app.Use(recover.New())
	if cfg.Log.Format == "text" {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "version", version)
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

// reportPoolStats copies pgxpool statistics into the db gauges until ctx ends.
func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Stat())
		case <-ctx.Done():
			return
		}
	}
}
