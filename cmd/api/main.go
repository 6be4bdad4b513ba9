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
	"github.com/nats-io/nats.go"

	"github.com/yusefelshater/TransCalc/internal/adapters/fallback"
	"github.com/yusefelshater/TransCalc/internal/adapters/http"
	"github.com/yusefelshater/TransCalc/internal/adapters/maprender"
	natsadapter "github.com/yusefelshater/TransCalc/internal/adapters/nats"
	"github.com/yusefelshater/TransCalc/internal/adapters/overpass"
	"github.com/yusefelshater/TransCalc/internal/adapters/postgres"
	"github.com/yusefelshater/TransCalc/internal/adapters/valkey"
	"github.com/yusefelshater/TransCalc/internal/core/ports"
	"github.com/yusefelshater/TransCalc/internal/core/usecases"
	"github.com/yusefelshater/TransCalc/internal/pkg/config"
	"github.com/yusefelshater/TransCalc/internal/pkg/logging"
	"github.com/yusefelshater/TransCalc/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("transcalc-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database (optional managed fallback catalog)
	var db *postgres.DB
	if cfg.Database.Enabled() {
		db, err = postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()

		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					db.ReportPoolMetrics()
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Cache (optional shared land-use cache)
	var cache ports.CacheService
	if cfg.Valkey.Enabled() {
		vk, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			defer vk.Close()
			cache = vk
		}
	}

	// NATS (optional progress events and WebSocket relay)
	var publisher ports.EventPublisher
	var natsConn *nats.Conn
	if cfg.NATS.Enabled() {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer pub.Close()
			publisher = pub
		}

		natsConn, err = natsadapter.RawConn(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats ws conn unavailable", "error", err)
		}
	}

	// Facility gateway against the Overpass mirrors
	gateway := overpass.New(overpass.Options{
		Endpoints:  cfg.Overpass.Endpoints,
		Timeout:    time.Duration(cfg.Overpass.Timeout) * time.Second,
		MaxRetries: cfg.Overpass.Retries,
		Backoff:    cfg.Overpass.BackoffSchedule(),
		Verbose:    cfg.Overpass.Verbose,
		Cache:      cache,
	})

	// Fallback data comes from the database when configured, otherwise from
	// the bundled JSON file.
	var fallbackSrc ports.FallbackSource
	if db != nil {
		fallbackSrc = postgres.NewFacilityRepo(db)
	} else {
		fallbackSrc = fallback.New(cfg.Planner.FallbackFile)
	}

	renderer := maprender.New(cfg.Planner.RunsDir)
	scorer := usecases.NewScorer(gateway)
	plannerSvc := usecases.NewPlannerService(gateway, fallbackSrc, scorer, publisher, renderer)
	pavementSvc := usecases.NewPavementService()

	deps := &http.Dependencies{
		Planner:  plannerSvc,
		Pavement: pavementSvc,
		Gateway:  gateway,
		NATS:     natsConn,
		DB:       db,
		Cache:    cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    10 * 1024 * 1024, // GeoJSON routes can be large
		AppName:      "TransCalc API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

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
