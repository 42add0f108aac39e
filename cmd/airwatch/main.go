package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/airwatchhq/airwatch/internal/airq"
	"github.com/airwatchhq/airwatch/internal/airq/providers"
	httpapi "github.com/airwatchhq/airwatch/internal/api/http"
	"github.com/airwatchhq/airwatch/internal/assistant"
	"github.com/airwatchhq/airwatch/internal/config"
	"github.com/airwatchhq/airwatch/internal/realtime"
	"github.com/airwatchhq/airwatch/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Providers with resilience (backoff + circuit breaker). The mock provider
	// terminates the chain so fetches always produce data.
	provs := []airq.Provider{
		providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey),
		providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey),
		providers.NewOpenMeteoProvider(httpClient),
		providers.NewMockProvider(),
	}

	registry := airq.NewCityRegistry(cfg.GeocoderAPIKey)

	// Core services.
	airSvc := airq.NewService(memStore, registry, provs, cfg.DefaultLocation)
	chatSvc := assistant.NewService(assistant.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel), memStore)

	// Realtime hub plus the simulated demo devices feeding it.
	hub := realtime.NewHub(memStore)
	sim := realtime.NewSimulator(hub, realtime.DefaultDevices, cfg.SimulatorInterval)
	if err := sim.Start(); err != nil {
		log.Fatalf("failed to start device simulator: %v", err)
	}
	defer sim.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "airwatch",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "airwatch",
		})
	})

	// API routes and the live IoT stream.
	httpapi.RegisterRoutes(app, airSvc, chatSvc, memStore)
	httpapi.RegisterWebSocket(app, hub)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
