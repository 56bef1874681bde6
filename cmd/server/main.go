package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/seu-repo/dreamweaver/internal/adapter/ai/anthropic"
	"github.com/seu-repo/dreamweaver/internal/adapter/ai/tts"
	"github.com/seu-repo/dreamweaver/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/dreamweaver/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/dreamweaver/internal/adapter/storage/filesystem"
	"github.com/seu-repo/dreamweaver/internal/adapter/vault"
	"github.com/seu-repo/dreamweaver/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/dreamweaver/internal/observability/logging"
	"github.com/seu-repo/dreamweaver/internal/observability/telemetry"
	"github.com/seu-repo/dreamweaver/internal/service/assistant"
	"github.com/seu-repo/dreamweaver/internal/service/health"
	"github.com/seu-repo/dreamweaver/pkg/config"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// 2. Initialize Logger
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting Dreamweaver",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Resolve vendor API keys from Vault
	if cfg.Vault.Enabled {
		secrets, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
		if err != nil {
			logger.Fatal("Failed to create Vault client", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		secrets.ResolveAPIKeys(ctx, cfg, logger)
		cancel()
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	shutdownTracer, err := telemetry.InitTracer(cfg.OpenTelemetry, cfg.App.Version)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// 5. Initialize vendor clients, one breaker per vendor
	breakers := circuitbreaker.NewManager(cfg.CircuitBreaker, logger)
	llmClient := anthropic.NewClient(cfg.Anthropic,
		circuitbreaker.NewHTTPClient(&http.Client{}, breakers.Get("anthropic"), logger),
		logger,
	)
	speechClient := tts.NewClient(cfg.TTS,
		circuitbreaker.NewHTTPClient(&http.Client{}, breakers.Get("tts"), logger),
		logger,
	)

	// 6. Initialize audio storage
	audioStore, err := filesystem.NewAudioStore(cfg.Storage.StaticDir, cfg.Storage.PublicPrefix, logger)
	if err != nil {
		logger.Fatal("Failed to prepare static directory", zap.Error(err))
	}

	// 7. Initialize Services
	assistantService := assistant.NewService(llmClient, speechClient, audioStore, cfg.Assistant, logger)
	healthService := health.NewService(&health.Config{
		Version:         cfg.App.Version,
		StaticDir:       audioStore.Dir(),
		AnthropicAPIKey: cfg.Anthropic.APIKey,
		TTSAPIKey:       cfg.TTS.APIKey,
		Breakers:        breakers,
	}, logger)

	// 8. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: true,
		BodyLimit:             cfg.HTTP.BodyLimit,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(logger))
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}

	app.Static(cfg.Storage.PublicPrefix, audioStore.Dir())

	health.NewFiberHandler(healthService).RegisterRoutes(app)

	if cfg.Prometheus.Enabled {
		metrics := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			metrics(c.Context())
			return nil
		})
	}

	app.Get("/", handlers.NewPageHandler(cfg.Storage.TemplatesDir).Index)
	handlers.NewAssistantHandler(assistantService, logger).RegisterRoutes(app)

	// 9. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 10. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}
