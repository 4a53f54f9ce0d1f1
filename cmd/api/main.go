package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vidquiz/internal/adapter"
	"vidquiz/internal/adapter/captions"
	"vidquiz/internal/adapter/generation"
	"vidquiz/internal/adapter/speech"
	"vidquiz/internal/cache"
	"vidquiz/internal/config"
	"vidquiz/internal/domain"
	"vidquiz/internal/handler"
	"vidquiz/internal/logger"
	"vidquiz/internal/middleware"
	"vidquiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

// newGenerator selects the generation capability backend from configuration.
func newGenerator(cfg *config.Config, appLogger *zap.Logger) (domain.TextGenerator, error) {
	switch cfg.Generation.Source {
	case "openai":
		return generation.NewOpenAIGenerator(cfg.Generation.OpenAI.APIKey, cfg.Generation.OpenAI.Model, appLogger)
	case "ollama":
		return generation.NewOllamaGenerator(cfg.Generation.Ollama.ServerURL, cfg.Generation.Ollama.Model, appLogger)
	default:
		return nil, fmt.Errorf("unsupported generation source: %s", cfg.Generation.Source)
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Generation capability
	generator, err := newGenerator(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create text generator", zap.Error(err))
	}
	genClient := service.NewGenerationClient(generator, service.RetryPolicy{
		MaxAttempts: cfg.Pipeline.CallMaxAttempts,
		Backoff:     service.LinearBackoff(cfg.Pipeline.CallBackoffStep),
	}, nil, appLogger)

	// Caption source
	var captionSource domain.CaptionSource
	if cfg.Captions.BaseURL != "" {
		captionSource, err = captions.NewHTTPCaptionSource(cfg.Captions.BaseURL, cfg.Captions.Timeout, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to create caption source", zap.Error(err))
		}
	} else {
		appLogger.Warn("No caption service configured; every run will use the audio fallback")
	}

	// Speech fallback (decode + transcribe)
	var audioSource domain.AudioSource
	var stt domain.SpeechToText
	if cfg.Speech.ServerURL != "" {
		speechClient, err := speech.NewClient(cfg.Speech.ServerURL, cfg.Speech.Timeout, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to create speech client", zap.Error(err))
		}
		audioSource = speechClient
		stt = speechClient
	} else {
		appLogger.Warn("No speech server configured; audio fallback is unavailable")
	}

	// Content index (optional)
	var contentIndex domain.ContentIndex
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		contentIndex = adapter.NewRedisContentIndex(redisClient, cfg.Pipeline.IndexTTL)
		appLogger.Info("Content index enabled", zap.String("redis_address", cfg.Redis.Address))
	} else {
		appLogger.Warn("No Redis configured; transcript indexing is disabled")
	}

	pipeline := service.NewVideoPipeline(captionSource, audioSource, stt, contentIndex, genClient, cfg, appLogger)
	videoHandler := handler.NewVideoHandler(pipeline)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(requestLogger())

	api := app.Group("/api")
	api.Post("/videos/questions", videoHandler.ProcessVideo)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		appLogger.Info("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			appLogger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	appLogger.Info("Starting server", zap.String("address", addr))
	if err := app.Listen(addr); err != nil {
		appLogger.Fatal("Server stopped unexpectedly", zap.Error(err))
	}
}
