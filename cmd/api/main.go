package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tsidhwani/Stoic-Companion-AI/internal/config"
	"github.com/tsidhwani/Stoic-Companion-AI/internal/handler"
	"github.com/tsidhwani/Stoic-Companion-AI/internal/middleware"
	"github.com/tsidhwani/Stoic-Companion-AI/internal/router"
	"github.com/tsidhwani/Stoic-Companion-AI/internal/service"
	"github.com/tsidhwani/Stoic-Companion-AI/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("service", cfg.AppName).Logger()

	if !cfg.Configured() {
		logger.Warn().Msg("OPENROUTER_API_KEY is not set; /chat and /score will fail until it is configured")
	}

	completer := ai.NewOpenRouterClient(ai.OpenRouterConfig{
		APIKey:  cfg.OpenRouterAPIKey,
		BaseURL: cfg.OpenRouterBaseURL,
		Model:   cfg.OpenRouterModel,
		AppURL:  cfg.OpenRouterAppURL,
		AppName: cfg.OpenRouterAppName,
		Timeout: cfg.UpstreamTimeout,
		Logger:  logger,
	})

	validate := validator.New(validator.WithRequiredStructEnabled())

	chatService := service.NewChatService(completer, validate, cfg.OpenRouterModel, logger)
	scoreService := service.NewScoreService(completer, validate, cfg.OpenRouterModel, logger)

	chatHandler := handler.NewChatHandler(chatService, logger)
	scoreHandler := handler.NewScoreHandler(scoreService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		ErrorHandler: handler.ErrorHandler(logger),
		// Leave room for the upstream call to hit its own timeout first.
		WriteTimeout: cfg.UpstreamTimeout + 10*time.Second,
	})

	middleware.Register(app, middleware.Config{
		Logger:         &logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	router.Register(app, cfg, router.Dependencies{
		ChatHandler:  chatHandler,
		ScoreHandler: scoreHandler,
	})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Str("model", cfg.OpenRouterModel).Msg("server starting")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
