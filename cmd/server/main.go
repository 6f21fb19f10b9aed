package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/moins/speechcoach/internal/client"
	"github.com/moins/speechcoach/internal/config"
	"github.com/moins/speechcoach/internal/handler/http"
	"github.com/moins/speechcoach/internal/logger"
	"github.com/moins/speechcoach/internal/repository"
	"github.com/moins/speechcoach/internal/server"
	"github.com/moins/speechcoach/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Info().Str("env", cfg.Environment).Msg("Starting speechcoach")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize AI clients once at boot; handlers receive them injected.
	var geminiClient *client.GeminiClient
	if cfg.GoogleAPIKey != "" {
		geminiClient, err = client.NewGeminiClient(ctx, cfg.GoogleAPIKey, cfg.GeminiModel, cfg.AITimeout)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			log.Info().Str("model", cfg.GeminiModel).Msg("Gemini client initialized")
		}
	} else {
		log.Warn().Msg("GOOGLE_API_KEY not set, analysis will rely on the local model")
	}

	localLLMClient := client.NewLocalLLMClient(cfg.LocalLLMBaseURL, cfg.LocalLLMModel)
	whisperClient := client.NewWhisperClient(cfg.WhisperBaseURL, cfg.WhisperAPIKey, cfg.WhisperTimeout)

	// Initialize Postgres client
	var postgresClient *client.PostgresClient
	postgresClient, err = client.NewPostgresClient(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize Postgres client")
		postgresClient = nil
	} else {
		log.Info().Msg("Postgres client initialized")
	}

	// Initialize Cloudflare R2 client (avatar storage)
	var r2Client *client.R2Client
	if cfg.CloudflareAccessKeyID != "" && cfg.CloudflareSecretKey != "" && cfg.CloudflareR2Endpoint != "" && cfg.CloudflareBucketName != "" {
		r2Client, err = client.NewR2Client(ctx,
			cfg.CloudflareAccessKeyID,
			cfg.CloudflareSecretKey,
			cfg.CloudflareR2Endpoint,
			cfg.CloudflareBucketName,
			cfg.CloudflarePublicURL,
		)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize Cloudflare client")
		} else {
			log.Info().Msg("Cloudflare R2 client initialized")
		}
	} else {
		log.Warn().Msg("Cloudflare configuration missing, avatar uploads disabled")
	}

	// Initialize repositories
	sessionRepo := repository.NewPostgresSessionRepository(postgresClient)
	profileRepo := repository.NewPostgresProfileRepository(postgresClient)
	improvementRepo := repository.NewPostgresImprovementRepository(postgresClient)
	userRepo := repository.NewPostgresUserRepository(postgresClient)

	// Initialize services
	var primary service.TextGenerator
	if geminiClient != nil {
		primary = geminiClient
	}
	analysisService := service.NewAnalysisService(primary, localLLMClient, sessionRepo, log)
	transcriptionService := service.NewTranscriptionService(whisperClient, log)
	improvementService := service.NewImprovementService(primary, sessionRepo, improvementRepo, log)
	profileService := service.NewProfileService(profileRepo, r2Client, log)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)

	// Initialize handlers
	healthHandler := http.NewHealthHandler()
	speechHandler := http.NewSpeechHandler(log, transcriptionService, analysisService)
	improvementHandler := http.NewImprovementHandler(log, improvementService)
	profileHandler := http.NewProfileHandler(log, profileService)
	authHandler := http.NewAuthHandler(log, authService)

	// Initialize HTTP server
	httpServer := server.NewHTTPServer(cfg, log,
		healthHandler, speechHandler, improvementHandler, profileHandler, authHandler, authService)

	// Start server
	go func() {
		if err := httpServer.Start(); err != nil {
			log.Error().Err(err).Msg("HTTP server error")
			cancel()
		}
	}()

	log.Info().
		Str("http_addr", cfg.HTTPAddress()).
		Msg("Server started")

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info().Msg("Shutdown signal received")
	case <-ctx.Done():
		log.Info().Msg("Context cancelled")
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Close clients
	if geminiClient != nil {
		geminiClient.Close()
	}
	if postgresClient != nil {
		postgresClient.Close()
	}

	log.Info().Msg("Server stopped")
}
