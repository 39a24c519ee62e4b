package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GrzegKrol/10x-cards/internal/config"
	"github.com/GrzegKrol/10x-cards/internal/database"
	"github.com/GrzegKrol/10x-cards/internal/handlers"
	"github.com/GrzegKrol/10x-cards/internal/logging"
	"github.com/GrzegKrol/10x-cards/internal/metrics"
	"github.com/GrzegKrol/10x-cards/internal/middleware"
	"github.com/GrzegKrol/10x-cards/internal/repository"
	"github.com/GrzegKrol/10x-cards/internal/router"
	"github.com/GrzegKrol/10x-cards/internal/services"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("✗ Configuration invalid: %v", err)
	}

	// ──── Step 2: Build Logger ────
	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("✗ Logger initialization failed: %v", err)
	}
	defer logger.Sync()
	logger.Info("starting 10x-cards backend", zap.String("env", cfg.Env))

	ctx := context.Background()

	// ──── Step 3: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("PostgreSQL connection failed", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("PostgreSQL connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(ctx, pool, cfg.MigrationsDir, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}
	logger.Info("database migrations applied")

	// ──── Step 5: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal("Redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Redis connected")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	groupRepo := repository.NewGroupRepo(pool)
	flashcardRepo := repository.NewFlashcardRepo(pool)
	tokenStore := repository.NewRefreshTokenStore(redisClient)

	// ──── Step 6: Initialize Language Model Client ────
	generator, closeGenerator, err := newGenerator(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("language model client initialization failed", zap.Error(err))
	}
	defer closeGenerator()
	logger.Info("language model client initialized",
		zap.String("provider", generator.Name()),
		zap.Duration("timeout", cfg.LLMTimeout))

	// ──── Initialize Services ────
	m := metrics.New()
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret, cfg.AccessTokenTTL)
	authService := services.NewAuthService(userRepo, tokenStore, jwtAuth, cfg.RefreshTokenTTL, logger)
	groupService := services.NewGroupService(groupRepo, logger)
	flashcardService := services.NewFlashcardService(groupRepo, flashcardRepo, logger)
	generationService := services.NewGenerationService(groupRepo, flashcardRepo, generator, m, logger)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService, logger)
	groupHandler := handlers.NewGroupHandler(groupService, flashcardService, logger)
	flashcardHandler := handlers.NewFlashcardHandler(flashcardService, generationService, logger)

	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer authLimiter.Stop()

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authLimiter,
		authHandler,
		groupHandler,
		flashcardHandler,
		m,
		logger,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// AI generation holds the response open for up to LLMTimeout.
		WriteTimeout: cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("10x-cards backend ready", zap.String("addr", "http://localhost:"+cfg.Port+"/api"))

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
	<-done
}

// newGenerator builds the language-model client selected by LLM_PROVIDER.
// The returned close func is always safe to call.
func newGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (services.FlashcardGenerator, func(), error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		client, err := services.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMTimeout, logger)
		if err != nil {
			return nil, func() {}, err
		}
		return client, func() { client.Close() }, nil
	default:
		client, err := services.NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL, cfg.OpenRouterModel, cfg.LLMTimeout, logger)
		if err != nil {
			return nil, func() {}, err
		}
		return client, func() {}, nil
	}
}
