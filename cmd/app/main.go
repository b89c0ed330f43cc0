package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"streamlearn/internal/api/v1/router"
	"streamlearn/internal/config"
	"streamlearn/internal/db"
	"streamlearn/internal/logger"
	"streamlearn/internal/pgmq"
	"streamlearn/internal/pubsub"
	"streamlearn/internal/service"
	"streamlearn/internal/session"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
)

// @title StreamLearn API
// @version 1.0
// @description StreamLearn members area and admin panel API
// @host localhost:8080
// @BasePath /v1
// @Schemes http https

func main() {
	logger := logger.New()

	// 1. Load configuration
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	ctx := context.Background()

	// 2. Resolve secrets
	if cfg.SecretManagerProjectID != "" {
		sm, err := service.NewSecretManagerService(ctx, cfg)
		if err != nil {
			logger.Fatal().Msgf("Failed to create Secret Manager client: %v", err)
		}
		if err := service.ResolveSecrets(ctx, cfg, sm, logger); err != nil {
			logger.Fatal().Msgf("Failed to resolve secrets: %v", err)
		}
		sm.Close()
	}
	if cfg.JWTSecret == "" {
		logger.Fatal().Msg("JWT_SECRET is not set")
	}

	// 3. Database
	conn, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Msgf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	if cfg.IsDevelopment() {
		if _, err := db.Migrate(ctx, conn, logger); err != nil {
			logger.Fatal().Msgf("Failed to apply migrations: %v", err)
		}
	}

	// 4. Token revocation
	var revoked session.RevocationStore = session.NewMemoryStore()
	if cfg.RedisURL != "" {
		store, err := session.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Msgf("Failed to connect to Redis: %v", err)
		}
		defer store.Close()
		revoked = store
		logger.Info().Msg("Token revocation backed by Redis")
	} else {
		logger.Warn().Msg("REDIS_URL not set, revoked tokens are kept in memory")
	}

	// 5. Domain events
	var publisher pubsub.Publisher = pubsub.NoopPublisher{}
	if cfg.GCPProjectID != "" {
		p, err := pubsub.NewPublisher(ctx, cfg)
		if err != nil {
			logger.Fatal().Msgf("Failed to create Pub/Sub publisher: %v", err)
		}
		defer p.Close()
		publisher = p
	}
	publisher = pubsub.NewBreakerPublisher(publisher, cfg.EventBreakerFailures,
		time.Duration(cfg.EventBreakerTimeout)*time.Second, logger)
	events := pubsub.NewEventEmitter(publisher, pubsub.Topics{
		pubsub.EventUserLoggedIn:    cfg.PubSubLoginTopic,
		pubsub.EventUserRegistered:  cfg.PubSubRegisterTopic,
		pubsub.EventLessonCompleted: cfg.PubSubProgressTopic,
	}, logger)
	// Runs before the publisher's Close so queued events are flushed.
	defer events.Close()

	// 6. Object storage
	var s3Client *s3.Client
	if cfg.S3URL != "" {
		s3Client, err = service.NewS3Client(ctx, cfg)
		if err != nil {
			logger.Fatal().Msgf("Failed to create S3 client: %v", err)
		}
	} else {
		logger.Warn().Msg("S3_URL not set, uploads are disabled")
	}

	// 7. Build router
	r := router.New(cfg, router.Deps{
		DB:      conn,
		Revoked: revoked,
		Events:  events,
		Queue:   pgmq.New(conn),
		S3:      s3Client,
	}, logger)

	// 8. Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Msgf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Msgf("Listen: %s\n", err)
		}
	}()

	// 9. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutdown signal received, exiting...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Msgf("Server forced to shutdown: %v", err)
	}
	logger.Info().Msg("Server shut down gracefully")
}
