package main

import (
	"context"
	"database/sql"
	"flag"
	"os/signal"
	"syscall"

	"streamlearn/internal/config"
	"streamlearn/internal/db"
	mail "streamlearn/internal/email"
	"streamlearn/internal/logger"
	"streamlearn/internal/orchestrator/email"
	"streamlearn/internal/pgmq"
	"streamlearn/internal/service"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Parse mode flag
	mode := flag.String("mode", "", "Orchestrator mode: email")
	flag.Parse()

	// Initialize logger
	logger := logger.New()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	// Set up context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Only the Resend key is needed here
	if cfg.SecretManagerProjectID != "" && cfg.ResendAPIKey == "" {
		sm, err := service.NewSecretManagerService(ctx, cfg)
		if err != nil {
			logger.Fatal().Msgf("Failed to create Secret Manager client: %v", err)
		}
		key, err := sm.GetSecret(ctx, service.ResendSecretName)
		if err != nil {
			logger.Warn().Err(err).Msg("Resend API key not found, emails will only be logged")
		}
		cfg.ResendAPIKey = key
		sm.Close()
	}

	// Initialize DB connection; pgmq runs over lib/pq
	conn, err := sql.Open("postgres", db.QueueDSN(cfg))
	if err != nil {
		logger.Fatal().Msgf("Failed to open DB connection: %v", err)
	}
	defer conn.Close()

	if err := conn.PingContext(ctx); err != nil {
		logger.Fatal().Msgf("Failed to ping DB: %v", err)
	}
	logger.Info().Msg("Database connection established")

	// Initialize PGMQ client
	pgmqClient := pgmq.New(conn)
	logger.Info().Msg("PGMQ client initialized")

	// Dispatch to the selected orchestrator
	var runErr error
	switch *mode {
	case "email":
		sender := mail.NewSender(cfg.ResendAPIKey, cfg.EmailFrom, logger)
		runErr = email.Run(ctx, logger, pgmqClient, sender, email.OptionsFromConfig(cfg))
	default:
		logger.Fatal().Msgf("Invalid mode: %s", *mode)
	}

	if runErr != nil {
		logger.Fatal().Msgf("%s orchestrator failed: %v", *mode, runErr)
	}

	logger.Info().Msgf("%s orchestrator stopped gracefully", *mode)
}
