package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"streamlearn/internal/config"
	"streamlearn/internal/db"
	"streamlearn/internal/logger"
	"streamlearn/internal/repository"
	"streamlearn/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app holds the connections shared by every subcommand.
type app struct {
	cfg    *config.Config
	db     *sql.DB
	users  repository.UserRepository
	svc    service.UserService
	logger zerolog.Logger
}

var current *app

var rootCmd = &cobra.Command{
	Use:          "admin",
	Short:        "StreamLearn administration",
	Long:         `Apply migrations and manage members without going through the admin panel.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New()
		if err := godotenv.Load(); err != nil {
			log.Debug().Msg("no .env file found")
		}
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		conn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		users := repository.NewUserRepo(conn)
		courses := repository.NewCourseRepo(conn)
		current = &app{
			cfg:    cfg,
			db:     conn,
			users:  users,
			svc:    service.NewUserService(users, courses, nil, log),
			logger: log,
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current != nil {
			return current.db.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(grantCmd)
	rootCmd.AddCommand(revokeCmd)
	rootCmd.AddCommand(setActiveCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
