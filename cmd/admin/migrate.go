package main

import (
	"fmt"
	"path"

	"streamlearn/internal/db"
	"streamlearn/internal/pgmq"

	"github.com/spf13/cobra"
)

var skipQueues bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply the embedded goose migrations in order and create the email queues.

Examples:
  admin migrate
  admin migrate --skip-queues
  admin migrate status`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		applied, err := db.Migrate(ctx, current.db, current.logger)
		for _, name := range applied {
			fmt.Printf("Applied %s\n", name)
		}
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Println("Schema is up to date")
		}

		if skipQueues {
			return nil
		}
		queue := pgmq.New(current.db)
		for _, name := range []string{current.cfg.EmailQueueName, current.cfg.EmailDeadLetterQueueName} {
			// pgmq is an extension; databases without it still get the schema.
			if err := queue.CreateQueue(ctx, name); err != nil {
				current.logger.Warn().Err(err).Str("queue", name).Msg("Could not create queue")
				continue
			}
			fmt.Printf("Queue %s ready\n", name)
		}
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := db.NewMigrator(current.db)
		if err != nil {
			return err
		}
		statuses, err := m.Status(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range statuses {
			applied := "-"
			if !s.AppliedAt.IsZero() {
				applied = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%5d  %-8s  %-19s  %s\n", s.Source.Version, s.State, applied, path.Base(s.Source.Path))
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&skipQueues, "skip-queues", false, "do not create the pgmq email queues")
	migrateCmd.AddCommand(migrateStatusCmd)
}
