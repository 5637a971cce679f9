package main

import (
	"fmt"
	"os"

	"github.com/aussiebroadwan/taskmail/internal/notify/app"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "notifier",
	Short: "Task notification dispatcher",
	Long: `notifier turns project-management events into email notifications:
invite emails, assignment notices, comment and mention notices, and a
daily digest of tasks due soon.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	// Bare invocation keeps the container entrypoint working.
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP ingestion server and reminder scheduler",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(seedCmd)
}

func serve() error {
	application, err := app.New(app.LoadConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := application.Run(); err != nil {
		return fmt.Errorf("application error: %w", err)
	}
	return nil
}
