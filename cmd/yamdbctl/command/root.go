package command

// root.go defines the root command for yamdbctl, the operator CLI.
// Subcommands talk to the database directly using the API's configuration.

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"yamdb/database"
	"yamdb/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "yamdbctl",
	Short: "yamdbctl - YaMDb operator tool",
	Long: `yamdbctl manages a YaMDb deployment. It reads the same environment
(and optional .env file) as the API server and can:
- apply or roll back database migrations
- create a superuser account

Use "yamdbctl [command] --help" to see the options of a command.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createSuperuserCmd)
}

// openDB loads configuration and connects; callers must database.Close the result.
func openDB() (*gorm.DB, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := cfg.NewLogger()

	db, err := database.OpenGorm(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return db, logger, nil
}
