package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZerkerEOD/paytypes-backend/internal/config"
	"github.com/ZerkerEOD/paytypes-backend/internal/database"
	"github.com/ZerkerEOD/paytypes-backend/pkg/debug"
	"github.com/ZerkerEOD/paytypes-backend/pkg/env"
	"github.com/spf13/cobra"
)

var (
	appRoot    string
	debugFlag  bool
	migrateDir string
)

// rootCmd serves the API when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "paytypes",
	Short: "Payment type catalogue API",
	Long: `paytypes serves the payment type catalogue over HTTP.

Configuration is read from the process environment and the optional
.env.<NODE_ENV>.local file in the application root.`,
	Example: `  # Start the API (same as "paytypes serve")
  paytypes

  # Apply database migrations
  paytypes migrate

  # Validate the environment without starting anything
  paytypes check config`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		debug.Sync()
		os.Exit(1)
	}
	debug.Sync()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&appRoot, "root", env.GetOrDefault("APP_ROOT", "."), "Directory holding the .env file, migrations and uploads")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&migrateDir, "migrations", "", "Migrations directory (default <root>/db/migrations)")
}

// loadSettings loads and validates the configuration, then switches logging
// to the configured format, directory and level
func loadSettings() (*config.Settings, error) {
	settings, err := config.Load(config.Options{Root: appRoot})
	if err != nil {
		return nil, err
	}

	level := settings.LogLevel()
	if debugFlag {
		level = debug.LevelDebug
	}
	if err := debug.Init(debug.Options{
		Format: settings.Log.Format,
		Dir:    rootPath(settings.Log.Dir),
		Level:  level,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	return settings, nil
}

// rootPath resolves p against the application root unless it is absolute
func rootPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(appRoot, p)
}

func migrationsPath() string {
	if migrateDir != "" {
		return migrateDir
	}
	return rootPath(database.DefaultMigrationsDir)
}
