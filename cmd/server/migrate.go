package main

import (
	"github.com/ZerkerEOD/paytypes-backend/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(_ *cobra.Command, _ []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		return database.RunMigrations(settings.DatabaseURL, migrationsPath())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
