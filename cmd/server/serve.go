package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZerkerEOD/paytypes-backend/internal/config"
	"github.com/ZerkerEOD/paytypes-backend/internal/database"
	"github.com/ZerkerEOD/paytypes-backend/internal/repository"
	"github.com/ZerkerEOD/paytypes-backend/internal/routes"
	"github.com/ZerkerEOD/paytypes-backend/internal/upload"
	"github.com/ZerkerEOD/paytypes-backend/pkg/debug"
	"github.com/ZerkerEOD/paytypes-backend/pkg/fsutil"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Example: `  # Start the API and apply pending migrations first
  paytypes serve --migrate`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	for _, cmd := range []*cobra.Command{rootCmd, serveCmd} {
		cmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "Apply pending migrations before serving")
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, settings)
}

func serve(ctx context.Context, settings *config.Settings) error {
	debug.Info("Initializing %s (%s)", settings.Project.DisplayName, settings.Env)
	if !settings.IsProduction() {
		debug.Warning("Running in %s mode", settings.Env)
	}

	if migrateOnStart {
		if err := database.RunMigrations(settings.DatabaseURL, migrationsPath()); err != nil {
			return err
		}
	}

	db, err := database.Connect(ctx, settings.DatabaseURL, settings.LogLevel())
	if err != nil {
		return err
	}
	defer database.Close(db)
	debug.Info("Database connection established")

	uploadRoot := rootPath(settings.UploadDir)
	if err := fsutil.EnsureDirectoryExists(uploadRoot); err != nil {
		return fmt.Errorf("failed to create upload directory %s: %w", uploadRoot, err)
	}

	r := mux.NewRouter()
	routes.SetupRoutes(r, routes.Dependencies{
		Settings: settings,
		Store:    repository.NewPaymentTypeRepository(db),
		Uploader: upload.New(uploadRoot, settings.Upload, settings.HTTP.MaxBodySize),
	})

	srv := &http.Server{
		Addr:              settings.GetAddress(),
		Handler:           r,
		IdleTimeout:       settings.HTTP.KeepAliveTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		debug.Info("Starting HTTP server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	debug.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	debug.Info("HTTP server stopped")
	return nil
}
