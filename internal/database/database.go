package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ZerkerEOD/paytypes-backend/pkg/debug"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultMigrationsDir is where migration files are read from, relative to the working directory
const DefaultMigrationsDir = "db/migrations"

/*
 * Connect opens a PostgreSQL connection pool for the given URL and wraps it in gorm.
 * The connection is verified with a ping before returning.
 *
 * Parameters:
 *   - ctx: Bounds the ping
 *   - dsn: Connection URL (DB_URL)
 *   - logLevel: Minimum application log level, mapped onto gorm's logger
 *
 * Returns:
 *   - *gorm.DB: ORM handle if successful
 *   - error: Any error encountered during connection
 */
func Connect(ctx context.Context, dsn string, logLevel debug.LogLevel) (*gorm.DB, error) {
	debug.Info("Attempting database connection")

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		debug.Error("Failed to open database connection: %v", err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	debug.Debug("Attempting to ping database...")
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		debug.Error("Failed to ping database: %v", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db, err := Open(sqlDB, logLevel)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	debug.Info("Successfully connected to database")
	return db, nil
}

// Open wraps an existing connection pool in gorm. The caller keeps ownership of sqlDB.
func Open(sqlDB *sql.DB, logLevel debug.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 newGormLogger(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}
	return db, nil
}

// Close releases the connection pool behind a gorm handle
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

/*
 * RunMigrations executes all pending database migrations from dir.
 * Migrations are run in order based on their numeric prefix.
 *
 * Returns:
 *   - error: Any error encountered during migration, nil if successful
 *           Returns nil if no migrations are pending (ErrNoChange)
 */
func RunMigrations(dsn, dir string) error {
	debug.Info("Starting database migrations from %s", dir)

	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		debug.Error("Failed to create migration instance: %v", err)
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		debug.Error("Migration failed: %v", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	debug.Info("Database migrations completed successfully (version %d, dirty %v)", version, dirty)
	return nil
}

// gormWriter forwards gorm log lines to the application logger
type gormWriter struct{}

func (gormWriter) Printf(format string, v ...interface{}) {
	debug.Info(format, v...)
}

func gormLevel(level debug.LogLevel) logger.LogLevel {
	switch level {
	case debug.LevelDebug:
		return logger.Info
	case debug.LevelError:
		return logger.Error
	default:
		return logger.Warn
	}
}

func newGormLogger(level debug.LogLevel) logger.Interface {
	return logger.New(gormWriter{}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLevel(level),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
