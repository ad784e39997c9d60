package db

import (
	"fmt"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Options describes where the database lives.
type Options struct {
	Path        string
	TursoURL    string
	TursoToken  string
	Environment string
}

// Initialize opens the database. A Turso URL selects the remote libSQL
// driver; otherwise a local SQLite file is opened in WAL mode.
func Initialize(opts Options) error {
	var err error

	DB, err = Open(opts)
	if err != nil {
		return err
	}

	if opts.TursoURL != "" {
		zap.S().Infow("Database connection established", "driver", "libsql", "url", opts.TursoURL)
	} else {
		zap.S().Infow("Database connection established", "driver", "sqlite", "path", opts.Path, "journal", "WAL")
	}
	return nil
}

// Open returns a configured *gorm.DB without touching the package global.
func Open(opts Options) (*gorm.DB, error) {
	logLevel := logger.Info
	if opts.Environment == "production" {
		logLevel = logger.Warn
	}

	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	if opts.TursoURL != "" {
		dialector = sqlite.New(sqlite.Config{
			DriverName: "libsql",
			DSN:        tursoDSN(opts.TursoURL, opts.TursoToken),
		})
	} else {
		dialector = sqlite.Open(localDSN(opts.Path))
	}

	conn, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return conn, nil
}

func localDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate"
}

func tursoDSN(url, token string) string {
	if token == "" {
		return url
	}
	return url + "?authToken=" + token
}

// AutoMigrate runs database migrations for the provided models
func AutoMigrate(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	zap.S().Info("Database migrations completed")
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
