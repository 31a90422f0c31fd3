package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library-catalog/internal/entities"
	"github.com/mrlokans/library-catalog/internal/logging"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Options describes how to reach the store.
type Options struct {
	Driver   string // sqlite (default) or mysql
	Path     string // SQLite file, used by the sqlite driver
	DSN      string // MySQL DSN, used by the mysql driver
	LogLevel string // silent, error, warn, info
	Logger   hclog.Logger
}

type Database struct {
	DB     *gorm.DB
	Driver string
}

func NewDatabase(opts Options) (*Database, error) {
	log := logging.OrDiscard(opts.Logger)

	dialector, err := openDialector(opts)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(log, opts.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	driver := opts.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	log.Info("database connected", "driver", driver)

	return &Database{DB: db, Driver: driver}, nil
}

func openDialector(opts Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case "", DriverSQLite:
		if opts.Path == "" {
			return nil, fmt.Errorf("sqlite driver requires a database path")
		}
		return sqlite.Open(sqliteDSN(opts.Path)), nil
	case DriverMySQL:
		if opts.DSN == "" {
			return nil, fmt.Errorf("mysql driver requires a DSN")
		}
		return mysql.Open(mysqlDSN(opts.DSN)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

// sqliteDSN turns on foreign keys for every pooled connection and waits on
// locks instead of failing immediately.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"
}

// mysqlDSN makes DATETIME columns scan into time.Time.
func mysqlDSN(dsn string) string {
	if strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "parseTime=true"
}

func newGormLogger(log hclog.Logger, level string) logger.Interface {
	var lvl logger.LogLevel
	switch strings.ToLower(level) {
	case "silent", "":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	default:
		lvl = logger.Warn
	}

	writer := log.Named("gorm").StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true})
	return logger.New(writer, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
	})
}

// Migrate creates or updates every catalog table.
func (d *Database) Migrate() error {
	err := d.DB.AutoMigrate(
		&entities.User{},
		&entities.Author{},
		&entities.Book{},
		&entities.Genre{},
		&entities.BookGenre{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Ping checks that the store answers within the context deadline.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
