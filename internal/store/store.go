package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"customer-orders-api/internal/config"
	"customer-orders-api/internal/models"
)

// Open returns a gorm handle for the configured driver. The handle owns a
// connection pool and is meant to be shared by every request.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{
		Logger:                                   logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	gdb, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	// Every connection to ":memory:" gets its own empty database.
	if isMemory(cfg) {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}

	return gdb, nil
}

// Close releases the pool behind gdb.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// EnsureSchema creates the users and orders tables when they are missing.
func EnsureSchema(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&models.Customer{}, &models.Order{})
}

// OpenMemory opens a private in-memory sqlite database with the schema applied.
func OpenMemory() (*gorm.DB, error) {
	gdb, err := Open(config.DatabaseConfig{
		Driver:          config.DriverSQLite,
		DSN:             ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		LogLevel:        "silent",
	})
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN), nil
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func isMemory(cfg config.DatabaseConfig) bool {
	return cfg.Driver == config.DriverSQLite && strings.Contains(cfg.DSN, ":memory:")
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
