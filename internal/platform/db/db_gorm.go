// Package db opens the relational store and applies the schema.
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authentity "slambook_backend/internal/feature/auth/domain/entity"
	entryadapters "slambook_backend/internal/feature/entries/adapters"
	"slambook_backend/internal/platform/config"
)

// retryInterval is the pause between connection attempts.
const retryInterval = 3 * time.Second

// ErrUnsupportedURL is returned for DATABASE_URL schemes other than postgres and sqlite.
var ErrUnsupportedURL = errors.New("unsupported DATABASE_URL scheme")

// Dialector picks the gorm driver from the URL scheme:
// postgres:// and postgresql:// use PostgreSQL, sqlite:// uses SQLite with the
// remainder as the file path (":memory:" for an in-memory database).
func Dialector(url string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), nil
	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		if path == "" {
			return nil, fmt.Errorf("%w: missing sqlite path", ErrUnsupportedURL)
		}
		return sqlite.Open(path), nil
	default:
		return nil, ErrUnsupportedURL
	}
}

// ConnectWithRetry calls open until it succeeds or timeout elapses,
// sleeping interval between attempts.
func ConnectWithRetry(open func() (*gorm.DB, error), timeout, interval time.Duration) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		db, err := open()
		if err == nil {
			return db, nil
		}
		if time.Now().Add(interval).After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %s (%d attempts): %w", timeout, attempt, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "attempt", attempt)
		time.Sleep(interval)
	}
}

// Open connects to cfg.URL with retry, applies the pool settings and, when
// cfg.RunMigrations is set, migrates the schema.
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.URL)
	if err != nil {
		return nil, err
	}

	db, err := ConnectWithRetry(func() (*gorm.DB, error) {
		return gorm.Open(dialector, &gorm.Config{TranslateError: true})
	}, cfg.ConnectTimeout, retryInterval)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if isInMemory(cfg.URL) {
		// The database lives only as long as its single connection, so that
		// connection must never be closed by the pool.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}
	return db, nil
}

// Migrate creates or updates the users and entries tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&authentity.User{},
		&entryadapters.EntryModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

func isInMemory(url string) bool {
	return strings.HasPrefix(url, "sqlite://") && strings.Contains(url, ":memory:")
}
