// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	"github.com/unclebandit/crm-backend/internal/config"
	"github.com/unclebandit/crm-backend/internal/logging"
)

var DB *bun.DB

// Init connects to the configured database and stores the handle in DB.
// Any failure is fatal.
func Init(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	if DB, err = Connect(ctx, cfg); err != nil {
		logging.Fatalf("%v", err)
	}
}

// Connect opens the configured database, checks it answers and applies the schema.
func Connect(ctx context.Context, cfg *config.Config) (*bun.DB, error) {
	bdb, err := Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	if err := bdb.PingContext(ctx); err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	if err := Migrate(ctx, bdb); err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}

	logging.Infof("✅ Connected to %s database", cfg.DBDriver)
	return bdb, nil
}

// Open returns a bun handle for driver "postgres" (lib/pq) or "sqlite" (modernc).
func Open(driver, dsn string) (*bun.DB, error) {
	switch driver {
	case "postgres":
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	case "sqlite":
		sqlDB, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// Every connection to ":memory:" gets its own empty database.
		if dsn == ":memory:" {
			sqlDB.SetMaxOpenConns(1)
			sqlDB.SetMaxIdleConns(1)
			sqlDB.SetConnMaxLifetime(0)
		}
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
