// Package store owns the PostgreSQL connection pool, the schema migrations
// and the seed data.
package store

import (
	"context"
	"database/sql"
	"embed"
	"time"

	_ "github.com/lib/pq"
	"github.com/mdobak/go-xerrors"
	"github.com/pressly/goose/v3"

	"github.com/emerrafter1/nc-news/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

// NewDB opens a pool against cfg.DatabaseURL and checks it with a ping.
func NewDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, xerrors.Newf("opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxIdleTime(cfg.DBMaxIdleTime)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, xerrors.Newf("pinging database: %w", err)
	}

	return db, nil
}

// Migrate runs all pending database migrations.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return xerrors.Newf("setting dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return xerrors.Newf("running migrations: %w", err)
	}

	return nil
}
