//go:build integration

// Package testutil starts a disposable PostgreSQL for integration tests.
package testutil

import (
	"context"
	"database/sql"
	"log"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/mdobak/go-xerrors"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/emerrafter1/nc-news/internal/store"
)

// StartPostgres starts a PostgreSQL container, runs the migrations against it
// and returns an open pool. terminate closes the pool and removes the
// container.
func StartPostgres(ctx context.Context) (db *sql.DB, terminate func(), err error) {
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("nc_news_test"),
		postgres.WithUsername("nc_news"),
		postgres.WithPassword("nc_news"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, nil, xerrors.Newf("starting PostgreSQL container: %w", err)
	}

	terminateContainer := func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			log.Printf("Failed to terminate container: %v", err)
		}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		terminateContainer()
		return nil, nil, xerrors.Newf("getting connection string: %w", err)
	}

	db, err = sql.Open("postgres", connStr)
	if err != nil {
		terminateContainer()
		return nil, nil, xerrors.Newf("opening database: %w", err)
	}

	terminate = func() {
		_ = db.Close()
		terminateContainer()
	}

	if err := db.PingContext(ctx); err != nil {
		terminate()
		return nil, nil, xerrors.Newf("pinging database: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		terminate()
		return nil, nil, err
	}

	return db, terminate, nil
}

// NewPostgres is StartPostgres bound to the lifetime of t.
func NewPostgres(t *testing.T) *sql.DB {
	t.Helper()
	db, terminate, err := StartPostgres(context.Background())
	require.NoError(t, err)
	t.Cleanup(terminate)
	return db
}
