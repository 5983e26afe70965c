package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/golang-cz/devslog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/emerrafter1/nc-news/internal/config"
	"github.com/emerrafter1/nc-news/internal/core"
	"github.com/emerrafter1/nc-news/internal/store"
	"github.com/emerrafter1/nc-news/internal/utils/databaseutils"
)

type application struct {
	config *config.Config
	logger *slog.Logger
	core   *core.Core
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading configuration", "error", err)
		os.Exit(1)
	}

	logger := configLogger(cfg)
	logger.Info("Starting application...", "env", cfg.Env)

	if err := run(cfg, logger); err != nil {
		logger.Error("Application stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	db, err := store.NewDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
		}
	}()
	logger.Info("Database connection established successfully")

	if err := store.Migrate(db); err != nil {
		return err
	}

	prometheus.MustRegister(collectors.NewDBStatsCollector(db, "nc_news"))

	sqlTemplate := databaseutils.NewSQLTemplate(db, cfg.DBQueryTimeout)

	if cfg.Seed {
		data, err := store.LoadTestData()
		if err != nil {
			return err
		}
		seeder := store.NewSeeder(logger, sqlTemplate, databaseutils.NewSession(db))
		if err := seeder.Seed(ctx, data); err != nil {
			return err
		}
	}

	app := &application{
		config: cfg,
		logger: logger,
		core:   core.NewCore(logger, sqlTemplate),
	}

	return app.serve()
}

// configLogger uses the coloured devslog handler in development and JSON
// everywhere else.
func configLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	if !cfg.IsDevelopment() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}

	handler := devslog.NewHandler(
		os.Stdout, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     level,
			},
			NewLineAfterLog: false,
		})

	return slog.New(handler)
}
