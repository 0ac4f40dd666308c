// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command populate seeds the catalogue from the Google Books volumes API.
//
// # Sequence
//
//  1. Load DATABASE_URL, GOOGLE_BOOKS_API_KEY and INGEST_TERMS.
//  2. Connect to PostgreSQL and apply migrations.
//  3. Fetch each term (40 volumes) and insert new books by slug.
//
// Running it twice inserts nothing the second time.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/bookshelf/internal/catalog/book"
	"github.com/taibuivan/bookshelf/internal/catalog/ingest"
	"github.com/taibuivan/bookshelf/internal/platform/config"
	"github.com/taibuivan/bookshelf/internal/platform/migration"
	pgstore "github.com/taibuivan/bookshelf/internal/platform/postgres"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", "bookshelf-populate"))
	slog.SetDefault(log)

	cfg, err := config.LoadIngest()
	if err != nil {
		log.Error("startup_failure", slog.String("step", "load configuration"), slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("startup_failure", slog.String("step", "connect to postgres"), slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := migration.RunUp(cfg.DatabaseURL, log); err != nil {
		log.Error("startup_failure", slog.String("step", "run migrations"), slog.Any("error", err))
		os.Exit(1)
	}

	source := ingest.NewClient(ingest.DefaultBaseURL, cfg.GoogleBooksAPIKey, cfg.RequestsPerSecond)
	runner := ingest.NewRunner(source, book.NewPostgresRepository(pool), log)

	summary, err := runner.Run(ctx, cfg.Terms)
	if err != nil {
		log.Error("ingest_interrupted", slog.Int("inserted", summary.Inserted), slog.Any("error", err))
		os.Exit(1)
	}
}
