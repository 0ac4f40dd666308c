// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ingest populates the catalogue from the Google Books volumes API.

Each search term is fetched once; volumes are mapped to books and inserted by
slug, so running the command again adds only titles it has not seen.
*/
package ingest

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/taibuivan/bookshelf/internal/catalog/book"
	"github.com/taibuivan/bookshelf/internal/platform/sanitize"
	"github.com/taibuivan/bookshelf/pkg/pointer"
	"github.com/taibuivan/bookshelf/pkg/slice"
)

// # Contracts

// VolumeSource searches a remote catalogue.
type VolumeSource interface {
	Search(ctx context.Context, term string) ([]Volume, error)
}

// BookInserter stores a book unless its slug already exists.
type BookInserter interface {
	Insert(ctx context.Context, book *book.Book) (bool, error)
}

// TermResult reports the outcome of one search term.
type TermResult struct {
	Term     string
	Fetched  int
	Inserted int
	Skipped  int
	Failed   int
	Err      error
}

// Summary aggregates a whole run.
type Summary struct {
	Terms    []TermResult
	Inserted int
}

// Runner drives an ingestion run.
type Runner struct {
	source VolumeSource
	books  BookInserter
	logger *slog.Logger
}

// NewRunner constructs a [Runner].
func NewRunner(source VolumeSource, books BookInserter, logger *slog.Logger) *Runner {
	return &Runner{source: source, books: books, logger: logger}
}

/*
Run fetches every term in order and inserts the mapped books.

Description: Terms are trimmed and blank ones dropped. A failed search is logged and the run moves to the next term.
A failed insert is logged and the run moves to the next volume. Only context
cancellation stops the run early.

Returns:
  - Summary: Per-term counts and the total inserted
  - error: ctx.Err() when cancelled
*/
func (runner *Runner) Run(ctx context.Context, terms []string) (Summary, error) {
	terms = slice.Filter(slice.Map(terms, strings.TrimSpace), func(term string) bool { return term != "" })
	summary := Summary{Terms: make([]TermResult, 0, len(terms))}

	for _, term := range terms {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result := runner.ingestTerm(ctx, term)
		summary.Terms = append(summary.Terms, result)
		summary.Inserted += result.Inserted
	}

	runner.logger.InfoContext(ctx, "ingest_finished",
		slog.Int("terms", len(terms)),
		slog.Int("inserted", summary.Inserted),
	)
	return summary, ctx.Err()
}

func (runner *Runner) ingestTerm(ctx context.Context, term string) TermResult {
	result := TermResult{Term: term}
	logger := runner.logger.With(slog.String("term", term))
	logger.InfoContext(ctx, "ingest_term_started")

	volumes, err := runner.source.Search(ctx, term)
	if err != nil {
		result.Err = err
		logger.ErrorContext(ctx, "ingest_fetch_failed", slog.String("error", err.Error()))
		return result
	}
	result.Fetched = len(volumes)

	for _, volume := range volumes {
		candidate, ok := ToBook(volume)
		if !ok {
			result.Skipped++
			continue
		}

		inserted, err := runner.books.Insert(ctx, candidate)
		if err != nil {
			result.Failed++
			logger.WarnContext(ctx, "ingest_insert_failed",
				slog.String("title", candidate.Title),
				slog.String("author", candidate.Author),
				slog.String("error", err.Error()),
			)
			continue
		}
		if inserted {
			result.Inserted++
		} else {
			result.Skipped++
		}
	}

	logger.InfoContext(ctx, "ingest_term_finished",
		slog.Int("fetched", result.Fetched),
		slog.Int("inserted", result.Inserted),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed),
	)
	return result
}

// # Mapping

/*
ToBook maps a volume to a catalogue book.

Returns false for volumes without a title. Missing authors and categories
fall back to [book.UnknownAuthor] and [book.DefaultGenre]; the year comes from
the first four characters of publishedDate.
*/
func ToBook(volume Volume) (*book.Book, bool) {
	info := volume.VolumeInfo

	title := strings.TrimSpace(info.Title)
	if title == "" {
		return nil, false
	}

	author := firstNonBlank(info.Authors, book.UnknownAuthor)
	mapped := &book.Book{
		Title:         title,
		Author:        author,
		Genre:         firstNonBlank(info.Categories, book.DefaultGenre),
		Description:   sanitize.Text(info.Description),
		ISBN:          isbnOf(info.IndustryIdentifiers),
		PublishedYear: yearOf(info.PublishedDate),
		Slug:          book.SlugFor(title, author),
	}
	if info.ImageLinks != nil {
		mapped.CoverImageURL = info.ImageLinks.Thumbnail
	}

	if mapped.Slug == "" {
		return nil, false
	}
	return mapped, true
}

func firstNonBlank(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	if first := strings.TrimSpace(values[0]); first != "" {
		return first
	}
	return fallback
}

// isbnOf prefers ISBN_13 over ISBN_10.
func isbnOf(identifiers []IndustryIdentifier) string {
	var isbn10 string
	for _, identifier := range identifiers {
		switch identifier.Type {
		case "ISBN_13":
			return identifier.Identifier
		case "ISBN_10":
			isbn10 = identifier.Identifier
		}
	}
	return isbn10
}

func yearOf(publishedDate string) *int {
	if len(publishedDate) < 4 {
		return nil
	}
	year, err := strconv.Atoi(publishedDate[:4])
	if err != nil {
		return nil
	}
	return pointer.To(year)
}
