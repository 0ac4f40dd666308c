// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ingest_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/catalog/book"
	"github.com/taibuivan/bookshelf/internal/catalog/book/booktest"
	"github.com/taibuivan/bookshelf/internal/catalog/ingest"
	"github.com/taibuivan/bookshelf/pkg/pagination"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubSource struct {
	results map[string][]ingest.Volume
	errs    map[string]error
	calls   []string
}

func (source *stubSource) Search(_ context.Context, term string) ([]ingest.Volume, error) {
	source.calls = append(source.calls, term)
	if err := source.errs[term]; err != nil {
		return nil, err
	}
	return source.results[term], nil
}

func volume(title string, authors []string, categories []string, date string) ingest.Volume {
	return ingest.Volume{VolumeInfo: ingest.VolumeInfo{
		Title:         title,
		Authors:       authors,
		Categories:    categories,
		PublishedDate: date,
	}}
}

func TestToBook(t *testing.T) {
	tests := []struct {
		name       string
		volume     ingest.Volume
		wantOK     bool
		wantAuthor string
		wantGenre  string
		wantYear   *int
	}{
		{"full", volume(" Emma ", []string{"Jane Austen", "Other"}, []string{"Classics"}, "1815-12-23"), true, "Jane Austen", "Classics", intPtr(1815)},
		{"no_author_or_category", volume("Beowulf", nil, nil, ""), true, book.UnknownAuthor, book.DefaultGenre, nil},
		{"year_only", volume("Ulysses", []string{"James Joyce"}, nil, "1922"), true, "James Joyce", book.DefaultGenre, intPtr(1922)},
		{"garbled_date", volume("Odd", nil, nil, "c.19th"), true, book.UnknownAuthor, book.DefaultGenre, nil},
		{"blank_title", volume("   ", []string{"Nobody"}, nil, "2001"), false, "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped, ok := ingest.ToBook(tt.volume)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantAuthor, mapped.Author)
			assert.Equal(t, tt.wantGenre, mapped.Genre)
			assert.Equal(t, tt.wantYear, mapped.PublishedYear)
			assert.NotEmpty(t, mapped.Slug)
		})
	}
}

func TestToBook_IdentifiersAndMarkup(t *testing.T) {
	v := volume("Dune", []string{"Frank Herbert"}, nil, "1965")
	v.VolumeInfo.Description = "<p>A <i>desert</i> planet</p>"
	v.VolumeInfo.IndustryIdentifiers = []ingest.IndustryIdentifier{
		{Type: "ISBN_10", Identifier: "0441013597"},
		{Type: "ISBN_13", Identifier: "9780441013593"},
	}
	v.VolumeInfo.ImageLinks = &ingest.ImageLinks{Thumbnail: "https://covers.example/dune.jpg"}

	mapped, ok := ingest.ToBook(v)
	require.True(t, ok)
	assert.Equal(t, "Dune", mapped.Title)
	assert.Equal(t, "9780441013593", mapped.ISBN)
	assert.Equal(t, "A desert planet", mapped.Description)
	assert.Equal(t, "https://covers.example/dune.jpg", mapped.CoverImageURL)
	assert.Equal(t, "dune-frank-herbert", mapped.Slug)
}

func TestRunner_Run(t *testing.T) {
	source := &stubSource{
		results: map[string][]ingest.Volume{
			"fiction": {
				volume("Emma", []string{"Jane Austen"}, []string{"Fiction"}, "1815"),
				volume("", nil, nil, ""),
				volume("Dune", []string{"Frank Herbert"}, []string{"Fiction"}, "1965"),
			},
			"classics": {
				volume("Emma", []string{"Jane Austen"}, []string{"Fiction"}, "1815"),
			},
		},
		errs: map[string]error{"broken": errors.New("status 503")},
	}
	books := booktest.NewRepository()

	summary, err := ingest.NewRunner(source, books, discardLogger).Run(context.Background(), []string{"fiction", "broken", "classics"})
	require.NoError(t, err)

	assert.Equal(t, []string{"fiction", "broken", "classics"}, source.calls)
	assert.Equal(t, 2, summary.Inserted)
	require.Len(t, summary.Terms, 3)

	assert.Equal(t, ingest.TermResult{Term: "fiction", Fetched: 3, Inserted: 2, Skipped: 1}, summary.Terms[0])
	assert.Error(t, summary.Terms[1].Err)
	assert.Equal(t, 1, summary.Terms[2].Skipped)

	stored, total, err := books.List(context.Background(), book.Filter{}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Dune", stored[0].Title)
}

func TestRunner_Run_Cancelled(t *testing.T) {
	source := &stubSource{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ingest.NewRunner(source, booktest.NewRepository(), discardLogger).Run(ctx, []string{"fiction"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, source.calls)
}

func intPtr(v int) *int { return &v }
