// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package booktest provides an in-memory [book.Repository] for tests.
package booktest

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/bookshelf/internal/catalog/book"
	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/pkg/pagination"
)

// Repository implements [book.Repository] over a slice.
// It keeps books in insertion order and exposes error fields for behavior
// injection and call counters for cache assertions.
type Repository struct {
	mu     sync.Mutex
	books  []*book.Book
	nextID int64

	ListErr  error
	FindErr  error
	Finds    int
	GenreHit int
}

// NewRepository returns a repository seeded with books. IDs are assigned in order.
func NewRepository(seed ...*book.Book) *Repository {
	fake := &Repository{}
	for _, entry := range seed {
		_, _ = fake.Insert(context.Background(), entry)
	}
	return fake
}

func (fake *Repository) List(_ context.Context, filter book.Filter, page pagination.Params) ([]*book.Book, int, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	if fake.ListErr != nil {
		return nil, 0, fake.ListErr
	}

	var matched []*book.Book
	needle := strings.ToLower(filter.Search)
	for _, entry := range fake.books {
		if needle != "" && !strings.Contains(strings.ToLower(entry.Title), needle) && !strings.Contains(strings.ToLower(entry.Author), needle) {
			continue
		}
		if filter.Genre != "" && entry.Genre != filter.Genre {
			continue
		}
		clone := *entry
		matched = append(matched, &clone)
	}

	slices.SortStableFunc(matched, func(a, b *book.Book) int { return strings.Compare(a.Title, b.Title) })

	limit, offset := page.Window()
	if offset >= len(matched) {
		return []*book.Book{}, len(matched), nil
	}
	end := min(offset+limit, len(matched))
	return matched[offset:end], len(matched), nil
}

func (fake *Repository) FindByID(_ context.Context, id int64) (*book.Book, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	fake.Finds++
	if fake.FindErr != nil {
		return nil, fake.FindErr
	}
	for _, entry := range fake.books {
		if entry.ID == id {
			clone := *entry
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Book")
}

func (fake *Repository) Genres(context.Context) ([]string, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	fake.GenreHit++
	var genres []string
	for _, entry := range fake.books {
		if !slices.Contains(genres, entry.Genre) {
			genres = append(genres, entry.Genre)
		}
	}
	slices.Sort(genres)
	return genres, nil
}

func (fake *Repository) Insert(_ context.Context, entry *book.Book) (bool, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	for _, existing := range fake.books {
		if existing.Slug == entry.Slug {
			return false, nil
		}
	}

	fake.nextID++
	entry.ID = fake.nextID
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt

	stored := *entry
	fake.books = append(fake.books, &stored)
	return true, nil
}

// SetAggregates overwrites the review aggregates of a stored book.
func (fake *Repository) SetAggregates(id int64, average float64, total int) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	for _, entry := range fake.books {
		if entry.ID == id {
			entry.AverageRating = average
			entry.TotalReviews = total
		}
	}
}
