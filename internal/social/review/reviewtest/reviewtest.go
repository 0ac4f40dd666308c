// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package reviewtest provides an in-memory [review.Repository] for tests.
package reviewtest

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/social/review"
	"github.com/taibuivan/bookshelf/pkg/pagination"
)

// Repository implements [review.Repository] over a slice.
// It enforces the one-review-per-reader rule like the UNIQUE constraint does.
// Every write advances a synthetic clock by one second.
type Repository struct {
	mu      sync.Mutex
	reviews []*review.Review
	nextID  int64
	clock   time.Time

	// Reviewers maps user IDs to display names for list joins.
	Reviewers map[int64]string

	CreateErr error
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{
		Reviewers: make(map[int64]string),
		clock:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (fake *Repository) Create(_ context.Context, entry *review.Review) error {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	if fake.CreateErr != nil {
		return fake.CreateErr
	}
	for _, existing := range fake.reviews {
		if existing.UserID == entry.UserID && existing.BookID == entry.BookID {
			return apperr.Conflict(review.MessageAlreadyReviewed)
		}
	}

	fake.nextID++
	fake.clock = fake.clock.Add(time.Second)
	entry.ID = fake.nextID
	entry.CreatedAt = fake.clock
	entry.UpdatedAt = fake.clock
	entry.ReviewerName = fake.Reviewers[entry.UserID]

	stored := *entry
	fake.reviews = append(fake.reviews, &stored)
	return nil
}

func (fake *Repository) ListByBook(_ context.Context, bookID int64, page pagination.Params) ([]*review.Review, int, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	var matched []*review.Review
	for _, entry := range fake.reviews {
		if entry.BookID == bookID {
			clone := *entry
			matched = append(matched, &clone)
		}
	}

	slices.SortStableFunc(matched, func(a, b *review.Review) int { return b.CreatedAt.Compare(a.CreatedAt) })

	limit, offset := page.Window()
	if offset >= len(matched) {
		return []*review.Review{}, len(matched), nil
	}
	return matched[offset:min(offset+limit, len(matched))], len(matched), nil
}

func (fake *Repository) FindByID(_ context.Context, id int64) (*review.Review, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	for _, entry := range fake.reviews {
		if entry.ID == id {
			clone := *entry
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Review")
}

func (fake *Repository) Update(_ context.Context, entry *review.Review) error {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	for _, existing := range fake.reviews {
		if existing.ID == entry.ID {
			fake.clock = fake.clock.Add(time.Second)
			existing.Rating = entry.Rating
			existing.Comment = entry.Comment
			existing.UpdatedAt = fake.clock
			entry.UpdatedAt = fake.clock
			return nil
		}
	}
	return apperr.NotFound("Review")
}

func (fake *Repository) Delete(_ context.Context, id int64) error {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	for index, entry := range fake.reviews {
		if entry.ID == id {
			fake.reviews = slices.Delete(fake.reviews, index, index+1)
			return nil
		}
	}
	return apperr.NotFound("Review")
}
