// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"log/slog"

	"github.com/taibuivan/bookshelf/internal/catalog/book"
	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/platform/sanitize"
	"github.com/taibuivan/bookshelf/pkg/pagination"
)

// # Contracts & Types

// BookLookup resolves the book a review targets.
type BookLookup interface {
	FindByID(ctx context.Context, id int64) (*book.Book, error)
}

// Invalidator drops cached book aggregates after a review changes.
type Invalidator interface {
	Invalidate(ctx context.Context, bookID int64)
}

// Service implements review use cases.
type Service struct {
	reviews     Repository
	books       BookLookup
	invalidator Invalidator
}

// NewService constructs a [Service]. A nil invalidator is allowed when no
// cache sits in front of the catalogue.
func NewService(reviews Repository, books BookLookup, invalidator Invalidator) *Service {
	return &Service{reviews: reviews, books: books, invalidator: invalidator}
}

// CreateInput carries a new review. The author comes from verified claims.
type CreateInput struct {
	BookID  int64
	Rating  int
	Comment string
}

// UpdateInput carries replacement values for an existing review.
type UpdateInput struct {
	Rating  int
	Comment string
}

/*
ListReviews returns a book's reviews, newest first.

Parameters:
  - ctx: context.Context
  - bookID: int64
  - page: pagination.Params

Returns:
  - []*Review: The page, never nil
  - pagination.Meta: Page position and totals
  - error: Storage failures
*/
func (service *Service) ListReviews(ctx context.Context, bookID int64, page pagination.Params) ([]*Review, pagination.Meta, error) {
	reviews, total, err := service.reviews.ListByBook(ctx, bookID, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	if reviews == nil {
		reviews = []*Review{}
	}
	return reviews, pagination.NewMeta(page.Page, page.Limit, total), nil
}

/*
CreateReview stores a review written by the authenticated reader.

Description: The book must exist; the comment is stripped of markup; a second
review of the same book by the same reader fails with 409.

Parameters:
  - ctx: context.Context
  - userID: int64 (from verified claims)
  - input: CreateInput (already range-checked by the handler)

Returns:
  - *Review: The stored review
  - error: NotFound, Conflict or storage failures
*/
func (service *Service) CreateReview(ctx context.Context, userID int64, input CreateInput) (*Review, error) {
	target, err := service.books.FindByID(ctx, input.BookID)
	if err != nil {
		return nil, err
	}

	review := &Review{
		BookID:  target.ID,
		UserID:  userID,
		Rating:  input.Rating,
		Comment: sanitize.Text(input.Comment),
	}

	if err := service.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	service.invalidate(ctx, review.BookID)
	ctxutil.GetLogger(ctx).InfoContext(ctx, "review_created",
		slog.Int64("review_id", review.ID),
		slog.Int64("book_id", review.BookID),
		slog.Int64("user_id", userID),
	)

	return review, nil
}

/*
UpdateReview replaces the rating and comment of the caller's own review.

Returns:
  - *Review: The updated review
  - error: NotFound, Forbidden (not the author) or storage failures
*/
func (service *Service) UpdateReview(ctx context.Context, userID, reviewID int64, input UpdateInput) (*Review, error) {
	review, err := service.ownedReview(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	review.Rating = input.Rating
	review.Comment = sanitize.Text(input.Comment)

	if err := service.reviews.Update(ctx, review); err != nil {
		return nil, err
	}

	service.invalidate(ctx, review.BookID)
	return review, nil
}

/*
DeleteReview removes the caller's own review.

Returns:
  - error: NotFound, Forbidden (not the author) or storage failures
*/
func (service *Service) DeleteReview(ctx context.Context, userID, reviewID int64) error {
	review, err := service.ownedReview(ctx, userID, reviewID)
	if err != nil {
		return err
	}

	if err := service.reviews.Delete(ctx, review.ID); err != nil {
		return err
	}

	service.invalidate(ctx, review.BookID)
	ctxutil.GetLogger(ctx).InfoContext(ctx, "review_deleted",
		slog.Int64("review_id", review.ID),
		slog.Int64("user_id", userID),
	)
	return nil
}

func (service *Service) ownedReview(ctx context.Context, userID, reviewID int64) (*Review, error) {
	review, err := service.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, apperr.Forbidden("You can only modify your own reviews")
	}
	return review, nil
}

func (service *Service) invalidate(ctx context.Context, bookID int64) {
	if service.invalidator != nil {
		service.invalidator.Invalidate(ctx, bookID)
	}
}
