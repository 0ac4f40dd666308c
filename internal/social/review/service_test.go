// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/catalog/book"
	"github.com/taibuivan/bookshelf/internal/catalog/book/booktest"
	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/social/review"
	"github.com/taibuivan/bookshelf/internal/social/review/reviewtest"
	"github.com/taibuivan/bookshelf/pkg/pagination"
)

type recordingInvalidator struct {
	bookIDs []int64
}

func (invalidator *recordingInvalidator) Invalidate(_ context.Context, bookID int64) {
	invalidator.bookIDs = append(invalidator.bookIDs, bookID)
}

func newTestService(t *testing.T) (*review.Service, *reviewtest.Repository, *recordingInvalidator) {
	t.Helper()
	books := booktest.NewRepository(
		&book.Book{Slug: "dune", Title: "Dune", Author: "Frank Herbert", Genre: "Fiction"},
		&book.Book{Slug: "emma", Title: "Emma", Author: "Jane Austen", Genre: "Fiction"},
	)
	reviews := reviewtest.NewRepository()
	reviews.Reviewers[1] = "Ann"
	reviews.Reviewers[2] = "Bob"

	invalidator := &recordingInvalidator{}
	return review.NewService(reviews, books, invalidator), reviews, invalidator
}

func TestService_CreateReview(t *testing.T) {
	service, _, invalidator := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateReview(ctx, 1, review.CreateInput{BookID: 1, Rating: 5, Comment: "<b>Great</b> read"})
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(1), created.UserID)
	assert.Equal(t, "Great read", created.Comment)
	assert.Equal(t, "Ann", created.ReviewerName)
	assert.Equal(t, []int64{1}, invalidator.bookIDs)
}

func TestService_CreateReview_Duplicate(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.CreateReview(ctx, 1, review.CreateInput{BookID: 1, Rating: 4})
	require.NoError(t, err)

	_, err = service.CreateReview(ctx, 1, review.CreateInput{BookID: 1, Rating: 2})
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusConflict, appError.HTTPStatus)
	assert.Equal(t, review.MessageAlreadyReviewed, appError.Message)

	// The same reader may still review another book.
	_, err = service.CreateReview(ctx, 1, review.CreateInput{BookID: 2, Rating: 3})
	assert.NoError(t, err)
}

func TestService_CreateReview_UnknownBook(t *testing.T) {
	service, reviews, invalidator := newTestService(t)

	_, err := service.CreateReview(context.Background(), 1, review.CreateInput{BookID: 99, Rating: 3})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.Empty(t, invalidator.bookIDs)

	_, total, err := reviews.ListByBook(context.Background(), 99, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestService_ListReviews_NewestFirst(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.CreateReview(ctx, 1, review.CreateInput{BookID: 1, Rating: 5, Comment: "first"})
	require.NoError(t, err)
	_, err = service.CreateReview(ctx, 2, review.CreateInput{BookID: 1, Rating: 3, Comment: "second"})
	require.NoError(t, err)

	reviews, meta, err := service.ListReviews(ctx, 1, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "second", reviews[0].Comment)
	assert.Equal(t, "Bob", reviews[0].ReviewerName)
	assert.Equal(t, 2, meta.Total)

	empty, _, err := service.ListReviews(ctx, 2, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestService_UpdateAndDelete_OwnerOnly(t *testing.T) {
	service, _, invalidator := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateReview(ctx, 1, review.CreateInput{BookID: 1, Rating: 2})
	require.NoError(t, err)

	_, err = service.UpdateReview(ctx, 2, created.ID, review.UpdateInput{Rating: 5})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	err = service.DeleteReview(ctx, 2, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	updated, err := service.UpdateReview(ctx, 1, created.ID, review.UpdateInput{Rating: 5, Comment: "changed my mind"})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	require.NoError(t, service.DeleteReview(ctx, 1, created.ID))
	assert.True(t, apperr.HasCode(service.DeleteReview(ctx, 1, created.ID), apperr.CodeNotFound))
	assert.Equal(t, []int64{1, 1, 1}, invalidator.bookIDs)
}

func TestService_CreateReview_StorageFailure(t *testing.T) {
	service, reviews, _ := newTestService(t)
	reviews.CreateErr = errors.New("connection reset")

	_, err := service.CreateReview(context.Background(), 1, review.CreateInput{BookID: 1, Rating: 4})
	assert.ErrorIs(t, err, reviews.CreateErr)
}
