// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"

	"github.com/taibuivan/bookshelf/pkg/pagination"
)

// Repository defines the data access contract for reviews.
type Repository interface {

	/*
		Create inserts a review and fills in ID and timestamps.

		Returns:
		  - error: apperr.Conflict when the reader already reviewed the book,
		    apperr.NotFound when the book does not exist
	*/
	Create(ctx context.Context, review *Review) error

	/*
		ListByBook returns one page of a book's reviews, newest first, joined
		with the reviewer's display name, and the total count.
	*/
	ListByBook(ctx context.Context, bookID int64, page pagination.Params) ([]*Review, int, error)

	/*
		FindByID returns a single review or apperr.NotFound.
	*/
	FindByID(ctx context.Context, id int64) (*Review, error)

	/*
		Update overwrites rating and comment and refreshes UpdatedAt.
	*/
	Update(ctx context.Context, review *Review) error

	/*
		Delete removes a review or returns apperr.NotFound.
	*/
	Delete(ctx context.Context, id int64) error
}
