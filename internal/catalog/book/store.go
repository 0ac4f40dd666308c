// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"

	"github.com/taibuivan/bookshelf/pkg/pagination"
)

// # Book Data Access

// Repository defines the data access contract for catalogue books.
type Repository interface {

	/*
		List returns one page of books matching the filter, ordered by title,
		and the total number of matches.

		Parameters:
		  - ctx: context.Context
		  - filter: Filter (already normalized)
		  - page: pagination.Params

		Returns:
		  - []*Book: The page
		  - int: Total matches across all pages
		  - error: Database retrieval failures
	*/
	List(ctx context.Context, filter Filter, page pagination.Params) ([]*Book, int, error)

	/*
		FindByID returns a book with its aggregates.

		Returns:
		  - *Book: Hydrated entity
		  - error: apperr.NotFound or database errors
	*/
	FindByID(ctx context.Context, id int64) (*Book, error)

	/*
		Genres returns the distinct genres in alphabetical order.
	*/
	Genres(ctx context.Context) ([]string, error)

	/*
		Insert stores a book unless one with the same slug exists.

		Returns:
		  - bool: Whether a row was written
		  - error: Persistence failures
	*/
	Insert(ctx context.Context, book *Book) (bool, error)
}
