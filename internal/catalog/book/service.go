// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"

	"github.com/taibuivan/bookshelf/pkg/pagination"
)

// Service implements the catalogue read use cases.
type Service struct {
	repo Repository
}

// NewService constructs a [Service] over a (possibly cached) repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

/*
ListBooks returns one page of books and its pagination metadata.

Parameters:
  - ctx: context.Context
  - filter: Filter (normalized here; "all" disables the genre filter)
  - page: pagination.Params

Returns:
  - []*Book: The page, never nil
  - pagination.Meta: Page position and totals
  - error: Storage failures
*/
func (service *Service) ListBooks(ctx context.Context, filter Filter, page pagination.Params) ([]*Book, pagination.Meta, error) {
	books, total, err := service.repo.List(ctx, filter.Normalize(), page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	if books == nil {
		books = []*Book{}
	}

	return books, pagination.NewMeta(page.Page, page.Limit, total), nil
}

// GetBook returns a single book or apperr.NotFound.
func (service *Service) GetBook(ctx context.Context, id int64) (*Book, error) {
	return service.repo.FindByID(ctx, id)
}

// ListGenres returns the distinct genres for filter menus.
func (service *Service) ListGenres(ctx context.Context) ([]string, error) {
	genres, err := service.repo.Genres(ctx)
	if err != nil {
		return nil, err
	}
	if genres == nil {
		genres = []string{}
	}
	return genres, nil
}
