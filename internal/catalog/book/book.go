// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package book implements the read side of the catalogue: listing, searching and
fetching books together with their review aggregates.

# Architecture

Books are written only by the ingestion command; the API never mutates them.
Detail reads and the genre list go through a Redis read-through cache that
the review service invalidates whenever an aggregate changes.
*/
package book

import (
	"strings"
	"time"

	"github.com/taibuivan/bookshelf/pkg/slug"
)

// # Domain Entities

// Book is a catalogue entry with its review aggregates.
type Book struct {
	ID            int64     `json:"book_id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	Description   string    `json:"description,omitempty"`
	ISBN          string    `json:"isbn,omitempty"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	PublishedYear *int      `json:"published_year,omitempty"`
	AverageRating float64   `json:"average_rating"`
	TotalReviews  int       `json:"total_reviews"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Filter narrows a book listing.
type Filter struct {
	// Search matches title or author, case-insensitively.
	Search string
	// Genre matches exactly. Empty or [AllGenres] disables the filter.
	Genre string
}

// # Defaults

const (
	// AllGenres is the UI sentinel for "no genre filter".
	AllGenres = "all"

	// UnknownAuthor is stored when the source lists no author.
	UnknownAuthor = "Unknown"

	// DefaultGenre is stored when the source lists no category.
	DefaultGenre = "General"
)

// Normalize trims the filter and drops the "all" sentinel.
func (filter Filter) Normalize() Filter {
	normalized := Filter{
		Search: strings.TrimSpace(filter.Search),
		Genre:  strings.TrimSpace(filter.Genre),
	}
	if strings.EqualFold(normalized.Genre, AllGenres) {
		normalized.Genre = ""
	}
	return normalized
}

// SlugFor derives the natural key of a book from its title and author.
func SlugFor(title, author string) string {
	return slug.From(title + " " + author)
}
