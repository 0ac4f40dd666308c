// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CatalogBookTable represents the 'catalog.book' table
type CatalogBookTable struct {
	Table         string
	ID            string
	Slug          string
	Title         string
	Author        string
	Genre         string
	Description   string
	ISBN          string
	CoverImageURL string
	PublishedYear string
	CreatedAt     string
	UpdatedAt     string
}

// CatalogBook is the schema definition for catalog.book
var CatalogBook = CatalogBookTable{
	Table:         "catalog.book",
	ID:            "id",
	Slug:          "slug",
	Title:         "title",
	Author:        "author",
	Genre:         "genre",
	Description:   "description",
	ISBN:          "isbn",
	CoverImageURL: "cover_image_url",
	PublishedYear: "published_year",
	CreatedAt:     "created_at",
	UpdatedAt:     "updated_at",
}

// Columns returns all standard column names
func (t CatalogBookTable) Columns() []string {
	return []string{
		t.ID, t.Slug, t.Title, t.Author, t.Genre, t.Description,
		t.ISBN, t.CoverImageURL, t.PublishedYear, t.CreatedAt, t.UpdatedAt,
	}
}
