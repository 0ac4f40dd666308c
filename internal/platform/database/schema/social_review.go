// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SocialReviewTable represents the 'social.review' table
type SocialReviewTable struct {
	Table     string
	ID        string
	UserID    string
	BookID    string
	Rating    string
	Comment   string
	CreatedAt string
	UpdatedAt string

	// UserBookKey is the one-review-per-reader-per-book constraint.
	UserBookKey string
	// BookFK references catalog.book.
	BookFK string
}

// SocialReview is the schema definition for social.review
var SocialReview = SocialReviewTable{
	Table:       "social.review",
	ID:          "id",
	UserID:      "user_id",
	BookID:      "book_id",
	Rating:      "rating",
	Comment:     "comment",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
	UserBookKey: "review_user_book_key",
	BookFK:      "review_book_id_fkey",
}

// Columns returns all standard column names
func (t SocialReviewTable) Columns() []string {
	return []string{t.ID, t.UserID, t.BookID, t.Rating, t.Comment, t.CreatedAt, t.UpdatedAt}
}
