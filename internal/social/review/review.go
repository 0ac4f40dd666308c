// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review implements reader reviews of catalogue books.

# Rules

  - A reader reviews a book at most once (UNIQUE (user_id, book_id)).
  - Ratings are whole stars from 1 to 5.
  - Only the author of a review may edit or delete it; the author is always
    taken from the verified token, never from the request body.
*/
package review

import "time"

// Review is a reader's rating and comment on one book.
type Review struct {
	ID           int64     `json:"review_id"`
	BookID       int64     `json:"book_id"`
	UserID       int64     `json:"user_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	ReviewerName string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// # Constraints

const (
	MinRating = 1
	MaxRating = 5

	// MaxCommentLength bounds the stored comment in characters.
	MaxCommentLength = 2000
)

// # Field Identifiers

const (
	FieldBookID  = "book_id"
	FieldRating  = "rating"
	FieldComment = "comment"
	FieldBookIDQ = "bookId"
)

// Response messages.
const (
	MessageCreated         = "Review created successfully"
	MessageAlreadyReviewed = "You have already reviewed this book"
)
