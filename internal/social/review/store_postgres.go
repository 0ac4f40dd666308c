// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/database/schema"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var (
	reviewTable  = schema.SocialReview
	accountTable = schema.UserAccount

	selectReview = fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, r.%s, COALESCE(r.%s, ''), a.%s, r.%s, r.%s
		FROM %s r
		JOIN %s a ON a.%s = r.%s`,
		reviewTable.ID, reviewTable.BookID, reviewTable.UserID, reviewTable.Rating, reviewTable.Comment,
		accountTable.DisplayName, reviewTable.CreatedAt, reviewTable.UpdatedAt,
		reviewTable.Table,
		accountTable.Table, accountTable.ID, reviewTable.UserID,
	)
)

func (repository *PostgresRepository) Create(ctx context.Context, review *Review) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING %s, %s, %s`,
		reviewTable.Table, reviewTable.UserID, reviewTable.BookID, reviewTable.Rating, reviewTable.Comment,
		reviewTable.ID, reviewTable.CreatedAt, reviewTable.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		review.UserID, review.BookID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)

	return createError(err)
}

// createError maps insert failures to domain errors.
func createError(err error) error {
	if dberr.IsForeignKeyViolation(err, reviewTable.BookFK) {
		return apperr.NotFound("Book")
	}

	wrapped := dberr.Wrap(err, "Review")
	if dberr.IsUniqueViolation(wrapped, reviewTable.UserBookKey) {
		return apperr.Conflict(MessageAlreadyReviewed)
	}
	return wrapped
}

func (repository *PostgresRepository) ListByBook(ctx context.Context, bookID int64, page pagination.Params) ([]*Review, int, error) {
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, reviewTable.Table, reviewTable.BookID)
	if err := repository.db.QueryRow(ctx, countQuery, bookID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Review")
	}

	limit, offset := page.Window()
	listQuery := fmt.Sprintf(`%s WHERE r.%s = $1 ORDER BY r.%s DESC, r.%s DESC LIMIT $2 OFFSET $3`,
		selectReview, reviewTable.BookID, reviewTable.CreatedAt, reviewTable.ID)

	rows, err := repository.db.Query(ctx, listQuery, bookID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Review")
	}
	defer rows.Close()

	reviews := make([]*Review, 0, limit)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Review")
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Review")
	}

	return reviews, total, nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id int64) (*Review, error) {
	query := fmt.Sprintf(`%s WHERE r.%s = $1`, selectReview, reviewTable.ID)

	review, err := scanReview(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Review")
	}
	return review, nil
}

func (repository *PostgresRepository) Update(ctx context.Context, review *Review) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = NULLIF($3, ''), %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		reviewTable.Table, reviewTable.Rating, reviewTable.Comment, reviewTable.UpdatedAt,
		reviewTable.ID,
		reviewTable.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query, review.ID, review.Rating, review.Comment).Scan(&review.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "Review")
	}
	return nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, reviewTable.Table, reviewTable.ID)

	tag, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "Review")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}
	return nil
}

func scanReview(row pgx.Row) (*Review, error) {
	review := &Review{}
	err := row.Scan(
		&review.ID, &review.BookID, &review.UserID, &review.Rating, &review.Comment,
		&review.ReviewerName, &review.CreatedAt, &review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return review, nil
}
