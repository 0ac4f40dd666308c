// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

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
	bookTable   = schema.CatalogBook
	reviewTable = schema.SocialReview

	// selectBook projects a book row plus its review aggregates.
	selectBook = fmt.Sprintf(`
		SELECT b.%s, b.%s, b.%s, b.%s, b.%s,
		       COALESCE(b.%s, ''), COALESCE(b.%s, ''), COALESCE(b.%s, ''), b.%s,
		       b.%s, b.%s,
		       COALESCE(AVG(r.%s), 0)::float8, COUNT(r.%s)
		FROM %s b
		LEFT JOIN %s r ON r.%s = b.%s`,
		bookTable.ID, bookTable.Slug, bookTable.Title, bookTable.Author, bookTable.Genre,
		bookTable.Description, bookTable.ISBN, bookTable.CoverImageURL, bookTable.PublishedYear,
		bookTable.CreatedAt, bookTable.UpdatedAt,
		reviewTable.Rating, reviewTable.ID,
		bookTable.Table,
		reviewTable.Table, reviewTable.BookID, bookTable.ID,
	)
)

// whereClause builds the filter predicate and its positional arguments.
func whereClause(filter Filter) (string, []any) {
	var (
		clauses   []string
		arguments []any
	)

	if filter.Search != "" {
		arguments = append(arguments, "%"+escapeLike(filter.Search)+"%")
		clauses = append(clauses, fmt.Sprintf("(b.%s ILIKE $%d OR b.%s ILIKE $%d)",
			bookTable.Title, len(arguments), bookTable.Author, len(arguments)))
	}

	if filter.Genre != "" {
		arguments = append(arguments, filter.Genre)
		clauses = append(clauses, fmt.Sprintf("b.%s = $%d", bookTable.Genre, len(arguments)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), arguments
}

// escapeLike neutralizes LIKE wildcards typed by the user.
func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

func (repository *PostgresRepository) List(ctx context.Context, filter Filter, page pagination.Params) ([]*Book, int, error) {
	where, arguments := whereClause(filter)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s b%s`, bookTable.Table, where)
	if err := repository.db.QueryRow(ctx, countQuery, arguments...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Book")
	}

	limit, offset := page.Window()
	listQuery := fmt.Sprintf(`%s%s GROUP BY b.%s ORDER BY b.%s ASC, b.%s ASC LIMIT $%d OFFSET $%d`,
		selectBook, where, bookTable.ID, bookTable.Title, bookTable.ID, len(arguments)+1, len(arguments)+2)

	rows, err := repository.db.Query(ctx, listQuery, append(arguments, limit, offset)...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Book")
	}
	defer rows.Close()

	books := make([]*Book, 0, limit)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Book")
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Book")
	}

	return books, total, nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id int64) (*Book, error) {
	query := fmt.Sprintf(`%s WHERE b.%s = $1 GROUP BY b.%s`, selectBook, bookTable.ID, bookTable.ID)

	book, err := scanBook(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Book")
	}
	return book, nil
}

func (repository *PostgresRepository) Genres(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT %s FROM %s ORDER BY %s ASC`, bookTable.Genre, bookTable.Table, bookTable.Genre)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "Genre")
	}

	genres, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, dberr.Wrap(err, "Genre")
	}
	return genres, nil
}

func (repository *PostgresRepository) Insert(ctx context.Context, book *Book) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8)
		ON CONFLICT (%s) DO NOTHING
		RETURNING %s, %s, %s`,
		bookTable.Table,
		bookTable.Slug, bookTable.Title, bookTable.Author, bookTable.Genre,
		bookTable.Description, bookTable.ISBN, bookTable.CoverImageURL, bookTable.PublishedYear,
		bookTable.Slug,
		bookTable.ID, bookTable.CreatedAt, bookTable.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		book.Slug, book.Title, book.Author, book.Genre,
		book.Description, book.ISBN, book.CoverImageURL, book.PublishedYear,
	).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, dberr.Wrap(err, "Book")
	}
	return true, nil
}

func scanBook(row pgx.Row) (*Book, error) {
	book := &Book{}
	err := row.Scan(
		&book.ID, &book.Slug, &book.Title, &book.Author, &book.Genre,
		&book.Description, &book.ISBN, &book.CoverImageURL, &book.PublishedYear,
		&book.CreatedAt, &book.UpdatedAt,
		&book.AverageRating, &book.TotalReviews,
	)
	if err != nil {
		return nil, err
	}
	return book, nil
}
