// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
)

// # Account Repository

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
Create inserts a row into users.account.

Description: Relies on the account_email_key constraint instead of a prior
lookup, so two concurrent registrations for one email yield exactly one row.

Parameters:
  - ctx: context.Context
  - account: *Account (ID and CreatedAt are filled from RETURNING)

Returns:
  - error: apperr.DuplicateEmail or database errors
*/
func (repository *PostgresAccountRepository) Create(ctx context.Context, account *Account) error {
	const query = `
		INSERT INTO users.account (display_name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := repository.pool.QueryRow(ctx, query,
		account.DisplayName,
		account.Email,
		account.PasswordHash,
	).Scan(&account.ID, &account.CreatedAt)

	if err != nil {
		wrapped := dberr.Wrap(err, "Account")
		if dberr.IsUniqueViolation(wrapped, EmailConstraint) {
			return apperr.DuplicateEmail()
		}
		return fmt.Errorf("postgres_account_repo_create_failed: %w", wrapped)
	}

	return nil
}

/*
FindByEmail retrieves an account by its unique email address.

Parameters:
  - ctx: context.Context
  - email: string (already normalized)

Returns:
  - *Account: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	const query = `
		SELECT id, display_name, email, password_hash, created_at
		FROM users.account
		WHERE email = $1`

	return repository.scanOne(ctx, query, email)
}

/*
FindByID retrieves an account by its identity.

Parameters:
  - ctx: context.Context
  - id: int64

Returns:
  - *Account: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByID(ctx context.Context, id int64) (*Account, error) {
	const query = `
		SELECT id, display_name, email, password_hash, created_at
		FROM users.account
		WHERE id = $1`

	return repository.scanOne(ctx, query, id)
}

func (repository *PostgresAccountRepository) scanOne(ctx context.Context, query string, argument any) (*Account, error) {
	account := &Account{}
	err := repository.pool.QueryRow(ctx, query, argument).Scan(
		&account.ID,
		&account.DisplayName,
		&account.Email,
		&account.PasswordHash,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Account")
	}

	return account, nil
}
