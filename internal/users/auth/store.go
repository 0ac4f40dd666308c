// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # Account Data Access

// AccountRepository defines the data access contract for credential records.
type AccountRepository interface {

	/*
		Create inserts a new account and fills in its ID and CreatedAt.

		The insert is the only uniqueness check: an existing email must fail
		with apperr.DuplicateEmail, never with a generic error.

		Parameters:
		  - ctx: context.Context
		  - account: *Account

		Returns:
		  - error: apperr.DuplicateEmail or persistence failures
	*/
	Create(ctx context.Context, account *Account) error

	/*
		FindByEmail returns the account registered under a normalized email.

		Parameters:
		  - ctx: context.Context
		  - email: string

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or database errors
	*/
	FindByEmail(ctx context.Context, email string) (*Account, error)

	/*
		FindByID returns the account with the given identity.

		Parameters:
		  - ctx: context.Context
		  - id: int64

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or database errors
	*/
	FindByID(ctx context.Context, id int64) (*Account, error)
}
