// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Authentication Constraints

const (
	// MaxNameLength mirrors the display_name column width.
	MaxNameLength = 100

	// MaxEmailLength mirrors the email column width.
	MaxEmailLength = 255

	// EmailConstraint is the UNIQUE constraint guarding users.account.email.
	EmailConstraint = "account_email_key"
)

// Response messages of the public auth endpoints.
const (
	MessageRegistered = "User registered successfully."
)
