// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements registration, credential verification and token
issuance for Bookshelf readers.

# Architecture

Accounts live in PostgreSQL (users.account). A successful login yields a
signed, self-contained bearer token; the server keeps no session rows, so
possession of an unexpired token is the whole session.
*/
package auth

import (
	"strings"
	"time"
)

// # Domain Entities

// Account is a stored credential record.
type Account struct {
	ID           int64     `json:"identity_id"`
	DisplayName  string    `json:"display_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the result of a successful credential check.
type Identity struct {
	ID          int64
	DisplayName string
}

// NormalizeEmail trims and lower-cases an address so lookups and the UNIQUE
// constraint agree on what "the same email" means.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// # Field Identifiers

// Request field names used in validation details.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
)
