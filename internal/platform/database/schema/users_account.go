// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns used by the PostgreSQL stores,
// so queries assembled with fmt.Sprintf stay in sync with the migrations.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table        string
	ID           string
	DisplayName  string
	Email        string
	PasswordHash string
	CreatedAt    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:        "users.account",
	ID:           "id",
	DisplayName:  "display_name",
	Email:        "email",
	PasswordHash: "password_hash",
	CreatedAt:    "created_at",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.DisplayName, t.Email, t.PasswordHash, t.CreatedAt}
}
