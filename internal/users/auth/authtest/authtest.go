// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package authtest provides an in-memory [auth.AccountRepository] for tests.
package authtest

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/users/auth"
)

// AccountRepository implements [auth.AccountRepository] over a map keyed by email.
// It enforces email uniqueness like the UNIQUE constraint does and exposes
// error fields for behavior injection.
type AccountRepository struct {
	mu       sync.Mutex
	accounts map[string]*auth.Account
	nextID   int64

	CreateErr error
	FindErr   error
}

// NewAccountRepository returns an empty repository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[string]*auth.Account)}
}

func (fake *AccountRepository) Create(_ context.Context, account *auth.Account) error {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	if fake.CreateErr != nil {
		return fake.CreateErr
	}
	if _, exists := fake.accounts[account.Email]; exists {
		return apperr.DuplicateEmail()
	}

	fake.nextID++
	account.ID = fake.nextID
	account.CreatedAt = time.Now()

	stored := *account
	fake.accounts[account.Email] = &stored
	return nil
}

func (fake *AccountRepository) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	if fake.FindErr != nil {
		return nil, fake.FindErr
	}
	account, ok := fake.accounts[email]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	clone := *account
	return &clone, nil
}

func (fake *AccountRepository) FindByID(_ context.Context, id int64) (*auth.Account, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	if fake.FindErr != nil {
		return nil, fake.FindErr
	}
	for _, account := range fake.accounts {
		if account.ID == id {
			clone := *account
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

// Count returns the number of stored accounts.
func (fake *AccountRepository) Count() int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return len(fake.accounts)
}
