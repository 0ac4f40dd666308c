// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/platform/metrics"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
)

// # Contracts & Types

// TokenIssuer defines the contract for signing bearer tokens.
type TokenIssuer interface {
	// IssueToken signs a claim set for an already-verified identity.
	//
	// # Returns
	//   - A signed token, or a configuration error if no secret is available.
	IssueToken(identityID int64, displayName string) (string, error)
}

// EventRecorder counts authentication outcomes.
type EventRecorder interface {
	RecordAuth(outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordAuth(string) {}

// Service implements account registration and login.
//
// # Review Process
//
// This service is critical for security. Changes to hashing, lookup order or
// error mapping must keep unknown-email and wrong-password failures
// indistinguishable.
type Service struct {
	accounts AccountRepository
	tokens   TokenIssuer
	events   EventRecorder
}

// NewService constructs a new [Service] with necessary dependencies.
// A nil recorder disables outcome counting.
func NewService(accounts AccountRepository, tokens TokenIssuer, events EventRecorder) *Service {
	if events == nil {
		events = noopRecorder{}
	}
	return &Service{accounts: accounts, tokens: tokens, events: events}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new reader.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

/*
Register hashes the password and persists a new account.

Description: The email is normalized first. There is no "does it exist"
lookup: the storage UNIQUE constraint decides, and its violation surfaces as
apperr.DuplicateEmail.

Parameters:
  - ctx: context.Context
  - input: RegisterInput (already validated by the handler)

Returns:
  - *Account: Created entity
  - err: DuplicateEmail or storage errors
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*Account, error) {
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	account := &Account{
		DisplayName:  input.Name,
		Email:        NormalizeEmail(input.Email),
		PasswordHash: hashedPassword,
	}

	if err := service.accounts.Create(ctx, account); err != nil {
		if apperr.HasCode(err, apperr.CodeDuplicateEmail) {
			service.events.RecordAuth(metrics.AuthDuplicateEmail)
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.events.RecordAuth(metrics.AuthRegistered)
	ctxutil.GetLogger(ctx).InfoContext(ctx, "account_registered", slog.Int64("identity_id", account.ID))

	return account, nil
}

// # Authentication Flow

/*
VerifyCredentials checks an email/password pair against the stored hash.

Description: An unknown email and a wrong password both return
apperr.InvalidCredentials. For unknown emails a throwaway bcrypt comparison
still runs so both failures cost the same time.

Parameters:
  - ctx: context.Context
  - email: string
  - password: string

Returns:
  - *Identity: The verified identity
  - err: InvalidCredentials or storage errors
*/
func (service *Service) VerifyCredentials(ctx context.Context, email, password string) (*Identity, error) {
	account, err := service.accounts.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if !apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, fmt.Errorf("auth_service_lookup_failed: %w", err)
		}
		sec.BurnPasswordCheck(password)
		service.events.RecordAuth(metrics.AuthInvalidCredentials)
		return nil, apperr.InvalidCredentials()
	}

	if !sec.CheckPasswordHash(password, account.PasswordHash) {
		service.events.RecordAuth(metrics.AuthInvalidCredentials)
		return nil, apperr.InvalidCredentials()
	}

	return &Identity{ID: account.ID, DisplayName: account.DisplayName}, nil
}

/*
Login verifies credentials and issues a bearer token.

Parameters:
  - ctx: context.Context
  - email: string
  - password: string

Returns:
  - string: Signed token valid for one hour
  - err: InvalidCredentials, ConfigurationError or storage errors
*/
func (service *Service) Login(ctx context.Context, email, password string) (string, error) {
	identity, err := service.VerifyCredentials(ctx, email, password)
	if err != nil {
		return "", err
	}

	token, err := service.tokens.IssueToken(identity.ID, identity.DisplayName)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeConfiguration) {
			return "", err
		}
		return "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	service.events.RecordAuth(metrics.AuthLoginSucceeded)
	ctxutil.GetLogger(ctx).InfoContext(ctx, "login_succeeded", slog.Int64("identity_id", identity.ID))

	return token, nil
}

/*
Profile returns the stored account of an authenticated identity.

Parameters:
  - ctx: context.Context
  - identityID: int64 (from verified claims)

Returns:
  - *Account: The account
  - err: NotFound when the account was removed after the token was issued
*/
func (service *Service) Profile(ctx context.Context, identityID int64) (*Account, error) {
	return service.accounts.FindByID(ctx, identityID)
}
