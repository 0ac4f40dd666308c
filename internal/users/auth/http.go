// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/middleware"
	requestutil "github.com/taibuivan/bookshelf/internal/platform/request"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler is strictly responsible for transport concerns (status codes,
// JSON shapes, input validation); credential logic lives in [Service].
type Handler struct {
	authService *Service
	verifier    middleware.TokenVerifier
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, verifier middleware.TokenVerifier) *Handler {
	return &Handler{authService: service, verifier: verifier}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Verifies credentials and returns a bearer token.
//   - GET  /me       : Returns the caller's account (bearer token required).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(handler.verifier))
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type meResponse struct {
	IdentityID  int64     `json:"identity_id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

/*
Register handles the creation of a new account.

POST /api/auth/register

Request:
  - Body: registerRequest (Name, Email, Password)

Response:
  - 201: {"message": "User registered successfully."}
  - 400: VALIDATION_ERROR (missing field, bad email) or DUPLICATE_EMAIL
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	email := NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLength).
		Required(FieldEmail, email).
		MaxLen(FieldEmail, email, MaxEmailLength).
		Required(FieldPassword, input.Password).
		MaxBytes(FieldPassword, input.Password, constants.MaxPasswordBytes)

	if email != "" {
		validator.Email(FieldEmail, email)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	_, err := handler.authService.Register(request.Context(), RegisterInput{
		Name:     input.Name,
		Email:    email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusCreated, MessageRegistered)
}

/*
Login verifies credentials and returns a bearer token.

POST /api/auth/login

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: {"token": "<jwt>"}
  - 400: VALIDATION_ERROR (missing field)
  - 401: INVALID_CREDENTIALS (same body for unknown email and wrong password)
  - 500: CONFIGURATION_ERROR when no signing secret is available
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]string{constants.FieldToken: token})
}

/*
Me returns the account behind the bearer token.

GET /api/auth/me

Response:
  - 200: meResponse
  - 401 / 403: token missing or invalid
  - 404: account no longer exists
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.authService.Profile(request.Context(), claims.IdentityID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	response := meResponse{
		IdentityID:  account.ID,
		DisplayName: account.DisplayName,
		Email:       account.Email,
		CreatedAt:   account.CreatedAt,
	}
	if claims.ExpiresAt != nil {
		response.ExpiresAt = claims.ExpiresAt.Time
	}

	respond.OK(writer, response)
}
