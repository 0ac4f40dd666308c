// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/bookshelf/internal/catalog/book"
	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
	"github.com/taibuivan/bookshelf/internal/social/review"
	"github.com/taibuivan/bookshelf/pkg/pagination"
)

// DefaultTimeout bounds every API call.
const DefaultTimeout = 10 * time.Second

// APIError is a decoded error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details []apperr.FieldError
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("bookshelf: HTTP %d", e.Status)
	}
	return fmt.Sprintf("bookshelf: %s (%d %s)", e.Message, e.Status, e.Code)
}

// IsAuthFailure reports whether the server refused the bearer token itself,
// either because none was sent or because it failed verification.
//
// Other 401 and 403 answers, such as wrong credentials or editing another
// reader's review, are not auth failures.
func IsAuthFailure(err error) bool {
	var apiError *APIError
	if !errors.As(err, &apiError) {
		return false
	}
	return apiError.Code == apperr.CodeMissingToken || apiError.Code == apperr.CodeInvalidToken
}

// Client calls the Bookshelf API, attaching the session token when present.
type Client struct {
	baseURL    string
	session    *Session
	httpClient *http.Client
}

// New creates a [Client] for a server root such as "http://localhost:5000".
func New(baseURL string, session *Session) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api",
		session:    session,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Session returns the session the client authenticates with.
func (client *Client) Session() *Session {
	return client.session
}

// # Authentication

// SignUp registers an account. It does not sign in.
func (client *Client) SignUp(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return client.do(ctx, http.MethodPost, "/auth/register", body, nil)
}

// SignIn exchanges credentials for a token and stores it in the session.
// On failure the current session, signed in or not, is left untouched.
func (client *Client) SignIn(ctx context.Context, email, password string) (*sec.AuthClaims, error) {
	var response struct {
		Token string `json:"token"`
	}

	body := map[string]string{"email": email, "password": password}
	if err := client.do(ctx, http.MethodPost, "/auth/login", body, &response); err != nil {
		return nil, err
	}

	return client.session.SignIn(response.Token)
}

// SignOut discards the stored token without contacting the server.
func (client *Client) SignOut() error {
	return client.session.SignOut()
}

// Profile is the server's view of the signed-in account.
type Profile struct {
	IdentityID  int64     `json:"identity_id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Me asks the server to verify the session and describe the account.
func (client *Client) Me(ctx context.Context) (*Profile, error) {
	var envelope struct {
		Data Profile `json:"data"`
	}
	if err := client.do(ctx, http.MethodGet, "/auth/me", nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// # Catalogue

// BookQuery filters a book listing.
type BookQuery struct {
	Search string
	Genre  string
	Page   int
	Limit  int
}

// BookPage is one page of books.
type BookPage struct {
	Data []*book.Book   `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// ListBooks searches the catalogue.
func (client *Client) ListBooks(ctx context.Context, query BookQuery) (*BookPage, error) {
	params := url.Values{}
	if query.Search != "" {
		params.Set("search", query.Search)
	}
	if query.Genre != "" {
		params.Set("genre", query.Genre)
	}
	setPage(params, query.Page, query.Limit)

	var page BookPage
	if err := client.do(ctx, http.MethodGet, withQuery("/books", params), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetBook fetches one book with its rating aggregates.
func (client *Client) GetBook(ctx context.Context, id int64) (*book.Book, error) {
	var envelope struct {
		Data book.Book `json:"data"`
	}
	if err := client.do(ctx, http.MethodGet, "/books/"+strconv.FormatInt(id, 10), nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// Genres lists the distinct genres of the catalogue.
func (client *Client) Genres(ctx context.Context) ([]string, error) {
	var envelope struct {
		Data []string `json:"data"`
	}
	if err := client.do(ctx, http.MethodGet, "/books/genres", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// # Reviews

// ReviewPage is one page of a book's reviews.
type ReviewPage struct {
	Data []*review.Review `json:"data"`
	Meta pagination.Meta  `json:"meta"`
}

// ListReviews returns a book's reviews, newest first.
func (client *Client) ListReviews(ctx context.Context, bookID int64, page, limit int) (*ReviewPage, error) {
	params := url.Values{}
	params.Set("bookId", strconv.FormatInt(bookID, 10))
	setPage(params, page, limit)

	var reviews ReviewPage
	if err := client.do(ctx, http.MethodGet, withQuery("/reviews", params), nil, &reviews); err != nil {
		return nil, err
	}
	return &reviews, nil
}

// AddReview posts a review as the signed-in reader and returns its ID.
func (client *Client) AddReview(ctx context.Context, bookID int64, rating int, comment string) (int64, error) {
	body := map[string]any{"book_id": bookID, "rating": rating, "comment": comment}

	var response struct {
		ReviewID int64 `json:"reviewId"`
	}
	if err := client.do(ctx, http.MethodPost, "/reviews", body, &response); err != nil {
		return 0, err
	}
	return response.ReviewID, nil
}

// UpdateReview edits a review of the signed-in reader.
func (client *Client) UpdateReview(ctx context.Context, reviewID int64, rating int, comment string) (*review.Review, error) {
	body := map[string]any{"rating": rating, "comment": comment}

	var envelope struct {
		Data review.Review `json:"data"`
	}
	if err := client.do(ctx, http.MethodPut, "/reviews/"+strconv.FormatInt(reviewID, 10), body, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// DeleteReview removes a review of the signed-in reader.
func (client *Client) DeleteReview(ctx context.Context, reviewID int64) error {
	return client.do(ctx, http.MethodDelete, "/reviews/"+strconv.FormatInt(reviewID, 10), nil, nil)
}

// # Transport

// do sends one request. A 401 or 403 answer to a request that carried the
// session token drops the session.
func (client *Client) do(ctx context.Context, method, path string, body, target any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, reader)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	token, hasToken := client.session.Token()
	if hasToken {
		request.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+token)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("bookshelf: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 400 {
		apiError := decodeError(response)
		if hasToken && IsAuthFailure(apiError) {
			_ = client.session.Reject(token)
		}
		return apiError
	}

	if target == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		return fmt.Errorf("bookshelf: decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(response *http.Response) *APIError {
	apiError := &APIError{Status: response.StatusCode}

	var envelope struct {
		Error   string              `json:"error"`
		Code    string              `json:"code"`
		Details []apperr.FieldError `json:"details"`
	}
	if err := json.NewDecoder(io.LimitReader(response.Body, 64*1024)).Decode(&envelope); err == nil {
		apiError.Message = envelope.Error
		apiError.Code = envelope.Code
		apiError.Details = envelope.Details
	}
	return apiError
}

func setPage(params url.Values, page, limit int) {
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
}

func withQuery(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}
