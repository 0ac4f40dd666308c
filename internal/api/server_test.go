// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/api"
	"github.com/taibuivan/bookshelf/internal/catalog/book"
	"github.com/taibuivan/bookshelf/internal/catalog/book/booktest"
	"github.com/taibuivan/bookshelf/internal/platform/config"
	"github.com/taibuivan/bookshelf/internal/platform/metrics"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
	"github.com/taibuivan/bookshelf/internal/social/review"
	"github.com/taibuivan/bookshelf/internal/social/review/reviewtest"
	"github.com/taibuivan/bookshelf/internal/users/auth"
	"github.com/taibuivan/bookshelf/internal/users/auth/authtest"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubChecker struct {
	name string
	err  error
}

func (checker stubChecker) Name() string                  { return checker.name }
func (checker stubChecker) Check(context.Context) error { return checker.err }

func newTestRouter(t *testing.T, checkers ...api.Checker) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	tokens, err := sec.NewTokenService("e2e-secret")
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	books := booktest.NewRepository(&book.Book{Slug: "dune-frank-herbert", Title: "Dune", Author: "Frank Herbert", Genre: "Fiction"})
	bookService := book.NewService(books)
	reviewService := review.NewService(reviewtest.NewRepository(), books, nil)

	liveness, readiness := api.NewHealthHandlers(checkers, discardLogger)
	cfg := &config.Config{Environment: "test", AllowedOrigins: []string{"https://books.example"}}

	return api.NewRouter(ctx, cfg, discardLogger, collector, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   metrics.Handler(registry),
		Auth:      auth.NewHandler(auth.NewService(authtest.NewAccountRepository(), tokens, collector), tokens),
		Books:     book.NewHandler(bookService),
		Reviews:   review.NewHandler(reviewService, tokens),
	})
}

func send(t *testing.T, router http.Handler, method, path, body, authorization string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	decoded := map[string]any{}
	if strings.HasPrefix(recorder.Header().Get("Content-Type"), "application/json") && recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}
	return recorder, decoded
}

/*
TestAuthFlow_EndToEnd walks register, login and a protected write, then
checks that a missing token and an altered token are told apart.
*/
func TestAuthFlow_EndToEnd(t *testing.T) {
	router := newTestRouter(t)

	recorder, body := send(t, router, http.MethodPost, "/api/auth/register", `{"name":"A","email":"a@x.com","password":"pw"}`, "")
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "User registered successfully.", body["message"])

	recorder, body = send(t, router, http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	claims, err := sec.DecodeUnverified(token)
	require.NoError(t, err)
	assert.Equal(t, "A", claims.DisplayName)
	assert.Equal(t, int64(3600), claims.ExpiresAt.Unix()-claims.IssuedAt.Unix())

	payload := `{"book_id":1,"rating":5,"comment":"Great"}`

	recorder, body = send(t, router, http.MethodPost, "/api/reviews", payload, "Bearer "+token)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "Review created successfully", body["message"])
	assert.EqualValues(t, 1, body["reviewId"])

	recorder, body = send(t, router, http.MethodPost, "/api/reviews", payload, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Access token required", body["error"])

	last := token[len(token)-1]
	replacement := "A"
	if last == 'A' {
		replacement = "B"
	}
	recorder, body = send(t, router, http.MethodPost, "/api/reviews", payload, "Bearer "+token[:len(token)-1]+replacement)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "Invalid or expired token", body["error"])

	recorder, body = send(t, router, http.MethodGet, "/api/auth/me", "", "Bearer "+token)
	require.Equal(t, http.StatusOK, recorder.Code)
	profile, _ := body["data"].(map[string]any)
	assert.Equal(t, "a@x.com", profile["email"])
}

func TestAuthFlow_CredentialFailuresAreIndistinguishable(t *testing.T) {
	router := newTestRouter(t)
	send(t, router, http.MethodPost, "/api/auth/register", `{"name":"A","email":"a@x.com","password":"pw"}`, "")

	wrongPassword, wrongBody := send(t, router, http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"nope"}`, "")
	unknownEmail, unknownBody := send(t, router, http.MethodPost, "/api/auth/login", `{"email":"b@x.com","password":"pw"}`, "")

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
	assert.Equal(t, wrongBody, unknownBody)
}

func TestCatalogRoutes(t *testing.T) {
	router := newTestRouter(t)

	recorder, body := send(t, router, http.MethodGet, "/api/books?search=dune&genre=all", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	data, _ := body["data"].([]any)
	assert.Len(t, data, 1)

	recorder, _ = send(t, router, http.MethodGet, "/api/books/1", "", "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder, _ = send(t, router, http.MethodGet, "/api/books/999", "", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder, _ = send(t, router, http.MethodGet, "/api/reviews", "", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHealthEndpoints(t *testing.T) {
	healthy := newTestRouter(t, stubChecker{name: "postgres"})

	recorder, _ := send(t, healthy, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder, body := send(t, healthy, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	data, _ := body["data"].(map[string]any)
	assert.Equal(t, "ready", data["status"])

	degraded := newTestRouter(t, stubChecker{name: "postgres"}, stubChecker{name: "redis", err: errors.New("dial tcp: refused")})
	recorder, body = send(t, degraded, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	data, _ = body["data"].(map[string]any)
	assert.Equal(t, "degraded", data["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	send(t, router, http.MethodPost, "/api/auth/login", `{"email":"ghost@x.com","password":"pw"}`, "")

	recorder, _ := send(t, router, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `bookshelf_auth_events_total{outcome="invalid_credentials"} 1`)
	assert.Contains(t, recorder.Body.String(), "bookshelf_http_requests_total")
}
