// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
)

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	return envelope
}

/*
TestError_AppError maps the taxonomy onto status codes.
*/
func TestError_AppError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing_token", apperr.MissingToken(), http.StatusUnauthorized, apperr.CodeMissingToken},
		{"invalid_token", apperr.InvalidToken(errors.New("bad sig")), http.StatusForbidden, apperr.CodeInvalidToken},
		{"invalid_credentials", apperr.InvalidCredentials(), http.StatusUnauthorized, apperr.CodeInvalidCredentials},
		{"duplicate_email", apperr.DuplicateEmail(), http.StatusBadRequest, apperr.CodeDuplicateEmail},
		{"configuration", apperr.Configuration(errors.New("no secret")), http.StatusInternalServerError, apperr.CodeConfiguration},
		{"not_found", apperr.NotFound("Book"), http.StatusNotFound, apperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/", nil)

			respond.Error(recorder, request, tt.err)

			assert.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, tt.code, decodeError(t, recorder).Code)
		})
	}
}

/*
TestError_HidesInternalDetail never leaks the raw error text.
*/
func TestError_HidesInternalDetail(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	respond.Error(recorder, request, errors.New("pq: relation users.account does not exist"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	envelope := decodeError(t, recorder)
	assert.Equal(t, apperr.CodeInternal, envelope.Code)
	assert.NotContains(t, envelope.Error, "relation")
}

func TestMessage(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Message(recorder, http.StatusCreated, "User registered successfully.")

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"message":"User registered successfully."}`, recorder.Body.String())
}
