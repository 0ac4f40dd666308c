// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ingest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/catalog/ingest"
)

func TestClient_Search(t *testing.T) {
	var captured url.Values
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		captured = request.URL.Query()
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"totalItems":1,"items":[{"id":"v1","volumeInfo":{"title":"Dune","authors":["Frank Herbert"],"publishedDate":"1965-08-01"}}]}`))
	}))
	defer server.Close()

	client := ingest.NewClient(server.URL, "k-123", 0)
	volumes, err := client.Search(context.Background(), "science fiction")
	require.NoError(t, err)

	require.Len(t, volumes, 1)
	assert.Equal(t, "Dune", volumes[0].VolumeInfo.Title)
	assert.Equal(t, "science fiction", captured.Get("q"))
	assert.Equal(t, "40", captured.Get("maxResults"))
	assert.Equal(t, "books", captured.Get("printType"))
	assert.Equal(t, "relevance", captured.Get("orderBy"))
	assert.Equal(t, "k-123", captured.Get("key"))
}

func TestClient_Search_OmitsPlaceholderKey(t *testing.T) {
	var hasKey bool
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		hasKey = request.URL.Query().Has("key")
		_, _ = writer.Write([]byte(`{"totalItems":0}`))
	}))
	defer server.Close()

	volumes, err := ingest.NewClient(server.URL, "your_api_key_here", 0).Search(context.Background(), "history")
	require.NoError(t, err)
	assert.NotNil(t, volumes)
	assert.Empty(t, volumes)
	assert.False(t, hasKey)
}

func TestClient_Search_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		http.Error(writer, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := ingest.NewClient(server.URL, "", 0).Search(context.Background(), "romance")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestClient_Search_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		t.Error("request must not be sent")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ingest.NewClient(server.URL, "", 1).Search(ctx, "mystery")
	assert.Error(t, err)
}
