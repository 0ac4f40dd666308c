// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// # Google Books Volumes API

const (
	// DefaultBaseURL is the public volumes search endpoint.
	DefaultBaseURL = "https://www.googleapis.com/books/v1/volumes"

	// MaxResults is the largest page the volumes API serves.
	MaxResults = 40

	// placeholderKey ships in sample env files and is never sent.
	placeholderKey = "your_api_key_here"

	requestTimeout  = 15 * time.Second
	maxResponseSize = 4 * 1024 * 1024
	userAgent       = "Bookshelf-Populate/1.0"
)

// Volume is one search hit of the volumes API.
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo carries the bibliographic fields the catalogue keeps.
type VolumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Categories          []string             `json:"categories"`
	PublishedDate       string               `json:"publishedDate"`
	Description         string               `json:"description"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers"`
	ImageLinks          *ImageLinks          `json:"imageLinks"`
}

// IndustryIdentifier is an ISBN_10, ISBN_13 or vendor identifier.
type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// ImageLinks lists cover image URLs.
type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// Client queries the volumes API, throttled by a token bucket.
type Client struct {
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	httpClient *http.Client
}

// NewClient constructs a [Client]. An empty or placeholder apiKey sends
// anonymous requests. requestsPerSecond <= 0 disables throttling.
func NewClient(baseURL, apiKey string, requestsPerSecond float64) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if apiKey == placeholderKey {
		apiKey = ""
	}

	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(limit, 1),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

/*
Search returns up to [MaxResults] book volumes for a term, most relevant first.

Parameters:
  - ctx: context.Context (cancels both the throttle wait and the request)
  - term: string

Returns:
  - []Volume: Hits; empty when the API has no "items" field
  - error: Transport failures and non-2xx statuses
*/
func (client *Client) Search(ctx context.Context, term string) ([]Volume, error) {
	if err := client.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", term)
	params.Set("maxResults", strconv.Itoa(MaxResults))
	params.Set("printType", "books")
	params.Set("orderBy", "relevance")
	if client.apiKey != "" {
		params.Set("key", client.apiKey)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("ingest: build request: %w", err)
	}
	request.Header.Set("User-Agent", userAgent)
	request.Header.Set("Accept", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("ingest: search %q: %w", term, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return nil, fmt.Errorf("ingest: search %q: status %d: %s", term, response.StatusCode, snippet)
	}

	var payload volumesResponse
	if err := json.NewDecoder(io.LimitReader(response.Body, maxResponseSize)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("ingest: decode %q: %w", term, err)
	}

	if payload.Items == nil {
		return []Volume{}, nil
	}
	return payload.Items, nil
}
