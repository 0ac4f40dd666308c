// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bookshelf/internal/platform/metrics"
)

func TestHandler_ServesRecordedMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	collector.ObserveRequest(http.MethodPost, "/api/auth/login", http.StatusOK, 15*time.Millisecond)
	collector.RecordAuth(metrics.AuthInvalidCredentials)
	collector.RecordCacheLookup(true)

	recorder := httptest.NewRecorder()
	metrics.Handler(registry).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := recorder.Body.String()
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, body, `bookshelf_http_requests_total{method="POST",route="/api/auth/login",status="200"} 1`)
	assert.Contains(t, body, `bookshelf_auth_events_total{outcome="invalid_credentials"} 1`)
	assert.Contains(t, body, `bookshelf_cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, body, "bookshelf_http_request_duration_seconds_bucket")
}
