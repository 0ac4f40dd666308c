// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics exposes Prometheus counters and histograms for the API.
//
// The [Collector] registers against an injected [prometheus.Registerer] so
// tests can use a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bookshelf"

// Authentication outcomes recorded by [Collector.RecordAuth].
const (
	AuthRegistered         = "registered"
	AuthDuplicateEmail     = "duplicate_email"
	AuthLoginSucceeded     = "login_succeeded"
	AuthInvalidCredentials = "invalid_credentials"
)

// Collector gathers HTTP and authentication metrics.
type Collector struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	authEvents      *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	collector := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Registration and login outcomes.",
		}, []string{"outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Catalogue cache lookups by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		collector.requests,
		collector.requestDuration,
		collector.authEvents,
		collector.cacheLookups,
	)

	return collector
}

// ObserveRequest records one finished HTTP request.
func (collector *Collector) ObserveRequest(method, route string, status int, duration time.Duration) {
	collector.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	collector.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAuth counts an authentication outcome.
func (collector *Collector) RecordAuth(outcome string) {
	collector.authEvents.WithLabelValues(outcome).Inc()
}

// RecordCacheLookup counts a cache hit or miss.
func (collector *Collector) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	collector.cacheLookups.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
