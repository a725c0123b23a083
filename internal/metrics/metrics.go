// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

// Package metrics defines the Prometheus collectors for Cinelogue:
// API request instrumentation, recommendation cache efficiency, scorer
// subprocess outcomes, and background refresh failures.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinelogue_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelogue_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinelogue_api_active_requests",
			Help: "Number of API requests currently in flight",
		},
	)

	// Recommendation cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelogue_recommendation_cache_hits_total",
			Help: "Recommendation cache hits (fresh or stale) by kind",
		},
		[]string{"kind"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelogue_recommendation_cache_misses_total",
			Help: "Recommendation cache misses by kind",
		},
		[]string{"kind"},
	)

	StaleServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelogue_recommendation_stale_served_total",
			Help: "Responses served from a stale cache entry by kind",
		},
		[]string{"kind"},
	)

	// RefreshFailures counts failed background refreshes. Failures are never
	// surfaced to callers, so this counter is the only signal besides logs.
	RefreshFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelogue_recommendation_refresh_failures_total",
			Help: "Background cache refresh failures by kind",
		},
		[]string{"kind"},
	)

	// Scorer metrics
	ScorerInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelogue_scorer_invocations_total",
			Help: "External scorer invocations by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	ScorerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinelogue_scorer_duration_seconds",
			Help:    "Wall-clock duration of scorer invocations in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"mode"},
	)

	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinelogue_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	APIRequestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
	APIRequestsTotal.WithLabelValues(method, route, code).Inc()
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordScorerInvocation records one scorer call with its outcome
// ("ok", "process_failure", "parse_failure", "logical_failure").
func RecordScorerInvocation(mode, outcome string, duration time.Duration) {
	ScorerInvocations.WithLabelValues(mode, outcome).Inc()
	ScorerDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// ObserveDBQuery records the duration of one database operation.
func ObserveDBQuery(operation string, start time.Time) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
