// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides metrics for the customer service.
//
// # Description
//
// Prometheus metrics covering:
//   - HTTP requests (by method, route and status)
//   - Request latency
//   - Customer operations (by operation and outcome)
//   - Number of stored customers
//   - Requests rejected by the rate limiter
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "custdesk"

// Subsystem for customer metrics
const customersSubsystem = "customers"

// CustomerMetrics holds all Prometheus metrics for the customer service.
//
// # Fields
//
//   - RequestsTotal: HTTP requests by method, route and status code.
//   - RequestDurationSeconds: HTTP latency by method and route.
//   - OperationsTotal: Service operations by operation and outcome.
//   - CustomersStored: Current number of customers in the store.
//   - RateLimitedTotal: Requests rejected with 429.
type CustomerMetrics struct {
	// Labels: method, route, status
	RequestsTotal *prometheus.CounterVec

	// Labels: method, route
	RequestDurationSeconds *prometheus.HistogramVec

	// Labels: operation (create, delete, update_addresses, get, list),
	// outcome (ok, invalid, not_found, duplicate, error)
	OperationsTotal *prometheus.CounterVec

	CustomersStored prometheus.Gauge

	RateLimitedTotal prometheus.Counter
}

// DefaultMetrics is the process-wide instance registered by InitMetrics.
var DefaultMetrics *CustomerMetrics

// InitMetrics registers the metrics with the default Prometheus registry.
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *CustomerMetrics {
	DefaultMetrics = NewCustomerMetrics(prometheus.DefaultRegisterer)
	return DefaultMetrics
}

// NewCustomerMetrics registers the metrics with reg.
//
// Tests pass a fresh prometheus.NewRegistry() so they never collide with
// the global registry.
func NewCustomerMetrics(reg prometheus.Registerer) *CustomerMetrics {
	factory := promauto.With(reg)
	return &CustomerMetrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: customersSubsystem,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),

		RequestDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: customersSubsystem,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "route"},
		),

		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: customersSubsystem,
				Name:      "operations_total",
				Help:      "Customer operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),

		CustomersStored: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: customersSubsystem,
				Name:      "stored",
				Help:      "Number of customers currently in the store",
			},
		),

		RateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: customersSubsystem,
				Name:      "rate_limited_total",
				Help:      "Requests rejected by the rate limiter",
			},
		),
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

// RecordRequest records one finished HTTP request.
//
// # Inputs
//
//   - method: HTTP method.
//   - route: Route template (e.g. "/v1/customers/:id"), never the raw path.
//   - status: Response status code.
//   - elapsed: Time spent handling the request.
func (m *CustomerMetrics) RecordRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDurationSeconds.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordOperation counts one service operation. Implements api.Recorder.
func (m *CustomerMetrics) RecordOperation(op, outcome string) {
	m.OperationsTotal.WithLabelValues(op, outcome).Inc()
}

// SetCustomersStored sets the stored-customers gauge. Implements
// api.Recorder.
func (m *CustomerMetrics) SetCustomersStored(n int) {
	m.CustomersStored.Set(float64(n))
}

// RecordRateLimited counts one rejected request.
func (m *CustomerMetrics) RecordRateLimited() {
	m.RateLimitedTotal.Inc()
}
