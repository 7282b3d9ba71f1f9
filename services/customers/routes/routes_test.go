// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AleutianAI/custdesk/services/customers/api"
	"github.com/AleutianAI/custdesk/services/customers/observability"
	"github.com/AleutianAI/custdesk/services/customers/store"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// ============================================================================
// Test Setup
// ============================================================================

func init() {
	// Set Gin to test mode to reduce noise in test output
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, opts Options) (*gin.Engine, *prometheus.Registry) {
	t.Helper()
	repo, err := store.Open(store.Config{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	reg := prometheus.NewRegistry()
	if opts.Metrics == nil {
		opts.Metrics = observability.NewCustomerMetrics(reg)
	}
	if opts.Gatherer == nil {
		opts.Gatherer = reg
	}

	router := gin.New()
	SetupRoutes(router, api.NewLocal(repo, nil, api.WithRecorder(opts.Metrics)), opts)
	return router, reg
}

// ============================================================================
// SetupRoutes Tests
// ============================================================================

func TestSetupRoutes_RegistersEndpoints(t *testing.T) {
	router, _ := newRouter(t, Options{})

	expectedRoutes := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/metrics"},
		{"GET", "/v1/customers"},
		{"POST", "/v1/customers"},
		{"GET", "/v1/customers/multi-address"},
		{"GET", "/v1/customers/:id"},
		{"DELETE", "/v1/customers/:id"},
		{"PUT", "/v1/customers/:id/addresses"},
	}

	routes := router.Routes()
	for _, expected := range expectedRoutes {
		found := false
		for _, r := range routes {
			if r.Method == expected.method && r.Path == expected.path {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected route %s %s not found", expected.method, expected.path)
		}
	}

	if len(routes) != len(expectedRoutes) {
		t.Errorf("Expected %d routes, got %d", len(expectedRoutes), len(routes))
	}
}

func TestSetupRoutes_HealthEndpoint(t *testing.T) {
	router, _ := newRouter(t, Options{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header to be set")
	}
}

func TestSetupRoutes_MultiAddressIsNotAnID(t *testing.T) {
	router, _ := newRouter(t, Options{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/customers/multi-address", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 from multi-address search, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSetupRoutes_MetricsEndpoint(t *testing.T) {
	router, reg := newRouter(t, Options{})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/customers", nil))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body, _ := io.ReadAll(w.Body)
	if !strings.Contains(string(body), "custdesk_customers_http_requests_total") {
		t.Errorf("Expected request counter in /metrics output")
	}

	n, err := testutil.GatherAndCount(reg, "custdesk_customers_operations_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected one operations series (list/ok), got %d", n)
	}
}

func TestSetupRoutes_RateLimit(t *testing.T) {
	router, _ := newRouter(t, Options{RateLimitRPS: 0.001, RateLimitBurst: 1})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("Expected [200 429], got %v", codes)
	}
}

func TestSetupRoutes_Tracing(t *testing.T) {
	router, _ := newRouter(t, Options{Tracing: true, ServiceName: "custdesk-test"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 with tracing enabled, got %d", w.Code)
	}
}
