// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides HTTP middleware for the customer service.
//
// # Request Flow
//
//	Request
//	   │
//	   ▼
//	RequestID      assigns X-Request-ID (kept if the client sent one)
//	   │
//	   ▼
//	AccessLog      one structured line + metrics per request
//	   │
//	   ▼
//	RateLimit      429 when the token bucket is empty
//	   │
//	   ▼
//	Handler
package middleware

import (
	"net/http"
	"time"

	"github.com/AleutianAI/custdesk/pkg/logging"
	"github.com/AleutianAI/custdesk/services/customers/datatypes"
	"github.com/AleutianAI/custdesk/services/customers/observability"
	"github.com/AleutianAI/custdesk/services/customers/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// =============================================================================
// Context Keys
// =============================================================================

// requestIDKey is the gin context key for the request ID.
const requestIDKey = "custdesk_request_id"

// RequestIDHeader is echoed on every response.
const RequestIDHeader = "X-Request-ID"

// GetRequestID returns the request ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// =============================================================================
// Middleware
// =============================================================================

// RequestID tags each request with an ID.
//
// An incoming X-Request-ID up to 128 bytes is kept; otherwise a new UUID is
// generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RateLimit rejects requests beyond rps (with the given burst) with 429.
//
// # Inputs
//
//   - rps: Sustained requests per second. <= 0 disables limiting.
//   - burst: Bucket size. Values < 1 are treated as 1.
//   - metrics: Optional; counts rejections.
//
// # Limitations
//
//   - One bucket for the whole server, not per client. The service is
//     single-operator.
func RateLimit(rps float64, burst int, metrics *observability.CustomerMetrics) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	return func(c *gin.Context) {
		if !limiter.Allow() {
			if metrics != nil {
				metrics.RecordRateLimited()
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, datatypes.ErrorResponse{
				Error: "rate limit exceeded",
				Code:  datatypes.CodeRateLimited,
			})
			return
		}
		c.Next()
	}
}

// AccessLog logs one line per request and records request metrics.
//
// Route labels use the matched template (c.FullPath()) so IDs never become
// label values.
func AccessLog(logger *logging.Logger, metrics *observability.CustomerMetrics) gin.HandlerFunc {
	if logger == nil {
		logger = logging.Nop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()

		if metrics != nil {
			metrics.RecordRequest(c.Request.Method, route, status, elapsed)
		}

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", route,
			"status", status,
			"latency_ms", elapsed.Milliseconds(),
			"request_id", GetRequestID(c),
		}
		if traceID := telemetry.TraceID(c.Request.Context()); traceID != "" {
			args = append(args, "trace_id", traceID)
		}
		switch {
		case status >= 500:
			logger.Error("request", args...)
		case status >= 400:
			logger.Warn("request", args...)
		default:
			logger.Info("request", args...)
		}
	}
}
