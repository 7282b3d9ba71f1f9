// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/AleutianAI/custdesk/pkg/logging"
	"github.com/AleutianAI/custdesk/services/customers/api"
	"github.com/AleutianAI/custdesk/services/customers/handlers"
	"github.com/AleutianAI/custdesk/services/customers/middleware"
	"github.com/AleutianAI/custdesk/services/customers/observability"
	"github.com/AleutianAI/custdesk/services/customers/query"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Options configures SetupRoutes. The zero value is usable.
type Options struct {
	// PageSize is the default page size for paged list requests.
	PageSize int

	// RateLimitRPS and RateLimitBurst configure the request limiter.
	// RateLimitRPS <= 0 disables it.
	RateLimitRPS   float64
	RateLimitBurst int

	// Tracing adds the otelgin middleware. The tracer provider is whatever
	// was installed with otel.SetTracerProvider.
	Tracing bool

	// ServiceName labels spans. Default "custdesk".
	ServiceName string

	Logger  *logging.Logger
	Metrics *observability.CustomerMetrics

	// Gatherer backs /metrics. Default prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

func SetupRoutes(router *gin.Engine, svc api.Service, opts Options) {
	if opts.PageSize <= 0 {
		opts.PageSize = query.DefaultPageSize
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "custdesk"
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	if opts.Tracing {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}
	router.Use(
		middleware.RequestID(),
		middleware.AccessLog(opts.Logger, opts.Metrics),
		middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst, opts.Metrics),
	)

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		customers := v1.Group("/customers")
		{
			customers.GET("", handlers.ListCustomers(svc, opts.PageSize))
			customers.POST("", handlers.CreateCustomer(svc))
			customers.GET("/multi-address", handlers.MultiAddressSearch(svc))
			customers.GET("/:id", handlers.GetCustomer(svc))
			customers.DELETE("/:id", handlers.DeleteCustomer(svc))
			customers.PUT("/:id/addresses", handlers.UpdateCustomerAddresses(svc))
		}
	}
}
