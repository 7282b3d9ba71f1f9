// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AleutianAI/custdesk/services/customers/api"
	"github.com/AleutianAI/custdesk/services/customers/datatypes"
	"github.com/AleutianAI/custdesk/services/customers/query"
	"github.com/gin-gonic/gin"
)

// MaxPageSize caps the pageSize query parameter.
const MaxPageSize = 100

// listQueryParams are the GET /v1/customers parameters that switch on the
// filter/sort/page pipeline.
var listQueryParams = []string{"search", "city", "state", "pinCode", "sort", "dir", "page", "pageSize"}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, datatypes.HealthResponse{Status: "ok"})
}

// ListCustomers returns every customer, or one pipeline page when any of
// the list query parameters is present.
//
// # Inputs
//
//   - svc: Customer service.
//   - defaultPageSize: Page size used when pageSize is absent.
func ListCustomers(svc api.Service, defaultPageSize int) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := svc.ListCustomers(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}

		if !hasAnyQuery(c, listQueryParams) {
			c.JSON(http.StatusOK, datatypes.CustomerListResponse{Customers: all})
			return
		}

		params, msg := parseListParams(c, defaultPageSize)
		if msg != "" {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: msg, Code: datatypes.CodeBadRequest})
			return
		}

		res := query.Run(all, params)
		c.JSON(http.StatusOK, datatypes.CustomerListResponse{
			Customers:  res.Rows,
			TotalPages: &res.TotalPages,
			Total:      &res.Total,
		})
	}
}

// MultiAddressSearch returns customers with more than one address.
func MultiAddressSearch(svc api.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := svc.ListCustomers(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, datatypes.CustomerListResponse{
			Customers: query.MultiAddress(all, c.Query("search")),
		})
	}
}

// CreateCustomer handles POST /v1/customers.
func CreateCustomer(svc api.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.CreateCustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			slog.Warn("invalid create request body", "error", err)
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
				Error: "request body must be a JSON customer",
				Code:  datatypes.CodeBadRequest,
			})
			return
		}

		created, err := svc.CreateCustomer(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		slog.Info("customer created", "id", created.ID)
		c.JSON(http.StatusCreated, created)
	}
}

// GetCustomer handles GET /v1/customers/:id.
func GetCustomer(svc api.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, err := svc.GetCustomer(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

// DeleteCustomer handles DELETE /v1/customers/:id.
func DeleteCustomer(svc api.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := svc.DeleteCustomer(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		slog.Info("customer deleted", "id", id)
		c.JSON(http.StatusOK, datatypes.DeleteResponse{Status: "deleted", ID: id})
	}
}

// UpdateCustomerAddresses handles PUT /v1/customers/:id/addresses.
func UpdateCustomerAddresses(svc api.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.UpdateAddressesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
				Error: `request body must be {"addresses": [...]}`,
				Code:  datatypes.CodeBadRequest,
			})
			return
		}

		updated, err := svc.UpdateCustomerAddresses(c.Request.Context(), c.Param("id"), req.Addresses)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// =============================================================================
// Helpers
// =============================================================================

// writeError maps service errors onto status codes. Internal error text is
// logged, never returned.
func writeError(c *gin.Context, err error) {
	var ve *api.ValidationError
	switch {
	case errors.As(err, &ve):
		resp := datatypes.ErrorResponse{
			Error:  ve.Error(),
			Code:   datatypes.CodeValidation,
			Fields: ve.Fields.Map(),
		}
		if ve.Index >= 0 {
			idx := ve.Index
			resp.Index = &idx
		}
		c.JSON(http.StatusBadRequest, resp)
	case errors.Is(err, api.ErrNotFound):
		c.JSON(http.StatusNotFound, datatypes.ErrorResponse{Error: "customer not found", Code: datatypes.CodeNotFound})
	case errors.Is(err, api.ErrDuplicateIdentifier):
		c.JSON(http.StatusConflict, datatypes.ErrorResponse{
			Error:  api.ErrDuplicateIdentifier.Error(),
			Code:   datatypes.CodeDuplicateIdentifier,
			Fields: map[string]string{string(datatypes.FieldID): api.ErrDuplicateIdentifier.Error()},
		})
	case errors.Is(err, api.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, datatypes.ErrorResponse{
			Error:  api.ErrDuplicateEmail.Error(),
			Code:   datatypes.CodeDuplicateEmail,
			Fields: map[string]string{string(datatypes.FieldEmail): api.ErrDuplicateEmail.Error()},
		})
	default:
		slog.Error("customer operation failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, datatypes.ErrorResponse{Error: "internal error", Code: datatypes.CodeInternal})
	}
}

func hasAnyQuery(c *gin.Context, keys []string) bool {
	for _, k := range keys {
		if _, ok := c.GetQuery(k); ok {
			return true
		}
	}
	return false
}

// parseListParams reads the pipeline parameters. The second result is a
// client-facing message when page or pageSize is malformed.
func parseListParams(c *gin.Context, defaultPageSize int) (query.Params, string) {
	p := query.Params{
		Search:    c.Query("search"),
		City:      c.Query("city"),
		State:     c.Query("state"),
		PinCode:   c.Query("pinCode"),
		SortField: query.ParseSortField(c.Query("sort")),
		SortDir:   query.ParseSortDir(c.Query("dir")),
		Page:      1,
		PageSize:  defaultPageSize,
	}

	if raw, ok := c.GetQuery("page"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, "page must be a positive integer"
		}
		p.Page = n
	}
	if raw, ok := c.GetQuery("pageSize"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxPageSize {
			return p, "pageSize must be between 1 and " + strconv.Itoa(MaxPageSize)
		}
		p.PageSize = n
	}
	return p, ""
}
