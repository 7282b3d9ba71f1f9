// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// =============================================================================
// HTTP Wire Types
// =============================================================================

// Error codes carried in ErrorResponse.Code.
const (
	CodeValidation          = "validation"
	CodeDuplicateIdentifier = "duplicate_identifier"
	CodeDuplicateEmail      = "duplicate_email"
	CodeNotFound            = "not_found"
	CodeBadRequest          = "bad_request"
	CodeRateLimited         = "rate_limited"
	CodeInternal            = "internal"
)

// ErrorResponse is the body of every non-2xx response.
//
// Index is set only for address-list validation failures and points at the
// first failing element.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	Index  *int              `json:"index,omitempty"`
}

// CustomerListResponse is the body of GET /v1/customers and
// GET /v1/customers/multi-address.
//
// TotalPages and Total are present only when the request asked for a page.
type CustomerListResponse struct {
	Customers  []Customer `json:"customers"`
	TotalPages *int       `json:"totalPages,omitempty"`
	Total      *int       `json:"total,omitempty"`
}

// DeleteResponse is the body of a successful DELETE.
type DeleteResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
