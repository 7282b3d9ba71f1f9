// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package api defines the boundary between customer views and the place
// customers are kept.
//
// # Description
//
// Service is the operation set the view controllers call. Two
// implementations exist:
//
//   - Local: in-process, backed by a *store.Repository.
//   - Client: speaks JSON to a running `custdesk serve`.
//
// Both return the same error values so callers branch with errors.Is and
// errors.As regardless of which one they hold.
package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/AleutianAI/custdesk/services/customers/datatypes"
	"github.com/AleutianAI/custdesk/services/customers/store"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrNotFound is returned when the customer ID is unknown.
	ErrNotFound = store.ErrNotFound

	// ErrDuplicateIdentifier is returned by CreateCustomer when the ID is taken.
	ErrDuplicateIdentifier = store.ErrDuplicateID

	// ErrDuplicateEmail is returned by CreateCustomer when the email is taken.
	ErrDuplicateEmail = store.ErrDuplicateEmail

	// ErrValidation is the sentinel every *ValidationError unwraps to.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports rejected input.
//
// # Fields
//
//   - Index: Position of the failing address for address updates, or -1
//     when the failure is not tied to a list element.
//   - Fields: Per-field messages.
//   - Reason: Optional summary used when Fields is empty (for example an
//     empty address list).
type ValidationError struct {
	Index  int
	Fields datatypes.FieldErrors
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	field, msg := e.Fields.First()
	if field == "" {
		return ErrValidation.Error()
	}
	if e.Index >= 0 {
		return fmt.Sprintf("%s: address %d: %s", ErrValidation, e.Index, msg)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, msg)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// =============================================================================
// Service
// =============================================================================

// Service is the customer operation set.
type Service interface {
	// CreateCustomer stores a new customer built from the form fields.
	// An empty req.ID is replaced with a generated one.
	CreateCustomer(ctx context.Context, req datatypes.CreateCustomerRequest) (*datatypes.Customer, error)

	// DeleteCustomer removes a customer. ErrNotFound if unknown.
	DeleteCustomer(ctx context.Context, id string) error

	// UpdateCustomerAddresses replaces the whole address list.
	UpdateCustomerAddresses(ctx context.Context, id string, addrs []datatypes.Address) (*datatypes.Customer, error)

	// GetCustomer returns one customer. ErrNotFound if unknown.
	GetCustomer(ctx context.Context, id string) (*datatypes.Customer, error)

	// ListCustomers returns every customer in ascending ID order.
	ListCustomers(ctx context.Context) ([]datatypes.Customer, error)
}

// AddressUpdater is the slice of Service the address editor needs.
type AddressUpdater interface {
	UpdateCustomerAddresses(ctx context.Context, id string, addrs []datatypes.Address) (*datatypes.Customer, error)
}

// ValidateAddressList applies the update rules to an address list.
// Returns nil or a *ValidationError.
func ValidateAddressList(addrs []datatypes.Address) error {
	if len(addrs) == 0 {
		return &ValidationError{Index: -1, Reason: datatypes.ErrNoAddresses.Error()}
	}
	if idx, errs := datatypes.ValidateAddresses(addrs); idx >= 0 {
		return &ValidationError{Index: idx, Fields: errs}
	}
	return nil
}
