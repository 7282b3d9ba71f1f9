// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the customer records exchanged between the store,
// the HTTP API and the views, together with their field validation.
//
// # Description
//
// A Customer owns an ordered, non-empty list of Address values. Addresses have
// no identity of their own beyond their position in that list.
//
// Older single-address records also carry flat address/city/state/pinCode
// fields. The Addresses slice is authoritative; the flat fields are kept for
// wire compatibility and are never reconciled with it.
package datatypes

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// Address
// =============================================================================

// Address is a physical location owned by exactly one customer.
type Address struct {
	Address string `json:"address" msgpack:"address" yaml:"address" validate:"nonblank"`
	City    string `json:"city" msgpack:"city" yaml:"city" validate:"nonblank"`
	State   string `json:"state" msgpack:"state" yaml:"state" validate:"nonblank"`
	PinCode string `json:"pinCode" msgpack:"pin_code" yaml:"pinCode" validate:"digits=6"`
}

// Get returns the value of an address field.
//
// # Outputs
//
//   - string: The field value.
//   - bool: False if f is not an address field.
func (a Address) Get(f Field) (string, bool) {
	switch f {
	case FieldAddress:
		return a.Address, true
	case FieldCity:
		return a.City, true
	case FieldState:
		return a.State, true
	case FieldPinCode:
		return a.PinCode, true
	default:
		return "", false
	}
}

// With returns a copy of a with one field replaced.
//
// # Outputs
//
//   - Address: The updated copy. Other fields are unchanged.
//   - bool: False if f is not an address field (a is returned unchanged).
func (a Address) With(f Field, value string) (Address, bool) {
	switch f {
	case FieldAddress:
		a.Address = value
	case FieldCity:
		a.City = value
	case FieldState:
		a.State = value
	case FieldPinCode:
		a.PinCode = value
	default:
		return a, false
	}
	return a, true
}

// String renders the address the way list and profile views show it:
// "12 Main St, Springfield, IL - 600001".
func (a Address) String() string {
	return fmt.Sprintf("%s, %s, %s - %s", a.Address, a.City, a.State, a.PinCode)
}

// CloneAddresses returns an independent copy of addrs.
// A nil input yields an empty, non-nil slice.
func CloneAddresses(addrs []Address) []Address {
	out := make([]Address, len(addrs))
	copy(out, addrs)
	return out
}

// =============================================================================
// Customer
// =============================================================================

// Customer is a person record with identity, contact fields and addresses.
type Customer struct {
	ID        string    `json:"id" msgpack:"id" yaml:"id"`
	FirstName string    `json:"firstName" msgpack:"first_name" yaml:"firstName"`
	LastName  string    `json:"lastName" msgpack:"last_name" yaml:"lastName"`
	Phone     string    `json:"phone" msgpack:"phone" yaml:"phone"`
	Email     string    `json:"email,omitempty" msgpack:"email,omitempty" yaml:"email,omitempty"`
	Addresses []Address `json:"addresses" msgpack:"addresses" yaml:"addresses"`
	CreatedAt time.Time `json:"createdAt" msgpack:"created_at" yaml:"createdAt,omitempty"`

	// Legacy single-address fields. See the package comment.
	Address string `json:"address,omitempty" msgpack:"address,omitempty" yaml:"address,omitempty"`
	City    string `json:"city,omitempty" msgpack:"city,omitempty" yaml:"city,omitempty"`
	State   string `json:"state,omitempty" msgpack:"state,omitempty" yaml:"state,omitempty"`
	PinCode string `json:"pinCode,omitempty" msgpack:"pin_code,omitempty" yaml:"pinCode,omitempty"`
}

// FullName returns "First Last".
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// HasMultipleAddresses reports whether the customer has more than one address.
func (c Customer) HasMultipleAddresses() bool {
	return len(c.Addresses) > 1
}

// Clone returns a deep copy; the Addresses slice is not shared.
func (c Customer) Clone() Customer {
	c.Addresses = CloneAddresses(c.Addresses)
	return c
}

// Validate checks a complete stored record.
//
// # Description
//
// Used for records that did not come through the create form, such as seed
// files. Contact fields follow the create rules and every address must pass
// ValidateAddress.
//
// # Outputs
//
//   - error: Nil if valid. Otherwise ErrNoAddresses or a description of the
//     first failing field.
func (c Customer) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("customer id is required")
	}
	contact := CreateCustomerRequest{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
		Email:     c.Email,
	}
	if errs := validateContact(contact); !errs.Empty() {
		field, msg := errs.First()
		return fmt.Errorf("customer %s: %s: %s", c.ID, field, msg)
	}
	if len(c.Addresses) == 0 {
		return fmt.Errorf("customer %s: %w", c.ID, ErrNoAddresses)
	}
	if idx, errs := ValidateAddresses(c.Addresses); idx >= 0 {
		field, msg := errs.First()
		return fmt.Errorf("customer %s: address %d: %s: %s", c.ID, idx, field, msg)
	}
	return nil
}

// =============================================================================
// Requests
// =============================================================================

// CreateCustomerRequest carries the fields of the create form.
//
// # Description
//
// The form collects one address. ID is normally generated by the caller
// just before submission; the store rejects an ID that already exists.
type CreateCustomerRequest struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName" validate:"nonblank"`
	LastName  string `json:"lastName" validate:"nonblank"`
	Phone     string `json:"phone" validate:"digits=10"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Address   string `json:"address" validate:"nonblank"`
	City      string `json:"city" validate:"nonblank"`
	State     string `json:"state" validate:"nonblank"`
	PinCode   string `json:"pinCode" validate:"digits=6"`
}

// PrimaryAddress returns the single address collected by the form.
func (r CreateCustomerRequest) PrimaryAddress() Address {
	return Address{Address: r.Address, City: r.City, State: r.State, PinCode: r.PinCode}
}

// ToCustomer builds the stored record for a create request.
//
// The flat legacy fields are populated from the form and Addresses holds the
// same address as its only element.
func (r CreateCustomerRequest) ToCustomer(createdAt time.Time) Customer {
	return Customer{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Email:     r.Email,
		Addresses: []Address{r.PrimaryAddress()},
		CreatedAt: createdAt,
		Address:   r.Address,
		City:      r.City,
		State:     r.State,
		PinCode:   r.PinCode,
	}
}

// UpdateAddressesRequest is the body of PUT /v1/customers/:id/addresses.
type UpdateAddressesRequest struct {
	Addresses []Address `json:"addresses"`
}
