// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package views holds the screen controllers: create form, customer list,
// profile and multi-address search.
//
// # Description
//
// Controllers own screen state and talk to customers only through
// api.Service. They know nothing about rendering; the terminal UI reads
// their state and feeds them input.
//
// Each operation that calls the service comes in two shapes:
//
//   - A synchronous method taking ctx and the service (Submit,
//     ConfirmDelete, Load, Commit). Used by tests and the CLI.
//   - A Begin/Finish pair. Begin validates and marks the controller busy,
//     the caller runs the service call elsewhere (a tea.Cmd), then Finish
//     applies the result on the UI goroutine.
//
// Failures from the service never escape as panics or fatal errors: they
// become screen state (field errors, banners, not-found views).
package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/AleutianAI/custdesk/services/customers/api"
	"github.com/AleutianAI/custdesk/services/customers/datatypes"
)

// Messages shown for conflicts reported by the service.
const (
	MsgDuplicateID    = "A customer with this ID already exists"
	MsgDuplicateEmail = "A customer with this email already exists"
)

var (
	// ErrInvalidForm is returned by BeginSubmit when local validation fails.
	// Field messages are in Create.Errors().
	ErrInvalidForm = errors.New("form has errors")

	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("request already in progress")

	errUnknownInput = errors.New("unknown form input")
)

// Create is the new-customer form.
type Create struct {
	form    datatypes.CreateCustomerRequest
	errs    datatypes.FieldErrors
	banner  string
	busy    bool
	created *datatypes.Customer
	newID   func() (string, error)
}

// NewCreate returns an empty form. IDs come from api.NewCustomerID.
func NewCreate() *Create {
	return &Create{newID: api.NewCustomerID}
}

// NewCreateWithIDs returns an empty form that takes IDs from gen.
func NewCreateWithIDs(gen func() (string, error)) *Create {
	return &Create{newID: gen}
}

// Set updates one input and clears that input's error and the banner.
//
// # Outputs
//
//   - error: Non-nil if f is not a form input.
func (c *Create) Set(f datatypes.Field, value string) error {
	slot := c.slot(f)
	if slot == nil {
		return fmt.Errorf("%w: %q", errUnknownInput, f)
	}
	*slot = value
	c.errs.Clear(f)
	c.banner = ""
	return nil
}

// Value returns the current text of an input.
func (c *Create) Value(f datatypes.Field) string {
	if slot := c.slot(f); slot != nil {
		return *slot
	}
	return ""
}

func (c *Create) slot(f datatypes.Field) *string {
	switch f {
	case datatypes.FieldFirstName:
		return &c.form.FirstName
	case datatypes.FieldLastName:
		return &c.form.LastName
	case datatypes.FieldPhone:
		return &c.form.Phone
	case datatypes.FieldEmail:
		return &c.form.Email
	case datatypes.FieldAddress:
		return &c.form.Address
	case datatypes.FieldCity:
		return &c.form.City
	case datatypes.FieldState:
		return &c.form.State
	case datatypes.FieldPinCode:
		return &c.form.PinCode
	default:
		return nil
	}
}

func (c *Create) Errors() datatypes.FieldErrors { return c.errs }
func (c *Create) Banner() string                { return c.banner }
func (c *Create) Busy() bool                    { return c.busy }

// Created is the customer stored by the last successful submission.
func (c *Create) Created() *datatypes.Customer { return c.created }

// Reset clears the form and all messages.
func (c *Create) Reset() {
	gen := c.newID
	*c = Create{newID: gen}
}

// BeginSubmit validates the form and prepares the request.
//
// # Outputs
//
//   - datatypes.CreateCustomerRequest: Request with a fresh ID.
//   - error: ErrBusy, ErrInvalidForm (see Errors), or an ID generator
//     failure (shown in the banner).
func (c *Create) BeginSubmit() (datatypes.CreateCustomerRequest, error) {
	if c.busy {
		return datatypes.CreateCustomerRequest{}, ErrBusy
	}
	c.banner = ""
	c.created = nil

	if errs := datatypes.ValidateCustomer(c.form); !errs.Empty() {
		c.errs = errs
		return datatypes.CreateCustomerRequest{}, ErrInvalidForm
	}

	id, err := c.newID()
	if err != nil {
		c.banner = "Error creating customer: " + err.Error()
		return datatypes.CreateCustomerRequest{}, err
	}

	req := c.form
	req.ID = id
	c.errs = datatypes.FieldErrors{}
	c.busy = true
	return req, nil
}

// FinishSubmit applies the service's answer.
//
// Conflicts become field errors on ID or Email and the form stays filled.
// A *api.ValidationError from a remote server replaces the field errors.
// Anything else becomes the banner. On success the form is cleared and
// Created() returns the stored customer.
func (c *Create) FinishSubmit(created *datatypes.Customer, err error) {
	c.busy = false
	if err == nil {
		gen := c.newID
		*c = Create{newID: gen, created: created}
		return
	}

	var ve *api.ValidationError
	switch {
	case errors.Is(err, api.ErrDuplicateIdentifier):
		c.errs.Set(datatypes.FieldID, MsgDuplicateID)
	case errors.Is(err, api.ErrDuplicateEmail):
		c.errs.Set(datatypes.FieldEmail, MsgDuplicateEmail)
	case errors.As(err, &ve) && !ve.Fields.Empty():
		c.errs = ve.Fields
	default:
		c.banner = "Error creating customer: " + err.Error()
	}
}

// Submit runs BeginSubmit, the service call and FinishSubmit.
//
// Returns the same error BeginSubmit or the service returned; the screen
// state has already been updated either way.
func (c *Create) Submit(ctx context.Context, svc api.Service) error {
	req, err := c.BeginSubmit()
	if err != nil {
		return err
	}
	created, err := svc.CreateCustomer(ctx, req)
	c.FinishSubmit(created, err)
	return err
}
