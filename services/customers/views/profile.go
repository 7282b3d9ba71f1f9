// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/AleutianAI/custdesk/services/customers/api"
	"github.com/AleutianAI/custdesk/services/customers/datatypes"
	"github.com/AleutianAI/custdesk/services/customers/editor"
)

// MsgAddressesUpdated is shown after a successful address update.
const MsgAddressesUpdated = "Addresses updated successfully!"

// ProfileState is what the profile screen shows.
type ProfileState int

const (
	ProfileLoading ProfileState = iota
	ProfileFound
	ProfileNotFound
	ProfileError
)

func (s ProfileState) String() string {
	switch s {
	case ProfileFound:
		return "found"
	case ProfileNotFound:
		return "not_found"
	case ProfileError:
		return "error"
	default:
		return "loading"
	}
}

// Profile is the single-customer screen with its address editor.
type Profile struct {
	id       string
	state    ProfileState
	customer *datatypes.Customer
	loadErr  string
	Editor   *editor.Editor
}

// NewProfile returns a profile for id in the Loading state.
func NewProfile(id string) *Profile {
	return &Profile{id: id, Editor: editor.New()}
}

func (p *Profile) ID() string                    { return p.id }
func (p *Profile) State() ProfileState           { return p.state }
func (p *Profile) Customer() *datatypes.Customer { return p.customer }
func (p *Profile) LoadError() string             { return p.loadErr }

// Load fetches the customer.
func (p *Profile) Load(ctx context.Context, svc api.Service) error {
	c, err := svc.GetCustomer(ctx, p.id)
	p.FinishLoad(c, err)
	if errors.Is(err, api.ErrNotFound) {
		return nil
	}
	return err
}

// FinishLoad applies the result of GetCustomer. ErrNotFound selects the
// NotFound state; any other error selects ProfileError.
func (p *Profile) FinishLoad(c *datatypes.Customer, err error) {
	switch {
	case err == nil:
		p.state = ProfileFound
		p.customer = c
		p.loadErr = ""
	case errors.Is(err, api.ErrNotFound):
		p.state = ProfileNotFound
		p.customer = nil
	default:
		p.state = ProfileError
		p.loadErr = "Error loading customer: " + err.Error()
	}
}

// Header is the line shown above the address list while viewing.
func (p *Profile) Header() string {
	if p.customer == nil {
		return ""
	}
	n := len(p.customer.Addresses)
	if n == 1 {
		return "Only One Address: " + p.customer.Addresses[0].String()
	}
	return fmt.Sprintf("Addresses (%d)", n)
}

// StatusLine is the success or error message under the editor.
func (p *Profile) StatusLine() string {
	st := p.Editor.Status()
	if st.Success {
		return MsgAddressesUpdated
	}
	return st.Error
}

// BeginEdit opens the editor on the stored addresses.
func (p *Profile) BeginEdit() error {
	if p.state != ProfileFound {
		return fmt.Errorf("customer %s is not loaded", p.id)
	}
	return p.Editor.Begin(p.customer.Addresses)
}

// Commit validates and stores the draft. On success the shown customer is
// replaced with the stored one.
func (p *Profile) Commit(ctx context.Context, svc api.AddressUpdater) error {
	addrs, err := p.Editor.BeginCommit()
	if err != nil {
		return err
	}
	c, err := svc.UpdateCustomerAddresses(ctx, p.id, addrs)
	p.FinishCommit(c, err)
	return err
}

// FinishCommit applies the result of an update started with
// Editor.BeginCommit.
func (p *Profile) FinishCommit(c *datatypes.Customer, err error) {
	p.Editor.FinishCommit(err)
	if err == nil && c != nil {
		p.customer = c
	}
}
