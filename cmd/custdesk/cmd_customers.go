// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AleutianAI/custdesk/cmd/custdesk/config"
	"github.com/AleutianAI/custdesk/pkg/ux"
	"github.com/AleutianAI/custdesk/services/customers/api"
	"github.com/AleutianAI/custdesk/services/customers/datatypes"
	"github.com/AleutianAI/custdesk/services/customers/editor"
	"github.com/AleutianAI/custdesk/services/customers/query"
	"github.com/AleutianAI/custdesk/services/customers/views"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// =============================================================================
// Flag sets
// =============================================================================

// createFlags holds the create form as given on the command line.
type createFlags struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Address   string
	City      string
	State     string
	PinCode   string
	NoPrompt  bool
}

// slot returns the flag variable backing form field f.
func (c *createFlags) slot(f datatypes.Field) *string {
	switch f {
	case datatypes.FieldFirstName:
		return &c.FirstName
	case datatypes.FieldLastName:
		return &c.LastName
	case datatypes.FieldPhone:
		return &c.Phone
	case datatypes.FieldEmail:
		return &c.Email
	case datatypes.FieldAddress:
		return &c.Address
	case datatypes.FieldCity:
		return &c.City
	case datatypes.FieldState:
		return &c.State
	case datatypes.FieldPinCode:
		return &c.PinCode
	default:
		return nil
	}
}

// missing lists the required form fields that are still blank. Email is
// optional and never listed.
func (c *createFlags) missing() []datatypes.Field {
	var out []datatypes.Field
	for _, f := range datatypes.FormFields {
		if f == datatypes.FieldEmail {
			continue
		}
		if p := c.slot(f); p != nil && strings.TrimSpace(*p) == "" {
			out = append(out, f)
		}
	}
	return out
}

// listOptions holds the list command's pipeline flags.
type listOptions struct {
	Search   string
	City     string
	State    string
	PinCode  string
	Sort     string
	Dir      string
	Page     int
	PageSize int
	All      bool
}

// =============================================================================
// Prompts
// =============================================================================

// promptCustomer asks for the given fields with a huh form. Replaced in
// tests.
var promptCustomer = func(form *createFlags, fields []datatypes.Field) error {
	inputs := make([]huh.Field, 0, len(fields))
	for _, f := range fields {
		inputs = append(inputs, huh.NewInput().Title(f.Label()).Value(form.slot(f)))
	}
	return huh.NewForm(huh.NewGroup(inputs...)).Run()
}

// confirmDelete asks before a delete. Replaced in tests.
var confirmDelete = func(c datatypes.Customer) (bool, error) {
	ok := false
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete customer %s (%s)?", c.ID, c.FullName())).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&ok),
	)).Run()
	return ok, err
}

// =============================================================================
// Command handlers
// =============================================================================

// withSession runs fn against the configured customer service.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, sess *session) error) error {
	cfg := config.Global
	logger := commandLogger(cfg)
	defer logger.Close()

	ctx := cmd.Context()
	sess, err := openSession(ctx, cfg, serverURL, logger)
	if err != nil {
		return err
	}
	defer sess.Close()
	return fn(ctx, sess)
}

// warnEphemeral tells the operator a write will not outlive the command.
func warnEphemeral(sess *session) {
	if !sess.remote {
		ux.Warning("No server configured: this change is discarded when the command exits. Use --server or client.base_url.")
	}
}

func runCreate(cmd *cobra.Command, _ []string) error {
	if !createForm.NoPrompt && ux.IsInteractive() {
		if missing := createForm.missing(); len(missing) > 0 {
			if err := promptCustomer(&createForm, missing); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					return errors.New("create cancelled")
				}
				return fmt.Errorf("prompt: %w", err)
			}
		}
	}
	return withSession(cmd, func(ctx context.Context, sess *session) error {
		warnEphemeral(sess)
		return createCustomer(ctx, sess.svc, &createForm, cmd.OutOrStdout())
	})
}

func runList(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, sess *session) error {
		return listCustomers(ctx, sess.svc, listFlags, config.Global.List.PageSize, cmd.OutOrStdout())
	})
}

func runShow(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, sess *session) error {
		return showCustomer(ctx, sess.svc, args[0], cmd.OutOrStdout())
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	confirm := confirmDelete
	if deleteYes {
		confirm = func(datatypes.Customer) (bool, error) { return true, nil }
	} else if !ux.IsInteractive() {
		return errors.New("refusing to delete without confirmation; pass --yes")
	}
	return withSession(cmd, func(ctx context.Context, sess *session) error {
		warnEphemeral(sess)
		return deleteCustomer(ctx, sess.svc, args[0], confirm, cmd.OutOrStdout())
	})
}

func runMulti(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, sess *session) error {
		return multiAddressSearch(ctx, sess.svc, multiSearch, cmd.OutOrStdout())
	})
}

func runAddressesSet(cmd *cobra.Command, args []string) error {
	addrs, err := parseAddresses(addressArgs)
	if err != nil {
		return err
	}
	return withSession(cmd, func(ctx context.Context, sess *session) error {
		warnEphemeral(sess)
		return setAddresses(ctx, sess.svc, args[0], addrs, cmd.OutOrStdout())
	})
}

// =============================================================================
// Operations
// =============================================================================

// createCustomer submits form through the create controller.
//
// # Outputs
//
//   - error: Wraps views.ErrInvalidForm, api.ErrDuplicateIdentifier or
//     api.ErrDuplicateEmail with the per-field messages appended, or the
//     service error. Nothing is written to out on failure.
func createCustomer(ctx context.Context, svc api.Service, form *createFlags, out io.Writer) error {
	ctrl := views.NewCreate()
	for _, f := range datatypes.FormFields {
		if err := ctrl.Set(f, *form.slot(f)); err != nil {
			return err
		}
	}

	if err := ctrl.Submit(ctx, svc); err != nil {
		if errs := ctrl.Errors(); !errs.Empty() {
			return fmt.Errorf("customer not created: %w\n%s", err, formErrors(errs))
		}
		return fmt.Errorf("error creating customer: %w", err)
	}

	created := ctrl.Created()
	fmt.Fprintln(out, ux.SuccessLine(fmt.Sprintf("Customer %s created", created.ID)))
	fmt.Fprintln(out, ux.Table(customerHeaders, customerRows([]datatypes.Customer{*created})))
	return nil
}

// listCustomers runs the filter/sort/page pipeline over every customer.
func listCustomers(ctx context.Context, svc api.Service, opts listOptions, defaultPageSize int, out io.Writer) error {
	if opts.Page < 1 {
		return fmt.Errorf("page must be at least 1, got %d", opts.Page)
	}
	if opts.PageSize < 0 {
		return fmt.Errorf("page size must not be negative, got %d", opts.PageSize)
	}

	all, err := svc.ListCustomers(ctx)
	if err != nil {
		return fmt.Errorf("list customers: %w", err)
	}

	p := query.Params{
		Search:    opts.Search,
		City:      opts.City,
		State:     opts.State,
		PinCode:   opts.PinCode,
		SortField: query.ParseSortField(opts.Sort),
		SortDir:   query.ParseSortDir(opts.Dir),
		Page:      opts.Page,
		PageSize:  opts.PageSize,
	}
	if p.PageSize == 0 {
		p.PageSize = defaultPageSize
	}
	if opts.All {
		p.Page = 1
		p.PageSize = max(len(all), 1)
	}

	res := query.Run(all, p)
	fmt.Fprintln(out, ux.Table(customerHeaders, customerRows(res.Rows)))
	if ux.GetPersonality() != ux.PersonalityMachine {
		fmt.Fprintln(out, ux.Styles.Muted.Render(fmt.Sprintf("Page %d of %d, %d matching customers",
			p.Page, query.DisplayPages(res.TotalPages), res.Total)))
	}
	return nil
}

// showCustomer renders one profile. An unknown id is an error wrapping
// api.ErrNotFound.
func showCustomer(ctx context.Context, svc api.Service, id string, out io.Writer) error {
	p := views.NewProfile(id)
	if err := p.Load(ctx, svc); err != nil {
		return err
	}
	if p.State() == views.ProfileNotFound {
		return fmt.Errorf("customer %s: %w", id, api.ErrNotFound)
	}
	fmt.Fprintln(out, renderProfile(p))
	return nil
}

// deleteCustomer runs the two-phase delete: request, confirm, then delete.
//
// A declined confirmation cancels the request and is not an error.
// A customer that disappeared between lookup and delete is reported as
// already deleted, as the list screen does.
func deleteCustomer(ctx context.Context, svc api.Service, id string, confirm func(datatypes.Customer) (bool, error), out io.Writer) error {
	c, err := svc.GetCustomer(ctx, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	list := views.NewList(query.DefaultPageSize)
	list.RequestDelete(id)

	ok, err := confirm(*c)
	if err != nil {
		list.CancelDelete()
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(out, "Delete cancelled.")
			return nil
		}
		return fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		list.CancelDelete()
		fmt.Fprintln(out, "Delete cancelled.")
		return nil
	}

	if err := list.ConfirmDelete(ctx, svc); err != nil {
		return err
	}
	if list.DeleteState(id) != views.Deleted {
		return errors.New(list.Notice())
	}
	fmt.Fprintln(out, ux.SuccessLine(list.Notice()))
	return nil
}

// multiAddressSearch lists customers with more than one address.
func multiAddressSearch(ctx context.Context, svc api.Service, search string, out io.Writer) error {
	m := views.NewMultiAddressSearch()
	if err := m.Load(ctx, svc); err != nil {
		return fmt.Errorf("list customers: %w", err)
	}
	m.SetSearch(search)

	rows := m.Rows()
	if len(rows) == 0 && ux.GetPersonality() != ux.PersonalityMachine {
		fmt.Fprintln(out, "No customers with multiple addresses.")
		return nil
	}
	fmt.Fprintln(out, ux.Table(customerHeaders, customerRows(rows)))
	return nil
}

// setAddresses replaces a customer's addresses through the profile's
// address editor, so the same first-failure validation applies and an
// invalid list never reaches the service.
func setAddresses(ctx context.Context, svc api.Service, id string, addrs []datatypes.Address, out io.Writer) error {
	p := views.NewProfile(id)
	if err := p.Load(ctx, svc); err != nil {
		return err
	}
	if p.State() == views.ProfileNotFound {
		return fmt.Errorf("customer %s: %w", id, api.ErrNotFound)
	}
	if err := p.BeginEdit(); err != nil {
		return err
	}
	if err := fillDraft(p.Editor, addrs); err != nil {
		return err
	}

	if err := p.Commit(ctx, svc); err != nil {
		var vf *editor.ValidationFailure
		if errors.As(err, &vf) {
			return fmt.Errorf("address %d: %s\n%s", vf.Index+1, vf.Error(), formErrors(vf.Errors))
		}
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Fprintln(out, ux.SuccessLine(p.StatusLine()))
	fmt.Fprintln(out, renderProfile(p))
	return nil
}

// fillDraft makes the editor's draft equal to addrs.
func fillDraft(e *editor.Editor, addrs []datatypes.Address) error {
	for i, a := range addrs {
		if i >= e.Len() {
			if err := e.AddBlank(); err != nil {
				return err
			}
		}
		for _, f := range datatypes.AddressFields {
			v, _ := a.Get(f)
			if err := e.EditField(i, f, v); err != nil {
				return err
			}
		}
	}
	for e.Len() > len(addrs) {
		if err := e.RemoveAt(e.Len() - 1); err != nil {
			return err
		}
	}
	return nil
}

// parseAddresses reads 'address|city|state|pinCode' values.
func parseAddresses(values []string) ([]datatypes.Address, error) {
	if len(values) == 0 {
		return nil, datatypes.ErrNoAddresses
	}
	addrs := make([]datatypes.Address, 0, len(values))
	for i, v := range values {
		parts := strings.Split(v, "|")
		if len(parts) != 4 {
			return nil, fmt.Errorf("address %d: want 'address|city|state|pinCode', got %q", i+1, v)
		}
		addrs = append(addrs, datatypes.Address{
			Address: strings.TrimSpace(parts[0]),
			City:    strings.TrimSpace(parts[1]),
			State:   strings.TrimSpace(parts[2]),
			PinCode: strings.TrimSpace(parts[3]),
		})
	}
	return addrs, nil
}
