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
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/AleutianAI/custdesk/pkg/ux"
	"github.com/AleutianAI/custdesk/services/customers/api"
	"github.com/AleutianAI/custdesk/services/customers/datatypes"
	"github.com/AleutianAI/custdesk/services/customers/store"
	"github.com/AleutianAI/custdesk/services/customers/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test Setup
// ============================================================================

var (
	ann = datatypes.Customer{
		ID: "1", FirstName: "Ann", LastName: "Lee", Phone: "1234567890", Email: "ann@example.com",
		Addresses: []datatypes.Address{{Address: "A", City: "NY", State: "NY", PinCode: "100001"}},
	}
	bob = datatypes.Customer{
		ID: "2", FirstName: "Bob", LastName: "Stone", Phone: "0987654321",
		Addresses: []datatypes.Address{
			{Address: "B", City: "LA", State: "CA", PinCode: "900001"},
			{Address: "C", City: "SF", State: "CA", PinCode: "940001"},
		},
	}
)

// countingService counts address updates that reach the service.
type countingService struct {
	api.Service
	updates int
}

func (c *countingService) UpdateCustomerAddresses(ctx context.Context, id string, addrs []datatypes.Address) (*datatypes.Customer, error) {
	c.updates++
	return c.Service.UpdateCustomerAddresses(ctx, id, addrs)
}

func newTestService(t *testing.T, seed ...datatypes.Customer) *countingService {
	t.Helper()
	repo, err := store.Open(store.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	_, err = repo.Seed(context.Background(), seed)
	require.NoError(t, err)
	return &countingService{Service: api.NewLocal(repo, nil)}
}

// machineOutput switches ux to tab-separated output for the test.
func machineOutput(t *testing.T) {
	t.Helper()
	prev := ux.GetPersonality()
	ux.SetPersonality(ux.PersonalityMachine)
	t.Cleanup(func() { ux.SetPersonality(prev) })
}

func validForm() *createFlags {
	return &createFlags{
		FirstName: "Cara", LastName: "Diaz", Phone: "5551234567",
		Address: "12 Main St", City: "Pune", State: "MH", PinCode: "411001",
	}
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

// ============================================================================
// create
// ============================================================================

func TestCreateCustomer_Success(t *testing.T) {
	machineOutput(t)
	svc := newTestService(t)
	var out bytes.Buffer

	require.NoError(t, createCustomer(context.Background(), svc, validForm(), &out))

	all, err := svc.ListCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Cara Diaz", all[0].FullName())
	assert.Equal(t, "411001", all[0].PinCode, "flat fields mirror the form")
	assert.Contains(t, out.String(), "OK: Customer "+all[0].ID+" created")
	assert.Contains(t, out.String(), "Cara Diaz\t5551234567\tPune")
}

func TestCreateCustomer_InvalidPhoneNeverStored(t *testing.T) {
	svc := newTestService(t)
	form := validForm()
	form.Phone = "555-1234567"
	var out bytes.Buffer

	err := createCustomer(context.Background(), svc, form, &out)

	require.Error(t, err)
	assert.True(t, errors.Is(err, views.ErrInvalidForm))
	assert.Contains(t, err.Error(), "Phone must be 10 digits")
	assert.Empty(t, out.String())
	all, _ := svc.ListCustomers(context.Background())
	assert.Empty(t, all)
}

func TestCreateCustomer_DuplicateEmail(t *testing.T) {
	svc := newTestService(t, ann)
	form := validForm()
	form.Email = ann.Email

	err := createCustomer(context.Background(), svc, form, &bytes.Buffer{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrDuplicateEmail))
	assert.Contains(t, err.Error(), views.MsgDuplicateEmail)
}

func TestCreateFlags_Missing(t *testing.T) {
	var empty createFlags
	missing := empty.missing()
	assert.Len(t, missing, len(datatypes.FormFields)-1)
	assert.NotContains(t, missing, datatypes.FieldEmail)

	assert.Empty(t, validForm().missing())

	partial := validForm()
	partial.City = "  "
	assert.Equal(t, []datatypes.Field{datatypes.FieldCity}, partial.missing())
}

// ============================================================================
// list
// ============================================================================

func TestListCustomers(t *testing.T) {
	machineOutput(t)

	tests := []struct {
		name     string
		opts     listOptions
		wantRows []string
	}{
		{
			name:     "default id asc",
			opts:     listOptions{Page: 1},
			wantRows: []string{"1\tAnn Lee", "2\tBob Stone"},
		},
		{
			name:     "name desc",
			opts:     listOptions{Page: 1, Sort: "name", Dir: "desc"},
			wantRows: []string{"2\tBob Stone", "1\tAnn Lee"},
		},
		{
			name:     "city filter matches any address",
			opts:     listOptions{Page: 1, City: "sf"},
			wantRows: []string{"2\tBob Stone"},
		},
		{
			name:     "page size one, second page",
			opts:     listOptions{Page: 2, PageSize: 1},
			wantRows: []string{"2\tBob Stone"},
		},
		{
			name:     "all ignores page",
			opts:     listOptions{Page: 9, PageSize: 1, All: true},
			wantRows: []string{"1\tAnn Lee", "2\tBob Stone"},
		},
		{
			name:     "no match",
			opts:     listOptions{Page: 1, Search: "zzz"},
			wantRows: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, ann, bob)
			var out bytes.Buffer
			require.NoError(t, listCustomers(context.Background(), svc, tt.opts, 5, &out))

			got := lines(out.String())
			require.Equal(t, strings.Join(customerHeaders, "\t"), got[0])
			require.Len(t, got[1:], len(tt.wantRows))
			for i, prefix := range tt.wantRows {
				assert.True(t, strings.HasPrefix(got[i+1], prefix), "row %d = %q", i, got[i+1])
			}
		})
	}
}

func TestListCustomers_BadPage(t *testing.T) {
	svc := newTestService(t)
	err := listCustomers(context.Background(), svc, listOptions{Page: 0}, 5, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page must be at least 1")

	err = listCustomers(context.Background(), svc, listOptions{Page: 1, PageSize: -1}, 5, &bytes.Buffer{})
	require.Error(t, err)
}

func TestListCustomers_FooterOutsideMachineMode(t *testing.T) {
	prev := ux.GetPersonality()
	ux.SetPersonality(ux.PersonalityMinimal)
	t.Cleanup(func() { ux.SetPersonality(prev) })

	svc := newTestService(t, ann, bob)
	var out bytes.Buffer
	require.NoError(t, listCustomers(context.Background(), svc, listOptions{Page: 1}, 5, &out))
	assert.Contains(t, out.String(), "Page 1 of 1, 2 matching customers")
}

// ============================================================================
// show
// ============================================================================

func TestShowCustomer(t *testing.T) {
	machineOutput(t)
	svc := newTestService(t, ann, bob)

	var out bytes.Buffer
	require.NoError(t, showCustomer(context.Background(), svc, "1", &out))
	assert.Contains(t, out.String(), "Only One Address: A, NY, NY - 100001")
	assert.Contains(t, out.String(), "Email\tann@example.com")

	out.Reset()
	require.NoError(t, showCustomer(context.Background(), svc, "2", &out))
	assert.Contains(t, out.String(), "Addresses (2)")
	assert.Contains(t, out.String(), "2\tC\tSF\tCA\t940001")
}

func TestShowCustomer_NotFound(t *testing.T) {
	svc := newTestService(t)
	err := showCustomer(context.Background(), svc, "missing", &bytes.Buffer{})
	assert.True(t, errors.Is(err, api.ErrNotFound))
}

// ============================================================================
// delete
// ============================================================================

func TestDeleteCustomer_Confirmed(t *testing.T) {
	machineOutput(t)
	svc := newTestService(t, ann, bob)
	var asked datatypes.Customer
	var out bytes.Buffer

	err := deleteCustomer(context.Background(), svc, "1", func(c datatypes.Customer) (bool, error) {
		asked = c
		return true, nil
	}, &out)

	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", asked.FullName())
	assert.Contains(t, out.String(), "OK: Customer 1 deleted")
	_, err = svc.GetCustomer(context.Background(), "1")
	assert.True(t, errors.Is(err, api.ErrNotFound))
}

func TestDeleteCustomer_Declined(t *testing.T) {
	svc := newTestService(t, ann)
	var out bytes.Buffer

	err := deleteCustomer(context.Background(), svc, "1", func(datatypes.Customer) (bool, error) {
		return false, nil
	}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Delete cancelled.")
	_, err = svc.GetCustomer(context.Background(), "1")
	assert.NoError(t, err)
}

func TestDeleteCustomer_UnknownIDNeverPrompts(t *testing.T) {
	svc := newTestService(t)
	err := deleteCustomer(context.Background(), svc, "nope", func(datatypes.Customer) (bool, error) {
		t.Fatal("confirm should not be called")
		return false, nil
	}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, api.ErrNotFound))
}

// ============================================================================
// multi
// ============================================================================

func TestMultiAddressSearch(t *testing.T) {
	machineOutput(t)
	svc := newTestService(t, ann, bob)

	var out bytes.Buffer
	require.NoError(t, multiAddressSearch(context.Background(), svc, "", &out))
	got := lines(out.String())
	require.Len(t, got, 2)
	assert.True(t, strings.HasPrefix(got[1], "2\tBob Stone"))

	out.Reset()
	require.NoError(t, multiAddressSearch(context.Background(), svc, "ann", &out))
	assert.Len(t, lines(out.String()), 1, "header only")
}

// ============================================================================
// addresses set
// ============================================================================

func TestSetAddresses_ReplacesList(t *testing.T) {
	machineOutput(t)
	svc := newTestService(t, bob)
	addrs := []datatypes.Address{{Address: "D", City: "Goa", State: "GA", PinCode: "403001"}}
	var out bytes.Buffer

	require.NoError(t, setAddresses(context.Background(), svc, "2", addrs, &out))

	c, err := svc.GetCustomer(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, addrs, c.Addresses)
	assert.Contains(t, out.String(), "OK: "+views.MsgAddressesUpdated)
	assert.Equal(t, 1, svc.updates)
}

func TestSetAddresses_GrowsList(t *testing.T) {
	svc := newTestService(t, ann)
	addrs := []datatypes.Address{
		{Address: "A", City: "NY", State: "NY", PinCode: "100001"},
		{Address: "E", City: "Boston", State: "MA", PinCode: "021001"},
	}

	require.NoError(t, setAddresses(context.Background(), svc, "1", addrs, &bytes.Buffer{}))

	c, err := svc.GetCustomer(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, addrs, c.Addresses)
}

func TestSetAddresses_ShortPinStopsBeforeService(t *testing.T) {
	svc := newTestService(t, ann)
	addrs := []datatypes.Address{{Address: "A", City: "NY", State: "NY", PinCode: "12345"}}

	err := setAddresses(context.Background(), svc, "1", addrs, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), datatypes.MsgAddressList)
	assert.Contains(t, err.Error(), "Pin code must be 6 digits")
	assert.Zero(t, svc.updates)
	c, _ := svc.GetCustomer(context.Background(), "1")
	assert.Equal(t, ann.Addresses, c.Addresses)
}

func TestSetAddresses_NotFound(t *testing.T) {
	svc := newTestService(t)
	err := setAddresses(context.Background(), svc, "x", []datatypes.Address{{}}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, api.ErrNotFound))
}

func TestParseAddresses(t *testing.T) {
	got, err := parseAddresses([]string{"12 Main St | Pune|MH|411001", "B|LA|CA|900001"})
	require.NoError(t, err)
	assert.Equal(t, []datatypes.Address{
		{Address: "12 Main St", City: "Pune", State: "MH", PinCode: "411001"},
		{Address: "B", City: "LA", State: "CA", PinCode: "900001"},
	}, got)

	_, err = parseAddresses([]string{"only|three|parts"})
	assert.ErrorContains(t, err, "address 1")

	_, err = parseAddresses(nil)
	assert.ErrorIs(t, err, datatypes.ErrNoAddresses)
}
