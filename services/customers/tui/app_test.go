// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/AleutianAI/custdesk/services/customers/api"
	"github.com/AleutianAI/custdesk/services/customers/datatypes"
	"github.com/AleutianAI/custdesk/services/customers/editor"
	"github.com/AleutianAI/custdesk/services/customers/store"
	"github.com/AleutianAI/custdesk/services/customers/views"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Helpers
// =============================================================================

func ann() datatypes.Customer {
	return datatypes.Customer{
		ID: "1", FirstName: "Ann", LastName: "Lee", Phone: "1234567890",
		Addresses: []datatypes.Address{{Address: "A", City: "NY", State: "NY", PinCode: "100001"}},
	}
}

func bob() datatypes.Customer {
	return datatypes.Customer{
		ID: "2", FirstName: "Bob", LastName: "Roe", Phone: "2345678901",
		Addresses: []datatypes.Address{
			{Address: "B", City: "LA", State: "CA", PinCode: "900001"},
			{Address: "C", City: "SF", State: "CA", PinCode: "900002"},
		},
	}
}

// countingService records how often each write reaches the service.
type countingService struct {
	api.Service
	creates int
	updates int
}

func (c *countingService) CreateCustomer(ctx context.Context, req datatypes.CreateCustomerRequest) (*datatypes.Customer, error) {
	c.creates++
	return c.Service.CreateCustomer(ctx, req)
}

func (c *countingService) UpdateCustomerAddresses(ctx context.Context, id string, addrs []datatypes.Address) (*datatypes.Customer, error) {
	c.updates++
	return c.Service.UpdateCustomerAddresses(ctx, id, addrs)
}

func newTestService(t *testing.T, seed ...datatypes.Customer) (*countingService, *store.Repository) {
	t.Helper()
	repo, err := store.Open(store.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	_, err = repo.Seed(context.Background(), seed)
	require.NoError(t, err)
	return &countingService{Service: api.NewLocal(repo, nil)}, repo
}

// newTestModel returns an initialised model whose first load has completed.
func newTestModel(t *testing.T, svc api.Service, opts Options) Model {
	t.Helper()
	if opts.IDGenerator == nil {
		n := 0
		opts.IDGenerator = func() (string, error) {
			n++
			return fmt.Sprintf("id-%d", n), nil
		}
	}
	m := New(svc, opts)
	return drain(m, m.Init())
}

// drain runs cmd and feeds every resulting message back into m until no
// command is left. Quit ends the chain.
func drain(m Model, cmd tea.Cmd) Model {
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case nil:
		return m
	case tea.QuitMsg:
		return m
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(m, c)
		}
		return m
	default:
		next, cmd := m.Update(msg)
		return drain(next.(Model), cmd)
	}
}

var specialKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"backspace": tea.KeyBackspace,
	"ctrl+c":    tea.KeyCtrlC,
	"ctrl+s":    tea.KeyCtrlS,
	"ctrl+n":    tea.KeyCtrlN,
	"ctrl+x":    tea.KeyCtrlX,
}

func keyMsg(k string) tea.KeyMsg {
	if t, ok := specialKeys[k]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends each key in order, draining commands in between.
func press(m Model, ks ...string) Model {
	for _, k := range ks {
		next, cmd := m.Update(keyMsg(k))
		m = drain(next.(Model), cmd)
	}
	return m
}

// typeText sends s as one runes message, the way a paste arrives.
func typeText(m Model, s string) Model {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return drain(next.(Model), cmd)
}

func pageIDs(m Model) []string {
	ids := []string{}
	for _, c := range m.List().Page().Rows {
		ids = append(ids, c.ID)
	}
	return ids
}

// =============================================================================
// List
// =============================================================================

func TestModel_InitLoadsList(t *testing.T) {
	svc, _ := newTestService(t, bob(), ann())
	m := newTestModel(t, svc, Options{})

	assert.Equal(t, ScreenList, m.Screen())
	assert.Equal(t, []string{"1", "2"}, pageIDs(m))

	view := m.View()
	assert.Contains(t, view, "Page 1 of 1")
	assert.Contains(t, view, "Ann Lee")
	assert.Contains(t, view, "Bob Roe")
}

func TestModel_EmptyList(t *testing.T) {
	svc, _ := newTestService(t)
	m := newTestModel(t, svc, Options{})

	view := m.View()
	assert.Contains(t, view, "No customers found.")
	assert.Contains(t, view, "Page 1 of 1")
}

type failingList struct{ api.Service }

func (failingList) ListCustomers(context.Context) ([]datatypes.Customer, error) {
	return nil, errors.New("connection refused")
}

func TestModel_LoadErrorIsShown(t *testing.T) {
	m := newTestModel(t, failingList{}, Options{})
	assert.Contains(t, m.View(), "Error loading customers: connection refused")
}

func TestModel_SortToggle(t *testing.T) {
	svc, _ := newTestService(t, ann(), bob())
	m := newTestModel(t, svc, Options{})

	m = press(m, "1")
	assert.Equal(t, []string{"2", "1"}, pageIDs(m))

	m = press(m, "1")
	assert.Equal(t, []string{"1", "2"}, pageIDs(m))
}

func TestModel_Paging(t *testing.T) {
	seed := make([]datatypes.Customer, 7)
	for i := range seed {
		seed[i] = ann()
		seed[i].ID = fmt.Sprintf("%02d", i)
	}
	svc, _ := newTestService(t, seed...)
	m := newTestModel(t, svc, Options{PageSize: 5})

	assert.Len(t, pageIDs(m), 5)
	assert.False(t, m.List().Page().CanPrev)

	m = press(m, "right")
	assert.Equal(t, []string{"05", "06"}, pageIDs(m))
	assert.Contains(t, m.View(), "Page 2 of 2")

	m = press(m, "right")
	assert.Equal(t, 2, m.List().Page().Page, "next is disabled on the last page")

	m = press(m, "home")
	assert.Equal(t, 1, m.List().Page().Page)
	m = press(m, "end")
	assert.Equal(t, 2, m.List().Page().Page)
}

func TestModel_FilterByCity(t *testing.T) {
	svc, _ := newTestService(t, ann(), bob())
	m := newTestModel(t, svc, Options{})

	m = press(m, "/", "tab")
	m = typeText(m, "sf")
	m = press(m, "enter")

	assert.Equal(t, "sf", m.List().Params().City)
	assert.Equal(t, []string{"2"}, pageIDs(m))

	// Letters typed after leaving the filter are commands again.
	m = press(m, "x")
	assert.Equal(t, "", m.List().Params().City)
	assert.Equal(t, []string{"1", "2"}, pageIDs(m))
}

func TestModel_RowSelectableAfterEmptySearch(t *testing.T) {
	svc, _ := newTestService(t, ann(), bob())
	m := newTestModel(t, svc, Options{})

	m = press(m, "/")
	m = typeText(m, "zz")
	require.Empty(t, pageIDs(m))

	m = press(m, "backspace", "backspace", "enter")
	require.Equal(t, []string{"1", "2"}, pageIDs(m))

	m = press(m, "d")
	assert.Equal(t, "1", m.List().PendingID())
}

func TestModel_TwoPhaseDelete(t *testing.T) {
	svc, repo := newTestService(t, ann(), bob())
	m := newTestModel(t, svc, Options{})

	m = press(m, "d")
	assert.Equal(t, "1", m.List().PendingID())
	assert.Contains(t, m.View(), "Delete customer 1? (y/n)")

	m = press(m, "n")
	assert.Equal(t, views.Idle, m.List().DeleteState("1"))
	assert.Equal(t, ScreenList, m.Screen(), "n cancels instead of opening the create form")

	m = press(m, "d", "y")
	assert.Equal(t, "Customer 1 deleted", m.List().Notice())
	assert.Equal(t, []string{"2"}, pageIDs(m))

	_, err := repo.Get(context.Background(), "1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestModel_ForceQuit(t *testing.T) {
	svc, _ := newTestService(t)
	m := newTestModel(t, svc, Options{})

	next, cmd := m.Update(keyMsg("ctrl+c"))
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
	assert.Empty(t, next.View())
}

// =============================================================================
// Create
// =============================================================================

func fillCreateForm(m Model, phone string) Model {
	values := []string{"Dee", "Fox", phone, "", "12 Main St", "Pune", "MH", "411001"}
	for i, v := range values {
		if v != "" {
			m = typeText(m, v)
		}
		if i < len(values)-1 {
			m = press(m, "tab")
		}
	}
	return m
}

func TestModel_CreateRejectsBadPhoneLocally(t *testing.T) {
	svc, _ := newTestService(t)
	m := newTestModel(t, svc, Options{})

	m = press(m, "n")
	require.Equal(t, ScreenCreate, m.Screen())

	m = fillCreateForm(m, "555-1234567")
	m = press(m, "ctrl+s")

	assert.Equal(t, 0, svc.creates)
	assert.Equal(t, ScreenCreate, m.Screen())
	assert.Equal(t, datatypes.MsgPhoneFormat, m.Create().Errors().Phone)
	assert.Contains(t, m.View(), datatypes.MsgPhoneFormat)
}

func TestModel_CreateSucceeds(t *testing.T) {
	svc, repo := newTestService(t, ann())
	m := newTestModel(t, svc, Options{})

	m = press(m, "n")
	m = fillCreateForm(m, "3456789012")
	m = press(m, "enter") // enter on the last field submits

	assert.Equal(t, 1, svc.creates)
	assert.Equal(t, ScreenList, m.Screen())
	assert.Contains(t, m.View(), "Customer id-1 created")
	assert.Equal(t, []string{"1", "id-1"}, pageIDs(m))

	stored, err := repo.Get(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, "Pune", stored.Addresses[0].City)

	m = press(m, "n")
	assert.Empty(t, m.Create().Value(datatypes.FieldFirstName), "form is cleared after success")
}

func TestModel_CreateDuplicateEmail(t *testing.T) {
	existing := ann()
	existing.Email = "dee@example.com"
	svc, _ := newTestService(t, existing)
	m := newTestModel(t, svc, Options{})

	m = press(m, "n", "tab", "tab", "tab")
	m = typeText(m, "dee@example.com")
	m = press(m, "shift+tab", "shift+tab", "shift+tab")
	m = typeText(m, "Dee")
	m = press(m, "tab")
	m = typeText(m, "Fox")
	m = press(m, "tab")
	m = typeText(m, "3456789012")
	m = press(m, "tab", "tab")
	for _, v := range []string{"12 Main St", "Pune", "MH", "411001"} {
		m = typeText(m, v)
		m = press(m, "tab")
	}
	m = press(m, "ctrl+s")

	assert.Equal(t, ScreenCreate, m.Screen())
	assert.Equal(t, views.MsgDuplicateEmail, m.Create().Errors().Email)
	assert.Equal(t, "Dee", m.Create().Value(datatypes.FieldFirstName), "form stays filled")
}

func TestModel_CreateEscReturnsToList(t *testing.T) {
	svc, _ := newTestService(t)
	m := newTestModel(t, svc, Options{})

	m = press(m, "n")
	m = typeText(m, "Dee")
	m = press(m, "esc")

	assert.Equal(t, ScreenList, m.Screen())
	assert.Empty(t, m.Create().Value(datatypes.FieldFirstName))
}

// =============================================================================
// Profile
// =============================================================================

func TestModel_OpenProfile(t *testing.T) {
	svc, _ := newTestService(t, ann(), bob())
	m := newTestModel(t, svc, Options{})

	m = press(m, "enter")
	require.Equal(t, ScreenProfile, m.Screen())
	assert.Equal(t, views.ProfileFound, m.Profile().State())
	assert.Contains(t, m.View(), "Only One Address: A, NY, NY - 100001")

	m = press(m, "esc", "down", "enter")
	assert.Equal(t, "2", m.Profile().ID())
	assert.Contains(t, m.View(), "Addresses (2)")
}

func TestModel_ProfileNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	m := newTestModel(t, svc, Options{})

	next, cmd := m.openProfile("404")
	m = drain(next.(Model), cmd)

	assert.Equal(t, views.ProfileNotFound, m.Profile().State())
	assert.Contains(t, m.View(), "Customer 404 not found")
}

func TestModel_EditRejectsShortPinWithoutCallingService(t *testing.T) {
	svc, repo := newTestService(t, ann())
	m := newTestModel(t, svc, Options{})

	m = press(m, "enter", "e")
	require.Equal(t, editor.Editing, m.Profile().Editor.Mode())

	m = press(m, "tab", "tab", "tab") // pin code of address 1
	m = press(m, "backspace")
	m = press(m, "ctrl+s")

	assert.Equal(t, 0, svc.updates)
	assert.Equal(t, editor.Editing, m.Profile().Editor.Mode())
	assert.Equal(t, datatypes.MsgAddressList, m.Profile().StatusLine())
	assert.Equal(t, "10000", m.Profile().Editor.Draft()[0].PinCode)

	stored, err := repo.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "100001", stored.Addresses[0].PinCode)

	m = typeText(m, "9")
	m = press(m, "ctrl+s")

	assert.Equal(t, 1, svc.updates)
	assert.Equal(t, editor.Viewing, m.Profile().Editor.Mode())
	assert.Equal(t, views.MsgAddressesUpdated, m.Profile().StatusLine())

	stored, err = repo.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "100009", stored.Addresses[0].PinCode)
}

func TestModel_CannotRemoveOnlyAddress(t *testing.T) {
	svc, _ := newTestService(t, ann())
	m := newTestModel(t, svc, Options{})

	m = press(m, "enter", "e", "ctrl+x")

	assert.Equal(t, 1, m.Profile().Editor.Len())
	assert.Contains(t, m.View(), editor.ErrLastAddress.Error())
}

func TestModel_AddAddress(t *testing.T) {
	svc, repo := newTestService(t, ann())
	m := newTestModel(t, svc, Options{})

	m = press(m, "enter", "e", "ctrl+n")
	require.Equal(t, 2, m.Profile().Editor.Len())

	for _, v := range []string{"D", "Pune", "MH", "411001"} {
		m = typeText(m, v)
		m = press(m, "tab")
	}
	m = press(m, "ctrl+s")

	assert.Equal(t, views.MsgAddressesUpdated, m.Profile().StatusLine())
	assert.Contains(t, m.View(), "Addresses (2)")

	stored, err := repo.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, stored.Addresses, 2)
	assert.Equal(t, "Pune", stored.Addresses[1].City)
}

func TestModel_EditCancelKeepsStoredAddresses(t *testing.T) {
	svc, _ := newTestService(t, bob())
	m := newTestModel(t, svc, Options{})

	m = press(m, "enter", "e", "ctrl+x", "esc")

	assert.Equal(t, editor.Viewing, m.Profile().Editor.Mode())
	assert.Len(t, m.Profile().Customer().Addresses, 2)
	assert.Equal(t, 0, svc.updates)
}

// =============================================================================
// Multi-address search
// =============================================================================

func TestModel_MultiAddressSearch(t *testing.T) {
	svc, _ := newTestService(t, ann(), bob())
	m := newTestModel(t, svc, Options{})

	m = press(m, "m")
	require.Equal(t, ScreenMulti, m.Screen())
	require.Len(t, m.Multi().Rows(), 1)
	assert.Equal(t, "2", m.Multi().Rows()[0].ID)

	m = typeText(m, "zz")
	assert.Empty(t, m.Multi().Rows())
	assert.Contains(t, m.View(), "No customers with multiple addresses.")

	m = press(m, "backspace", "backspace")
	m = press(m, "enter")
	require.Equal(t, ScreenProfile, m.Screen())
	require.NotNil(t, m.Profile())
	assert.Equal(t, "2", m.Profile().ID())
}

func TestScreen_String(t *testing.T) {
	for s, want := range map[Screen]string{
		ScreenList: "list", ScreenCreate: "create", ScreenProfile: "profile", ScreenMulti: "multi-address",
	} {
		if !strings.EqualFold(s.String(), want) {
			t.Errorf("Screen(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
