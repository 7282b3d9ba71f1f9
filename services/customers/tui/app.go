// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tui is the terminal front end for the customer screens.
//
// # Description
//
// Model renders the four screens (list, create, profile, multi-address
// search) on top of the controllers in package views. Service calls never
// run inside Update: each is started with the controller's Begin method,
// executed in a tea.Cmd, and applied with Finish when its result message
// comes back.
//
// # Thread Safety
//
// TUI components are designed for single-threaded use within the bubbletea
// event loop. Do not access TUI state from multiple goroutines.
package tui

import (
	"context"
	"strings"

	"github.com/AleutianAI/custdesk/pkg/ux"
	"github.com/AleutianAI/custdesk/services/customers/api"
	"github.com/AleutianAI/custdesk/services/customers/datatypes"
	"github.com/AleutianAI/custdesk/services/customers/views"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// Screens
// =============================================================================

// Screen identifies the visible screen.
type Screen int

const (
	ScreenList Screen = iota
	ScreenCreate
	ScreenProfile
	ScreenMulti
)

func (s Screen) String() string {
	switch s {
	case ScreenList:
		return "list"
	case ScreenCreate:
		return "create"
	case ScreenProfile:
		return "profile"
	case ScreenMulti:
		return "multi-address"
	default:
		return "unknown"
	}
}

// =============================================================================
// Messages
// =============================================================================

// customersLoadedMsg carries a ListCustomers result to the list or the
// multi-address screen.
type customersLoadedMsg struct {
	target    Screen
	customers []datatypes.Customer
	err       error
}

type customerCreatedMsg struct {
	customer *datatypes.Customer
	err      error
}

type customerDeletedMsg struct {
	err error
}

type profileLoadedMsg struct {
	id       string
	customer *datatypes.Customer
	err      error
}

type addressesSavedMsg struct {
	id       string
	customer *datatypes.Customer
	err      error
}

// =============================================================================
// Config
// =============================================================================

// Options configures the TUI.
type Options struct {
	// PageSize is the list page size. 0 means the pipeline default.
	PageSize int

	// IDGenerator overrides the create form's ID source. Nil uses
	// api.NewCustomerID.
	IDGenerator func() (string, error)

	// Context bounds every service call. Nil means context.Background().
	Context context.Context

	// Title is shown in the header. Default "custdesk".
	Title string
}

// =============================================================================
// Model
// =============================================================================

// Model is the root bubbletea model.
type Model struct {
	svc  api.Service
	ctx  context.Context
	opts Options

	screen Screen
	width  int
	height int

	list    listScreen
	create  createScreen
	profile profileScreen
	multi   multiScreen

	// flash is a one-shot message shown on the next list render.
	flash string

	help     help.Model
	quitting bool
}

// New creates the root model over svc.
//
// # Inputs
//
//   - svc: Customer service (api.Local or api.Client).
//   - opts: Options. The zero value is usable.
//
// # Outputs
//
//   - Model: Ready-to-use model for tea.NewProgram. Init loads the list.
func New(svc api.Service, opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Title == "" {
		opts.Title = "custdesk"
	}

	create := views.NewCreate()
	if opts.IDGenerator != nil {
		create = views.NewCreateWithIDs(opts.IDGenerator)
	}

	return Model{
		svc:    svc,
		ctx:    opts.Context,
		opts:   opts,
		screen: ScreenList,
		list:   newListScreen(views.NewList(opts.PageSize)),
		create: newCreateScreen(create),
		multi:  newMultiScreen(views.NewMultiAddressSearch()),
		help:   help.New(),
	}
}

// Screen returns the visible screen.
func (m Model) Screen() Screen { return m.screen }

// List exposes the list controller for inspection.
func (m Model) List() *views.List { return m.list.ctrl }

// Create exposes the create form controller.
func (m Model) Create() *views.Create { return m.create.ctrl }

// Profile exposes the open profile controller, or nil.
func (m Model) Profile() *views.Profile { return m.profile.ctrl }

// Multi exposes the multi-address search controller.
func (m Model) Multi() *views.MultiAddressSearch { return m.multi.ctrl }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.loadCustomers(ScreenList)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.list.resize(msg.Width, msg.Height)
		m.multi.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, forceQuit) {
			m.quitting = true
			return m, tea.Quit
		}

	case customersLoadedMsg:
		switch msg.target {
		case ScreenMulti:
			m.multi.ctrl.FinishLoad(msg.customers, msg.err)
			m.multi.refresh()
		default:
			m.list.ctrl.FinishLoad(msg.customers, msg.err)
			m.list.refresh()
		}
		return m, nil

	case customerCreatedMsg:
		m.create.ctrl.FinishSubmit(msg.customer, msg.err)
		if msg.err != nil {
			m.create.syncInputs()
			return m, nil
		}
		created := m.create.ctrl.Created()
		m.create.ctrl.Reset()
		m.create.syncInputs()
		m.flash = "Customer " + created.ID + " created"
		return m.switchTo(ScreenList)

	case customerDeletedMsg:
		m.list.ctrl.FinishDelete(msg.err)
		m.list.refresh()
		return m, m.loadCustomers(ScreenList)

	case profileLoadedMsg:
		if m.profile.ctrl != nil && m.profile.ctrl.ID() == msg.id {
			m.profile.ctrl.FinishLoad(msg.customer, msg.err)
		}
		return m, nil

	case addressesSavedMsg:
		if m.profile.ctrl != nil && m.profile.ctrl.ID() == msg.id {
			m.profile.ctrl.FinishCommit(msg.customer, msg.err)
			m.profile.syncInput()
		}
		return m, nil
	}

	switch m.screen {
	case ScreenCreate:
		return m.updateCreate(msg)
	case ScreenProfile:
		return m.updateProfile(msg)
	case ScreenMulti:
		return m.updateMulti(msg)
	default:
		return m.updateList(msg)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(ux.Styles.Title.Render(m.opts.Title))
	b.WriteString(ux.Styles.Muted.Render("  " + m.screen.String()))
	b.WriteString("\n\n")

	switch m.screen {
	case ScreenCreate:
		b.WriteString(m.viewCreate())
	case ScreenProfile:
		b.WriteString(m.viewProfile())
	case ScreenMulti:
		b.WriteString(m.viewMulti())
	default:
		b.WriteString(m.viewList())
	}
	return b.String()
}

// switchTo changes screen and starts whatever load the screen needs.
func (m Model) switchTo(s Screen) (tea.Model, tea.Cmd) {
	m.screen = s
	switch s {
	case ScreenList:
		return m, m.loadCustomers(ScreenList)
	case ScreenMulti:
		return m, tea.Batch(m.multi.input.Focus(), m.loadCustomers(ScreenMulti))
	case ScreenCreate:
		return m, m.create.setFocus(0)
	}
	return m, nil
}

// openProfile switches to the profile of id and starts loading it.
func (m Model) openProfile(id string) (tea.Model, tea.Cmd) {
	m.profile = newProfileScreen(views.NewProfile(id))
	m.screen = ScreenProfile
	return m, m.getCustomer(id)
}

// =============================================================================
// Commands
// =============================================================================

func (m Model) loadCustomers(target Screen) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		all, err := svc.ListCustomers(ctx)
		return customersLoadedMsg{target: target, customers: all, err: err}
	}
}

func (m Model) createCustomer(req datatypes.CreateCustomerRequest) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		c, err := svc.CreateCustomer(ctx, req)
		return customerCreatedMsg{customer: c, err: err}
	}
}

func (m Model) deleteCustomer(id string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		return customerDeletedMsg{err: svc.DeleteCustomer(ctx, id)}
	}
}

func (m Model) getCustomer(id string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		c, err := svc.GetCustomer(ctx, id)
		return profileLoadedMsg{id: id, customer: c, err: err}
	}
}

func (m Model) saveAddresses(id string, addrs []datatypes.Address) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		c, err := svc.UpdateCustomerAddresses(ctx, id, addrs)
		return addressesSavedMsg{id: id, customer: c, err: err}
	}
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(svc api.Service, opts Options) error {
	_, err := tea.NewProgram(New(svc, opts), tea.WithAltScreen()).Run()
	return err
}
