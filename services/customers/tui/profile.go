// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tui

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/custdesk/pkg/ux"
	"github.com/AleutianAI/custdesk/services/customers/datatypes"
	"github.com/AleutianAI/custdesk/services/customers/editor"
	"github.com/AleutianAI/custdesk/services/customers/views"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// profileScreen shows one customer and hosts the address editor.
//
// While editing, a single input sits on the focused cell (address index,
// field); every keystroke is written back to the editor draft.
type profileScreen struct {
	ctrl  *views.Profile
	input textinput.Model
	addr  int
	field int

	// note is a local message such as a rejected remove.
	note string
}

func newProfileScreen(ctrl *views.Profile) profileScreen {
	in := newInput("")
	in.Width = 32
	return profileScreen{ctrl: ctrl, input: in}
}

func (s *profileScreen) editing() bool {
	return s.ctrl != nil && s.ctrl.Editor.Mode() == editor.Editing
}

// moveTo focuses the cell (addr, field) and loads its value.
func (s *profileScreen) moveTo(addr, field int) tea.Cmd {
	n := s.ctrl.Editor.Len()
	if n == 0 {
		return nil
	}
	cells := n * len(datatypes.AddressFields)
	pos := ((addr*len(datatypes.AddressFields)+field)%cells + cells) % cells
	s.addr = pos / len(datatypes.AddressFields)
	s.field = pos % len(datatypes.AddressFields)
	s.syncInput()
	return s.input.Focus()
}

// syncInput loads the focused draft cell into the input.
func (s *profileScreen) syncInput() {
	if !s.editing() {
		s.input.Blur()
		return
	}
	draft := s.ctrl.Editor.Draft()
	if s.addr >= len(draft) {
		s.addr = len(draft) - 1
	}
	v, _ := draft[s.addr].Get(datatypes.AddressFields[s.field])
	s.input.SetValue(v)
	s.input.CursorEnd()
}

func (m Model) updateProfile(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || m.profile.ctrl == nil {
		return m, nil
	}
	s := &m.profile

	if s.editing() {
		return m.updateProfileEditing(km)
	}

	switch {
	case key.Matches(km, keys.Back):
		return m.switchTo(ScreenList)
	case key.Matches(km, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(km, keys.Edit):
		if err := s.ctrl.BeginEdit(); err != nil {
			return m, nil
		}
		s.note = ""
		return m, s.moveTo(0, 0)
	}
	return m, nil
}

func (m Model) updateProfileEditing(km tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.profile
	ed := s.ctrl.Editor

	switch {
	case key.Matches(km, keys.Back):
		if err := ed.Cancel(); err == nil {
			s.note = ""
			s.syncInput()
		}
		return m, nil
	case key.Matches(km, keys.Submit):
		addrs, err := ed.BeginCommit()
		if err != nil {
			return m, nil
		}
		s.note = ""
		return m, m.saveAddresses(s.ctrl.ID(), addrs)
	case key.Matches(km, keys.AddAddress):
		if err := ed.AddBlank(); err != nil {
			s.note = err.Error()
			return m, nil
		}
		s.note = ""
		return m, s.moveTo(ed.Len()-1, 0)
	case key.Matches(km, keys.DelAddress):
		if err := ed.RemoveAt(s.addr); err != nil {
			s.note = err.Error()
			return m, nil
		}
		s.note = ""
		return m, s.moveTo(min(s.addr, ed.Len()-1), s.field)
	case km.Type == tea.KeyTab, km.Type == tea.KeyEnter:
		return m, s.moveTo(s.addr, s.field+1)
	case km.Type == tea.KeyShiftTab:
		return m, s.moveTo(s.addr, s.field-1)
	}

	if ed.Busy() {
		return m, nil
	}
	var cmd tea.Cmd
	before := s.input.Value()
	s.input, cmd = s.input.Update(km)
	if v := s.input.Value(); v != before {
		_ = ed.EditField(s.addr, datatypes.AddressFields[s.field], v)
	}
	return m, cmd
}

func (m Model) viewProfile() string {
	s := m.profile
	if s.ctrl == nil {
		return ""
	}
	var b strings.Builder

	switch s.ctrl.State() {
	case views.ProfileLoading:
		b.WriteString(ux.Styles.Muted.Render("Loading customer " + s.ctrl.ID() + "..."))
		b.WriteString("\n")
	case views.ProfileNotFound:
		b.WriteString(ux.Styles.Warning.Render("Customer " + s.ctrl.ID() + " not found"))
		b.WriteString("\n")
	case views.ProfileError:
		b.WriteString(ux.Styles.Error.Render(s.ctrl.LoadError()))
		b.WriteString("\n")
	case views.ProfileFound:
		b.WriteString(m.viewCustomer())
	}

	b.WriteString("\n")
	if s.editing() {
		b.WriteString(m.help.ShortHelpView([]key.Binding{
			keys.NextField, keys.AddAddress, keys.DelAddress, keys.Submit, keys.Back,
		}))
	} else {
		b.WriteString(m.help.ShortHelpView([]key.Binding{keys.Edit, keys.Back, keys.Quit}))
	}
	return b.String()
}

func (m Model) viewCustomer() string {
	s := m.profile
	c := s.ctrl.Customer()
	var b strings.Builder

	b.WriteString(ux.Styles.Subtitle.Render(c.FullName()))
	b.WriteString("\n")
	b.WriteString(ux.Field("ID", c.ID) + "\n")
	b.WriteString(ux.Field("Phone", c.Phone) + "\n")
	if c.Email != "" {
		b.WriteString(ux.Field("Email", c.Email) + "\n")
	}
	if !c.CreatedAt.IsZero() {
		b.WriteString(ux.Field("Created", c.CreatedAt.Format("2006-01-02 15:04")) + "\n")
	}
	b.WriteString("\n")

	if s.editing() {
		b.WriteString(m.viewDraft())
	} else {
		b.WriteString(ux.Styles.Bold.Render(s.ctrl.Header()))
		b.WriteString("\n")
		if len(c.Addresses) > 1 {
			for i, a := range c.Addresses {
				b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, a.String()))
			}
		}
	}

	if line := s.ctrl.StatusLine(); line != "" {
		if s.ctrl.Editor.Status().Success {
			b.WriteString("\n" + ux.Styles.Success.Render(line) + "\n")
		} else {
			b.WriteString("\n" + ux.Styles.Error.Render(line) + "\n")
		}
	}
	if s.note != "" {
		b.WriteString("\n" + ux.Styles.Warning.Render(s.note) + "\n")
	}
	if s.ctrl.Editor.Busy() {
		b.WriteString("\n" + ux.Styles.Muted.Render("Saving...") + "\n")
	}
	return b.String()
}

func (m Model) viewDraft() string {
	s := m.profile
	var b strings.Builder
	for i, a := range s.ctrl.Editor.Draft() {
		b.WriteString(ux.Styles.Bold.Render(fmt.Sprintf("Address %d", i+1)))
		b.WriteString("\n")
		for j, f := range datatypes.AddressFields {
			b.WriteString("  " + ux.Styles.Label.Render(f.Label()) + " ")
			if i == s.addr && j == s.field {
				b.WriteString(s.input.View())
			} else {
				v, _ := a.Get(f)
				b.WriteString(v)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
