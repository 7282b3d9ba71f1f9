// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tui

import (
	"strings"

	"github.com/AleutianAI/custdesk/pkg/ux"
	"github.com/AleutianAI/custdesk/services/customers/datatypes"
	"github.com/AleutianAI/custdesk/services/customers/views"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// newInput returns a single-line input with a steady cursor.
func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 120
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// createScreen is the new-customer form, one input per form field.
type createScreen struct {
	ctrl   *views.Create
	inputs []textinput.Model
	focus  int
}

func newCreateScreen(ctrl *views.Create) createScreen {
	s := createScreen{ctrl: ctrl, inputs: make([]textinput.Model, len(datatypes.FormFields))}
	for i, f := range datatypes.FormFields {
		s.inputs[i] = newInput(f.Label())
		s.inputs[i].Width = 32
	}
	return s
}

func (s *createScreen) setFocus(i int) tea.Cmd {
	n := len(s.inputs)
	i = (i%n + n) % n
	for j := range s.inputs {
		s.inputs[j].Blur()
	}
	s.focus = i
	return s.inputs[i].Focus()
}

// syncInputs copies the controller's values into the inputs.
func (s *createScreen) syncInputs() {
	for i, f := range datatypes.FormFields {
		s.inputs[i].SetValue(s.ctrl.Value(f))
	}
}

func (m Model) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	s := &m.create

	switch {
	case key.Matches(km, keys.Back):
		if s.ctrl.Busy() {
			return m, nil
		}
		s.ctrl.Reset()
		s.syncInputs()
		return m.switchTo(ScreenList)
	case key.Matches(km, keys.Submit):
		return m.submitCreate()
	case km.Type == tea.KeyEnter:
		if s.focus == len(s.inputs)-1 {
			return m.submitCreate()
		}
		return m, s.setFocus(s.focus + 1)
	case key.Matches(km, keys.NextField):
		return m, s.setFocus(s.focus + 1)
	case key.Matches(km, keys.PrevField):
		return m, s.setFocus(s.focus - 1)
	}

	var cmd tea.Cmd
	before := s.inputs[s.focus].Value()
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(km)
	if v := s.inputs[s.focus].Value(); v != before {
		_ = s.ctrl.Set(datatypes.FormFields[s.focus], v)
	}
	return m, cmd
}

func (m Model) submitCreate() (tea.Model, tea.Cmd) {
	req, err := m.create.ctrl.BeginSubmit()
	if err != nil {
		return m, nil
	}
	return m, m.createCustomer(req)
}

func (m Model) viewCreate() string {
	s := m.create
	errs := s.ctrl.Errors()
	var b strings.Builder

	b.WriteString(ux.Styles.Subtitle.Render("New customer"))
	b.WriteString("\n\n")

	if msg := errs.Get(datatypes.FieldID); msg != "" {
		b.WriteString(ux.Styles.Error.Render(msg))
		b.WriteString("\n\n")
	}

	for i, f := range datatypes.FormFields {
		b.WriteString(ux.Styles.Label.Render(f.Label()))
		b.WriteString(" ")
		b.WriteString(s.inputs[i].View())
		b.WriteString("\n")
		if msg := errs.Get(f); msg != "" {
			b.WriteString(strings.Repeat(" ", 13))
			b.WriteString(ux.Styles.Error.Render(msg))
			b.WriteString("\n")
		}
	}

	if banner := s.ctrl.Banner(); banner != "" {
		b.WriteString("\n" + ux.Styles.Error.Render(banner) + "\n")
	}
	if s.ctrl.Busy() {
		b.WriteString("\n" + ux.Styles.Muted.Render("Saving...") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{keys.NextField, keys.PrevField, keys.Submit, keys.Back}))
	return b.String()
}
