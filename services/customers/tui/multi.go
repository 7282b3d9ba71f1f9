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
	"github.com/AleutianAI/custdesk/services/customers/views"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// multiScreen lists customers with more than one address. The search
// input always has focus, so arrows move the table and letters type.
type multiScreen struct {
	ctrl  *views.MultiAddressSearch
	input textinput.Model
	table table.Model
}

func newMultiScreen(ctrl *views.MultiAddressSearch) multiScreen {
	s := multiScreen{
		ctrl:  ctrl,
		input: newInput("Search by id, name or phone"),
		table: table.New(
			table.WithColumns(customerColumns()),
			table.WithFocused(true),
			table.WithHeight(10),
		),
	}
	s.input.Width = 32
	s.table.SetStyles(tableStyles())
	return s
}

func (s *multiScreen) resize(width, height int) {
	if width > 0 {
		s.table.SetWidth(width)
	}
	if height > 10 {
		s.table.SetHeight(height - 10)
	}
}

func (s *multiScreen) refresh() {
	found := s.ctrl.Rows()
	rows := make([]table.Row, 0, len(found))
	for _, c := range found {
		rows = append(rows, customerRow(c))
	}
	s.table.SetRows(rows)
	clampCursor(&s.table)
}

func (m Model) updateMulti(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	s := &m.multi

	switch km.Type {
	case tea.KeyEsc:
		s.input.Blur()
		return m.switchTo(ScreenList)
	case tea.KeyUp:
		s.table.MoveUp(1)
		return m, nil
	case tea.KeyDown:
		s.table.MoveDown(1)
		return m, nil
	case tea.KeyEnter:
		if row := s.table.SelectedRow(); len(row) > 0 {
			s.input.Blur()
			return m.openProfile(row[0])
		}
		return m, nil
	}

	var cmd tea.Cmd
	before := s.input.Value()
	s.input, cmd = s.input.Update(km)
	if v := s.input.Value(); v != before {
		s.ctrl.SetSearch(v)
		s.refresh()
	}
	return m, cmd
}

func (m Model) viewMulti() string {
	s := m.multi
	var b strings.Builder

	b.WriteString(ux.Styles.Subtitle.Render("Customers with multiple addresses"))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	if msg := s.ctrl.LoadError(); msg != "" {
		b.WriteString(ux.Styles.Error.Render(msg) + "\n\n")
	}
	if len(s.ctrl.Rows()) == 0 {
		b.WriteString(ux.Styles.Muted.Render("No customers with multiple addresses."))
		b.WriteString("\n")
	} else {
		b.WriteString(s.table.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{keys.Up, keys.Down, keys.Open, keys.Back}))
	return b.String()
}
