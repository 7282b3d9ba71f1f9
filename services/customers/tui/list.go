// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AleutianAI/custdesk/pkg/ux"
	"github.com/AleutianAI/custdesk/services/customers/datatypes"
	"github.com/AleutianAI/custdesk/services/customers/query"
	"github.com/AleutianAI/custdesk/services/customers/views"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Filter inputs in tab order.
const (
	filterSearch = iota
	filterCity
	filterState
	filterPinCode
	filterCount
)

var filterLabels = [filterCount]string{"Search", "City", "State", "Pin Code"}

// listScreen is the customer list: a filter row, the current page and the
// pager.
type listScreen struct {
	ctrl    *views.List
	table   table.Model
	filters [filterCount]textinput.Model

	// focus is the filter input being typed into, or -1 while browsing.
	focus int
}

func newListScreen(ctrl *views.List) listScreen {
	s := listScreen{
		ctrl:  ctrl,
		focus: -1,
		table: table.New(
			table.WithColumns(customerColumns()),
			table.WithFocused(true),
			table.WithHeight(ctrl.Params().PageSize+1),
		),
	}
	s.table.SetStyles(tableStyles())
	for i := range s.filters {
		s.filters[i] = newInput(filterLabels[i])
		s.filters[i].Width = 16
	}
	return s
}

func customerColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 12},
		{Title: "Name", Width: 24},
		{Title: "Phone", Width: 12},
		{Title: "City", Width: 14},
		{Title: "Addr", Width: 4},
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.Foreground(ux.ColorPrimary).Bold(true)
	s.Selected = s.Selected.Foreground(ux.ColorAccent).Bold(true)
	return s
}

func customerRow(c datatypes.Customer) table.Row {
	city := ""
	if len(c.Addresses) > 0 {
		city = c.Addresses[0].City
	}
	return table.Row{c.ID, c.FullName(), c.Phone, city, strconv.Itoa(len(c.Addresses))}
}

func (s *listScreen) resize(width, _ int) {
	if width > 0 {
		s.table.SetWidth(width)
	}
}

// refresh copies the controller's current page into the table.
func (s *listScreen) refresh() {
	pv := s.ctrl.Page()
	rows := make([]table.Row, 0, len(pv.Rows))
	for _, c := range pv.Rows {
		rows = append(rows, customerRow(c))
	}
	s.table.SetRows(rows)
	clampCursor(&s.table)
}

// selectedID is the ID of the highlighted row, or "".
func (s *listScreen) selectedID() string {
	row := s.table.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

// applyFilter pushes the value of filter input i into the controller.
func (s *listScreen) applyFilter(i int) {
	v := s.filters[i].Value()
	switch i {
	case filterSearch:
		s.ctrl.SetSearch(v)
	case filterCity:
		s.ctrl.SetCity(v)
	case filterState:
		s.ctrl.SetState(v)
	case filterPinCode:
		s.ctrl.SetPinCode(v)
	}
}

func (s *listScreen) focusFilter(i int) tea.Cmd {
	for j := range s.filters {
		s.filters[j].Blur()
	}
	s.focus = i
	if i < 0 {
		return nil
	}
	return s.filters[i].Focus()
}

func (s *listScreen) pageChanged() {
	s.table.SetCursor(0)
	s.refresh()
}

// clampCursor keeps the table cursor on a row. table.SetCursor leaves it
// at -1 once the rows run out, and it stays there when rows come back.
func clampCursor(t *table.Model) {
	n := len(t.Rows())
	if c := t.Cursor(); c < 0 || c >= n {
		t.SetCursor(max(n-1, 0))
	}
}

// =============================================================================
// Update
// =============================================================================

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	s := &m.list

	if s.focus >= 0 {
		return m.updateListFilter(km)
	}

	// A pending delete takes the next y/n before anything else.
	if s.ctrl.PendingID() != "" && !s.ctrl.Deleting() {
		switch {
		case key.Matches(km, keys.Confirm):
			id, err := s.ctrl.BeginDelete()
			if err != nil {
				return m, nil
			}
			return m, m.deleteCustomer(id)
		case key.Matches(km, keys.Cancel):
			s.ctrl.CancelDelete()
			return m, nil
		}
	}

	switch {
	case key.Matches(km, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(km, keys.Up):
		s.table.MoveUp(1)
	case key.Matches(km, keys.Down):
		s.table.MoveDown(1)
	case key.Matches(km, keys.PrevPage):
		s.ctrl.Prev()
		s.pageChanged()
	case key.Matches(km, keys.NextPage):
		s.ctrl.Next()
		s.pageChanged()
	case key.Matches(km, keys.First):
		s.ctrl.First()
		s.pageChanged()
	case key.Matches(km, keys.Last):
		s.ctrl.Last()
		s.pageChanged()
	case key.Matches(km, keys.SortID):
		s.ctrl.ToggleSort(query.SortByID)
		s.refresh()
	case key.Matches(km, keys.SortName):
		s.ctrl.ToggleSort(query.SortByName)
		s.refresh()
	case key.Matches(km, keys.SortTel):
		s.ctrl.ToggleSort(query.SortByPhone)
		s.refresh()
	case key.Matches(km, keys.Filter):
		return m, s.focusFilter(filterSearch)
	case key.Matches(km, keys.Reset):
		s.ctrl.ResetFilters()
		for i := range s.filters {
			s.filters[i].SetValue("")
		}
		s.pageChanged()
	case key.Matches(km, keys.Open):
		if id := s.selectedID(); id != "" {
			m.flash = ""
			return m.openProfile(id)
		}
	case key.Matches(km, keys.Delete):
		if id := s.selectedID(); id != "" {
			s.ctrl.RequestDelete(id)
		}
	case key.Matches(km, keys.New):
		m.flash = ""
		return m.switchTo(ScreenCreate)
	case key.Matches(km, keys.Multi):
		m.flash = ""
		return m.switchTo(ScreenMulti)
	case key.Matches(km, keys.Reload):
		return m, m.loadCustomers(ScreenList)
	}
	return m, nil
}

func (m Model) updateListFilter(km tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.list
	switch km.Type {
	case tea.KeyEsc, tea.KeyEnter:
		return m, s.focusFilter(-1)
	case tea.KeyTab:
		return m, s.focusFilter((s.focus + 1) % filterCount)
	case tea.KeyShiftTab:
		return m, s.focusFilter((s.focus + filterCount - 1) % filterCount)
	}

	var cmd tea.Cmd
	before := s.filters[s.focus].Value()
	s.filters[s.focus], cmd = s.filters[s.focus].Update(km)
	if s.filters[s.focus].Value() != before {
		s.applyFilter(s.focus)
		s.pageChanged()
	}
	return m, cmd
}

// =============================================================================
// View
// =============================================================================

func (m Model) viewList() string {
	s := m.list
	var b strings.Builder

	parts := make([]string, 0, filterCount)
	for i := range s.filters {
		parts = append(parts, s.filters[i].View())
	}
	b.WriteString(strings.Join(parts, "  "))
	b.WriteString("\n")

	p := s.ctrl.Params()
	b.WriteString(ux.Styles.Muted.Render(fmt.Sprintf("sorted by %s %s", p.SortField, p.SortDir)))
	b.WriteString("\n\n")

	if msg := s.ctrl.LoadError(); msg != "" {
		b.WriteString(ux.Styles.Error.Render(msg))
		b.WriteString("\n\n")
	}

	pv := s.ctrl.Page()
	if pv.Total == 0 {
		b.WriteString(ux.Styles.Muted.Render("No customers found."))
		b.WriteString("\n")
	} else {
		b.WriteString(s.table.View())
		b.WriteString("\n")
	}
	b.WriteString(pagerLine(pv))
	b.WriteString("\n")

	if id := s.ctrl.PendingID(); id != "" {
		b.WriteString("\n")
		if s.ctrl.Deleting() {
			b.WriteString(ux.Styles.Muted.Render("Deleting " + id + "..."))
		} else {
			b.WriteString(ux.Styles.Warning.Render("Delete customer " + id + "? (y/n)"))
		}
		b.WriteString("\n")
	}
	if notice := s.ctrl.Notice(); notice != "" {
		b.WriteString("\n" + noticeStyle(notice) + "\n")
	}
	if m.flash != "" {
		b.WriteString("\n" + ux.Styles.Success.Render(m.flash) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{
		keys.Up, keys.Down, keys.PrevPage, keys.NextPage, keys.Open, keys.Filter,
		keys.SortID, keys.SortName, keys.SortTel, keys.Delete, keys.New, keys.Multi, keys.Quit,
	}))
	return b.String()
}

func pagerLine(pv views.PageView) string {
	prev, next := "‹ prev", "next ›"
	if !pv.CanPrev {
		prev = ux.Styles.Muted.Render(prev)
	}
	if !pv.CanNext {
		next = ux.Styles.Muted.Render(next)
	}
	return fmt.Sprintf("%s  %s  %s  %s", prev, pv.Label, next,
		ux.Styles.Muted.Render(fmt.Sprintf("(%d total)", pv.Total)))
}

func noticeStyle(notice string) string {
	if strings.HasPrefix(notice, "Error") {
		return ux.Styles.Error.Render(notice)
	}
	return ux.Styles.Success.Render(notice)
}
