// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding. Screens pick the subset that applies.
type keyMap struct {
	Quit key.Binding
	Back key.Binding

	// list
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	First    key.Binding
	Last     key.Binding
	Open     key.Binding
	Filter   key.Binding
	Reset    key.Binding
	SortID   key.Binding
	SortName key.Binding
	SortTel  key.Binding
	New      key.Binding
	Multi    key.Binding
	Delete   key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
	Reload   key.Binding

	// forms
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding

	// address editor
	Edit       key.Binding
	AddAddress key.Binding
	DelAddress key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),

	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	PrevPage: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
	NextPage: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
	First:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
	Last:     key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
	Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "profile")),
	Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Reset:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset filters")),
	SortID:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "sort id")),
	SortName: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "sort name")),
	SortTel:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "sort phone")),
	New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Multi:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "multi-address")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Confirm:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
	Cancel:   key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel")),
	Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),

	NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
	Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),

	Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit addresses")),
	AddAddress: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "add address")),
	DelAddress: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "remove address")),
}

// Forced quit works on every screen, including while typing.
var forceQuit = key.NewBinding(key.WithKeys("ctrl+c"))
