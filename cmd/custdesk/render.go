// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AleutianAI/custdesk/pkg/ux"
	"github.com/AleutianAI/custdesk/services/customers/datatypes"
	"github.com/AleutianAI/custdesk/services/customers/views"
)

var customerHeaders = []string{"ID", "Name", "Phone", "City", "State", "Pin Code", "Addresses"}

var addressHeaders = []string{"#", "Address", "City", "State", "Pin Code"}

// customerRows renders one row per customer. Location columns come from
// the first address.
func customerRows(customers []datatypes.Customer) [][]string {
	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		var first datatypes.Address
		if len(c.Addresses) > 0 {
			first = c.Addresses[0]
		}
		rows = append(rows, []string{
			c.ID,
			c.FullName(),
			c.Phone,
			first.City,
			first.State,
			first.PinCode,
			strconv.Itoa(len(c.Addresses)),
		})
	}
	return rows
}

func addressRows(addrs []datatypes.Address) [][]string {
	rows := make([][]string, 0, len(addrs))
	for i, a := range addrs {
		rows = append(rows, []string{strconv.Itoa(i + 1), a.Address, a.City, a.State, a.PinCode})
	}
	return rows
}

// renderProfile renders a loaded profile: contact fields, the address
// header line and the address table.
func renderProfile(p *views.Profile) string {
	c := p.Customer()
	if c == nil {
		return ""
	}
	fields := []string{
		ux.Field("ID", c.ID),
		ux.Field("Phone", c.Phone),
	}
	if c.Email != "" {
		fields = append(fields, ux.Field("Email", c.Email))
	}
	if !c.CreatedAt.IsZero() {
		fields = append(fields, ux.Field("Created", c.CreatedAt.Format(time.RFC3339)))
	}

	var b strings.Builder
	b.WriteString(ux.RenderBox(c.FullName(), strings.Join(fields, "\n")))
	b.WriteString("\n")
	b.WriteString(p.Header())
	b.WriteString("\n")
	b.WriteString(ux.Table(addressHeaders, addressRows(c.Addresses)))
	return b.String()
}

// formErrors lists field errors in form order, one per line.
func formErrors(errs datatypes.FieldErrors) string {
	var lines []string
	for _, f := range append([]datatypes.Field{datatypes.FieldID}, datatypes.FormFields...) {
		if msg := errs.Get(f); msg != "" {
			lines = append(lines, fmt.Sprintf("  %s: %s", f.Label(), msg))
		}
	}
	return strings.Join(lines, "\n")
}
