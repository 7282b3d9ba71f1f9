// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package views

import (
	"context"

	"github.com/AleutianAI/custdesk/services/customers/api"
	"github.com/AleutianAI/custdesk/services/customers/datatypes"
	"github.com/AleutianAI/custdesk/services/customers/query"
)

// MultiAddressSearch lists customers that have more than one address.
type MultiAddressSearch struct {
	all     []datatypes.Customer
	search  string
	loadErr string
}

func NewMultiAddressSearch() *MultiAddressSearch { return &MultiAddressSearch{} }

func (m *MultiAddressSearch) SetSearch(s string) { m.search = s }
func (m *MultiAddressSearch) Search() string     { return m.search }
func (m *MultiAddressSearch) LoadError() string  { return m.loadErr }

// SetCustomers replaces the backing collection.
func (m *MultiAddressSearch) SetCustomers(all []datatypes.Customer) {
	m.all = all
	m.loadErr = ""
}

// Load fetches every customer from svc.
func (m *MultiAddressSearch) Load(ctx context.Context, svc api.Service) error {
	all, err := svc.ListCustomers(ctx)
	m.FinishLoad(all, err)
	return err
}

// FinishLoad applies the result of ListCustomers.
func (m *MultiAddressSearch) FinishLoad(all []datatypes.Customer, err error) {
	if err != nil {
		m.loadErr = "Error loading customers: " + err.Error()
		return
	}
	m.SetCustomers(all)
}

// Rows returns the matching customers in collection order.
func (m *MultiAddressSearch) Rows() []datatypes.Customer {
	return query.MultiAddress(m.all, m.search)
}
