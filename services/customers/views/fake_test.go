// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package views

import (
	"context"

	"github.com/AleutianAI/custdesk/services/customers/datatypes"
)

// fakeService is an api.Service that counts calls and returns canned
// errors. Successful calls operate on an in-memory map.
type fakeService struct {
	customers map[string]datatypes.Customer

	createErr error
	deleteErr error
	updateErr error

	createCalls int
	deleteCalls int
	updateCalls int
	listCalls   int
}

func newFakeService(cs ...datatypes.Customer) *fakeService {
	f := &fakeService{customers: map[string]datatypes.Customer{}}
	for _, c := range cs {
		f.customers[c.ID] = c
	}
	return f
}

func (f *fakeService) CreateCustomer(_ context.Context, req datatypes.CreateCustomerRequest) (*datatypes.Customer, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	c := req.ToCustomer(fixedNow)
	f.customers[c.ID] = c
	return &c, nil
}

func (f *fakeService) DeleteCustomer(_ context.Context, id string) error {
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.customers, id)
	return nil
}

func (f *fakeService) UpdateCustomerAddresses(_ context.Context, id string, addrs []datatypes.Address) (*datatypes.Customer, error) {
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	c := f.customers[id]
	c.Addresses = addrs
	f.customers[id] = c
	return &c, nil
}

func (f *fakeService) GetCustomer(_ context.Context, id string) (*datatypes.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, errNotFoundForTest
	}
	return &c, nil
}

func (f *fakeService) ListCustomers(context.Context) ([]datatypes.Customer, error) {
	f.listCalls++
	out := make([]datatypes.Customer, 0, len(f.customers))
	for _, id := range sortedKeys(f.customers) {
		out = append(out, f.customers[id])
	}
	return out, nil
}
