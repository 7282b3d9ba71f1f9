// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store provides the process-lifetime customer repository.
//
// # Description
//
// Repository maps customer IDs to Customer records. It is an explicitly owned
// object: open one at startup, pass the handle to whatever needs it, close it
// at shutdown. Nothing is written to disk.
//
// Records are msgpack encoded under "customer/<id>". A secondary key
// "email/<lowercased email>" holds the owning ID so duplicate emails are
// detected inside the same transaction that writes the record.
//
// # Invariants
//
//   - IDs are unique.
//   - Non-empty emails are unique, case-insensitively.
//   - No stored record has zero addresses.
//   - ReplaceAddresses swaps the whole list in one transaction.
//
// # Thread Safety
//
// Repository is safe for concurrent use.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AleutianAI/custdesk/services/customers/datatypes"
	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	// ErrNotFound is returned when no customer has the requested ID.
	ErrNotFound = errors.New("customer not found")

	// ErrDuplicateID is returned by Create when the ID is taken.
	ErrDuplicateID = errors.New("duplicate identifier")

	// ErrDuplicateEmail is returned by Create when the email is taken.
	ErrDuplicateEmail = errors.New("duplicate email")
)

var (
	customerPrefix = []byte("customer/")
	emailPrefix    = []byte("email/")
)

func customerKey(id string) []byte {
	return append(append([]byte{}, customerPrefix...), id...)
}

func emailKey(email string) []byte {
	return append(append([]byte{}, emailPrefix...), strings.ToLower(strings.TrimSpace(email))...)
}

// Repository is the customer store.
type Repository struct {
	db *badger.DB
}

// Open creates an empty in-memory repository.
//
// # Outputs
//
//   - *Repository: Ready for use. Caller must call Close().
//   - error: Non-nil if the underlying database cannot be opened.
func Open(cfg Config) (*Repository, error) {
	db, err := openInMemory(cfg)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

// Close releases the repository. All data is discarded.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Create inserts a new customer.
//
// # Inputs
//
//   - ctx: Cancellation is checked before the transaction starts.
//   - c: The record. Must have an ID and at least one address.
//
// # Outputs
//
//   - error: ErrDuplicateID, ErrDuplicateEmail, datatypes.ErrNoAddresses,
//     or a wrapped storage error.
func (r *Repository) Create(ctx context.Context, c datatypes.Customer) error {
	if c.ID == "" {
		return errors.New("customer id is required")
	}
	if len(c.Addresses) == 0 {
		return datatypes.ErrNoAddresses
	}

	return withTxn(ctx, r.db, func(txn *badger.Txn) error {
		if _, err := txn.Get(customerKey(c.ID)); err == nil {
			return ErrDuplicateID
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check id %s: %w", c.ID, err)
		}

		if c.Email != "" {
			if _, err := txn.Get(emailKey(c.Email)); err == nil {
				return ErrDuplicateEmail
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("check email: %w", err)
			}
			if err := txn.Set(emailKey(c.Email), []byte(c.ID)); err != nil {
				return fmt.Errorf("index email: %w", err)
			}
		}

		return putCustomer(txn, c)
	})
}

// Get returns the customer with the given ID, or ErrNotFound.
func (r *Repository) Get(ctx context.Context, id string) (datatypes.Customer, error) {
	var c datatypes.Customer
	err := withReadTxn(ctx, r.db, func(txn *badger.Txn) error {
		var err error
		c, err = getCustomer(txn, id)
		return err
	})
	return c, err
}

// List returns every customer in ascending ID order.
func (r *Repository) List(ctx context.Context) ([]datatypes.Customer, error) {
	out := []datatypes.Customer{}
	err := withReadTxn(ctx, r.db, func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(customerPrefix); it.ValidForPrefix(customerPrefix); it.Next() {
			var c datatypes.Customer
			if err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &c)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			out = append(out, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of stored customers.
func (r *Repository) Count(ctx context.Context) (int, error) {
	n := 0
	err := withReadTxn(ctx, r.db, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(customerPrefix); it.ValidForPrefix(customerPrefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// ReplaceAddresses replaces a customer's whole address list.
//
// # Description
//
// Only the Addresses field changes; legacy flat fields and contact data are
// left alone. Either the full list is written or nothing is.
//
// # Outputs
//
//   - datatypes.Customer: The updated record.
//   - error: ErrNotFound, datatypes.ErrNoAddresses, or a storage error.
func (r *Repository) ReplaceAddresses(ctx context.Context, id string, addrs []datatypes.Address) (datatypes.Customer, error) {
	if len(addrs) == 0 {
		return datatypes.Customer{}, datatypes.ErrNoAddresses
	}

	var updated datatypes.Customer
	err := withTxn(ctx, r.db, func(txn *badger.Txn) error {
		c, err := getCustomer(txn, id)
		if err != nil {
			return err
		}
		c.Addresses = datatypes.CloneAddresses(addrs)
		if err := putCustomer(txn, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	return updated, err
}

// Delete removes a customer and its email index entry.
// Returns ErrNotFound if the ID is unknown.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return withTxn(ctx, r.db, func(txn *badger.Txn) error {
		c, err := getCustomer(txn, id)
		if err != nil {
			return err
		}
		if c.Email != "" {
			if err := txn.Delete(emailKey(c.Email)); err != nil {
				return fmt.Errorf("unindex email: %w", err)
			}
		}
		if err := txn.Delete(customerKey(id)); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
		return nil
	})
}

// Seed inserts records that did not come through the create form.
//
// Each record is checked with Customer.Validate first. Stops at the first
// failure and reports how many records were inserted before it.
func (r *Repository) Seed(ctx context.Context, customers []datatypes.Customer) (int, error) {
	for i, c := range customers {
		if err := c.Validate(); err != nil {
			return i, fmt.Errorf("seed record %d: %w", i, err)
		}
		if err := r.Create(ctx, c); err != nil {
			return i, fmt.Errorf("seed record %d (%s): %w", i, c.ID, err)
		}
	}
	return len(customers), nil
}

func getCustomer(txn *badger.Txn, id string) (datatypes.Customer, error) {
	var c datatypes.Customer
	item, err := txn.Get(customerKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return c, ErrNotFound
	}
	if err != nil {
		return c, fmt.Errorf("get %s: %w", id, err)
	}
	err = item.Value(func(val []byte) error {
		return msgpack.Unmarshal(val, &c)
	})
	if err != nil {
		return c, fmt.Errorf("decode %s: %w", id, err)
	}
	return c, nil
}

func putCustomer(txn *badger.Txn, c datatypes.Customer) error {
	data, err := msgpack.Marshal(&c)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.ID, err)
	}
	if err := txn.Set(customerKey(c.ID), data); err != nil {
		return fmt.Errorf("put %s: %w", c.ID, err)
	}
	return nil
}
