// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AleutianAI/custdesk/pkg/logging"
	"github.com/AleutianAI/custdesk/services/customers/datatypes"
	"github.com/AleutianAI/custdesk/services/customers/store"
	"github.com/google/uuid"
)

// Recorder receives store-level events. observability.CustomerMetrics
// implements it.
type Recorder interface {
	RecordOperation(op, outcome string)
	SetCustomersStored(n int)
}

type nopRecorder struct{}

func (nopRecorder) RecordOperation(string, string) {}
func (nopRecorder) SetCustomersStored(int)         {}

// Operation and outcome labels passed to Recorder.
const (
	OpCreate = "create"
	OpDelete = "delete"
	OpUpdate = "update_addresses"
	OpGet    = "get"
	OpList   = "list"

	OutcomeOK        = "ok"
	OutcomeInvalid   = "invalid"
	OutcomeNotFound  = "not_found"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

// Local implements Service over a repository in the same process.
type Local struct {
	repo     *store.Repository
	logger   *logging.Logger
	recorder Recorder
	now      func() time.Time
	newID    func() (string, error)
}

// LocalOption configures a Local.
type LocalOption func(*Local)

// WithRecorder routes operation events to r.
func WithRecorder(r Recorder) LocalOption {
	return func(l *Local) {
		if r != nil {
			l.recorder = r
		}
	}
}

// WithClock overrides time.Now for CreatedAt stamps.
func WithClock(now func() time.Time) LocalOption {
	return func(l *Local) { l.now = now }
}

// WithIDGenerator overrides the UUIDv7 generator used for empty IDs.
func WithIDGenerator(gen func() (string, error)) LocalOption {
	return func(l *Local) { l.newID = gen }
}

// NewLocal creates a Local over repo. A nil logger logs nothing.
func NewLocal(repo *store.Repository, logger *logging.Logger, opts ...LocalOption) *Local {
	if logger == nil {
		logger = logging.Nop()
	}
	l := &Local{
		repo:     repo,
		logger:   logger,
		recorder: nopRecorder{},
		now:      func() time.Time { return time.Now().UTC() },
		newID:    NewCustomerID,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewCustomerID returns a fresh time-ordered identifier.
func NewCustomerID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate customer id: %w", err)
	}
	return id.String(), nil
}

// CreateCustomer validates req and stores it.
func (l *Local) CreateCustomer(ctx context.Context, req datatypes.CreateCustomerRequest) (*datatypes.Customer, error) {
	if errs := datatypes.ValidateCustomer(req); !errs.Empty() {
		l.recorder.RecordOperation(OpCreate, OutcomeInvalid)
		return nil, &ValidationError{Index: -1, Fields: errs}
	}

	if req.ID == "" {
		id, err := l.newID()
		if err != nil {
			l.recorder.RecordOperation(OpCreate, OutcomeError)
			return nil, err
		}
		req.ID = id
	}

	c := req.ToCustomer(l.now())
	if err := l.repo.Create(ctx, c); err != nil {
		l.recorder.RecordOperation(OpCreate, outcomeFor(err))
		l.logger.Warn("create customer failed", "id", req.ID, "error", err)
		return nil, fmt.Errorf("create customer %s: %w", req.ID, err)
	}

	l.recorder.RecordOperation(OpCreate, OutcomeOK)
	l.refreshStored(ctx)
	l.logger.Info("customer created", "id", c.ID)
	return &c, nil
}

// DeleteCustomer removes the customer with the given ID.
func (l *Local) DeleteCustomer(ctx context.Context, id string) error {
	if err := l.repo.Delete(ctx, id); err != nil {
		l.recorder.RecordOperation(OpDelete, outcomeFor(err))
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	l.recorder.RecordOperation(OpDelete, OutcomeOK)
	l.refreshStored(ctx)
	l.logger.Info("customer deleted", "id", id)
	return nil
}

// UpdateCustomerAddresses validates addrs and replaces the stored list.
func (l *Local) UpdateCustomerAddresses(ctx context.Context, id string, addrs []datatypes.Address) (*datatypes.Customer, error) {
	if err := ValidateAddressList(addrs); err != nil {
		l.recorder.RecordOperation(OpUpdate, OutcomeInvalid)
		return nil, err
	}

	c, err := l.repo.ReplaceAddresses(ctx, id, addrs)
	if err != nil {
		l.recorder.RecordOperation(OpUpdate, outcomeFor(err))
		return nil, fmt.Errorf("update addresses of %s: %w", id, err)
	}
	l.recorder.RecordOperation(OpUpdate, OutcomeOK)
	l.logger.Info("customer addresses replaced", "id", id, "count", len(addrs))
	return &c, nil
}

// GetCustomer returns one customer.
func (l *Local) GetCustomer(ctx context.Context, id string) (*datatypes.Customer, error) {
	c, err := l.repo.Get(ctx, id)
	if err != nil {
		l.recorder.RecordOperation(OpGet, outcomeFor(err))
		return nil, fmt.Errorf("get customer %s: %w", id, err)
	}
	l.recorder.RecordOperation(OpGet, OutcomeOK)
	return &c, nil
}

// ListCustomers returns every customer.
func (l *Local) ListCustomers(ctx context.Context) ([]datatypes.Customer, error) {
	list, err := l.repo.List(ctx)
	if err != nil {
		l.recorder.RecordOperation(OpList, OutcomeError)
		return nil, fmt.Errorf("list customers: %w", err)
	}
	l.recorder.RecordOperation(OpList, OutcomeOK)
	return list, nil
}

func (l *Local) refreshStored(ctx context.Context) {
	n, err := l.repo.Count(ctx)
	if err != nil {
		l.logger.Debug("count customers failed", "error", err)
		return
	}
	l.recorder.SetCustomersStored(n)
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrDuplicateIdentifier), errors.Is(err, ErrDuplicateEmail):
		return OutcomeDuplicate
	case errors.Is(err, ErrValidation), errors.Is(err, datatypes.ErrNoAddresses):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

var _ Service = (*Local)(nil)
