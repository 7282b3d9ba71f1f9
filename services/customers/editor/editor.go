// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package editor implements the draft address list behind "Edit Addresses".
//
// # Description
//
// An Editor is either Viewing or Editing:
//
//	Viewing --Begin--> Editing
//	Editing --Cancel--> Viewing            (draft discarded)
//	Editing --Commit ok--> Viewing         (draft stored)
//	Editing --edit / failed Commit--> Editing
//
// The draft can never shrink below one address. Commit validates the whole
// draft before anything leaves the process; a failed validation or a
// failed update leaves the draft exactly as it was so the operator can fix
// it and retry.
//
// # Thread Safety
//
// Not safe for concurrent use. The terminal UI drives it from one goroutine.
// The busy flag exists to reject a second Commit issued while the first is
// still in flight (see BeginCommit / FinishCommit).
package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/AleutianAI/custdesk/services/customers/api"
	"github.com/AleutianAI/custdesk/services/customers/datatypes"
)

var (
	ErrLastAddress     = errors.New("cannot remove the only address")
	ErrIndexOutOfRange = errors.New("address index out of range")
	ErrUnknownField    = errors.New("unknown address field")
	ErrNotEditing      = errors.New("editor is not editing")
	ErrBusy            = errors.New("update already in progress")
)

// Mode is the editor state.
type Mode int

const (
	Viewing Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "viewing"
}

// Status is the outcome of the last commit. Edits clear it.
type Status struct {
	Success bool
	Error   string
}

// ValidationFailure is returned by ValidateAll for the first bad address.
type ValidationFailure struct {
	Index  int
	Errors datatypes.FieldErrors
}

func (f *ValidationFailure) Error() string { return datatypes.MsgAddressList }

// Editor holds the draft.
type Editor struct {
	mode   Mode
	draft  []datatypes.Address
	status Status
	busy   bool
}

// New returns an editor in Viewing mode.
func New() *Editor { return &Editor{} }

func (e *Editor) Mode() Mode     { return e.mode }
func (e *Editor) Status() Status { return e.status }
func (e *Editor) Busy() bool     { return e.busy }

// Draft returns a copy of the current draft. Nil while Viewing.
func (e *Editor) Draft() []datatypes.Address {
	if e.draft == nil {
		return nil
	}
	return datatypes.CloneAddresses(e.draft)
}

// Len is the number of draft addresses.
func (e *Editor) Len() int { return len(e.draft) }

// Begin enters Editing with a copy of current. It fails with ErrBusy while
// a commit is in flight.
func (e *Editor) Begin(current []datatypes.Address) error {
	if e.busy {
		return ErrBusy
	}
	e.mode = Editing
	e.draft = datatypes.CloneAddresses(current)
	if len(e.draft) == 0 {
		e.draft = []datatypes.Address{{}}
	}
	e.status = Status{}
	return nil
}

// Cancel discards the draft and returns to Viewing.
func (e *Editor) Cancel() error {
	if e.mode != Editing {
		return ErrNotEditing
	}
	if e.busy {
		return ErrBusy
	}
	e.mode = Viewing
	e.draft = nil
	e.status = Status{}
	return nil
}

// AddBlank appends an empty address.
func (e *Editor) AddBlank() error {
	if e.mode != Editing {
		return ErrNotEditing
	}
	e.draft = append(e.draft, datatypes.Address{})
	e.status = Status{}
	return nil
}

// RemoveAt removes the address at i. The last remaining address cannot be
// removed.
func (e *Editor) RemoveAt(i int) error {
	if e.mode != Editing {
		return ErrNotEditing
	}
	if i < 0 || i >= len(e.draft) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	if len(e.draft) == 1 {
		return ErrLastAddress
	}
	e.draft = append(e.draft[:i:i], e.draft[i+1:]...)
	e.status = Status{}
	return nil
}

// EditField sets one field of the address at i.
func (e *Editor) EditField(i int, field datatypes.Field, value string) error {
	if e.mode != Editing {
		return ErrNotEditing
	}
	if i < 0 || i >= len(e.draft) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	updated, ok := e.draft[i].With(field, value)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	e.draft[i] = updated
	e.status = Status{}
	return nil
}

// ValidateAll checks every draft address in order and reports the first
// failure as a *ValidationFailure.
func (e *Editor) ValidateAll() error {
	if idx, errs := datatypes.ValidateAddresses(e.draft); idx >= 0 {
		return &ValidationFailure{Index: idx, Errors: errs}
	}
	return nil
}

// Commit validates the draft and sends it to updater.
//
// # Description
//
// Synchronous form of BeginCommit + updater call + FinishCommit.
//
// # Outputs
//
//   - *datatypes.Customer: The stored record on success.
//   - error: ErrNotEditing, ErrBusy, *ValidationFailure, or the updater's
//     error. On any error the draft is unchanged.
func (e *Editor) Commit(ctx context.Context, updater api.AddressUpdater, id string) (*datatypes.Customer, error) {
	addrs, err := e.BeginCommit()
	if err != nil {
		return nil, err
	}
	c, err := updater.UpdateCustomerAddresses(ctx, id, addrs)
	e.FinishCommit(err)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// BeginCommit validates and marks the editor busy.
//
// Returns a copy of the draft to send. The caller must call FinishCommit
// with the outcome once the update returns. Used by the terminal UI, which
// runs the update as a background command.
func (e *Editor) BeginCommit() ([]datatypes.Address, error) {
	if e.mode != Editing {
		return nil, ErrNotEditing
	}
	if e.busy {
		return nil, ErrBusy
	}
	if err := e.ValidateAll(); err != nil {
		e.status = Status{Error: err.Error()}
		return nil, err
	}
	e.busy = true
	e.status = Status{}
	return datatypes.CloneAddresses(e.draft), nil
}

// FinishCommit records the outcome of an update started by BeginCommit.
func (e *Editor) FinishCommit(err error) {
	e.busy = false
	if err != nil {
		e.status = Status{Error: "Update failed: " + err.Error()}
		return
	}
	e.mode = Viewing
	e.draft = nil
	e.status = Status{Success: true}
}
