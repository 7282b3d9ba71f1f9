// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/AleutianAI/custdesk/services/customers/api"
	"github.com/AleutianAI/custdesk/services/customers/datatypes"
	"github.com/AleutianAI/custdesk/services/customers/query"
)

// =============================================================================
// Delete state machine
// =============================================================================

// DeleteState is the per-row delete phase.
//
//	Idle --RequestDelete--> ConfirmPending
//	ConfirmPending --CancelDelete--> Idle
//	ConfirmPending --ConfirmDelete--> Deleted
//
// At most one row is ConfirmPending at a time.
type DeleteState int

const (
	Idle DeleteState = iota
	ConfirmPending
	Deleted
)

func (s DeleteState) String() string {
	switch s {
	case ConfirmPending:
		return "confirm_pending"
	case Deleted:
		return "deleted"
	default:
		return "idle"
	}
}

// ErrNoPendingDelete is returned by ConfirmDelete without a prior request.
var ErrNoPendingDelete = errors.New("no delete awaiting confirmation")

// =============================================================================
// List
// =============================================================================

// PageView is what the list screen renders.
type PageView struct {
	Rows         []datatypes.Customer
	Page         int
	TotalPages   int
	DisplayPages int
	Total        int
	Label        string // "Page X of Y"
	CanPrev      bool
	CanNext      bool
}

// List is the customer list screen.
type List struct {
	all       []datatypes.Customer
	params    query.Params
	pendingID string
	deletedID string
	deleting  bool
	notice    string
	loadErr   string
}

// NewList returns an empty list sorted by id ascending. pageSize <= 0
// means query.DefaultPageSize.
func NewList(pageSize int) *List {
	if pageSize <= 0 {
		pageSize = query.DefaultPageSize
	}
	return &List{params: query.Params{
		SortField: query.SortByID,
		SortDir:   query.Asc,
		Page:      1,
		PageSize:  pageSize,
	}}
}

// Params returns the current filter/sort/page parameters.
func (l *List) Params() query.Params { return l.params }

// Notice is the last informational message (delete outcomes).
func (l *List) Notice() string { return l.notice }

// LoadError is the last load failure, empty after a successful load.
func (l *List) LoadError() string { return l.loadErr }

// SetCustomers replaces the backing collection. The current page is
// clamped so it never points past the last page.
func (l *List) SetCustomers(all []datatypes.Customer) {
	l.all = all
	l.loadErr = ""
	if total := l.totalPages(); l.params.Page > total {
		l.params.Page = max(total, 1)
	}
}

// Load fetches every customer from svc.
func (l *List) Load(ctx context.Context, svc api.Service) error {
	all, err := svc.ListCustomers(ctx)
	l.FinishLoad(all, err)
	return err
}

// FinishLoad applies the result of a ListCustomers call.
func (l *List) FinishLoad(all []datatypes.Customer, err error) {
	if err != nil {
		l.loadErr = "Error loading customers: " + err.Error()
		return
	}
	l.SetCustomers(all)
}

// ---- filters -----------------------------------------------------------

func (l *List) SetSearch(s string)  { l.params.Search = s; l.params.Page = 1 }
func (l *List) SetCity(s string)    { l.params.City = s; l.params.Page = 1 }
func (l *List) SetState(s string)   { l.params.State = s; l.params.Page = 1 }
func (l *List) SetPinCode(s string) { l.params.PinCode = s; l.params.Page = 1 }

// ResetFilters clears all four filters and returns to page 1. Sorting is
// kept.
func (l *List) ResetFilters() {
	l.params.Search = ""
	l.params.City = ""
	l.params.State = ""
	l.params.PinCode = ""
	l.params.Page = 1
}

// ToggleSort flips the direction when field is already the sort field,
// otherwise sorts by field ascending.
func (l *List) ToggleSort(field query.SortField) {
	if l.params.SortField == field {
		l.params.SortDir = l.params.SortDir.Flip()
		return
	}
	l.params.SortField = field
	l.params.SortDir = query.Asc
}

// ---- paging ------------------------------------------------------------

func (l *List) totalPages() int {
	return query.TotalPages(len(query.Filter(l.all, l.params)), l.params.PageSize)
}

func (l *List) canPrev() bool { return l.params.Page > 1 }

func (l *List) canNext() bool {
	total := l.totalPages()
	return total > 0 && l.params.Page < total
}

func (l *List) First() {
	l.params.Page = 1
}

func (l *List) Prev() {
	if l.canPrev() {
		l.params.Page--
	}
}

func (l *List) Next() {
	if l.canNext() {
		l.params.Page++
	}
}

func (l *List) Last() {
	if total := l.totalPages(); total > 0 {
		l.params.Page = total
	}
}

// Page runs the pipeline and returns the visible page.
func (l *List) Page() PageView {
	res := query.Run(l.all, l.params)
	display := query.DisplayPages(res.TotalPages)
	return PageView{
		Rows:         res.Rows,
		Page:         l.params.Page,
		TotalPages:   res.TotalPages,
		DisplayPages: display,
		Total:        res.Total,
		Label:        fmt.Sprintf("Page %d of %d", l.params.Page, display),
		CanPrev:      l.canPrev(),
		CanNext:      l.canNext(),
	}
}

// ---- delete ------------------------------------------------------------

// DeleteState returns the delete phase of the row with the given id.
func (l *List) DeleteState(id string) DeleteState {
	switch id {
	case "":
		return Idle
	case l.pendingID:
		return ConfirmPending
	case l.deletedID:
		return Deleted
	default:
		return Idle
	}
}

// PendingID is the row awaiting confirmation, or "".
func (l *List) PendingID() string { return l.pendingID }

// Deleting reports whether a confirmed delete is in flight.
func (l *List) Deleting() bool { return l.deleting }

// RequestDelete asks for confirmation on id. Any other pending row goes
// back to Idle.
func (l *List) RequestDelete(id string) {
	if l.deleting {
		return
	}
	l.pendingID = id
	l.notice = ""
}

// CancelDelete returns the pending row to Idle.
func (l *List) CancelDelete() {
	if l.deleting {
		return
	}
	l.pendingID = ""
}

// BeginDelete starts the confirmed delete and returns the id to remove.
func (l *List) BeginDelete() (string, error) {
	if l.deleting {
		return "", ErrBusy
	}
	if l.pendingID == "" {
		return "", ErrNoPendingDelete
	}
	l.deleting = true
	return l.pendingID, nil
}

// FinishDelete applies the outcome of DeleteCustomer.
//
// # Description
//
// ErrNotFound counts as deleted: the record is gone either way, and the
// notice tells the operator so. Other errors put the row back to Idle with
// the error in Notice. On success the row is dropped from the local
// collection so the list is correct before the next reload.
func (l *List) FinishDelete(err error) {
	id := l.pendingID
	l.deleting = false
	l.pendingID = ""

	switch {
	case err == nil:
		l.deletedID = id
		l.notice = fmt.Sprintf("Customer %s deleted", id)
	case errors.Is(err, api.ErrNotFound):
		l.deletedID = id
		l.notice = fmt.Sprintf("Customer %s not found; it may already have been deleted", id)
	default:
		l.notice = "Error deleting customer: " + err.Error()
		return
	}

	kept := make([]datatypes.Customer, 0, len(l.all))
	for _, c := range l.all {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	l.SetCustomers(kept)
}

// ConfirmDelete deletes the pending row and reloads the list.
func (l *List) ConfirmDelete(ctx context.Context, svc api.Service) error {
	id, err := l.BeginDelete()
	if err != nil {
		return err
	}
	err = svc.DeleteCustomer(ctx, id)
	l.FinishDelete(err)
	if err != nil && !errors.Is(err, api.ErrNotFound) {
		return err
	}
	return l.Load(ctx, svc)
}
