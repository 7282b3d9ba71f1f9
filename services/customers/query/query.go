// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package query turns a customer collection into one visible page.
//
// # Description
//
// Run applies three stages in order:
//
//  1. Filter: free-text search plus optional city/state/pin filters.
//  2. Sort: stable, by id, name or phone, ascending or descending.
//  3. Page: 1-based fixed-size slices.
//
// Everything here is pure. The input slice is never modified.
package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/AleutianAI/custdesk/services/customers/datatypes"
)

// DefaultPageSize is the number of rows per page when none is given.
const DefaultPageSize = 5

// SortField selects the sort key.
type SortField string

const (
	SortByID    SortField = "id"
	SortByName  SortField = "name"
	SortByPhone SortField = "phone"
)

// ParseSortField maps s onto a known field. Unknown values yield SortByID.
func ParseSortField(s string) SortField {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortByName, SortByPhone:
		return f
	default:
		return SortByID
	}
}

// SortDir is the sort direction.
type SortDir string

const (
	Asc  SortDir = "asc"
	Desc SortDir = "desc"
)

// ParseSortDir maps s onto a direction. Anything but "desc" is Asc.
func ParseSortDir(s string) SortDir {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// Flip returns the opposite direction.
func (d SortDir) Flip() SortDir {
	if d == Desc {
		return Asc
	}
	return Desc
}

// Params are the inputs of Run.
type Params struct {
	Search    string
	City      string
	State     string
	PinCode   string
	SortField SortField
	SortDir   SortDir
	Page      int // 1-based
	PageSize  int // <= 0 means DefaultPageSize
}

// Result is the output of Run.
type Result struct {
	Rows       []datatypes.Customer
	TotalPages int // 0 when nothing matched
	Total      int // matches before paging
}

// Run filters, sorts and pages customers.
//
// # Examples
//
//	res := query.Run(all, query.Params{SortField: query.SortByID, Page: 1})
//	fmt.Printf("Page 1 of %d\n", query.DisplayPages(res.TotalPages))
func Run(customers []datatypes.Customer, p Params) Result {
	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	filtered := Filter(customers, p)
	Sort(filtered, p.SortField, p.SortDir)

	return Result{
		Rows:       Paginate(filtered, p.Page, size),
		TotalPages: TotalPages(len(filtered), size),
		Total:      len(filtered),
	}
}

// =============================================================================
// Filter
// =============================================================================

// Filter returns the customers matching the search and address filters,
// in input order. The result is a new slice.
func Filter(customers []datatypes.Customer, p Params) []datatypes.Customer {
	out := make([]datatypes.Customer, 0, len(customers))
	for _, c := range customers {
		if MatchesSearch(c, p.Search) && matchesAddressFilters(c, p) {
			out = append(out, c)
		}
	}
	return out
}

// MatchesSearch reports whether c matches the free-text search.
//
// ID and phone are matched case-sensitively; first and last name are
// matched case-insensitively. An empty search matches everything.
func MatchesSearch(c datatypes.Customer, search string) bool {
	if search == "" {
		return true
	}
	lower := strings.ToLower(search)
	return strings.Contains(c.ID, search) ||
		strings.Contains(strings.ToLower(c.FirstName), lower) ||
		strings.Contains(strings.ToLower(c.LastName), lower) ||
		strings.Contains(c.Phone, search)
}

func matchesAddressFilters(c datatypes.Customer, p Params) bool {
	if p.City != "" && !anyAddress(c.Addresses, func(a datatypes.Address) bool {
		return containsFold(a.City, p.City)
	}) {
		return false
	}
	if p.State != "" && !anyAddress(c.Addresses, func(a datatypes.Address) bool {
		return containsFold(a.State, p.State)
	}) {
		return false
	}
	if p.PinCode != "" && !anyAddress(c.Addresses, func(a datatypes.Address) bool {
		return strings.Contains(a.PinCode, p.PinCode)
	}) {
		return false
	}
	return true
}

func anyAddress(addrs []datatypes.Address, pred func(datatypes.Address) bool) bool {
	return slices.ContainsFunc(addrs, pred)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// =============================================================================
// Sort
// =============================================================================

// Sort orders customers in place. Equal keys keep their relative order.
func Sort(customers []datatypes.Customer, field SortField, dir SortDir) {
	key := sortKey(field)
	desc := dir == Desc
	slices.SortStableFunc(customers, func(a, b datatypes.Customer) int {
		c := cmp.Compare(key(a), key(b))
		if desc {
			return -c
		}
		return c
	})
}

func sortKey(field SortField) func(datatypes.Customer) string {
	switch field {
	case SortByName:
		return func(c datatypes.Customer) string {
			return strings.ToLower(c.FirstName + " " + c.LastName)
		}
	case SortByPhone:
		return func(c datatypes.Customer) string { return c.Phone }
	default:
		return func(c datatypes.Customer) string { return c.ID }
	}
}

// =============================================================================
// Page
// =============================================================================

// TotalPages returns ceil(n/size). Zero rows means zero pages.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// DisplayPages is the page count shown to the user: never less than 1.
func DisplayPages(total int) int {
	return max(total, 1)
}

// Paginate returns rows [(page-1)*size, page*size) clipped to the slice.
// Out of range pages, including page < 1, return an empty slice.
func Paginate(customers []datatypes.Customer, page, size int) []datatypes.Customer {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 || page > TotalPages(len(customers), size) {
		return []datatypes.Customer{}
	}
	start := (page - 1) * size
	end := min(start+size, len(customers))
	return slices.Clone(customers[start:end])
}

// =============================================================================
// Multi-address
// =============================================================================

// MultiAddress returns customers with more than one address that match
// search. Input order is kept; nothing is sorted or paged.
func MultiAddress(customers []datatypes.Customer, search string) []datatypes.Customer {
	out := []datatypes.Customer{}
	for _, c := range customers {
		if c.HasMultipleAddresses() && MatchesSearch(c, search) {
			out = append(out, c)
		}
	}
	return out
}
