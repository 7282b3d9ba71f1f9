// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

// Field names a form field. Values match the JSON names.
type Field string

const (
	FieldID        Field = "id"
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldPhone     Field = "phone"
	FieldEmail     Field = "email"
	FieldAddress   Field = "address"
	FieldCity      Field = "city"
	FieldState     Field = "state"
	FieldPinCode   Field = "pinCode"
)

// fieldOrder is the form order, used wherever errors are listed.
var fieldOrder = []Field{
	FieldID, FieldFirstName, FieldLastName, FieldPhone, FieldEmail,
	FieldAddress, FieldCity, FieldState, FieldPinCode,
}

// AddressFields lists the fields that make up an Address, in form order.
var AddressFields = []Field{FieldAddress, FieldCity, FieldState, FieldPinCode}

// FormFields lists the create form inputs, in form order.
var FormFields = []Field{
	FieldFirstName, FieldLastName, FieldPhone, FieldEmail,
	FieldAddress, FieldCity, FieldState, FieldPinCode,
}

// ParseField converts a JSON field name into a Field.
func ParseField(s string) (Field, bool) {
	for _, f := range fieldOrder {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// Label returns the human-readable label for a field ("Pin Code").
func (f Field) Label() string {
	switch f {
	case FieldID:
		return "Customer ID"
	case FieldFirstName:
		return "First Name"
	case FieldLastName:
		return "Last Name"
	case FieldPhone:
		return "Phone Number"
	case FieldEmail:
		return "Email"
	case FieldAddress:
		return "Address"
	case FieldCity:
		return "City"
	case FieldState:
		return "State"
	case FieldPinCode:
		return "Pin Code"
	default:
		return string(f)
	}
}

// FieldErrors holds at most one message per known field.
//
// # Description
//
// A fixed-shape record instead of a free-form map, so every field has a slot
// and a typo in a field name is a compile error. An empty message means the
// field is valid. The zero value means "no errors".
type FieldErrors struct {
	ID        string
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Address   string
	City      string
	State     string
	PinCode   string
}

// slot returns a pointer to the message slot for f, or nil.
func (e *FieldErrors) slot(f Field) *string {
	switch f {
	case FieldID:
		return &e.ID
	case FieldFirstName:
		return &e.FirstName
	case FieldLastName:
		return &e.LastName
	case FieldPhone:
		return &e.Phone
	case FieldEmail:
		return &e.Email
	case FieldAddress:
		return &e.Address
	case FieldCity:
		return &e.City
	case FieldState:
		return &e.State
	case FieldPinCode:
		return &e.PinCode
	default:
		return nil
	}
}

// Empty reports whether no field has an error.
func (e FieldErrors) Empty() bool {
	return e == FieldErrors{}
}

// Get returns the message for f ("" if none or unknown).
func (e FieldErrors) Get(f Field) string {
	if s := e.slot(f); s != nil {
		return *s
	}
	return ""
}

// Set stores msg for f. Returns false for an unknown field.
func (e *FieldErrors) Set(f Field, msg string) bool {
	s := e.slot(f)
	if s == nil {
		return false
	}
	*s = msg
	return true
}

// Clear removes the message for f.
func (e *FieldErrors) Clear(f Field) {
	e.Set(f, "")
}

// First returns the first failing field in form order.
// Returns ("", "") when there are no errors.
func (e FieldErrors) First() (Field, string) {
	for _, f := range fieldOrder {
		if msg := e.Get(f); msg != "" {
			return f, msg
		}
	}
	return "", ""
}

// Map returns only the failing fields keyed by JSON name, for API responses.
func (e FieldErrors) Map() map[string]string {
	out := make(map[string]string)
	for _, f := range fieldOrder {
		if msg := e.Get(f); msg != "" {
			out[string(f)] = msg
		}
	}
	return out
}

// FieldErrorsFromMap is the inverse of Map. Unknown keys are ignored.
func FieldErrorsFromMap(m map[string]string) FieldErrors {
	var e FieldErrors
	for k, v := range m {
		if f, ok := ParseField(k); ok {
			e.Set(f, v)
		}
	}
	return e
}
