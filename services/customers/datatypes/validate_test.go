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

import (
	"math/rand"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() CreateCustomerRequest {
	return CreateCustomerRequest{
		ID:        "1",
		FirstName: "Ann",
		LastName:  "Lee",
		Phone:     "1234567890",
		Address:   "A",
		City:      "NY",
		State:     "NY",
		PinCode:   "100001",
	}
}

// =============================================================================
// ValidateCustomer
// =============================================================================

func TestValidateCustomer_Valid(t *testing.T) {
	errs := ValidateCustomer(validRequest())
	assert.True(t, errs.Empty(), "unexpected errors: %+v", errs)
}

func TestValidateCustomer_FieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *CreateCustomerRequest)
		field  Field
		msg    string
	}{
		{"blank first name", func(r *CreateCustomerRequest) { r.FirstName = "   " }, FieldFirstName, MsgFirstNameRequired},
		{"empty last name", func(r *CreateCustomerRequest) { r.LastName = "" }, FieldLastName, MsgLastNameRequired},
		{"phone with separator", func(r *CreateCustomerRequest) { r.Phone = "555-1234567" }, FieldPhone, MsgPhoneFormat},
		{"phone too short", func(r *CreateCustomerRequest) { r.Phone = "123456789" }, FieldPhone, MsgPhoneFormat},
		{"bad email", func(r *CreateCustomerRequest) { r.Email = "not-an-email" }, FieldEmail, MsgEmailFormat},
		{"blank address", func(r *CreateCustomerRequest) { r.Address = "\t" }, FieldAddress, MsgAddressRequired},
		{"blank city", func(r *CreateCustomerRequest) { r.City = "" }, FieldCity, MsgCityRequired},
		{"blank state", func(r *CreateCustomerRequest) { r.State = " " }, FieldState, MsgStateRequired},
		{"pin five digits", func(r *CreateCustomerRequest) { r.PinCode = "12345" }, FieldPinCode, MsgPinCodeFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			errs := ValidateCustomer(req)

			assert.Equal(t, tt.msg, errs.Get(tt.field))
			field, _ := errs.First()
			assert.Equal(t, tt.field, field, "only the mutated field should fail")
		})
	}
}

func TestValidateCustomer_EmptyFormReportsEveryRequiredField(t *testing.T) {
	errs := ValidateCustomer(CreateCustomerRequest{})

	for _, f := range []Field{FieldFirstName, FieldLastName, FieldPhone, FieldAddress, FieldCity, FieldState, FieldPinCode} {
		assert.NotEmpty(t, errs.Get(f), "expected error for %s", f)
	}
	assert.Empty(t, errs.Email, "email is optional")
	assert.Empty(t, errs.ID, "id is not validated")
}

func TestValidateCustomer_OptionalEmailAccepted(t *testing.T) {
	req := validRequest()
	req.Email = "ann@example.com"
	assert.True(t, ValidateCustomer(req).Empty())
}

// tenDigits mirrors the phone rule independently of the implementation.
var tenDigits = regexp.MustCompile(`^[0-9]{10}$`)
var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

func randomCandidate(r *rand.Rand) string {
	const alphabet = "0123456789-+ a"
	n := r.Intn(13)
	b := make([]byte, n)
	for i := range b {
		// Bias heavily towards digits so valid strings are common.
		if r.Intn(10) < 8 {
			b[i] = byte('0' + r.Intn(10))
		} else {
			b[i] = alphabet[r.Intn(len(alphabet))]
		}
	}
	return string(b)
}

func TestValidateCustomer_PhonePropertyHolds(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		req := validRequest()
		req.Phone = randomCandidate(r)

		hasErr := ValidateCustomer(req).Phone != ""
		if hasErr == tenDigits.MatchString(req.Phone) {
			t.Fatalf("phone %q: error=%v, but 10-digit match=%v", req.Phone, hasErr, tenDigits.MatchString(req.Phone))
		}
	}
}

func TestValidateAddress_PinPropertyHolds(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 2000; i++ {
		addr := Address{Address: "A", City: "NY", State: "NY", PinCode: randomCandidate(r)}

		hasErr := ValidateAddress(addr).PinCode != ""
		if hasErr == sixDigits.MatchString(addr.PinCode) {
			t.Fatalf("pin %q: error=%v, but 6-digit match=%v", addr.PinCode, hasErr, sixDigits.MatchString(addr.PinCode))
		}

		req := validRequest()
		req.PinCode = addr.PinCode
		if (ValidateCustomer(req).PinCode != "") != hasErr {
			t.Fatalf("pin %q: ValidateCustomer and ValidateAddress disagree", addr.PinCode)
		}
	}
}

// =============================================================================
// ValidateAddresses
// =============================================================================

func TestValidateAddresses_FirstFailureWins(t *testing.T) {
	addrs := []Address{
		{Address: "A", City: "NY", State: "NY", PinCode: "100001"},
		{Address: "", City: "LA", State: "CA", PinCode: "900001"},
		{Address: "C", City: "", State: "CA", PinCode: "12"},
	}

	idx, errs := ValidateAddresses(addrs)
	assert.Equal(t, 1, idx)
	assert.Equal(t, MsgAddressRequired, errs.Address)
	assert.Empty(t, errs.PinCode, "errors of later elements must not leak in")
}

func TestValidateAddresses_AllValid(t *testing.T) {
	idx, errs := ValidateAddresses([]Address{{Address: "A", City: "NY", State: "NY", PinCode: "100001"}})
	assert.Equal(t, -1, idx)
	assert.True(t, errs.Empty())
}

// =============================================================================
// Customer helpers
// =============================================================================

func TestCreateCustomerRequest_ToCustomer(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	c := validRequest().ToCustomer(now)

	require.Len(t, c.Addresses, 1)
	assert.Equal(t, Address{Address: "A", City: "NY", State: "NY", PinCode: "100001"}, c.Addresses[0])
	assert.Equal(t, "A", c.Address, "legacy flat fields are populated from the form")
	assert.Equal(t, "100001", c.PinCode)
	assert.Equal(t, now, c.CreatedAt)
}

func TestCustomer_Validate(t *testing.T) {
	c := validRequest().ToCustomer(time.Now())
	require.NoError(t, c.Validate())

	c.Addresses = nil
	assert.ErrorIs(t, c.Validate(), ErrNoAddresses)

	c = validRequest().ToCustomer(time.Now())
	c.Addresses = append(c.Addresses, Address{Address: "B", City: "LA", State: "CA", PinCode: "9"})
	assert.ErrorContains(t, c.Validate(), "address 1")

	c = validRequest().ToCustomer(time.Now())
	c.Phone = "12"
	assert.ErrorContains(t, c.Validate(), "phone")
}

func TestCustomer_CloneDoesNotShareAddresses(t *testing.T) {
	c := validRequest().ToCustomer(time.Now())
	clone := c.Clone()
	clone.Addresses[0].City = "Boston"

	assert.Equal(t, "NY", c.Addresses[0].City)
}

func TestAddress_WithAndGet(t *testing.T) {
	a := Address{Address: "A", City: "NY", State: "NY", PinCode: "100001"}

	b, ok := a.With(FieldCity, "LA")
	require.True(t, ok)
	assert.Equal(t, "LA", b.City)
	assert.Equal(t, "NY", a.City, "With must not modify the receiver")

	_, ok = a.With(FieldPhone, "x")
	assert.False(t, ok)

	v, ok := b.Get(FieldPinCode)
	assert.True(t, ok)
	assert.Equal(t, "100001", v)
	assert.Equal(t, "A, LA, NY - 100001", b.String())
}
