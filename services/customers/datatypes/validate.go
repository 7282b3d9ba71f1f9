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
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/AleutianAI/custdesk/pkg/validation"
	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Messages
// =============================================================================

const (
	MsgFirstNameRequired = "First name is required"
	MsgLastNameRequired  = "Last name is required"
	MsgPhoneFormat       = "Phone must be 10 digits"
	MsgEmailFormat       = "Email must be a valid address"
	MsgAddressRequired   = "Address is required"
	MsgCityRequired      = "City is required"
	MsgStateRequired     = "State is required"
	MsgPinCodeFormat     = "Pin code must be 6 digits"

	// MsgAddressList is shown above the address editor when any draft
	// address fails. Only the first failure is reported.
	MsgAddressList = "All address fields are required and pin code must be 6 digits."
)

var fieldMessages = map[Field]string{
	FieldFirstName: MsgFirstNameRequired,
	FieldLastName:  MsgLastNameRequired,
	FieldPhone:     MsgPhoneFormat,
	FieldEmail:     MsgEmailFormat,
	FieldAddress:   MsgAddressRequired,
	FieldCity:      MsgCityRequired,
	FieldState:     MsgStateRequired,
	FieldPinCode:   MsgPinCodeFormat,
}

// ErrNoAddresses is returned when an address list would be empty.
var ErrNoAddresses = errors.New("at least one address is required")

// =============================================================================
// Shared Validator Instance
// =============================================================================

// customerValidate is the validator instance for customer datatypes.
// Initialized in init() with custom validators.
var customerValidate *validator.Validate

func init() {
	customerValidate = validator.New()

	// Report fields by their JSON name so they map straight onto Field.
	customerValidate.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = customerValidate.RegisterValidation("nonblank", validateNonBlank)
	_ = customerValidate.RegisterValidation("digits", validateDigits)
}

// validateNonBlank fails strings that are empty after trimming whitespace.
func validateNonBlank(fl validator.FieldLevel) bool {
	return !validation.IsBlank(fl.Field().String())
}

// validateDigits enforces `digits=N`: exactly N ASCII digits, no separators.
func validateDigits(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return validation.IsDigits(fl.Field().String(), n)
}

// toFieldErrors converts a validator result into FieldErrors.
//
// Anything other than validator.ValidationErrors (e.g. InvalidValidationError
// from a nil pointer) is a programming error and panics.
func toFieldErrors(err error) FieldErrors {
	var out FieldErrors
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		panic("datatypes: unexpected validator error: " + err.Error())
	}
	for _, fe := range verrs {
		f, ok := ParseField(fe.Field())
		if !ok {
			continue
		}
		if out.Get(f) == "" {
			out.Set(f, fieldMessages[f])
		}
	}
	return out
}

// =============================================================================
// Public Validation API
// =============================================================================

// ValidateCustomer checks a create form candidate.
//
// # Description
//
// Applies the per-field rules: names, address, city and state must be
// non-blank; phone must be exactly 10 digits; pin code exactly 6 digits;
// email, when given, must be well formed. ID is not validated here.
//
// # Outputs
//
//   - FieldErrors: Empty iff the candidate is valid.
//
// # Examples
//
//	errs := datatypes.ValidateCustomer(req)
//	if !errs.Empty() {
//	    // show errs.Phone next to the phone input, etc.
//	}
func ValidateCustomer(candidate CreateCustomerRequest) FieldErrors {
	return toFieldErrors(customerValidate.Struct(candidate))
}

// ValidateAddress checks one address. Empty result iff valid.
func ValidateAddress(candidate Address) FieldErrors {
	return toFieldErrors(customerValidate.Struct(candidate))
}

// ValidateAddresses applies ValidateAddress to every element in order.
//
// # Outputs
//
//   - int: Index of the first failing element, or -1 if all pass.
//   - FieldErrors: Errors of that element (empty if all pass).
//
// An empty list passes here; callers that require at least one address
// check for ErrNoAddresses themselves.
func ValidateAddresses(addrs []Address) (int, FieldErrors) {
	for i, a := range addrs {
		if errs := ValidateAddress(a); !errs.Empty() {
			return i, errs
		}
	}
	return -1, FieldErrors{}
}

// validateContact checks only the non-address fields of a create request.
func validateContact(candidate CreateCustomerRequest) FieldErrors {
	errs := ValidateCustomer(candidate)
	for _, f := range AddressFields {
		errs.Clear(f)
	}
	return errs
}
