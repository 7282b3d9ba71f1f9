// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides the primitive field checks used by customer forms.
//
// The helpers know nothing about customer structs. The datatypes package
// registers them as go-playground/validator custom tags.
package validation

import (
	"regexp"
	"strings"
)

// digitsPattern matches a run of ASCII decimal digits only.
// Unicode digits (e.g. Arabic-Indic) do not match.
var digitsPattern = regexp.MustCompile(`^[0-9]+$`)

// IsBlank reports whether s is empty after trimming surrounding whitespace.
//
// Example:
//
//	validation.IsBlank("   ")  // true
//	validation.IsBlank(" a ")  // false
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsDigits reports whether s consists of exactly n ASCII decimal digits.
//
// Separators, signs and surrounding whitespace all fail the check:
//
//	validation.IsDigits("1234567890", 10)   // true
//	validation.IsDigits("555-1234567", 10)  // false
//	validation.IsDigits(" 123456", 6)       // false
func IsDigits(s string, n int) bool {
	if n <= 0 || len(s) != n {
		return false
	}
	return digitsPattern.MatchString(s)
}
