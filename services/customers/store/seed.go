// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"fmt"
	"os"

	"github.com/AleutianAI/custdesk/services/customers/datatypes"
	"gopkg.in/yaml.v3"
)

// SeedFile is the on-disk shape of a demo data file:
//
//	customers:
//	  - id: "1"
//	    firstName: Ann
//	    lastName: Lee
//	    phone: "1234567890"
//	    addresses:
//	      - {address: A, city: NY, state: NY, pinCode: "100001"}
type SeedFile struct {
	Customers []datatypes.Customer `yaml:"customers"`
}

// LoadSeedFile reads and parses a seed file. Records are not validated
// here; Repository.Seed does that.
func LoadSeedFile(path string) ([]datatypes.Customer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return f.Customers, nil
}
