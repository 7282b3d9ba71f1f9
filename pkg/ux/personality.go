// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// PersonalityLevel defines how rich CLI output is.
type PersonalityLevel string

const (
	// PersonalityFull enables colors, icons, boxes and bordered tables.
	PersonalityFull PersonalityLevel = "full"

	// PersonalityMinimal uses icons and plain tables only.
	PersonalityMinimal PersonalityLevel = "minimal"

	// PersonalityMachine outputs tab-separated plain text for scripting.
	PersonalityMachine PersonalityLevel = "machine"
)

// EnvPersonality overrides the detected level.
const EnvPersonality = "CUSTDESK_OUTPUT"

var (
	currentLevel  = PersonalityFull
	personalityMu sync.RWMutex
)

// GetPersonality returns the current output level.
func GetPersonality() PersonalityLevel {
	personalityMu.RLock()
	defer personalityMu.RUnlock()
	return currentLevel
}

// SetPersonality updates the current output level.
func SetPersonality(level PersonalityLevel) {
	personalityMu.Lock()
	defer personalityMu.Unlock()
	currentLevel = level
}

// ParsePersonalityLevel converts a string to PersonalityLevel. Unknown
// values map to PersonalityFull.
func ParsePersonalityLevel(s string) PersonalityLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimal", "min", "m":
		return PersonalityMinimal
	case "machine", "quiet", "q", "plain":
		return PersonalityMachine
	default:
		return PersonalityFull
	}
}

// InitPersonality picks the level from CUSTDESK_OUTPUT, falling back to
// machine output when stdout is not a terminal.
func InitPersonality() {
	if env := os.Getenv(EnvPersonality); env != "" {
		SetPersonality(ParsePersonalityLevel(env))
		return
	}
	if !IsTerminal() {
		SetPersonality(PersonalityMachine)
		return
	}
	SetPersonality(PersonalityFull)
}

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// IsInteractive returns true if prompts may be shown.
func IsInteractive() bool {
	return GetPersonality() != PersonalityMachine && IsTerminal()
}
