// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling for the custdesk CLI and TUI.
package ux

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// custdesk palette
var (
	ColorPrimary = lipgloss.Color("#20B9B4") // brand, titles
	ColorAccent  = lipgloss.Color("#2CD7C7") // highlights, selection
	ColorBorder  = lipgloss.Color("#16858E")
	ColorSlate   = lipgloss.Color("#2C4A54")

	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorMuted   = lipgloss.Color("#6C8A94")
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
	Label     lipgloss.Style

	Box      lipgloss.Style
	ErrorBox lipgloss.Style

	TableHeader lipgloss.Style
	TableCell   lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorPrimary),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorMuted),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorAccent).Bold(true),
	Label:     lipgloss.NewStyle().Foreground(ColorMuted).Width(12),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1),
	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(0, 1),

	TableHeader: lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Padding(0, 1),
	TableCell:   lipgloss.NewStyle().Padding(0, 1),
}

// Icon provides themed status icons
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
)

// Render returns the icon with appropriate styling
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	default:
		return string(i)
	}
}

// Title prints a styled title. Machine output omits it.
func Title(text string) {
	if GetPersonality() == PersonalityMachine {
		return
	}
	fmt.Println(Styles.Title.Render(text))
}

// Success prints a success message with checkmark
func Success(text string) {
	fmt.Fprintln(os.Stdout, SuccessLine(text))
}

// SuccessLine returns the line Success prints, for callers that write to
// their own io.Writer.
func SuccessLine(text string) string {
	switch GetPersonality() {
	case PersonalityMachine:
		return "OK: " + text
	case PersonalityMinimal:
		return fmt.Sprintf("%s %s", IconSuccess, text)
	default:
		return fmt.Sprintf("%s %s", IconSuccess.Render(), Styles.Success.Render(text))
	}
}

// Warning prints a warning message to stderr
func Warning(text string) {
	switch GetPersonality() {
	case PersonalityMachine:
		fmt.Fprintf(os.Stderr, "WARN: %s\n", text)
	default:
		fmt.Fprintf(os.Stderr, "%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
	}
}

// Error prints an error message to stderr
func Error(text string) {
	switch GetPersonality() {
	case PersonalityMachine:
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", text)
	default:
		fmt.Fprintf(os.Stderr, "%s %s\n", IconError.Render(), Styles.Error.Render(text))
	}
}

// Info prints an informational message
func Info(text string) {
	if GetPersonality() == PersonalityMachine {
		fmt.Println(text)
		return
	}
	fmt.Printf("%s %s\n", Styles.Muted.Render("│"), text)
}

// Muted prints secondary text. Machine output omits it.
func Muted(text string) {
	if GetPersonality() == PersonalityMachine {
		return
	}
	fmt.Println(Styles.Muted.Render(text))
}

// Box prints text in a rounded box
func Box(title, content string) {
	fmt.Println(RenderBox(title, content))
}

// RenderBox returns title and content in a rounded box. Machine output is
// the title line followed by content.
func RenderBox(title, content string) string {
	if GetPersonality() == PersonalityMachine {
		return title + "\n" + content
	}
	return Styles.Box.Render(Styles.Title.Render(title) + "\n" + content)
}

// =============================================================================
// Tables and fields
// =============================================================================

// Table renders rows under headers.
//
// # Description
//
// Full output draws a rounded lipgloss table. Minimal output draws the same
// table without borders. Machine output is tab-separated with a header
// line, one row per line, so it pipes cleanly into cut and awk.
//
// An empty rows slice still renders the header.
func Table(headers []string, rows [][]string) string {
	level := GetPersonality()
	if level == PersonalityMachine {
		var b strings.Builder
		b.WriteString(strings.Join(headers, "\t"))
		for _, r := range rows {
			b.WriteByte('\n')
			b.WriteString(strings.Join(r, "\t"))
		}
		return b.String()
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return Styles.TableHeader
			}
			return Styles.TableCell
		})
	if level == PersonalityMinimal {
		t = t.Border(lipgloss.HiddenBorder())
	} else {
		t = t.Border(lipgloss.RoundedBorder()).BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder))
	}
	return t.String()
}

// Field renders one "label  value" line.
func Field(label, value string) string {
	if GetPersonality() == PersonalityMachine {
		return label + "\t" + value
	}
	return Styles.Label.Render(label) + " " + value
}
