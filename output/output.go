// SPDX-License-Identifier: MIT

// Package output provides TTY-aware colored output helpers shared by
// Workhelix CLI tools. When stdout is a terminal, messages are styled with
// the shared lipgloss palette; when piped or redirected they degrade to
// plain bracketed prefixes so log scrapers see stable text.
package output

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color palette - shared hex colors for consistent theming across all tools.
// These colors are designed for dark terminal backgrounds with good contrast.
const (
	// ColorPrimary is purple - used for titles, headers, and primary emphasis.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray - used for subtitles and de-emphasized content.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green - used for success states and positive outcomes.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red - used for errors and failures.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber - used for warnings and attention-needed items.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue - used for commands, links, and interactive elements.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

// Base styles built from the palette. Host tools can use these directly or
// extend them with additional styling (margins, padding, etc.).
var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages and positive indicators.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warning messages and caution indicators.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for command names, code, and interactive elements.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)
)

// isTerminal is a test seam for isatty; tests replace it to force either mode.
var isTerminal = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// IsTTY reports whether stdout is connected to a terminal. Callers use it to
// decide between styled and machine-readable output.
func IsTTY() bool {
	return isTerminal()
}

// Success formats a success message: green with a checkmark on a TTY,
// "[OK]"-prefixed plain text otherwise.
func Success(msg string) string {
	if IsTTY() {
		return SuccessStyle.Render("✅ " + msg)
	}
	return "[OK] " + msg
}

// Error formats an error message: bold red with a cross on a TTY,
// "[ERROR]"-prefixed plain text otherwise.
func Error(msg string) string {
	if IsTTY() {
		return ErrorStyle.Render("❌ " + msg)
	}
	return "[ERROR] " + msg
}

// Warning formats a warning message: amber on a TTY, "[WARNING]"-prefixed
// plain text otherwise.
func Warning(msg string) string {
	if IsTTY() {
		return WarningStyle.Render("⚠️  " + msg)
	}
	return "[WARNING] " + msg
}

// Info formats an informational message: blue on a TTY, "[INFO]"-prefixed
// plain text otherwise.
func Info(msg string) string {
	if IsTTY() {
		return CmdStyle.Render("ℹ️  " + msg)
	}
	return "[INFO] " + msg
}

// Header formats a section title above a separator rule of the given width.
func Header(title string, width int) string {
	rule := strings.Repeat("=", width)
	if IsTTY() {
		return TitleStyle.Render(title) + "\n" + SubtitleStyle.Render(rule)
	}
	return title + "\n" + rule
}
