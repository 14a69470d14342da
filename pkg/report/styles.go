// Package report renders snippet listings, validation findings and run
// results for the terminal.
package report

import "github.com/charmbracelet/lipgloss"

// Status glyphs convey meaning without relying on color alone.
const (
	GlyphPassed  = "✓"
	GlyphFailed  = "✗"
	GlyphSkipped = "○"
	GlyphWarning = "⚠"
)

var (
	colorGreen  = lipgloss.Color("42")
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("214")
	colorCyan   = lipgloss.Color("51")
	colorDim    = lipgloss.Color("240")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	passedStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	failedStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	skippedStyle = lipgloss.NewStyle().
			Faint(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	headerStyle = lipgloss.NewStyle().
			Bold(true)
)
