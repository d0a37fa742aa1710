// Package styles provides shared lipgloss styles for CLI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Semantic colors used across command output.
var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#7aa2f7"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#9ca0b0", Dark: "#565f89"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#9ece6a"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#e0af68"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f7768e"}
)

// Shared styles.
var (
	Title   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	Muted   = lipgloss.NewStyle().Foreground(ColorMuted)
	Success = lipgloss.NewStyle().Foreground(ColorSuccess)
	Warning = lipgloss.NewStyle().Foreground(ColorWarning)
	Error   = lipgloss.NewStyle().Foreground(ColorError)

	// ID renders a todo display id.
	ID = lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
	// Tag renders one todo tag.
	Tag = lipgloss.NewStyle().Foreground(ColorPrimary)
	// StatusOpen and StatusClosed render record statuses in listings.
	StatusOpen   = lipgloss.NewStyle().Foreground(ColorSuccess)
	StatusClosed = lipgloss.NewStyle().Foreground(ColorMuted).Strikethrough(true)
)

// StatusStyle returns the listing style for a record status.
func StatusStyle(closed bool) lipgloss.Style {
	if closed {
		return StatusClosed
	}
	return StatusOpen
}
