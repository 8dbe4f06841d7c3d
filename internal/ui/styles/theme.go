// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style

	// ==========================================================================
	// PANEL STYLES
	// ==========================================================================

	Panel        lipgloss.Style
	PanelTitle   lipgloss.Style
	PanelFocused lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar      lipgloss.Style
	StatusReadout  lipgloss.Style
	StatusEmpty    lipgloss.Style
	ModeSingle     lipgloss.Style
	ModeIntegrated lipgloss.Style
	LinkOn         lipgloss.Style
	LinkOff        lipgloss.Style
	FrameBadge     lipgloss.Style

	// ==========================================================================
	// SCRUBBER STYLES
	// ==========================================================================

	ScrubberTrack lipgloss.Style
	ScrubberThumb lipgloss.Style
	ScrubberLabel lipgloss.Style

	// ==========================================================================
	// SIDE PANEL STYLES
	// ==========================================================================

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	InputPrompt      lipgloss.Style

	// ==========================================================================
	// FEEDBACK STYLES
	// ==========================================================================

	ErrorText lipgloss.Style
	HintText  lipgloss.Style
}

// NewTheme builds the default theme for the given terminal size.
func NewTheme(width, height int) *Theme {
	profile := termenv.ColorProfile()
	t := &Theme{
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
		Width:        width,
		Height:       height,
	}

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.HeaderMeta = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Overlay)
	t.PanelTitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)
	t.PanelFocused = t.Panel.
		BorderForeground(Cyan)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextPrimary).
		Padding(0, 1)
	t.StatusReadout = lipgloss.NewStyle().
		Foreground(Emerald)
	t.StatusEmpty = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.ModeSingle = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.ModeIntegrated = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)
	t.LinkOn = lipgloss.NewStyle().
		Foreground(Emerald)
	t.LinkOff = lipgloss.NewStyle().
		Foreground(Rose)
	t.FrameBadge = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.ScrubberTrack = lipgloss.NewStyle().
		Foreground(Overlay)
	t.ScrubberThumb = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.ScrubberLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ListItem = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.ListItemSelected = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ErrorText = lipgloss.NewStyle().
		Foreground(Rose)
	t.HintText = lipgloss.NewStyle().
		Foreground(TextMuted)

	return t
}

// Resize updates the layout dimensions without rebuilding the styles.
func (t *Theme) Resize(width, height int) {
	t.Width = width
	t.Height = height
}
