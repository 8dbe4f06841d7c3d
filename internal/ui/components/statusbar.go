// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cubetui/internal/ui/styles"
	"github.com/jeranaias/cubetui/internal/util"
	"github.com/jeranaias/cubetui/internal/view"
)

// StatusBar renders the bottom line: cursor readout, display mode,
// coordinate frame, link state, and the beam overlay size.
type StatusBar struct {
	theme *styles.Theme
}

// NewStatusBar creates a status bar bound to the theme.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme}
}

// State is everything the status bar displays for one frame.
type State struct {
	Readout    view.Readout
	Frame      string
	Integrated bool
	Linked     bool
	HasSync    bool
	Velocity   float64
	Err        string
}

// Render draws the status bar at the given width.
func (sb *StatusBar) Render(width int, st State) string {
	t := sb.theme

	mode := t.ModeSingle.Render("PLANE")
	if st.Integrated {
		mode = t.ModeIntegrated.Render("MOM-0")
	}

	frame := t.FrameBadge.Render(st.Frame)

	link := ""
	if st.HasSync {
		if st.Linked {
			link = " " + t.LinkOn.Render("linked")
		} else {
			link = " " + t.LinkOff.Render("unlinked")
		}
	}

	var middle string
	switch {
	case st.Err != "":
		middle = t.ErrorText.Render(util.TruncateWidth(st.Err, width/2))
	case st.Readout.Text != "":
		middle = t.StatusReadout.Render(st.Readout.Text)
	default:
		// Out-of-panel and never-moved cursors both show the defined
		// empty readout, never a fabricated position.
		middle = t.StatusEmpty.Render("--")
	}

	if st.Readout.HasBeam && st.Err == "" {
		middle += t.StatusEmpty.Render(beamTag(st.Readout.Beam))
	}

	left := fmt.Sprintf("%s %s%s  ", mode, frame, link)
	line := left + middle

	avail := width - 2 // StatusBar style pads one cell each side
	if avail < 0 {
		avail = 0
	}
	if lipgloss.Width(line) > avail {
		// Drop styled composition and truncate the plain text instead of
		// cutting an ANSI sequence in half.
		plain := fmt.Sprintf("%s %s  %s", plainMode(st.Integrated), st.Frame, st.Readout.Text)
		line = util.TruncateWidth(plain, avail)
	}

	return t.StatusBar.Width(width).Render(line)
}

func plainMode(integrated bool) string {
	if integrated {
		return "MOM-0"
	}
	return "PLANE"
}

// beamTag formats the beam marker radii in device cells. The radii track
// the physical-to-device scale, so the tag doubles as a zoom indicator.
func beamTag(b view.BeamMarker) string {
	return fmt.Sprintf("  beam %.1fx%.1f", b.RadiusX, b.RadiusY)
}
