// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/cubetui/internal/ui/styles"
)

// Scrubber renders the velocity slider line. The thumb position always
// reflects the plane actually displayed, so after the controller clamps
// an out-of-range request the slider snaps to the real plane.
type Scrubber struct {
	theme *styles.Theme
}

// NewScrubber creates a scrubber bound to the theme.
func NewScrubber(theme *styles.Theme) *Scrubber {
	return &Scrubber{theme: theme}
}

// Render draws the scrubber at the given width for plane of planes at
// the given displayed velocity.
func (sc *Scrubber) Render(width, plane, planes int, velocity float64, integrated bool) string {
	t := sc.theme

	label := fmt.Sprintf(" v %+8.2f km/s  %3d/%d ", velocity, plane+1, planes)
	if integrated {
		label = fmt.Sprintf(" integrated over %d planes ", planes)
	}

	trackWidth := width - len(label) - 2
	if trackWidth < 3 {
		return t.ScrubberLabel.Render(label)
	}

	var track string
	if integrated || planes <= 1 {
		track = t.ScrubberTrack.Render(strings.Repeat("─", trackWidth))
	} else {
		pos := plane * (trackWidth - 1) / (planes - 1)
		track = t.ScrubberTrack.Render(strings.Repeat("─", pos)) +
			t.ScrubberThumb.Render("●") +
			t.ScrubberTrack.Render(strings.Repeat("─", trackWidth-1-pos))
	}

	return t.ScrubberLabel.Render(label) + "[" + track + "]"
}

// PlaneForClick maps a click column inside the track back onto a plane
// index, the inverse of the thumb placement. Returns false when the
// click misses the track.
func (sc *Scrubber) PlaneForClick(width, planes, col int, integrated bool) (int, bool) {
	if integrated || planes <= 1 {
		return 0, false
	}
	// Track geometry mirrors Render for the non-integrated label.
	label := fmt.Sprintf(" v %+8.2f km/s  %3d/%d ", 0.0, 1, planes)
	start := len(label) + 1
	trackWidth := width - len(label) - 2
	if trackWidth < 3 || col < start || col >= start+trackWidth {
		return 0, false
	}
	plane := (col - start) * (planes - 1) / (trackWidth - 1)
	return plane, true
}
