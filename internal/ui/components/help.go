// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/glamour"
)

// helpMarkdown is the keymap reference shown by the help overlay.
const helpMarkdown = `# cubetui keys

## Spectral axis
| Key | Action |
|-----|--------|
| ` + "`←` / `→`" + ` | previous / next velocity plane |
| ` + "`shift+←` / `shift+→`" + ` | jump 10 planes |
| ` + "`g`" + ` | go to velocity (type a value) |
| ` + "`i`" + ` | toggle single-plane / integrated (moment-0) |

## Display
| Key | Action |
|-----|--------|
| ` + "`f`" + ` | cycle coordinate frame (equatorial, ecliptic, galactic, offset, grid) |
| ` + "`p`" + ` | cycle colormap |
| ` + "`+` / `-`" + ` | zoom in / out |
| ` + "`0`" + ` | reset zoom |
| mouse move | position + flux readout |
| mouse wheel | zoom |

## Contours
| Key | Action |
|-----|--------|
| ` + "`c`" + ` | add levels (comma-separated) |
| ` + "`d`" + ` | delete selected level |
| ` + "`a`" + ` | auto levels from slice statistics |
| ` + "`x`" + ` | clear all levels |

## Ranges
| Key | Action |
|-----|--------|
| ` + "`r`" + ` | cycle active axis |
| ` + "`[` / `]`" + ` | narrow / widen active axis range |
| ` + "`R`" + ` | clamp ranges to cube bounds |

## 3D companion
| Key | Action |
|-----|--------|
| ` + "`h` / `l`" + ` | rotate about z |
| ` + "`j` / `k`" + ` | rotate about x |
| ` + "`L`" + ` | toggle linked views |
| ` + "`o`" + ` | reset camera |

## Session
| Key | Action |
|-----|--------|
| ` + "`s`" + ` | save view (type a title) |
| ` + "`?`" + ` | toggle this help |
| ` + "`q` / `ctrl+c`" + ` | quit |
`

// HelpOverlay renders the keymap reference through glamour once and
// caches the result per width.
type HelpOverlay struct {
	rendered string
	width    int
}

// NewHelpOverlay creates an empty overlay; rendering is lazy.
func NewHelpOverlay() *HelpOverlay {
	return &HelpOverlay{}
}

// Render returns the help text wrapped for the given width.
func (h *HelpOverlay) Render(width int) string {
	if width < 20 {
		width = 20
	}
	if h.rendered != "" && h.width == width {
		return h.rendered
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Styled rendering is a nicety; the raw markdown still reads.
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	h.rendered = out
	h.width = width
	return out
}
