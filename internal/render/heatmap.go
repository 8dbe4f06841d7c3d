// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cubetui/internal/cube"
	"github.com/jeranaias/cubetui/internal/wcs"
)

// ErrBackendUnavailable reports a render target that has no device size
// yet, which happens before the first terminal size message arrives.
// The condition is transient; callers retry on the next interaction.
var ErrBackendUnavailable = errors.New("render backend unavailable")

const halfBlock = "▀"

var (
	emptyCellColor = lipgloss.Color("#16161d")
	contourColor   = lipgloss.Color("#f2f2f7")
)

// Heatmap renders a slice into a block of half-block cells. Each
// terminal line carries two device rows: the upper half is the cell's
// foreground, the lower half its background. The visible physical
// window is whatever the last Render call selected, so zooming is a
// matter of handing in a narrower window.
//
// Orientation follows the panel convention: column zero is the left
// edge and the highest row index is the top line, so the plotted slice
// reads like a sky map, not like a matrix dump.
type Heatmap struct {
	cmap Colormap

	originX int
	originY int // device rows, two per terminal line
	width   int
	lines   int

	slice  *cube.Slice2D
	levels []float64
	xw, yw cube.Bounds

	vals    [][]float64 // device rows x columns
	present [][]bool
	contour [][]bool
	frame   string
}

// NewHeatmap builds an unsized heatmap with the given palette.
func NewHeatmap(cmap Colormap) *Heatmap {
	return &Heatmap{cmap: cmap}
}

// SetSize fixes the panel device size: width in cells and height in
// terminal lines. The device height is twice the line count.
func (h *Heatmap) SetSize(width, lines int) {
	h.width, h.lines = width, lines
	h.rebuild()
}

// SetOrigin places the panel in device coordinates, with y in device
// rows (two per terminal line).
func (h *Heatmap) SetOrigin(x, y int) {
	h.originX, h.originY = x, y
}

// Palette returns the active colormap.
func (h *Heatmap) Palette() Colormap { return h.cmap }

// SetPalette swaps the colormap and repaints the stored slice.
func (h *Heatmap) SetPalette(cmap Colormap) {
	h.cmap = cmap
	h.rebuild()
}

// Render stores the slice, contour levels and the visible physical
// window, then repaints. An unsized panel keeps the arguments and
// reports ErrBackendUnavailable so the caller retries after layout.
func (h *Heatmap) Render(s *cube.Slice2D, levels []float64, xw, yw cube.Bounds) error {
	h.slice = s
	h.levels = levels
	h.xw, h.yw = xw, yw
	if h.width < 1 || h.lines < 1 {
		return ErrBackendUnavailable
	}
	h.rebuild()
	return nil
}

// Extent reports the panel placement for cursor coordinate inversion.
// The zero extent (before SetSize) makes every cursor query miss.
func (h *Heatmap) Extent() wcs.PanelExtent {
	if h.width < 1 || h.lines < 1 {
		return wcs.PanelExtent{}
	}
	return wcs.PanelExtent{
		X0:     float64(h.originX),
		Y0:     float64(h.originY),
		Width:  float64(h.width),
		Height: float64(h.lines * 2),
	}
}

// View returns the rendered panel, one terminal line per row pair.
func (h *Heatmap) View() string { return h.frame }

// =============================================================================
// RASTERIZATION
// =============================================================================

func (h *Heatmap) rebuild() {
	if h.slice == nil || h.width < 1 || h.lines < 1 {
		h.frame = ""
		return
	}
	rows := h.lines * 2
	h.vals = make([][]float64, rows)
	h.present = make([][]bool, rows)
	for dy := 0; dy < rows; dy++ {
		h.vals[dy] = make([]float64, h.width)
		h.present[dy] = make([]bool, h.width)
		for dx := 0; dx < h.width; dx++ {
			// Cell centers sample the window: x left to right, y top
			// down, with the window top carrying the high y bound.
			px := h.xw.At((float64(dx) + 0.5) / float64(h.width))
			py := h.yw.At(1 - (float64(dy)+0.5)/float64(rows))
			if v, ok := h.slice.ValueAtPhysical(px, py); ok {
				h.vals[dy][dx] = v
				h.present[dy][dx] = true
			}
		}
	}
	h.markContours(rows)
	h.assemble()
}

// markContours flags cells whose value straddles a contour level
// against the right or lower neighbor.
func (h *Heatmap) markContours(rows int) {
	h.contour = make([][]bool, rows)
	for dy := range h.contour {
		h.contour[dy] = make([]bool, h.width)
	}
	if len(h.levels) == 0 {
		return
	}
	for dy := 0; dy < rows; dy++ {
		for dx := 0; dx < h.width; dx++ {
			if !h.present[dy][dx] {
				continue
			}
			v := h.vals[dy][dx]
			if dx+1 < h.width && h.present[dy][dx+1] && crossesLevel(v, h.vals[dy][dx+1], h.levels) {
				h.contour[dy][dx] = true
				continue
			}
			if dy+1 < rows && h.present[dy+1][dx] && crossesLevel(v, h.vals[dy+1][dx], h.levels) {
				h.contour[dy][dx] = true
			}
		}
	}
}

func crossesLevel(a, b float64, levels []float64) bool {
	for _, l := range levels {
		if (a < l) != (b < l) {
			return true
		}
	}
	return false
}

func (h *Heatmap) assemble() {
	var sb strings.Builder
	for ty := 0; ty < h.lines; ty++ {
		if ty > 0 {
			sb.WriteByte('\n')
		}
		for dx := 0; dx < h.width; dx++ {
			top := h.cellColor(ty*2, dx)
			bottom := h.cellColor(ty*2+1, dx)
			sb.WriteString(lipgloss.NewStyle().
				Foreground(top).
				Background(bottom).
				Render(halfBlock))
		}
	}
	h.frame = sb.String()
}

func (h *Heatmap) cellColor(dy, dx int) lipgloss.Color {
	if h.contour[dy][dx] {
		return contourColor
	}
	if !h.present[dy][dx] {
		return emptyCellColor
	}
	return h.cmap.Color(h.normalize(h.vals[dy][dx]))
}

func (h *Heatmap) normalize(v float64) float64 {
	lo, hi := h.slice.Min, h.slice.Max
	if hi == lo {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}
