// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewer

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cubetui/internal/ui/components"
)

// Fixed chrome rows: header, scrubber, status bar.
const chromeLines = 3

// wideLayoutMin is the terminal width at which the linked secondary 3D
// view gets its own panel.
const wideLayoutMin = 110

// sideColumnMin is the terminal width below which the side column is
// dropped entirely.
const sideColumnMin = 60

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) mainLines() int {
	n := m.height - chromeLines
	if n < 1 {
		n = 1
	}
	return n
}

func (m *Model) scrubberLine() int {
	return 1 + m.mainLines()
}

func (m *Model) sideWidth() int {
	if m.width < sideColumnMin {
		return 0
	}
	w := m.width / 3
	if w < 24 {
		w = 24
	}
	if w > 44 {
		w = 44
	}
	return w
}

// resize recomputes the layout and pushes the new sizes into every
// render surface. The heatmap origin stays at the left edge below the
// header, in device rows.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.theme.Resize(width, height)

	side := m.sideWidth()
	heatW := width - side
	if heatW < 10 {
		heatW = width
		side = 0
	}

	m.heatmap.SetOrigin(0, 2)
	m.heatmap.SetSize(heatW, m.mainLines())

	scatterLines := m.mainLines()/2 - 2
	if scatterLines < 3 {
		scatterLines = 3
	}
	inner := side - 2
	if inner < 5 {
		inner = 5
	}
	m.primary.SetSize(inner, scatterLines)
	if width >= wideLayoutMin {
		m.secondary.SetSize(inner, scatterLines/2)
	} else {
		m.secondary.SetSize(inner, scatterLines)
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View composes the full screen.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width < 1 || m.height < 1 {
		return "loading..."
	}

	header := m.renderHeader()

	var main string
	if m.showHelp {
		main = lipgloss.NewStyle().
			Width(m.width).
			Height(m.mainLines()).
			MaxHeight(m.mainLines()).
			Render(m.help.Render(m.width - 4))
	} else {
		main = m.renderMain()
	}

	bottom := m.renderBottom()

	status := m.statusbar.Render(m.width, components.State{
		Readout:    m.ctl.Readout(),
		Frame:      m.ctl.Frame().String(),
		Integrated: m.ctl.Integrated(),
		Linked:     m.sync.Linked(),
		HasSync:    true,
		Velocity:   m.ctl.Velocity(),
		Err:        m.errText,
	})

	return lipgloss.JoinVertical(lipgloss.Left, header, main, bottom, status)
}

func (m *Model) renderHeader() string {
	meta := m.ctl.Cube().Meta
	title := m.theme.HeaderTitle.Render("cubetui")
	source := meta.Source
	if source == "" {
		source = "untitled cube"
	}
	info := fmt.Sprintf("  %s  %dx%dx%d", source,
		m.ctl.Cube().Cols(), m.ctl.Cube().Rows(), m.ctl.Cube().Planes())
	if meta.FluxUnit != "" {
		info += "  [" + meta.FluxUnit + "]"
	}
	if meta.Reduced {
		info += "  (reduced)"
	}
	line := title + m.theme.HeaderMeta.Render(info)
	return m.theme.Header.Width(m.width).MaxHeight(1).Render(line)
}

func (m *Model) renderMain() string {
	heat := m.heatmap.View()
	side := m.sideWidth()
	if side == 0 {
		return lipgloss.NewStyle().Height(m.mainLines()).MaxHeight(m.mainLines()).Render(heat)
	}

	panels := []string{m.scatterPanel("3D primary", m.primary.View())}
	if m.width >= wideLayoutMin {
		panels = append(panels, m.scatterPanel("3D linked", m.secondary.View()))
	}
	panels = append(panels,
		m.contours.Render(side-2, m.ctl.Contours()),
		m.ranges.Render(m.ctl.Ranges()),
	)

	right := lipgloss.NewStyle().
		Width(side).
		Height(m.mainLines()).
		MaxHeight(m.mainLines()).
		Render(lipgloss.JoinVertical(lipgloss.Left, panels...))

	left := lipgloss.NewStyle().
		Height(m.mainLines()).
		MaxHeight(m.mainLines()).
		Render(heat)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m *Model) scatterPanel(title, body string) string {
	inner := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.PanelTitle.Render(title), body)
	return m.theme.Panel.Render(inner)
}

// renderBottom shows the active prompt while one is open, and the
// velocity scrubber otherwise.
func (m *Model) renderBottom() string {
	if m.prompt != promptNone {
		return m.theme.InputPrompt.Render("") + m.input.View()
	}
	return m.scrubber.Render(m.width, m.ctl.Plane(), m.ctl.Cube().Planes(),
		m.ctl.Velocity(), m.ctl.Integrated())
}
