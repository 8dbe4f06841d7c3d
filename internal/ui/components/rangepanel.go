// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/cubetui/internal/ui/styles"
	"github.com/jeranaias/cubetui/internal/view"
)

// RangePanel shows the three axis sub-range selections and which axis
// the range keys currently adjust. It implements the per-axis min/max
// control surface over the controller's RangeState.
type RangePanel struct {
	theme *styles.Theme

	// Active is the axis the adjustment keys operate on.
	Active view.Axis
}

// NewRangePanel creates the panel with the x axis active.
func NewRangePanel(theme *styles.Theme) *RangePanel {
	return &RangePanel{theme: theme}
}

// CycleAxis moves the active axis selection x -> y -> spectral -> x.
func (p *RangePanel) CycleAxis() {
	p.Active = (p.Active + 1) % 3
}

// GetMinMax returns the active axis selection from the range state.
func (p *RangePanel) GetMinMax(rs *view.RangeState) (min, max float64) {
	r := rs.Get(p.Active)
	return r.Min, r.Max
}

// Narrow returns a RangeChangeEvent that shrinks the active axis
// selection by the given fraction of its width, centered.
func (p *RangePanel) Narrow(rs *view.RangeState, frac float64) view.RangeChangeEvent {
	r := rs.Get(p.Active)
	d := r.Width() * frac / 2
	return view.RangeChangeEvent{Axis: p.Active, Min: r.Min + d, Max: r.Max - d}
}

// Widen returns a RangeChangeEvent that grows the active axis selection
// by the given fraction of its width, centered.
func (p *RangePanel) Widen(rs *view.RangeState, frac float64) view.RangeChangeEvent {
	r := rs.Get(p.Active)
	d := r.Width() * frac / 2
	return view.RangeChangeEvent{Axis: p.Active, Min: r.Min - d, Max: r.Max + d}
}

// Render draws the panel body for the given range state.
func (p *RangePanel) Render(rs *view.RangeState) string {
	t := p.theme
	var b strings.Builder

	b.WriteString(t.PanelTitle.Render("Ranges"))
	b.WriteString("\n")

	for _, axis := range []view.Axis{view.AxisX, view.AxisY, view.AxisSpectral} {
		r := rs.Get(axis)
		line := fmt.Sprintf("%-8s %11.4g … %11.4g", axis.String(), r.Min, r.Max)
		if axis == p.Active {
			b.WriteString(t.ListItemSelected.Render("› " + line))
		} else {
			b.WriteString(t.ListItem.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString(t.HintText.Render("r axis · [ narrow · ] widen · R clamp"))
	return b.String()
}
