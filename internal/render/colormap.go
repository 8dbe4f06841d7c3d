// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// UnknownColormapError reports a palette name with no registered ramp.
type UnknownColormapError struct {
	Name string
}

func (e *UnknownColormapError) Error() string {
	return fmt.Sprintf("unknown colormap %q (available: %s)",
		e.Name, strings.Join(Colormaps(), ", "))
}

// rgb is one color stop with channels in [0, 1].
type rgb struct {
	r, g, b float64
}

// Colormap maps a normalized intensity in [0, 1] onto a color ramp by
// linear interpolation between evenly spaced stops.
type Colormap struct {
	name  string
	stops []rgb
}

// =============================================================================
// BUILT-IN RAMPS
// =============================================================================

var colormaps = map[string]Colormap{
	"viridis": {name: "viridis", stops: []rgb{
		{0.267, 0.005, 0.329},
		{0.283, 0.141, 0.458},
		{0.254, 0.265, 0.530},
		{0.207, 0.372, 0.553},
		{0.164, 0.471, 0.558},
		{0.128, 0.567, 0.551},
		{0.135, 0.659, 0.518},
		{0.267, 0.749, 0.441},
		{0.478, 0.821, 0.318},
		{0.741, 0.873, 0.150},
		{0.993, 0.906, 0.144},
	}},
	"inferno": {name: "inferno", stops: []rgb{
		{0.001, 0.000, 0.014},
		{0.087, 0.044, 0.224},
		{0.258, 0.039, 0.406},
		{0.416, 0.090, 0.433},
		{0.578, 0.148, 0.404},
		{0.735, 0.215, 0.330},
		{0.866, 0.317, 0.226},
		{0.955, 0.470, 0.104},
		{0.988, 0.645, 0.040},
		{0.988, 0.998, 0.645},
	}},
	"thermal": {name: "thermal", stops: []rgb{
		{0.0, 0.0, 0.0},
		{0.5, 0.0, 0.0},
		{1.0, 0.2, 0.0},
		{1.0, 0.8, 0.0},
		{1.0, 1.0, 1.0},
	}},
	"gray": {name: "gray", stops: []rgb{
		{0.0, 0.0, 0.0},
		{1.0, 1.0, 1.0},
	}},
}

// Colormaps returns the registered palette names, sorted.
func Colormaps() []string {
	names := make([]string, 0, len(colormaps))
	for name := range colormaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseColormap resolves a palette name, case-insensitively.
func ParseColormap(name string) (Colormap, error) {
	if m, ok := colormaps[strings.ToLower(strings.TrimSpace(name))]; ok {
		return m, nil
	}
	return Colormap{}, &UnknownColormapError{Name: name}
}

// DefaultColormap returns the viridis ramp.
func DefaultColormap() Colormap { return colormaps["viridis"] }

// =============================================================================
// SAMPLING
// =============================================================================

// Name returns the registered palette name.
func (m Colormap) Name() string { return m.name }

// At samples the ramp at t, clamped into [0, 1]. A non-finite t samples
// the low end.
func (m Colormap) At(t float64) (r, g, b uint8) {
	if len(m.stops) == 0 {
		return 0, 0, 0
	}
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	if len(m.stops) == 1 {
		s := m.stops[0]
		return channel(s.r), channel(s.g), channel(s.b)
	}

	pos := t * float64(len(m.stops)-1)
	i := int(pos)
	if i >= len(m.stops)-1 {
		i = len(m.stops) - 2
	}
	frac := pos - float64(i)
	lo, hi := m.stops[i], m.stops[i+1]
	return channel(lo.r + (hi.r-lo.r)*frac),
		channel(lo.g + (hi.g-lo.g)*frac),
		channel(lo.b + (hi.b-lo.b)*frac)
}

// Hex samples the ramp as a "#rrggbb" string.
func (m Colormap) Hex(t float64) string {
	r, g, b := m.At(t)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Color samples the ramp as a lipgloss terminal color.
func (m Colormap) Color(t float64) lipgloss.Color {
	return lipgloss.Color(m.Hex(t))
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}
