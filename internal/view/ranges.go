// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

import (
	"github.com/jeranaias/cubetui/internal/cube"
)

// Axis identifies one of the three range-control axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisSpectral
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisSpectral:
		return "spectral"
	default:
		return "axis?"
	}
}

// Range is one axis sub-range selection.
type Range struct {
	Min float64
	Max float64
}

// Width returns the extent of the range.
func (r Range) Width() float64 { return r.Max - r.Min }

// Mid returns the center of the range.
func (r Range) Mid() float64 { return (r.Min + r.Max) / 2 }

// Ranges is a capture of all three axis selections, suitable for
// restoring after the underlying cube is swapped.
type Ranges struct {
	X        Range
	Y        Range
	Spectral Range
}

// RangeState carries the user-selected per-axis sub-ranges of a view,
// decoupled from the cube bounds. Captured ranges survive cube rebuilds
// verbatim: a stored range lying outside the new cube's bounds is kept
// until an explicit ClampTo, so returning to a similar cube does not lose
// the user's zoom window.
type RangeState struct {
	ranges Ranges
}

// NewRangeState seeds every axis with the cube's normalized bounds.
func NewRangeState(x, y, spectral cube.Bounds) *RangeState {
	return &RangeState{ranges: Ranges{
		X:        Range{Min: x.Lo(), Max: x.Hi()},
		Y:        Range{Min: y.Lo(), Max: y.Hi()},
		Spectral: Range{Min: spectral.Lo(), Max: spectral.Hi()},
	}}
}

// Capture returns the current selections.
func (s *RangeState) Capture() Ranges { return s.ranges }

// Restore applies previously captured selections verbatim, without
// clamping against any bounds.
func (s *RangeState) Restore(r Ranges) { s.ranges = r }

// Get returns the selection for one axis.
func (s *RangeState) Get(a Axis) Range {
	switch a {
	case AxisY:
		return s.ranges.Y
	case AxisSpectral:
		return s.ranges.Spectral
	default:
		return s.ranges.X
	}
}

// Set replaces the selection for one axis. Min and max are reordered if
// handed over inverted.
func (s *RangeState) Set(a Axis, min, max float64) {
	if min > max {
		min, max = max, min
	}
	r := Range{Min: min, Max: max}
	switch a {
	case AxisY:
		s.ranges.Y = r
	case AxisSpectral:
		s.ranges.Spectral = r
	default:
		s.ranges.X = r
	}
}

// ClampTo limits every selection to the given cube bounds. Inverted cube
// bound pairs are normalized before clamping. A selection lying entirely
// outside collapses to the nearest bound edge.
func (s *RangeState) ClampTo(x, y, spectral cube.Bounds) {
	s.ranges.X = clampRange(s.ranges.X, x)
	s.ranges.Y = clampRange(s.ranges.Y, y)
	s.ranges.Spectral = clampRange(s.ranges.Spectral, spectral)
}

func clampRange(r Range, b cube.Bounds) Range {
	return Range{Min: b.Clamp(r.Min), Max: b.Clamp(r.Max)}
}

// Window returns the x/y selections as bounds pairs for rendering and
// coordinate mapping.
func (s *RangeState) Window() (x, y cube.Bounds) {
	return cube.Bounds{Start: s.ranges.X.Min, End: s.ranges.X.Max},
		cube.Bounds{Start: s.ranges.Y.Min, End: s.ranges.Y.Max}
}
