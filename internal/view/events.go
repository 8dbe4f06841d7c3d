// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

import (
	"github.com/jeranaias/cubetui/internal/cube"
	"github.com/jeranaias/cubetui/internal/wcs"
)

// Event is one user interaction routed through the controller's single
// dispatch entry point. The variants form a closed union; Handle switches
// on the concrete type.
type Event interface {
	isEvent()
}

// PlaneChangeEvent scrubs to an absolute spectral plane index. Force
// recomputes the slice even when the clamped index is unchanged.
type PlaneChangeEvent struct {
	Plane int
	Force bool
}

// VelocityEvent scrubs to the plane nearest the requested velocity. The
// controller reports back the velocity actually displayed, so slider
// state and shown plane never disagree.
type VelocityEvent struct {
	Velocity float64
	Force    bool
}

// ModeToggleEvent switches between single-plane and velocity-integrated
// display.
type ModeToggleEvent struct{}

// CursorMoveEvent updates the readout for a device-space cursor position.
type CursorMoveEvent struct {
	X float64
	Y float64
}

// ContourOp selects the contour edit performed by a ContourEditEvent.
type ContourOp int

const (
	// ContourAdd parses Input and merges the levels.
	ContourAdd ContourOp = iota
	// ContourRemove deletes the level at Index.
	ContourRemove
	// ContourAuto derives levels from the current slice statistics.
	ContourAuto
	// ContourClear drops every level.
	ContourClear
)

// ContourEditEvent edits the contour level set and forces a re-render
// with the updated list.
type ContourEditEvent struct {
	Op    ContourOp
	Input string // comma-separated levels for ContourAdd
	Index int    // position for ContourRemove
}

// RangeChangeEvent replaces one axis sub-range selection, as dragged on a
// range control.
type RangeChangeEvent struct {
	Axis Axis
	Min  float64
	Max  float64
}

// ZoomEvent scales the visible x/y window about its center. Factor above
// one zooms in. Reset restores the full cube bounds.
type ZoomEvent struct {
	Factor float64
	Reset  bool
}

// CubeReplacedEvent swaps the underlying cube while the view stays alive.
// Axis ranges are captured before the rebuild and restored after, and the
// contour set is preserved.
type CubeReplacedEvent struct {
	Cube *cube.Cube
}

// FrameSelectEvent switches the coordinate frame used for the readout.
type FrameSelectEvent struct {
	Frame wcs.Frame
}

// ClampRangesEvent limits the stored axis selections to the current cube
// bounds. This is the only operation that discards a restored
// out-of-bounds range.
type ClampRangesEvent struct{}

// SyncToggleEvent flips linked-view propagation on the attached
// synchronizer.
type SyncToggleEvent struct{}

func (PlaneChangeEvent) isEvent()  {}
func (VelocityEvent) isEvent()     {}
func (ModeToggleEvent) isEvent()   {}
func (CursorMoveEvent) isEvent()   {}
func (ContourEditEvent) isEvent()  {}
func (RangeChangeEvent) isEvent()  {}
func (ZoomEvent) isEvent()         {}
func (CubeReplacedEvent) isEvent() {}
func (FrameSelectEvent) isEvent()  {}
func (ClampRangesEvent) isEvent()  {}
func (SyncToggleEvent) isEvent()   {}
