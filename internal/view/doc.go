// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package view holds the interactive state of a slice view: contour
// levels, axis range selections, the shared 3D camera, and the controller
// that orchestrates them.
//
// The Controller is the single entry point for user interaction. Every
// input arrives as one Event variant through Handle, which routes it
// internally: velocity scrubs recompute the slice only when the clamped
// plane actually changed, cursor moves produce the position/flux readout
// through the coordinate pipeline, contour and range edits delegate to
// their owning types and re-render, and cube replacement preserves the
// user's ranges and contours across the rebuild.
//
// # Key Types
//
//   - Controller: event-driven slice view orchestrator
//   - Event: tagged union of user interactions (VelocityEvent, ...)
//   - LevelSet: sorted, de-duplicated contour levels
//   - RangeState: per-axis user-selected sub-ranges
//   - ProjectionState: camera transform shared between linked 3D views
//   - Synchronizer: copies the primary camera to linked secondaries
//
// # Usage
//
//	ctl, err := view.NewController(c, surface, view.Options{})
//	if err != nil {
//		return err
//	}
//	defer ctl.Dispose()
//	if err := ctl.Handle(view.VelocityEvent{Velocity: 3.4}); err != nil {
//		...
//	}
//	readout := ctl.Readout().Text
//
// All state in this package belongs to the single interaction goroutine;
// nothing here locks.
package view
