// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cube defines the volumetric spectral-line data cube and the 2D
// slices derived from it.
//
// A Cube is a read-only 3D array of intensity samples (two spatial axes,
// one spectral axis) plus the physical metadata needed to interpret it:
// per-axis bounds, channel width, beam ellipse, flux unit, and reference
// epoch. Slice and Integrate turn a cube into a renderable Slice2D, either
// a single velocity plane or a velocity-integrated (moment-0) map.
//
// # Key Types
//
//   - Cube: immutable 3D sample array with axis metadata
//   - Metadata: axis bounds, beam ellipse, flux unit, reference epoch
//   - Bounds: start/end extent of one axis, possibly inverted
//   - Slice2D: derived 2D grid carrying the bounds it was cut from
//   - Voxel: one recentered sample for 3D scatter rendering
//
// # Usage
//
//	c, err := cube.New(samples, cols, rows, planes, meta)
//	if err != nil {
//		return err
//	}
//	plane := c.PlaneForVelocity(3.4)
//	sl, err := cube.Slice(c, plane)
//	mom, err := cube.Integrate(c)
//
// Cubes are constructed once by a loader and never mutated afterwards;
// every slicing operation is a pure function over cube state.
package cube
