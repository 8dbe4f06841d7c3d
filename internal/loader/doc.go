// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package loader reads spectral cubes from disk and watches them for
// changes.
//
// Formats are dispatched by file extension through a registry: NetCDF
// (.nc, .cdf), FITS (.fits, .fit) and synthetic YAML scenes (.yaml,
// .yml). Every loader sanitizes blanked voxels (NaN or infinity) to
// zero before the cube is built, so the math layers can assume finite
// samples throughout.
//
// # Key Types
//
//   - Loader: one file format reader
//   - CubeWatcher: change notification with a polling fallback
//   - Scene: the synthetic gaussian scene description
//
// # Usage
//
//	c, err := loader.Open("ngc1275.fits")
//	if err != nil { ... }
//
//	w, err := loader.NewWatcher("ngc1275.fits", func(c *cube.Cube, err error) { ... })
//	if err == nil {
//		defer w.Close()
//	}
package loader
