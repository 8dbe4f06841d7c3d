// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render draws cube slices and voxel clouds into terminal cells.
//
// The package provides the two rendering backends the view layer talks
// to: Heatmap renders a 2D slice with half-block cells (two device rows
// per terminal line), and Scatter renders the flattened cube as a
// rotatable point cloud. Both are plain string renderers; the bubbletea
// layer composes their View output into the program frame.
//
// Device coordinates follow the half-block convention everywhere:
// columns are terminal cells, rows are half-cells, so a panel that is
// 20 lines tall spans 40 device rows. Mouse positions coming in as
// cell coordinates must be doubled vertically before hitting the
// coordinate pipeline.
//
// # Key Types
//
//   - Heatmap: slice renderer, implements the 2D render surface
//   - Scatter: voxel cloud renderer, implements the 3D render surface
//   - Colormap: normalized intensity to color ramps
//   - IsoSurface: marching-cubes mesh extraction for STL export
//
// # Usage
//
//	hm := render.NewHeatmap(render.DefaultColormap())
//	hm.SetSize(80, 24)
//	ctl, err := view.NewController(c, hm, view.Options{})
//	...
//	fmt.Print(hm.View())
package render
