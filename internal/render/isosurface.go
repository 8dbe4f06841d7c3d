// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"math"

	"github.com/unixpickle/model3d/model3d"

	"github.com/jeranaias/cubetui/internal/cube"
)

// IsoSurface extracts the triangle mesh enclosing every voxel at or
// above a fixed intensity level, for export as a printable model.
// Coordinates stay in voxel index space; consumers scale as needed.
type IsoSurface struct {
	c     *cube.Cube
	level float64
}

// NewIsoSurface builds an extractor over the cube at the given level.
func NewIsoSurface(c *cube.Cube, level float64) (*IsoSurface, error) {
	if c == nil || c.Len() == 0 {
		return nil, &cube.InvalidCubeError{Reason: "nil cube"}
	}
	if math.IsNaN(level) || math.IsInf(level, 0) {
		return nil, fmt.Errorf("iso level must be finite, got %v", level)
	}
	return &IsoSurface{c: c, level: level}, nil
}

// LevelAtFraction converts a fraction of the cube's intensity range
// into an absolute iso level. The fraction is clamped into [0, 1].
func LevelAtFraction(c *cube.Cube, frac float64) float64 {
	lo, hi := c.MinMax()
	if math.IsNaN(frac) || frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return lo + frac*(hi-lo)
}

// Level returns the iso level in cube intensity units.
func (iso *IsoSurface) Level() float64 { return iso.level }

// Solid exposes the thresholded cube as a watertight solid in voxel
// index coordinates.
func (iso *IsoSurface) Solid() model3d.Solid {
	return voxelSolid{c: iso.c, level: iso.level}
}

// Mesh runs marching cubes over the solid at half-voxel resolution.
func (iso *IsoSurface) Mesh() *model3d.Mesh {
	return model3d.MarchingCubesSearch(iso.Solid(), 0.5, 8)
}

// voxelSolid adapts the cube to the solid interface: a point belongs to
// the solid when the voxel it falls in reaches the level.
type voxelSolid struct {
	c     *cube.Cube
	level float64
}

func (s voxelSolid) Min() model3d.Coord3D { return model3d.XYZ(0, 0, 0) }

func (s voxelSolid) Max() model3d.Coord3D {
	return model3d.XYZ(
		float64(s.c.Cols()),
		float64(s.c.Rows()),
		float64(s.c.Planes()),
	)
}

func (s voxelSolid) Contains(p model3d.Coord3D) bool {
	col := int(math.Floor(p.X))
	row := int(math.Floor(p.Y))
	plane := int(math.Floor(p.Z))
	if col < 0 || row < 0 || plane < 0 ||
		col >= s.c.Cols() || row >= s.c.Rows() || plane >= s.c.Planes() {
		return false
	}
	return s.c.Value(col, row, plane) >= s.level
}
