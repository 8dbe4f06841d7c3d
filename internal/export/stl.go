// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeranaias/cubetui/internal/cube"
	"github.com/jeranaias/cubetui/internal/render"
)

// =============================================================================
// STL EXPORTER
// =============================================================================

// WriteSTL extracts the iso-surface of the cube at the given intensity
// level and writes the triangle mesh as binary STL.
func WriteSTL(c *cube.Cube, level float64, path string) error {
	iso, err := render.NewIsoSurface(c, level)
	if err != nil {
		return fmt.Errorf("build iso-surface: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	mesh := iso.Mesh()
	if len(mesh.TriangleSlice()) == 0 {
		return fmt.Errorf("iso-surface at level %g is empty", level)
	}
	if err := mesh.SaveGroupedSTL(path); err != nil {
		return fmt.Errorf("write stl: %w", err)
	}
	return nil
}

// WriteSTLAtFraction is WriteSTL with the level picked as a fraction of
// the cube's intensity range.
func WriteSTLAtFraction(c *cube.Cube, frac float64, path string) error {
	return WriteSTL(c, render.LevelAtFraction(c, frac), path)
}
