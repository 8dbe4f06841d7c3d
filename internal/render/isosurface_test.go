// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"math"
	"testing"

	"github.com/unixpickle/model3d/model3d"

	"github.com/jeranaias/cubetui/internal/cube"
)

// blockCube is all zero except a bright 2x2x2 block in the middle.
func blockCube(t *testing.T) *cube.Cube {
	t.Helper()
	const n = 4
	samples := make([]float64, n*n*n)
	c, err := cube.New(samples, n, n, n, cube.Metadata{
		XBounds:      cube.Bounds{Start: 0, End: 1},
		YBounds:      cube.Bounds{Start: 0, End: 1},
		VBounds:      cube.Bounds{Start: 0, End: 1},
		ChannelWidth: 1,
	})
	if err != nil {
		t.Fatalf("New cube failed: %v", err)
	}
	// Samples are retained by reference, so writing through the slice
	// reaches the cube.
	for plane := 1; plane <= 2; plane++ {
		for col := 1; col <= 2; col++ {
			for row := 1; row <= 2; row++ {
				samples[((plane*n)+col)*n+row] = 10
			}
		}
	}
	return c
}

func TestLevelAtFraction(t *testing.T) {
	c := blockCube(t)

	tests := []struct {
		name string
		frac float64
		want float64
	}{
		{"floor", 0, 0},
		{"ceiling", 1, 10},
		{"middle", 0.5, 5},
		{"clamped low", -3, 0},
		{"clamped high", 2, 10},
		{"nan", math.NaN(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevelAtFraction(c, tt.frac); got != tt.want {
				t.Errorf("LevelAtFraction(%v) = %v, want %v", tt.frac, got, tt.want)
			}
		})
	}
}

func TestNewIsoSurface_Invalid(t *testing.T) {
	if _, err := NewIsoSurface(nil, 1); err == nil {
		t.Error("nil cube accepted")
	}
	if _, err := NewIsoSurface(blockCube(t), math.NaN()); err == nil {
		t.Error("NaN level accepted")
	}
}

func TestVoxelSolid_Contains(t *testing.T) {
	iso, err := NewIsoSurface(blockCube(t), 5)
	if err != nil {
		t.Fatalf("NewIsoSurface failed: %v", err)
	}
	solid := iso.Solid()

	tests := []struct {
		name string
		p    model3d.Coord3D
		want bool
	}{
		{"block center", model3d.XYZ(1.5, 1.5, 1.5), true},
		{"block corner voxel", model3d.XYZ(2.9, 2.9, 2.9), true},
		{"dark voxel", model3d.XYZ(0.5, 0.5, 0.5), false},
		{"outside bounds", model3d.XYZ(-1, 1.5, 1.5), false},
		{"past far edge", model3d.XYZ(4.5, 1.5, 1.5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := solid.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	min, max := solid.Min(), solid.Max()
	if min != model3d.XYZ(0, 0, 0) || max != model3d.XYZ(4, 4, 4) {
		t.Errorf("bounds = %v..%v, want voxel index space", min, max)
	}
}

func TestIsoSurface_MeshEnclosesBlock(t *testing.T) {
	iso, err := NewIsoSurface(blockCube(t), 5)
	if err != nil {
		t.Fatalf("NewIsoSurface failed: %v", err)
	}

	mesh := iso.Mesh()
	if mesh == nil {
		t.Fatal("nil mesh")
	}
	triangles := 0
	mesh.Iterate(func(*model3d.Triangle) { triangles++ })
	if triangles == 0 {
		t.Error("bright block produced no surface")
	}
}
