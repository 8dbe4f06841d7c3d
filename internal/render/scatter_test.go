// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"math"
	"strings"
	"testing"

	"github.com/jeranaias/cubetui/internal/cube"
	"github.com/jeranaias/cubetui/internal/view"
)

func sizedScatter() *Scatter {
	s := NewScatter(DefaultColormap())
	s.SetSize(40, 20)
	return s
}

func TestScatter_DefaultProjection(t *testing.T) {
	s := NewScatter(DefaultColormap())
	if s.Projection() != view.DefaultProjection() {
		t.Errorf("projection = %+v, want home %+v", s.Projection(), view.DefaultProjection())
	}
}

func TestScatter_SetProjectionVerbatim(t *testing.T) {
	s := sizedScatter()
	p := view.ProjectionState{RotX: 1.2, RotZ: -0.4, Zoom: 3.5, PanX: 2, PanY: -1}

	if err := s.SetProjection(p); err != nil {
		t.Fatalf("SetProjection failed: %v", err)
	}
	if s.Projection() != p {
		t.Errorf("projection = %+v, want verbatim %+v", s.Projection(), p)
	}
}

func TestScatter_OriginVoxelAtCenter(t *testing.T) {
	s := sizedScatter()
	if err := s.SetProjection(view.ProjectionState{RotX: 0.7, RotZ: 1.9, Zoom: 1}); err != nil {
		t.Fatalf("SetProjection failed: %v", err)
	}
	if err := s.SetSamples([]cube.Voxel{{X: 0, Y: 0, Z: 0, V: 1}}); err != nil {
		t.Fatalf("SetSamples failed: %v", err)
	}

	// The origin is a fixed point of every rotation.
	if !s.cells[10][20].set {
		t.Fatal("origin voxel not plotted at panel center")
	}
}

func TestScatter_PanShiftsCells(t *testing.T) {
	s := sizedScatter()
	if err := s.SetSamples([]cube.Voxel{{V: 1}}); err != nil {
		t.Fatalf("SetSamples failed: %v", err)
	}
	s.Pan(3, 2)

	if s.cells[10][20].set {
		t.Error("panned voxel still at center")
	}
	if !s.cells[12][23].set {
		t.Error("voxel not shifted by the pan deltas")
	}
}

func TestScatter_ZoomScalesOffsets(t *testing.T) {
	s := sizedScatter()
	if err := s.SetProjection(view.ProjectionState{Zoom: 1}); err != nil {
		t.Fatalf("SetProjection failed: %v", err)
	}
	if err := s.SetSamples([]cube.Voxel{{X: 1, V: 1}}); err != nil {
		t.Fatalf("SetSamples failed: %v", err)
	}

	vox := cube.Voxel{X: 1, V: 1}
	sx1, _, _ := s.project(vox)
	if err := s.SetProjection(view.ProjectionState{Zoom: 2}); err != nil {
		t.Fatalf("SetProjection failed: %v", err)
	}
	sx2, _, _ := s.project(vox)

	if math.Abs((sx2-20)-2*(sx1-20)) > 1e-9 {
		t.Errorf("zoom 2 offset = %v, want twice %v", sx2-20, sx1-20)
	}
}

func TestScatter_CutoffHidesFaintVoxels(t *testing.T) {
	s := sizedScatter()
	err := s.SetSamples([]cube.Voxel{
		{X: -2, V: 0},  // faint, below the cutoff
		{X: 2, V: 10},  // bright
	})
	if err != nil {
		t.Fatalf("SetSamples failed: %v", err)
	}

	drawn := 0
	for y := range s.cells {
		for x := range s.cells[y] {
			if s.cells[y][x].set {
				drawn++
			}
		}
	}
	if drawn != 1 {
		t.Errorf("drawn cells = %d, want only the bright voxel", drawn)
	}
}

func TestScatter_NearerVoxelWins(t *testing.T) {
	s := sizedScatter()
	// Both project to the panel center with the identity rotation; the
	// third voxel only widens the intensity range.
	err := s.SetSamples([]cube.Voxel{
		{Y: 1, V: 10}, // far side
		{Y: -1, V: 8}, // near side
		{X: 1, V: 0},  // hidden below cutoff
	})
	if err != nil {
		t.Fatalf("SetSamples failed: %v", err)
	}
	if err := s.SetProjection(view.ProjectionState{Zoom: 1}); err != nil {
		t.Fatalf("SetProjection failed: %v", err)
	}

	cell := s.cells[10][20]
	if !cell.set {
		t.Fatal("center cell empty")
	}
	if want := rampGlyph(0.8, s.cutoff); cell.ch != want {
		t.Errorf("center glyph = %q, want near voxel %q", cell.ch, want)
	}
}

func TestScatter_FrameCompleteHook(t *testing.T) {
	s := NewScatter(DefaultColormap())
	frames := 0
	s.OnFrameComplete(func() { frames++ })

	// No frames complete while the panel is unsized.
	if err := s.SetSamples([]cube.Voxel{{V: 1}}); err != nil {
		t.Fatalf("SetSamples failed: %v", err)
	}
	if frames != 0 {
		t.Fatalf("frames = %d before sizing, want 0", frames)
	}

	s.SetSize(40, 20)
	if frames != 1 {
		t.Fatalf("frames = %d after sizing, want 1", frames)
	}
	if err := s.SetProjection(view.ProjectionState{Zoom: 2}); err != nil {
		t.Fatalf("SetProjection failed: %v", err)
	}
	s.Rotate(0.1, 0.1)
	s.ResetCamera()
	if frames != 4 {
		t.Errorf("frames = %d, want one per repaint, 4", frames)
	}
}

func TestScatter_ViewShape(t *testing.T) {
	s := sizedScatter()
	if got := strings.Count(s.View(), "\n"); got != 19 {
		t.Errorf("frame has %d newlines, want 19", got)
	}
}
