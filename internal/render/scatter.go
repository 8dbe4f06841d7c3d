// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cubetui/internal/cube"
	"github.com/jeranaias/cubetui/internal/view"
)

// cellAspect compensates for terminal cells being roughly twice as tall
// as wide, so a rotating cloud keeps its proportions.
const cellAspect = 2.0

// defaultCutoff hides the faint bulk of the cube so structure stands
// out; only voxels in the top intensity fraction are plotted.
const defaultCutoff = 0.35

// intensityRamp orders glyphs from faint to bright.
var intensityRamp = []rune(" .:-=+*#%@")

type scatterCell struct {
	ch    rune
	color lipgloss.Color
	set   bool
}

// Scatter renders the flattened cube as a rotatable, zoomable point
// cloud. It holds the camera transform for the view synchronizer:
// Projection returns exactly what was last applied, and SetProjection
// adopts a transform verbatim, so linked views converge instead of
// drifting.
type Scatter struct {
	cmap Colormap

	width int
	lines int

	proj   view.ProjectionState
	voxels []cube.Voxel
	minV   float64
	maxV   float64
	radius float64
	cutoff float64

	frameDone func()
	cells     [][]scatterCell
	frame     string
}

// NewScatter builds an unsized scatter view with the home projection.
func NewScatter(cmap Colormap) *Scatter {
	return &Scatter{
		cmap:   cmap,
		proj:   view.DefaultProjection(),
		cutoff: defaultCutoff,
	}
}

// SetSize fixes the panel size in cells and terminal lines.
func (s *Scatter) SetSize(width, lines int) {
	s.width, s.lines = width, lines
	s.rebuild()
}

// OnFrameComplete registers the hook invoked after every completed
// frame. The primary view wires the synchronizer's frame signal here.
func (s *Scatter) OnFrameComplete(fn func()) { s.frameDone = fn }

// SetPalette swaps the colormap and repaints.
func (s *Scatter) SetPalette(cmap Colormap) {
	s.cmap = cmap
	s.rebuild()
}

// SetCutoff sets the visible intensity fraction, clamped into [0, 1).
func (s *Scatter) SetCutoff(frac float64) {
	if math.IsNaN(frac) || frac < 0 {
		frac = 0
	}
	if frac >= 1 {
		frac = 0.99
	}
	s.cutoff = frac
	s.rebuild()
}

// =============================================================================
// 3D SURFACE INTERFACE
// =============================================================================

// SetSamples replaces the displayed voxel set. Sizing may arrive later;
// the samples are kept either way.
func (s *Scatter) SetSamples(vox []cube.Voxel) error {
	s.voxels = vox
	s.minV, s.maxV, s.radius = 0, 0, 1
	for i, v := range vox {
		if i == 0 {
			s.minV, s.maxV = v.V, v.V
		} else {
			s.minV = math.Min(s.minV, v.V)
			s.maxV = math.Max(s.maxV, v.V)
		}
		r := math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
		s.radius = math.Max(s.radius, r)
	}
	s.rebuild()
	return nil
}

// Projection returns the camera transform last applied.
func (s *Scatter) Projection() view.ProjectionState { return s.proj }

// SetProjection adopts a camera transform verbatim and repaints.
func (s *Scatter) SetProjection(p view.ProjectionState) error {
	s.proj = p
	s.rebuild()
	return nil
}

// =============================================================================
// CAMERA CONTROLS
// =============================================================================

// Rotate spins the camera by the given angle deltas.
func (s *Scatter) Rotate(dx, dz float64) {
	s.proj.Rotate(dx, dz)
	s.rebuild()
}

// ZoomBy scales the camera zoom by a positive factor.
func (s *Scatter) ZoomBy(factor float64) {
	s.proj.ZoomBy(factor)
	s.rebuild()
}

// Pan shifts the view in device cells.
func (s *Scatter) Pan(dx, dy float64) {
	s.proj.Pan(dx, dy)
	s.rebuild()
}

// ResetCamera returns to the home projection.
func (s *Scatter) ResetCamera() {
	s.proj.Reset()
	s.rebuild()
}

// View returns the rendered point cloud.
func (s *Scatter) View() string { return s.frame }

// =============================================================================
// PROJECTION AND RASTERIZATION
// =============================================================================

// project maps one voxel through the camera: rotation about the z axis,
// then about the x axis, then zoom and pan. The returned depth grows
// toward the camera.
func (s *Scatter) project(v cube.Voxel) (sx, sy, depth float64) {
	cz, snz := math.Cos(s.proj.RotZ), math.Sin(s.proj.RotZ)
	cx, snx := math.Cos(s.proj.RotX), math.Sin(s.proj.RotX)

	x, y, z := v.X, v.Y, v.Z
	x1 := x*cz - y*snz
	y1 := x*snz + y*cz
	y2 := y1*cx - z*snx
	z2 := y1*snx + z*cx

	unit := s.unitScale() * s.proj.Zoom
	sx = float64(s.width)/2 + x1*unit*cellAspect + s.proj.PanX
	sy = float64(s.lines)/2 - z2*unit + s.proj.PanY
	return sx, sy, -y2
}

// unitScale fits the voxel radius into the panel with a small margin.
func (s *Scatter) unitScale() float64 {
	if s.width < 1 || s.lines < 1 {
		return 1
	}
	halfW := float64(s.width) / 2
	halfH := float64(s.lines) / 2
	return 0.9 * math.Min(halfW/(s.radius*cellAspect), halfH/s.radius)
}

func (s *Scatter) rebuild() {
	if s.width < 1 || s.lines < 1 {
		s.frame = ""
		return
	}
	s.cells = make([][]scatterCell, s.lines)
	zbuf := make([][]float64, s.lines)
	for y := range s.cells {
		s.cells[y] = make([]scatterCell, s.width)
		zbuf[y] = make([]float64, s.width)
		for x := range zbuf[y] {
			zbuf[y][x] = math.Inf(-1)
		}
	}

	span := s.maxV - s.minV
	for _, v := range s.voxels {
		t := 0.5
		if span > 0 {
			t = (v.V - s.minV) / span
		}
		if t < s.cutoff {
			continue
		}
		sx, sy, depth := s.project(v)
		x, y := int(math.Round(sx)), int(math.Round(sy))
		if x < 0 || x >= s.width || y < 0 || y >= s.lines {
			continue
		}
		if depth <= zbuf[y][x] {
			continue
		}
		zbuf[y][x] = depth
		s.cells[y][x] = scatterCell{
			ch:    rampGlyph(t, s.cutoff),
			color: s.cmap.Color(t),
			set:   true,
		}
	}

	s.assemble()
	if s.frameDone != nil {
		s.frameDone()
	}
}

// rampGlyph spreads the visible intensity band across the glyph ramp.
func rampGlyph(t, cutoff float64) rune {
	span := 1 - cutoff
	if span <= 0 {
		return intensityRamp[len(intensityRamp)-1]
	}
	pos := (t - cutoff) / span
	i := int(pos * float64(len(intensityRamp)-1))
	if i < 1 {
		i = 1 // index zero is the blank cell
	}
	if i >= len(intensityRamp) {
		i = len(intensityRamp) - 1
	}
	return intensityRamp[i]
}

func (s *Scatter) assemble() {
	var sb strings.Builder
	for y := 0; y < s.lines; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < s.width; x++ {
			c := s.cells[y][x]
			if !c.set {
				sb.WriteByte(' ')
				continue
			}
			sb.WriteString(lipgloss.NewStyle().
				Foreground(c.color).
				Render(string(c.ch)))
		}
	}
	s.frame = sb.String()
}
