// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

// Zoom limits for the 3D camera. Outside this range the voxel scatter is
// either a single cell or far off screen.
const (
	minZoom = 0.1
	maxZoom = 20.0
)

// ProjectionState is the camera transform shared between linked 3D views:
// rotation about the screen x and z axes, a zoom factor, and a
// screen-space pan. The primary view owns the authoritative copy;
// secondaries receive it verbatim on every frame-complete signal while
// linking is enabled.
type ProjectionState struct {
	RotX float64 // pitch, radians
	RotZ float64 // yaw, radians
	Zoom float64 // scale factor, 1 fits the cube
	PanX float64 // screen cells
	PanY float64 // screen cells
}

// DefaultProjection is the home camera: a gentle oblique view at unit
// zoom.
func DefaultProjection() ProjectionState {
	return ProjectionState{RotX: 0.5, RotZ: 0.8, Zoom: 1}
}

// Rotate nudges the camera angles.
func (p *ProjectionState) Rotate(dx, dz float64) {
	p.RotX += dx
	p.RotZ += dz
}

// ZoomBy scales the zoom factor, clamped into a usable range.
func (p *ProjectionState) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	p.Zoom *= factor
	if p.Zoom < minZoom {
		p.Zoom = minZoom
	}
	if p.Zoom > maxZoom {
		p.Zoom = maxZoom
	}
}

// Pan shifts the camera in screen space.
func (p *ProjectionState) Pan(dx, dy float64) {
	p.PanX += dx
	p.PanY += dy
}

// Reset restores the home camera.
func (p *ProjectionState) Reset() {
	*p = DefaultProjection()
}
