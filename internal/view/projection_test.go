// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

import "testing"

func TestProjectionState_ZoomClamps(t *testing.T) {
	p := DefaultProjection()

	for i := 0; i < 50; i++ {
		p.ZoomBy(3)
	}
	if p.Zoom != maxZoom {
		t.Errorf("Zoom = %v, want clamped %v", p.Zoom, maxZoom)
	}

	for i := 0; i < 50; i++ {
		p.ZoomBy(0.25)
	}
	if p.Zoom != minZoom {
		t.Errorf("Zoom = %v, want clamped %v", p.Zoom, minZoom)
	}

	// A non-positive factor is ignored.
	p.ZoomBy(0)
	p.ZoomBy(-2)
	if p.Zoom != minZoom {
		t.Errorf("Zoom = %v after bad factors, want %v", p.Zoom, minZoom)
	}
}

func TestProjectionState_RotatePanReset(t *testing.T) {
	p := DefaultProjection()
	home := p

	p.Rotate(0.1, -0.2)
	p.Pan(3, 4)
	p.Pan(1, -1)
	if p == home {
		t.Fatal("rotate/pan left the projection unchanged")
	}
	if p.PanX != 4 || p.PanY != 3 {
		t.Errorf("pan = (%v, %v), want (4, 3)", p.PanX, p.PanY)
	}

	p.Reset()
	if p != home {
		t.Errorf("Reset = %+v, want %+v", p, home)
	}
}
