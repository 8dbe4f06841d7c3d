// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package wcs converts cursor positions between device, physical, and sky
// coordinates.
//
// The forward chain runs device pixel -> normalized physical offset ->
// equatorial sky location -> display frame. Partial inversion (device to
// physical only) is supported for cursor queries that never need the sky
// leg. Frame conversions to ecliptic and galactic coordinates use the
// astronomical routines from github.com/soniakeys/meeus; conversion
// failures degrade to the unconverted equatorial location instead of
// aborting the interaction.
//
// # Key Types
//
//   - Pipeline: per-cube converter holding the active display frame
//   - PanelExtent: device-space rectangle the slice was drawn into
//   - SkyLocation: frame-agnostic equatorial position
//   - Position: readout position in the active display frame
//   - CursorQuery: full readout result for one cursor position
//
// # Usage
//
//	p := wcs.NewPipeline(c.Meta)
//	p.SetFrame(wcs.FrameGalactic)
//	q := p.Query(mouseX, mouseY, surface.Extent(), xw, yw, slice)
//	if q.InPanel {
//		readout = q.Display.Format()
//	}
//
// Device y grows downward (terminal convention); the physical y axis is
// drawn with its high bound at the panel top.
package wcs
