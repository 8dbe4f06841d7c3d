// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"fmt"
	"strings"

	"github.com/jeranaias/cubetui/internal/view"
	"github.com/jeranaias/cubetui/internal/wcs"
)

// Capture snapshots a live controller into a SavedView. The palette and
// background belong to the render surface, so the caller supplies them.
func Capture(ctl *view.Controller, title, cubePath, palette, background string) SavedView {
	r := ctl.Ranges().Capture()
	return SavedView{
		Title:      title,
		CubePath:   cubePath,
		Frame:      ctl.Frame().String(),
		Integrated: ctl.Integrated(),
		Plane:      ctl.Plane(),
		Palette:    palette,
		Contours:   strings.Join(ctl.Contours().Strings(), ","),
		XMin:       r.X.Min,
		XMax:       r.X.Max,
		YMin:       r.Y.Min,
		YMax:       r.Y.Max,
		VMin:       r.Spectral.Min,
		VMax:       r.Spectral.Max,
		Background: background,
	}
}

// Apply restores a SavedView onto a live controller by replaying the
// construction sequence as events, in the stored field order: frame,
// mode, plane, contours, then the three axis ranges. The first failing
// event aborts the restore.
func Apply(v *SavedView, ctl *view.Controller) error {
	frame, err := wcs.ParseFrame(v.Frame)
	if err != nil {
		return fmt.Errorf("saved view %q: %w", v.Title, err)
	}

	events := []view.Event{
		view.FrameSelectEvent{Frame: frame},
	}
	if ctl.Integrated() != v.Integrated {
		events = append(events, view.ModeToggleEvent{})
	}
	events = append(events, view.PlaneChangeEvent{Plane: v.Plane, Force: true})
	if levels := v.ContourLevels(); len(levels) > 0 {
		events = append(events, view.ContourEditEvent{
			Op:    view.ContourAdd,
			Input: strings.Join(levels, ","),
		})
	}
	events = append(events,
		view.RangeChangeEvent{Axis: view.AxisX, Min: v.XMin, Max: v.XMax},
		view.RangeChangeEvent{Axis: view.AxisY, Min: v.YMin, Max: v.YMax},
		view.RangeChangeEvent{Axis: view.AxisSpectral, Min: v.VMin, Max: v.VMax},
	)

	for _, ev := range events {
		if err := ctl.Handle(ev); err != nil {
			return fmt.Errorf("restoring view %q: %w", v.Title, err)
		}
	}
	return nil
}
