// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/jeranaias/cubetui/internal/config"
	"github.com/jeranaias/cubetui/internal/loader"
	"github.com/jeranaias/cubetui/internal/render"
	"github.com/jeranaias/cubetui/internal/util"
	"github.com/jeranaias/cubetui/internal/view"
	"github.com/jeranaias/cubetui/internal/wcs"
)

// HandleSlice renders one slice to stdout and exits: the non-interactive
// path for pipelines and quick looks.
func HandleSlice(cfg *config.Config, args Args) error {
	if args.File == "" {
		return &UsageError{Command: "slice", Reason: "cube file required"}
	}
	c, err := loader.Open(args.File)
	if err != nil {
		return err
	}

	cmap, err := resolvePalette(cfg, args)
	if err != nil {
		return err
	}
	frame, err := resolveFrame(cfg, args)
	if err != nil {
		return err
	}

	width, lines := 80, 22
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 10 && h > 4 {
		width, lines = w, h-2
	}

	heatmap := render.NewHeatmap(cmap)
	heatmap.SetSize(width, lines)

	ctl, err := view.NewController(c, heatmap, view.Options{Frame: frame})
	if err != nil {
		return err
	}
	defer ctl.Dispose()

	if err := selectSlice(ctl, args); err != nil {
		return err
	}

	fmt.Print(heatmap.View())
	if !args.Quiet {
		if ctl.Integrated() {
			fmt.Printf("moment-0 over %s..%s km/s  frame %s\n",
				util.Ftoa(c.Meta.VBounds.Start), util.Ftoa(c.Meta.VBounds.End), frame)
		} else {
			fmt.Printf("plane %d/%d  %s km/s  frame %s\n",
				ctl.Plane(), c.Planes()-1, util.Ftoa(ctl.Velocity()), frame)
		}
	}
	return nil
}

// selectSlice applies the --plane/--vel/--integrated selection to a fresh
// controller.
func selectSlice(ctl *view.Controller, args Args) error {
	switch {
	case args.Integrated:
		return ctl.Handle(view.ModeToggleEvent{})
	case args.HasVelocity:
		return ctl.Handle(view.VelocityEvent{Velocity: args.Velocity})
	case args.Plane >= 0:
		return ctl.Handle(view.PlaneChangeEvent{Plane: args.Plane})
	}
	return nil
}

func resolvePalette(cfg *config.Config, args Args) (render.Colormap, error) {
	if args.Palette != "" {
		return render.ParseColormap(args.Palette)
	}
	return cfg.Colormap(), nil
}

func resolveFrame(cfg *config.Config, args Args) (wcs.Frame, error) {
	if args.Frame != "" {
		return wcs.ParseFrame(args.Frame)
	}
	return cfg.DisplayFrame(), nil
}
