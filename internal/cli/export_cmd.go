// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeranaias/cubetui/internal/config"
	"github.com/jeranaias/cubetui/internal/export"
	"github.com/jeranaias/cubetui/internal/loader"
	"github.com/jeranaias/cubetui/internal/render"
	"github.com/jeranaias/cubetui/internal/view"
)

// HandleExport writes one slice (or the cube isosurface) to a file.
func HandleExport(cfg *config.Config, args Args) error {
	if args.File == "" {
		return &UsageError{Command: "export", Reason: "cube file required"}
	}
	c, err := loader.Open(args.File)
	if err != nil {
		return err
	}

	format := args.Format
	if format == "" {
		format = "png"
	}
	outDir := args.Output
	if outDir == "" {
		outDir = cfg.ExportDir
	}
	opts := &export.Options{OutputDir: outDir, Timestamp: true}

	base := c.Meta.Source
	if base == "" {
		base = "cube"
	}

	// STL works on the whole cube, not a slice.
	if format == "stl" {
		path := filepath.Join(outDir, base+".stl")
		if err := export.WriteSTLAtFraction(c, cfg.IsoFraction, path); err != nil {
			return err
		}
		if !args.Quiet {
			fmt.Println(path)
		}
		return nil
	}

	cmap, err := resolvePalette(cfg, args)
	if err != nil {
		return err
	}

	var exp export.Exporter
	switch format {
	case "png":
		exp = export.NewPNGExporter(cmap, opts)
	case "csv":
		exp = export.NewCSVExporter(opts)
	case "json":
		exp = export.NewJSONExporter(opts)
	default:
		return &UsageError{Command: "export",
			Reason: fmt.Sprintf("unknown format %q (want png, csv, json, or stl)", format)}
	}

	// Drive the slice selection through the controller so export and
	// viewer agree on plane math, clamping, and integration.
	heatmap := render.NewHeatmap(cmap)
	heatmap.SetSize(64, 16)
	ctl, err := view.NewController(c, heatmap, view.Options{})
	if err != nil {
		return err
	}
	defer ctl.Dispose()
	if err := selectSlice(ctl, args); err != nil {
		return err
	}

	path, err := export.ExportToFile(ctl.Slice(), base, exp, opts)
	if err != nil {
		return err
	}
	if !args.Quiet {
		fmt.Println(path)
	}
	return nil
}

// HandleSpectrum prints or writes the flux-vs-velocity profile at one
// spatial cell.
func HandleSpectrum(cfg *config.Config, args Args) error {
	if args.File == "" {
		return &UsageError{Command: "spectrum", Reason: "cube file required"}
	}
	if args.Col < 0 || args.Row < 0 {
		return &UsageError{Command: "spectrum", Reason: "usage: spectrum <file> COL ROW"}
	}
	c, err := loader.Open(args.File)
	if err != nil {
		return err
	}
	sp, err := export.SpectrumAt(c, args.Col, args.Row)
	if err != nil {
		return err
	}

	format := args.Format
	if format == "" {
		format = "table"
	}

	switch format {
	case "table":
		unit := sp.FluxUnit
		if unit == "" {
			unit = "flux"
		}
		fmt.Printf("%12s  %s\n", "km/s", unit)
		for i, v := range sp.Velocities {
			fmt.Printf("%12.3f  %g\n", v, sp.Flux[i])
		}
		return nil

	case "csv":
		data, err := export.SpectrumCSV(sp)
		if err != nil {
			return err
		}
		return writeOut(args.Output, data)

	case "png":
		if args.Output == "" {
			return &UsageError{Command: "spectrum", Reason: "png format needs --output FILE"}
		}
		data, err := export.SpectrumPNG(sp)
		if err != nil {
			return err
		}
		return writeOut(args.Output, data)
	}
	return &UsageError{Command: "spectrum",
		Reason: fmt.Sprintf("unknown format %q (want table, csv, or png)", format)}
}

func writeOut(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
