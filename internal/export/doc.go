// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes slices, spectra, and iso-surfaces to files.
//
// The view core never imports this package; exporters consume the public
// cube and render types, so exporting stays a pluggable capability
// layered on top of the engine.
//
// # Key Types
//
//   - Exporter: one slice output format (PNG, CSV, JSON)
//   - SpectrumPNG / SpectrumCSV: flux-vs-velocity profile output
//   - WriteSTL: iso-surface mesh output
//
// # Usage
//
//	exp := export.NewPNGExporter(render.DefaultColormap(), nil)
//	path, err := export.ExportToFile(slice, "ngc253", exp, nil)
package export
