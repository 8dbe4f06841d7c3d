// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/jeranaias/cubetui/internal/cube"
	"github.com/jeranaias/cubetui/internal/render"
)

// =============================================================================
// PNG EXPORTER
// =============================================================================

// PNGExporter rasterizes a slice through a colormap. Each grid cell
// becomes a square block of pixels; row zero is drawn at the bottom so
// the image matches the on-screen orientation.
type PNGExporter struct {
	cmap    render.Colormap
	options *Options

	// CellSize is the edge length in pixels of one grid cell.
	CellSize int
}

// NewPNGExporter creates a PNG exporter using the given colormap.
func NewPNGExporter(cmap render.Colormap, opts *Options) *PNGExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &PNGExporter{cmap: cmap, options: opts, CellSize: 8}
}

// Export renders the slice to PNG bytes.
func (e *PNGExporter) Export(s *cube.Slice2D) ([]byte, error) {
	if s == nil || s.Rows == 0 || s.Cols == 0 {
		return nil, fmt.Errorf("empty slice")
	}
	cell := e.CellSize
	if cell < 1 {
		cell = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, s.Cols*cell, s.Rows*cell))
	span := s.Max - s.Min
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			t := 0.0
			if span > 0 {
				t = (s.At(r, c) - s.Min) / span
			}
			cr, cg, cb := e.cmap.At(t)
			col := color.RGBA{R: cr, G: cg, B: cb, A: 0xFF}
			// Flip vertically: grid row 0 is the bottom of the map.
			py := (s.Rows - 1 - r) * cell
			px := c * cell
			for dy := 0; dy < cell; dy++ {
				for dx := 0; dx < cell; dx++ {
					img.SetRGBA(px+dx, py+dy, col)
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// FileExtension returns the file extension for PNG.
func (e *PNGExporter) FileExtension() string { return ".png" }

// MimeType returns the MIME type for PNG.
func (e *PNGExporter) MimeType() string { return "image/png" }
