// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"

	"github.com/jeranaias/cubetui/internal/cube"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// jsonSlice is the serialized form of one slice. Bounds travel alongside
// the grid so the file positions itself without the source cube.
type jsonSlice struct {
	Plane      int         `json:"plane"`
	Integrated bool        `json:"integrated"`
	Velocity   float64     `json:"velocity_kms"`
	XStart     float64     `json:"x_start"`
	XEnd       float64     `json:"x_end"`
	YStart     float64     `json:"y_start"`
	YEnd       float64     `json:"y_end"`
	Levels     []float64   `json:"contour_levels,omitempty"`
	Rows       int         `json:"rows"`
	Cols       int         `json:"cols"`
	Data       [][]float64 `json:"data"`
}

// JSONExporter exports the complete slice, bounds included, so the output
// is a faithful representation that can be re-imported.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Export renders the slice to indented JSON bytes.
func (e *JSONExporter) Export(s *cube.Slice2D) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("slice is nil")
	}
	return json.MarshalIndent(jsonSlice{
		Plane:      s.Plane,
		Integrated: s.Integrated(),
		Velocity:   s.Velocity,
		XStart:     s.XBounds.Start,
		XEnd:       s.XBounds.End,
		YStart:     s.YBounds.Start,
		YEnd:       s.YBounds.End,
		Levels:     s.Levels,
		Rows:       s.Rows,
		Cols:       s.Cols,
		Data:       s.Data,
	}, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string { return ".json" }

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string { return "application/json" }
