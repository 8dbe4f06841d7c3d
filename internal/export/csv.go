// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jeranaias/cubetui/internal/cube"
)

// =============================================================================
// CSV EXPORTER
// =============================================================================

// CSVExporter writes the slice grid as comma-separated values, one record
// per grid row, row zero first.
type CSVExporter struct {
	options *Options
}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter(opts *Options) *CSVExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &CSVExporter{options: opts}
}

// Export renders the slice to CSV bytes.
func (e *CSVExporter) Export(s *cube.Slice2D) ([]byte, error) {
	if s == nil || s.Rows == 0 || s.Cols == 0 {
		return nil, fmt.Errorf("empty slice")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	record := make([]string, s.Cols)
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			record[c] = strconv.FormatFloat(s.At(r, c), 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", r, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// FileExtension returns the file extension for CSV.
func (e *CSVExporter) FileExtension() string { return ".csv" }

// MimeType returns the MIME type for CSV.
func (e *CSVExporter) MimeType() string { return "text/csv" }
