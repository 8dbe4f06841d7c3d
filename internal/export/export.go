// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/cubetui/internal/cube"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts one slice into a target file format.
type Exporter interface {
	// Export renders the slice into the target format.
	Export(s *cube.Slice2D) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g. ".png").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory.
	OutputDir string

	// Timestamp appends a timestamp to generated filenames so repeated
	// exports never overwrite each other.
	Timestamp bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir: ".",
		Timestamp: true,
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile exports a slice to a file using the given exporter and
// returns the output path. The base name usually derives from the cube's
// source designation.
func ExportToFile(s *cube.Slice2D, base string, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(s)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	name := sanitizeFilename(base)
	if name == "" {
		name = "slice"
	}
	if s.Integrated() {
		name += "_mom0"
	} else {
		name += fmt.Sprintf("_plane%03d", s.Plane)
	}
	if opts.Timestamp {
		name += "_" + time.Now().Format("20060102_150405")
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(opts.OutputDir, name+exporter.FileExtension())
	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// sanitizeFilename keeps letters, digits, dash, and underscore; every
// other rune becomes an underscore.
func sanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
