// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package loader

import (
	"fmt"
	"log"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jeranaias/cubetui/internal/cube"
)

// UnknownFormatError reports a file whose extension matches no
// registered loader.
type UnknownFormatError struct {
	Path string
	Ext  string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("no loader for %q (extension %q, supported: %s)",
		e.Path, e.Ext, strings.Join(Supported(), ", "))
}

// Loader reads one cube file format.
type Loader interface {
	// Load reads the file into a cube.
	Load(path string) (*cube.Cube, error)

	// Extensions lists the file extensions this loader claims,
	// lowercase with the leading dot.
	Extensions() []string
}

// =============================================================================
// FORMAT REGISTRY
// =============================================================================

var registry = map[string]Loader{}

// Register claims the loader's extensions. Later registrations win,
// which lets callers override a built-in format.
func Register(l Loader) {
	for _, ext := range l.Extensions() {
		registry[strings.ToLower(ext)] = l
	}
}

// Supported returns the registered extensions, sorted.
func Supported() []string {
	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// For resolves the loader for a path by extension.
func For(path string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if l, ok := registry[ext]; ok {
		return l, nil
	}
	return nil, &UnknownFormatError{Path: path, Ext: ext}
}

// Open loads a cube, dispatching on the file extension.
func Open(path string) (*cube.Cube, error) {
	l, err := For(path)
	if err != nil {
		return nil, err
	}
	return l.Load(path)
}

// =============================================================================
// SAMPLE SANITIZATION
// =============================================================================

// sanitize replaces blanked voxels (NaN or infinite) with zero in
// place and returns how many were touched. Downstream math assumes
// finite samples.
func sanitize(samples []float64) int {
	n := 0
	for i, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			samples[i] = 0
			n++
		}
	}
	return n
}

func logBlanked(path string, n int) {
	if n > 0 {
		log.Printf("loader: %s: %d blanked voxels set to zero", filepath.Base(path), n)
	}
}
