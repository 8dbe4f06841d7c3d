// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package loader

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// =============================================================================
// REGISTRY TESTS
// =============================================================================

func TestFor_Dispatch(t *testing.T) {
	tests := []struct {
		name string
		path string
		want interface{}
	}{
		{"scene", "disk.yaml", &SceneLoader{}},
		{"scene yml", "disk.yml", &SceneLoader{}},
		{"netcdf", "cube.nc", &NetCDFLoader{}},
		{"netcdf classic", "cube.cdf", &NetCDFLoader{}},
		{"fits", "m51.fits", &FITSLoader{}},
		{"fits short", "m51.fit", &FITSLoader{}},
		{"uppercase", "M51.FITS", &FITSLoader{}},
		{"nested path", filepath.Join("a", "b", "x.yaml"), &SceneLoader{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := For(tt.path)
			require.NoError(t, err)
			require.IsType(t, tt.want, l)
		})
	}
}

func TestFor_UnknownFormat(t *testing.T) {
	_, err := For("cube.dat")
	require.Error(t, err)

	var ue *UnknownFormatError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, ".dat", ue.Ext)
	require.Contains(t, ue.Error(), ".fits", "error should list the supported formats")
}

func TestSupported_CoversBuiltins(t *testing.T) {
	got := Supported()
	for _, ext := range []string{".cdf", ".fit", ".fits", ".nc", ".yaml", ".yml"} {
		require.Contains(t, got, ext)
	}
}

func TestOpen_SceneFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	scene := `
title: test scene
cols: 8
rows: 6
planes: 4
sources:
  - amp: 5
    x: 0.5
    y: 0.5
    v: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(scene), 0o644))

	c, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 8, c.Cols())
	require.Equal(t, 6, c.Rows())
	require.Equal(t, 4, c.Planes())
	require.Equal(t, "test scene", c.Meta.Source)
}

func TestOpen_UnknownFormat(t *testing.T) {
	_, err := Open("whatever.bin")
	var ue *UnknownFormatError
	require.ErrorAs(t, err, &ue)
}

// =============================================================================
// SANITIZATION TESTS
// =============================================================================

func TestSanitize(t *testing.T) {
	samples := []float64{1, math.NaN(), -2, math.Inf(1), math.Inf(-1), 0}

	n := sanitize(samples)
	require.Equal(t, 3, n)
	require.Equal(t, []float64{1, 0, -2, 0, 0, 0}, samples)
}

func TestSanitize_CleanDataUntouched(t *testing.T) {
	samples := []float64{1, 2, 3}
	require.Zero(t, sanitize(samples))
	require.Equal(t, []float64{1, 2, 3}, samples)
}
