// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/cubetui/internal/cube"
	"github.com/jeranaias/cubetui/internal/render"
)

func testCube(t *testing.T) *cube.Cube {
	t.Helper()
	const cols, rows, planes = 4, 3, 5
	data := make([]float64, cols*rows*planes)
	for i := range data {
		data[i] = float64(i)
	}
	c, err := cube.New(data, cols, rows, planes, cube.Metadata{
		XBounds:      cube.Bounds{Start: -0.01, End: 0.01},
		YBounds:      cube.Bounds{Start: -0.01, End: 0.01},
		VBounds:      cube.Bounds{Start: -2, End: 2},
		ChannelWidth: 1,
		FluxUnit:     "K",
		Source:       "test source",
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func testSlice(t *testing.T) *cube.Slice2D {
	t.Helper()
	s, err := cube.Slice(testCube(t), 2)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestPNGExporter(t *testing.T) {
	exp := NewPNGExporter(render.DefaultColormap(), nil)
	data, err := exp.Export(testSlice(t))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not valid PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 4*exp.CellSize || b.Dy() != 3*exp.CellSize {
		t.Errorf("image %dx%d, want %dx%d", b.Dx(), b.Dy(),
			4*exp.CellSize, 3*exp.CellSize)
	}
}

func TestPNGExporterEmptySlice(t *testing.T) {
	exp := NewPNGExporter(render.DefaultColormap(), nil)
	if _, err := exp.Export(nil); err == nil {
		t.Error("nil slice should fail")
	}
}

func TestCSVExporter(t *testing.T) {
	data, err := NewCSVExporter(nil).Export(testSlice(t))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d rows, want 3", len(lines))
	}
	if got := len(strings.Split(lines[0], ",")); got != 4 {
		t.Errorf("got %d columns, want 4", got)
	}
}

func TestJSONExporterRoundTrip(t *testing.T) {
	s := testSlice(t)
	data, err := NewJSONExporter(nil).Export(s)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var back jsonSlice
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Plane != 2 || back.Rows != 3 || back.Cols != 4 {
		t.Errorf("geometry mismatch: %+v", back)
	}
	if back.XStart != -0.01 || back.XEnd != 0.01 {
		t.Errorf("bounds not preserved: %+v", back)
	}
	if back.Data[1][2] != s.At(1, 2) {
		t.Errorf("cell (1,2) = %v, want %v", back.Data[1][2], s.At(1, 2))
	}
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	opts := &Options{OutputDir: dir, Timestamp: false}

	path, err := ExportToFile(testSlice(t), "My Cube!", NewCSVExporter(opts), opts)
	if err != nil {
		t.Fatalf("ExportToFile: %v", err)
	}
	if filepath.Base(path) != "My_Cube_plane002.csv" {
		t.Errorf("unexpected filename %q", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestSpectrumAt(t *testing.T) {
	sp, err := SpectrumAt(testCube(t), 1, 2)
	if err != nil {
		t.Fatalf("SpectrumAt: %v", err)
	}
	if len(sp.Velocities) != 5 || len(sp.Flux) != 5 {
		t.Fatalf("profile length %d/%d, want 5", len(sp.Velocities), len(sp.Flux))
	}
	if sp.Velocities[0] != -2 || sp.Velocities[4] != 2 {
		t.Errorf("velocity axis = %v", sp.Velocities)
	}

	if _, err := SpectrumAt(testCube(t), 9, 0); err == nil {
		t.Error("out-of-range cell should fail")
	}
}

func TestSpectrumCSV(t *testing.T) {
	sp, err := SpectrumAt(testCube(t), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	data, err := SpectrumCSV(sp)
	if err != nil {
		t.Fatalf("SpectrumCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 6 { // header + 5 planes
		t.Errorf("got %d lines, want 6", len(lines))
	}
	if lines[0] != "velocity_kms,flux" {
		t.Errorf("header = %q", lines[0])
	}
}

func TestSpectrumPNG(t *testing.T) {
	sp, err := SpectrumAt(testCube(t), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	data, err := SpectrumPNG(sp)
	if err != nil {
		t.Fatalf("SpectrumPNG: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("output is not valid PNG: %v", err)
	}
}

func TestWriteSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iso.stl")
	if err := WriteSTLAtFraction(testCube(t), 0.5, path); err != nil {
		t.Fatalf("WriteSTLAtFraction: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("STL file is empty")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct{ in, want string }{
		{"NGC 253", "NGC_253"},
		{"  a/b\\c  ", "a_b_c"},
		{"___", ""},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
