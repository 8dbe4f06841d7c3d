// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cube

import (
	"errors"
	"math"
	"testing"
)

// =============================================================================
// SLICE TESTS
// =============================================================================

func TestSlice_BoundsAndTransposition(t *testing.T) {
	meta := Metadata{
		XBounds: Bounds{Start: 0.01, End: -0.01}, // inverted, stays verbatim
		YBounds: Bounds{Start: -0.02, End: 0.02},
		VBounds: Bounds{Start: -10, End: 10},
	}
	c := testCube(t, 3, 4, 5, meta)

	for plane := 0; plane < c.Planes(); plane++ {
		s, err := Slice(c, plane)
		if err != nil {
			t.Fatalf("Slice(%d) failed: %v", plane, err)
		}
		if s.XBounds != meta.XBounds || s.YBounds != meta.YBounds {
			t.Fatalf("plane %d: bounds not copied from cube", plane)
		}
		if s.Rows != 4 || s.Cols != 3 {
			t.Fatalf("plane %d: grid %dx%d, want 4x3", plane, s.Rows, s.Cols)
		}
		// Cell [r][c] must equal the cube sample at (col=c, row=r).
		for r := 0; r < s.Rows; r++ {
			for col := 0; col < s.Cols; col++ {
				if got, want := s.At(r, col), c.Value(col, r, plane); got != want {
					t.Fatalf("plane %d cell [%d][%d] = %v, want %v", plane, r, col, got, want)
				}
			}
		}
	}
}

func TestSlice_ClampsPlane(t *testing.T) {
	c := testCube(t, 3, 4, 5, Metadata{})

	tests := []struct {
		name      string
		plane     int
		wantPlane int
	}{
		{"below range", -5, 0},
		{"first", 0, 0},
		{"last", 4, 4},
		{"above range", 100, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Slice(c, tt.plane)
			if err != nil {
				t.Fatalf("Slice failed: %v", err)
			}
			if s.Plane != tt.wantPlane {
				t.Errorf("Plane = %d, want %d", s.Plane, tt.wantPlane)
			}
			if want := c.Value(0, 0, tt.wantPlane); s.At(0, 0) != want {
				t.Errorf("cell [0][0] = %v, want %v", s.At(0, 0), want)
			}
		})
	}
}

func TestSlice_VelocityReported(t *testing.T) {
	meta := Metadata{VBounds: Bounds{Start: -10, End: 10}}
	c := testCube(t, 2, 2, 21, meta)

	s, err := Slice(c, 13)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	if s.Velocity != 3 {
		t.Errorf("Velocity = %v, want 3", s.Velocity)
	}
	if s.Integrated() {
		t.Error("single-plane slice reported as integrated")
	}
}

func TestSlice_InvalidCube(t *testing.T) {
	var ice *InvalidCubeError

	if _, err := Slice(nil, 0); !errors.As(err, &ice) {
		t.Errorf("Slice(nil) error = %v, want InvalidCubeError", err)
	}
	if _, err := Slice(&Cube{}, 0); !errors.As(err, &ice) {
		t.Errorf("Slice(zero cube) error = %v, want InvalidCubeError", err)
	}
	if _, err := Integrate(&Cube{}); !errors.As(err, &ice) {
		t.Errorf("Integrate(zero cube) error = %v, want InvalidCubeError", err)
	}
}

// =============================================================================
// INTEGRATION TESTS
// =============================================================================

func TestIntegrate_MomentZero(t *testing.T) {
	// Negative channel width: the moment map must use its absolute value.
	meta := Metadata{
		ChannelWidth: -0.5,
		VBounds:      Bounds{Start: 10, End: -10},
	}
	c := testCube(t, 3, 4, 5, meta)

	mom, err := Integrate(c)
	if err != nil {
		t.Fatalf("Integrate failed: %v", err)
	}
	if !mom.Integrated() {
		t.Fatal("moment map not marked integrated")
	}

	// Cell-by-cell the moment map equals the per-plane slice sum scaled
	// by |channelWidth|.
	for r := 0; r < mom.Rows; r++ {
		for col := 0; col < mom.Cols; col++ {
			var sum float64
			for p := 0; p < c.Planes(); p++ {
				s, err := Slice(c, p)
				if err != nil {
					t.Fatalf("Slice(%d) failed: %v", p, err)
				}
				sum += s.At(r, col)
			}
			want := sum * 0.5
			if got := mom.At(r, col); math.Abs(got-want) > 1e-9 {
				t.Fatalf("cell [%d][%d] = %v, want %v", r, col, got, want)
			}
		}
	}
}

func TestIntegrate_SinglePlane(t *testing.T) {
	meta := Metadata{ChannelWidth: 2.5}
	c := testCube(t, 3, 4, 1, meta)

	mom, err := Integrate(c)
	if err != nil {
		t.Fatalf("Integrate failed: %v", err)
	}
	s, err := Slice(c, 0)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}

	// Degenerates to a scaled copy of the only plane.
	for r := 0; r < s.Rows; r++ {
		for col := 0; col < s.Cols; col++ {
			want := s.At(r, col) * 2.5
			if got := mom.At(r, col); math.Abs(got-want) > 1e-9 {
				t.Fatalf("cell [%d][%d] = %v, want %v", r, col, got, want)
			}
		}
	}
}

func TestIntegrate_ZeroChannelWidth(t *testing.T) {
	c := testCube(t, 2, 2, 3, Metadata{})

	_, err := Integrate(c)
	if !errors.Is(err, ErrZeroChannelWidth) {
		t.Errorf("error = %v, want ErrZeroChannelWidth", err)
	}
}

// =============================================================================
// PHYSICAL LOOKUP TESTS
// =============================================================================

func TestSlice2D_ValueAtPhysical(t *testing.T) {
	meta := Metadata{
		XBounds: Bounds{Start: 0, End: 3},
		YBounds: Bounds{Start: 0, End: 4},
	}
	c := testCube(t, 3, 4, 1, meta)
	s, err := Slice(c, 0)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}

	tests := []struct {
		name   string
		x, y   float64
		want   float64
		inside bool
	}{
		{"first cell", 0.1, 0.1, 0, true},
		{"interior cell", 1.5, 2.5, 1*100 + 2, true},
		{"far corner", 2.9, 3.9, 2*100 + 3, true},
		{"upper edge maps to last cell", 3, 4, 2*100 + 3, true},
		{"outside x", 3.5, 1, 0, false},
		{"outside y", 1, -0.5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.ValueAtPhysical(tt.x, tt.y)
			if ok != tt.inside {
				t.Fatalf("inside = %v, want %v", ok, tt.inside)
			}
			if tt.inside && got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSlice2D_MinMaxCached(t *testing.T) {
	samples := []float64{5, -2, 9, 1}
	c, err := New(samples, 2, 2, 1, Metadata{ChannelWidth: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	s, err := Slice(c, 0)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	if s.Min != -2 || s.Max != 9 {
		t.Errorf("Min/Max = %v/%v, want -2/9", s.Min, s.Max)
	}
}
