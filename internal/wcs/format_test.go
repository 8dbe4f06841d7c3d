// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package wcs

import (
	"math"
	"strings"
	"testing"
)

// =============================================================================
// ANGLE FORMATTING TESTS
// =============================================================================

func TestFormatRA(t *testing.T) {
	tests := []struct {
		name string
		rad  float64
		want string
	}{
		{"zero", 0, "00h00m00.00s"},
		{"twelve hours", math.Pi, "12h00m00.00s"},
		{"six hours", math.Pi / 2, "06h00m00.00s"},
		{"carry wraps to zero", 2*math.Pi - 1e-9, "00h00m00.00s"},
		{"negative wraps", -math.Pi / 2, "18h00m00.00s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatRA(tt.rad); got != tt.want {
				t.Errorf("FormatRA(%v) = %q, want %q", tt.rad, got, tt.want)
			}
		})
	}
}

func TestFormatDec(t *testing.T) {
	tests := []struct {
		name string
		rad  float64
		want string
	}{
		{"zero", 0, "+00°00'00.0\""},
		{"north pole", math.Pi / 2, "+90°00'00.0\""},
		{"negative", -math.Pi / 4, "-45°00'00.0\""},
		{"arcminute carry", -(5 + 59.0/60 + 59.99/3600) * degree, "-06°00'00.0\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDec(tt.rad); got != tt.want {
				t.Errorf("FormatDec(%v) = %q, want %q", tt.rad, got, tt.want)
			}
		})
	}
}

func TestFormatDegAndArcsec(t *testing.T) {
	if got := FormatDeg(math.Pi); got != "180.000°" {
		t.Errorf("FormatDeg(pi) = %q", got)
	}
	if got := FormatDegSigned(-math.Pi / 2); got != "-90.000°" {
		t.Errorf("FormatDegSigned(-pi/2) = %q", got)
	}
	if got := FormatArcsec(degree / 3600 * 12.5); got != "+12.5\"" {
		t.Errorf("FormatArcsec = %q", got)
	}
	if got := FormatArcsec(-degree / 3600 * 0.04); got != "-0.0\"" && got != "+0.0\"" {
		t.Errorf("FormatArcsec near zero = %q", got)
	}
}

// =============================================================================
// POSITION FORMAT TESTS
// =============================================================================

func TestPosition_Format(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		want string
	}{
		{
			"equatorial",
			Position{Frame: FrameEquatorial, Lon: math.Pi, Lat: -math.Pi / 4},
			"α 12h00m00.00s  δ -45°00'00.0\"",
		},
		{
			"ecliptic",
			Position{Frame: FrameEcliptic, Lon: math.Pi / 2, Lat: math.Pi / 6},
			"λ 90.000°  β +30.000°",
		},
		{
			"galactic",
			Position{Frame: FrameGalactic, Lon: math.Pi, Lat: 0},
			"l 180.000°  b +0.000°",
		},
		{
			"offset",
			Position{Frame: FrameOffset, Lon: degree / 3600 * 10, Lat: -degree / 3600 * 5},
			"Δx +10.0\"  Δy -5.0\"",
		},
		{
			"grid",
			Position{Frame: FrameGrid, Lon: 12, Lat: 34},
			"col 12  row 34",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.Format(); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFrame_String(t *testing.T) {
	for _, f := range Frames() {
		if s := f.String(); s == "" || strings.HasPrefix(s, "frame(") {
			t.Errorf("frame %d has no name", int(f))
		}
	}
	if s := Frame(99).String(); !strings.HasPrefix(s, "frame(") {
		t.Errorf("unknown frame string = %q", s)
	}
}
