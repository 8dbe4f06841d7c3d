// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package wcs

import (
	"fmt"
	"math"
)

// Position is a readout position expressed in one display frame. Lon and
// Lat hold radians for the sky and offset frames and cell indices for the
// grid frame.
type Position struct {
	Frame Frame
	Lon   float64
	Lat   float64
}

// Format renders the position for the status readout in the notation
// conventional for its frame.
func (p Position) Format() string {
	switch p.Frame {
	case FrameEcliptic:
		return fmt.Sprintf("λ %s  β %s", FormatDeg(p.Lon), FormatDegSigned(p.Lat))
	case FrameGalactic:
		return fmt.Sprintf("l %s  b %s", FormatDeg(p.Lon), FormatDegSigned(p.Lat))
	case FrameOffset:
		return fmt.Sprintf("Δx %s  Δy %s", FormatArcsec(p.Lon), FormatArcsec(p.Lat))
	case FrameGrid:
		return fmt.Sprintf("col %d  row %d", int(p.Lon), int(p.Lat))
	default:
		return fmt.Sprintf("α %s  δ %s", FormatRA(p.Lon), FormatDec(p.Lat))
	}
}

// FormatRA renders a right ascension as hours, minutes, and seconds to
// two decimals. Rounding is done on whole centiseconds so a value just
// under 24h carries cleanly to 00h rather than printing 60s.
func FormatRA(rad float64) string {
	cs := int(math.Round(rad / (2 * math.Pi) * 86400 * 100))
	cs %= 8640000
	if cs < 0 {
		cs += 8640000
	}
	h := cs / 360000
	m := (cs / 6000) % 60
	s := cs % 6000
	return fmt.Sprintf("%02dh%02dm%02d.%02ds", h, m, s/100, s%100)
}

// FormatDec renders a declination as signed degrees, arcminutes, and
// arcseconds to one decimal, rounding on whole tenths of arcseconds.
func FormatDec(rad float64) string {
	sign := "+"
	if rad < 0 {
		sign = "-"
		rad = -rad
	}
	das := int(math.Round(rad * 180 / math.Pi * 36000))
	d := das / 36000
	m := (das / 600) % 60
	s := das % 600
	return fmt.Sprintf("%s%02d°%02d'%02d.%d\"", sign, d, m, s/10, s%10)
}

// FormatDeg renders an angle as unsigned decimal degrees.
func FormatDeg(rad float64) string {
	return fmt.Sprintf("%.3f°", rad*180/math.Pi)
}

// FormatDegSigned renders an angle as signed decimal degrees.
func FormatDegSigned(rad float64) string {
	return fmt.Sprintf("%+.3f°", rad*180/math.Pi)
}

// FormatArcsec renders a small angular offset as signed arcseconds.
func FormatArcsec(rad float64) string {
	return fmt.Sprintf("%+.1f\"", rad*180/math.Pi*3600)
}
