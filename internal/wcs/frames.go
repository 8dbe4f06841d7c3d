// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package wcs

import (
	"fmt"
	"math"
	"strings"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/precess"
	"github.com/soniakeys/unit"
)

// UnsupportedFrameError reports an unknown coordinate frame selector.
type UnsupportedFrameError struct {
	Selector string
}

func (e *UnsupportedFrameError) Error() string {
	return fmt.Sprintf("unsupported coordinate frame %q", e.Selector)
}

// Frame selects the coordinate frame used for the position readout.
type Frame int

const (
	// FrameEquatorial reports right ascension and declination.
	FrameEquatorial Frame = iota
	// FrameEcliptic reports ecliptic longitude and latitude of date.
	FrameEcliptic
	// FrameGalactic reports galactic longitude and latitude.
	FrameGalactic
	// FrameOffset reports the angular offset from the map center.
	FrameOffset
	// FrameGrid reports the raw cell index under the cursor.
	FrameGrid
)

var frameNames = map[Frame]string{
	FrameEquatorial: "equatorial",
	FrameEcliptic:   "ecliptic",
	FrameGalactic:   "galactic",
	FrameOffset:     "offset",
	FrameGrid:       "grid",
}

func (f Frame) String() string {
	if name, ok := frameNames[f]; ok {
		return name
	}
	return fmt.Sprintf("frame(%d)", int(f))
}

// Frames lists the supported frames in display order.
func Frames() []Frame {
	return []Frame{FrameEquatorial, FrameEcliptic, FrameGalactic, FrameOffset, FrameGrid}
}

// Next cycles to the following frame in display order.
func (f Frame) Next() Frame {
	all := Frames()
	for i, v := range all {
		if v == f {
			return all[(i+1)%len(all)]
		}
	}
	return FrameEquatorial
}

// ParseFrame maps a frame selector name onto a Frame. Matching is
// case-insensitive and accepts the common short forms.
func ParseFrame(name string) (Frame, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "equatorial", "eq", "radec":
		return FrameEquatorial, nil
	case "ecliptic", "ecl":
		return FrameEcliptic, nil
	case "galactic", "gal":
		return FrameGalactic, nil
	case "offset", "off":
		return FrameOffset, nil
	case "grid", "pixel", "cell":
		return FrameGrid, nil
	default:
		return FrameEquatorial, &UnsupportedFrameError{Selector: name}
	}
}

// =============================================================================
// EPOCH HANDLING
// =============================================================================

// referenceJD computes the Julian date anchoring frame conversions for a
// reference epoch given in years. An integer calendar year anchors at
// January 1.5 of that year; fractional epochs count Julian years from
// J2000.
func referenceJD(epoch float64) float64 {
	if epoch == math.Trunc(epoch) && epoch > 0 {
		return julian.CalendarGregorianToJD(int(epoch), 1, 1.5)
	}
	return base.J2000 + (epoch-2000)*base.JulianYear
}

// julianYearOf converts a Julian date to the Julian epoch year used by
// the precession routines.
func julianYearOf(jd float64) float64 {
	return 2000 + (jd-base.J2000)/base.JulianYear
}

// =============================================================================
// FRAME CONVERSION
// =============================================================================

// Conversion seams, swappable for fault injection in tests.
var (
	eqToEcliptic = func(eq *coord.Equatorial, jd float64) *coord.Ecliptic {
		obl := coord.NewObliquity(nutation.MeanObliquity(jd))
		return new(coord.Ecliptic).EqToEcl(eq, obl)
	}
	eqToGalactic = func(eq *coord.Equatorial, fromYear float64) *coord.Galactic {
		// The galactic pole rotation is defined against B1950, so the
		// position is precessed there first.
		eq1950 := precess.Position(eq, &coord.Equatorial{}, fromYear, 1950, unit.HourAngle(0), unit.Angle(0))
		return new(coord.Galactic).EqToGal(eq1950)
	}
)

// convert runs the astronomical conversion for the active frame. Panics
// and non-finite results from the geometry routines are captured as
// errors so the caller can degrade to the equatorial location.
func (p *Pipeline) convert(sky SkyLocation) (pos Position, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("conversion panic: %v", r)
		}
	}()

	eq := &coord.Equatorial{RA: unit.RA(sky.RA), Dec: unit.Angle(sky.Dec)}
	jd := referenceJD(p.meta.Epoch)

	var lon, lat float64
	switch p.frame {
	case FrameEcliptic:
		ecl := eqToEcliptic(eq, jd)
		lon, lat = float64(ecl.Lon), float64(ecl.Lat)
	case FrameGalactic:
		gal := eqToGalactic(eq, julianYearOf(jd))
		lon, lat = float64(gal.Lon), float64(gal.Lat)
	default:
		return Position{}, &UnsupportedFrameError{Selector: p.frame.String()}
	}

	if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
		return Position{}, fmt.Errorf("non-finite %s result", p.frame)
	}
	lon = math.Mod(lon, 2*math.Pi)
	if lon < 0 {
		lon += 2 * math.Pi
	}
	return Position{Frame: p.frame, Lon: lon, Lat: lat}, nil
}

// ReferenceJD exposes the epoch rule for metadata displays.
func (p *Pipeline) ReferenceJD() float64 {
	return referenceJD(p.meta.Epoch)
}
