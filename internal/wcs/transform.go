// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package wcs

import (
	"log"
	"math"

	"github.com/jeranaias/cubetui/internal/cube"
)

// edgeSlack tolerates cursor positions reported a hair outside the panel
// by rounding error. Anything further out is a genuine out-of-panel query.
const edgeSlack = 1e-6

// PanelExtent is the device-space rectangle a slice was drawn into, as
// reported by the render surface. Device y grows downward.
type PanelExtent struct {
	X0     float64 // left device edge
	Y0     float64 // top device edge
	Width  float64
	Height float64
}

// Valid reports whether the extent can anchor a coordinate mapping.
func (e PanelExtent) Valid() bool {
	return e.Width > 0 && e.Height > 0
}

// SkyLocation is a frame-agnostic equatorial position at the cube's
// reference epoch, in radians.
type SkyLocation struct {
	RA  float64
	Dec float64
}

// CursorQuery is the transient result of resolving one cursor position.
// The zero value is the defined empty readout for out-of-panel queries.
type CursorQuery struct {
	InPanel bool

	// PhysX and PhysY are the physical offsets in radians.
	PhysX float64
	PhysY float64

	// Equatorial is the unconverted sky location.
	Equatorial SkyLocation

	// Display is the position expressed in the active display frame.
	Display Position

	// Flux is the sample under the cursor, valid only when HasFlux is set.
	// The cursor can sit inside the panel yet outside the data window when
	// the view is zoomed past the slice edge.
	Flux    float64
	HasFlux bool
}

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline converts cursor positions for one cube. The only mutable piece
// is the active display frame; everything else derives from cube metadata
// fixed at construction.
type Pipeline struct {
	meta  cube.Metadata
	frame Frame
	logf  func(format string, args ...any)
}

// NewPipeline builds a pipeline over the given cube metadata. The display
// frame starts equatorial. An unset reference epoch is treated as J2000.
func NewPipeline(meta cube.Metadata) *Pipeline {
	if meta.Epoch == 0 {
		meta.Epoch = 2000
	}
	return &Pipeline{
		meta:  meta,
		frame: FrameEquatorial,
		logf:  log.Printf,
	}
}

// Frame returns the active display frame.
func (p *Pipeline) Frame() Frame { return p.frame }

// SetFrame switches the display frame used for readouts.
func (p *Pipeline) SetFrame(f Frame) { p.frame = f }

// SetLogf redirects conversion-failure logging. A nil sink discards.
func (p *Pipeline) SetLogf(logf func(format string, args ...any)) {
	p.logf = logf
}

func (p *Pipeline) logFailure(format string, args ...any) {
	if p.logf != nil {
		p.logf(format, args...)
	}
}

// DeviceToPhysical maps a device point within ext onto the physical
// window (xb, yb). Inverted bound pairs are normalized before
// interpolating, and the device fraction is clamped into [0,1] so edge
// rounding error never produces NaN or extrapolated positions. Points
// beyond the panel (past rounding slack) report inside=false.
func (p *Pipeline) DeviceToPhysical(dx, dy float64, ext PanelExtent, xb, yb cube.Bounds) (x, y float64, inside bool) {
	if !ext.Valid() {
		return 0, 0, false
	}
	fx := (dx - ext.X0) / ext.Width
	fy := (dy - ext.Y0) / ext.Height
	if fx < -edgeSlack || fx > 1+edgeSlack || fy < -edgeSlack || fy > 1+edgeSlack {
		return 0, 0, false
	}
	// Device y grows downward; the high physical bound is drawn at the top.
	return xb.At(fx), yb.At(1 - fy), true
}

// PhysicalToDevice inverts DeviceToPhysical for overlay drawing: it maps
// a physical position within the window (xb, yb) onto device coordinates
// in ext.
func (p *Pipeline) PhysicalToDevice(x, y float64, ext PanelExtent, xb, yb cube.Bounds) (dx, dy float64) {
	dx = ext.X0 + xb.Frac(x)*ext.Width
	dy = ext.Y0 + (1-yb.Frac(y))*ext.Height
	return dx, dy
}

// Scale returns the device pixels per physical radian for the current
// window, used to size the beam overlay with zoom.
func (p *Pipeline) Scale(ext PanelExtent, xb, yb cube.Bounds) (sx, sy float64) {
	if w := xb.Width(); w > 0 {
		sx = ext.Width / w
	}
	if h := yb.Width(); h > 0 {
		sy = ext.Height / h
	}
	return sx, sy
}

// PhysicalToSky lifts a physical spatial offset onto the sky around the
// map center. The x offset is along right ascension and already carries
// the cos(dec) projection scaling; y is along declination.
func (p *Pipeline) PhysicalToSky(x, y float64) SkyLocation {
	dec := p.meta.CenterDec + y
	if dec > math.Pi/2 {
		dec = math.Pi / 2
	}
	if dec < -math.Pi/2 {
		dec = -math.Pi / 2
	}
	ra := p.meta.CenterRA
	if cos := math.Cos(p.meta.CenterDec); cos != 0 {
		ra += x / cos
	}
	ra = math.Mod(ra, 2*math.Pi)
	if ra < 0 {
		ra += 2 * math.Pi
	}
	return SkyLocation{RA: ra, Dec: dec}
}

// Resolve expresses an equatorial location in the active display frame.
// Offset and grid frames bypass sky conversion and report the physical
// offset or raw cell index directly. Conversion failures fall back to the
// equatorial location.
func (p *Pipeline) Resolve(x, y float64, eq SkyLocation, s *cube.Slice2D) Position {
	switch p.frame {
	case FrameOffset:
		return Position{Frame: FrameOffset, Lon: x, Lat: y}
	case FrameGrid:
		var row, col int
		if s != nil {
			if r, c, ok := s.CellAt(x, y); ok {
				row, col = r, c
			}
		}
		return Position{Frame: FrameGrid, Lon: float64(col), Lat: float64(row)}
	case FrameEquatorial:
		return Position{Frame: FrameEquatorial, Lon: eq.RA, Lat: eq.Dec}
	case FrameEcliptic, FrameGalactic:
		pos, err := p.convert(eq)
		if err != nil {
			p.logFailure("wcs: %s conversion failed, keeping equatorial: %v", p.frame, err)
			return Position{Frame: FrameEquatorial, Lon: eq.RA, Lat: eq.Dec}
		}
		return pos
	default:
		return Position{Frame: FrameEquatorial, Lon: eq.RA, Lat: eq.Dec}
	}
}

// Query resolves a cursor device position into the full readout. The
// window (xw, yw) is the physical range currently shown in the panel,
// which equals the slice bounds unless the view is zoomed.
func (p *Pipeline) Query(dx, dy float64, ext PanelExtent, xw, yw cube.Bounds, s *cube.Slice2D) CursorQuery {
	x, y, inside := p.DeviceToPhysical(dx, dy, ext, xw, yw)
	if !inside {
		return CursorQuery{}
	}
	q := CursorQuery{InPanel: true, PhysX: x, PhysY: y}
	if s != nil {
		if v, ok := s.ValueAtPhysical(x, y); ok {
			q.Flux = v
			q.HasFlux = true
		}
	}
	q.Equatorial = p.PhysicalToSky(x, y)
	q.Display = p.Resolve(x, y, q.Equatorial, s)
	return q
}
