// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cube

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// =============================================================================
// ERRORS
// =============================================================================

// InvalidCubeError reports cube geometry that cannot produce a slice:
// a zero-length axis or a sample buffer that does not match the axis counts.
type InvalidCubeError struct {
	Cols    int
	Rows    int
	Planes  int
	Samples int
	Reason  string
}

func (e *InvalidCubeError) Error() string {
	return fmt.Sprintf("invalid cube: %s (%dx%dx%d, %d samples)",
		e.Reason, e.Cols, e.Rows, e.Planes, e.Samples)
}

// =============================================================================
// AXIS BOUNDS
// =============================================================================

// Bounds is the physical extent of one cube axis. Start may exceed End when
// the axis runs in the negative direction; Lo and Hi return the normalized
// pair for range arithmetic.
type Bounds struct {
	Start float64
	End   float64
}

// Lo returns the smaller of the two bound values.
func (b Bounds) Lo() float64 {
	return math.Min(b.Start, b.End)
}

// Hi returns the larger of the two bound values.
func (b Bounds) Hi() float64 {
	return math.Max(b.Start, b.End)
}

// Inverted reports whether the bounds run high-to-low.
func (b Bounds) Inverted() bool {
	return b.Start > b.End
}

// Span returns the signed extent End-Start.
func (b Bounds) Span() float64 {
	return b.End - b.Start
}

// Width returns the absolute extent of the bounds.
func (b Bounds) Width() float64 {
	return math.Abs(b.End - b.Start)
}

// Mid returns the midpoint of the bounds. The midpoint is direction
// independent, so inverted pairs yield the same value.
func (b Bounds) Mid() float64 {
	return (b.Start + b.End) / 2
}

// Contains reports whether v lies within the normalized bounds, inclusive.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lo() && v <= b.Hi()
}

// Clamp limits v to the normalized bounds.
func (b Bounds) Clamp(v float64) float64 {
	if v < b.Lo() {
		return b.Lo()
	}
	if v > b.Hi() {
		return b.Hi()
	}
	return v
}

// Frac returns the position of v within the normalized bounds as a value
// in [0,1]. Degenerate bounds (zero width) yield 0.
func (b Bounds) Frac(v float64) float64 {
	lo, hi := b.Lo(), b.Hi()
	if hi == lo {
		return 0
	}
	f := (v - lo) / (hi - lo)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// At interpolates within the normalized bounds: frac 0 yields Lo, frac 1
// yields Hi. The fraction is clamped into [0,1] so rounding error at the
// panel edge never extrapolates past the bounds.
func (b Bounds) At(frac float64) float64 {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	lo, hi := b.Lo(), b.Hi()
	return lo + (hi-lo)*frac
}

// =============================================================================
// BEAM
// =============================================================================

// Beam is the instrument point-spread ellipse drawn as an overlay marker
// on the slice view.
type Beam struct {
	Major         float64 // major axis, radians
	Minor         float64 // minor axis, radians
	PositionAngle float64 // radians east of north
}

// Defined reports whether the beam carries usable ellipse parameters.
func (b Beam) Defined() bool {
	return b.Major > 0 && b.Minor > 0
}

// =============================================================================
// METADATA
// =============================================================================

// Metadata holds the physical interpretation of a cube's axes. It is set
// by the loader at construction time and read-only afterwards.
type Metadata struct {
	// XBounds and YBounds are the spatial extents in radians, expressed as
	// angular offsets from the map center. VBounds is the spectral extent
	// in km/s. Any pair may be inverted (Start > End).
	XBounds Bounds
	YBounds Bounds
	VBounds Bounds

	// ChannelWidth is the signed spectral channel spacing in km/s. The sign
	// tracks the axis direction and carries no physical meaning.
	ChannelWidth float64

	// CenterRA and CenterDec locate the map center on the sky, in radians,
	// at the reference epoch.
	CenterRA  float64
	CenterDec float64

	// Epoch is the reference equinox in Julian years (2000.0 for J2000).
	Epoch float64

	Beam     Beam
	FluxUnit string // e.g. "K" or "Jy/beam"
	Source   string // object designation from the file header

	// Reduced marks a cube that was resampled to a coarser panel
	// resolution by the loader.
	Reduced bool
}

// =============================================================================
// CUBE
// =============================================================================

// Cube is an immutable 3D array of intensity samples. Samples are stored
// flat in plane-major order: the value at (col, row, plane) lives at index
// ((plane*cols)+col)*rows + row, so each spectral plane occupies one
// contiguous block.
type Cube struct {
	Meta Metadata

	cols   int
	rows   int
	planes int
	data   []float64
}

// New constructs a Cube from a flat sample buffer laid out as
// ((plane*cols)+col)*rows + row. It returns an InvalidCubeError when any
// axis count is below one or the buffer length does not match the counts.
// The buffer is retained, not copied; callers hand over ownership.
func New(samples []float64, cols, rows, planes int, meta Metadata) (*Cube, error) {
	if cols < 1 || rows < 1 || planes < 1 {
		return nil, &InvalidCubeError{
			Cols: cols, Rows: rows, Planes: planes,
			Samples: len(samples),
			Reason:  "zero-length axis",
		}
	}
	if len(samples) != cols*rows*planes {
		return nil, &InvalidCubeError{
			Cols: cols, Rows: rows, Planes: planes,
			Samples: len(samples),
			Reason:  "sample count does not match axis counts",
		}
	}
	return &Cube{
		Meta:   meta,
		cols:   cols,
		rows:   rows,
		planes: planes,
		data:   samples,
	}, nil
}

// Cols returns the sample count along the first spatial axis.
func (c *Cube) Cols() int { return c.cols }

// Rows returns the sample count along the second spatial axis.
func (c *Cube) Rows() int { return c.rows }

// Planes returns the sample count along the spectral axis.
func (c *Cube) Planes() int { return c.planes }

// Len returns the total number of samples.
func (c *Cube) Len() int { return len(c.data) }

// Value returns the sample at (col, row, plane). Indices must be in range;
// out-of-range indices panic like any slice access.
func (c *Cube) Value(col, row, plane int) float64 {
	return c.data[((plane*c.cols)+col)*c.rows+row]
}

// planeBlock returns the contiguous sample block for one spectral plane,
// ordered column-major (column outer, row inner).
func (c *Cube) planeBlock(plane int) []float64 {
	n := c.cols * c.rows
	return c.data[plane*n : (plane+1)*n]
}

// Spectrum copies the spectral profile at the given spatial cell into a
// fresh slice, one value per plane.
func (c *Cube) Spectrum(col, row int) []float64 {
	out := make([]float64, c.planes)
	stride := c.cols * c.rows
	base := col*c.rows + row
	for p := 0; p < c.planes; p++ {
		out[p] = c.data[base+p*stride]
	}
	return out
}

// MinMax returns the smallest and largest sample in the cube.
func (c *Cube) MinMax() (min, max float64) {
	return floats.Min(c.data), floats.Max(c.data)
}

// VelocityOfPlane returns the velocity of the given spectral plane in km/s,
// interpolated linearly between the spectral bounds. A single-plane cube
// reports its start velocity for every index.
func (c *Cube) VelocityOfPlane(plane int) float64 {
	if c.planes == 1 {
		return c.Meta.VBounds.Start
	}
	v0, vf := c.Meta.VBounds.Start, c.Meta.VBounds.End
	return v0 + float64(plane)*(vf-v0)/float64(c.planes-1)
}

// PlaneForVelocity maps a requested velocity onto the nearest spectral
// plane index using step = (planes-1)/(vf-v0) and plane = round(step*(v-v0)),
// clamped into [0, planes-1]. Works for inverted spectral axes since the
// step sign cancels the offset sign.
func (c *Cube) PlaneForVelocity(v float64) int {
	v0, vf := c.Meta.VBounds.Start, c.Meta.VBounds.End
	if c.planes == 1 || vf == v0 {
		return 0
	}
	step := float64(c.planes-1) / (vf - v0)
	plane := int(math.Round(step * (v - v0)))
	if plane < 0 {
		plane = 0
	}
	if plane > c.planes-1 {
		plane = c.planes - 1
	}
	return plane
}

// =============================================================================
// 3D FLATTENING
// =============================================================================

// Voxel is one cube sample positioned in recentered index coordinates for
// the 3D scatter surface.
type Voxel struct {
	X float64 // column index minus cols/2
	Y float64 // row index minus rows/2
	Z float64 // plane index minus planes/2
	V float64 // sample value
}

// Voxels flattens the cube for 3D rendering. The slice is ordered so that
// element i holds the sample at flat index i (row fastest, then column,
// then plane), and coordinates are recentered on the cube middle: the
// first voxel sits at (-cols/2, -rows/2, -planes/2).
func (c *Cube) Voxels() []Voxel {
	out := make([]Voxel, 0, len(c.data))
	cx := float64(c.cols) / 2
	cy := float64(c.rows) / 2
	cz := float64(c.planes) / 2
	i := 0
	for p := 0; p < c.planes; p++ {
		for col := 0; col < c.cols; col++ {
			for row := 0; row < c.rows; row++ {
				out = append(out, Voxel{
					X: float64(col) - cx,
					Y: float64(row) - cy,
					Z: float64(p) - cz,
					V: c.data[i],
				})
				i++
			}
		}
	}
	return out
}
