// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cube

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrZeroChannelWidth is returned when integration is requested on a cube
// whose channel width is zero. The moment-0 scale factor would collapse
// every cell to zero, which always indicates broken loader metadata.
var ErrZeroChannelWidth = errors.New("cube channel width is zero")

// Integrated marks a Slice2D holding the velocity-integrated map rather
// than a single spectral plane.
const Integrated = -1

// =============================================================================
// SLICE2D
// =============================================================================

// Slice2D is a renderable 2D grid cut from a cube: either one spectral
// plane or the velocity-integrated (moment-0) map. A fresh instance is
// produced on every recompute; instances are never mutated after creation.
type Slice2D struct {
	// Data is row-major intensity: Data[r][c] holds the cube sample at
	// (col=c, row=r) of the source plane.
	Data [][]float64

	Rows int
	Cols int

	// XBounds and YBounds are copied from the cube's spatial bounds so the
	// slice can be positioned without consulting the cube again.
	XBounds Bounds
	YBounds Bounds

	// Plane is the source spectral index, or Integrated for a moment map.
	Plane int

	// Velocity is the velocity of the source plane in km/s. Zero for
	// integrated maps.
	Velocity float64

	// Levels is the contour level snapshot applied at render time.
	// Nil means no contours drawn.
	Levels []float64

	// Min and Max cache the intensity extremes for color scaling.
	Min float64
	Max float64
}

// Integrated reports whether the slice holds a moment-0 map.
func (s *Slice2D) Integrated() bool {
	return s.Plane == Integrated
}

// At returns the intensity at grid cell (row, col).
func (s *Slice2D) At(row, col int) float64 {
	return s.Data[row][col]
}

// Contains reports whether the physical position (x, y) lies within the
// slice bounds.
func (s *Slice2D) Contains(x, y float64) bool {
	return s.XBounds.Contains(x) && s.YBounds.Contains(y)
}

// CellAt maps a physical position onto the grid cell covering it, or
// false when the position lies outside the slice bounds.
func (s *Slice2D) CellAt(x, y float64) (row, col int, ok bool) {
	if !s.Contains(x, y) {
		return 0, 0, false
	}
	col = cellIndex(s.XBounds, x, s.Cols)
	row = cellIndex(s.YBounds, y, s.Rows)
	return row, col, true
}

// ValueAtPhysical returns the intensity of the grid cell covering the
// physical position (x, y), or false when the position lies outside the
// slice bounds.
func (s *Slice2D) ValueAtPhysical(x, y float64) (float64, bool) {
	row, col, ok := s.CellAt(x, y)
	if !ok {
		return 0, false
	}
	return s.Data[row][col], true
}

// cellIndex maps a physical position within bounds onto a grid index in
// [0, n-1].
func cellIndex(b Bounds, v float64, n int) int {
	i := int(b.Frac(v) * float64(n))
	if i > n-1 {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// =============================================================================
// SLICING
// =============================================================================

// validate rejects cubes that cannot produce a slice. New already enforces
// this, so the check only trips on zero-value cubes bypassing New.
func validate(c *Cube) error {
	if c == nil || c.cols < 1 || c.rows < 1 || c.planes < 1 {
		e := &InvalidCubeError{Reason: "zero-length axis"}
		if c != nil {
			e.Cols, e.Rows, e.Planes, e.Samples = c.cols, c.rows, c.planes, len(c.data)
		}
		return e
	}
	return nil
}

// Slice extracts the 2D grid at the given spectral plane. The plane index
// is clamped into [0, planes-1] and the spatial bounds are copied from the
// cube. Pure: the cube is not modified.
func Slice(c *Cube, plane int) (*Slice2D, error) {
	if err := validate(c); err != nil {
		return nil, err
	}
	if plane < 0 {
		plane = 0
	}
	if plane > c.planes-1 {
		plane = c.planes - 1
	}

	block := c.planeBlock(plane)
	s := newSlice(c, block)
	s.Plane = plane
	s.Velocity = c.VelocityOfPlane(plane)
	return s, nil
}

// Integrate computes the moment-0 map: for every spatial cell the sum of
// its samples over all spectral planes, scaled by the absolute channel
// width. The cube's own channel width is used; its sign is a bookkeeping
// artifact of axis direction and is discarded. A single-plane cube
// degenerates to a scaled copy of that plane.
func Integrate(c *Cube) (*Slice2D, error) {
	if err := validate(c); err != nil {
		return nil, err
	}
	if c.Meta.ChannelWidth == 0 {
		return nil, ErrZeroChannelWidth
	}

	acc := make([]float64, c.cols*c.rows)
	for p := 0; p < c.planes; p++ {
		floats.Add(acc, c.planeBlock(p))
	}
	floats.Scale(math.Abs(c.Meta.ChannelWidth), acc)

	s := newSlice(c, acc)
	s.Plane = Integrated
	return s, nil
}

// newSlice shapes a column-major plane block into a row-major Slice2D and
// caches its intensity extremes.
func newSlice(c *Cube, block []float64) *Slice2D {
	data := make([][]float64, c.rows)
	for r := 0; r < c.rows; r++ {
		data[r] = make([]float64, c.cols)
		for col := 0; col < c.cols; col++ {
			data[r][col] = block[col*c.rows+r]
		}
	}
	return &Slice2D{
		Data:    data,
		Rows:    c.rows,
		Cols:    c.cols,
		XBounds: c.Meta.XBounds,
		YBounds: c.Meta.YBounds,
		Min:     floats.Min(block),
		Max:     floats.Max(block),
	}
}
