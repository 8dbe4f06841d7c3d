// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package loader

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/astrogo/fitsio"

	"github.com/jeranaias/cubetui/internal/cube"
)

func init() {
	Register(&FITSLoader{})
}

const degree = math.Pi / 180

// FITSLoader reads three-axis image HDUs: axis 1 and 2 are the spatial
// plane, axis 3 the spectral one. World coordinates become radian
// offsets from the reference pixel, with the reference value kept as
// the cube center.
type FITSLoader struct{}

// Extensions claims the conventional FITS suffixes.
func (l *FITSLoader) Extensions() []string {
	return []string{".fits", ".fit"}
}

// Load reads the file into a cube.
func (l *FITSLoader) Load(path string) (*cube.Cube, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	c, err := l.load(r, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadReader reads a FITS stream into a cube.
func (l *FITSLoader) LoadReader(r io.ReadSeeker) (*cube.Cube, error) {
	return l.load(r, "fits stream")
}

func (l *FITSLoader) load(r io.ReadSeeker, name string) (*cube.Cube, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("open fits: %w", err)
	}
	defer f.Close()

	img, err := firstCubeHDU(f)
	if err != nil {
		return nil, err
	}
	hdr := img.Header()
	axes := hdr.Axes()
	cols, rows, planes := axes[0], axes[1], axes[2]

	raw, err := readPixels(img, hdr.Bitpix(), cols*rows*planes)
	if err != nil {
		return nil, err
	}
	applyScaling(raw, hdr)
	samples := transposeFITS(raw, cols, rows, planes)
	logBlanked(name, sanitize(samples))

	c, err := cube.New(samples, cols, rows, planes, fitsMetadata(hdr, cols, rows, planes))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// firstCubeHDU returns the first image HDU with three populated axes.
func firstCubeHDU(f *fitsio.File) (fitsio.Image, error) {
	for _, hdu := range f.HDUs() {
		img, ok := hdu.(fitsio.Image)
		if !ok {
			continue
		}
		axes := img.Header().Axes()
		if len(axes) != 3 {
			continue
		}
		if axes[0] > 0 && axes[1] > 0 && axes[2] > 0 {
			return img, nil
		}
	}
	return nil, fmt.Errorf("no three-axis image HDU")
}

// readPixels reads the pixel block in the element type the BITPIX card
// dictates and widens to float64.
func readPixels(img fitsio.Image, bitpix, n int) ([]float64, error) {
	switch bitpix {
	case -64:
		data := make([]float64, n)
		if err := img.Read(&data); err != nil {
			return nil, fmt.Errorf("read pixels: %w", err)
		}
		return data, nil
	case -32:
		data := make([]float32, n)
		if err := img.Read(&data); err != nil {
			return nil, fmt.Errorf("read pixels: %w", err)
		}
		return widen(data, func(v float32) float64 { return float64(v) }), nil
	case 8:
		data := make([]int8, n)
		if err := img.Read(&data); err != nil {
			return nil, fmt.Errorf("read pixels: %w", err)
		}
		return widen(data, func(v int8) float64 { return float64(v) }), nil
	case 16:
		data := make([]int16, n)
		if err := img.Read(&data); err != nil {
			return nil, fmt.Errorf("read pixels: %w", err)
		}
		return widen(data, func(v int16) float64 { return float64(v) }), nil
	case 32:
		data := make([]int32, n)
		if err := img.Read(&data); err != nil {
			return nil, fmt.Errorf("read pixels: %w", err)
		}
		return widen(data, func(v int32) float64 { return float64(v) }), nil
	case 64:
		data := make([]int64, n)
		if err := img.Read(&data); err != nil {
			return nil, fmt.Errorf("read pixels: %w", err)
		}
		return widen(data, func(v int64) float64 { return float64(v) }), nil
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d", bitpix)
	}
}

func widen[T any](in []T, conv func(T) float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = conv(v)
	}
	return out
}

// applyScaling honors BSCALE and BZERO for integer-typed files.
func applyScaling(data []float64, hdr *fitsio.Header) {
	scale, hasScale := cardFloat(hdr, "BSCALE")
	zero, hasZero := cardFloat(hdr, "BZERO")
	if !hasScale {
		scale = 1
	}
	if !hasZero {
		zero = 0
	}
	if scale == 1 && zero == 0 {
		return
	}
	for i, v := range data {
		data[i] = zero + scale*v
	}
}

// transposeFITS reorders the axis-1-fastest pixel block into the cube
// sample order (row fastest, then column, then plane).
func transposeFITS(data []float64, cols, rows, planes int) []float64 {
	samples := make([]float64, len(data))
	for p := 0; p < planes; p++ {
		for y := 0; y < rows; y++ {
			base := (p*rows + y) * cols
			for x := 0; x < cols; x++ {
				samples[((p*cols)+x)*rows+y] = data[base+x]
			}
		}
	}
	return samples
}

// =============================================================================
// HEADER METADATA
// =============================================================================

func fitsMetadata(hdr *fitsio.Header, cols, rows, planes int) cube.Metadata {
	meta := cube.Metadata{
		XBounds:      indexBounds(cols),
		YBounds:      indexBounds(rows),
		VBounds:      indexBounds(planes),
		ChannelWidth: 1,
	}

	if b, ok := worldAxis(hdr, 1, cols, degree); ok {
		meta.XBounds = b
	}
	if b, ok := worldAxis(hdr, 2, rows, degree); ok {
		meta.YBounds = b
	}

	// The spectral axis is absolute, in km/s, scaled down when the
	// header declares meters per second.
	vscale := 1.0
	if unit, ok := cardString(hdr, "CUNIT3"); ok {
		if strings.EqualFold(strings.TrimSpace(unit), "m/s") {
			vscale = 1e-3
		}
	}
	if crval, ok := cardFloat(hdr, "CRVAL3"); ok {
		if cdelt, ok := cardFloat(hdr, "CDELT3"); ok && cdelt != 0 {
			crpix, has := cardFloat(hdr, "CRPIX3")
			if !has {
				crpix = 1
			}
			first := crval + (1-crpix)*cdelt
			last := crval + (float64(planes)-crpix)*cdelt
			meta.VBounds = cube.Bounds{Start: first * vscale, End: last * vscale}
			meta.ChannelWidth = cdelt * vscale
		}
	}

	if ra, ok := cardFloat(hdr, "CRVAL1"); ok {
		meta.CenterRA = ra * degree
	}
	if dec, ok := cardFloat(hdr, "CRVAL2"); ok {
		meta.CenterDec = dec * degree
	}
	if eq, ok := cardFloat(hdr, "EQUINOX"); ok {
		meta.Epoch = eq
	} else if ep, ok := cardFloat(hdr, "EPOCH"); ok {
		meta.Epoch = ep
	}
	if unit, ok := cardString(hdr, "BUNIT"); ok {
		meta.FluxUnit = strings.TrimSpace(unit)
	}
	if obj, ok := cardString(hdr, "OBJECT"); ok {
		meta.Source = strings.TrimSpace(obj)
	}
	if maj, ok := cardFloat(hdr, "BMAJ"); ok {
		meta.Beam.Major = maj * degree
	}
	if min, ok := cardFloat(hdr, "BMIN"); ok {
		meta.Beam.Minor = min * degree
	}
	if pa, ok := cardFloat(hdr, "BPA"); ok {
		meta.Beam.PositionAngle = pa * degree
	}
	return meta
}

// worldAxis converts one spatial axis into radian offsets from the
// reference pixel.
func worldAxis(hdr *fitsio.Header, axis, n int, unit float64) (cube.Bounds, bool) {
	cdelt, ok := cardFloat(hdr, fmt.Sprintf("CDELT%d", axis))
	if !ok || cdelt == 0 {
		return cube.Bounds{}, false
	}
	crpix, has := cardFloat(hdr, fmt.Sprintf("CRPIX%d", axis))
	if !has {
		crpix = 1
	}
	first := (1 - crpix) * cdelt * unit
	last := (float64(n) - crpix) * cdelt * unit
	return cube.Bounds{Start: first, End: last}, true
}

func cardFloat(hdr *fitsio.Header, name string) (float64, bool) {
	card := hdr.Get(name)
	if card == nil {
		return 0, false
	}
	switch v := card.Value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func cardString(hdr *fitsio.Header, name string) (string, bool) {
	card := hdr.Get(name)
	if card == nil {
		return "", false
	}
	if s, ok := card.Value.(string); ok {
		return s, true
	}
	return "", false
}
