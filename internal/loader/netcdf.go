// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package loader

import (
	"fmt"
	"math"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/jeranaias/cubetui/internal/cube"
)

func init() {
	Register(&NetCDFLoader{})
}

// fluxNames are the variable names tried before falling back to the
// first three-dimensional variable in the file.
var fluxNames = []string{"flux", "data", "cube", "intensity", "brightness"}

// NetCDFLoader reads CF-style cubes: a three-dimensional flux variable
// with dimensions ordered spectral, y, x, plus optional matching
// one-dimensional coordinate variables.
type NetCDFLoader struct{}

// Extensions claims the classic and netCDF-4 suffixes.
func (l *NetCDFLoader) Extensions() []string {
	return []string{".nc", ".cdf"}
}

// Load reads the file into a cube.
func (l *NetCDFLoader) Load(path string) (*cube.Cube, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open netcdf %s: %w", path, err)
	}
	defer g.Close()

	name, v, err := findFluxVariable(g)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	planes, rows, cols, samples, err := reshapeCF(v.Values)
	if err != nil {
		return nil, fmt.Errorf("%s: variable %q: %w", path, name, err)
	}
	logBlanked(path, sanitize(samples))

	meta := l.metadata(g, v, planes, rows, cols)
	c, err := cube.New(samples, cols, rows, planes, meta)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func findFluxVariable(g api.Group) (string, *api.Variable, error) {
	names := g.ListVariables()

	try := func(name string) (*api.Variable, bool) {
		v, err := g.GetVariable(name)
		if err != nil || v == nil || len(v.Dimensions) != 3 {
			return nil, false
		}
		return v, true
	}

	for _, want := range fluxNames {
		for _, name := range names {
			if name == want {
				if v, ok := try(name); ok {
					return name, v, nil
				}
			}
		}
	}
	for _, name := range names {
		if v, ok := try(name); ok {
			return name, v, nil
		}
	}
	return "", nil, fmt.Errorf("no three-dimensional variable among %v", names)
}

// metadata assembles bounds from the coordinate variables named after
// the flux dimensions, falling back to index space.
func (l *NetCDFLoader) metadata(g api.Group, v *api.Variable, planes, rows, cols int) cube.Metadata {
	meta := cube.Metadata{
		VBounds:      indexBounds(planes),
		YBounds:      indexBounds(rows),
		XBounds:      indexBounds(cols),
		ChannelWidth: 1,
	}

	if axis, ok := coordAxis(g, v.Dimensions[0], planes); ok {
		meta.VBounds = cube.Bounds{Start: axis[0], End: axis[len(axis)-1]}
		if len(axis) > 1 {
			meta.ChannelWidth = axis[1] - axis[0]
		}
	}
	if axis, ok := coordAxis(g, v.Dimensions[1], rows); ok {
		meta.YBounds = cube.Bounds{Start: axis[0], End: axis[len(axis)-1]}
	}
	if axis, ok := coordAxis(g, v.Dimensions[2], cols); ok {
		meta.XBounds = cube.Bounds{Start: axis[0], End: axis[len(axis)-1]}
	}

	if v.Attributes != nil {
		if s, ok := attrString(v.Attributes, "units"); ok {
			meta.FluxUnit = s
		}
	}
	ga := g.Attributes()
	if ga != nil {
		if ra, ok := attrFloat(ga, "center_ra"); ok {
			meta.CenterRA = ra * math.Pi / 180
		}
		if dec, ok := attrFloat(ga, "center_dec"); ok {
			meta.CenterDec = dec * math.Pi / 180
		}
		if epoch, ok := attrFloat(ga, "epoch"); ok {
			meta.Epoch = epoch
		}
		if maj, ok := attrFloat(ga, "beam_major"); ok {
			meta.Beam.Major = maj
		}
		if min, ok := attrFloat(ga, "beam_minor"); ok {
			meta.Beam.Minor = min
		}
		if pa, ok := attrFloat(ga, "beam_angle"); ok {
			meta.Beam.PositionAngle = pa
		}
		if src, ok := attrString(ga, "source"); ok {
			meta.Source = src
		}
	}
	return meta
}

func indexBounds(n int) cube.Bounds {
	return cube.Bounds{Start: 0, End: float64(n - 1)}
}

// coordAxis reads the one-dimensional coordinate variable for a
// dimension, requiring the expected length.
func coordAxis(g api.Group, dim string, want int) ([]float64, bool) {
	v, err := g.GetVariable(dim)
	if err != nil || v == nil {
		return nil, false
	}
	axis, ok := toFloat1D(v.Values)
	if !ok || len(axis) != want || len(axis) == 0 {
		return nil, false
	}
	return axis, true
}

// =============================================================================
// VALUE CONVERSION
// =============================================================================

// reshapeCF flattens a nested [planes][rows][cols] value grid into the
// cube sample order (row fastest, then column, then plane).
func reshapeCF(values interface{}) (planes, rows, cols int, samples []float64, err error) {
	grid, err := toGrid3D(values)
	if err != nil {
		return 0, 0, 0, nil, err
	}
	planes = len(grid)
	if planes == 0 || len(grid[0]) == 0 || len(grid[0][0]) == 0 {
		return 0, 0, 0, nil, fmt.Errorf("empty variable")
	}
	rows, cols = len(grid[0]), len(grid[0][0])

	samples = make([]float64, cols*rows*planes)
	for p, plane := range grid {
		if len(plane) != rows {
			return 0, 0, 0, nil, fmt.Errorf("ragged variable at plane %d", p)
		}
		for r, row := range plane {
			if len(row) != cols {
				return 0, 0, 0, nil, fmt.Errorf("ragged variable at plane %d row %d", p, r)
			}
			for c, v := range row {
				samples[((p*cols)+c)*rows+r] = v
			}
		}
	}
	return planes, rows, cols, samples, nil
}

func toGrid3D(values interface{}) ([][][]float64, error) {
	switch vv := values.(type) {
	case [][][]float64:
		return vv, nil
	case [][][]float32:
		out := make([][][]float64, len(vv))
		for p, plane := range vv {
			out[p] = make([][]float64, len(plane))
			for r, row := range plane {
				out[p][r] = make([]float64, len(row))
				for c, v := range row {
					out[p][r][c] = float64(v)
				}
			}
		}
		return out, nil
	case [][][]int32:
		out := make([][][]float64, len(vv))
		for p, plane := range vv {
			out[p] = make([][]float64, len(plane))
			for r, row := range plane {
				out[p][r] = make([]float64, len(row))
				for c, v := range row {
					out[p][r][c] = float64(v)
				}
			}
		}
		return out, nil
	case [][][]int16:
		out := make([][][]float64, len(vv))
		for p, plane := range vv {
			out[p] = make([][]float64, len(plane))
			for r, row := range plane {
				out[p][r] = make([]float64, len(row))
				for c, v := range row {
					out[p][r][c] = float64(v)
				}
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", values)
	}
}

func toFloat1D(values interface{}) ([]float64, bool) {
	switch vv := values.(type) {
	case []float64:
		return vv, true
	case []float32:
		out := make([]float64, len(vv))
		for i, v := range vv {
			out[i] = float64(v)
		}
		return out, true
	case []int32:
		out := make([]float64, len(vv))
		for i, v := range vv {
			out[i] = float64(v)
		}
		return out, true
	default:
		return nil, false
	}
}

// =============================================================================
// ATTRIBUTE HELPERS
// =============================================================================

// attrFloat reads a numeric attribute, accepting the scalar and
// single-element slice encodings writers produce.
func attrFloat(am api.AttributeMap, key string) (float64, bool) {
	raw, has := am.Get(key)
	if !has {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case []float64:
		if len(v) == 1 {
			return v[0], true
		}
	case []float32:
		if len(v) == 1 {
			return float64(v[0]), true
		}
	}
	return 0, false
}

func attrString(am api.AttributeMap, key string) (string, bool) {
	raw, has := am.Get(key)
	if !has {
		return "", false
	}
	if s, ok := raw.(string); ok {
		return s, true
	}
	return "", false
}
