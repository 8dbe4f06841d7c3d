// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package loader

import (
	"fmt"
	"math"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/cubetui/internal/cube"
)

func init() {
	Register(&SceneLoader{})
}

// SceneSource is one gaussian component of a synthetic scene. Position
// and width are fractional: x, y and v run from 0 to 1 across the cube.
type SceneSource struct {
	Amp    float64 `yaml:"amp"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	V      float64 `yaml:"v"`
	Sigma  float64 `yaml:"sigma"`
	VSigma float64 `yaml:"vsigma"`
}

// SceneBeam is the synthetic instrument beam, axes in arcseconds and
// the position angle in degrees.
type SceneBeam struct {
	Major float64 `yaml:"major"`
	Minor float64 `yaml:"minor"`
	Angle float64 `yaml:"angle"`
}

// Scene describes a synthetic cube: spans in degrees, velocities in
// km/s, sky center in degrees. The zero value of every field has a
// usable default, so a scene file only names what it cares about.
type Scene struct {
	Title     string        `yaml:"title"`
	Cols      int           `yaml:"cols"`
	Rows      int           `yaml:"rows"`
	Planes    int           `yaml:"planes"`
	XSpan     float64       `yaml:"x_span"`
	YSpan     float64       `yaml:"y_span"`
	VMin      float64       `yaml:"v_min"`
	VMax      float64       `yaml:"v_max"`
	CenterRA  float64       `yaml:"center_ra"`
	CenterDec float64       `yaml:"center_dec"`
	Epoch     float64       `yaml:"epoch"`
	FluxUnit  string        `yaml:"flux_unit"`
	Noise     float64       `yaml:"noise"`
	Seed      int64         `yaml:"seed"`
	Beam      SceneBeam     `yaml:"beam"`
	Sources   []SceneSource `yaml:"sources"`
}

// SceneLoader reads YAML scene descriptions and synthesizes the cube.
type SceneLoader struct{}

// Extensions claims the YAML suffixes.
func (l *SceneLoader) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// Load parses the scene file and builds its cube.
func (l *SceneLoader) Load(path string) (*cube.Cube, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scene
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	c, err := BuildScene(sc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// =============================================================================
// SCENE SYNTHESIS
// =============================================================================

func (s *Scene) applyDefaults() {
	if s.Cols == 0 {
		s.Cols = 48
	}
	if s.Rows == 0 {
		s.Rows = 48
	}
	if s.Planes == 0 {
		s.Planes = 32
	}
	if s.XSpan == 0 {
		s.XSpan = 0.05
	}
	if s.YSpan == 0 {
		s.YSpan = s.XSpan
	}
	if s.VMin == 0 && s.VMax == 0 {
		s.VMin, s.VMax = -10, 10
	}
	if s.FluxUnit == "" {
		s.FluxUnit = "Jy/beam"
	}
	for i := range s.Sources {
		if s.Sources[i].Sigma == 0 {
			s.Sources[i].Sigma = 0.12
		}
		if s.Sources[i].VSigma == 0 {
			s.Sources[i].VSigma = 0.15
		}
	}
}

func (s *Scene) validate() error {
	if s.Cols < 1 || s.Rows < 1 || s.Planes < 1 {
		return fmt.Errorf("scene dimensions %dx%dx%d invalid", s.Cols, s.Rows, s.Planes)
	}
	if s.VMax == s.VMin {
		return fmt.Errorf("scene spectral span is empty")
	}
	for i, src := range s.Sources {
		if math.IsNaN(src.Amp) || math.IsInf(src.Amp, 0) {
			return fmt.Errorf("source %d: amplitude %v not finite", i, src.Amp)
		}
		if src.Sigma <= 0 || src.VSigma <= 0 {
			return fmt.Errorf("source %d: widths must be positive", i)
		}
	}
	return nil
}

// BuildScene synthesizes the described cube. The same scene always
// yields the same samples: noise is drawn from the scene's seed.
func BuildScene(sc Scene) (*cube.Cube, error) {
	sc.applyDefaults()
	if err := sc.validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(sc.Seed))
	samples := make([]float64, sc.Cols*sc.Rows*sc.Planes)
	for p := 0; p < sc.Planes; p++ {
		vfrac := 0.5
		if sc.Planes > 1 {
			vfrac = float64(p) / float64(sc.Planes-1)
		}
		for col := 0; col < sc.Cols; col++ {
			xfrac := (float64(col) + 0.5) / float64(sc.Cols)
			for row := 0; row < sc.Rows; row++ {
				yfrac := (float64(row) + 0.5) / float64(sc.Rows)

				v := 0.0
				for _, src := range sc.Sources {
					dx := (xfrac - src.X) / src.Sigma
					dy := (yfrac - src.Y) / src.Sigma
					dv := (vfrac - src.V) / src.VSigma
					v += src.Amp * math.Exp(-(dx*dx+dy*dy+dv*dv)/2)
				}
				if sc.Noise > 0 {
					v += sc.Noise * rng.NormFloat64()
				}
				samples[((p*sc.Cols)+col)*sc.Rows+row] = v
			}
		}
	}

	width := (sc.VMax - sc.VMin)
	if sc.Planes > 1 {
		width /= float64(sc.Planes - 1)
	}
	meta := cube.Metadata{
		XBounds:      cube.Bounds{Start: -sc.XSpan / 2 * degree, End: sc.XSpan / 2 * degree},
		YBounds:      cube.Bounds{Start: -sc.YSpan / 2 * degree, End: sc.YSpan / 2 * degree},
		VBounds:      cube.Bounds{Start: sc.VMin, End: sc.VMax},
		ChannelWidth: width,
		CenterRA:     sc.CenterRA * degree,
		CenterDec:    sc.CenterDec * degree,
		Epoch:        sc.Epoch,
		FluxUnit:     sc.FluxUnit,
		Source:       sc.Title,
		Beam: cube.Beam{
			Major:         sc.Beam.Major / 3600 * degree,
			Minor:         sc.Beam.Minor / 3600 * degree,
			PositionAngle: sc.Beam.Angle * degree,
		},
	}
	return cube.New(samples, sc.Cols, sc.Rows, sc.Planes, meta)
}

// DemoScene is the built-in observation: a bright core with a blue and
// a red outflow lobe, light noise, Perseus-ish pointing.
func DemoScene() Scene {
	return Scene{
		Title:     "synthetic demo cube",
		Cols:      64,
		Rows:      64,
		Planes:    48,
		XSpan:     0.05,
		VMin:      -12,
		VMax:      12,
		CenterRA:  52.5,
		CenterDec: 31.3,
		Epoch:     2000,
		FluxUnit:  "Jy/beam",
		Noise:     0.05,
		Seed:      42,
		Beam:      SceneBeam{Major: 18, Minor: 12, Angle: 40},
		Sources: []SceneSource{
			{Amp: 8, X: 0.5, Y: 0.5, V: 0.5, Sigma: 0.18, VSigma: 0.35},
			{Amp: 5, X: 0.32, Y: 0.6, V: 0.28, Sigma: 0.1, VSigma: 0.12},
			{Amp: 5, X: 0.68, Y: 0.4, V: 0.72, Sigma: 0.1, VSigma: 0.12},
		},
	}
}

// Demo builds the built-in demo cube.
func Demo() (*cube.Cube, error) {
	return BuildScene(DemoScene())
}
