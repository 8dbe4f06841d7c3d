// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/jeranaias/cubetui/internal/cube"
)

// =============================================================================
// SPECTRUM PROFILE
// =============================================================================

// Spectrum is a flux-vs-velocity profile read at one spatial cell.
type Spectrum struct {
	Col, Row   int
	Velocities []float64
	Flux       []float64
	FluxUnit   string
	Source     string
}

// SpectrumAt extracts the profile at the given spatial cell.
func SpectrumAt(c *cube.Cube, col, row int) (*Spectrum, error) {
	if col < 0 || col >= c.Cols() || row < 0 || row >= c.Rows() {
		return nil, fmt.Errorf("cell (%d,%d) outside cube %dx%d",
			col, row, c.Cols(), c.Rows())
	}
	sp := &Spectrum{
		Col: col, Row: row,
		Flux:     c.Spectrum(col, row),
		FluxUnit: c.Meta.FluxUnit,
		Source:   c.Meta.Source,
	}
	sp.Velocities = make([]float64, c.Planes())
	for p := 0; p < c.Planes(); p++ {
		sp.Velocities[p] = c.VelocityOfPlane(p)
	}
	return sp, nil
}

// SpectrumPNG renders the profile as a PNG line chart.
func SpectrumPNG(sp *Spectrum) ([]byte, error) {
	if len(sp.Velocities) < 2 {
		return nil, fmt.Errorf("spectrum needs at least two planes, got %d",
			len(sp.Velocities))
	}

	yTitle := "Flux"
	if sp.FluxUnit != "" {
		yTitle = fmt.Sprintf("Flux (%s)", sp.FluxUnit)
	}
	graph := chart.Chart{
		Title:  fmt.Sprintf("%s cell (%d,%d)", sp.Source, sp.Col, sp.Row),
		Width:  800,
		Height: 400,
		XAxis:  chart.XAxis{Name: "Velocity (km/s)"},
		YAxis:  chart.YAxis{Name: yTitle},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "spectrum",
				XValues: sp.Velocities,
				YValues: sp.Flux,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render spectrum chart: %w", err)
	}
	return buf.Bytes(), nil
}

// SpectrumCSV writes the profile as velocity,flux records.
func SpectrumCSV(sp *Spectrum) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"velocity_kms", "flux"}); err != nil {
		return nil, err
	}
	for i := range sp.Velocities {
		rec := []string{
			strconv.FormatFloat(sp.Velocities[i], 'g', -1, 64),
			strconv.FormatFloat(sp.Flux[i], 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush spectrum csv: %w", err)
	}
	return buf.Bytes(), nil
}
