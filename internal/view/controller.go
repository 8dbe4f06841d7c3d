// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

import (
	"errors"
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/jeranaias/cubetui/internal/cube"
	"github.com/jeranaias/cubetui/internal/wcs"
)

// ErrDisposed rejects events delivered after teardown.
var ErrDisposed = errors.New("slice view disposed")

// autoSigmas are the sigma multiples used for statistics-derived contour
// levels.
var autoSigmas = []float64{1, 2, 3, 5, 8}

// Surface2D renders a slice into device space and reports the extent it
// used, which anchors cursor coordinate inversion. Render failures are
// transient (backend not ready); the controller logs and retries on the
// next interaction.
type Surface2D interface {
	Render(s *cube.Slice2D, levels []float64, xw, yw cube.Bounds) error
	Extent() wcs.PanelExtent
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// ControllerState tracks the view lifecycle.
type ControllerState int

const (
	// StateUninitialized is the state before the first successful slice.
	StateUninitialized ControllerState = iota
	// StateReady accepts every event.
	StateReady
	// StateDisposed rejects every event.
	StateDisposed
)

func (s ControllerState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateDisposed:
		return "disposed"
	default:
		return "uninitialized"
	}
}

// =============================================================================
// READOUT
// =============================================================================

// BeamMarker is the instrument beam ellipse in device coordinates at the
// current zoom, anchored inside the lower-left panel corner. The radii
// follow the physical-to-device scale, so the marker grows as the view
// zooms in.
type BeamMarker struct {
	CenterX float64
	CenterY float64
	RadiusX float64
	RadiusY float64
	Angle   float64 // position angle, radians east of north
}

// Readout is the cursor feedback for the status line: the formatted
// position and flux text plus the beam overlay geometry.
type Readout struct {
	Text    string
	Query   wcs.CursorQuery
	Beam    BeamMarker
	HasBeam bool
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Options configures optional controller collaborators.
type Options struct {
	// Sync receives link toggles; its frame-complete signal is driven by
	// the primary 3D surface, not by the controller.
	Sync *Synchronizer

	// Primary is fed the flattened cube on construction and replacement.
	Primary Surface3D

	// Frame selects the initial readout frame.
	Frame wcs.Frame

	// Logf is the debug log sink. Defaults to the stdlib logger.
	Logf func(format string, args ...any)
}

// Controller orchestrates one slice view: it owns the contour set and
// range state, reacts to the Event union, and produces the renderable
// slice plus the textual readout. All methods run on the single
// interaction goroutine.
type Controller struct {
	state ControllerState

	cube     *cube.Cube
	pipeline *wcs.Pipeline
	surface  Surface2D
	sync     *Synchronizer
	primary  Surface3D
	logf     func(format string, args ...any)

	contours *LevelSet
	ranges   *RangeState

	integrated bool
	plane      int
	velocity   float64
	slice      *cube.Slice2D
	readout    Readout

	lastCursorX  float64
	lastCursorY  float64
	lastCursorOK bool
}

// NewController builds the view over a loaded cube and computes the first
// slice. An invalid cube aborts view creation. The view starts at the
// middle spectral plane in single-plane mode with no contours and the
// full cube bounds selected.
func NewController(c *cube.Cube, surface Surface2D, opts Options) (*Controller, error) {
	if c == nil {
		return nil, &cube.InvalidCubeError{Reason: "nil cube"}
	}
	if surface == nil {
		return nil, errors.New("nil render surface")
	}
	logf := opts.Logf
	if logf == nil {
		logf = log.Printf
	}

	pipe := wcs.NewPipeline(c.Meta)
	pipe.SetFrame(opts.Frame)
	pipe.SetLogf(logf)

	ctl := &Controller{
		state:    StateUninitialized,
		cube:     c,
		pipeline: pipe,
		surface:  surface,
		sync:     opts.Sync,
		primary:  opts.Primary,
		logf:     logf,
		contours: NewLevelSet(),
		ranges:   NewRangeState(c.Meta.XBounds, c.Meta.YBounds, c.Meta.VBounds),
		plane:    c.Planes() / 2,
	}
	ctl.velocity = c.VelocityOfPlane(ctl.plane)

	if err := ctl.recomputeSlice(); err != nil {
		return nil, err
	}
	ctl.feedPrimary()
	ctl.render()
	ctl.state = StateReady
	return ctl, nil
}

// Handle is the single dispatch entry point for user interaction. It
// routes the event union internally and returns the first error the
// operation hit. Render-surface failures never surface here; they are
// logged and retried on the next interaction.
func (c *Controller) Handle(ev Event) error {
	switch c.state {
	case StateDisposed:
		return ErrDisposed
	case StateUninitialized:
		return errors.New("controller not initialized")
	}

	switch e := ev.(type) {
	case PlaneChangeEvent:
		return c.handlePlane(e.Plane, e.Force)
	case VelocityEvent:
		return c.handlePlane(c.cube.PlaneForVelocity(e.Velocity), e.Force)
	case ModeToggleEvent:
		return c.handleModeToggle()
	case CursorMoveEvent:
		c.lastCursorX, c.lastCursorY, c.lastCursorOK = e.X, e.Y, true
		c.buildReadout()
		return nil
	case ContourEditEvent:
		return c.handleContour(e)
	case RangeChangeEvent:
		c.ranges.Set(e.Axis, e.Min, e.Max)
		c.render()
		return nil
	case ZoomEvent:
		c.handleZoom(e)
		return nil
	case CubeReplacedEvent:
		return c.handleReplace(e.Cube)
	case FrameSelectEvent:
		c.pipeline.SetFrame(e.Frame)
		c.refreshCursor()
		return nil
	case ClampRangesEvent:
		c.ranges.ClampTo(c.cube.Meta.XBounds, c.cube.Meta.YBounds, c.cube.Meta.VBounds)
		c.render()
		return nil
	case SyncToggleEvent:
		if c.sync != nil {
			c.sync.Toggle()
		}
		return nil
	default:
		return fmt.Errorf("unhandled event %T", ev)
	}
}

// Dispose tears the view down. Further events are rejected with
// ErrDisposed.
func (c *Controller) Dispose() {
	c.state = StateDisposed
	c.slice = nil
	c.readout = Readout{}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the lifecycle state.
func (c *Controller) State() ControllerState { return c.state }

// Cube returns the cube currently displayed.
func (c *Controller) Cube() *cube.Cube { return c.cube }

// Slice returns the current renderable grid. Nil after Dispose.
func (c *Controller) Slice() *cube.Slice2D { return c.slice }

// Plane returns the current spectral plane index.
func (c *Controller) Plane() int { return c.plane }

// Velocity returns the velocity actually displayed, after clamping. This
// is the value slider state must adopt so it never disagrees with the
// shown plane.
func (c *Controller) Velocity() float64 { return c.velocity }

// Integrated reports whether the moment map is shown.
func (c *Controller) Integrated() bool { return c.integrated }

// Readout returns the current cursor feedback.
func (c *Controller) Readout() Readout { return c.readout }

// Contours returns the contour set owned by this view.
func (c *Controller) Contours() *LevelSet { return c.contours }

// Ranges returns the axis range state owned by this view.
func (c *Controller) Ranges() *RangeState { return c.ranges }

// Frame returns the active readout frame.
func (c *Controller) Frame() wcs.Frame { return c.pipeline.Frame() }

// Sync returns the linked-view synchronizer, or nil.
func (c *Controller) Sync() *Synchronizer { return c.sync }

// Window returns the visible physical window.
func (c *Controller) Window() (x, y cube.Bounds) { return c.ranges.Window() }

// =============================================================================
// EVENT HANDLERS
// =============================================================================

func (c *Controller) handlePlane(plane int, force bool) error {
	if plane < 0 {
		plane = 0
	}
	if plane > c.cube.Planes()-1 {
		plane = c.cube.Planes() - 1
	}
	changed := plane != c.plane
	c.plane = plane
	c.velocity = c.cube.VelocityOfPlane(plane)

	if c.integrated {
		// The moment map does not depend on the scrub position; the new
		// plane takes effect when single-plane mode returns.
		if !force {
			return nil
		}
	} else if !changed && !force && c.slice != nil {
		// Sub-resolution slider jitter lands on the same plane.
		return nil
	}

	if err := c.recomputeSlice(); err != nil {
		return err
	}
	c.render()
	return nil
}

func (c *Controller) handleModeToggle() error {
	c.integrated = !c.integrated
	if err := c.recomputeSlice(); err != nil {
		c.integrated = !c.integrated // failed toggle keeps the old mode
		return err
	}
	c.render()
	return nil
}

func (c *Controller) handleContour(e ContourEditEvent) error {
	switch e.Op {
	case ContourAdd:
		if err := c.contours.Add(e.Input); err != nil {
			return err
		}
	case ContourRemove:
		c.contours.Remove(e.Index)
	case ContourAuto:
		if err := c.contours.AddValues(c.autoLevels()...); err != nil {
			return err
		}
	case ContourClear:
		c.contours.Clear()
	default:
		return fmt.Errorf("unhandled contour op %d", e.Op)
	}
	c.render()
	return nil
}

// autoLevels derives contour levels from the current slice statistics:
// the mean plus fixed sigma multiples.
func (c *Controller) autoLevels() []float64 {
	flat := make([]float64, 0, c.slice.Rows*c.slice.Cols)
	for _, row := range c.slice.Data {
		flat = append(flat, row...)
	}
	mean, std := stat.MeanStdDev(flat, nil)
	if math.IsNaN(std) || std == 0 {
		return []float64{mean}
	}
	out := make([]float64, 0, len(autoSigmas))
	for _, k := range autoSigmas {
		out = append(out, mean+k*std)
	}
	return out
}

func (c *Controller) handleZoom(e ZoomEvent) {
	if e.Reset {
		saved := c.ranges.Capture()
		full := Ranges{
			X:        Range{Min: c.cube.Meta.XBounds.Lo(), Max: c.cube.Meta.XBounds.Hi()},
			Y:        Range{Min: c.cube.Meta.YBounds.Lo(), Max: c.cube.Meta.YBounds.Hi()},
			Spectral: saved.Spectral,
		}
		c.ranges.Restore(full)
		c.render()
		return
	}
	if e.Factor <= 0 || e.Factor == 1 {
		return
	}
	for _, a := range []Axis{AxisX, AxisY} {
		r := c.ranges.Get(a)
		half := r.Width() / (2 * e.Factor)
		mid := r.Mid()
		c.ranges.Set(a, mid-half, mid+half)
	}
	// Zooming out stops at the cube edge.
	rx := clampRange(c.ranges.Get(AxisX), c.cube.Meta.XBounds)
	ry := clampRange(c.ranges.Get(AxisY), c.cube.Meta.YBounds)
	c.ranges.Set(AxisX, rx.Min, rx.Max)
	c.ranges.Set(AxisY, ry.Min, ry.Max)
	c.render()
}

func (c *Controller) handleReplace(nc *cube.Cube) error {
	if nc == nil {
		return &cube.InvalidCubeError{Reason: "nil cube"}
	}

	// Compute the replacement slice before touching any state, so a bad
	// cube leaves the previous view fully intact.
	plane := c.plane
	if plane > nc.Planes()-1 {
		plane = nc.Planes() - 1
	}
	var (
		s   *cube.Slice2D
		err error
	)
	if c.integrated {
		s, err = cube.Integrate(nc)
	} else {
		s, err = cube.Slice(nc, plane)
	}
	if err != nil {
		return err
	}

	// The user's window and contours survive the swap. Ranges are
	// restored verbatim even when they fall outside the new cube; only an
	// explicit ClampRangesEvent discards them.
	saved := c.ranges.Capture()
	frame := c.pipeline.Frame()

	c.cube = nc
	c.plane = plane
	c.velocity = nc.VelocityOfPlane(plane)
	c.slice = s

	pipe := wcs.NewPipeline(nc.Meta)
	pipe.SetFrame(frame)
	pipe.SetLogf(c.logf)
	c.pipeline = pipe

	c.ranges = NewRangeState(nc.Meta.XBounds, nc.Meta.YBounds, nc.Meta.VBounds)
	c.ranges.Restore(saved)
	c.feedPrimary()
	c.render()
	return nil
}

// =============================================================================
// RECOMPUTE AND RENDER
// =============================================================================

func (c *Controller) recomputeSlice() error {
	var (
		s   *cube.Slice2D
		err error
	)
	if c.integrated {
		s, err = cube.Integrate(c.cube)
	} else {
		s, err = cube.Slice(c.cube, c.plane)
	}
	if err != nil {
		return err
	}
	c.slice = s
	return nil
}

// render pushes the current slice to the surface and refreshes the
// readout, since both the panel extent and the data under the cursor may
// have shifted. Surface failures are logged and swallowed; the next
// interaction repeats the render.
func (c *Controller) render() {
	if c.slice == nil {
		return
	}
	levels := c.contours.Levels()
	c.slice.Levels = levels
	xw, yw := c.ranges.Window()
	if err := c.surface.Render(c.slice, levels, xw, yw); err != nil {
		c.logf("view: render failed, retrying on next interaction: %v", err)
	}
	c.refreshCursor()
}

// feedPrimary hands the flattened cube to the primary 3D surface. A
// not-ready backend is logged and retried on the next cube swap.
func (c *Controller) feedPrimary() {
	if c.primary == nil {
		return
	}
	if err := c.primary.SetSamples(c.cube.Voxels()); err != nil {
		c.logf("view: 3D sample upload failed: %v", err)
	}
}

func (c *Controller) refreshCursor() {
	if c.lastCursorOK {
		c.buildReadout()
	}
}

func (c *Controller) buildReadout() {
	ext := c.surface.Extent()
	xw, yw := c.ranges.Window()
	q := c.pipeline.Query(c.lastCursorX, c.lastCursorY, ext, xw, yw, c.slice)

	r := Readout{Query: q}
	if q.InPanel {
		r.Text = q.Display.Format()
		if q.HasFlux {
			r.Text += "  " + c.formatFlux(q.Flux)
		}
	}

	if beam := c.cube.Meta.Beam; beam.Defined() && ext.Valid() {
		sx, sy := c.pipeline.Scale(ext, xw, yw)
		rx := beam.Major / 2 * sx
		ry := beam.Minor / 2 * sy
		r.Beam = BeamMarker{
			CenterX: ext.X0 + rx + 1,
			CenterY: ext.Y0 + ext.Height - ry - 1,
			RadiusX: rx,
			RadiusY: ry,
			Angle:   beam.PositionAngle,
		}
		r.HasBeam = true
	}
	c.readout = r
}

// formatFlux renders a flux value with the cube's unit, annotated with
// the velocity-integration unit when the moment map is shown.
func (c *Controller) formatFlux(v float64) string {
	unit := c.cube.Meta.FluxUnit
	if c.integrated {
		if unit != "" {
			unit += "·km/s"
		} else {
			unit = "km/s"
		}
	}
	if unit == "" {
		return fmt.Sprintf("%.4g", v)
	}
	return fmt.Sprintf("%.4g %s", v, unit)
}
