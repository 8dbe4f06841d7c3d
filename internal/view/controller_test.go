// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/jeranaias/cubetui/internal/cube"
	"github.com/jeranaias/cubetui/internal/wcs"
)

// fakeSurface2D records renders and reports a fixed extent.
type fakeSurface2D struct {
	renders    int
	lastSlice  *cube.Slice2D
	lastLevels []float64
	lastXW     cube.Bounds
	lastYW     cube.Bounds
	ext        wcs.PanelExtent
	err        error
}

func (f *fakeSurface2D) Render(s *cube.Slice2D, levels []float64, xw, yw cube.Bounds) error {
	if f.err != nil {
		return f.err
	}
	f.renders++
	f.lastSlice = s
	f.lastLevels = levels
	f.lastXW, f.lastYW = xw, yw
	return nil
}

func (f *fakeSurface2D) Extent() wcs.PanelExtent { return f.ext }

func newFakeSurface() *fakeSurface2D {
	return &fakeSurface2D{ext: wcs.PanelExtent{X0: 10, Y0: 5, Width: 100, Height: 50}}
}

// newViewCube builds a cube whose samples are their own flat index.
func newViewCube(t *testing.T, cols, rows, planes int, meta cube.Metadata) *cube.Cube {
	t.Helper()
	samples := make([]float64, cols*rows*planes)
	for i := range samples {
		samples[i] = float64(i)
	}
	c, err := cube.New(samples, cols, rows, planes, meta)
	if err != nil {
		t.Fatalf("New cube failed: %v", err)
	}
	return c
}

func defaultMeta() cube.Metadata {
	return cube.Metadata{
		XBounds:      cube.Bounds{Start: 0, End: 0.04},
		YBounds:      cube.Bounds{Start: 0, End: 0.04},
		VBounds:      cube.Bounds{Start: -10, End: 10},
		ChannelWidth: 1,
		CenterRA:     1.5,
		CenterDec:    0.5,
		Epoch:        2000,
		FluxUnit:     "K",
	}
}

func newTestController(t *testing.T, opts Options) (*Controller, *fakeSurface2D) {
	t.Helper()
	surface := newFakeSurface()
	c := newViewCube(t, 4, 4, 21, defaultMeta())
	ctl, err := NewController(c, surface, opts)
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	return ctl, surface
}

// =============================================================================
// CONSTRUCTION TESTS
// =============================================================================

func TestNewController_Basics(t *testing.T) {
	ctl, surface := newTestController(t, Options{})

	if ctl.State() != StateReady {
		t.Errorf("state = %v, want ready", ctl.State())
	}
	if ctl.Plane() != 10 {
		t.Errorf("initial plane = %d, want middle 10", ctl.Plane())
	}
	if ctl.Velocity() != 0 {
		t.Errorf("initial velocity = %v, want 0", ctl.Velocity())
	}
	if surface.renders != 1 {
		t.Errorf("renders = %d after construction, want 1", surface.renders)
	}
	xw, yw := ctl.Window()
	if xw != (cube.Bounds{Start: 0, End: 0.04}) || yw != (cube.Bounds{Start: 0, End: 0.04}) {
		t.Errorf("window = %+v/%+v, want full bounds", xw, yw)
	}
	if ctl.Integrated() {
		t.Error("view started integrated")
	}
}

func TestNewController_Invalid(t *testing.T) {
	surface := newFakeSurface()

	if _, err := NewController(nil, surface, Options{}); err == nil {
		t.Error("nil cube accepted")
	}
	c := newViewCube(t, 2, 2, 1, defaultMeta())
	if _, err := NewController(c, nil, Options{}); err == nil {
		t.Error("nil surface accepted")
	}
}

// =============================================================================
// VELOCITY SCRUB TESTS
// =============================================================================

func TestController_VelocityScenario(t *testing.T) {
	// 21 planes spanning -10..10 km/s: requesting 3.4 km/s lands on
	// plane round(1.0*13.4) = 13, which is 3 km/s.
	ctl, _ := newTestController(t, Options{})

	if err := ctl.Handle(VelocityEvent{Velocity: 3.4}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if ctl.Plane() != 13 {
		t.Errorf("plane = %d, want 13", ctl.Plane())
	}
	if ctl.Velocity() != 3 {
		t.Errorf("velocity = %v, want the value actually used, 3", ctl.Velocity())
	}
	if ctl.Slice().Plane != 13 {
		t.Errorf("slice plane = %d, want 13", ctl.Slice().Plane)
	}
}

func TestController_VelocityClamped(t *testing.T) {
	ctl, _ := newTestController(t, Options{})

	if err := ctl.Handle(VelocityEvent{Velocity: 999}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if ctl.Plane() != 20 || ctl.Velocity() != 10 {
		t.Errorf("plane/velocity = %d/%v, want clamped 20/10", ctl.Plane(), ctl.Velocity())
	}
}

func TestController_PlaneJitterSkipsRecompute(t *testing.T) {
	ctl, surface := newTestController(t, Options{})
	if err := ctl.Handle(VelocityEvent{Velocity: 3.4}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	base := surface.renders
	slice := ctl.Slice()

	// 3.45 still rounds to plane 13: no recompute, same slice instance.
	if err := ctl.Handle(VelocityEvent{Velocity: 3.45}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if surface.renders != base {
		t.Errorf("renders = %d, want unchanged %d on jitter", surface.renders, base)
	}
	if ctl.Slice() != slice {
		t.Error("slice recomputed on jitter")
	}

	// The force flag recomputes regardless.
	if err := ctl.Handle(VelocityEvent{Velocity: 3.45, Force: true}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if surface.renders != base+1 {
		t.Errorf("renders = %d, want %d after force", surface.renders, base+1)
	}
	if ctl.Slice() == slice {
		t.Error("force did not produce a fresh slice")
	}

	// A genuine plane change recomputes.
	if err := ctl.Handle(PlaneChangeEvent{Plane: 2}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if surface.renders != base+2 || ctl.Plane() != 2 {
		t.Errorf("renders/plane = %d/%d, want %d/2", surface.renders, ctl.Plane(), base+2)
	}
}

// =============================================================================
// MODE TOGGLE TESTS
// =============================================================================

func TestController_ModeToggle(t *testing.T) {
	ctl, surface := newTestController(t, Options{})
	base := surface.renders

	if err := ctl.Handle(ModeToggleEvent{}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !ctl.Integrated() || !ctl.Slice().Integrated() {
		t.Error("toggle did not switch to the moment map")
	}
	if surface.renders != base+1 {
		t.Errorf("renders = %d, want %d", surface.renders, base+1)
	}

	if err := ctl.Handle(ModeToggleEvent{}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if ctl.Integrated() || ctl.Slice().Integrated() {
		t.Error("second toggle did not return to single-plane mode")
	}
}

func TestController_ModeToggleZeroWidthFails(t *testing.T) {
	meta := defaultMeta()
	meta.ChannelWidth = 0
	c := newViewCube(t, 4, 4, 5, meta)
	surface := newFakeSurface()
	ctl, err := NewController(c, surface, Options{})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}

	err = ctl.Handle(ModeToggleEvent{})
	if !errors.Is(err, cube.ErrZeroChannelWidth) {
		t.Fatalf("error = %v, want ErrZeroChannelWidth", err)
	}
	if ctl.Integrated() {
		t.Error("failed toggle left the view integrated")
	}
	if ctl.Slice() == nil || ctl.Slice().Integrated() {
		t.Error("failed toggle corrupted the slice")
	}
}

// =============================================================================
// CURSOR AND READOUT TESTS
// =============================================================================

func TestController_CursorReadout(t *testing.T) {
	meta := defaultMeta()
	meta.Beam = cube.Beam{Major: 0.002, Minor: 0.001, PositionAngle: 0.3}
	c := newViewCube(t, 4, 4, 21, meta)
	surface := newFakeSurface()
	ctl, err := NewController(c, surface, Options{})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}

	if err := ctl.Handle(CursorMoveEvent{X: 60, Y: 30}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	r := ctl.Readout()
	if !r.Query.InPanel || !r.Query.HasFlux {
		t.Fatalf("query = %+v, want in-panel with flux", r.Query)
	}
	if !strings.Contains(r.Text, "α") || !strings.Contains(r.Text, "δ") {
		t.Errorf("readout %q missing equatorial position", r.Text)
	}
	if !strings.HasSuffix(r.Text, " K") {
		t.Errorf("readout %q missing flux unit", r.Text)
	}
	if !r.HasBeam || r.Beam.RadiusX <= 0 || r.Beam.RadiusY <= 0 {
		t.Errorf("beam marker missing: %+v", r.Beam)
	}
}

func TestController_CursorOutOfPanelIsEmpty(t *testing.T) {
	ctl, _ := newTestController(t, Options{})

	if err := ctl.Handle(CursorMoveEvent{X: 0, Y: 0}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	r := ctl.Readout()
	if r.Text != "" {
		t.Errorf("out-of-panel readout = %q, want empty", r.Text)
	}
	if r.Query.InPanel || r.Query.HasFlux {
		t.Errorf("out-of-panel query = %+v, want empty", r.Query)
	}
}

func TestController_IntegratedFluxSuffix(t *testing.T) {
	ctl, _ := newTestController(t, Options{})

	if err := ctl.Handle(ModeToggleEvent{}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if err := ctl.Handle(CursorMoveEvent{X: 60, Y: 30}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if text := ctl.Readout().Text; !strings.Contains(text, "K·km/s") {
		t.Errorf("integrated readout %q missing velocity-integrated unit", text)
	}
}

func TestController_BeamTracksZoom(t *testing.T) {
	meta := defaultMeta()
	meta.Beam = cube.Beam{Major: 0.002, Minor: 0.001}
	c := newViewCube(t, 4, 4, 21, meta)
	surface := newFakeSurface()
	ctl, err := NewController(c, surface, Options{})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}

	if err := ctl.Handle(CursorMoveEvent{X: 60, Y: 30}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	before := ctl.Readout().Beam.RadiusX

	if err := ctl.Handle(ZoomEvent{Factor: 2}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	after := ctl.Readout().Beam.RadiusX
	if math.Abs(after-2*before) > 1e-9 {
		t.Errorf("beam radius = %v after 2x zoom, want %v", after, 2*before)
	}
}

// =============================================================================
// CONTOUR TESTS
// =============================================================================

func TestController_ContourAddAllOrNothing(t *testing.T) {
	ctl, surface := newTestController(t, Options{})
	base := surface.renders

	err := ctl.Handle(ContourEditEvent{Op: ContourAdd, Input: "2, bogus"})
	var ice *InvalidContourError
	if !errors.As(err, &ice) {
		t.Fatalf("error = %v, want InvalidContourError", err)
	}
	if !ctl.Contours().Empty() {
		t.Errorf("rejected add left levels: %v", ctl.Contours().Levels())
	}
	if surface.renders != base {
		t.Error("rejected add still re-rendered")
	}

	if err := ctl.Handle(ContourEditEvent{Op: ContourAdd, Input: "1.0, 1.0, 2.5"}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if got := ctl.Contours().Strings(); !reflect.DeepEqual(got, []string{"1.0", "2.5"}) {
		t.Errorf("levels = %v, want [1.0 2.5]", got)
	}
	if surface.renders != base+1 {
		t.Errorf("renders = %d, want %d", surface.renders, base+1)
	}
	if !reflect.DeepEqual(surface.lastLevels, []float64{1, 2.5}) {
		t.Errorf("surface levels = %v, want [1 2.5]", surface.lastLevels)
	}
	if !reflect.DeepEqual(ctl.Slice().Levels, []float64{1, 2.5}) {
		t.Errorf("slice levels = %v, want [1 2.5]", ctl.Slice().Levels)
	}
}

func TestController_ContourRemoveAndClear(t *testing.T) {
	ctl, surface := newTestController(t, Options{})
	if err := ctl.Handle(ContourEditEvent{Op: ContourAdd, Input: "1, 2, 3"}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	base := surface.renders

	if err := ctl.Handle(ContourEditEvent{Op: ContourRemove, Index: 0}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if got := ctl.Contours().Levels(); !reflect.DeepEqual(got, []float64{2, 3}) {
		t.Errorf("levels = %v, want [2 3]", got)
	}
	if surface.renders != base+1 {
		t.Errorf("renders = %d, want %d", surface.renders, base+1)
	}

	if err := ctl.Handle(ContourEditEvent{Op: ContourClear}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !ctl.Contours().Empty() {
		t.Errorf("clear left levels: %v", ctl.Contours().Levels())
	}
	if surface.lastLevels != nil {
		t.Errorf("surface still has levels: %v", surface.lastLevels)
	}
}

func TestController_ContourAuto(t *testing.T) {
	ctl, _ := newTestController(t, Options{})

	if err := ctl.Handle(ContourEditEvent{Op: ContourAuto}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	levels := ctl.Contours().Levels()
	if len(levels) != len(autoSigmas) {
		t.Fatalf("auto produced %d levels, want %d", len(levels), len(autoSigmas))
	}
	for i := 1; i < len(levels); i++ {
		if levels[i] <= levels[i-1] {
			t.Fatalf("auto levels not ascending: %v", levels)
		}
	}

	// Same slice, same statistics: a second pass adds nothing.
	if err := ctl.Handle(ContourEditEvent{Op: ContourAuto}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if got := ctl.Contours().Levels(); !reflect.DeepEqual(got, levels) {
		t.Errorf("second auto changed levels: %v -> %v", levels, got)
	}
}

// =============================================================================
// ZOOM AND RANGE TESTS
// =============================================================================

func TestController_ZoomAndReset(t *testing.T) {
	ctl, _ := newTestController(t, Options{})

	if err := ctl.Handle(ZoomEvent{Factor: 2}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	xw, yw := ctl.Window()
	if math.Abs(xw.Width()-0.02) > 1e-12 || math.Abs(yw.Width()-0.02) > 1e-12 {
		t.Errorf("window = %v x %v wide, want 0.02", xw.Width(), yw.Width())
	}
	if math.Abs(xw.Mid()-0.02) > 1e-12 {
		t.Errorf("zoom moved the window center to %v", xw.Mid())
	}

	// Zooming far out stops at the cube edge.
	if err := ctl.Handle(ZoomEvent{Factor: 0.01}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	xw, _ = ctl.Window()
	if xw.Lo() < 0 || xw.Hi() > 0.04 {
		t.Errorf("zoom-out escaped the cube: %+v", xw)
	}

	if err := ctl.Handle(ZoomEvent{Reset: true}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	xw, yw = ctl.Window()
	if xw != (cube.Bounds{Start: 0, End: 0.04}) || yw != (cube.Bounds{Start: 0, End: 0.04}) {
		t.Errorf("reset window = %+v/%+v, want full bounds", xw, yw)
	}
}

func TestController_RangeChange(t *testing.T) {
	ctl, surface := newTestController(t, Options{})
	base := surface.renders

	if err := ctl.Handle(RangeChangeEvent{Axis: AxisX, Min: 0.01, Max: 0.03}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if surface.renders != base+1 {
		t.Errorf("renders = %d, want %d", surface.renders, base+1)
	}
	if surface.lastXW != (cube.Bounds{Start: 0.01, End: 0.03}) {
		t.Errorf("surface window = %+v, want [0.01, 0.03]", surface.lastXW)
	}
}

// =============================================================================
// CUBE REPLACEMENT TESTS
// =============================================================================

func TestController_ReplacePreservesRangesAndContours(t *testing.T) {
	ctl, surface := newTestController(t, Options{})

	if err := ctl.Handle(RangeChangeEvent{Axis: AxisX, Min: 0.01, Max: 0.03}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if err := ctl.Handle(ContourEditEvent{Op: ContourAdd, Input: "1.0, 2.5"}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	saved := ctl.Ranges().Capture()

	// The new observation is smaller in every axis and has fewer planes.
	meta := defaultMeta()
	meta.XBounds = cube.Bounds{Start: 0, End: 0.002}
	meta.YBounds = cube.Bounds{Start: 0, End: 0.002}
	replacement := newViewCube(t, 3, 3, 5, meta)

	if err := ctl.Handle(CubeReplacedEvent{Cube: replacement}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if ctl.Cube() != replacement {
		t.Fatal("cube not swapped")
	}
	if ctl.Plane() != 4 {
		t.Errorf("plane = %d, want clamped 4", ctl.Plane())
	}

	// Ranges restored verbatim even though they exceed the new bounds.
	if got := ctl.Ranges().Capture(); got != saved {
		t.Errorf("ranges = %+v, want preserved %+v", got, saved)
	}
	if got := ctl.Contours().Strings(); !reflect.DeepEqual(got, []string{"1.0", "2.5"}) {
		t.Errorf("contours = %v, want preserved [1.0 2.5]", got)
	}
	if surface.lastSlice != ctl.Slice() {
		t.Error("replacement slice not rendered")
	}

	// Only the explicit clamp trims them to the new cube.
	if err := ctl.Handle(ClampRangesEvent{}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	r := ctl.Ranges().Capture()
	if r.X.Max > 0.002 || r.Y.Max > 0.002 {
		t.Errorf("clamp left ranges outside the new cube: %+v", r)
	}
}

func TestController_ReplaceNilKeepsView(t *testing.T) {
	ctl, _ := newTestController(t, Options{})
	slice := ctl.Slice()

	if err := ctl.Handle(CubeReplacedEvent{}); err == nil {
		t.Fatal("nil replacement accepted")
	}
	if ctl.Slice() != slice || ctl.State() != StateReady {
		t.Error("failed replacement corrupted the view")
	}
}

// =============================================================================
// LIFECYCLE AND FAILURE TESTS
// =============================================================================

func TestController_Dispose(t *testing.T) {
	ctl, _ := newTestController(t, Options{})

	ctl.Dispose()
	if ctl.State() != StateDisposed {
		t.Errorf("state = %v, want disposed", ctl.State())
	}
	if ctl.Slice() != nil {
		t.Error("slice kept after dispose")
	}
	for _, ev := range []Event{
		VelocityEvent{Velocity: 1},
		CursorMoveEvent{X: 60, Y: 30},
		ModeToggleEvent{},
		ZoomEvent{Reset: true},
	} {
		if err := ctl.Handle(ev); !errors.Is(err, ErrDisposed) {
			t.Errorf("Handle(%T) = %v, want ErrDisposed", ev, err)
		}
	}
}

func TestController_RenderFailureSwallowed(t *testing.T) {
	ctl, surface := newTestController(t, Options{})

	var logged strings.Builder
	ctl.logf = func(format string, args ...any) {
		fmt.Fprintf(&logged, format+"\n", args...)
	}

	surface.err = errors.New("backend not ready")
	if err := ctl.Handle(ModeToggleEvent{}); err != nil {
		t.Fatalf("render failure escaped Handle: %v", err)
	}
	if !ctl.Integrated() {
		t.Error("mode not toggled despite render failure")
	}
	if !strings.Contains(logged.String(), "render failed") {
		t.Errorf("failure not logged: %q", logged.String())
	}

	// The next interaction retries against the recovered backend.
	surface.err = nil
	before := surface.renders
	if err := ctl.Handle(ModeToggleEvent{}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if surface.renders != before+1 {
		t.Error("recovered backend not re-rendered")
	}
}

func TestController_FrameSelectRefreshesReadout(t *testing.T) {
	ctl, _ := newTestController(t, Options{})

	if err := ctl.Handle(CursorMoveEvent{X: 60, Y: 30}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if err := ctl.Handle(FrameSelectEvent{Frame: wcs.FrameGrid}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if ctl.Frame() != wcs.FrameGrid {
		t.Errorf("frame = %v, want grid", ctl.Frame())
	}
	if text := ctl.Readout().Text; !strings.HasPrefix(text, "col ") {
		t.Errorf("readout %q not refreshed into the grid frame", text)
	}
}

func TestController_PrimaryFedVoxels(t *testing.T) {
	primary := &fakeSurface3D{}
	surface := newFakeSurface()
	c := newViewCube(t, 4, 4, 21, defaultMeta())
	ctl, err := NewController(c, surface, Options{Primary: primary})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	if len(primary.samples) != c.Len() {
		t.Fatalf("primary got %d voxels, want %d", len(primary.samples), c.Len())
	}

	replacement := newViewCube(t, 2, 2, 3, defaultMeta())
	if err := ctl.Handle(CubeReplacedEvent{Cube: replacement}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if len(primary.samples) != replacement.Len() {
		t.Errorf("primary got %d voxels after replace, want %d",
			len(primary.samples), replacement.Len())
	}
}

func TestController_PrimaryFailureSwallowed(t *testing.T) {
	primary := &fakeSurface3D{samplesErr: errors.New("backend not ready")}
	surface := newFakeSurface()
	c := newViewCube(t, 4, 4, 5, defaultMeta())

	ctl, err := NewController(c, surface, Options{Primary: primary})
	if err != nil {
		t.Fatalf("3D upload failure aborted construction: %v", err)
	}
	if ctl.State() != StateReady {
		t.Errorf("state = %v, want ready", ctl.State())
	}
}

func TestController_SyncToggleRouted(t *testing.T) {
	sync := NewSynchronizer(&fakeSurface3D{})
	ctl, _ := newTestController(t, Options{Sync: sync})

	if err := ctl.Handle(SyncToggleEvent{}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if sync.Linked() {
		t.Error("toggle did not unlink")
	}
	if ctl.Sync() != sync {
		t.Error("synchronizer not exposed")
	}
}

type bogusEvent struct{}

func (bogusEvent) isEvent() {}

func TestController_UnknownEventRejected(t *testing.T) {
	ctl, _ := newTestController(t, Options{})

	if err := ctl.Handle(bogusEvent{}); err == nil {
		t.Error("unknown event accepted")
	}
}
