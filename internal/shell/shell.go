// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jeranaias/cubetui/internal/config"
	"github.com/jeranaias/cubetui/internal/cube"
	"github.com/jeranaias/cubetui/internal/export"
	"github.com/jeranaias/cubetui/internal/render"
	"github.com/jeranaias/cubetui/internal/store"
	"github.com/jeranaias/cubetui/internal/util"
	"github.com/jeranaias/cubetui/internal/view"
	"github.com/jeranaias/cubetui/internal/wcs"
)

// errQuit signals a clean exit from the command loop.
var errQuit = errors.New("quit")

// Shell drives the slice view engine from a line-oriented prompt. It
// shares the controller, render surfaces, and saved-view store with the
// full-screen viewer, so every command maps onto the same event union.
type Shell struct {
	cfg      *config.Config
	ctl      *view.Controller
	heatmap  *render.Heatmap
	primary  *render.Scatter
	sync     *view.Synchronizer
	views    *store.Store // nil when the views database could not open
	cubePath string
	palette  string
	out      io.Writer
}

// New builds a shell over an already-loaded cube, rendering into an
// off-screen heatmap that the show command prints.
func New(cfg *config.Config, path string, c *cube.Cube, out io.Writer) (*Shell, error) {
	cmap := cfg.Colormap()
	heatmap := render.NewHeatmap(cmap)
	heatmap.SetSize(78, 20)

	primary := render.NewScatter(cmap)
	primary.SetCutoff(cfg.ScatterCutoff)
	primary.SetSize(40, 12)

	sync := view.NewSynchronizer(primary)
	sync.SetLinked(cfg.Linked)
	primary.OnFrameComplete(sync.FrameComplete)

	ctl, err := view.NewController(c, heatmap, view.Options{
		Sync:    sync,
		Primary: primary,
		Frame:   cfg.DisplayFrame(),
	})
	if err != nil {
		return nil, err
	}

	s := &Shell{
		cfg:      cfg,
		ctl:      ctl,
		heatmap:  heatmap,
		primary:  primary,
		sync:     sync,
		cubePath: path,
		palette:  cmap.Name(),
		out:      out,
	}
	if views, err := store.Open(cfg.ViewsDBPath()); err == nil {
		s.views = views
	}
	return s, nil
}

// SetSize resizes the off-screen heatmap, in terminal cells.
func (s *Shell) SetSize(width, lines int) {
	s.heatmap.SetSize(width, lines)
	s.ctl.Handle(view.PlaneChangeEvent{Plane: s.ctl.Plane(), Force: true})
}

// Close releases the store and controller.
func (s *Shell) Close() {
	if s.views != nil {
		s.views.Close()
	}
	s.ctl.Dispose()
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

// Exec runs one command line. It returns errQuit on quit/exit; any other
// error is a user-facing message and leaves the shell running.
func (s *Shell) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		s.printf("%s", strings.TrimSpace(usage))
	case "info":
		s.cmdInfo()
	case "show":
		fmt.Fprint(s.out, s.heatmap.View())
	case "plane", "p":
		return s.cmdPlane(args)
	case "vel", "v":
		return s.cmdVelocity(args)
	case "mode", "i":
		return s.cmdMode()
	case "frame", "f":
		return s.cmdFrame(args)
	case "cursor":
		return s.cmdCursor(args)
	case "contour", "c":
		return s.cmdContour(args)
	case "range", "r":
		return s.cmdRange(args)
	case "clamp":
		return s.dispatch(view.ClampRangesEvent{})
	case "zoom", "z":
		return s.cmdZoom(args)
	case "link":
		return s.cmdLink(args)
	case "rot":
		return s.cmdRotate(args)
	case "save":
		return s.cmdSave(args)
	case "views":
		return s.cmdViews()
	case "load":
		return s.cmdLoad(args)
	case "delview":
		return s.cmdDelView(args)
	case "export":
		return s.cmdExport(args)
	case "spectrum":
		return s.cmdSpectrum(args)
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return nil
}

func (s *Shell) dispatch(ev view.Event) error {
	return s.ctl.Handle(ev)
}

// =============================================================================
// STATE COMMANDS
// =============================================================================

func (s *Shell) cmdInfo() {
	c := s.ctl.Cube()
	meta := c.Meta
	source := meta.Source
	if source == "" {
		source = "untitled cube"
	}
	s.printf("source:   %s", source)
	s.printf("size:     %d x %d x %d (cols x rows x planes)", c.Cols(), c.Rows(), c.Planes())
	s.printf("x range:  %s .. %s", util.Ftoa(meta.XBounds.Start), util.Ftoa(meta.XBounds.End))
	s.printf("y range:  %s .. %s", util.Ftoa(meta.YBounds.Start), util.Ftoa(meta.YBounds.End))
	s.printf("velocity: %s .. %s km/s", util.Ftoa(meta.VBounds.Start), util.Ftoa(meta.VBounds.End))
	if meta.FluxUnit != "" {
		s.printf("flux:     %s", meta.FluxUnit)
	}
	if meta.Reduced {
		s.printf("reduced:  yes")
	}
	mode := "single-plane"
	if s.ctl.Integrated() {
		mode = "integrated (moment-0)"
	}
	s.printf("mode:     %s, plane %d/%d at %s km/s", mode,
		s.ctl.Plane(), c.Planes()-1, util.Ftoa(s.ctl.Velocity()))
	s.printf("frame:    %s", s.ctl.Frame())
}

func (s *Shell) cmdPlane(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: plane <index>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("plane: %q is not an integer", args[0])
	}
	if err := s.dispatch(view.PlaneChangeEvent{Plane: n}); err != nil {
		return err
	}
	s.printf("plane %d  %s km/s", s.ctl.Plane(), util.Ftoa(s.ctl.Velocity()))
	return nil
}

func (s *Shell) cmdVelocity(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: vel <km/s>")
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("vel: %q is not a number", args[0])
	}
	if err := s.dispatch(view.VelocityEvent{Velocity: v}); err != nil {
		return err
	}
	// Report the velocity actually shown, snapped to the nearest plane.
	s.printf("plane %d  %s km/s", s.ctl.Plane(), util.Ftoa(s.ctl.Velocity()))
	return nil
}

func (s *Shell) cmdMode() error {
	if err := s.dispatch(view.ModeToggleEvent{}); err != nil {
		return err
	}
	if s.ctl.Integrated() {
		s.printf("integrated (moment-0)")
	} else {
		s.printf("single-plane, plane %d", s.ctl.Plane())
	}
	return nil
}

func (s *Shell) cmdFrame(args []string) error {
	frame := s.ctl.Frame().Next()
	if len(args) == 1 {
		f, err := wcs.ParseFrame(args[0])
		if err != nil {
			return err
		}
		frame = f
	}
	if err := s.dispatch(view.FrameSelectEvent{Frame: frame}); err != nil {
		return err
	}
	s.printf("frame %s", s.ctl.Frame())
	return nil
}

func (s *Shell) cmdCursor(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: cursor <x> <y> (device coordinates)")
	}
	x, err1 := strconv.ParseFloat(args[0], 64)
	y, err2 := strconv.ParseFloat(args[1], 64)
	if err1 != nil || err2 != nil {
		return errors.New("cursor: coordinates must be numbers")
	}
	if err := s.dispatch(view.CursorMoveEvent{X: x, Y: y}); err != nil {
		return err
	}
	text := s.ctl.Readout().Text
	if text == "" {
		text = "(outside panel)"
	}
	s.printf("%s", text)
	return nil
}

func (s *Shell) cmdContour(args []string) error {
	if len(args) == 0 {
		levels := s.ctl.Contours().Strings()
		if len(levels) == 0 {
			s.printf("no contours")
			return nil
		}
		s.printf("contours: %s", strings.Join(levels, ", "))
		return nil
	}
	switch args[0] {
	case "add":
		if len(args) < 2 {
			return errors.New("usage: contour add <level>[,<level>...]")
		}
		return s.dispatch(view.ContourEditEvent{
			Op:    view.ContourAdd,
			Input: strings.Join(args[1:], ","),
		})
	case "del":
		if len(args) != 2 {
			return errors.New("usage: contour del <index>")
		}
		i, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("contour del: %q is not an index", args[1])
		}
		return s.dispatch(view.ContourEditEvent{Op: view.ContourRemove, Index: i})
	case "auto":
		return s.dispatch(view.ContourEditEvent{Op: view.ContourAuto})
	case "clear":
		return s.dispatch(view.ContourEditEvent{Op: view.ContourClear})
	}
	return fmt.Errorf("contour: unknown subcommand %q", args[0])
}

func (s *Shell) cmdRange(args []string) error {
	if len(args) == 0 {
		for _, a := range []view.Axis{view.AxisX, view.AxisY, view.AxisSpectral} {
			r := s.ctl.Ranges().Get(a)
			s.printf("%-8s %s .. %s", a, util.Ftoa(r.Min), util.Ftoa(r.Max))
		}
		return nil
	}
	if len(args) != 3 {
		return errors.New("usage: range <x|y|spectral> <min> <max>")
	}
	var axis view.Axis
	switch args[0] {
	case "x":
		axis = view.AxisX
	case "y":
		axis = view.AxisY
	case "spectral", "v":
		axis = view.AxisSpectral
	default:
		return fmt.Errorf("range: unknown axis %q", args[0])
	}
	min, err1 := strconv.ParseFloat(args[1], 64)
	max, err2 := strconv.ParseFloat(args[2], 64)
	if err1 != nil || err2 != nil {
		return errors.New("range: bounds must be numbers")
	}
	return s.dispatch(view.RangeChangeEvent{Axis: axis, Min: min, Max: max})
}

func (s *Shell) cmdZoom(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: zoom <in|out|reset>")
	}
	switch args[0] {
	case "in":
		return s.dispatch(view.ZoomEvent{Factor: 1.25})
	case "out":
		return s.dispatch(view.ZoomEvent{Factor: 0.8})
	case "reset":
		return s.dispatch(view.ZoomEvent{Reset: true})
	}
	return fmt.Errorf("zoom: unknown direction %q", args[0])
}

func (s *Shell) cmdLink(args []string) error {
	if len(args) == 1 {
		switch args[0] {
		case "on":
			s.sync.SetLinked(true)
		case "off":
			s.sync.SetLinked(false)
		default:
			return fmt.Errorf("link: want on or off, got %q", args[0])
		}
	} else if err := s.dispatch(view.SyncToggleEvent{}); err != nil {
		return err
	}
	if s.sync.Linked() {
		s.printf("linked")
	} else {
		s.printf("unlinked")
	}
	return nil
}

func (s *Shell) cmdRotate(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: rot <dx> <dz> (radians)")
	}
	dx, err1 := strconv.ParseFloat(args[0], 64)
	dz, err2 := strconv.ParseFloat(args[1], 64)
	if err1 != nil || err2 != nil {
		return errors.New("rot: angles must be numbers")
	}
	s.primary.Rotate(dx, dz)
	p := s.primary.Projection()
	s.printf("camera rotx=%s rotz=%s zoom=%s",
		util.Ftoa(p.RotX), util.Ftoa(p.RotZ), util.Ftoa(p.Zoom))
	return nil
}

// =============================================================================
// SAVED VIEWS
// =============================================================================

func (s *Shell) cmdSave(args []string) error {
	if s.views == nil {
		return errors.New("saved views unavailable")
	}
	if len(args) == 0 {
		return errors.New("usage: save <title>")
	}
	title := strings.Join(args, " ")
	sv := store.Capture(s.ctl, title, s.cubePath, s.palette, "")
	if err := s.views.Save(sv); err != nil {
		return err
	}
	s.printf("saved %q", title)
	return nil
}

func (s *Shell) cmdViews() error {
	if s.views == nil {
		return errors.New("saved views unavailable")
	}
	list, err := s.views.List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		s.printf("no saved views")
		return nil
	}
	for _, v := range list {
		mode := fmt.Sprintf("plane %d", v.Plane)
		if v.Integrated {
			mode = "moment-0"
		}
		s.printf("%-24s %s  %s  %s", v.Title, v.Frame, mode,
			v.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func (s *Shell) cmdLoad(args []string) error {
	if s.views == nil {
		return errors.New("saved views unavailable")
	}
	if len(args) == 0 {
		return errors.New("usage: load <title>")
	}
	v, err := s.views.Get(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if err := store.Apply(v, s.ctl); err != nil {
		return err
	}
	s.printf("loaded %q", v.Title)
	return nil
}

func (s *Shell) cmdDelView(args []string) error {
	if s.views == nil {
		return errors.New("saved views unavailable")
	}
	if len(args) == 0 {
		return errors.New("usage: delview <title>")
	}
	title := strings.Join(args, " ")
	if err := s.views.Delete(title); err != nil {
		return err
	}
	s.printf("deleted %q", title)
	return nil
}

// =============================================================================
// EXPORT
// =============================================================================

func (s *Shell) cmdExport(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: export <png|csv|json|stl> [arg]")
	}
	opts := &export.Options{OutputDir: s.cfg.ExportDir, Timestamp: true}
	base := s.ctl.Cube().Meta.Source
	if base == "" {
		base = "cube"
	}

	var exp export.Exporter
	switch args[0] {
	case "png":
		exp = export.NewPNGExporter(s.heatmap.Palette(), opts)
	case "csv":
		exp = export.NewCSVExporter(opts)
	case "json":
		exp = export.NewJSONExporter(opts)
	case "stl":
		frac := s.cfg.IsoFraction
		if len(args) == 2 {
			f, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("export stl: %q is not a fraction", args[1])
			}
			frac = f
		}
		path := filepath.Join(s.cfg.ExportDir, base+".stl")
		if err := export.WriteSTLAtFraction(s.ctl.Cube(), frac, path); err != nil {
			return err
		}
		s.printf("wrote %s", path)
		return nil
	default:
		return fmt.Errorf("export: unknown format %q", args[0])
	}

	path, err := export.ExportToFile(s.ctl.Slice(), base, exp, opts)
	if err != nil {
		return err
	}
	s.printf("wrote %s", path)
	return nil
}

func (s *Shell) cmdSpectrum(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: spectrum <col> <row>")
	}
	col, err1 := strconv.Atoi(args[0])
	row, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return errors.New("spectrum: coordinates must be integers")
	}
	sp, err := export.SpectrumAt(s.ctl.Cube(), col, row)
	if err != nil {
		return err
	}
	for i, v := range sp.Velocities {
		s.printf("%10.3f  %s", v, util.FormatFlux(sp.Flux[i]))
	}
	return nil
}
