// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewer

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cubetui/internal/config"
	"github.com/jeranaias/cubetui/internal/cube"
	"github.com/jeranaias/cubetui/internal/loader"
	"github.com/jeranaias/cubetui/internal/render"
	"github.com/jeranaias/cubetui/internal/store"
	"github.com/jeranaias/cubetui/internal/ui/components"
	"github.com/jeranaias/cubetui/internal/ui/styles"
	"github.com/jeranaias/cubetui/internal/util"
	"github.com/jeranaias/cubetui/internal/view"
)

// promptKind selects what the text prompt commits to on enter.
type promptKind int

const (
	promptNone promptKind = iota
	promptContour
	promptVelocity
	promptSaveTitle
)

// Model is the Bubble Tea application state for one cube view.
type Model struct {
	cfg   *config.Config
	log   *util.DebugLog
	theme *styles.Theme

	cubePath string
	ctl      *view.Controller

	heatmap   *render.Heatmap
	primary   *render.Scatter
	secondary *render.Scatter
	sync      *view.Synchronizer

	statusbar *components.StatusBar
	scrubber  *components.Scrubber
	contours  *components.ContourPanel
	ranges    *components.RangePanel
	help      *components.HelpOverlay

	views *store.Store // nil when the views database could not open

	watcher loader.CubeWatcher
	reloads chan cubeReloadedMsg

	width  int
	height int

	showHelp bool
	prompt   promptKind
	input    textinput.Model
	errText  string
	errSeq   int

	palettes   []string
	paletteIdx int

	quitting bool
}

// New builds the viewer model over an already-loaded cube. The path is
// kept for the file watcher and saved views; pass "" for the built-in
// demo cube.
func New(cfg *config.Config, path string, c *cube.Cube, dbg *util.DebugLog) (*Model, error) {
	theme := styles.NewTheme(80, 24)

	cmap := cfg.Colormap()
	heatmap := render.NewHeatmap(cmap)
	primary := render.NewScatter(cmap)
	primary.SetCutoff(cfg.ScatterCutoff)
	secondary := render.NewScatter(cmap)
	secondary.SetCutoff(cfg.ScatterCutoff)

	sync := view.NewSynchronizer(primary)
	sync.SetLinked(cfg.Linked)
	sync.SetLogf(dbg.Printf)
	sync.AddSecondary(secondary)
	primary.OnFrameComplete(sync.FrameComplete)

	// The controller feeds only the primary; the secondary shows the same
	// voxel set under its synchronized camera.
	if err := secondary.SetSamples(c.Voxels()); err != nil {
		dbg.Printf("viewer: secondary voxel feed: %v", err)
	}

	ctl, err := view.NewController(c, heatmap, view.Options{
		Sync:    sync,
		Primary: primary,
		Frame:   cfg.DisplayFrame(),
		Logf:    dbg.Printf,
	})
	if err != nil {
		return nil, err
	}

	m := &Model{
		cfg:       cfg,
		log:       dbg,
		theme:     theme,
		cubePath:  path,
		ctl:       ctl,
		heatmap:   heatmap,
		primary:   primary,
		secondary: secondary,
		sync:      sync,
		statusbar: components.NewStatusBar(theme),
		scrubber:  components.NewScrubber(theme),
		contours:  components.NewContourPanel(theme),
		ranges:    components.NewRangePanel(theme),
		help:      components.NewHelpOverlay(),
		reloads:   make(chan cubeReloadedMsg, 1),
		palettes:  render.Colormaps(),
	}
	for i, name := range m.palettes {
		if name == cmap.Name() {
			m.paletteIdx = i
		}
	}
	m.input = textinput.New()
	m.input.CharLimit = 120

	if views, err := store.Open(cfg.ViewsDBPath()); err == nil {
		m.views = views
	} else {
		dbg.Printf("viewer: saved views unavailable: %v", err)
	}

	if path != "" && cfg.WatchReload {
		m.startWatcher(path)
	}
	return m, nil
}

// startWatcher begins watching the cube file. Reload failures surface in
// the status bar rather than replacing the current cube.
func (m *Model) startWatcher(path string) {
	w, err := loader.NewWatcher(path, func(c *cube.Cube, err error) {
		select {
		case m.reloads <- cubeReloadedMsg{cube: c, err: err}:
		default:
			// A reload is already pending; the newest file state will be
			// picked up by the next watcher event.
		}
	})
	if err != nil {
		m.log.Printf("viewer: cube watcher unavailable: %v", err)
		return
	}
	if err := w.Watch(); err != nil {
		m.log.Printf("viewer: cube watcher failed to start: %v", err)
		w.Close()
		return
	}
	m.watcher = w
}

// Init starts the reload listener.
func (m *Model) Init() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.waitForReload()
}

// waitForReload blocks on the reload channel as a Bubble Tea command,
// keeping all cube mutation on the update loop.
func (m *Model) waitForReload() tea.Cmd {
	return func() tea.Msg {
		return <-m.reloads
	}
}

// setError shows a transient error in the status bar and schedules its
// removal.
func (m *Model) setError(err error) tea.Cmd {
	m.errText = err.Error()
	m.errSeq++
	seq := m.errSeq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}

// dispatch routes one controller event and converts failures into status
// bar text, so engine errors degrade instead of crashing the session.
func (m *Model) dispatch(ev view.Event) tea.Cmd {
	if err := m.ctl.Handle(ev); err != nil {
		m.log.Printf("viewer: %v", err)
		return m.setError(err)
	}
	return nil
}

// cyclePalette switches heatmap and scatter palettes together.
func (m *Model) cyclePalette() {
	m.paletteIdx = (m.paletteIdx + 1) % len(m.palettes)
	cmap, err := render.ParseColormap(m.palettes[m.paletteIdx])
	if err != nil {
		return
	}
	m.heatmap.SetPalette(cmap)
	m.primary.SetPalette(cmap)
	m.secondary.SetPalette(cmap)
}

// saveView captures the controller state under the given title.
func (m *Model) saveView(title string) error {
	if m.views == nil {
		return fmt.Errorf("saved views unavailable")
	}
	sv := store.Capture(m.ctl, title, m.cubePath, m.palettes[m.paletteIdx], "")
	return m.views.Save(sv)
}

// Close releases the watcher, store, and controller.
func (m *Model) Close() {
	if m.watcher != nil {
		m.watcher.Close()
	}
	if m.views != nil {
		m.views.Close()
	}
	m.ctl.Dispose()
}
