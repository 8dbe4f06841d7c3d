// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewer

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cubetui/internal/view"
)

// Zoom factors for wheel and keyboard zoom steps.
const (
	zoomInFactor  = 1.25
	zoomOutFactor = 0.8
)

// Update is the single dispatch entry point of the interaction loop.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, m.dispatch(view.PlaneChangeEvent{Plane: m.ctl.Plane(), Force: true})

	case cubeReloadedMsg:
		return m, m.handleReload(msg)

	case statusClearMsg:
		if msg.seq == m.errSeq {
			m.errText = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}

	return m, nil
}

// handleReload swaps the cube in place. The controller restores the axis
// ranges and contour set across the rebuild; a failed reload keeps the
// current cube and reports in the status bar.
func (m *Model) handleReload(msg cubeReloadedMsg) tea.Cmd {
	listen := m.waitForReload()
	if msg.err != nil {
		m.log.Printf("viewer: reload failed: %v", msg.err)
		return tea.Batch(listen, m.setError(msg.err))
	}
	if cmd := m.dispatch(view.CubeReplacedEvent{Cube: msg.cube}); cmd != nil {
		return tea.Batch(listen, cmd)
	}
	if err := m.secondary.SetSamples(msg.cube.Voxels()); err != nil {
		m.log.Printf("viewer: secondary voxel feed: %v", err)
	}
	return listen
}

// =============================================================================
// KEYBOARD
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay swallows everything except its own dismissal.
	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	if m.contours.Editing {
		return m.handleContourEntry(msg)
	}
	if m.prompt != promptNone {
		return m.handlePromptEntry(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.Close()
		return m, tea.Quit

	case "?":
		m.showHelp = true

	// Spectral axis.
	case "left":
		return m, m.dispatch(view.PlaneChangeEvent{Plane: m.ctl.Plane() - 1})
	case "right":
		return m, m.dispatch(view.PlaneChangeEvent{Plane: m.ctl.Plane() + 1})
	case "shift+left":
		return m, m.dispatch(view.PlaneChangeEvent{Plane: m.ctl.Plane() - 10})
	case "shift+right":
		return m, m.dispatch(view.PlaneChangeEvent{Plane: m.ctl.Plane() + 10})
	case "g":
		return m, m.openPrompt(promptVelocity, "velocity (km/s): ")
	case "i":
		return m, m.dispatch(view.ModeToggleEvent{})

	// Display.
	case "f":
		return m, m.dispatch(view.FrameSelectEvent{Frame: m.ctl.Frame().Next()})
	case "p":
		m.cyclePalette()
	case "+", "=":
		return m, m.dispatch(view.ZoomEvent{Factor: zoomInFactor})
	case "-", "_":
		return m, m.dispatch(view.ZoomEvent{Factor: zoomOutFactor})
	case "0":
		return m, m.dispatch(view.ZoomEvent{Reset: true})

	// Contours.
	case "c":
		return m, m.contours.StartEditing()
	case "d":
		if !m.ctl.Contours().Empty() {
			return m, m.dispatch(view.ContourEditEvent{
				Op:    view.ContourRemove,
				Index: m.ctl.Contours().Selected(),
			})
		}
	case "a":
		return m, m.dispatch(view.ContourEditEvent{Op: view.ContourAuto})
	case "x":
		return m, m.dispatch(view.ContourEditEvent{Op: view.ContourClear})
	case "up":
		m.ctl.Contours().Select(m.ctl.Contours().Selected() - 1)
	case "down":
		m.ctl.Contours().Select(m.ctl.Contours().Selected() + 1)

	// Ranges.
	case "r":
		m.ranges.CycleAxis()
	case "[":
		return m, m.dispatch(m.ranges.Narrow(m.ctl.Ranges(), 0.2))
	case "]":
		return m, m.dispatch(m.ranges.Widen(m.ctl.Ranges(), 0.2))
	case "R":
		return m, m.dispatch(view.ClampRangesEvent{})

	// 3D companion camera. Repaints fire the frame-complete signal that
	// drives linked-view propagation.
	case "h":
		m.primary.Rotate(0, -0.1)
	case "l":
		m.primary.Rotate(0, 0.1)
	case "j":
		m.primary.Rotate(-0.1, 0)
	case "k":
		m.primary.Rotate(0.1, 0)
	case "o":
		m.primary.ResetCamera()
	case "L":
		return m, m.dispatch(view.SyncToggleEvent{})

	// Session.
	case "s":
		return m, m.openPrompt(promptSaveTitle, "save view as: ")
	}

	return m, nil
}

func (m *Model) handleContourEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.contours.StopEditing()
		return m, nil
	case "enter":
		input := m.contours.StopEditing()
		if input == "" {
			return m, nil
		}
		return m, m.dispatch(view.ContourEditEvent{Op: view.ContourAdd, Input: input})
	}
	return m, m.contours.Update(msg)
}

func (m *Model) openPrompt(kind promptKind, prompt string) tea.Cmd {
	m.prompt = kind
	m.input.Prompt = prompt
	m.input.SetValue("")
	return m.input.Focus()
}

func (m *Model) handlePromptEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt = promptNone
		m.input.Blur()
		return m, nil
	case "enter":
		kind := m.prompt
		value := strings.TrimSpace(m.input.Value())
		m.prompt = promptNone
		m.input.Blur()
		return m, m.commitPrompt(kind, value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) commitPrompt(kind promptKind, value string) tea.Cmd {
	if value == "" {
		return nil
	}
	switch kind {
	case promptVelocity:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return m.setError(err)
		}
		return m.dispatch(view.VelocityEvent{Velocity: v})
	case promptSaveTitle:
		if err := m.saveView(value); err != nil {
			return m.setError(err)
		}
	}
	return nil
}

// =============================================================================
// MOUSE
// =============================================================================

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Type {
	case tea.MouseWheelUp:
		return m.dispatch(view.ZoomEvent{Factor: zoomInFactor})
	case tea.MouseWheelDown:
		return m.dispatch(view.ZoomEvent{Factor: zoomOutFactor})

	case tea.MouseMotion, tea.MouseLeft:
		// Scrubber click scrubs directly to the plane under the pointer.
		if msg.Type == tea.MouseLeft && msg.Y == m.scrubberLine() {
			if p, ok := m.scrubber.PlaneForClick(m.width, m.ctl.Cube().Planes(),
				msg.X, m.ctl.Integrated()); ok {
				return m.dispatch(view.PlaneChangeEvent{Plane: p})
			}
			return nil
		}
		// Every other position resolves through the cursor pipeline; the
		// out-of-panel case yields the defined empty readout.
		dx := float64(msg.X) + 0.5
		dy := float64(msg.Y*2) + 1 // device rows run two per line
		return m.dispatch(view.CursorMoveEvent{X: dx, Y: dy})
	}
	return nil
}
