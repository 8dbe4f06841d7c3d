// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package viewer implements the Bubble Tea front end of cubetui: the
// Model/Update/View loop that routes terminal input into the slice view
// controller's event union and composes the heatmap, 3D scatter, side
// panels, scrubber, and status bar into one screen.
//
// The Bubble Tea update loop is the single interaction goroutine the
// engine's concurrency model requires; the file watcher goroutine only
// posts messages into it.
//
// # Key Types
//
//   - Model: the application state, one per loaded cube
//   - New: builds the model over a loaded cube
//
// # Usage
//
//	m, err := viewer.New(cfg, path, c)
//	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
//	_, err = p.Run()
package viewer
