// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable view widgets of the cubetui
// TUI: the status bar readout, the velocity scrubber, the contour and
// range side panels, and the help overlay.
//
// Components are pure renderers: they hold presentation state only and
// draw from values the viewer model passes in, so every piece of engine
// state keeps a single owner.
package components
