// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the cubetui TUI.
//
// All colors use Lip Gloss AdaptiveColor for automatic light/dark
// detection; the Theme bundles the composed styles the viewer and its
// components draw with.
//
// # Key Types
//
//   - Theme: every styled component, sized to the current terminal
//   - NewTheme: detects the color profile and builds the default theme
package styles
