// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store persists saved view configurations in SQLite.
//
// A saved view is the §3 data-model snapshot of one slice view: display
// frame, mode, plane, palette, contour levels, and the three axis
// sub-ranges, written in a fixed field order and restored by replaying
// the controller construction sequence.
//
// # Key Types
//
//   - SavedView: one persisted view configuration
//   - Store: CRUD over the views database
//
// # Usage
//
//	st, err := store.Open(cfg.ViewsDBPath())
//	defer st.Close()
//	sv := store.Capture(ctl, "ngc253 core")
//	err = st.Save(sv)
package store
