// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses command-line arguments and runs the one-shot
// commands: info, slice, spectrum, export, and saved-view management.
// The interactive surfaces live in ui/viewer and shell; main dispatches
// between them based on the Command returned by Parse.
package cli
