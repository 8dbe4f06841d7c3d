// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the cubetui application.
//
// This package contains common helper functions used throughout the
// application for display-width string math, numeric formatting, debug
// logging, and file operations.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: display-width aware truncation with ellipsis
//   - PadWidth: display-width aware right padding
//
// Numeric Formatting:
//   - FormatFloat: fixed-precision float formatting
//   - Ftoa: canonical shortest float formatting
//
// Debug Logging:
//   - DebugLog: optional file-backed debug logger
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	// Truncate long readouts safely for the status bar
//	display := util.TruncateWidth(readout, 50)
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0644)
package util
