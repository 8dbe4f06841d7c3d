// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// DebugLog is an optional file-backed logger. The zero value is disabled:
// Printf is a no-op until Open succeeds, so call sites never need to guard
// against a nil sink. The TUI cannot log to stderr while the alternate
// screen is active, hence a file.
type DebugLog struct {
	file   *os.File
	logger *log.Logger
}

// Open starts logging to the given path, creating parent directories as
// needed. The file is appended to, never truncated.
func (d *DebugLog) Open(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open debug log: %w", err)
	}
	d.file = f
	d.logger = log.New(f, "", log.LstdFlags)
	return nil
}

// Enabled reports whether Printf currently writes anywhere.
func (d *DebugLog) Enabled() bool { return d.logger != nil }

// Printf logs one formatted line when the log is open, and otherwise does
// nothing.
func (d *DebugLog) Printf(format string, args ...any) {
	if d.logger != nil {
		d.logger.Printf(format, args...)
	}
}

// Close flushes and closes the log file. Safe to call when never opened.
func (d *DebugLog) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	d.logger = nil
	return err
}
