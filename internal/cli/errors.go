// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - unified error handling for all CLI commands.
//
// Every handler returns an error instead of printing and exiting; main
// maps the error to an exit code in one place.
package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/cubetui/internal/loader"
	"github.com/jeranaias/cubetui/internal/store"
)

// Exit codes for different error categories.
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitFormatError  = 4
	ExitNotFound     = 7
)

// UsageError indicates invalid command usage or arguments.
type UsageError struct {
	Command string
	Reason  string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Reason)
}

// GetExitCode maps an error to its process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsageError
	}
	var format *loader.UnknownFormatError
	if errors.As(err, &format) {
		return ExitFormatError
	}
	if errors.Is(err, store.ErrViewNotFound) {
		return ExitNotFound
	}
	return ExitGeneralError
}
