// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewer

import (
	"github.com/jeranaias/cubetui/internal/cube"
)

// cubeReloadedMsg arrives when the watched cube file changed and the
// loader produced a replacement cube (or failed trying).
type cubeReloadedMsg struct {
	cube *cube.Cube
	err  error
}

// statusClearMsg clears a transient error from the status bar.
type statusClearMsg struct{ seq int }
