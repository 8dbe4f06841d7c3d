// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading for cubetui.
//
// Configuration comes from three layers, in order of precedence:
//   - CUBETUI_* environment variables
//   - ~/.cubetui/config.toml
//   - Built-in defaults
//
// # Key Types
//
//   - Config: every user-tunable setting, TOML-tagged
//   - Load: defaults + config file + environment overrides
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    // fall back to defaults, the error is advisory
//	    cfg = config.Default()
//	}
package config
