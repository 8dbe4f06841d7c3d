// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package shell is the line-oriented counterpart to the full-screen
// viewer. It drives the same slice view controller from a readline-style
// prompt, which makes it usable over plain ssh sessions and scriptable
// via piped stdin.
//
// # Key Types
//
//   - Shell: command interpreter bound to one loaded cube
//
// # Usage
//
//	sh, err := shell.New(cfg, path, c, os.Stdout)
//	if err != nil { ... }
//	defer sh.Close()
//	return sh.Run()
package shell
