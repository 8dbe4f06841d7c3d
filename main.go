// cubetui - a terminal viewer for spectral-line data cubes.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cubetui/internal/cli"
	"github.com/jeranaias/cubetui/internal/config"
	"github.com/jeranaias/cubetui/internal/cube"
	"github.com/jeranaias/cubetui/internal/loader"
	"github.com/jeranaias/cubetui/internal/shell"
	"github.com/jeranaias/cubetui/internal/ui/viewer"
	"github.com/jeranaias/cubetui/internal/util"
)

// Version information (set at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitConfigError)
	}
	applyArgs(cfg, args)

	if err := run(cmd, cfg, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}

// applyArgs layers command-line overrides on top of the loaded config.
func applyArgs(cfg *config.Config, args cli.Args) {
	if args.Palette != "" {
		cfg.Palette = args.Palette
	}
	if args.Frame != "" {
		cfg.Frame = args.Frame
	}
	if args.NoWatch {
		cfg.WatchReload = false
	}
	if args.Debug {
		cfg.Debug = true
	}
}

func run(cmd cli.Command, cfg *config.Config, args cli.Args) error {
	switch cmd {
	case cli.CmdView, cli.CmdDemo:
		return runViewer(cfg, args, cmd == cli.CmdDemo)
	case cli.CmdShell:
		return runShell(cfg, args)
	case cli.CmdInfo:
		return cli.HandleInfo(cfg, args)
	case cli.CmdSlice:
		return cli.HandleSlice(cfg, args)
	case cli.CmdSpectrum:
		return cli.HandleSpectrum(cfg, args)
	case cli.CmdExport:
		return cli.HandleExport(cfg, args)
	case cli.CmdViews:
		return cli.HandleViews(cfg, args)
	case cli.CmdVersion:
		cli.PrintVersion()
		return nil
	default:
		cli.PrintUsage()
		return nil
	}
}

// openTarget resolves the cube for the interactive surfaces: a named
// file, or the built-in demo when none was given.
func openTarget(args cli.Args, forceDemo bool) (string, *cube.Cube, error) {
	if forceDemo || args.File == "" {
		c, err := loader.Demo()
		return "", c, err
	}
	c, err := loader.Open(args.File)
	return args.File, c, err
}

func runViewer(cfg *config.Config, args cli.Args, demo bool) error {
	path, c, err := openTarget(args, demo)
	if err != nil {
		return err
	}

	// The alt screen owns stdout, so diagnostics go to a file.
	var dbg util.DebugLog
	if cfg.Debug {
		if err := dbg.Open(cfg.DebugLogPath()); err == nil {
			defer dbg.Close()
		}
	}

	m, err := viewer.New(cfg, path, c, &dbg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func runShell(cfg *config.Config, args cli.Args) error {
	path, c, err := openTarget(args, false)
	if err != nil {
		return err
	}
	sh, err := shell.New(cfg, path, c, os.Stdout)
	if err != nil {
		return err
	}
	defer sh.Close()
	return sh.Run()
}
