// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - argument parsing and command selection for cubetui.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdView Command = iota // full-screen viewer (default)
	CmdDemo                // viewer on the built-in synthetic cube
	CmdInfo
	CmdSlice
	CmdSpectrum
	CmdExport
	CmdShell
	CmdViews
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Debug   bool
	NoWatch bool
	Palette string
	Frame   string

	// Command-specific
	File        string // cube file (first positional argument)
	Subcommand  string
	Plane       int // -1 when not given
	Velocity    float64
	HasVelocity bool
	Integrated  bool
	Format      string
	Output      string
	Col, Row    int
	Title       string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `cubetui - terminal viewer for spectral-line data cubes

Cubetui slices 3D position-position-velocity cubes into terminal
heatmaps, with moment-0 integration, sky-coordinate readout across
five frames, contour overlays, linked 3D companion views, and
saved-view bookmarks.

Usage:
  cubetui [file]                  Open the viewer (FITS, NetCDF, or scene YAML)
  cubetui demo                    Viewer on the built-in synthetic cube
  cubetui info <file>             Print cube metadata and axis ranges
  cubetui slice <file>            Render one slice to stdout and exit
    --plane N                     Spectral plane (default: middle)
    --vel V                       Plane nearest velocity V km/s
    --integrated                  Moment-0 over the full velocity range
  cubetui spectrum <file> COL ROW Flux profile at a spatial cell
    --format table|csv|png        Output form (default: table)
    --output FILE                 Write to a file instead of stdout
  cubetui export <file>           Write the slice to a file
    --format png|csv|json|stl     Export format (default: png)
    --plane N / --vel V / --integrated   Slice selection, as above
    --output DIR                  Output directory (default: config export_dir)
  cubetui shell [file]            Line-oriented prompt on the same engine
  cubetui views [list|show|delete] [title]
                                  Manage saved views
  cubetui version                 Print version information
  cubetui help                    This text

Global Flags:
  --palette NAME  Heatmap colormap (viridis, magma, inferno, gray, ...)
  --frame NAME    Readout frame (equatorial, ecliptic, galactic, offset, grid)
  --no-watch      Disable live reload of the cube file
  -q, --quiet     Minimal output
  --debug         Write a debug log to the data directory

Examples:
  cubetui ngc1333_co.fits
  cubetui slice orion.nc --vel 8.5 --palette magma
  cubetui slice orion.nc --integrated > mom0.txt
  cubetui spectrum orion.nc 32 32 --format png --output spec.png
  cubetui export orion.nc --format stl --output ./models
  cubetui info survey_l1551.fits

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("cubetui version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses os.Args and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses command-line arguments and returns the command and
// args. Unknown leading words are treated as a cube path for the default
// viewer command.
func ParseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdView, args
	}

	first := remaining[0]
	cmd := strings.ToLower(first)
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "view":
		parseFileArg(&args, remaining)
		return CmdView, args

	case "demo":
		return CmdDemo, args

	case "info":
		parseFileArg(&args, remaining)
		return CmdInfo, args

	case "slice":
		parseSliceArgs(&args, remaining)
		return CmdSlice, args

	case "spectrum", "spec":
		parseSpectrumArgs(&args, remaining)
		return CmdSpectrum, args

	case "export":
		parseExportArgs(&args, remaining)
		return CmdExport, args

	case "shell", "repl":
		parseFileArg(&args, remaining)
		return CmdShell, args

	case "views", "bookmarks":
		parseViewsArgs(&args, remaining)
		return CmdViews, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		// Not a command: treat the word as the cube path for the viewer,
		// preserving its original spelling.
		args.File = first
		return CmdView, args
	}
}

// parseGlobalFlags extracts global flags and returns the remaining args.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	args := Args{Plane: -1, Col: -1, Row: -1}

	i := 0
	for i < len(argv) {
		arg := argv[i]

		switch arg {
		case "-q", "--quiet":
			args.Quiet = true
		case "--debug":
			args.Debug = true
		case "--no-watch":
			args.NoWatch = true
		case "--palette":
			if i+1 < len(argv) {
				i++
				args.Palette = argv[i]
			}
		case "--frame":
			if i+1 < len(argv) {
				i++
				args.Frame = argv[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--palette="):
				args.Palette = strings.TrimPrefix(arg, "--palette=")
			case strings.HasPrefix(arg, "--frame="):
				args.Frame = strings.TrimPrefix(arg, "--frame=")
			default:
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, args
}

// parseFileArg takes the first positional argument as the cube path.
func parseFileArg(args *Args, remaining []string) {
	for _, arg := range remaining {
		if !strings.HasPrefix(arg, "-") {
			args.File = arg
			return
		}
	}
}

// parseSliceSelection handles the flags shared by slice and export:
// --plane, --vel, --integrated.
func parseSliceSelection(args *Args, arg string, argv []string, i *int) bool {
	switch arg {
	case "--plane":
		if *i+1 < len(argv) {
			*i++
			if n, err := strconv.Atoi(argv[*i]); err == nil {
				args.Plane = n
			}
		}
	case "--vel", "--velocity":
		if *i+1 < len(argv) {
			*i++
			if v, err := strconv.ParseFloat(argv[*i], 64); err == nil {
				args.Velocity = v
				args.HasVelocity = true
			}
		}
	case "--integrated", "--mom0":
		args.Integrated = true
	default:
		switch {
		case strings.HasPrefix(arg, "--plane="):
			if n, err := strconv.Atoi(strings.TrimPrefix(arg, "--plane=")); err == nil {
				args.Plane = n
			}
		case strings.HasPrefix(arg, "--vel="):
			if v, err := strconv.ParseFloat(strings.TrimPrefix(arg, "--vel="), 64); err == nil {
				args.Velocity = v
				args.HasVelocity = true
			}
		default:
			return false
		}
	}
	return true
}

func parseSliceArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		if parseSliceSelection(args, arg, remaining, &i) {
			continue
		}
		if !strings.HasPrefix(arg, "-") && args.File == "" {
			args.File = arg
		}
	}
}

func parseSpectrumArgs(args *Args, remaining []string) {
	var positional []string
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		switch arg {
		case "--format":
			if i+1 < len(remaining) {
				i++
				args.Format = remaining[i]
			}
		case "--output", "-o":
			if i+1 < len(remaining) {
				i++
				args.Output = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--format="):
				args.Format = strings.TrimPrefix(arg, "--format=")
			case strings.HasPrefix(arg, "--output="):
				args.Output = strings.TrimPrefix(arg, "--output=")
			case !strings.HasPrefix(arg, "-"):
				positional = append(positional, arg)
			}
		}
	}
	if len(positional) > 0 {
		args.File = positional[0]
	}
	if len(positional) > 2 {
		if c, err := strconv.Atoi(positional[1]); err == nil {
			args.Col = c
		}
		if r, err := strconv.Atoi(positional[2]); err == nil {
			args.Row = r
		}
	}
}

func parseExportArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		if parseSliceSelection(args, arg, remaining, &i) {
			continue
		}
		switch arg {
		case "--format":
			if i+1 < len(remaining) {
				i++
				args.Format = remaining[i]
			}
		case "--output", "-o":
			if i+1 < len(remaining) {
				i++
				args.Output = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--format="):
				args.Format = strings.TrimPrefix(arg, "--format=")
			case strings.HasPrefix(arg, "--output="):
				args.Output = strings.TrimPrefix(arg, "--output=")
			case !strings.HasPrefix(arg, "-") && args.File == "":
				args.File = arg
			}
		}
	}
}

func parseViewsArgs(args *Args, remaining []string) {
	var positional []string
	for _, arg := range remaining {
		if !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
		}
	}
	if len(positional) > 0 {
		args.Subcommand = positional[0]
	}
	if len(positional) > 1 {
		args.Title = strings.Join(positional[1:], " ")
	}
}
