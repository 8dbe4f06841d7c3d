// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// usage is the command reference printed by help.
const usage = `
commands:
  show                       print the current slice
  info                       cube and view summary
  plane <n>                  jump to spectral plane n
  vel <km/s>                 jump to the plane nearest a velocity
  mode                       toggle single-plane / integrated (moment-0)
  frame [name]               cycle or set the readout frame
  cursor <x> <y>             position + flux readout at device coords
  contour [add|del|auto|clear]   edit contour levels
  range [axis min max]       show or set axis sub-ranges
  clamp                      clamp ranges to cube bounds
  zoom <in|out|reset>        scale the visible window
  link [on|off]              toggle linked 3D views
  rot <dx> <dz>              rotate the 3D companion camera
  save <title>               save the current view
  views / load / delview     manage saved views
  export <png|csv|json|stl>  write the slice (or isosurface) to a file
  spectrum <col> <row>       print the flux profile at a cell
  quit                       exit
`

// commandNames feeds tab completion.
var commandNames = []string{
	"show", "info", "plane", "vel", "mode", "frame", "cursor", "contour",
	"range", "clamp", "zoom", "link", "rot", "save", "views", "load",
	"delview", "export", "spectrum", "help", "quit", "exit",
}

// Run drives the interactive prompt until quit or EOF. History persists
// across sessions in the config directory.
func (s *Shell) Run() error {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(prefix string) []string {
		var out []string
		for _, name := range commandNames {
			if strings.HasPrefix(name, prefix) {
				out = append(out, name)
			}
		}
		return out
	})
	defer func() {
		s.saveHistory(line)
		line.Close()
	}()
	s.loadHistory(line)

	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 10 && h > 6 {
		s.SetSize(w-2, h-4)
	}

	src := s.ctl.Cube().Meta.Source
	if src == "" {
		src = "demo cube"
	}
	s.printf("cubetui shell: %s (%d planes, help for commands)",
		src, s.ctl.Cube().Planes())

	for {
		input, err := line.Prompt("cube> ")
		if err != nil {
			// ErrPromptAborted is Ctrl+C; anything else is EOF. Both exit
			// cleanly with history saved.
			if err != liner.ErrPromptAborted {
				fmt.Fprintln(s.out)
			}
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if err := s.Exec(input); err != nil {
			if err == errQuit {
				return nil
			}
			s.printf("error: %v", err)
		}
	}
}

func (s *Shell) loadHistory(line *liner.State) {
	if f, err := os.Open(s.cfg.HistoryPath()); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
}

func (s *Shell) saveHistory(line *liner.State) {
	f, err := os.OpenFile(s.cfg.HistoryPath(), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
