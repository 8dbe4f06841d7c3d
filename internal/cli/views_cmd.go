// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/cubetui/internal/config"
	"github.com/jeranaias/cubetui/internal/store"
	"github.com/jeranaias/cubetui/internal/util"
)

// HandleViews manages the saved-view bookmarks from the command line.
func HandleViews(cfg *config.Config, args Args) error {
	s, err := store.Open(cfg.ViewsDBPath())
	if err != nil {
		return fmt.Errorf("open views database: %w", err)
	}
	defer s.Close()

	sub := args.Subcommand
	if sub == "" {
		sub = "list"
	}

	switch sub {
	case "list", "ls":
		return listViews(s)

	case "show":
		if args.Title == "" {
			return &UsageError{Command: "views", Reason: "usage: views show <title>"}
		}
		return showView(s, args.Title)

	case "delete", "del", "rm":
		if args.Title == "" {
			return &UsageError{Command: "views", Reason: "usage: views delete <title>"}
		}
		if err := s.Delete(args.Title); err != nil {
			return err
		}
		if !args.Quiet {
			fmt.Printf("deleted %q\n", args.Title)
		}
		return nil
	}
	return &UsageError{Command: "views",
		Reason: fmt.Sprintf("unknown subcommand %q (want list, show, or delete)", sub)}
}

func listViews(s *store.Store) error {
	list, err := s.List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("no saved views")
		return nil
	}
	for _, v := range list {
		mode := fmt.Sprintf("plane %d", v.Plane)
		if v.Integrated {
			mode = "moment-0"
		}
		fmt.Printf("%-24s %-10s %-10s %s\n", v.Title, v.Frame, mode,
			v.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func showView(s *store.Store, title string) error {
	v, err := s.Get(title)
	if err != nil {
		return err
	}
	fmt.Printf("title:    %s\n", v.Title)
	fmt.Printf("cube:     %s\n", v.CubePath)
	fmt.Printf("frame:    %s\n", v.Frame)
	if v.Integrated {
		fmt.Printf("mode:     moment-0\n")
	} else {
		fmt.Printf("mode:     plane %d\n", v.Plane)
	}
	fmt.Printf("palette:  %s\n", v.Palette)
	if levels := v.ContourLevels(); len(levels) > 0 {
		fmt.Printf("contours: %s\n", strings.Join(levels, ", "))
	}
	fmt.Printf("x range:  %s .. %s\n", util.Ftoa(v.XMin), util.Ftoa(v.XMax))
	fmt.Printf("y range:  %s .. %s\n", util.Ftoa(v.YMin), util.Ftoa(v.YMax))
	fmt.Printf("velocity: %s .. %s km/s\n", util.Ftoa(v.VMin), util.Ftoa(v.VMax))
	fmt.Printf("updated:  %s\n", v.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}
