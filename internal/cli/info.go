// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/cubetui/internal/config"
	"github.com/jeranaias/cubetui/internal/cube"
	"github.com/jeranaias/cubetui/internal/loader"
	"github.com/jeranaias/cubetui/internal/util"
)

// HandleInfo prints cube metadata without opening the viewer.
func HandleInfo(cfg *config.Config, args Args) error {
	if args.File == "" {
		return &UsageError{Command: "info", Reason: "cube file required"}
	}
	c, err := loader.Open(args.File)
	if err != nil {
		return err
	}

	md := infoMarkdown(args.File, c)
	if args.Quiet {
		fmt.Print(md)
		return nil
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return nil
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return nil
	}
	fmt.Print(out)
	return nil
}

func infoMarkdown(path string, c *cube.Cube) string {
	meta := c.Meta
	source := meta.Source
	if source == "" {
		source = "untitled cube"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", source)
	fmt.Fprintf(&b, "`%s`\n\n", path)

	fmt.Fprintf(&b, "| Axis | Samples | Range |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| x | %d | %s .. %s |\n",
		c.Cols(), util.Ftoa(meta.XBounds.Start), util.Ftoa(meta.XBounds.End))
	fmt.Fprintf(&b, "| y | %d | %s .. %s |\n",
		c.Rows(), util.Ftoa(meta.YBounds.Start), util.Ftoa(meta.YBounds.End))
	fmt.Fprintf(&b, "| velocity | %d | %s .. %s km/s |\n\n",
		c.Planes(), util.Ftoa(meta.VBounds.Start), util.Ftoa(meta.VBounds.End))

	if meta.FluxUnit != "" {
		fmt.Fprintf(&b, "- flux unit: **%s**\n", meta.FluxUnit)
	}
	fmt.Fprintf(&b, "- channel width: %s km/s\n", util.Ftoa(meta.ChannelWidth))
	fmt.Fprintf(&b, "- pointing: RA %s, Dec %s (epoch %s)\n",
		util.Ftoa(meta.CenterRA), util.Ftoa(meta.CenterDec), util.Ftoa(meta.Epoch))
	if meta.Beam.Major > 0 {
		fmt.Fprintf(&b, "- beam: %s x %s rad at %s rad\n",
			util.Ftoa(meta.Beam.Major), util.Ftoa(meta.Beam.Minor),
			util.Ftoa(meta.Beam.PositionAngle))
	}
	if meta.Reduced {
		fmt.Fprintf(&b, "- pipeline-reduced data\n")
	}

	min, max := c.MinMax()
	fmt.Fprintf(&b, "- flux range: %s .. %s\n", util.FormatFlux(min), util.FormatFlux(max))
	return b.String()
}
