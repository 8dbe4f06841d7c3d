// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cubetui/internal/ui/styles"
	"github.com/jeranaias/cubetui/internal/view"
)

// ContourPanel lists the contour levels and hosts the entry field for
// new ones. The level data itself lives in the controller's LevelSet;
// the panel only mirrors it.
type ContourPanel struct {
	theme *styles.Theme
	input textinput.Model

	// Editing is true while the entry field has focus and captures keys.
	Editing bool
}

// NewContourPanel creates the panel with an unfocused entry field.
func NewContourPanel(theme *styles.Theme) *ContourPanel {
	ti := textinput.New()
	ti.Placeholder = "1.5, 3, 4.5"
	ti.Prompt = "+ "
	ti.CharLimit = 120
	return &ContourPanel{theme: theme, input: ti}
}

// StartEditing focuses the entry field.
func (p *ContourPanel) StartEditing() tea.Cmd {
	p.Editing = true
	p.input.SetValue("")
	return p.input.Focus()
}

// StopEditing blurs the entry field and returns its content.
func (p *ContourPanel) StopEditing() string {
	p.Editing = false
	p.input.Blur()
	return strings.TrimSpace(p.input.Value())
}

// Update forwards key events to the entry field while editing.
func (p *ContourPanel) Update(msg tea.Msg) tea.Cmd {
	if !p.Editing {
		return nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// Render draws the panel body for the given level set.
func (p *ContourPanel) Render(width int, ls *view.LevelSet) string {
	t := p.theme
	var b strings.Builder

	b.WriteString(t.PanelTitle.Render("Contours"))
	b.WriteString("\n")

	if ls.Empty() {
		b.WriteString(t.HintText.Render("none"))
		b.WriteString("\n")
	} else {
		selected := ls.Selected()
		for i, s := range ls.Strings() {
			line := fmt.Sprintf("%2d  %s", i, s)
			if i == selected {
				b.WriteString(t.ListItemSelected.Render("› " + line))
			} else {
				b.WriteString(t.ListItem.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}

	if p.Editing {
		p.input.Width = width - 4
		b.WriteString(p.input.View())
		b.WriteString("\n")
	} else {
		b.WriteString(t.HintText.Render("c add · d del · a auto · x clear"))
	}

	return b.String()
}
