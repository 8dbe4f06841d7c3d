// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewTheme(t *testing.T) {
	th := NewTheme(100, 30)
	if th.Width != 100 || th.Height != 30 {
		t.Errorf("dimensions = %dx%d, want 100x30", th.Width, th.Height)
	}
	out := th.HeaderTitle.Render("cubetui")
	if out == "" {
		t.Error("styled render is empty")
	}
}

func TestThemeResize(t *testing.T) {
	th := NewTheme(80, 24)
	header := th.Header
	th.Resize(120, 40)
	if th.Width != 120 || th.Height != 40 {
		t.Errorf("dimensions = %dx%d after resize", th.Width, th.Height)
	}
	// Resize adjusts layout only; styles are not rebuilt.
	if th.Header.GetPaddingLeft() != header.GetPaddingLeft() {
		t.Error("resize must not rebuild styles")
	}
}
