// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jeranaias/cubetui/internal/wcs"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing config file should not be an error: %v", err)
	}
	if cfg.Palette != "viridis" {
		t.Errorf("expected defaults, got palette %q", cfg.Palette)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "palette = \"inferno\"\nframe = \"galactic\"\nlinked = false\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Palette != "inferno" {
		t.Errorf("palette = %q, want inferno", cfg.Palette)
	}
	if cfg.DisplayFrame() != wcs.FrameGalactic {
		t.Errorf("frame = %v, want galactic", cfg.DisplayFrame())
	}
	if cfg.Linked {
		t.Error("linked should be false from file")
	}
	// Unset keys keep defaults.
	if cfg.IsoFraction != 0.5 {
		t.Errorf("iso_fraction = %v, want default 0.5", cfg.IsoFraction)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CUBETUI_PALETTE", "gray")
	t.Setenv("CUBETUI_DEBUG", "true")
	t.Setenv("CUBETUI_SCATTER_CUTOFF", "0.5")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Palette != "gray" {
		t.Errorf("palette = %q, want gray", cfg.Palette)
	}
	if !cfg.Debug {
		t.Error("CUBETUI_DEBUG=true should enable debug")
	}
	if cfg.ScatterCutoff != 0.5 {
		t.Errorf("scatter_cutoff = %v, want 0.5", cfg.ScatterCutoff)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("palette = \"inferno\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CUBETUI_PALETTE", "plasma")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Palette != "plasma" {
		t.Errorf("environment should win over file, got %q", cfg.Palette)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown palette", func(c *Config) { c.Palette = "nope" }},
		{"unknown frame", func(c *Config) { c.Frame = "barycentric" }},
		{"cutoff at one", func(c *Config) { c.ScatterCutoff = 1.0 }},
		{"negative cutoff", func(c *Config) { c.ScatterCutoff = -0.1 }},
		{"iso fraction zero", func(c *Config) { c.IsoFraction = 0 }},
		{"negative debounce", func(c *Config) { c.ReloadDebounce = -1 }},
		{"zero reload cap", func(c *Config) { c.MaxReloadPerSec = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := Default()
	cfg.Palette = "plasma"
	cfg.Frame = "ecliptic"
	cfg.WatchReload = false
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	back, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if back.Palette != "plasma" || back.Frame != "ecliptic" || back.WatchReload {
		t.Errorf("round trip mismatch: %+v", back)
	}
}

func TestDirOverride(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/tmp/cubes"
	if cfg.Dir() != "/tmp/cubes" {
		t.Errorf("Dir() = %q", cfg.Dir())
	}
	if cfg.ViewsDBPath() != filepath.Join("/tmp/cubes", "views.db") {
		t.Errorf("ViewsDBPath() = %q", cfg.ViewsDBPath())
	}
}
