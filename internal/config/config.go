// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/cubetui/internal/render"
	"github.com/jeranaias/cubetui/internal/util"
	"github.com/jeranaias/cubetui/internal/wcs"
)

// =============================================================================
// CONFIG TYPE
// =============================================================================

// Config holds every user-tunable setting. Zero values are never used
// directly; start from Default and layer file and environment on top.
type Config struct {
	// Display settings.
	Palette string `toml:"palette"` // heatmap colormap name
	Frame   string `toml:"frame"`   // startup readout frame

	// 3D companion view.
	Linked        bool    `toml:"linked"`         // start with linked projections
	ScatterCutoff float64 `toml:"scatter_cutoff"` // voxel intensity cutoff fraction [0,1)
	IsoFraction   float64 `toml:"iso_fraction"`   // default iso-surface level fraction (0,1)

	// Live reload of the loaded cube file.
	WatchReload     bool `toml:"watch_reload"`
	ReloadDebounce  int  `toml:"reload_debounce_ms"`
	MaxReloadPerSec int  `toml:"max_reloads_per_sec"` // rate cap on watcher-driven rebuilds

	// Paths. Empty DataDir means ~/.cubetui.
	DataDir   string `toml:"data_dir"`
	ExportDir string `toml:"export_dir"`

	// Debugging.
	Debug bool `toml:"debug"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Palette:         "viridis",
		Frame:           "equatorial",
		Linked:          true,
		ScatterCutoff:   0.35,
		IsoFraction:     0.5,
		WatchReload:     true,
		ReloadDebounce:  400,
		MaxReloadPerSec: 2,
		DataDir:         "",
		ExportDir:       ".",
		Debug:           false,
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the resolved data directory, ~/.cubetui unless overridden.
func (c *Config) Dir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cubetui"
	}
	return filepath.Join(home, ".cubetui")
}

// Path returns the config file location inside the data directory.
func (c *Config) Path() string {
	return filepath.Join(c.Dir(), "config.toml")
}

// ViewsDBPath returns the saved-view SQLite database location.
func (c *Config) ViewsDBPath() string {
	return filepath.Join(c.Dir(), "views.db")
}

// DebugLogPath returns the debug log location.
func (c *Config) DebugLogPath() string {
	return filepath.Join(c.Dir(), "debug.log")
}

// HistoryPath returns the interactive shell history location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Dir(), "shell_history")
}

// =============================================================================
// LOADING
// =============================================================================

// Load builds the effective configuration: defaults, then the config file
// if present, then CUBETUI_* environment overrides, then validation. A
// missing config file is not an error.
func Load() (*Config, error) {
	cfg := Default()
	return cfg, cfg.finish(cfg.Path())
}

// LoadFrom is Load with an explicit config file path, for tests and the
// --config flag.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	return cfg, cfg.finish(path)
}

func (c *Config) finish(path string) error {
	if data, err := os.ReadFile(path); err == nil {
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	c.applyEnv()
	return c.Validate()
}

// applyEnv overlays CUBETUI_* environment variables. Unset variables
// leave the current value alone; malformed numerics are ignored rather
// than fatal.
func (c *Config) applyEnv() {
	if v := os.Getenv("CUBETUI_PALETTE"); v != "" {
		c.Palette = v
	}
	if v := os.Getenv("CUBETUI_FRAME"); v != "" {
		c.Frame = v
	}
	if v := os.Getenv("CUBETUI_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("CUBETUI_EXPORT_DIR"); v != "" {
		c.ExportDir = v
	}
	if v := os.Getenv("CUBETUI_DEBUG"); v != "" {
		c.Debug = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("CUBETUI_WATCH"); v != "" {
		c.WatchReload = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("CUBETUI_SCATTER_CUTOFF"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.ScatterCutoff = f
		}
	}
	if v := os.Getenv("CUBETUI_ISO_FRACTION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.IsoFraction = f
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks that every setting names something the application can
// actually use.
func (c *Config) Validate() error {
	if _, err := render.ParseColormap(c.Palette); err != nil {
		return fmt.Errorf("invalid palette: %w", err)
	}
	if _, err := wcs.ParseFrame(c.Frame); err != nil {
		return fmt.Errorf("invalid frame: %w", err)
	}
	if c.ScatterCutoff < 0 || c.ScatterCutoff >= 1 {
		return fmt.Errorf("scatter_cutoff %v out of range [0,1)", c.ScatterCutoff)
	}
	if c.IsoFraction <= 0 || c.IsoFraction >= 1 {
		return fmt.Errorf("iso_fraction %v out of range (0,1)", c.IsoFraction)
	}
	if c.ReloadDebounce < 0 {
		return fmt.Errorf("reload_debounce_ms must not be negative, got %d", c.ReloadDebounce)
	}
	if c.MaxReloadPerSec < 1 {
		return fmt.Errorf("max_reloads_per_sec must be at least 1, got %d", c.MaxReloadPerSec)
	}
	return nil
}

// DisplayFrame returns the startup frame as the parsed selector. Validate
// must have passed for the value to be meaningful.
func (c *Config) DisplayFrame() wcs.Frame {
	f, err := wcs.ParseFrame(c.Frame)
	if err != nil {
		return wcs.FrameEquatorial
	}
	return f
}

// Colormap returns the configured palette. Validate must have passed for
// the value to be meaningful.
func (c *Config) Colormap() render.Colormap {
	m, err := render.ParseColormap(c.Palette)
	if err != nil {
		return render.DefaultColormap()
	}
	return m
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to its TOML file atomically.
func (c *Config) Save() error {
	return c.SaveTo(c.Path())
}

// SaveTo writes the configuration to the given path atomically.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	buf.WriteString("# cubetui configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
