// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// InvalidContourError reports a contour token that failed numeric parsing.
// The whole add operation it belonged to was rejected.
type InvalidContourError struct {
	Token string
}

func (e *InvalidContourError) Error() string {
	return fmt.Sprintf("invalid contour level %q", e.Token)
}

// contourLevel pairs a parsed level with its identity key and the text
// the user typed. Equality runs on the canonical key, never on floats.
type contourLevel struct {
	key     string // canonical decimal form, the de-duplication identity
	display string // first-seen user spelling, shown in the editor
	value   float64
}

// canonicalKey formats a level value in its shortest exact decimal form,
// so "1", "1.0" and "1.00" all collapse to one identity.
func canonicalKey(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// LevelSet is the ordered, de-duplicated list of contour levels. Levels
// stay sorted ascending regardless of insertion order; an empty set means
// no contours are drawn. A selection index tracks the level highlighted
// in the editor.
type LevelSet struct {
	levels   []contourLevel
	selected int
}

// NewLevelSet returns an empty level set with no selection.
func NewLevelSet() *LevelSet {
	return &LevelSet{selected: -1}
}

// Len returns the number of levels.
func (ls *LevelSet) Len() int { return len(ls.levels) }

// Empty reports whether no contours are configured.
func (ls *LevelSet) Empty() bool { return len(ls.levels) == 0 }

// Levels returns the level values in ascending order. The slice is a
// copy; mutating it does not affect the set. An empty set returns nil so
// renderers can treat "no contours" as a nil level list.
func (ls *LevelSet) Levels() []float64 {
	if len(ls.levels) == 0 {
		return nil
	}
	out := make([]float64, len(ls.levels))
	for i, l := range ls.levels {
		out[i] = l.value
	}
	return out
}

// Strings returns the display spellings in ascending value order.
func (ls *LevelSet) Strings() []string {
	out := make([]string, len(ls.levels))
	for i, l := range ls.levels {
		out[i] = l.display
	}
	return out
}

// Selected returns the index of the highlighted level, or -1 when the set
// is empty.
func (ls *LevelSet) Selected() int { return ls.selected }

// Select moves the highlight, clamping into range.
func (ls *LevelSet) Select(i int) {
	ls.selected = ls.clampSelection(i)
}

func (ls *LevelSet) clampSelection(i int) int {
	if len(ls.levels) == 0 {
		return -1
	}
	if i < 0 {
		return 0
	}
	if i > len(ls.levels)-1 {
		return len(ls.levels) - 1
	}
	return i
}

// Add parses a comma-separated list of levels and merges them into the
// set. Parsing is all-or-nothing: one malformed token rejects the whole
// input and leaves the set untouched. Duplicate values, including ones
// spelled differently, are dropped. The selection moves to the first
// newly added level; an input of only duplicates leaves it unchanged.
func (ls *LevelSet) Add(input string) error {
	var parsed []contourLevel
	for _, tok := range strings.Split(input, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return &InvalidContourError{Token: tok}
		}
		parsed = append(parsed, contourLevel{key: canonicalKey(v), display: tok, value: v})
	}
	ls.merge(parsed)
	return nil
}

// AddValues merges already-numeric levels, formatting their display form
// canonically. Non-finite values are rejected without touching the set.
func (ls *LevelSet) AddValues(values ...float64) error {
	parsed := make([]contourLevel, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &InvalidContourError{Token: canonicalKey(v)}
		}
		key := canonicalKey(v)
		parsed = append(parsed, contourLevel{key: key, display: key, value: v})
	}
	ls.merge(parsed)
	return nil
}

func (ls *LevelSet) merge(parsed []contourLevel) {
	present := make(map[string]bool, len(ls.levels))
	for _, l := range ls.levels {
		present[l.key] = true
	}

	firstNew := ""
	for _, l := range parsed {
		if present[l.key] {
			continue
		}
		present[l.key] = true
		ls.levels = append(ls.levels, l)
		if firstNew == "" {
			firstNew = l.key
		}
	}

	sort.Slice(ls.levels, func(i, j int) bool {
		return ls.levels[i].value < ls.levels[j].value
	})

	if firstNew != "" {
		for i, l := range ls.levels {
			if l.key == firstNew {
				ls.selected = i
				break
			}
		}
	} else {
		ls.selected = ls.clampSelection(ls.selected)
	}
}

// Remove deletes the level at the given position and reports whether
// anything was removed. The selection is clamped back into range.
func (ls *LevelSet) Remove(i int) bool {
	if i < 0 || i > len(ls.levels)-1 {
		return false
	}
	ls.levels = append(ls.levels[:i], ls.levels[i+1:]...)
	ls.selected = ls.clampSelection(ls.selected)
	return true
}

// Clear drops every level and the selection.
func (ls *LevelSet) Clear() {
	ls.levels = nil
	ls.selected = -1
}
